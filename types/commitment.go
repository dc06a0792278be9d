package types

import "github.com/ethereum/go-ethereum/common"

// VoteCommitment holds the data a voter keeps after casting a vote, so the
// vote can be revealed once the poll closes. Only Commitment is public
// before the reveal.
type VoteCommitment struct {
	Commitment string         `json:"commitment"`
	Choice     uint64         `json:"choice"`
	Nonce      HexBytes       `json:"nonce"`
	Voter      common.Address `json:"voter"`
}

// EligibilityProof is the shape of a future census membership proof. No
// circuit enforces it yet.
type EligibilityProof struct {
	Proof        HexBytes `json:"proof"`
	PublicInputs []string `json:"publicInputs"`
}

// MerklePath is the path from a leaf to the census root, with Indices
// telling at each level whether the sibling is on the left.
type MerklePath struct {
	Path    []string `json:"path"`
	Indices []bool   `json:"indices"`
}
