package types

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// VoteProofPublicInputs is the number of public inputs of a vote proof:
// the commitment followed by the max choice.
const VoteProofPublicInputs = 2

const (
	commitmentInputIndex = iota
	maxChoiceInputIndex
)

// VoteProof is the payload that crosses process boundaries. Proof holds the
// compressed Groth16 proof and PublicInputs the hex encoded canonical
// little-endian bytes of the commitment and the max choice, in that order.
type VoteProof struct {
	Proof        HexBytes `json:"proof" cbor:"0,keyasint"`
	PublicInputs []string `json:"publicInputs" cbor:"1,keyasint"`
}

// CheckArity returns ErrInvalidParameters if the proof does not carry
// exactly VoteProofPublicInputs public inputs.
func (vp *VoteProof) CheckArity() error {
	if vp == nil {
		return fmt.Errorf("%w: nil vote proof", ErrInvalidParameters)
	}
	if len(vp.PublicInputs) != VoteProofPublicInputs {
		return fmt.Errorf("%w: expected %d public inputs (commitment, max_choice), got %d",
			ErrInvalidParameters, VoteProofPublicInputs, len(vp.PublicInputs))
	}
	return nil
}

// Commitment returns the hex encoded commitment public input.
func (vp *VoteProof) Commitment() (string, error) {
	if err := vp.CheckArity(); err != nil {
		return "", err
	}
	return vp.PublicInputs[commitmentInputIndex], nil
}

// MaxChoice returns the hex encoded max choice public input.
func (vp *VoteProof) MaxChoice() (string, error) {
	if err := vp.CheckArity(); err != nil {
		return "", err
	}
	return vp.PublicInputs[maxChoiceInputIndex], nil
}

// Clone returns a deep copy of the vote proof.
func (vp *VoteProof) Clone() *VoteProof {
	if vp == nil {
		return nil
	}
	inputs := make([]string, len(vp.PublicInputs))
	copy(inputs, vp.PublicInputs)
	return &VoteProof{
		Proof:        vp.Proof.Clone(),
		PublicInputs: inputs,
	}
}

// Encode returns the CBOR encoding of the vote proof.
func (vp *VoteProof) Encode() ([]byte, error) {
	data, err := cbor.Marshal(vp)
	if err != nil {
		return nil, fmt.Errorf("%w: encode vote proof: %v", ErrSerialization, err)
	}
	return data, nil
}

// DecodeVoteProof decodes a CBOR encoded vote proof.
func DecodeVoteProof(data []byte) (*VoteProof, error) {
	vp := &VoteProof{}
	if err := cbor.Unmarshal(data, vp); err != nil {
		return nil, fmt.Errorf("%w: decode vote proof: %v", ErrSerialization, err)
	}
	return vp, nil
}
