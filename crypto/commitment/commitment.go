// Package commitment implements the vote commitment shared by the witness
// generation and the circuit:
//
//	commitment = choice + H(nonce) + H(voter)
//
// where H is field.HashToField (SHA-256, top byte cleared, little-endian) and
// the additions happen in the BN254 scalar field.
//
// The additive combination is a placeholder: it is not collision resistant
// and must not be relied on as a hiding or binding commitment. It is kept
// as is because the circuit enforces exactly this relation; replacing it
// requires an algebraic hash gadget on both sides.
package commitment

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/davinci-voteproof/crypto/field"
	"github.com/vocdoni/davinci-voteproof/crypto/field/bn254"
	"github.com/vocdoni/davinci-voteproof/types"
)

// NonceSize is the length in bytes of the vote nonce.
const NonceSize = 32

// Inputs holds the three field elements the commitment is made of. They are
// also the private inputs of the vote circuit.
type Inputs struct {
	Choice field.Element
	Nonce  field.Element
	Voter  field.Element
}

// NewInputs maps the raw vote data into field elements of the same field as
// dst.
func NewInputs(dst field.Element, choice uint64, nonce, voter []byte) (*Inputs, error) {
	in := &Inputs{
		Choice: dst.New(),
		Nonce:  dst.New(),
		Voter:  dst.New(),
	}
	in.Choice.SetUint64(choice)
	if err := field.HashToField(in.Nonce, nonce); err != nil {
		return nil, fmt.Errorf("hash nonce: %w", err)
	}
	if err := field.HashToField(in.Voter, voter); err != nil {
		return nil, fmt.Errorf("hash voter: %w", err)
	}
	return in, nil
}

// Sum sets dst to choice + nonce + voter and returns it.
func (in *Inputs) Sum(dst field.Element) field.Element {
	dst.Add(in.Choice, in.Nonce)
	dst.Add(dst, in.Voter)
	return dst
}

// BN254Inputs returns the BN254 field inputs for the vote. Hashing into
// BN254 cannot fail since the digest is always below the modulus.
func BN254Inputs(choice uint64, nonce [NonceSize]byte, voter common.Address) *Inputs {
	in, err := NewInputs(bn254.NewElement(), choice, nonce[:], voter.Bytes())
	if err != nil {
		panic(fmt.Sprintf("unreachable: %v", err))
	}
	return in
}

// Commit returns the commitment of the vote over the BN254 scalar field.
func Commit(choice uint64, nonce [NonceSize]byte, voter common.Address) *bn254.Element {
	in := BN254Inputs(choice, nonce, voter)
	return in.Sum(bn254.NewElement()).(*bn254.Element)
}

// RandomNonce reads a fresh nonce from r.
func RandomNonce(r io.Reader) ([NonceSize]byte, error) {
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(r, nonce[:]); err != nil {
		return nonce, fmt.Errorf("read nonce: %w", err)
	}
	return nonce, nil
}

// NewVoteCommitment draws a nonce from r and returns the data the voter has
// to keep to reveal the vote later.
func NewVoteCommitment(choice uint64, voter common.Address, r io.Reader) (*types.VoteCommitment, error) {
	nonce, err := RandomNonce(r)
	if err != nil {
		return nil, err
	}
	return NewVoteCommitmentWithNonce(choice, nonce, voter), nil
}

// NewVoteCommitmentWithNonce returns the reveal data of a vote whose nonce
// is already chosen.
func NewVoteCommitmentWithNonce(choice uint64, nonce [NonceSize]byte, voter common.Address) *types.VoteCommitment {
	return &types.VoteCommitment{
		Commitment: field.EncodeHex(Commit(choice, nonce, voter)),
		Choice:     choice,
		Nonce:      types.HexBytes(nonce[:]),
		Voter:      voter,
	}
}

// VoteNonce returns the nonce of vc. It fails with types.ErrSerialization if
// the nonce is not NonceSize bytes long.
func VoteNonce(vc *types.VoteCommitment) ([NonceSize]byte, error) {
	var nonce [NonceSize]byte
	if len(vc.Nonce) != NonceSize {
		return nonce, fmt.Errorf("%w: nonce must be %d bytes, got %d", types.ErrSerialization, NonceSize, len(vc.Nonce))
	}
	copy(nonce[:], vc.Nonce)
	return nonce, nil
}

// Open checks that the revealed choice, nonce and voter of vc match its
// published commitment. It returns types.ErrInvalidCommitment on mismatch
// and types.ErrSerialization if the commitment or the nonce are malformed.
func Open(vc *types.VoteCommitment) error {
	if vc == nil {
		return fmt.Errorf("%w: nil vote commitment", types.ErrInvalidParameters)
	}
	nonce, err := VoteNonce(vc)
	if err != nil {
		return err
	}
	published := bn254.NewElement()
	if err := field.DecodeHex(published, vc.Commitment); err != nil {
		return err
	}
	if !Commit(vc.Choice, nonce, vc.Voter).Equal(published) {
		return types.ErrInvalidCommitment
	}
	return nil
}
