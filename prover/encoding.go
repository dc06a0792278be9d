package prover

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/vocdoni/davinci-voteproof/circuits/voteproof"
	"github.com/vocdoni/davinci-voteproof/types"
)

// encodable is implemented by gnark keys and proofs. WriteTo produces the
// compressed encoding.
type encodable interface {
	io.WriterTo
	io.ReaderFrom
}

func writeBytes(src io.WriterTo) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := src.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// readCanonical decodes data into dst and fails unless data is exactly the
// canonical encoding of the decoded value: no trailing bytes, no alternative
// encodings of the same points.
func readCanonical(dst encodable, data []byte, what string) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty %s", types.ErrSerialization, what)
	}
	r := bytes.NewReader(data)
	if _, err := dst.ReadFrom(r); err != nil {
		return fmt.Errorf("%w: decode %s: %v", types.ErrSerialization, what, err)
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes after %s", types.ErrSerialization, r.Len(), what)
	}
	reencoded, err := writeBytes(dst)
	if err != nil {
		return err
	}
	if !bytes.Equal(reencoded, data) {
		return fmt.Errorf("%w: non canonical %s encoding", types.ErrSerialization, what)
	}
	return nil
}

// EncodeProof returns the compressed canonical encoding of a proof.
func EncodeProof(proof groth16.Proof) ([]byte, error) {
	if proof == nil {
		return nil, fmt.Errorf("%w: nil proof", types.ErrSerialization)
	}
	return writeBytes(proof)
}

// DecodeProof decodes a proof produced by EncodeProof.
func DecodeProof(data []byte) (groth16.Proof, error) {
	return decodeProof(data)
}

// compressed point encodings carry their flags in the two top bits of the
// first byte; 0b00 means uncompressed
const pointFlagsMask = 0b11 << 6

// checkProofLayout validates the proof framing before decoding it: A, B and
// C are compressed and the commitments count matches the data length. The
// count drives an allocation in the decoder, so it is bounded here first.
func checkProofLayout(data []byte) error {
	const (
		g1 = curve.SizeOfG1AffineCompressed
		g2 = curve.SizeOfG2AffineCompressed
		// A, B, C, commitments count, commitment proof of knowledge
		minSize = 2*g1 + g2 + 4 + g1
	)
	if len(data) < minSize {
		return fmt.Errorf("%w: proof must be at least %d bytes, got %d", types.ErrSerialization, minSize, len(data))
	}
	for _, offset := range []int{0, g1, g1 + g2} {
		if data[offset]&pointFlagsMask == 0 {
			return fmt.Errorf("%w: uncompressed point at proof offset %d", types.ErrSerialization, offset)
		}
	}
	n := binary.BigEndian.Uint32(data[2*g1+g2:])
	if uint64(len(data)) != uint64(minSize)+uint64(n)*g1 {
		return fmt.Errorf("%w: proof of %d bytes cannot hold %d commitments", types.ErrSerialization, len(data), n)
	}
	return nil
}

func decodeProof(data []byte) (*groth16_bn254.Proof, error) {
	if err := checkProofLayout(data); err != nil {
		return nil, err
	}
	proof := new(groth16_bn254.Proof)
	if err := readCanonical(proof, data, "proof"); err != nil {
		return nil, err
	}
	return proof, nil
}

// DecodeConstraintSystem reads a vote circuit stored with
// circuits.StoreArtifact.
func DecodeConstraintSystem(data []byte) (constraint.ConstraintSystem, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty constraint system", types.ErrSerialization)
	}
	ccs := groth16.NewCS(voteproof.Curve)
	r := bytes.NewReader(data)
	if _, err := ccs.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: decode constraint system: %v", types.ErrSerialization, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after constraint system", types.ErrSerialization, r.Len())
	}
	return ccs, nil
}

func decodeProvingKey(data []byte) (*groth16_bn254.ProvingKey, error) {
	pk := new(groth16_bn254.ProvingKey)
	if err := readCanonical(pk, data, "proving key"); err != nil {
		return nil, err
	}
	return pk, nil
}

func decodeVerifyingKey(data []byte) (*groth16_bn254.VerifyingKey, error) {
	vk := new(groth16_bn254.VerifyingKey)
	if err := readCanonical(vk, data, "verifying key"); err != nil {
		return nil, err
	}
	return vk, nil
}

// ExportProvingKey returns the compressed canonical encoding of the proving
// key.
func (kp *KeyPair) ExportProvingKey() ([]byte, error) {
	return writeBytes(kp.pk)
}

// ExportVerifyingKey returns the compressed canonical encoding of the
// verifying key.
func (v *Verifier) ExportVerifyingKey() ([]byte, error) {
	return writeBytes(v.vk)
}
