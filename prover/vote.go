package prover

import (
	"fmt"
	"io"
	"math/big"
	"time"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/davinci-voteproof/circuits/voteproof"
	"github.com/vocdoni/davinci-voteproof/crypto/commitment"
	"github.com/vocdoni/davinci-voteproof/crypto/field"
	"github.com/vocdoni/davinci-voteproof/crypto/field/bn254"
	"github.com/vocdoni/davinci-voteproof/log"
	"github.com/vocdoni/davinci-voteproof/types"
)

// ProveVote proves that choice is lower than maxChoice and that the returned
// commitment opens to (choice, nonce, voter), without revealing any of them.
// The public inputs of the result are the hex encoded commitment and max
// choice, in that order.
//
// The range is enforced by the circuit only: a choice out of range makes the
// solver fail and the error wraps both types.ErrProofGeneration and an
// *types.InvalidChoiceError.
func (kp *KeyPair) ProveVote(
	choice uint64,
	nonce [commitment.NonceSize]byte,
	voter common.Address,
	maxChoice uint64,
) (*types.VoteProof, error) {
	startTime := time.Now()
	assignment, err := voteproof.Build(voteproof.Assigned{
		Witness: &voteproof.Witness{
			Choice: choice,
			Nonce:  nonce,
			Voter:  voter,
		},
		MaxChoice: maxChoice,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrProofGeneration, err)
	}

	proof, err := kp.opts.prove(voteproof.Curve, kp.ccs, kp.pk, assignment)
	if err != nil {
		if choice >= maxChoice {
			return nil, fmt.Errorf("%w: %w: %v", types.ErrProofGeneration,
				&types.InvalidChoiceError{Choice: choice, MaxChoice: maxChoice}, err)
		}
		return nil, fmt.Errorf("%w: %v", types.ErrProofGeneration, err)
	}
	bproof, ok := proof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected proof type %T", types.ErrProofGeneration, proof)
	}
	if err := rerandomize(bproof, &kp.vk.G2.Delta, kp.opts.rand.Reader()); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrProofGeneration, err)
	}
	proofBytes, err := EncodeProof(bproof)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrProofGeneration, err)
	}

	maxElem := bn254.NewElement()
	maxElem.SetUint64(maxChoice)
	commit := commitment.Commit(choice, nonce, voter)
	vp := &types.VoteProof{
		Proof:        proofBytes,
		PublicInputs: []string{field.EncodeHex(commit), field.EncodeHex(maxElem)},
	}
	log.Debugw("vote proof generated",
		"commitment", vp.PublicInputs[0],
		"maxChoice", maxChoice,
		"took", time.Since(startTime).String())
	return vp, nil
}

// rerandomize maps a valid proof (A, B, C) to the equally valid
//
//	(A/r, r·B + r·s·δ, C + s·A)
//
// for fresh r and s read from rnd.
func rerandomize(proof *groth16_bn254.Proof, delta *curve.G2Affine, rnd io.Reader) error {
	r, err := randomScalar(rnd)
	if err != nil {
		return err
	}
	s, err := randomScalar(rnd)
	if err != nil {
		return err
	}
	var rInv, rs fr.Element
	rInv.Inverse(&r)
	rs.Mul(&r, &s)

	// C + s·A, with the original A
	var sA curve.G1Affine
	sA.ScalarMultiplication(&proof.Ar, s.BigInt(new(big.Int)))
	var c curve.G1Jac
	c.FromAffine(&proof.Krs)
	c.AddMixed(&sA)
	proof.Krs.FromJacobian(&c)

	// r·B + r·s·δ
	var rB, rsDelta curve.G2Affine
	rB.ScalarMultiplication(&proof.Bs, r.BigInt(new(big.Int)))
	rsDelta.ScalarMultiplication(delta, rs.BigInt(new(big.Int)))
	var b curve.G2Jac
	b.FromAffine(&rB)
	b.AddMixed(&rsDelta)
	proof.Bs.FromJacobian(&b)

	proof.Ar.ScalarMultiplication(&proof.Ar, rInv.BigInt(new(big.Int)))
	return nil
}
