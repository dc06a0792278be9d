package prover

import (
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/davinci-voteproof/circuits"
	"github.com/vocdoni/davinci-voteproof/circuits/voteproof"
	"github.com/vocdoni/davinci-voteproof/crypto/field"
	"github.com/vocdoni/davinci-voteproof/crypto/field/bn254"
	"github.com/vocdoni/davinci-voteproof/log"
	"github.com/vocdoni/davinci-voteproof/types"
)

type lines = [2][len(curve.LoopCounter)]curve.LineEvaluationAff

// Verifier checks vote proofs against a verifying key. The key is prepared
// once (negated α and the Miller loop lines of β, -γ and -δ) so each check
// only computes the lines of the proof's G2 point. A Verifier is immutable
// and safe for concurrent use.
type Verifier struct {
	vk          *groth16_bn254.VerifyingKey
	alphaNeg    curve.G1Affine
	betaLines   lines
	gammaLines  lines
	deltaLines  lines
	fingerprint string
}

// NewVerifier prepares vk for vote proof verification.
func NewVerifier(vk groth16.VerifyingKey) (*Verifier, error) {
	bvk, ok := vk.(*groth16_bn254.VerifyingKey)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected verifying key type %T", types.ErrInvalidParameters, vk)
	}
	if len(bvk.G1.K) != types.VoteProofPublicInputs+1+len(bvk.CommitmentKeys) {
		return nil, fmt.Errorf("%w: verifying key has %d public input terms, vote proofs need %d",
			types.ErrInvalidParameters, len(bvk.G1.K), types.VoteProofPublicInputs+1)
	}
	vkBytes, err := writeBytes(bvk)
	if err != nil {
		return nil, err
	}
	v := &Verifier{vk: bvk, fingerprint: circuits.HashBytesSHA256(vkBytes)}
	v.alphaNeg.Neg(&bvk.G1.Alpha)
	var gammaNeg, deltaNeg curve.G2Affine
	gammaNeg.Neg(&bvk.G2.Gamma)
	deltaNeg.Neg(&bvk.G2.Delta)
	v.betaLines = curve.PrecomputeLines(bvk.G2.Beta)
	v.gammaLines = curve.PrecomputeLines(gammaNeg)
	v.deltaLines = curve.PrecomputeLines(deltaNeg)
	return v, nil
}

// LoadVerifier prepares a verifier from an exported verifying key.
func LoadVerifier(verifyingKey []byte) (*Verifier, error) {
	vk, err := decodeVerifyingKey(verifyingKey)
	if err != nil {
		return nil, err
	}
	return NewVerifier(vk)
}

// VerifyingKey returns the verifying key. It must not be modified.
func (v *Verifier) VerifyingKey() groth16.VerifyingKey {
	return v.vk
}

// Fingerprint returns the SHA-256 hex digest of the exported verifying key.
func (v *Verifier) Fingerprint() string {
	return v.fingerprint
}

// VerifyVote checks a vote proof. Malformed proofs or public inputs are
// errors (types.ErrSerialization, types.ErrInvalidParameters); a well
// formed proof that does not satisfy the verification equation returns
// false and no error. Proofs the key cannot evaluate fail with
// types.ErrVerificationFailed.
func (v *Verifier) VerifyVote(vp *types.VoteProof) (bool, error) {
	if vp == nil {
		return false, fmt.Errorf("%w: nil vote proof", types.ErrInvalidParameters)
	}
	proof, err := decodeProof(vp.Proof)
	if err != nil {
		return false, err
	}
	if err := vp.CheckArity(); err != nil {
		return false, err
	}
	inputs := make([]fr.Element, len(vp.PublicInputs))
	for i, s := range vp.PublicInputs {
		e := bn254.NewElement()
		if err := field.DecodeHex(e, s); err != nil {
			return false, fmt.Errorf("public input %d: %w", i, err)
		}
		inputs[i] = e.Fr()
	}

	startTime := time.Now()
	var ok bool
	if len(v.vk.CommitmentKeys) > 0 {
		ok, err = v.verifyWithCommitments(proof, inputs)
	} else {
		ok, err = v.pairingCheck(proof, inputs)
	}
	if err != nil {
		return false, err
	}
	log.Debugw("vote proof verified",
		"valid", ok,
		"commitment", vp.PublicInputs[0],
		"took", time.Since(startTime).String())
	return ok, nil
}

// pairingCheck evaluates
//
//	e(A, B) · e(C, -δ) · e(K₀ + Σ wᵢ·Kᵢ, -γ) · e(-α, β) == 1
//
// with a single final exponentiation.
func (v *Verifier) pairingCheck(proof *groth16_bn254.Proof, inputs []fr.Element) (bool, error) {
	if len(proof.Commitments) != 0 || !proof.CommitmentPok.IsInfinity() {
		return false, fmt.Errorf("%w: unexpected commitments in proof", types.ErrVerificationFailed)
	}
	if len(inputs)+1 != len(v.vk.G1.K) {
		return false, fmt.Errorf("%w: got %d public inputs, key expects %d",
			types.ErrVerificationFailed, len(inputs), len(v.vk.G1.K)-1)
	}
	if proof.Ar.IsInfinity() || proof.Bs.IsInfinity() {
		return false, nil
	}

	var kSum curve.G1Affine
	if _, err := kSum.MultiExp(v.vk.G1.K[1:], inputs, ecc.MultiExpConfig{}); err != nil {
		return false, fmt.Errorf("%w: public inputs MSM: %v", types.ErrVerificationFailed, err)
	}
	var acc curve.G1Jac
	acc.FromAffine(&kSum)
	acc.AddMixed(&v.vk.G1.K[0])
	kSum.FromJacobian(&acc)

	ok, err := curve.PairingCheckFixedQ(
		[]curve.G1Affine{proof.Ar, proof.Krs, kSum, v.alphaNeg},
		[]lines{curve.PrecomputeLines(proof.Bs), v.deltaLines, v.gammaLines, v.betaLines},
	)
	if err != nil {
		return false, fmt.Errorf("%w: pairing check: %v", types.ErrVerificationFailed, err)
	}
	return ok, nil
}

// verifyWithCommitments delegates to gnark for keys with Pedersen
// commitments. gnark reports an invalid proof as an error, so every failure
// maps to types.ErrVerificationFailed.
func (v *Verifier) verifyWithCommitments(proof *groth16_bn254.Proof, inputs []fr.Element) (bool, error) {
	if len(inputs) != types.VoteProofPublicInputs {
		return false, fmt.Errorf("%w: got %d public inputs", types.ErrVerificationFailed, len(inputs))
	}
	assignment := &voteproof.VoteProofCircuit{
		Commitment: inputs[0].BigInt(new(big.Int)),
		MaxChoice:  inputs[1].BigInt(new(big.Int)),
	}
	w, err := frontend.NewWitness(assignment, voteproof.Curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("%w: public witness: %v", types.ErrVerificationFailed, err)
	}
	if err := groth16.Verify(proof, v.vk, w); err != nil {
		return false, fmt.Errorf("%w: %v", types.ErrVerificationFailed, err)
	}
	return true, nil
}
