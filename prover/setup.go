package prover

import (
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/vocdoni/davinci-voteproof/circuits"
	"github.com/vocdoni/davinci-voteproof/circuits/voteproof"
	"github.com/vocdoni/davinci-voteproof/log"
	"github.com/vocdoni/davinci-voteproof/types"
)

// KeyPair is the immutable proving/verifying key pair of the vote circuit,
// bundled with the compiled constraint system. It is safe for concurrent
// use.
type KeyPair struct {
	*Verifier

	domain uint64
	ccs    constraint.ConstraintSystem
	pk     *groth16_bn254.ProvingKey
	opts   options
}

// Setup compiles the vote circuit and generates a fresh key pair for the
// given max choice domain. The domain only labels the keys: the circuit
// shape does not depend on it.
//
// This is a single party setup. The calling process sees all the secret
// setup randomness and could forge proofs, so the resulting keys are meant
// for development and testing, never for a production deployment.
func Setup(domain uint64, opts ...Option) (*KeyPair, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if domain == 0 {
		return nil, fmt.Errorf("%w: max choice domain must be positive", types.ErrInvalidParameters)
	}
	ccs, err := voteproof.Compile()
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	log.Warnw("running single party trusted setup, keys must not be used in production",
		"domain", domain, "constraints", ccs.GetNbConstraints())
	startTime := time.Now()
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("%w: groth16 setup: %v", types.ErrProofGeneration, err)
	}
	bpk, bvk, err := concreteKeys(pk, vk)
	if err != nil {
		return nil, err
	}
	delta, err := randomScalar(o.rand.Reader())
	if err != nil {
		return nil, fmt.Errorf("%w: setup: %v", types.ErrProofGeneration, err)
	}
	if err := contributeDelta(bpk, bvk, delta); err != nil {
		return nil, fmt.Errorf("%w: setup: %v", types.ErrProofGeneration, err)
	}

	kp, err := newKeyPair(domain, ccs, bpk, bvk, o)
	if err != nil {
		return nil, err
	}
	circuitHash, err := circuits.HashArtifact(ccs)
	if err != nil {
		return nil, err
	}
	log.Infow("vote circuit setup done",
		"domain", domain,
		"circuitHash", circuitHash,
		"fingerprint", kp.Fingerprint(),
		"took", time.Since(startTime).String())
	return kp, nil
}

// LoadKeys imports a key pair previously exported with ExportProvingKey and
// ExportVerifyingKey. The vote circuit is compiled again unless
// WithConstraintSystem provides it. Malformed bytes fail with types.ErrSerialization and
// keys that do not belong together or to the vote circuit fail with
// types.ErrInvalidParameters.
func LoadKeys(provingKey, verifyingKey []byte, opts ...Option) (*KeyPair, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pk, err := decodeProvingKey(provingKey)
	if err != nil {
		return nil, err
	}
	vk, err := decodeVerifyingKey(verifyingKey)
	if err != nil {
		return nil, err
	}
	ccs := o.ccs
	if ccs == nil {
		if ccs, err = voteproof.Compile(); err != nil {
			return nil, fmt.Errorf("load keys: %w", err)
		}
	} else if ccs.GetNbPublicVariables() != types.VoteProofPublicInputs+1 {
		return nil, fmt.Errorf("%w: constraint system has %d public variables, vote proofs need %d",
			types.ErrInvalidParameters, ccs.GetNbPublicVariables(), types.VoteProofPublicInputs+1)
	}
	return newKeyPair(0, ccs, pk, vk, o)
}

// NewProvingKey instantiates an empty proving key for the vote circuit
// curve, ready to be read from its serialized form.
func NewProvingKey() groth16.ProvingKey {
	return groth16.NewProvingKey(voteproof.Curve)
}

// NewVerifyingKey instantiates an empty verifying key for the vote circuit
// curve.
func NewVerifyingKey() groth16.VerifyingKey {
	return groth16.NewVerifyingKey(voteproof.Curve)
}

func newKeyPair(
	domain uint64,
	ccs constraint.ConstraintSystem,
	pk *groth16_bn254.ProvingKey,
	vk *groth16_bn254.VerifyingKey,
	o options,
) (*KeyPair, error) {
	if !pk.G1.Alpha.Equal(&vk.G1.Alpha) ||
		!pk.G1.Delta.Equal(&vk.G1.Delta) ||
		!pk.G2.Delta.Equal(&vk.G2.Delta) {
		return nil, fmt.Errorf("%w: proving and verifying keys do not match", types.ErrInvalidParameters)
	}
	v, err := NewVerifier(vk)
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		Verifier: v,
		domain:   domain,
		ccs:      ccs,
		pk:       pk,
		opts:     o,
	}, nil
}

// Domain returns the max choice domain the keys were generated for, or 0
// for imported keys.
func (kp *KeyPair) Domain() uint64 {
	return kp.domain
}

// ProvingKey returns the proving key. It must not be modified.
func (kp *KeyPair) ProvingKey() groth16.ProvingKey {
	return kp.pk
}

// ConstraintSystem returns the compiled vote circuit.
func (kp *KeyPair) ConstraintSystem() constraint.ConstraintSystem {
	return kp.ccs
}

func concreteKeys(pk groth16.ProvingKey, vk groth16.VerifyingKey) (*groth16_bn254.ProvingKey, *groth16_bn254.VerifyingKey, error) {
	bpk, ok := pk.(*groth16_bn254.ProvingKey)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unexpected proving key type %T", types.ErrInvalidParameters, pk)
	}
	bvk, ok := vk.(*groth16_bn254.VerifyingKey)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unexpected verifying key type %T", types.ErrInvalidParameters, vk)
	}
	return bpk, bvk, nil
}

// contributeDelta replaces δ by s·δ in both keys. The proving key terms
// divided by δ (the H polynomial basis Z and the private wires basis K) are
// scaled by 1/s so the keys stay consistent.
func contributeDelta(pk *groth16_bn254.ProvingKey, vk *groth16_bn254.VerifyingKey, s fr.Element) error {
	var sInv fr.Element
	sInv.Inverse(&s)
	sBig := s.BigInt(new(big.Int))
	sInvBig := sInv.BigInt(new(big.Int))

	pk.G1.Delta.ScalarMultiplication(&pk.G1.Delta, sBig)
	pk.G2.Delta.ScalarMultiplication(&pk.G2.Delta, sBig)
	for i := range pk.G1.Z {
		pk.G1.Z[i].ScalarMultiplication(&pk.G1.Z[i], sInvBig)
	}
	for i := range pk.G1.K {
		pk.G1.K[i].ScalarMultiplication(&pk.G1.K[i], sInvBig)
	}

	vk.G1.Delta = pk.G1.Delta
	vk.G2.Delta = pk.G2.Delta
	return vk.Precompute()
}
