package voteproof

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/davinci-voteproof/crypto/commitment"
	"github.com/vocdoni/davinci-voteproof/crypto/field/bn254"
	"github.com/vocdoni/davinci-voteproof/log"
	"github.com/vocdoni/davinci-voteproof/types"
)

// Curve is the curve the vote proof is built on.
const Curve = ecc.BN254

// Witness is the private data of a vote. It only lives while a proof is
// being built.
type Witness struct {
	Choice uint64
	Nonce  [commitment.NonceSize]byte
	Voter  common.Address
}

// CircuitSpec selects how Build allocates the circuit. It is either
// Structural or Assigned.
type CircuitSpec interface {
	isCircuitSpec()
}

// Structural describes the circuit shape only. It is what setup compiles;
// the constraint system does not depend on MaxChoice.
type Structural struct {
	MaxChoice uint64
}

// Assigned describes a circuit with every private and public value set.
type Assigned struct {
	Witness   *Witness
	MaxChoice uint64
}

func (Structural) isCircuitSpec() {}
func (Assigned) isCircuitSpec()   {}

// Build returns the circuit for spec. An Assigned spec without a witness
// fails with types.ErrSynthesis.
func Build(spec CircuitSpec) (*VoteProofCircuit, error) {
	switch s := spec.(type) {
	case Structural:
		return &VoteProofCircuit{}, nil
	case Assigned:
		if s.Witness == nil {
			return nil, fmt.Errorf("%w: assigned circuit without witness", types.ErrSynthesis)
		}
		in := commitment.BN254Inputs(s.Witness.Choice, s.Witness.Nonce, s.Witness.Voter)
		commit := in.Sum(bn254.NewElement())
		return &VoteProofCircuit{
			Choice:     in.Choice.BigInt(),
			Nonce:      in.Nonce.BigInt(),
			Voter:      in.Voter.BigInt(),
			Commitment: commit.BigInt(),
			MaxChoice:  new(big.Int).SetUint64(s.MaxChoice),
		}, nil
	case nil:
		return nil, fmt.Errorf("%w: nil circuit spec", types.ErrSynthesis)
	default:
		return nil, fmt.Errorf("%w: unknown circuit spec %T", types.ErrSynthesis, spec)
	}
}

// Compile builds the structural circuit as an R1CS over the BN254 scalar
// field.
func Compile() (constraint.ConstraintSystem, error) {
	placeholder, err := Build(Structural{})
	if err != nil {
		return nil, err
	}
	ccs, err := frontend.Compile(Curve.ScalarField(), r1cs.NewBuilder, placeholder)
	if err != nil {
		return nil, fmt.Errorf("%w: compile vote circuit: %v", types.ErrSynthesis, err)
	}
	log.Debugw("vote circuit compiled",
		"constraints", ccs.GetNbConstraints(),
		"publicVariables", ccs.GetNbPublicVariables(),
		"secretVariables", ccs.GetNbSecretVariables())
	return ccs, nil
}

// CheckSatisfied runs the constraint solver on a full assignment. It returns
// types.ErrSynthesis if the assignment cannot be turned into a witness and
// types.ErrUnsatisfied if any constraint does not hold.
func CheckSatisfied(ccs constraint.ConstraintSystem, assignment *VoteProofCircuit) error {
	if assignment == nil {
		return fmt.Errorf("%w: nil assignment", types.ErrSynthesis)
	}
	w, err := frontend.NewWitness(assignment, Curve.ScalarField())
	if err != nil {
		return fmt.Errorf("%w: build witness: %v", types.ErrSynthesis, err)
	}
	if err := ccs.IsSolved(w); err != nil {
		return fmt.Errorf("%w: %v", types.ErrUnsatisfied, err)
	}
	return nil
}
