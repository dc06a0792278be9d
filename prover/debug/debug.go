// Package debug provides a prover for tests that runs the gnark test engine
// on the assignment before proving, so constraint failures are reported with
// the failing constraint instead of a bare solver error.
package debug

import (
	"fmt"
	"testing"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/vocdoni/davinci-voteproof/circuits/voteproof"
	"github.com/vocdoni/davinci-voteproof/types"
)

// NewDebugProver creates a prover that checks the assignment with
// test.IsSolved before running groth16.Prove. Unsatisfied assignments are
// returned as errors, so it can also be used with invalid votes.
func NewDebugProver(t *testing.T) types.ProverFunc {
	return func(
		curve ecc.ID,
		ccs constraint.ConstraintSystem,
		pk groth16.ProvingKey,
		assignment frontend.Circuit,
		opts ...backend.ProverOption,
	) (groth16.Proof, error) {
		var placeholder frontend.Circuit
		switch assignment.(type) {
		case *voteproof.VoteProofCircuit:
			placeholder = &voteproof.VoteProofCircuit{}
		default:
			t.Fatalf("unsupported circuit type: %T", assignment)
		}

		startTime := time.Now()
		if err := test.IsSolved(placeholder, assignment, curve.ScalarField()); err != nil {
			t.Logf("debug prover: %T not solved: %v", assignment, err)
			return nil, fmt.Errorf("assignment not solved: %w", err)
		}
		t.Logf("debug prover solved %T, took %s", assignment, time.Since(startTime).String())

		w, err := frontend.NewWitness(assignment, curve.ScalarField())
		if err != nil {
			return nil, fmt.Errorf("failed to create witness: %w", err)
		}
		return groth16.Prove(ccs, pk, w, opts...)
	}
}
