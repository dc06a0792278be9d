package types

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the circuit, prover and verifier packages. All
// failures are returned wrapped with one of these sentinels so callers can
// use errors.Is to classify them.
var (
	// ErrSynthesis is returned when the circuit assignment is malformed or
	// incomplete.
	ErrSynthesis = errors.New("circuit synthesis error")
	// ErrUnsatisfied is returned when an assignment does not satisfy the
	// circuit constraints.
	ErrUnsatisfied = errors.New("constraints not satisfied")
	// ErrProofGeneration is returned when the proving algorithm cannot
	// produce a proof.
	ErrProofGeneration = errors.New("proof generation failed")
	// ErrVerificationFailed is returned when the verification algorithm
	// cannot evaluate the proof. A well-formed but invalid proof is not an
	// error, it verifies as false.
	ErrVerificationFailed = errors.New("proof verification failed")
	// ErrInvalidParameters is returned for public inputs of the wrong shape.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrSerialization is returned for malformed byte or hex encodings.
	ErrSerialization = errors.New("serialization error")
	// ErrInvalidChoice is returned when the choice is out of range.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrInvalidCommitment is returned when a revealed vote does not open
	// the published commitment.
	ErrInvalidCommitment = errors.New("invalid commitment")
)

// InvalidChoiceError reports a choice outside of [0, MaxChoice).
type InvalidChoiceError struct {
	Choice    uint64
	MaxChoice uint64
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("%s: %d >= max %d", ErrInvalidChoice, e.Choice, e.MaxChoice)
}

func (e *InvalidChoiceError) Unwrap() error {
	return ErrInvalidChoice
}
