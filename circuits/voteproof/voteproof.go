// Package voteproof defines the vote validity circuit: the secret choice is
// lower than the public max choice, and the secret inputs open the public
// commitment.
package voteproof

import (
	"github.com/consensys/gnark/frontend"
)

// VoteProofCircuit is the constraint system of a vote proof. The public
// inputs are allocated in declaration order, so the public witness is
// (Commitment, MaxChoice).
type VoteProofCircuit struct {
	// Choice is the selected option, in [0, MaxChoice).
	Choice frontend.Variable
	// Nonce is HashToField of the 32 byte vote nonce.
	Nonce frontend.Variable
	// Voter is HashToField of the 20 byte voter address.
	Voter frontend.Variable

	Commitment frontend.Variable `gnark:",public"`
	MaxChoice  frontend.Variable `gnark:",public"`
}

// Define declares the circuit constraints.
func (c *VoteProofCircuit) Define(api frontend.API) error {
	// Cmp compares the canonical representatives, so a choice that wraps
	// around the modulus is never lower than MaxChoice.
	api.AssertIsEqual(api.Cmp(c.Choice, c.MaxChoice), -1)
	api.AssertIsEqual(CommitmentHash(api, c.Choice, c.Nonce, c.Voter), c.Commitment)
	return nil
}

// CommitmentHash recomputes the vote commitment inside the circuit. It must
// match commitment.Commit.
func CommitmentHash(api frontend.API, choice, nonce, voter frontend.Variable) frontend.Variable {
	return api.Add(choice, nonce, voter)
}
