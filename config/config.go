// Package config provides the default parameters of the vote proof tools.
package config

import "runtime"

// Version is the build version, set at build time with -ldflags
var Version = "dev"

const (
	// DefaultMaxChoice is the max choice domain used when none is given.
	DefaultMaxChoice = 3
	// DefaultLogLevel is the log level of the command line tools.
	DefaultLogLevel = "info"
	// DefaultLogOutput is the log output of the command line tools.
	DefaultLogOutput = "stderr"
	// DefaultDatadir is the directory where keys and proofs are written.
	DefaultDatadir = "."

	// ProvingKeyFile is the file name of the exported proving key.
	ProvingKeyFile = "voteproof.pk"
	// VerifyingKeyFile is the file name of the exported verifying key.
	VerifyingKeyFile = "voteproof.vk"
	// ConstraintSystemFile is the file name of the compiled circuit.
	ConstraintSystemFile = "voteproof.ccs"
	// VoteProofFile is the file name of a vote proof.
	VoteProofFile = "voteproof.json"
	// VoteCommitmentFile is the file name of the reveal data of a vote.
	VoteCommitmentFile = "votecommitment.json"
)

// DefaultBatchWorkers is the number of goroutines used to verify batches of
// vote proofs.
var DefaultBatchWorkers = runtime.NumCPU()
