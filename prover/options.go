package prover

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/constraint"
	"github.com/vocdoni/davinci-voteproof/types"
)

// RandomnessProvider hands out the randomness used by Setup and ProveVote.
// Reader is called once per operation; implementations must not share
// stream state between calls.
type RandomnessProvider interface {
	Reader() io.Reader
}

// SystemRandomness reads from the operating system CSPRNG.
type SystemRandomness struct{}

// Reader returns crypto/rand.Reader.
func (SystemRandomness) Reader() io.Reader {
	return rand.Reader
}

type options struct {
	rand  RandomnessProvider
	prove types.ProverFunc
	ccs   constraint.ConstraintSystem
}

func defaultOptions() options {
	return options{
		rand:  SystemRandomness{},
		prove: CPUProver,
	}
}

// Option configures a KeyPair.
type Option func(*options)

// WithRandomness sets the randomness provider used by setup and proving.
func WithRandomness(r RandomnessProvider) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithProver replaces the Groth16 proving function.
func WithProver(fn types.ProverFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.prove = fn
		}
	}
}

// WithConstraintSystem makes LoadKeys use a previously compiled vote
// circuit (see DecodeConstraintSystem) instead of compiling it again.
func WithConstraintSystem(ccs constraint.ConstraintSystem) Option {
	return func(o *options) {
		if ccs != nil {
			o.ccs = ccs
		}
	}
}

// randomScalar draws a non-zero scalar from r. It reads 48 bytes so the
// modular reduction bias is negligible.
func randomScalar(r io.Reader) (fr.Element, error) {
	var buf [fr.Bytes + 16]byte
	var s fr.Element
	for s.IsZero() {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return s, fmt.Errorf("read randomness: %w", err)
		}
		s.SetBytes(buf[:])
	}
	return s, nil
}
