package testutil

import (
	"encoding/binary"
	"io"
	"math/rand/v2"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// FixedChoice is the choice used by the reference vote fixture.
	FixedChoice = 1
	// FixedMaxChoice is the number of options of the reference vote
	// fixture.
	FixedMaxChoice = 3
)

// FixedNonce returns the nonce of the reference vote fixture: 32 bytes of
// 0x2a.
func FixedNonce() [32]byte {
	var nonce [32]byte
	for i := range nonce {
		nonce[i] = 42
	}
	return nonce
}

// FixedVoter returns the voter of the reference vote fixture: 20 bytes of
// 0x01.
func FixedVoter() common.Address {
	var voter common.Address
	for i := range voter {
		voter[i] = 1
	}
	return voter
}

// DeterministicNonce returns a nonce derived from n.
func DeterministicNonce(n uint64) [32]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return [32]byte(crypto.Keccak256Hash(append([]byte("deterministic-nonce:"), b[:]...)))
}

// DeterministicAddress returns an address derived from n.
func DeterministicAddress(n uint64) common.Address {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)

	prefix := []byte("deterministic-address:")
	h := crypto.Keccak256(append(prefix, b[:]...))
	return common.BytesToAddress(h[12:])
}

// SeededRandomness is a deterministic randomness provider for tests. Every
// call to Reader returns a new stream seeded from the same seed.
type SeededRandomness struct {
	Seed [32]byte
}

// NewSeededRandomness returns a provider seeded from n.
func NewSeededRandomness(n uint64) *SeededRandomness {
	return &SeededRandomness{Seed: DeterministicNonce(n)}
}

// Reader returns a ChaCha8 stream seeded with Seed.
func (s *SeededRandomness) Reader() io.Reader {
	return rand.NewChaCha8(s.Seed)
}
