// Package field defines the capability the vote commitment and the wire
// encoding need from the proof system scalar field. Any pairing friendly
// curve library can provide it; the bn254 subpackage wraps gnark-crypto.
package field

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/vocdoni/davinci-voteproof/types"
)

// Element is a scalar of a prime field. Arithmetic methods store the result
// in the receiver.
type Element interface {
	// New returns a new zero element of the same field.
	New() Element

	// Modulus returns the field modulus.
	Modulus() *big.Int

	// ByteLen returns the length of the canonical encoding. It depends on
	// the modulus only, never on the value.
	ByteLen() int

	// Add sets the receiver to a + b.
	Add(a, b Element)

	// Neg sets the receiver to -a.
	Neg(a Element)

	// SetUint64 embeds an integer into the field.
	SetUint64(v uint64)

	// SetCanonicalBytes decodes a little-endian canonical encoding. It fails
	// if the length is not ByteLen or the value is not lower than the
	// modulus.
	SetCanonicalBytes(buf []byte) error

	// Bytes returns the little-endian canonical encoding (ByteLen bytes).
	Bytes() []byte

	// Equal reports whether both elements hold the same value.
	Equal(a Element) bool

	// BigInt returns the canonical integer representative in [0, modulus).
	BigInt() *big.Int

	// String returns the decimal representation of the element.
	String() string
}

// HashToField sets dst to the SHA-256 digest of data reduced to fit strictly
// inside the field: the top byte of the digest is cleared and the remaining
// bytes are read as a little-endian integer, so the result is below 2^248.
func HashToField(dst Element, data []byte) error {
	digest := sha256.Sum256(data)
	digest[len(digest)-1] = 0
	if dst.ByteLen() < len(digest) {
		return fmt.Errorf("field encoding of %d bytes is too small for the digest", dst.ByteLen())
	}
	buf := make([]byte, dst.ByteLen())
	copy(buf, digest[:])
	return dst.SetCanonicalBytes(buf)
}

// EncodeHex returns the hex encoding (without prefix) of the canonical bytes
// of e.
func EncodeHex(e Element) string {
	return hex.EncodeToString(e.Bytes())
}

// DecodeHex sets dst from a hex encoded canonical encoding. Malformed hex,
// truncated input and out of range values are reported as
// types.ErrSerialization.
func DecodeHex(dst Element, s string) error {
	buf, err := types.HexStringToHexBytes(s)
	if err != nil {
		return err
	}
	if len(buf) != dst.ByteLen() {
		return fmt.Errorf("%w: field element must be %d bytes, got %d",
			types.ErrSerialization, dst.ByteLen(), len(buf))
	}
	return dst.SetCanonicalBytes(buf)
}
