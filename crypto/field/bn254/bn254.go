// Package bn254 implements field.Element over the BN254 scalar field using
// gnark-crypto.
package bn254

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/davinci-voteproof/crypto/field"
	"github.com/vocdoni/davinci-voteproof/types"
)

// FieldType is the identifier for the BN254 scalar field implementation
const FieldType = "bn254"

// Element is an element of the BN254 scalar field.
type Element struct {
	inner fr.Element
}

// NewElement returns a new zero element.
func NewElement() *Element {
	return &Element{}
}

// FromFr wraps a gnark-crypto scalar.
func FromFr(v *fr.Element) *Element {
	return &Element{inner: *v}
}

// New returns a new zero element.
func (e *Element) New() field.Element {
	return &Element{}
}

// Modulus returns the BN254 scalar field modulus.
func (e *Element) Modulus() *big.Int {
	return fr.Modulus()
}

// ByteLen returns the canonical encoding length (32).
func (e *Element) ByteLen() int {
	return fr.Bytes
}

// Add sets the receiver to a + b.
func (e *Element) Add(a, b field.Element) {
	e.inner.Add(&a.(*Element).inner, &b.(*Element).inner)
}

// Neg sets the receiver to -a.
func (e *Element) Neg(a field.Element) {
	e.inner.Neg(&a.(*Element).inner)
}

// SetUint64 embeds v into the field.
func (e *Element) SetUint64(v uint64) {
	e.inner.SetUint64(v)
}

// SetCanonicalBytes decodes a 32 byte little-endian value lower than the
// modulus.
func (e *Element) SetCanonicalBytes(buf []byte) error {
	if len(buf) != fr.Bytes {
		return fmt.Errorf("%w: field element must be %d bytes, got %d", types.ErrSerialization, fr.Bytes, len(buf))
	}
	v, err := fr.LittleEndian.Element((*[fr.Bytes]byte)(buf))
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	e.inner = v
	return nil
}

// Bytes returns the 32 byte little-endian canonical encoding.
func (e *Element) Bytes() []byte {
	var b [fr.Bytes]byte
	fr.LittleEndian.PutElement(&b, e.inner)
	return b[:]
}

// Equal reports whether both elements are equal.
func (e *Element) Equal(a field.Element) bool {
	return e.inner.Equal(&a.(*Element).inner)
}

// BigInt returns the canonical representative.
func (e *Element) BigInt() *big.Int {
	return e.inner.BigInt(new(big.Int))
}

// String returns the decimal representation.
func (e *Element) String() string {
	return e.inner.String()
}

// Fr returns a copy of the underlying gnark-crypto scalar.
func (e *Element) Fr() fr.Element {
	return e.inner
}
