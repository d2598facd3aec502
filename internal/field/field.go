// Package field wraps the bn254 scalar field supplied by gnark-crypto. Field
// arithmetic, inversion and random sampling are borrowed wholesale; this
// package only adds the hex/decimal text conventions the arith and inputs
// file grammars need.
package field

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element is the scalar field F used throughout the pipeline.
type Element = fr.Element

// Zero returns the additive identity.
func Zero() Element {
	var z Element
	return z
}

// One returns the multiplicative identity.
func One() Element {
	var o Element
	o.SetOne()
	return o
}

// FromUint64 builds a field element from a small non-negative constant.
func FromUint64(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// FromHex parses a hexadecimal integer (big-endian, most-significant digit
// first, as used by the arith file's `const-mul-<hex>` operator names and
// the inputs file's `<wireId> <hexValue>` lines) and reduces it modulo the
// scalar field order. An optional "0x"/"0X" prefix is stripped, so input
// values such as "0x1f" and bare digits such as "1f" are both accepted.
func FromHex(s string) (Element, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return Element{}, fmt.Errorf("field: empty hex string")
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return Element{}, fmt.Errorf("field: invalid hex digits %q", s)
	}
	var e Element
	e.SetBigInt(v)
	return e, nil
}

// Inverse returns a^{-1}, or the zero element if a is zero (used by the
// `zerop` gate's witness-time auxiliary variable).
func Inverse(a Element) Element {
	if a.IsZero() {
		return Zero()
	}
	var inv Element
	inv.Inverse(&a)
	return inv
}

// Random samples a uniformly random field element (toxic waste, blinding
// factors κ₁, κ₂, κ₃).
func Random() (Element, error) {
	var e Element
	if _, err := e.SetRandom(); err != nil {
		return Element{}, fmt.Errorf("field: sampling randomness: %w", err)
	}
	return e, nil
}
