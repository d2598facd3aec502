package groth16

import (
	"crypto/sha256"
	"math/big"
	"strconv"

	"github.com/arithzk/unisnark/internal/curve"
	"github.com/arithzk/unisnark/internal/field"
)

// rndGenKeepBytes is how much of each SHA-256 digest feeds a randomness
// wire. The truncation (and the little-endian reduction below) is biased
// modulo the field order; it is kept as-is for wire compatibility with
// already-deployed proofs.
const rndGenKeepBytes = sha256.Size - 3

// DeriveRandomness hashes (i, elem) into one field element per randomness
// wire. Prover and verifier must feed it the same group element (the
// stage-1 commitment plus the derived key's folded spec accumulator) with
// the same canonical text serialization, or verification fails.
func DeriveRandomness(n int, elem curve.G1) []field.Element {
	text := curve.CanonicalText(elem)
	out := make([]field.Element, n)
	for i := 0; i < n; i++ {
		digest := sha256.Sum256([]byte(strconv.Itoa(i) + text))
		out[i] = reduceLittleEndian(digest[:rndGenKeepBytes])
	}
	return out
}

// reduceLittleEndian interprets b as a little-endian nonnegative integer
// and reduces it into the scalar field.
func reduceLittleEndian(b []byte) field.Element {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	var e field.Element
	e.SetBigInt(new(big.Int).SetBytes(be))
	return e
}
