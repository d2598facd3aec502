// Package curve wraps the bn254 groups, pairing and multi-scalar
// multiplication supplied by gnark-crypto. Everything in this file is a
// thin pass-through over the same curve implementation gnark's own groth16
// backend uses; no group arithmetic is implemented here.
package curve

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

type (
	G1     = bn254.G1Affine
	G2     = bn254.G2Affine
	GT     = bn254.GT
	G1Jac  = bn254.G1Jac
	G2Jac  = bn254.G2Jac
	Scalar = fr.Element
)

// Generators returns the bn254 base points for G1 and G2.
func Generators() (G1, G2) {
	_, _, g1, g2 := bn254.Generators()
	return g1, g2
}

// ScalarMulG1 returns s·P.
func ScalarMulG1(p G1, s Scalar) G1 {
	var jac G1Jac
	jac.FromAffine(&p)
	var bi big.Int
	s.BigInt(&bi)
	jac.ScalarMultiplication(&jac, &bi)
	var out G1
	out.FromJacobian(&jac)
	return out
}

// ScalarMulG2 returns s·P.
func ScalarMulG2(p G2, s Scalar) G2 {
	var jac G2Jac
	jac.FromAffine(&p)
	var bi big.Int
	s.BigInt(&bi)
	jac.ScalarMultiplication(&jac, &bi)
	var out G2
	out.FromJacobian(&jac)
	return out
}

// AddG2 returns a+b.
func AddG2(a, b G2) G2 {
	var aj, bj G2Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out G2
	out.FromJacobian(&aj)
	return out
}

// AddG1 returns a+b.
func AddG1(a, b G1) G1 {
	var aj, bj G1Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out G1
	out.FromJacobian(&aj)
	return out
}

// NegG1 returns -a.
func NegG1(a G1) G1 {
	var out G1
	out.Neg(&a)
	return out
}

// MSMG1 computes base + Σ scalars[i]·points[i], the accumulation primitive
// used by the generator, specifier, prover and verifier. An empty points
// slice returns base unchanged.
func MSMG1(base G1, points []G1, scalars []Scalar) (G1, error) {
	if len(points) == 0 {
		return base, nil
	}
	if len(points) != len(scalars) {
		return G1{}, fmt.Errorf("curve: MSM length mismatch: %d points, %d scalars", len(points), len(scalars))
	}
	var acc G1
	if _, err := acc.MultiExp(points, scalars, ecc.MultiExpConfig{}); err != nil {
		return G1{}, fmt.Errorf("curve: MSM failed: %w", err)
	}
	return AddG1(base, acc), nil
}

// MSMG2 computes base + Σ scalars[i]·points[i] over G2, the expensive side
// of the knowledge-commitment accumulations.
func MSMG2(base G2, points []G2, scalars []Scalar) (G2, error) {
	if len(points) == 0 {
		return base, nil
	}
	if len(points) != len(scalars) {
		return G2{}, fmt.Errorf("curve: MSM length mismatch: %d points, %d scalars", len(points), len(scalars))
	}
	var acc G2
	if _, err := acc.MultiExp(points, scalars, ecc.MultiExpConfig{}); err != nil {
		return G2{}, fmt.Errorf("curve: MSM failed: %w", err)
	}
	return AddG2(base, acc), nil
}

// BatchMulG1 computes scalars[i]·G1 for every scalar against the group
// generator, using gnark-crypto's window-table batch exponentiation.
func BatchMulG1(scalars []Scalar) []G1 {
	if len(scalars) == 0 {
		return nil
	}
	g1, _ := Generators()
	return bn254.BatchScalarMultiplicationG1(&g1, scalars)
}

// BatchMulG2 is BatchMulG1 over the G2 generator.
func BatchMulG2(scalars []Scalar) []G2 {
	if len(scalars) == 0 {
		return nil
	}
	_, g2 := Generators()
	return bn254.BatchScalarMultiplicationG2(&g2, scalars)
}

// PairingProduct evaluates e(p0,q0)·e(p1,q1)·... as a single combined
// Miller loop followed by one final exponentiation.
func PairingProduct(p []G1, q []G2) (GT, error) {
	gt, err := bn254.Pair(p, q)
	if err != nil {
		return GT{}, fmt.Errorf("curve: pairing product failed: %w", err)
	}
	return gt, nil
}

// PairGT computes the target-group element e(a, b) used by the
// verification key.
func PairGT(a G1, b G2) (GT, error) {
	return PairingProduct([]G1{a}, []G2{b})
}

// CanonicalText returns the canonical text form of a G1 element used as
// input to the randomness oracle: a decimal-coordinate pair over the base
// field, "(x,y)", with the point at infinity rendered as "(0,0)". Prover
// and verifier must agree on this byte-for-byte.
func CanonicalText(p G1) string {
	if p.IsInfinity() {
		return "(0,0)"
	}
	return fmt.Sprintf("(%s,%s)", p.X.String(), p.Y.String())
}
