package groth16

import (
	"fmt"

	"github.com/arithzk/unisnark/internal/curve"
	"github.com/arithzk/unisnark/internal/field"
)

// Verify rebuilds the randomness wires from the proof's commitment, folds
// the statement, randomness and specification linear parts into one G1
// accumulator, and checks the pairing equation
//
//	e(A,B) · e(-CommWitness, δ′·G2) = e(S, γ·G2) · e(C, δ·G2) · e(α·G1, β·G2)
//
// as two double Miller loops with one final exponentiation each. A false
// return is the only signal of a bad proof; no error is raised for it.
func Verify(vk *VerificationKey, ck *DerivedKey, stmt []field.Element, proof *Proof) (bool, error) {
	if len(stmt) != len(vk.GammaStmtG1) {
		return false, fmt.Errorf("groth16: expected %d stmt values, got %d", len(vk.GammaStmtG1), len(stmt))
	}

	commStmt, err := curve.MSMG1(curve.G1{}, vk.GammaStmtG1, stmt)
	if err != nil {
		return false, err
	}
	comm := curve.AddG1(proof.CommWitness, commStmt)

	rnd := DeriveRandomness(vk.NumRnd, curve.AddG1(comm, ck.GammaSpecG1Computed))
	commRnd, err := curve.MSMG1(curve.G1{}, vk.GammaRndG1, rnd)
	if err != nil {
		return false, err
	}

	s := curve.AddG1(commRnd, commStmt)
	s = curve.AddG1(s, ck.GammaSpecG1Computed)

	lhs, err := curve.PairingProduct(
		[]curve.G1{proof.A, curve.NegG1(proof.CommWitness)},
		[]curve.G2{proof.B, vk.DeltaPrimeG2},
	)
	if err != nil {
		return false, err
	}
	rhs, err := curve.PairingProduct(
		[]curve.G1{s, proof.C},
		[]curve.G2{vk.GammaG2, vk.DeltaG2},
	)
	if err != nil {
		return false, err
	}
	rhs.Mul(&rhs, &vk.AlphaBetaGT)

	return lhs.Equal(&rhs), nil
}
