package groth16

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arithzk/unisnark/internal/curve"
	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/qap"
	"github.com/arithzk/unisnark/internal/r1cs"
)

// ProveStage1 commits to the witness and statement before any randomness
// wire has a value. The returned commitment seeds the Fiat-Shamir oracle;
// κ₃ is kept for stage 2, which must open the same commitment.
func ProveStage1(pk *ProvingKey, stmt, witness []field.Element) (*Stage1, error) {
	if len(stmt) != pk.Layout.Stmt.Len() {
		return nil, fmt.Errorf("groth16: expected %d stmt values, got %d", pk.Layout.Stmt.Len(), len(stmt))
	}
	if len(witness) != pk.Layout.Witness.Len() {
		return nil, fmt.Errorf("groth16: expected %d witness values, got %d", pk.Layout.Witness.Len(), len(witness))
	}

	kappa3, err := field.Random()
	if err != nil {
		return nil, err
	}

	evalWitness, err := curve.MSMG1(curve.G1{}, pk.WitnessQuery, witness)
	if err != nil {
		return nil, err
	}
	commWitness := curve.AddG1(curve.ScalarMulG1(pk.DeltaG1, kappa3), evalWitness)

	commStmt, err := curve.MSMG1(curve.G1{}, pk.GammaStmtG1, stmt)
	if err != nil {
		return nil, err
	}

	return &Stage1{
		Kappa3:      kappa3,
		CommWitness: commWitness,
		CommStmt:    commStmt,
		Comm:        curve.AddG1(commWitness, commStmt),
	}, nil
}

// ProveStage2 finishes the proof once every wire value, randomness
// included, is known. z is the full variable assignment
// [1, spec…, stmt…, witness…, rnd…, aux…] and cs must be the same constraint
// system instance Setup keyed (Setup may have swapped its A/B sides).
func ProveStage2(pk *ProvingKey, ck *DerivedKey, cs *r1cs.R1CS, z []field.Element, st1 *Stage1) (*Proof, error) {
	if len(z) != pk.Layout.NumVars {
		return nil, fmt.Errorf("groth16: expected %d assignment values, got %d", pk.Layout.NumVars, len(z))
	}

	wit, err := qap.ComputeH(cs, z)
	if err != nil {
		return nil, err
	}

	kappa1, err := field.Random()
	if err != nil {
		return nil, err
	}
	kappa2, err := field.Random()
	if err != nil {
		return nil, err
	}

	// The spec block (variables [0, Spec.Hi)) is already folded into ck;
	// the proof-time accumulations start past it. The three MSM groups are
	// independent, so they run concurrently.
	off := pk.Layout.Spec.Hi
	auxLo, auxHi := pk.Layout.Aux.Lo, pk.Layout.Aux.Hi

	var evalA, evalBG1, evalH, evalAux curve.G1
	var evalBG2 curve.G2
	var g errgroup.Group
	g.Go(func() error {
		var err error
		evalA, err = curve.MSMG1(curve.G1{}, pk.AQuery[off:], z[off:])
		return err
	})
	g.Go(func() error {
		var err error
		evalBG2, err = curve.MSMG2(curve.G2{}, pk.BQueryG2[off:], z[off:])
		if err != nil {
			return err
		}
		evalBG1, err = curve.MSMG1(curve.G1{}, pk.BQueryG1[off:], z[off:])
		return err
	})
	g.Go(func() error {
		var err error
		evalH, err = curve.MSMG1(curve.G1{}, pk.HQuery, wit.H)
		if err != nil {
			return err
		}
		evalAux, err = curve.MSMG1(curve.G1{}, pk.AuxQuery, z[auxLo:auxHi])
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a1 := curve.AddG1(pk.AlphaG1, evalA)
	a1 = curve.AddG1(a1, ck.EvalAtSpec)
	a1 = curve.AddG1(a1, curve.ScalarMulG1(pk.DeltaG1, kappa1))

	b1 := curve.AddG1(pk.BetaG1, evalBG1)
	b1 = curve.AddG1(b1, ck.EvalBtSpecG1)
	b1 = curve.AddG1(b1, curve.ScalarMulG1(pk.DeltaG1, kappa2))

	b2 := curve.AddG2(pk.BetaG2, evalBG2)
	b2 = curve.AddG2(b2, ck.EvalBtSpecG2)
	b2 = curve.AddG2(b2, curve.ScalarMulG2(pk.DeltaG2, kappa2))

	var k1k2 field.Element
	k1k2.Mul(&kappa1, &kappa2)
	c1 := curve.AddG1(evalH, evalAux)
	c1 = curve.AddG1(c1, curve.ScalarMulG1(a1, kappa2))
	c1 = curve.AddG1(c1, curve.ScalarMulG1(b1, kappa1))
	c1 = curve.AddG1(c1, curve.NegG1(curve.ScalarMulG1(pk.DeltaG1, k1k2)))
	c1 = curve.AddG1(c1, curve.NegG1(curve.ScalarMulG1(pk.DeltaPrimeG1, st1.Kappa3)))

	return &Proof{A: a1, B: b2, C: c1, CommWitness: st1.CommWitness}, nil
}
