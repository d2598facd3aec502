package groth16

import (
	"fmt"

	"github.com/arithzk/unisnark/internal/curve"
	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/lc"
	"github.com/arithzk/unisnark/internal/qap"
	"github.com/arithzk/unisnark/internal/r1cs"
)

// Setup runs the trusted setup over a finished constraint system and its
// variable layout, producing the proving, specification and verification
// keys. The toxic waste (t, α, β, γ, δ, δ′) lives only on this stack frame.
//
// Setup may swap the A and B sides of cs in place when that moves G2 MSM
// weight off the statement and witness variables (a cost heuristic only;
// satisfaction is symmetric in A and B). Callers must keep using the same
// cs instance for proving so the QAP witness matches the keys.
func Setup(cs *r1cs.R1CS, layout Layout) (*ProvingKey, *SpecificationKey, *VerificationKey, error) {
	if err := layout.Check(); err != nil {
		return nil, nil, nil, err
	}
	maybeSwapSides(cs, layout)

	t, err := field.Random()
	if err != nil {
		return nil, nil, nil, err
	}
	alpha, err := field.Random()
	if err != nil {
		return nil, nil, nil, err
	}
	beta, err := field.Random()
	if err != nil {
		return nil, nil, nil, err
	}
	gamma, err := nonZeroRandom()
	if err != nil {
		return nil, nil, nil, err
	}
	delta, err := nonZeroRandom()
	if err != nil {
		return nil, nil, nil, err
	}
	deltaPrime, err := nonZeroRandom()
	if err != nil {
		return nil, nil, nil, err
	}
	gammaInv := field.Inverse(gamma)
	deltaInv := field.Inverse(delta)
	deltaPrimeInv := field.Inverse(deltaPrime)

	inst, err := qap.EvaluateAtSecret(cs, t)
	if err != nil {
		return nil, nil, nil, err
	}

	// μᵢ = β·Aᵢ(t) + α·Bᵢ(t) + Cᵢ(t), then scale each group's slice by the
	// inverse of its blinding denominator.
	n := layout.NumVars
	mu := make([]field.Element, n)
	for i := 0; i < n; i++ {
		var ba, ab field.Element
		ba.Mul(&beta, &inst.At[i])
		ab.Mul(&alpha, &inst.Bt[i])
		mu[i].Add(&ba, &ab)
		mu[i].Add(&mu[i], &inst.Ct[i])
	}

	scaleRange := func(r Range, inv field.Element) []field.Element {
		out := make([]field.Element, r.Len())
		for i := range out {
			out[i].Mul(&mu[r.Lo+i], &inv)
		}
		return out
	}
	var gamma0 field.Element
	gamma0.Mul(&mu[0], &gammaInv)
	gammaSpec := scaleRange(layout.Spec, gammaInv)
	gammaStmt := scaleRange(layout.Stmt, gammaInv)
	gammaRnd := scaleRange(layout.Rnd, gammaInv)
	witnessT := scaleRange(layout.Witness, deltaPrimeInv)
	auxT := scaleRange(layout.Aux, deltaInv)

	// The H basis drops the top two powers of t: the quotient polynomial
	// has degree d-2 for a satisfying assignment.
	ztDeltaInv := field.Zero()
	ztDeltaInv.Mul(&inst.Zt, &deltaInv)
	hScalars := make([]field.Element, 0, inst.Domain-1)
	for i := 0; i < inst.Domain-1; i++ {
		var s field.Element
		s.Mul(&ztDeltaInv, &inst.Ht[i])
		hScalars = append(hScalars, s)
	}

	g1, g2 := curve.Generators()

	aQuery := curve.BatchMulG1(inst.At)
	bQueryG2 := curve.BatchMulG2(inst.Bt)
	bQueryG1 := curve.BatchMulG1(inst.Bt)
	hQuery := curve.BatchMulG1(hScalars)
	witnessQuery := curve.BatchMulG1(witnessT)
	auxQuery := curve.BatchMulG1(auxT)
	gammaStmtG1 := curve.BatchMulG1(gammaStmt)
	gammaRndG1 := curve.BatchMulG1(gammaRnd)
	gammaSpecG1 := curve.BatchMulG1(gammaSpec)

	alphaG1 := curve.ScalarMulG1(g1, alpha)
	betaG2 := curve.ScalarMulG2(g2, beta)
	alphaBetaGT, err := curve.PairGT(alphaG1, betaG2)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("groth16: setup pairing: %w", err)
	}

	pk := &ProvingKey{
		Layout:       layout,
		AlphaG1:      alphaG1,
		BetaG1:       curve.ScalarMulG1(g1, beta),
		BetaG2:       betaG2,
		DeltaG1:      curve.ScalarMulG1(g1, delta),
		DeltaG2:      curve.ScalarMulG2(g2, delta),
		DeltaPrimeG1: curve.ScalarMulG1(g1, deltaPrime),
		AQuery:       aQuery,
		BQueryG2:     bQueryG2,
		BQueryG1:     bQueryG1,
		HQuery:       hQuery,
		WitnessQuery: witnessQuery,
		AuxQuery:     auxQuery,
		GammaStmtG1:  gammaStmtG1,
	}
	sk := &SpecificationKey{
		Gamma0G1:    curve.ScalarMulG1(g1, gamma0),
		GammaSpecG1: gammaSpecG1,
	}
	vk := &VerificationKey{
		AlphaBetaGT:  alphaBetaGT,
		GammaG2:      curve.ScalarMulG2(g2, gamma),
		DeltaG2:      pk.DeltaG2,
		DeltaPrimeG2: curve.ScalarMulG2(g2, deltaPrime),
		GammaStmtG1:  gammaStmtG1,
		GammaRndG1:   gammaRndG1,
		NumRnd:       layout.Rnd.Len(),
	}
	return pk, sk, vk, nil
}

func nonZeroRandom() (field.Element, error) {
	for {
		e, err := field.Random()
		if err != nil {
			return field.Element{}, err
		}
		if !e.IsZero() {
			return e, nil
		}
	}
}

// maybeSwapSides swaps every constraint's A and B linear combinations when
// the B side touches more statement/witness variables than the A side.
// Those variables pay for G2 entries in the B query; spec and rnd variables
// are folded once per specification or derived per proof and are cheap by
// comparison.
func maybeSwapSides(cs *r1cs.R1CS, layout Layout) {
	expensive := func(v int) bool {
		return (v >= layout.Stmt.Lo && v < layout.Stmt.Hi) ||
			(v >= layout.Witness.Lo && v < layout.Witness.Hi)
	}
	seenA := map[int]bool{}
	seenB := map[int]bool{}
	tally := func(seen map[int]bool, l lc.LC) {
		for _, term := range l.Terms() {
			if expensive(term.Var) {
				seen[term.Var] = true
			}
		}
	}
	for _, c := range cs.Constraints {
		tally(seenA, c.A)
		tally(seenB, c.B)
	}
	if len(seenA) >= len(seenB) {
		return
	}
	for i := range cs.Constraints {
		cs.Constraints[i].A, cs.Constraints[i].B = cs.Constraints[i].B, cs.Constraints[i].A
	}
}
