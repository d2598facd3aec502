// Package groth16 implements the universal-circuit SNARK backend: trusted
// setup, per-specification key derivation, the two-stage prover with its
// Fiat-Shamir randomness oracle, and the pairing-check verifier. The
// construction is Groth16 partitioned across an extra commitment element
// (delta-prime) so the witness commitment produced in stage 1 can seed
// in-circuit randomness before the proof is finalized.
package groth16

import (
	"fmt"

	"github.com/arithzk/unisnark/internal/curve"
	"github.com/arithzk/unisnark/internal/field"
)

// Range is a half-open [Lo,Hi) variable-index interval.
type Range struct {
	Lo, Hi int
}

// Len returns the number of variables in the range.
func (r Range) Len() int { return r.Hi - r.Lo }

// Layout records where each wire group's variables live inside the full
// assignment vector z = [1, Spec…, Stmt…, Witness…, Rnd…, Aux…]. Variable 0
// is always the constant one.
type Layout struct {
	NumVars int
	Spec    Range
	Stmt    Range
	Witness Range
	Rnd     Range
	Aux     Range
}

// Check validates that the group ranges tile [1,NumVars) contiguously in
// the fixed order the rest of the backend assumes.
func (l Layout) Check() error {
	if l.Spec.Lo != 1 ||
		l.Stmt.Lo != l.Spec.Hi ||
		l.Witness.Lo != l.Stmt.Hi ||
		l.Rnd.Lo != l.Witness.Hi ||
		l.Aux.Lo != l.Rnd.Hi ||
		l.Aux.Hi != l.NumVars {
		return fmt.Errorf("groth16: variable layout is not contiguous in [one,spec,stmt,witness,rnd,aux] order: %+v", l)
	}
	return nil
}

// ProvingKey is the prover's share of the trusted setup. It is read-only
// after Setup and may be shared by many prover instances.
type ProvingKey struct {
	Layout Layout

	AlphaG1      curve.G1
	BetaG1       curve.G1
	BetaG2       curve.G2
	DeltaG1      curve.G1
	DeltaG2      curve.G2
	DeltaPrimeG1 curve.G1

	// Per-variable query vectors, indexed by variable. BQuery is a
	// knowledge commitment: the same scalar behind both a G2 and a G1
	// point.
	AQuery   []curve.G1
	BQueryG2 []curve.G2
	BQueryG1 []curve.G1

	// HQuery[i] = Z(t)·δ⁻¹·tⁱ·G1 for i in [0, Domain-1).
	HQuery []curve.G1

	// WitnessQuery and AuxQuery cover the witness and aux variable ranges
	// in layout order.
	WitnessQuery []curve.G1
	AuxQuery     []curve.G1

	// GammaStmtG1 mirrors the verification key's statement accumulation
	// vector; stage 1 uses it to fold the statement into the commitment.
	GammaStmtG1 []curve.G1
}

// SpecificationKey is consumed once per specification-wire assignment to
// derive a DerivedKey.
type SpecificationKey struct {
	Gamma0G1    curve.G1   // μ_one·γ⁻¹·G1
	GammaSpecG1 []curve.G1 // μᵢ·γ⁻¹·G1 for the spec variables
}

// VerificationKey is the verifier's share of the trusted setup.
type VerificationKey struct {
	AlphaBetaGT  curve.GT
	GammaG2      curve.G2
	DeltaG2      curve.G2
	DeltaPrimeG2 curve.G2

	GammaStmtG1 []curve.G1
	GammaRndG1  []curve.G1

	NumRnd int
}

// DerivedKey is the per-specification precomputation shared by prover and
// verifier: the spec block folded into the gamma accumulator and into the
// A/B query sums so stage 2 can skip variables below the spec offset.
type DerivedKey struct {
	GammaSpecG1Computed curve.G1

	EvalAtSpec   curve.G1
	EvalBtSpecG2 curve.G2
	EvalBtSpecG1 curve.G1
}

// Stage1 is the output of the commit phase: the blinding scalar κ₃ and the
// witness/statement commitments. It is single-use per proof.
type Stage1 struct {
	Kappa3      field.Element
	CommWitness curve.G1
	CommStmt    curve.G1
	Comm        curve.G1
}

// Proof is the final proof π = (A, B, C, CommWitness).
type Proof struct {
	A           curve.G1
	B           curve.G2
	C           curve.G1
	CommWitness curve.G1
}
