// Package r1cs is a minimal rank-1 constraint system container: an ordered
// sequence of ⟨A,B,C⟩ linear-combination triples plus satisfaction
// checking. It owns no field arithmetic beyond the scalar operations LC
// already borrows from gnark-crypto.
package r1cs

import (
	"fmt"

	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/lc"
)

// Constraint is a single row ⟨A,B,C⟩ such that, for a satisfying assignment
// z, (A·z)·(B·z) = (C·z).
type Constraint struct {
	A, B, C lc.LC
}

// R1CS is an ordered list of constraints over NumVars variables (variable 0
// is always the constant "one").
type R1CS struct {
	Constraints []Constraint
	NumVars     int
}

// New returns an empty system sized for numVars variables.
func New(numVars int) *R1CS {
	return &R1CS{NumVars: numVars}
}

// AddConstraint appends ⟨a,b,c⟩. Emission order is preserved: two reader
// runs over the same file produce identical constraints in identical order.
func (r *R1CS) AddConstraint(a, b, c lc.LC) {
	r.Constraints = append(r.Constraints, Constraint{A: a, B: b, C: c})
}

// IsSatisfied evaluates every row against the assignment z (len(z) ==
// NumVars, z[0] == 1) and reports whether all rows hold.
func (r *R1CS) IsSatisfied(z []field.Element) (bool, error) {
	if len(z) != r.NumVars {
		return false, fmt.Errorf("r1cs: assignment length %d does not match NumVars %d", len(z), r.NumVars)
	}
	for _, c := range r.Constraints {
		av := c.A.Evaluate(z)
		bv := c.B.Evaluate(z)
		cv := c.C.Evaluate(z)
		var lhs field.Element
		lhs.Mul(&av, &bv)
		if !lhs.Equal(&cv) {
			return false, nil
		}
	}
	return true, nil
}
