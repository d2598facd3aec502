// Package lc implements the linear-combination abstraction used by the
// circuit reader's constraint emitter: a sparse mapping from R1CS variable
// index to nonzero field coefficient, Σ cᵢ·xᵢ, where variable 0 is always
// the constant "one" variable.
package lc

import "github.com/arithzk/unisnark/internal/field"

// Term is a single nonzero coefficient of a linear combination.
type Term struct {
	Var   int
	Coeff field.Element
}

// LC is Σ Terms[i].Coeff · x[Terms[i].Var]. Terms exposes the entries in
// ascending variable order so two LCs built from the same terms in
// different orders are indistinguishable to callers.
type LC struct {
	terms map[int]field.Element
}

// Zero returns the empty linear combination (the constant 0).
func Zero() LC {
	return LC{terms: map[int]field.Element{}}
}

// FromVar returns the LC representing exactly the variable v with
// coefficient 1.
func FromVar(v int) LC {
	l := Zero()
	l.terms[v] = field.One()
	return l
}

// FromConstant returns the LC representing the constant c, expressed as
// c·x[0] (variable 0 being the "one" wire).
func FromConstant(c field.Element) LC {
	l := Zero()
	if !c.IsZero() {
		l.terms[0] = c
	}
	return l
}

// Clone returns a deep copy; the reader's fusion table uses it when a
// shared LC is about to be edited.
func (l LC) Clone() LC {
	out := make(map[int]field.Element, len(l.terms))
	for v, c := range l.terms {
		out[v] = c
	}
	return LC{terms: out}
}

// ScalarMul returns c·l as a new LC; l is left unmodified.
func (l LC) ScalarMul(c field.Element) LC {
	out := make(map[int]field.Element, len(l.terms))
	if c.IsZero() {
		return LC{terms: out}
	}
	for v, coeff := range l.terms {
		var p field.Element
		p.Mul(&coeff, &c)
		if !p.IsZero() {
			out[v] = p
		}
	}
	return LC{terms: out}
}

// Add returns l+other as a new LC; both operands are left unmodified.
func (l LC) Add(other LC) LC {
	out := make(map[int]field.Element, len(l.terms)+len(other.terms))
	for v, c := range l.terms {
		out[v] = c
	}
	for v, c := range other.terms {
		if existing, ok := out[v]; ok {
			var sum field.Element
			sum.Add(&existing, &c)
			if sum.IsZero() {
				delete(out, v)
			} else {
				out[v] = sum
			}
		} else if !c.IsZero() {
			out[v] = c
		}
	}
	return LC{terms: out}
}

// Neg returns -l as a new LC.
func (l LC) Neg() LC {
	return l.ScalarMul(negativeOne())
}

// Sub returns l-other as a new LC.
func (l LC) Sub(other LC) LC {
	return l.Add(other.Neg())
}

func negativeOne() field.Element {
	zero := field.Zero()
	one := field.One()
	var neg field.Element
	neg.Sub(&zero, &one)
	return neg
}

// IsZero reports whether l has no nonzero terms.
func (l LC) IsZero() bool {
	return len(l.terms) == 0
}

// Terms returns the nonzero terms of l in ascending variable order, so that
// callers (constraint emission, evaluation, tests) observe a deterministic
// iteration order.
func (l LC) Terms() []Term {
	out := make([]Term, 0, len(l.terms))
	for v, c := range l.terms {
		out = append(out, Term{Var: v, Coeff: c})
	}
	sortTerms(out)
	return out
}

func sortTerms(t []Term) {
	for i := 1; i < len(t); i++ {
		for j := i; j > 0 && t[j].Var < t[j-1].Var; j-- {
			t[j], t[j-1] = t[j-1], t[j]
		}
	}
}

// Evaluate computes Σ cᵢ·z[vᵢ] given a full variable assignment z (z[0]
// must be the field's multiplicative identity, the "one" variable).
func (l LC) Evaluate(z []field.Element) field.Element {
	acc := field.Zero()
	for v, c := range l.terms {
		var p field.Element
		p.Mul(&c, &z[v])
		acc.Add(&acc, &p)
	}
	return acc
}
