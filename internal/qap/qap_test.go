package qap

import (
	"testing"

	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/lc"
	"github.com/arithzk/unisnark/internal/r1cs"
)

// buildSystem returns a small satisfied system:
//
//	x1·x2 = x3          (z = [1, 3, 5, 15, 8, 120, 144])
//	x3·x4 = x5
//	(x1+x2)·x1 = x6-x5  with x6 = 144 = 24+120
func buildSystem(t *testing.T) (*r1cs.R1CS, []field.Element) {
	t.Helper()
	cs := r1cs.New(7)
	cs.AddConstraint(lc.FromVar(1), lc.FromVar(2), lc.FromVar(3))
	cs.AddConstraint(lc.FromVar(3), lc.FromVar(4), lc.FromVar(5))
	cs.AddConstraint(lc.FromVar(1).Add(lc.FromVar(2)), lc.FromVar(1), lc.FromVar(6).Sub(lc.FromVar(5)))

	z := make([]field.Element, 7)
	z[0] = field.One()
	for i, v := range []uint64{3, 5, 15, 8, 120, 144} {
		z[i+1] = field.FromUint64(v)
	}
	ok, err := cs.IsSatisfied(z)
	if err != nil {
		t.Fatalf("IsSatisfied: %v", err)
	}
	if !ok {
		t.Fatal("fixture assignment should satisfy the system")
	}
	return cs, z
}

// TestDivisionIdentity checks A(t)·B(t) - C(t) = H(t)·Z(t) at a random
// point, tying EvaluateAtSecret and ComputeH to each other: the left side
// comes from the per-variable evaluations, the right side from the
// prover-side quotient.
func TestDivisionIdentity(t *testing.T) {
	cs, z := buildSystem(t)

	point, err := field.Random()
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	inst, err := EvaluateAtSecret(cs, point)
	if err != nil {
		t.Fatalf("EvaluateAtSecret: %v", err)
	}
	wit, err := ComputeH(cs, z)
	if err != nil {
		t.Fatalf("ComputeH: %v", err)
	}
	if len(wit.H) != inst.Domain-1 {
		t.Fatalf("H has %d coefficients, want %d", len(wit.H), inst.Domain-1)
	}

	dot := func(cols []field.Element) field.Element {
		acc := field.Zero()
		for i := range cols {
			var p field.Element
			p.Mul(&cols[i], &z[i])
			acc.Add(&acc, &p)
		}
		return acc
	}
	az := dot(inst.At)
	bz := dot(inst.Bt)
	cz := dot(inst.Ct)
	var lhs field.Element
	lhs.Mul(&az, &bz)
	lhs.Sub(&lhs, &cz)

	ht := field.Zero()
	for i, h := range wit.H {
		var p field.Element
		p.Mul(&h, &inst.Ht[i])
		ht.Add(&ht, &p)
	}
	var rhs field.Element
	rhs.Mul(&ht, &inst.Zt)

	if !lhs.Equal(&rhs) {
		t.Fatalf("A(t)B(t)-C(t) = %s but H(t)Z(t) = %s", lhs.String(), rhs.String())
	}
}

func TestComputeHEmptyForTrivialSystem(t *testing.T) {
	cs := r1cs.New(1)
	z := []field.Element{field.One()}
	wit, err := ComputeH(cs, z)
	if err != nil {
		t.Fatalf("ComputeH: %v", err)
	}
	for i, h := range wit.H {
		if !h.IsZero() {
			t.Fatalf("H[%d] = %s, want 0", i, h.String())
		}
	}
}

func TestDomainPadding(t *testing.T) {
	cs, _ := buildSystem(t)
	inst, err := EvaluateAtSecret(cs, field.FromUint64(7))
	if err != nil {
		t.Fatalf("EvaluateAtSecret: %v", err)
	}
	if inst.Domain != 4 {
		t.Fatalf("3 constraints should pad to domain 4, got %d", inst.Domain)
	}
	if len(inst.Ht) != inst.Domain+1 {
		t.Fatalf("Ht has %d entries, want %d", len(inst.Ht), inst.Domain+1)
	}
}
