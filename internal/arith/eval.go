package arith

import (
	"fmt"
	"math/big"

	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/wire"
)

// WireValues maps wire id to its field value; it is the vocabulary both
// LoadInputs and Eval speak.
type WireValues map[wire.ID]field.Element

// Assignment is the full variable vector z produced by Eval, together with
// the per-wire values it was built from (kept around for debugging and for
// the group-vector accessors below).
type Assignment struct {
	Z      []field.Element
	Values WireValues
}

// Eval is the circuit reader's third pass: given the Spec/Stmt/Witness
// values loaded from the inputs file and the randomness wires' values
// (derived by the Fiat-Shamir oracle, in Rnd declaration order), it
// computes every gate's output value and assembles the full R1CS variable
// vector z = [1, Spec…, Stmt…, Witness…, Rnd…, Aux…].
//
// Eval is single-use: calling it twice returns an error. It never touches
// the fuser's T[]/U[] tables built during pass2 (see fusion.go).
func (rd *Reader) Eval(loaded WireValues, rnd []field.Element) (Assignment, error) {
	if rd.evaluated {
		return Assignment{}, fmt.Errorf("arith: reader already evaluated; re-parse the arith file to evaluate again")
	}
	rndMembers := rd.Groups.Members(wire.Rnd)
	if len(rnd) != len(rndMembers) {
		return Assignment{}, fmt.Errorf("arith: expected %d rnd values, got %d", len(rndMembers), len(rnd))
	}

	values := make(WireValues, rd.Groups.Total)
	for _, id := range rd.Groups.Members(wire.Spec) {
		values[id] = lookup(loaded, id)
	}
	for _, id := range rd.Groups.Members(wire.Stmt) {
		values[id] = lookup(loaded, id)
	}
	for _, id := range rd.Groups.Members(wire.Witness) {
		values[id] = lookup(loaded, id)
	}
	for i, id := range rndMembers {
		values[id] = rnd[i]
	}

	for _, g := range rd.gates {
		if err := evalGate(values, g); err != nil {
			return Assignment{}, err
		}
	}

	z := make([]field.Element, rd.NumVars)
	z[0] = field.One()
	for w := wire.ID(0); uint32(w) < rd.Groups.Total; w++ {
		if v, ok := rd.varOf[w]; ok {
			z[v] = values[w]
		}
	}
	for _, zi := range rd.zerops {
		val := zi.TestLC.Evaluate(z)
		z[zi.MVar] = field.Inverse(val)
	}

	rd.evaluated = true
	return Assignment{Z: z, Values: values}, nil
}

// CommitValues computes the spec, stmt and witness group values the commit
// phase and the verifier consume, in declaration order. Statement wires may
// be gate outputs, so the loaded input values alone are not enough; this
// runs the gate evaluator over a scratch copy with every randomness wire
// zero. It is only sound because spec, stmt and witness wires never depend
// on randomness wires (randomness exists to challenge the witness, not to
// define the statement). Unlike Eval, it may be called any number of times
// and leaves the reader reusable.
func (rd *Reader) CommitValues(loaded WireValues) (spec, stmt, witness []field.Element, err error) {
	values := make(WireValues, len(loaded))
	for id, v := range loaded {
		values[id] = v
	}
	for _, id := range rd.Groups.Members(wire.Rnd) {
		values[id] = field.Zero()
	}
	for _, g := range rd.gates {
		if err := evalGate(values, g); err != nil {
			return nil, nil, nil, err
		}
	}
	collect := func(grp wire.Group) []field.Element {
		members := rd.Groups.Members(grp)
		out := make([]field.Element, len(members))
		for i, id := range members {
			out[i] = lookup(values, id)
		}
		return out
	}
	return collect(wire.Spec), collect(wire.Stmt), collect(wire.Witness), nil
}

func lookup(m WireValues, id wire.ID) field.Element {
	if v, ok := m[id]; ok {
		return v
	}
	return field.Zero()
}

// evalGate computes and stores the output wire value(s) of one gate.
// OpAssert contributes no new value: its "output" wire is expected to
// already carry a value (loaded from the inputs file or computed by an
// earlier gate) and is only constrained, never (re)computed, by this gate.
func evalGate(values WireValues, g Gate) error {
	in := func(i int) field.Element { return lookup(values, g.Ins[i]) }

	switch g.Op {
	case OpAdd:
		sum := field.Zero()
		for i := range g.Ins {
			v := in(i)
			sum.Add(&sum, &v)
		}
		values[g.Outs[0]] = sum

	case OpMul:
		a, b := in(0), in(1)
		var p field.Element
		p.Mul(&a, &b)
		values[g.Outs[0]] = p

	case OpXor:
		a, b := in(0), in(1)
		var ab, two, twoAB, sum, out field.Element
		ab.Mul(&a, &b)
		two = field.FromUint64(2)
		twoAB.Mul(&two, &ab)
		sum.Add(&a, &b)
		out.Sub(&sum, &twoAB)
		values[g.Outs[0]] = out

	case OpOr:
		a, b := in(0), in(1)
		var ab, sum, out field.Element
		ab.Mul(&a, &b)
		sum.Add(&a, &b)
		out.Sub(&sum, &ab)
		values[g.Outs[0]] = out

	case OpAssert:
		// no new value; see doc comment above.

	case OpConstMul, OpConstMulNeg:
		c, err := field.FromHex(g.ConstHex)
		if err != nil {
			return fmt.Errorf("arith: line %d: %w", g.Line, err)
		}
		if g.Op == OpConstMulNeg {
			var neg, zero field.Element
			zero = field.Zero()
			neg.Sub(&zero, &c)
			c = neg
		}
		w := in(0)
		var out field.Element
		out.Mul(&w, &c)
		values[g.Outs[0]] = out

	case OpZerop:
		w := in(0)
		if w.IsZero() {
			values[g.Outs[1]] = field.Zero()
		} else {
			values[g.Outs[1]] = field.One()
		}
		// g.Outs[0] ("o1") is consumed-but-ignored; no value stored.

	case OpSplit:
		w := in(0)
		var bi big.Int
		w.BigInt(&bi)
		for i, b := range g.Outs {
			if bi.Bit(i) == 1 {
				values[b] = field.One()
			} else {
				values[b] = field.Zero()
			}
		}

	case OpPack:
		sum := field.Zero()
		pow := field.One()
		for i := range g.Ins {
			v := in(i)
			var term field.Element
			term.Mul(&v, &pow)
			sum.Add(&sum, &term)
			if i != len(g.Ins)-1 {
				var next field.Element
				next.Double(&pow)
				pow = next
			}
		}
		values[g.Outs[0]] = sum

	default:
		return fmt.Errorf("arith: line %d: unhandled operator %q", g.Line, g.Op)
	}
	return nil
}

// GroupValues gathers wire values for a group in its declaration order,
// used to build the Spec/Stmt/Witness/Rnd vectors the backend consumes.
func (rd *Reader) GroupValues(a Assignment, g wire.Group) []field.Element {
	members := rd.Groups.Members(g)
	out := make([]field.Element, len(members))
	for i, id := range members {
		out[i] = lookup(a.Values, id)
	}
	return out
}
