package arith

import (
	"fmt"

	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/lc"
	"github.com/arithzk/unisnark/internal/wire"
)

// fuser carries the per-wire LC-fusion table T[] and use-count table U[]
// used while a single pass over the gate list consumes wires. pass2 owns
// one fuser for constraint emission; Eval (eval.go) never rebuilds or
// decrements U[], so consumption accounting lives in exactly one place.
type fuser struct {
	rd *Reader
	T  map[wire.ID]lc.LC
	U  map[wire.ID]int
}

// find consumes one pending reference to w's fused LC, or falls back to a
// fresh LC over w's allocated variable (allocating one if w has none yet).
// The last consumer takes the LC by move; earlier consumers that intend to
// edit it get a deep copy.
func (f *fuser) find(w wire.ID, intentionToEdit bool) lc.LC {
	if l, ok := f.T[w]; ok {
		f.U[w]--
		if f.U[w] <= 0 {
			delete(f.T, w)
			delete(f.U, w)
			return l
		}
		if intentionToEdit {
			return l.Clone()
		}
		return l
	}
	v := f.rd.allocAux(w)
	return lc.FromVar(v)
}

// setFused records that wire o's value is, for now, expressible as the LC
// l rather than a dedicated variable (the fused add/const-mul/pack case).
func (f *fuser) setFused(o wire.ID, l lc.LC, uses int) {
	if uses <= 0 {
		// Nobody will ever read this wire again; still stash it so a
		// stray zero-use gate output doesn't silently vanish.
		uses = 0
	}
	f.T[o] = l
	f.U[o] = uses
}

// pass2 builds the R1CS by replaying the buffered gate list, allocating
// variables for multiplicative/non-linear outputs and fusing linear chains
// via the fuser above.
func (rd *Reader) pass2(useCount map[wire.ID]int) error {
	f := &fuser{rd: rd, T: map[wire.ID]lc.LC{}, U: map[wire.ID]int{}}
	for w, n := range useCount {
		f.U[w] = n
	}

	for _, g := range rd.gates {
		if err := f.emit(g); err != nil {
			return err
		}
	}
	return nil
}

func (f *fuser) remainingUses(w wire.ID) int {
	return f.U[w]
}

func (f *fuser) emit(g Gate) error {
	rd := f.rd
	switch g.Op {
	case OpAdd:
		sum := lc.Zero()
		for _, w := range g.Ins {
			sum = sum.Add(f.find(w, false))
		}
		f.setFused(g.Outs[0], sum, f.remainingUses(g.Outs[0]))

	case OpMul:
		l1 := f.find(g.Ins[0], false)
		l2 := f.find(g.Ins[1], false)
		ov := rd.allocAux(g.Outs[0])
		rd.CS.AddConstraint(l1, l2, lc.FromVar(ov))

	case OpXor:
		l1 := f.find(g.Ins[0], false)
		l2 := f.find(g.Ins[1], false)
		ov := rd.allocAux(g.Outs[0])
		a := l1.ScalarMul(field.FromUint64(2))
		c := l1.Add(l2).Sub(lc.FromVar(ov))
		rd.CS.AddConstraint(a, l2, c)

	case OpOr:
		l1 := f.find(g.Ins[0], false)
		l2 := f.find(g.Ins[1], false)
		ov := rd.allocAux(g.Outs[0])
		c := l1.Add(l2).Sub(lc.FromVar(ov))
		rd.CS.AddConstraint(l1, l2, c)

	case OpAssert:
		l1 := f.find(g.Ins[0], false)
		l2 := f.find(g.Ins[1], false)
		lo := f.find(g.Outs[0], false) // the "output" is consumed, not newly allocated
		rd.CS.AddConstraint(l1, l2, lo)

	case OpConstMul, OpConstMulNeg:
		c, err := field.FromHex(g.ConstHex)
		if err != nil {
			return fmt.Errorf("arith: line %d: %w", g.Line, err)
		}
		if g.Op == OpConstMulNeg {
			var neg field.Element
			zero := field.Zero()
			neg.Sub(&zero, &c)
			c = neg
		}
		scaled := f.find(g.Ins[0], false).ScalarMul(c)
		f.setFused(g.Outs[0], scaled, f.remainingUses(g.Outs[0]))

	case OpZerop:
		l := f.find(g.Ins[0], false)
		o2 := g.Outs[1]
		o2Var := rd.allocAux(o2)
		mVar := rd.allocAux(freshAuxSentinel(rd))
		rd.CS.AddConstraint(l, OneLC().Sub(lc.FromVar(o2Var)), lc.Zero())
		rd.CS.AddConstraint(l, lc.FromVar(mVar), lc.FromVar(o2Var))
		rd.zerops = append(rd.zerops, ZeropInfo{MVar: mVar, TestLC: l, O2Var: o2Var})
		// g.Outs[0] (the unused "o1" placeholder) is consumed-but-ignored:
		// it was already inferred into the Aux group by pass1 but never
		// gets a variable.

	case OpSplit:
		l := f.find(g.Ins[0], false)
		n := len(g.Outs)
		sum := lc.Zero()
		pow := field.One()
		for i, b := range g.Outs {
			bv := rd.allocAux(b)
			rd.CS.AddConstraint(lc.FromVar(bv), OneLC().Sub(lc.FromVar(bv)), lc.Zero())
			sum = sum.Add(lc.FromVar(bv).ScalarMul(pow))
			if i != n-1 {
				var next field.Element
				next.Double(&pow)
				pow = next
			}
		}
		rd.CS.AddConstraint(l, OneLC(), sum)

	case OpPack:
		sum := lc.Zero()
		pow := field.One()
		for i, w := range g.Ins {
			sum = sum.Add(f.find(w, false).ScalarMul(pow))
			if i != len(g.Ins)-1 {
				var next field.Element
				next.Double(&pow)
				pow = next
			}
		}
		f.setFused(g.Outs[0], sum, f.remainingUses(g.Outs[0]))

	default:
		return fmt.Errorf("arith: line %d: unhandled operator %q", g.Line, g.Op)
	}
	return nil
}

// freshAuxSentinel manufactures a wire id outside the declared range so
// zerop's inverse auxiliary variable gets its own slot in rd.varOf without
// colliding with a real wire (it is never looked up by wire id afterwards,
// only via ZeropInfo.MVar).
func freshAuxSentinel(rd *Reader) wire.ID {
	id := wire.ID(rd.Groups.Total) + wire.ID(len(rd.zerops)) + 1_000_000
	return id
}
