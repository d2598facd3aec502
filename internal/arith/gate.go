package arith

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arithzk/unisnark/internal/wire"
)

// Op names a normalized gate operator; the hexadecimal constant suffix of
// const-mul/const-mul-neg is split off into Gate.ConstHex so the dispatch
// tables in fusion.go and eval.go can switch on a small fixed set of names.
type Op string

const (
	OpAdd         Op = "add"
	OpMul         Op = "mul"
	OpXor         Op = "xor"
	OpOr          Op = "or"
	OpAssert      Op = "assert"
	OpConstMul    Op = "const-mul"
	OpConstMulNeg Op = "const-mul-neg"
	OpZerop       Op = "zerop"
	OpSplit       Op = "split"
	OpPack        Op = "pack"
)

// Gate is the parsed form of one arith-file gate line.
type Gate struct {
	Line     int
	Op       Op
	ConstHex string // populated only for const-mul / const-mul-neg
	Ins      []wire.ID
	Outs     []wire.ID
}

// angleBrackets strips the literal < > delimiters around the wire-id lists
// of a gate line ("mul in 2 <4 5> out 1 <6>") so the remaining tokens are
// plain whitespace-separated integers.
var angleBrackets = strings.NewReplacer("<", " ", ">", " ")

// parseGateLine parses one gate line, "op in k <w1 ... wk> out m
// <u1 ... um>", and checks the operator's fixed arity. Unknown operators
// and malformed lines are fatal parse errors.
func parseGateLine(lineNo int, line string) (Gate, error) {
	fields := strings.Fields(angleBrackets.Replace(line))
	if len(fields) < 5 {
		return Gate{}, fmt.Errorf("arith: line %d: malformed gate line %q", lineNo, line)
	}

	op, constHex := splitOp(fields[0])

	if fields[1] != "in" {
		return Gate{}, fmt.Errorf("arith: line %d: expected %q, got %q", lineNo, "in", fields[1])
	}
	k, err := strconv.Atoi(fields[2])
	if err != nil || k < 0 {
		return Gate{}, fmt.Errorf("arith: line %d: bad input count %q", lineNo, fields[2])
	}
	idx := 3
	if idx+k > len(fields) {
		return Gate{}, fmt.Errorf("arith: line %d: declared %d inputs but line is too short", lineNo, k)
	}
	ins, err := parseWireList(fields[idx : idx+k])
	if err != nil {
		return Gate{}, fmt.Errorf("arith: line %d: %w", lineNo, err)
	}
	idx += k

	if idx >= len(fields) || fields[idx] != "out" {
		return Gate{}, fmt.Errorf("arith: line %d: expected %q", lineNo, "out")
	}
	idx++
	if idx >= len(fields) {
		return Gate{}, fmt.Errorf("arith: line %d: missing output count", lineNo)
	}
	m, err := strconv.Atoi(fields[idx])
	if err != nil || m < 0 {
		return Gate{}, fmt.Errorf("arith: line %d: bad output count %q", lineNo, fields[idx])
	}
	idx++
	if idx+m != len(fields) {
		return Gate{}, fmt.Errorf("arith: line %d: declared %d outputs but line has trailing/missing tokens", lineNo, m)
	}
	outs, err := parseWireList(fields[idx : idx+m])
	if err != nil {
		return Gate{}, fmt.Errorf("arith: line %d: %w", lineNo, err)
	}

	g := Gate{Line: lineNo, Op: op, ConstHex: constHex, Ins: ins, Outs: outs}
	if err := checkArity(g); err != nil {
		return Gate{}, err
	}
	return g, nil
}

func splitOp(tok string) (Op, string) {
	switch {
	case strings.HasPrefix(tok, "const-mul-neg-"):
		return OpConstMulNeg, strings.TrimPrefix(tok, "const-mul-neg-")
	case strings.HasPrefix(tok, "const-mul-"):
		return OpConstMul, strings.TrimPrefix(tok, "const-mul-")
	default:
		return Op(tok), ""
	}
}

func parseWireList(toks []string) ([]wire.ID, error) {
	out := make([]wire.ID, len(toks))
	for i, t := range toks {
		v, err := strconv.ParseUint(t, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad wire id %q", t)
		}
		out[i] = wire.ID(v)
	}
	return out, nil
}

func checkArity(g Gate) error {
	fail := func() error {
		return fmt.Errorf("arith: line %d: op %q has wrong arity (in=%d out=%d)", g.Line, g.Op, len(g.Ins), len(g.Outs))
	}
	switch g.Op {
	case OpAdd:
		if len(g.Ins) < 1 || len(g.Outs) != 1 {
			return fail()
		}
	case OpMul, OpXor, OpOr, OpAssert:
		if len(g.Ins) != 2 || len(g.Outs) != 1 {
			return fail()
		}
	case OpConstMul, OpConstMulNeg:
		if len(g.Ins) != 1 || len(g.Outs) != 1 {
			return fail()
		}
	case OpZerop:
		if len(g.Ins) != 1 || len(g.Outs) != 2 {
			return fail()
		}
	case OpSplit:
		if len(g.Ins) != 1 || len(g.Outs) < 1 {
			return fail()
		}
	case OpPack:
		if len(g.Ins) < 1 || len(g.Outs) != 1 {
			return fail()
		}
	default:
		return fmt.Errorf("arith: line %d: unknown operator %q", g.Line, g.Op)
	}
	return nil
}
