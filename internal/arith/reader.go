// Package arith implements the circuit reader: the arith-file grammar, the
// two-pass variable-allocation/constraint-emission design, use-count-driven
// linear-combination fusion, and the gate-semantics evaluator that fills in
// witness values once Fiat-Shamir randomness is available.
package arith

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/arithzk/unisnark/internal/lc"
	"github.com/arithzk/unisnark/internal/r1cs"
	"github.com/arithzk/unisnark/internal/wire"
)

var totalRe = regexp.MustCompile(`^total (\d+)$`)

// Reader holds the R1CS built from one arith file, the wire-group
// partition, and the variable-index assignment. It is single-use: Eval
// consumes it once randomness is supplied; evaluating again requires
// re-parsing the file.
type Reader struct {
	Groups  *wire.Groups
	CS      *r1cs.R1CS
	NumVars int

	gates []Gate

	varOf map[wire.ID]int // spec/stmt/witness/rnd (eager) + aux (lazy)

	baseOne, baseSpec, baseStmt, baseWitness, baseRnd, baseAux int
	nextAux                                                    int

	zerops []ZeropInfo

	evaluated bool
}

// ZeropInfo records one zerop gate's fresh inverse variable and the tested
// LC, stashed so Eval can fill the inverse consistently with the rest of
// the assignment.
type ZeropInfo struct {
	MVar   int
	TestLC lc.LC
	O2Var  int
}

// Load reads an arith file and returns a Reader with its R1CS fully built
// (passes 1 and 2). The lines are buffered into memory once, trading
// memory for I/O so the later passes never re-read r, which may not be
// seekable.
func Load(r io.Reader) (*Reader, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	total, groups, gates, useCount, err := pass1(lines)
	if err != nil {
		return nil, err
	}

	rd := &Reader{
		Groups: groups,
		gates:  gates,
		varOf:  make(map[wire.ID]int, total),
	}
	rd.allocateGroupBlocks()
	rd.CS = r1cs.New(0) // NumVars fixed up once aux allocation finishes below

	if err := rd.pass2(useCount); err != nil {
		return nil, err
	}
	rd.NumVars = rd.baseAux + rd.nextAux
	rd.CS.NumVars = rd.NumVars
	return rd, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("arith: reading input: %w", err)
	}
	return lines, nil
}

// pass1 tallies wire-group declarations, infers Aux wires from gate
// outputs in declaration order, and tallies each wire's total use-count as
// a gate input. The fusion table U[] needs the total before pass 2 can
// decrement it on consumption.
func pass1(lines []string) (total uint32, groups *wire.Groups, gates []Gate, useCount map[wire.ID]int, err error) {
	useCount = map[wire.ID]int{}
	sawTotal := false
	lineNo := 0

	for _, raw := range lines {
		lineNo++
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !sawTotal {
			m := totalRe.FindStringSubmatch(line)
			if m == nil {
				return 0, nil, nil, nil, fmt.Errorf("arith: line %d: expected %q, got %q", lineNo, "total <N>", line)
			}
			n, convErr := strconv.ParseUint(m[1], 10, 32)
			if convErr != nil {
				return 0, nil, nil, nil, fmt.Errorf("arith: line %d: bad total %q", lineNo, m[1])
			}
			total = uint32(n)
			groups = wire.New(total)
			sawTotal = true
			continue
		}

		if decl, ok := parseDeclLine(line); ok {
			if err := groups.Declare(decl.id, decl.group); err != nil {
				return 0, nil, nil, nil, fmt.Errorf("arith: line %d: %w", lineNo, err)
			}
			continue
		}

		g, gerr := parseGateLine(lineNo, line)
		if gerr != nil {
			return 0, nil, nil, nil, gerr
		}
		gates = append(gates, g)
		for _, o := range g.Outs {
			groups.InferAux(o)
		}
		for _, in := range g.Ins {
			useCount[in]++
		}
	}
	if !sawTotal {
		return 0, nil, nil, nil, fmt.Errorf("arith: missing %q line", "total <N>")
	}
	return total, groups, gates, useCount, nil
}

type decl struct {
	id    wire.ID
	group wire.Group
}

func parseDeclLine(line string) (decl, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return decl{}, false
	}
	var grp wire.Group
	switch fields[0] {
	case "spec":
		grp = wire.Spec
	case "stmt":
		grp = wire.Stmt
	case "witness":
		grp = wire.Witness
	case "rnd":
		grp = wire.Rnd
	default:
		return decl{}, false
	}
	id, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return decl{}, false
	}
	return decl{id: wire.ID(id), group: grp}, true
}

// allocateGroupBlocks assigns contiguous variable-index blocks to the ONE
// slot and the Spec/Stmt/Witness/Rnd groups in the fixed order
// [ONE, Spec, Stmt, Witness, Rnd, Aux]. These wires are fed from external
// assignment vectors, so every member gets a variable slot eagerly, unlike
// Aux which is allocated lazily in pass2.
func (rd *Reader) allocateGroupBlocks() {
	nSpec, nStmt, nWitness, nRnd, _ := rd.Groups.Counts()
	rd.baseOne = 0
	rd.baseSpec = 1
	rd.baseStmt = rd.baseSpec + nSpec
	rd.baseWitness = rd.baseStmt + nStmt
	rd.baseRnd = rd.baseWitness + nWitness
	rd.baseAux = rd.baseRnd + nRnd

	for i, id := range rd.Groups.Members(wire.Spec) {
		rd.varOf[id] = rd.baseSpec + i
	}
	for i, id := range rd.Groups.Members(wire.Stmt) {
		rd.varOf[id] = rd.baseStmt + i
	}
	for i, id := range rd.Groups.Members(wire.Witness) {
		rd.varOf[id] = rd.baseWitness + i
	}
	for i, id := range rd.Groups.Members(wire.Rnd) {
		rd.varOf[id] = rd.baseRnd + i
	}
}

// allocAux lazily assigns the next contiguous Aux variable index the first
// time wire id must become an R1CS variable.
func (rd *Reader) allocAux(id wire.ID) int {
	if v, ok := rd.varOf[id]; ok {
		return v
	}
	v := rd.baseAux + rd.nextAux
	rd.nextAux++
	rd.varOf[id] = v
	return v
}

// VarOf returns the variable index of a wire that has already been
// allocated one (declared Spec/Stmt/Witness/Rnd, or an Aux wire that has
// already been forced into a variable by pass 2).
func (rd *Reader) VarOf(id wire.ID) (int, bool) {
	v, ok := rd.varOf[id]
	return v, ok
}

// OneLC returns the LC representing the constant 1 (variable 0).
func OneLC() lc.LC {
	return lc.FromVar(0)
}

// SpecVars, StmtVars, WitnessVars, RndVars return the variable indices of
// each group in declaration order, for building assignment vectors.
func (rd *Reader) SpecVars() []int    { return rd.groupVars(wire.Spec) }
func (rd *Reader) StmtVars() []int    { return rd.groupVars(wire.Stmt) }
func (rd *Reader) WitnessVars() []int { return rd.groupVars(wire.Witness) }
func (rd *Reader) RndVars() []int     { return rd.groupVars(wire.Rnd) }

// AuxVars returns every Aux variable index that pass 2 actually allocated,
// in allocation order. Not every Aux wire necessarily received one: a wire
// that is only ever a summand may remain a pure LC.
func (rd *Reader) AuxVars() []int {
	out := make([]int, rd.nextAux)
	for i := range out {
		out[i] = rd.baseAux + i
	}
	return out
}

// VarRange returns the contiguous [lo,hi) variable-index range of a group.
// For Aux it is [baseAux, baseAux+nextAux), i.e. only the Aux wires that
// actually received a variable.
func (rd *Reader) VarRange(g wire.Group) (lo, hi int) {
	nSpec, nStmt, nWitness, nRnd, _ := rd.Groups.Counts()
	switch g {
	case wire.Spec:
		return rd.baseSpec, rd.baseSpec + nSpec
	case wire.Stmt:
		return rd.baseStmt, rd.baseStmt + nStmt
	case wire.Witness:
		return rd.baseWitness, rd.baseWitness + nWitness
	case wire.Rnd:
		return rd.baseRnd, rd.baseRnd + nRnd
	case wire.Aux:
		return rd.baseAux, rd.baseAux + rd.nextAux
	default:
		return 0, 0
	}
}

// OneIndex is the constant variable index (always 0).
func (rd *Reader) OneIndex() int { return rd.baseOne }

// Zerops exposes the zerop auxiliary records for callers that need to
// double check witness consistency outside of Eval.
func (rd *Reader) Zerops() []ZeropInfo { return rd.zerops }

func (rd *Reader) groupVars(g wire.Group) []int {
	members := rd.Groups.Members(g)
	out := make([]int, len(members))
	for i, id := range members {
		v, ok := rd.varOf[id]
		if !ok {
			panic(fmt.Sprintf("arith: group member %d missing eagerly-allocated variable", id))
		}
		out[i] = v
	}
	return out
}
