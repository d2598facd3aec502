// Package wire models the wire-group partition of a universal circuit:
// every wire belongs to exactly one of {Spec, Stmt, Witness, Rnd, Aux},
// and variable indices are allocated in the fixed order
// [ONE, Spec…, Stmt…, Witness…, Rnd…, Aux…].
package wire

import "fmt"

// ID is a dense, non-negative wire identifier as declared in the arith file.
type ID uint32

// Group tags the partition a wire belongs to.
type Group int

const (
	Spec Group = iota
	Stmt
	Witness
	Rnd
	Aux
)

func (g Group) String() string {
	switch g {
	case Spec:
		return "spec"
	case Stmt:
		return "stmt"
	case Witness:
		return "witness"
	case Rnd:
		return "rnd"
	case Aux:
		return "aux"
	default:
		return "unknown"
	}
}

// Groups partitions every wire in [0, N) into one of the five disjoint
// groups, preserving declaration order within each group.
type Groups struct {
	Total uint32

	order    []ID // the order each id was declared, across all groups
	group    map[ID]Group
	members  [5][]ID // declaration order per group
	declared map[ID]bool
}

// New returns an empty partition sized for a circuit with Total wires.
func New(total uint32) *Groups {
	return &Groups{
		Total:    total,
		group:    make(map[ID]Group, total),
		declared: make(map[ID]bool, total),
	}
}

// Declare assigns wire id to an explicit group (everything but Aux, which
// is only ever inferred, see InferAux). Declaring the same wire twice is an
// error.
func (g *Groups) Declare(id ID, grp Group) error {
	if uint32(id) >= g.Total {
		return fmt.Errorf("wire: id %d out of range [0,%d)", id, g.Total)
	}
	if g.declared[id] {
		return fmt.Errorf("wire: id %d declared more than once", id)
	}
	g.declared[id] = true
	g.group[id] = grp
	g.members[grp] = append(g.members[grp], id)
	g.order = append(g.order, id)
	return nil
}

// InferAux assigns wire id to Aux the first time it is seen as a gate output
// with no prior declaration. A no-op if the wire is already assigned.
func (g *Groups) InferAux(id ID) {
	if g.declared[id] {
		return
	}
	g.declared[id] = true
	g.group[id] = Aux
	g.members[Aux] = append(g.members[Aux], id)
	g.order = append(g.order, id)
}

// GroupOf reports the group of a wire, or ok=false if it has not been
// declared or inferred yet.
func (g *Groups) GroupOf(id ID) (Group, bool) {
	grp, ok := g.group[id]
	return grp, ok
}

// Members returns the declaration-ordered ids of a group.
func (g *Groups) Members(grp Group) []ID {
	return g.members[grp]
}

// Counts returns (n_spec, n_stmt, n_witness, n_rnd, n_aux).
func (g *Groups) Counts() (nSpec, nStmt, nWitness, nRnd, nAux int) {
	return len(g.members[Spec]), len(g.members[Stmt]), len(g.members[Witness]), len(g.members[Rnd]), len(g.members[Aux])
}
