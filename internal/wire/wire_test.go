package wire

import "testing"

func TestDeclareAndInfer(t *testing.T) {
	g := New(5)
	if err := g.Declare(0, Stmt); err != nil {
		t.Fatalf("Declare(0): %v", err)
	}
	if err := g.Declare(1, Witness); err != nil {
		t.Fatalf("Declare(1): %v", err)
	}
	g.InferAux(2)
	g.InferAux(2) // second sighting is a no-op
	g.InferAux(1) // already declared witness, stays witness

	if grp, ok := g.GroupOf(1); !ok || grp != Witness {
		t.Fatalf("GroupOf(1) = %v, %v; want witness", grp, ok)
	}
	if grp, ok := g.GroupOf(2); !ok || grp != Aux {
		t.Fatalf("GroupOf(2) = %v, %v; want aux", grp, ok)
	}
	nSpec, nStmt, nWitness, nRnd, nAux := g.Counts()
	if nSpec != 0 || nStmt != 1 || nWitness != 1 || nRnd != 0 || nAux != 1 {
		t.Fatalf("Counts() = %d %d %d %d %d", nSpec, nStmt, nWitness, nRnd, nAux)
	}
}

func TestDeclareDuplicate(t *testing.T) {
	g := New(3)
	if err := g.Declare(1, Spec); err != nil {
		t.Fatalf("Declare(1): %v", err)
	}
	if err := g.Declare(1, Stmt); err == nil {
		t.Fatal("expected error for duplicate declaration")
	}
}

func TestDeclareOutOfRange(t *testing.T) {
	g := New(2)
	if err := g.Declare(2, Stmt); err == nil {
		t.Fatal("expected error for out-of-range wire id")
	}
}

func TestMemberOrder(t *testing.T) {
	g := New(10)
	for _, id := range []ID{7, 3, 9} {
		if err := g.Declare(id, Rnd); err != nil {
			t.Fatalf("Declare(%d): %v", id, err)
		}
	}
	got := g.Members(Rnd)
	want := []ID{7, 3, 9}
	if len(got) != len(want) {
		t.Fatalf("Members(Rnd) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Members(Rnd)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
