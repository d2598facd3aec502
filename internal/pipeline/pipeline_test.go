package pipeline

import (
	"strings"
	"testing"

	"github.com/arithzk/unisnark/internal/arith"
	"github.com/arithzk/unisnark/internal/curve"
	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/groth16"
	"github.com/arithzk/unisnark/internal/wire"
)

func execute(t *testing.T, arithText, inputsText string) *Result {
	t.Helper()
	result, err := Execute(strings.NewReader(arithText), strings.NewReader(inputsText), t.Logf)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return result
}

func TestIdentityCircuitAccepts(t *testing.T) {
	result := execute(t, `
total 2
stmt 0
stmt 1
add in 1 <0> out 1 <1>
`, "0 0x1")
	if !result.Accepted {
		t.Fatal("identity circuit proof rejected")
	}
}

func TestMultiplicationAccepts(t *testing.T) {
	result := execute(t, `
total 3
stmt 0
stmt 1
stmt 2
mul in 2 <0 1> out 1 <2>
`, "0 0x3\n1 0x5")
	if !result.Accepted {
		t.Fatal("multiplication proof rejected")
	}
}

func TestZeropAccepts(t *testing.T) {
	const circuit = `
total 5
stmt 0
witness 3
zerop in 1 <0> out 2 <1 2>
mul in 2 <2 3> out 1 <4>
`
	for _, in := range []string{"0x0", "0x7"} {
		result := execute(t, circuit, "0 "+in+"\n3 0x1")
		if !result.Accepted {
			t.Fatalf("zerop proof rejected for input %s", in)
		}
	}
}

func TestSplitPackAccepts(t *testing.T) {
	result := execute(t, `
total 11
stmt 0
witness 10
split in 1 <0> out 8 <1 2 3 4 5 6 7 8>
pack in 8 <1 2 3 4 5 6 7 8> out 1 <9>
assert in 2 <9 10> out 1 <0>
`, "0 0xa5\n10 0x1")
	if !result.Accepted {
		t.Fatal("split/pack proof rejected")
	}
}

func TestBadWitnessIsFatal(t *testing.T) {
	_, err := Execute(strings.NewReader(`
total 3
stmt 0
stmt 1
stmt 2
assert in 2 <0 1> out 1 <2>
`), strings.NewReader("0 0x3\n1 0x5\n2 0x10"), nil)
	if err == nil {
		t.Fatal("3·5 != 16: expected a witness-inconsistency error")
	}
}

// prepared holds one full key-generation context so several proofs can be
// run against the same setup.
type prepared struct {
	keyReader *arith.Reader
	pk        *groth16.ProvingKey
	sk        *groth16.SpecificationKey
	vk        *groth16.VerificationKey
}

func prepare(t *testing.T, circuit string) *prepared {
	t.Helper()
	rd, err := arith.Load(strings.NewReader(circuit))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pk, sk, vk, err := groth16.Setup(rd.CS, LayoutOf(rd))
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return &prepared{keyReader: rd, pk: pk, sk: sk, vk: vk}
}

// prove runs one complete prove flow against p's keys. A fresh reader over
// the same circuit text supplies evaluation state (readers are single-use),
// while the constraint system the keys were generated from drives the QAP
// witness.
func (p *prepared) prove(t *testing.T, circuit string, loaded arith.WireValues) (*groth16.DerivedKey, []field.Element, *groth16.Proof) {
	t.Helper()
	rd, err := arith.Load(strings.NewReader(circuit))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	spec, stmt, witness, err := rd.CommitValues(loaded)
	if err != nil {
		t.Fatalf("CommitValues: %v", err)
	}
	ck, err := groth16.Specify(p.pk, p.sk, spec)
	if err != nil {
		t.Fatalf("Specify: %v", err)
	}
	st1, err := groth16.ProveStage1(p.pk, stmt, witness)
	if err != nil {
		t.Fatalf("ProveStage1: %v", err)
	}
	rnd := groth16.DeriveRandomness(p.vk.NumRnd, curve.AddG1(st1.Comm, ck.GammaSpecG1Computed))
	asg, err := rd.Eval(loaded, rnd)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	ok, err := p.keyReader.CS.IsSatisfied(asg.Z)
	if err != nil {
		t.Fatalf("IsSatisfied: %v", err)
	}
	if !ok {
		t.Fatal("assignment does not satisfy the constraint system")
	}
	proof, err := groth16.ProveStage2(p.pk, ck, p.keyReader.CS, asg.Z, st1)
	if err != nil {
		t.Fatalf("ProveStage2: %v", err)
	}
	return ck, stmt, proof
}

func wv(pairs ...uint64) arith.WireValues {
	out := arith.WireValues{}
	for i := 0; i+1 < len(pairs); i += 2 {
		out[wire.ID(pairs[i])] = field.FromUint64(pairs[i+1])
	}
	return out
}

// TestUniversalReuse runs the generator once and two different
// specification assignments against it. Both must verify, and the two
// derived keys must differ.
func TestUniversalReuse(t *testing.T) {
	const circuit = `
total 3
spec 0
witness 1
stmt 2
mul in 2 <0 1> out 1 <2>
`
	p := prepare(t, circuit)

	ck1, stmt1, proof1 := p.prove(t, circuit, wv(0, 2, 1, 3, 2, 6))
	ok, err := groth16.Verify(p.vk, ck1, stmt1, proof1)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("first specialization rejected")
	}

	ck2, stmt2, proof2 := p.prove(t, circuit, wv(0, 4, 1, 5, 2, 20))
	ok, err = groth16.Verify(p.vk, ck2, stmt2, proof2)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("second specialization rejected")
	}

	if ck1.GammaSpecG1Computed.Equal(&ck2.GammaSpecG1Computed) &&
		ck1.EvalAtSpec.Equal(&ck2.EvalAtSpec) &&
		ck1.EvalBtSpecG1.Equal(&ck2.EvalBtSpecG1) {
		t.Fatal("derived keys for different spec assignments should differ")
	}
}

// TestTamperedProofRejected flips each proof component in turn and expects
// the pairing check to fail.
func TestTamperedProofRejected(t *testing.T) {
	const circuit = `
total 4
stmt 0
witness 1
mul in 2 <0 1> out 1 <2>
mul in 2 <2 1> out 1 <3>
`
	p := prepare(t, circuit)
	ck, stmt, proof := p.prove(t, circuit, wv(0, 2, 1, 3))
	ok, err := groth16.Verify(p.vk, ck, stmt, proof)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("untampered proof rejected")
	}

	g1, g2 := curve.Generators()
	mutations := map[string]func(pi groth16.Proof) groth16.Proof{
		"A":           func(pi groth16.Proof) groth16.Proof { pi.A = curve.AddG1(pi.A, g1); return pi },
		"B":           func(pi groth16.Proof) groth16.Proof { pi.B = curve.AddG2(pi.B, g2); return pi },
		"C":           func(pi groth16.Proof) groth16.Proof { pi.C = curve.AddG1(pi.C, g1); return pi },
		"CommWitness": func(pi groth16.Proof) groth16.Proof { pi.CommWitness = curve.AddG1(pi.CommWitness, g1); return pi },
	}
	for name, mutate := range mutations {
		bad := mutate(*proof)
		ok, err := groth16.Verify(p.vk, ck, stmt, &bad)
		if err != nil {
			t.Fatalf("Verify(%s tampered): %v", name, err)
		}
		if ok {
			t.Errorf("proof with tampered %s verified", name)
		}
	}
}

// TestRandomnessDependence changes the statement after the stage-1
// commitment: the verifier must derive different randomness and reject.
func TestRandomnessDependence(t *testing.T) {
	const circuit = `
total 5
stmt 0
witness 1
rnd 2
mul in 2 <0 1> out 1 <3>
mul in 2 <2 3> out 1 <4>
`
	p := prepare(t, circuit)
	if p.vk.NumRnd != 1 {
		t.Fatalf("NumRnd = %d, want 1", p.vk.NumRnd)
	}
	ck, stmt, proof := p.prove(t, circuit, wv(0, 3, 1, 4))
	ok, err := groth16.Verify(p.vk, ck, stmt, proof)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("honest proof rejected")
	}

	tampered := make([]field.Element, len(stmt))
	copy(tampered, stmt)
	one := field.One()
	tampered[0].Add(&tampered[0], &one)
	ok, err = groth16.Verify(p.vk, ck, tampered, proof)
	if err != nil {
		t.Fatalf("Verify(tampered stmt): %v", err)
	}
	if ok {
		t.Fatal("proof verified against a different statement")
	}
}
