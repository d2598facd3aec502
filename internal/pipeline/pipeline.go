// Package pipeline wires the circuit reader and the SNARK backend into the
// setup → specify → commit → derive-randomness → evaluate → prove → verify
// sequence. The phases run one after another; parallelism lives inside the
// MSM and pairing primitives and in prover stage 2, which runs its
// independent accumulations concurrently.
package pipeline

import (
	"fmt"
	"io"

	"github.com/arithzk/unisnark/internal/arith"
	"github.com/arithzk/unisnark/internal/curve"
	"github.com/arithzk/unisnark/internal/groth16"
	"github.com/arithzk/unisnark/internal/wire"
)

// Result carries everything a caller may want to inspect after a run.
type Result struct {
	Reader   *arith.Reader
	Proof    *groth16.Proof
	Accepted bool
}

// Execute runs the full pipeline over an arith file and an inputs file. It
// returns an error for every structural failure (parse, inputs, witness
// inconsistency); a proof that merely fails the pairing check comes back as
// Accepted=false with a nil error.
func Execute(arithSrc, inputsSrc io.Reader, logf func(format string, args ...any)) (*Result, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	rd, err := arith.Load(arithSrc)
	if err != nil {
		return nil, err
	}
	nSpec, nStmt, nWitness, nRnd, nAux := rd.Groups.Counts()
	logf("circuit: %d constraints, %d variables (spec=%d stmt=%d witness=%d rnd=%d aux=%d)",
		len(rd.CS.Constraints), rd.NumVars, nSpec, nStmt, nWitness, nRnd, nAux)

	loaded, err := rd.LoadInputs(inputsSrc)
	if err != nil {
		return nil, err
	}

	pk, sk, vk, err := groth16.Setup(rd.CS, LayoutOf(rd))
	if err != nil {
		return nil, err
	}
	logf("setup: %d A-query entries, %d H-query entries", len(pk.AQuery), len(pk.HQuery))

	spec, stmt, witness, err := rd.CommitValues(loaded)
	if err != nil {
		return nil, err
	}

	ck, err := groth16.Specify(pk, sk, spec)
	if err != nil {
		return nil, err
	}

	st1, err := groth16.ProveStage1(pk, stmt, witness)
	if err != nil {
		return nil, err
	}

	rnd := groth16.DeriveRandomness(vk.NumRnd, curve.AddG1(st1.Comm, ck.GammaSpecG1Computed))
	asg, err := rd.Eval(loaded, rnd)
	if err != nil {
		return nil, err
	}

	ok, err := rd.CS.IsSatisfied(asg.Z)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("pipeline: assignment does not satisfy the constraint system; check the inputs file")
	}

	proof, err := groth16.ProveStage2(pk, ck, rd.CS, asg.Z, st1)
	if err != nil {
		return nil, err
	}

	accepted, err := groth16.Verify(vk, ck, stmt, proof)
	if err != nil {
		return nil, err
	}
	logf("verify: accepted=%v", accepted)
	return &Result{Reader: rd, Proof: proof, Accepted: accepted}, nil
}

// LayoutOf builds the backend's variable layout from a loaded reader.
func LayoutOf(rd *arith.Reader) groth16.Layout {
	r := func(g wire.Group) groth16.Range {
		lo, hi := rd.VarRange(g)
		return groth16.Range{Lo: lo, Hi: hi}
	}
	return groth16.Layout{
		NumVars: rd.NumVars,
		Spec:    r(wire.Spec),
		Stmt:    r(wire.Stmt),
		Witness: r(wire.Witness),
		Rnd:     r(wire.Rnd),
		Aux:     r(wire.Aux),
	}
}
