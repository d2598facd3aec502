package groth16

import (
	"fmt"

	"github.com/arithzk/unisnark/internal/curve"
	"github.com/arithzk/unisnark/internal/field"
)

// Specify folds a specification-wire assignment into the derived key shared
// by prover and verifier. Setup runs once per circuit; Specify runs once per
// specialization and never touches the toxic waste.
func Specify(pk *ProvingKey, sk *SpecificationKey, spec []field.Element) (*DerivedKey, error) {
	if len(spec) != pk.Layout.Spec.Len() {
		return nil, fmt.Errorf("groth16: expected %d spec values, got %d", pk.Layout.Spec.Len(), len(spec))
	}

	gammaSpec, err := curve.MSMG1(sk.Gamma0G1, sk.GammaSpecG1, spec)
	if err != nil {
		return nil, err
	}

	// The one variable carries an implicit assignment of 1, so the spec
	// block's A/B sums start from the query's first entry.
	lo, hi := pk.Layout.Spec.Lo, pk.Layout.Spec.Hi
	evalA, err := curve.MSMG1(pk.AQuery[0], pk.AQuery[lo:hi], spec)
	if err != nil {
		return nil, err
	}
	evalBG2, err := curve.MSMG2(pk.BQueryG2[0], pk.BQueryG2[lo:hi], spec)
	if err != nil {
		return nil, err
	}
	evalBG1, err := curve.MSMG1(pk.BQueryG1[0], pk.BQueryG1[lo:hi], spec)
	if err != nil {
		return nil, err
	}

	return &DerivedKey{
		GammaSpecG1Computed: gammaSpec,
		EvalAtSpec:          evalA,
		EvalBtSpecG2:        evalBG2,
		EvalBtSpecG1:        evalBG1,
	}, nil
}
