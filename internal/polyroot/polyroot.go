// Package polyroot finds the roots of the low-order real polynomials that
// describe tone-stack transfer functions in the z domain.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (all zero, non-finite, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// Roots returns the roots of the real polynomial
// c[0]*z^n + c[1]*z^(n-1) + ... + c[n].
//
// A discrete transfer-function polynomial stored in ascending powers of z^-1
// is already in this order once multiplied through by z^n. Leading zero
// coefficients lower the degree; a polynomial with no non-zero coefficient or
// with non-finite coefficients is degenerate.
func Roots(c []float64) ([]complex128, error) {
	first := -1
	for i, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrDegeneratePolynomial
		}
		if first < 0 && v != 0 {
			first = i
		}
	}

	if first < 0 {
		return nil, ErrDegeneratePolynomial
	}

	if first == len(c)-1 {
		// Non-zero constant: no roots.
		return []complex128{}, nil
	}

	coeff := make([]complex128, len(c)-first)
	for i := range coeff {
		coeff[i] = complex(c[first+i], 0)
	}

	return DurandKerner(coeff)
}

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
//nolint:cyclop
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	// Cauchy-style bound keeps the initial guesses outside every root.
	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}

	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 1000
		tol     = 1e-12
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := PolyEval(norm, roots[i]) / den

			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	// Clustered roots converge linearly; accept them once the residual is small.
	maxResidual := 0.0

	for _, r := range roots {
		res := cmplx.Abs(PolyEval(norm, r))
		if res > maxResidual {
			maxResidual = res
		}
	}

	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}

// EvalReal evaluates a real polynomial in descending power order at x.
func EvalReal(c []float64, x complex128) complex128 {
	if len(c) == 0 {
		return 0
	}

	v := complex(c[0], 0)
	for i := 1; i < len(c); i++ {
		v = v*x + complex(c[i], 0)
	}

	return v
}

// MaxModulus returns the largest |r| over roots, or 0 for no roots.
func MaxModulus(roots []complex128) float64 {
	m := 0.0
	for _, r := range roots {
		if a := cmplx.Abs(r); a > m {
			m = a
		}
	}

	return m
}
