package tonestack

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-tonestack/dsp/core"
	"github.com/cwbudde/algo-tonestack/internal/polyroot"
)

// Order is the order of the tone-stack transfer function.
const Order = 4

// cancelTolerance bounds how far a pole may sit outside the unit circle and
// how small the numerator must be there for the pair to count as cancelled.
const cancelTolerance = 1e-6

// Coefficients holds the normalized discrete transfer function
// H(z) = (B0 + B1*z^-1 + ... + B4*z^-4) / (A0 + A1*z^-1 + ... + A4*z^-4).
//
// A[0] is 1 for every set produced by [BilinearTransform]. The zero value
// describes a filter whose output is always zero.
type Coefficients struct {
	B [Order + 1]float64
	A [Order + 1]float64
}

// IsZero reports whether every coefficient is zero.
func (c Coefficients) IsZero() bool {
	return c == Coefficients{}
}

// Response computes the complex frequency response H(e^jw) at freqHz for a
// filter running at sampleRate.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	zi := cmplx.Exp(complex(0, -w))

	var num, den complex128
	for i := Order; i >= 0; i-- {
		num = num*zi + complex(c.B[i], 0)
		den = den*zi + complex(c.A[i], 0)
	}

	return num / den
}

// MagnitudeDB returns 20*log10(|H(f)|).
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// Phase returns the phase response in radians, in [-pi, pi].
func (c Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}

// DCGain returns H(1), the gain for a constant input.
func (c Coefficients) DCGain() float64 {
	var num, den float64
	for i := range c.B {
		num += c.B[i]
		den += c.A[i]
	}

	return num / den
}

// Poles returns the roots of the denominator in the z plane. It returns nil
// for a degenerate denominator such as the zero value.
func (c Coefficients) Poles() []complex128 {
	roots, err := polyroot.Roots(c.A[:])
	if err != nil {
		return nil
	}

	return roots
}

// Zeros returns the roots of the numerator in the z plane, or nil for an
// all-zero numerator.
func (c Coefficients) Zeros() []complex128 {
	roots, err := polyroot.Roots(c.B[:])
	if err != nil {
		return nil
	}

	return roots
}

// IsStable reports whether every pole lies strictly inside the unit circle.
//
// At the bass end stops the analog s^4 terms vanish and the transform places
// a pole and a zero together at z = -1. Such a pole is cancelled by the
// numerator and does not count against stability. The zero value is stable.
func (c Coefficients) IsStable() bool {
	if c.IsZero() {
		return true
	}

	if !finiteCoefficients(c) {
		return false
	}

	poles, err := polyroot.Roots(c.A[:])
	if err != nil {
		return false
	}

	scale := 0.0
	for _, b := range c.B {
		scale += math.Abs(b)
	}

	for _, p := range poles {
		r := cmplx.Abs(p)
		if r < 1 {
			continue
		}

		if r > 1+cancelTolerance {
			return false
		}

		if cmplx.Abs(polyroot.EvalReal(c.B[:], p)) > cancelTolerance*scale {
			return false
		}
	}

	return true
}

func finiteCoefficients(c Coefficients) bool {
	for i := range c.B {
		if !core.IsFinite(c.B[i]) || !core.IsFinite(c.A[i]) {
			return false
		}
	}

	return true
}
