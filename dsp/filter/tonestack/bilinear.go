package tonestack

import "math"

// degenerateLead replaces a zero or non-finite leading denominator term
// before normalization.
const degenerateLead = 1e-12

// BilinearTransform maps an analog tone-stack transfer function to the z
// domain with s = k*(1 - z^-1)/(1 + z^-1), k = 2*sampleRate, and normalizes
// the result by the raw degree-0 denominator term so that A[0] == 1.
//
// The guard only covers the leading denominator term. Non-finite analog
// coefficients still reach the remaining terms through every row of the
// expansion; AnalogModel never produces them.
//
// The computation is pure and allocation-free.
func BilinearTransform(an Analog, sampleRate float64) Coefficients {
	k := 2 * sampleRate

	return normalize(bilinear4(an.B, k), bilinear4(an.A, k))
}

// Derive returns the normalized discrete coefficients for the given pot
// positions at sampleRate. Positions are expected in [0, 1]; callers clamp.
func Derive(bass, treble, sampleRate float64) Coefficients {
	return BilinearTransform(AnalogModel(bass, treble), sampleRate)
}

// bilinear4 expands sum c[i]*s^i after substituting the bilinear map and
// multiplying through by (1 + z^-1)^4. Row j holds the z^-j coefficient:
// sum_i c[i] * k^i * [z^-j] (1 - z^-1)^i (1 + z^-1)^(4-i).
func bilinear4(c [5]float64, k float64) [5]float64 {
	k2 := k * k
	k3 := k2 * k
	k4 := k3 * k

	return [5]float64{
		c[0] + k*c[1] + k2*c[2] + k3*c[3] + k4*c[4],
		4*c[0] + 2*k*c[1] - 2*k3*c[3] - 4*k4*c[4],
		6*c[0] - 2*k2*c[2] + 6*k4*c[4],
		4*c[0] - 2*k*c[1] + 2*k3*c[3] - 4*k4*c[4],
		c[0] - k*c[1] + k2*c[2] - k3*c[3] + k4*c[4],
	}
}

// normalize divides both raw polynomials by den[0]. A zero, NaN or infinite
// den[0] is replaced by degenerateLead so the division stays defined.
func normalize(num, den [5]float64) Coefficients {
	lead := den[0]
	if lead == 0 || math.IsNaN(lead) || math.IsInf(lead, 0) {
		lead = degenerateLead
	}

	var c Coefficients

	c.A[0] = 1
	for i := 1; i < len(den); i++ {
		c.A[i] = den[i] / lead
	}

	for i := range num {
		c.B[i] = num[i] / lead
	}

	return c
}
