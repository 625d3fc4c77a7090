package tonestack

// Analog holds the continuous-domain transfer function of the tone stack,
// H(s) = (B0 + B1*s + ... + B4*s^4) / (A0 + A1*s + ... + A4*s^4).
type Analog struct {
	B [5]float64 // numerator, ascending powers of s
	A [5]float64 // denominator, ascending powers of s
}

// AnalogModel evaluates the fitted analog model of the tone stack at the
// given pot positions. Both positions are expected in [0, 1].
//
// The polynomials encode the network's resistor and capacitor values
// implicitly; the constants are carried over verbatim from the circuit fit
// and must not be rounded.
func AnalogModel(bass, treble float64) Analog {
	b, t := bass, treble

	a0 := 9.34e10
	a1 := (-2.975e9)*b*b + (3.251e9)*b + (7.948e8)*t + 2.934e8
	a2 := 2.344e5 -
		(7.761e6)*b*b +
		(1.885e7)*b*t +
		(8.434e6)*b +
		(1.593e6)*t -
		(1.403e6)*t*t -
		(1.714e7)*b*b*t
	a3 := (-33269.0)*b*t*t + (5667.0)*b +
		(37452.0)*b*t -
		(5311.0)*b*b +
		(335.3)*(t-t*t) -
		(34433.0)*b*b*t +
		(30250.0)*b*b*t*t +
		39.6
	a4 := (7.381)*(b*t+b*b*t*t-
		b*t*t-b*b*t) +
		0.8712*(b-b*b)

	b0 := (8.333e10)*b + 1.833e9
	b1 := (7.083e8)*b*t - (3.083e8)*b*b + (4.794e8)*b +
		(1.558e7)*t + 2.383e7
	b2 := 844320.0*b - (2.808e6)*b*b*t + (232280.0)*t +
		(4.464e6)*b*t - (754230.0)*b*b -
		(1.25e6)*b*t*t -
		27500.0*t*t + 10010.0
	b3 := 220.2*(b-b*b) + (8310.0)*b*t -
		(7409.0)*b*b*t + (100.1)*t +
		(2750.0)*b*b*t*t -
		(60.5)*t*t -
		(3294.5)*b*t*t
	b4 := 2.202*(b*t-b*b*t) +
		1.331*(b*b*t*t-b*t*t)

	return Analog{
		B: [5]float64{b0, b1, b2, b3, b4},
		A: [5]float64{a0, a1, a2, a3, a4},
	}
}
