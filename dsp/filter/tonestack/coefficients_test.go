package tonestack

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-tonestack/dsp/core"
	"github.com/cwbudde/algo-tonestack/internal/testutil"
)

// fixed48k expands the analog model with the transform constants written out
// for 48 kHz.
func fixed48k(bass, treble float64) Coefficients {
	an := AnalogModel(bass, treble)
	a, b := an.A, an.B

	a0 := a[0] + (96000.0)*a[1] + (9.216e9)*a[2] + (8.84736e14)*a[3] + (8.4934656e19)*a[4]
	a1 := 4*a[0] + (192000.0)*a[1] - (1.769472e15)*a[3] - (3.39738624e20)*a[4]
	a2 := 6*a[0] - (1.8432e10)*a[2] + (5.09607936e20)*a[4]
	a3 := 4*a[0] - (192000.0)*a[1] + (1.769472e15)*a[3] - (3.39738624e20)*a[4]
	a4 := a[0] - (96000.0)*a[1] + (9.216e9)*a[2] - (8.84736e14)*a[3] + (8.4934656e19)*a[4]

	b0 := b[0] + (96000.0)*b[1] + (9.216e9)*b[2] + (8.84736e14)*b[3] + (8.4934656e19)*b[4]
	b1 := 4*b[0] + (192000.0)*b[1] - (1.769472e15)*b[3] - (3.39738624e20)*b[4]
	b2 := 6*b[0] - (1.8432e10)*b[2] + (5.09607936e20)*b[4]
	b3 := 4*b[0] - (192000.0)*b[1] + (1.769472e15)*b[3] - (3.39738624e20)*b[4]
	b4 := b[0] - (96000.0)*b[1] + (9.216e9)*b[2] - (8.84736e14)*b[3] + (8.4934656e19)*b[4]

	return Coefficients{
		B: [5]float64{b0 / a0, b1 / a0, b2 / a0, b3 / a0, b4 / a0},
		A: [5]float64{1, a1 / a0, a2 / a0, a3 / a0, a4 / a0},
	}
}

func requireCoefficientsNear(t *testing.T, got, want Coefficients, eps float64) {
	t.Helper()

	for i := range got.B {
		if !core.NearlyEqual(got.B[i], want.B[i], eps) {
			t.Fatalf("B[%d] = %.17g, want %.17g", i, got.B[i], want.B[i])
		}

		if !core.NearlyEqual(got.A[i], want.A[i], eps) {
			t.Fatalf("A[%d] = %.17g, want %.17g", i, got.A[i], want.A[i])
		}
	}
}

func TestDeriveMatchesFixedRateReference(t *testing.T) {
	for _, p := range testutil.ControlGrid() {
		got := Derive(p[0], p[1], 48000)
		want := fixed48k(p[0], p[1])
		requireCoefficientsNear(t, got, want, 1e-15)
	}
}

func TestDeriveKnownValues(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		want       Coefficients
	}{
		{
			name:       "48k",
			sampleRate: 48000,
			want: Coefficients{
				B: [5]float64{0.2791552468999674, -1.0872961860677213, 1.5875391203375686, -1.0298060211897635, 0.25040785131045984},
				A: [5]float64{1.0, -3.8697994175344537, 5.612732958777896, -3.6160480239588146, 0.8731145069586418},
			},
		},
		{
			name:       "96k",
			sampleRate: 96000,
			want: Coefficients{
				B: [5]float64{0.2809467404723657, -1.108784423945667, 1.640822303591579, -1.079077698161395, 0.26609307877235944},
				A: [5]float64{1, -3.9335835000746298, 5.8016082373155875, -3.8024634403571596, 0.9344387046820487},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Derive(0.5, 0.5, tc.sampleRate)
			requireCoefficientsNear(t, got, tc.want, 1e-12)
		})
	}
}

func TestDeriveNormalizesLeadingTerm(t *testing.T) {
	for _, p := range testutil.ControlGrid() {
		for _, fs := range []float64{22050, 44100, 48000, 96000, 192000} {
			c := Derive(p[0], p[1], fs)
			if c.A[0] != 1 {
				t.Fatalf("A[0] = %v at bass=%v treble=%v fs=%v", c.A[0], p[0], p[1], fs)
			}

			if !finiteCoefficients(c) {
				t.Fatalf("non-finite coefficients at bass=%v treble=%v fs=%v: %+v", p[0], p[1], fs, c)
			}
		}
	}
}

func TestBilinearTransformDegenerateDenominator(t *testing.T) {
	tests := []struct {
		name string
		an   Analog
		// finite is false when the non-finite analog term propagates past
		// the guard into A[1..4].
		finite bool
	}{
		{name: "zero", an: Analog{B: [5]float64{1e-12, 0, 0, 0, 0}}, finite: true},
		{name: "nan", an: Analog{B: [5]float64{1e-12, 0, 0, 0, 0}, A: [5]float64{math.NaN(), 0, 0, 0, 0}}},
		{name: "inf", an: Analog{B: [5]float64{1e-12, 0, 0, 0, 0}, A: [5]float64{math.Inf(1), 0, 0, 0, 0}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := BilinearTransform(tc.an, 48000)
			if c.A[0] != 1 {
				t.Fatalf("A[0] = %v, want 1", c.A[0])
			}

			// Numerator is divided by the guard value 1e-12.
			if !core.NearlyEqual(c.B[0], 1, 1e-12) {
				t.Fatalf("B[0] = %v, want 1", c.B[0])
			}

			for i := 1; i <= Order; i++ {
				if core.IsFinite(c.A[i]) != tc.finite {
					t.Fatalf("A[%d] = %v, finite want %v", i, c.A[i], tc.finite)
				}
			}

			if !tc.finite && c.IsStable() {
				t.Fatal("non-finite coefficients reported stable")
			}
		})
	}
}

func TestAnalogModelLeadingDenominatorConstant(t *testing.T) {
	want := AnalogModel(0, 0).A[0]
	if want == 0 || !core.IsFinite(want) {
		t.Fatalf("a0 = %v, want finite and non-zero", want)
	}

	for _, p := range testutil.ControlGrid() {
		if got := AnalogModel(p[0], p[1]).A[0]; got != want {
			t.Fatalf("a0 at bass=%v treble=%v = %v, want %v", p[0], p[1], got, want)
		}
	}
}

func TestBilinearTransformConstantTerm(t *testing.T) {
	// A pure gain maps to B/A = gain with binomial weights on both sides.
	an := Analog{B: [5]float64{2}, A: [5]float64{4}}
	c := BilinearTransform(an, 48000)

	wantB := [5]float64{0.5, 2, 3, 2, 0.5}
	wantA := [5]float64{1, 4, 6, 4, 1}

	if c.B != wantB || c.A != wantA {
		t.Fatalf("got %+v, want B=%v A=%v", c, wantB, wantA)
	}

	if dc := c.DCGain(); !core.NearlyEqual(dc, 0.5, 1e-15) {
		t.Fatalf("DCGain = %v, want 0.5", dc)
	}
}

func TestDCGain(t *testing.T) {
	tests := []struct {
		bass, treble float64
		want         float64
	}{
		{0.5, 0.5, 0.4657173524815485},
		{0, 1, 0.019625267672595988},
		{1, 0, 0.9118094218108722},
	}

	for _, tc := range tests {
		got := Derive(tc.bass, tc.treble, 48000).DCGain()
		if !core.NearlyEqual(got, tc.want, 1e-9) {
			t.Fatalf("DCGain(%v,%v) = %.17g, want %.17g", tc.bass, tc.treble, got, tc.want)
		}

		// The transform preserves the analog DC gain B0/A0 up to the
		// cancellation in the coefficient sums.
		an := AnalogModel(tc.bass, tc.treble)
		if !core.NearlyEqual(got, an.B[0]/an.A[0], 1e-6) {
			t.Fatalf("DCGain(%v,%v) = %v, analog %v", tc.bass, tc.treble, got, an.B[0]/an.A[0])
		}
	}
}

func TestMagnitudeDBKnownValues(t *testing.T) {
	c := Derive(0.5, 0.5, 48000)

	tests := []struct {
		freq float64
		want float64
	}{
		{20, -11.06},
		{100, -16.23},
		{1000, -11.65},
		{8000, -10.98},
	}

	for _, tc := range tests {
		if got := c.MagnitudeDB(tc.freq, 48000); math.Abs(got-tc.want) > 0.01 {
			t.Fatalf("MagnitudeDB(%v) = %.4f, want %.2f", tc.freq, got, tc.want)
		}
	}
}

func TestResponseAtDCMatchesDCGain(t *testing.T) {
	c := Derive(0.3, 0.8, 48000)
	h := c.Response(0, 48000)

	if math.Abs(imag(h)) > 1e-12 {
		t.Fatalf("imag(H(0)) = %v, want 0", imag(h))
	}

	if !core.NearlyEqual(real(h), c.DCGain(), 1e-6) {
		t.Fatalf("H(0) = %v, want %v", real(h), c.DCGain())
	}

	if p := c.Phase(0, 48000); math.Abs(p) > 1e-12 {
		t.Fatalf("Phase(0) = %v, want 0", p)
	}
}

func TestResponseTracksSampleRate(t *testing.T) {
	c48 := Derive(0.5, 0.5, 48000)
	c96 := Derive(0.5, 0.5, 96000)

	tests := []struct {
		freq   float64
		want48 float64
		want96 float64
	}{
		{1000, -11.6534, -11.6544},
		{5000, -11.0058, -11.0078},
	}

	for _, tc := range tests {
		g48 := c48.MagnitudeDB(tc.freq, 48000)
		g96 := c96.MagnitudeDB(tc.freq, 96000)

		if math.Abs(g48-tc.want48) > 1e-3 || math.Abs(g96-tc.want96) > 1e-3 {
			t.Fatalf("%v Hz: got %.4f / %.4f dB, want %.4f / %.4f", tc.freq, g48, g96, tc.want48, tc.want96)
		}
	}
}

func TestBassRaisesLowFrequencyGain(t *testing.T) {
	positions := []float64{0, 0.25, 0.5, 0.75, 1}
	for _, treble := range positions {
		prev := math.Inf(-1)
		for _, bass := range positions {
			g := Derive(bass, treble, 48000).MagnitudeDB(40, 48000)
			if g <= prev {
				t.Fatalf("treble=%v: 40 Hz gain %v at bass=%v not above %v", treble, g, bass, prev)
			}

			prev = g
		}
	}
}

func TestTrebleRaisesHighFrequencyGain(t *testing.T) {
	positions := []float64{0, 0.25, 0.5, 0.75, 1}
	for _, bass := range positions {
		prev := math.Inf(-1)
		for _, treble := range positions {
			g := Derive(bass, treble, 48000).MagnitudeDB(8000, 48000)
			if g <= prev {
				t.Fatalf("bass=%v: 8 kHz gain %v at treble=%v not above %v", bass, g, treble, prev)
			}

			prev = g
		}
	}
}

func TestIsStableOverControlGrid(t *testing.T) {
	for _, fs := range []float64{44100, 48000, 96000} {
		for _, p := range testutil.ControlGrid() {
			c := Derive(p[0], p[1], fs)
			if !c.IsStable() {
				t.Fatalf("unstable at bass=%v treble=%v fs=%v: poles %v", p[0], p[1], fs, c.Poles())
			}
		}
	}
}

func TestInteriorPolesInsideUnitCircle(t *testing.T) {
	for _, p := range testutil.ControlGrid() {
		if p[0] == 0 || p[0] == 1 {
			continue
		}

		poles := Derive(p[0], p[1], 48000).Poles()
		if len(poles) != Order {
			t.Fatalf("got %d poles, want %d", len(poles), Order)
		}

		for _, z := range poles {
			if cmplx.Abs(z) >= 1 {
				t.Fatalf("pole %v outside unit circle at bass=%v treble=%v", z, p[0], p[1])
			}
		}
	}
}

func TestEndStopPoleIsCancelled(t *testing.T) {
	for _, bass := range []float64{0, 1} {
		c := Derive(bass, 0.5, 48000)

		// a4 == b4 == 0 in the analog model, so z = -1 is a root of both.
		den := c.A[0] - c.A[1] + c.A[2] - c.A[3] + c.A[4]
		num := c.B[0] - c.B[1] + c.B[2] - c.B[3] + c.B[4]

		if math.Abs(den) > 1e-9 || math.Abs(num) > 1e-9 {
			t.Fatalf("bass=%v: A(-1)=%v B(-1)=%v, want both ~0", bass, den, num)
		}

		if !c.IsStable() {
			t.Fatalf("bass=%v: cancelled pole reported unstable", bass)
		}
	}
}

func TestIsStableRejectsOutsidePole(t *testing.T) {
	// Pole at z = 1.5 with no matching zero.
	c := Coefficients{
		B: [5]float64{1},
		A: [5]float64{1, -1.5},
	}
	if c.IsStable() {
		t.Fatal("expected unstable for pole at 1.5")
	}

	c.A[1] = math.NaN()
	if c.IsStable() {
		t.Fatal("expected unstable for NaN coefficient")
	}
}

func TestZeroCoefficients(t *testing.T) {
	var c Coefficients

	if !c.IsZero() {
		t.Fatal("zero value must report IsZero")
	}

	if !c.IsStable() {
		t.Fatal("zero value must be stable")
	}

	if c.Poles() != nil || c.Zeros() != nil {
		t.Fatal("zero value has no poles or zeros")
	}

	if Derive(0.5, 0.5, 48000).IsZero() {
		t.Fatal("derived coefficients must not be zero")
	}
}

func TestZerosAreRootsOfNumerator(t *testing.T) {
	c := Derive(0.4, 0.6, 48000)
	zeros := c.Zeros()

	if len(zeros) != Order {
		t.Fatalf("got %d zeros, want %d", len(zeros), Order)
	}

	scale := 0.0
	for _, b := range c.B {
		scale += math.Abs(b)
	}

	for _, z := range zeros {
		var v complex128
		for _, b := range c.B {
			v = v*z + complex(b, 0)
		}

		if cmplx.Abs(v) > 1e-8*scale {
			t.Fatalf("|B(%v)| = %v", z, cmplx.Abs(v))
		}
	}
}
