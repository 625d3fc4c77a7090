package response

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"

	"github.com/cwbudde/algo-tonestack/dsp/filter/tonestack"
	"github.com/cwbudde/algo-tonestack/internal/testutil"
)

func TestNewAnalyzerValidation(t *testing.T) {
	if _, err := NewAnalyzer(0, 1024); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("sample rate 0: err = %v", err)
	}

	if _, err := NewAnalyzer(math.NaN(), 1024); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("sample rate NaN: err = %v", err)
	}

	for _, n := range []int{-8, 1, 1000} {
		if _, err := NewAnalyzer(48000, n); !errors.Is(err, ErrInvalidFFTSize) {
			t.Fatalf("fft size %d: err = %v", n, err)
		}
	}

	a, err := NewAnalyzer(48000, 0)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	if a.FFTSize() != defaultFFTSize || a.SampleRate() != 48000 {
		t.Fatalf("got size=%d rate=%v", a.FFTSize(), a.SampleRate())
	}
}

func TestMeasureEmpty(t *testing.T) {
	a, err := NewAnalyzer(48000, 64)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Measure(nil); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("Measure(nil) error = %v", err)
	}
}

func TestMeasureImpulseIsFlat(t *testing.T) {
	a, err := NewAnalyzer(48000, 256)
	if err != nil {
		t.Fatal(err)
	}

	spec, err := a.Measure(testutil.Impulse(16, 3))
	if err != nil {
		t.Fatal(err)
	}

	if len(spec.MagnitudeDB) != 129 {
		t.Fatalf("bins = %d, want 129", len(spec.MagnitudeDB))
	}

	if spec.BinHz != 48000.0/256 {
		t.Fatalf("BinHz = %v", spec.BinHz)
	}

	for i, m := range spec.MagnitudeDB {
		if math.Abs(m) > 1e-9 {
			t.Fatalf("bin %d = %v dB, want 0", i, m)
		}
	}
}

func TestMeasureMatchesAnalyticToneStack(t *testing.T) {
	const (
		fs = 48000.0
		n  = 32768
	)

	for _, p := range [][2]float64{{0.5, 0.5}, {0.2, 0.9}, {0.8, 0.1}} {
		f, err := tonestack.New(fs, tonestack.WithControls(p[0], p[1]))
		if err != nil {
			t.Fatal(err)
		}

		a, err := NewAnalyzer(fs, n)
		if err != nil {
			t.Fatal(err)
		}

		spec, err := a.Measure(f.ImpulseResponse(n))
		if err != nil {
			t.Fatal(err)
		}

		c := f.Coefficients()
		for _, bin := range []int{1, 7, 70, 683, 2048, 5461, 12000} {
			freq := spec.Frequency(bin)
			want := c.MagnitudeDB(freq, fs)

			if got := spec.MagnitudeDB[bin]; math.Abs(got-want) > 0.05 {
				t.Fatalf("bass=%v treble=%v %.1f Hz: measured %.4f dB, analytic %.4f dB",
					p[0], p[1], freq, got, want)
			}
		}
	}
}

func TestMeasureAgreesWithReferenceFFT(t *testing.T) {
	const n = 1024

	f, err := tonestack.New(48000, tonestack.WithControls(0.3, 0.7))
	if err != nil {
		t.Fatal(err)
	}

	ir := f.ImpulseResponse(n)

	a, err := NewAnalyzer(48000, n)
	if err != nil {
		t.Fatal(err)
	}

	spec, err := a.Measure(ir)
	if err != nil {
		t.Fatal(err)
	}

	ref := fft.FFTReal(ir)
	for i, got := range spec.MagnitudeDB {
		want := 20 * math.Log10(cmplx.Abs(ref[i]))
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("bin %d: %.9f dB, reference %.9f dB", i, got, want)
		}
	}
}

func TestSpectrumPeakTrough(t *testing.T) {
	f, err := tonestack.New(48000, tonestack.WithControls(0.5, 0.5))
	if err != nil {
		t.Fatal(err)
	}

	a, err := NewAnalyzer(48000, 32768)
	if err != nil {
		t.Fatal(err)
	}

	spec, err := a.Measure(f.ImpulseResponse(32768))
	if err != nil {
		t.Fatal(err)
	}

	peakHz, peakDB := spec.Peak()
	if peakHz != 0 || math.Abs(peakDB-(-6.6376)) > 0.01 {
		t.Fatalf("Peak() = %.2f Hz %.4f dB, want DC at -6.64 dB", peakHz, peakDB)
	}

	troughHz, troughDB := spec.Trough()
	if troughHz < 70 || troughHz > 100 || math.Abs(troughDB-(-16.3056)) > 0.02 {
		t.Fatalf("Trough() = %.2f Hz %.4f dB, want ~86 Hz at -16.31 dB", troughHz, troughDB)
	}
}

func TestSpectrumAt(t *testing.T) {
	s := Spectrum{BinHz: 10, MagnitudeDB: []float64{0, -10, -20}}

	tests := []struct {
		freq, want float64
	}{
		{-5, 0},
		{0, 0},
		{5, -5},
		{10, -10},
		{17.5, -17.5},
		{40, -20},
	}

	for _, tc := range tests {
		if got := s.At(tc.freq); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("At(%v) = %v, want %v", tc.freq, got, tc.want)
		}
	}

	if !math.IsNaN((Spectrum{}).At(100)) {
		t.Fatal("At on empty spectrum must be NaN")
	}
}

func TestSpectrumBandMean(t *testing.T) {
	s := Spectrum{BinHz: 10, MagnitudeDB: []float64{0, -10, -20, -30}}

	got, err := s.BandMean(5, 25)
	if err != nil {
		t.Fatal(err)
	}

	if got != -15 {
		t.Fatalf("BandMean(5, 25) = %v, want -15", got)
	}

	if _, err := s.BandMean(20, 10); !errors.Is(err, ErrInvalidBand) {
		t.Fatalf("inverted band error = %v", err)
	}

	if _, err := s.BandMean(11, 19); !errors.Is(err, ErrInvalidBand) {
		t.Fatalf("empty band error = %v", err)
	}
}
