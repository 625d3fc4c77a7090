package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-tonestack/dsp/core"
)

const defaultFFTSize = 8192

var (
	// ErrEmptyResponse is returned when the impulse response is empty.
	ErrEmptyResponse = errors.New("response: empty impulse response")
	// ErrInvalidSampleRate is returned for sample rates that are not finite
	// and positive.
	ErrInvalidSampleRate = errors.New("response: sample rate must be > 0 and finite")
	// ErrInvalidFFTSize is returned for FFT sizes that are not a power of
	// two of at least 2.
	ErrInvalidFFTSize = errors.New("response: FFT size must be a power of two >= 2")
	// ErrInvalidBand is returned for an empty or inverted frequency band.
	ErrInvalidBand = errors.New("response: invalid frequency band")
)

// Analyzer turns impulse responses into magnitude spectra.
type Analyzer struct {
	sampleRate float64
	fftSize    int
	plan       *algofft.Plan[complex128]
}

// NewAnalyzer creates an analyzer for sampleRate. An fftSize of 0 selects
// the default of 8192.
func NewAnalyzer(sampleRate float64, fftSize int) (*Analyzer, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	if fftSize == 0 {
		fftSize = defaultFFTSize
	}

	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: create FFT plan: %w", err)
	}

	return &Analyzer{sampleRate: sampleRate, fftSize: fftSize, plan: plan}, nil
}

// SampleRate returns the analyzer's sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// Measure computes the magnitude spectrum of ir. Samples beyond the FFT size
// are discarded.
func (a *Analyzer) Measure(ir []float64) (Spectrum, error) {
	if len(ir) == 0 {
		return Spectrum{}, ErrEmptyResponse
	}

	in := make([]complex128, a.fftSize)
	for i := range min(len(ir), a.fftSize) {
		in[i] = complex(ir[i], 0)
	}

	out := make([]complex128, a.fftSize)
	if err := a.plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("response: forward FFT: %w", err)
	}

	bins := a.fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	for i, m := range mag {
		mag[i] = core.LinearToDB(m)
	}

	return Spectrum{
		BinHz:       a.sampleRate / float64(a.fftSize),
		MagnitudeDB: mag,
	}, nil
}

// Spectrum is a one-sided magnitude spectrum in dB.
type Spectrum struct {
	// BinHz is the frequency spacing between bins.
	BinHz float64
	// MagnitudeDB holds bins 0..N/2.
	MagnitudeDB []float64
}

// Frequency returns the center frequency of bin i in Hz.
func (s Spectrum) Frequency(i int) float64 {
	return float64(i) * s.BinHz
}

// At returns the magnitude at freqHz, interpolated linearly between the
// neighboring bins. Frequencies outside the spectrum return the edge bins.
func (s Spectrum) At(freqHz float64) float64 {
	n := len(s.MagnitudeDB)
	if n == 0 || s.BinHz <= 0 {
		return math.NaN()
	}

	pos := freqHz / s.BinHz
	if pos <= 0 {
		return s.MagnitudeDB[0]
	}

	if pos >= float64(n-1) {
		return s.MagnitudeDB[n-1]
	}

	i := int(pos)
	frac := pos - float64(i)

	return s.MagnitudeDB[i]*(1-frac) + s.MagnitudeDB[i+1]*frac
}

// Peak returns the frequency and level of the loudest bin.
func (s Spectrum) Peak() (freqHz, levelDB float64) {
	if len(s.MagnitudeDB) == 0 {
		return 0, math.NaN()
	}

	i := floats.MaxIdx(s.MagnitudeDB)

	return s.Frequency(i), s.MagnitudeDB[i]
}

// Trough returns the frequency and level of the quietest bin above DC.
func (s Spectrum) Trough() (freqHz, levelDB float64) {
	if len(s.MagnitudeDB) < 2 {
		return 0, math.NaN()
	}

	i := floats.MinIdx(s.MagnitudeDB[1:]) + 1

	return s.Frequency(i), s.MagnitudeDB[i]
}

// BandMean returns the mean level in dB of the bins whose center lies in
// [loHz, hiHz].
func (s Spectrum) BandMean(loHz, hiHz float64) (float64, error) {
	if !(loHz < hiHz) || s.BinHz <= 0 {
		return 0, fmt.Errorf("%w: [%f, %f]", ErrInvalidBand, loHz, hiHz)
	}

	lo := max(int(math.Ceil(loHz/s.BinHz)), 0)
	hi := min(int(math.Floor(hiHz/s.BinHz)), len(s.MagnitudeDB)-1)

	if lo > hi {
		return 0, fmt.Errorf("%w: no bins in [%f, %f]", ErrInvalidBand, loHz, hiHz)
	}

	return stat.Mean(s.MagnitudeDB[lo:hi+1], nil), nil
}
