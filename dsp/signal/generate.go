// Package signal generates the deterministic excitation signals used to
// audition and measure the tone stack: impulses, steps, sines, noise and
// exponential sweeps.
package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tonestack/dsp/core"
)

var (
	// ErrInvalidLength is returned for a non-positive sample count.
	ErrInvalidLength = errors.New("signal: length must be > 0")
	// ErrInvalidFrequency is returned for frequencies outside (0, Nyquist).
	ErrInvalidFrequency = errors.New("signal: frequency must be in (0, sampleRate/2)")
	// ErrInvalidAmplitude is returned for a negative or non-finite amplitude.
	ErrInvalidAmplitude = errors.New("signal: amplitude must be finite and >= 0")
	// ErrUnknownKind is returned by Generate for an unrecognized signal kind.
	ErrUnknownKind = errors.New("signal: unknown kind")
)

// Kind names a signal shape.
type Kind string

// Signal kinds accepted by Generate.
const (
	KindImpulse Kind = "impulse"
	KindStep    Kind = "step"
	KindSine    Kind = "sine"
	KindNoise   Kind = "noise"
	KindSweep   Kind = "sweep"
)

// Kinds lists every signal kind in display order.
func Kinds() []Kind {
	return []Kind{KindImpulse, KindStep, KindSine, KindNoise, KindSweep}
}

// Spec describes one signal for Generate.
type Spec struct {
	Kind      Kind
	Amplitude float64
	// FreqHz is the sine frequency or the sweep start frequency.
	FreqHz float64
	// EndHz is the sweep end frequency.
	EndHz float64
}

// Generator creates deterministic signals at a shared sample rate.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed for noise.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator from processor options and
// signal-specific options.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 {
	return g.cfg.SampleRate
}

// Generate dispatches on spec.Kind.
func (g *Generator) Generate(spec Spec, samples int) ([]float64, error) {
	switch spec.Kind {
	case KindImpulse:
		return g.Impulse(spec.Amplitude, samples)
	case KindStep:
		return g.Step(spec.Amplitude, samples)
	case KindSine:
		return g.Sine(spec.FreqHz, spec.Amplitude, samples)
	case KindNoise:
		return g.WhiteNoise(spec.Amplitude, samples)
	case KindSweep:
		return g.LogSweep(spec.FreqHz, spec.EndHz, spec.Amplitude, samples)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
}

// Impulse returns a unit-sample pulse of the given height at index 0.
func (g *Generator) Impulse(amplitude float64, samples int) ([]float64, error) {
	if err := validate(amplitude, samples); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	out[0] = amplitude

	return out, nil
}

// Step returns a constant signal, the input whose settled output is the DC
// gain.
func (g *Generator) Step(amplitude float64, samples int) ([]float64, error) {
	if err := validate(amplitude, samples); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	for i := range out {
		out[i] = amplitude
	}

	return out, nil
}

// Sine generates a sine wave starting at phase zero.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := validate(amplitude, samples); err != nil {
		return nil, err
	}

	if err := g.validateFrequency(freqHz); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if err := validate(amplitude, samples); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// LogSweep generates an exponential sine sweep from startHz to endHz.
// The instantaneous frequency is startHz*exp(t/T*ln(endHz/startHz)).
func (g *Generator) LogSweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if err := validate(amplitude, samples); err != nil {
		return nil, err
	}

	if err := g.validateFrequency(startHz); err != nil {
		return nil, err
	}

	if err := g.validateFrequency(endHz); err != nil {
		return nil, err
	}

	if endHz <= startHz {
		return nil, fmt.Errorf("%w: end %g <= start %g", ErrInvalidFrequency, endHz, startHz)
	}

	out := make([]float64, samples)
	duration := float64(samples) / g.cfg.SampleRate
	rate := math.Log(endHz / startHz)
	k := 2 * math.Pi * startHz * duration / rate

	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		out[i] = amplitude * math.Sin(k*(math.Exp(t/duration*rate)-1))
	}

	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 || !core.IsFinite(targetPeak) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidAmplitude, targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidLength)
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}

func validate(amplitude float64, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, samples)
	}

	if amplitude < 0 || !core.IsFinite(amplitude) {
		return fmt.Errorf("%w: %f", ErrInvalidAmplitude, amplitude)
	}

	return nil
}

func (g *Generator) validateFrequency(freqHz float64) error {
	if !(freqHz > 0 && freqHz < g.cfg.SampleRate/2) {
		return fmt.Errorf("%w: %g", ErrInvalidFrequency, freqHz)
	}

	return nil
}
