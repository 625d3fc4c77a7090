package tonestack

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-tonestack/dsp/core"
)

const (
	defaultBass   = 0.5
	defaultTreble = 0.5
)

// State contains the filter's delay line for save/restore workflows, most
// recent sample first.
type State struct {
	X [Order]float64
	Y [Order]float64
}

// snapshot is an immutable coefficient set published by the control side.
type snapshot struct {
	coeffs Coefficients
	bass   float64
	treble float64
}

// Filter is a streaming tone-stack processor for one channel.
//
// Control methods may run on a different goroutine than processing; see the
// package documentation for the threading contract.
type Filter struct {
	sampleRate    atomic.Uint64
	referenceRate float64
	current       atomic.Pointer[snapshot]

	hist history
}

// New constructs a tone-stack filter at sampleRate.
//
// Coefficients start at zero, so the filter is silent until controls are
// applied with [WithControls] or [Filter.SetControls].
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{referenceRate: cfg.referenceRate}
	f.sampleRate.Store(math.Float64bits(sampleRate))
	f.current.Store(&snapshot{bass: cfg.bass, treble: cfg.treble})

	if cfg.applyControls {
		f.SetControls(cfg.bass, cfg.treble)
	}

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 {
	return math.Float64frombits(f.sampleRate.Load())
}

// SetSampleRate stores a new sample rate. Coefficients are not recomputed;
// call SetControls afterwards to re-derive them at the new rate.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	f.sampleRate.Store(math.Float64bits(sampleRate))

	return nil
}

// SetControls clamps the pot positions to [0, 1], derives new coefficients
// and publishes them atomically. A NaN position leaves that control at its
// last applied value. History is not touched.
//
// SetControls allocates and must not be called from the audio goroutine.
func (f *Filter) SetControls(bass, treble float64) {
	prev := f.current.Load()
	if math.IsNaN(bass) {
		bass = prev.bass
	}

	if math.IsNaN(treble) {
		treble = prev.treble
	}

	bass = core.Clamp01(bass)
	treble = core.Clamp01(treble)

	f.current.Store(&snapshot{
		coeffs: Derive(bass, treble, f.transformRate()),
		bass:   bass,
		treble: treble,
	})
}

// Controls returns the last applied bass and treble positions.
func (f *Filter) Controls() (bass, treble float64) {
	s := f.current.Load()
	return s.bass, s.treble
}

// Coefficients returns a copy of the coefficients currently in use.
func (f *Filter) Coefficients() Coefficients {
	return f.current.Load().coeffs
}

// Reset clears the delay line. Coefficients and controls are kept.
func (f *Filter) Reset() {
	f.hist.reset()
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	return f.hist.step(&f.current.Load().coeffs, x)
}

// ProcessBlock filters buf in place. Coefficients are read once per call, so
// a concurrent control change applies from the next block on.
func (f *Filter) ProcessBlock(buf []float64) {
	c := &f.current.Load().coeffs
	for i, x := range buf {
		buf[i] = f.hist.step(c, x)
	}
}

// ProcessBlockTo filters src into dst. dst and src may alias; the shorter
// length is processed.
func (f *Filter) ProcessBlockTo(dst, src []float64) {
	n := min(len(dst), len(src))
	c := &f.current.Load().coeffs
	for i := range n {
		dst[i] = f.hist.step(c, src[i])
	}
}

// ProcessBlock32 filters a float32 buffer in place. Samples are widened to
// float64 for the recurrence and the delay line stays float64.
func (f *Filter) ProcessBlock32(buf []float32) {
	c := &f.current.Load().coeffs
	for i, x := range buf {
		buf[i] = float32(f.hist.step(c, float64(x)))
	}
}

// State returns a snapshot of the delay line.
func (f *Filter) State() State {
	return f.hist.state()
}

// SetState restores a delay line captured with State.
func (f *Filter) SetState(s State) error {
	for i := range Order {
		if !core.IsFinite(s.X[i]) || !core.IsFinite(s.Y[i]) {
			return fmt.Errorf("%w: index %d", ErrInvalidState, i)
		}
	}

	f.hist.setState(s)

	return nil
}

// ImpulseResponse computes n samples of the impulse response with the
// current coefficients. The delay line is saved and restored.
func (f *Filter) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	saved := f.hist
	f.hist.reset()

	c := &f.current.Load().coeffs
	ir := make([]float64, n)
	ir[0] = f.hist.step(c, 1)

	for i := 1; i < n; i++ {
		ir[i] = f.hist.step(c, 0)
	}

	f.hist = saved

	return ir
}

func (f *Filter) transformRate() float64 {
	if f.referenceRate > 0 {
		return f.referenceRate
	}

	return f.SampleRate()
}
