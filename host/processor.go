package host

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-tonestack/dsp/core"
	"github.com/cwbudde/algo-tonestack/dsp/filter/tonestack"
)

// ErrUnknownParameter is returned for parameter ids the processor does not
// expose.
var ErrUnknownParameter = errors.New("host: unknown parameter")

const defaultPosition = 0.5

// Processor runs one tone-stack filter per channel under a shared pair of
// bass/treble parameters.
//
// SetParameter, SetSampleRate and ResetParameters are control-side calls and
// may run concurrently with Process. Reset and Process belong to the audio
// goroutine.
type Processor struct {
	mu sync.Mutex

	cfg     core.ProcessorConfig
	params  [paramCount]*Parameter
	filters []*tonestack.Filter
}

// NewProcessor creates a processor with both controls at mid position.
func NewProcessor(opts ...core.ProcessorOption) (*Processor, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	p := &Processor{
		cfg: cfg,
		params: [paramCount]*Parameter{
			ParamBass:   NewParameter(ParamBass, "Bass", defaultPosition),
			ParamTreble: NewParameter(ParamTreble, "Treble", defaultPosition),
		},
		filters: make([]*tonestack.Filter, cfg.Channels),
	}

	for i := range p.filters {
		f, err := tonestack.New(cfg.SampleRate,
			tonestack.WithControls(defaultPosition, defaultPosition))
		if err != nil {
			return nil, fmt.Errorf("host: channel %d: %w", i, err)
		}

		p.filters[i] = f
	}

	return p, nil
}

// Config returns the processing configuration.
func (p *Processor) Config() core.ProcessorConfig {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cfg
}

// Channels returns the number of filtered channels.
func (p *Processor) Channels() int { return len(p.filters) }

// Parameter returns the parameter with the given id, or nil.
func (p *Processor) Parameter(id ParamID) *Parameter {
	if id >= paramCount {
		return nil
	}

	return p.params[id]
}

// Parameters returns all parameters in id order.
func (p *Processor) Parameters() []*Parameter {
	return p.params[:]
}

// Filter returns the filter for channel ch, or nil.
func (p *Processor) Filter(ch int) *tonestack.Filter {
	if ch < 0 || ch >= len(p.filters) {
		return nil
	}

	return p.filters[ch]
}

// SetParameter stores a normalized value and republishes coefficients to
// every channel. Values are clamped to [0, 1]; NaN leaves the parameter
// unchanged.
func (p *Processor) SetParameter(id ParamID, value float64) error {
	if id >= paramCount {
		return fmt.Errorf("%w: %d", ErrUnknownParameter, id)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.params[id].SetValue(value)
	p.applyLocked()

	return nil
}

// SetControls sets both pots in one update.
func (p *Processor) SetControls(bass, treble float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.params[ParamBass].SetValue(bass)
	p.params[ParamTreble].SetValue(treble)
	p.applyLocked()
}

// ResetParameters restores every parameter to its default.
func (p *Processor) ResetParameters() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, param := range p.params {
		param.ResetToDefault()
	}

	p.applyLocked()
}

// SetSampleRate changes the processing rate and re-derives coefficients.
func (p *Processor) SetSampleRate(sampleRate float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, f := range p.filters {
		if err := f.SetSampleRate(sampleRate); err != nil {
			return fmt.Errorf("host: %w", err)
		}
	}

	p.cfg.SampleRate = sampleRate
	p.applyLocked()

	return nil
}

// Reset clears every channel's history, for example at playback start.
func (p *Processor) Reset() {
	for _, f := range p.filters {
		f.Reset()
	}
}

// Process filters each channel buffer in place. Buffers beyond the
// configured channel count are left untouched.
func (p *Processor) Process(channels [][]float64) {
	n := min(len(channels), len(p.filters))
	for ch := range n {
		p.filters[ch].ProcessBlock(channels[ch])
	}
}

// Process32 is Process for float32 host buffers.
func (p *Processor) Process32(channels [][]float32) {
	n := min(len(channels), len(p.filters))
	for ch := range n {
		p.filters[ch].ProcessBlock32(channels[ch])
	}
}

func (p *Processor) applyLocked() {
	bass := p.params[ParamBass].Value()
	treble := p.params[ParamTreble].Value()

	for _, f := range p.filters {
		f.SetControls(bass, treble)
	}
}
