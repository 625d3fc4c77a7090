package host

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/cwbudde/algo-tonestack/dsp/core"
)

// ParamID identifies a processor parameter.
type ParamID uint32

// Parameter ids exposed by [Processor].
const (
	ParamBass ParamID = iota
	ParamTreble

	paramCount
)

// Parameter is a normalized [0, 1] value readable from any goroutine.
type Parameter struct {
	ID           ParamID
	Name         string
	DefaultValue float64

	value atomic.Uint64
}

// NewParameter creates a parameter set to its default value.
func NewParameter(id ParamID, name string, defaultValue float64) *Parameter {
	p := &Parameter{ID: id, Name: name, DefaultValue: core.Clamp01(defaultValue)}
	p.value.Store(math.Float64bits(p.DefaultValue))

	return p
}

// Value returns the current normalized value.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue stores value clamped to [0, 1]. NaN is ignored.
func (p *Parameter) SetValue(value float64) {
	if math.IsNaN(value) {
		return
	}

	p.value.Store(math.Float64bits(core.Clamp01(value)))
}

// ResetToDefault restores the default value.
func (p *Parameter) ResetToDefault() {
	p.SetValue(p.DefaultValue)
}

// Text formats the current value as a knob label on a 0..10 dial.
func (p *Parameter) Text() string {
	return strconv.FormatFloat(p.Value()*10, 'f', 1, 64)
}

// ParseText parses a dial position in 0..10 and returns the normalized value.
func (p *Parameter) ParseText(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("host: parse %s: %w", p.Name, err)
	}

	if math.IsNaN(v) {
		return 0, fmt.Errorf("host: parse %s: not a number", p.Name)
	}

	return core.Clamp01(v / 10), nil
}
