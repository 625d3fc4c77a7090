package tonestack

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tonestack/dsp/core"
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	bass, treble  float64
	applyControls bool
	referenceRate float64
}

func defaultConfig() config {
	return config{
		bass:   defaultBass,
		treble: defaultTreble,
	}
}

// WithControls applies initial pot positions at construction. Values are
// clamped to [0, 1]; NaN is rejected.
func WithControls(bass, treble float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(bass) || math.IsNaN(treble) {
			return fmt.Errorf("%w: bass=%f treble=%f", ErrInvalidControl, bass, treble)
		}

		cfg.bass = core.Clamp01(bass)
		cfg.treble = core.Clamp01(treble)
		cfg.applyControls = true

		return nil
	}
}

// WithReferenceRate pins the bilinear transform to a fixed rate in Hz,
// independent of the rate the filter runs at. Must be finite and > 0.
func WithReferenceRate(sampleRate float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(sampleRate) || sampleRate <= 0 {
			return fmt.Errorf("%w: reference rate %f", ErrInvalidSampleRate, sampleRate)
		}

		cfg.referenceRate = sampleRate

		return nil
	}
}
