package tonestack

import "errors"

var (
	// ErrInvalidSampleRate is returned for sample rates that are not finite
	// and positive.
	ErrInvalidSampleRate = errors.New("tonestack: sample rate must be > 0 and finite")
	// ErrInvalidState is returned by SetState for non-finite history values.
	ErrInvalidState = errors.New("tonestack: state must be finite")
	// ErrInvalidControl is returned by WithControls for NaN pot positions.
	ErrInvalidControl = errors.New("tonestack: control must not be NaN")
)
