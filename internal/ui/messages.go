package ui

import "github.com/cwbudde/algo-tonestack/host"

// ParamMsg sets a parameter from outside the editor, for example from
// automation playback.
type ParamMsg struct {
	ID    host.ParamID
	Value float64
}

// ResetMsg restores both knobs to their defaults.
type ResetMsg struct{}
