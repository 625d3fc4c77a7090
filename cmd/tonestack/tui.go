package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-tonestack/dsp/core"
	"github.com/cwbudde/algo-tonestack/host"
	"github.com/cwbudde/algo-tonestack/internal/ui"
)

// TUICmd opens the interactive editor.
type TUICmd struct{}

// Run executes the command.
func (TUICmd) Run(rc *runContext) error {
	proc, err := host.NewProcessor(core.WithSampleRate(rc.SampleRate), core.WithChannels(1))
	if err != nil {
		return err
	}

	proc.SetControls(rc.Bass, rc.Treble)

	if _, err := tea.NewProgram(ui.NewModel(proc), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	bass := proc.Parameter(host.ParamBass)
	treble := proc.Parameter(host.ParamTreble)
	fmt.Fprintf(rc.Out, "--bass %.2f --treble %.2f\n", bass.Value(), treble.Value())

	return nil
}
