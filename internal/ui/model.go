// Package ui provides the Bubbletea two-knob tone-stack editor.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-tonestack/host"
)

const (
	coarseStep = 0.05
	fineStep   = 0.01
)

// Model is the Bubbletea model of the editor. Knob changes are forwarded
// to the processor's control side.
type Model struct {
	proc  *host.Processor
	focus host.ParamID
	// err is the last rejected control change, shown until the next
	// successful one.
	err error

	Width  int
	Height int
}

// NewModel creates an editor bound to proc.
func NewModel(proc *host.Processor) Model {
	return Model{proc: proc, focus: host.ParamBass, Width: 80, Height: 24}
}

// Focus returns the parameter the arrow keys adjust.
func (m Model) Focus() host.ParamID { return m.focus }

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "left", "right", "h", "l":
			m.focus = 1 - m.focus
		case "b":
			m.focus = host.ParamBass
		case "t":
			m.focus = host.ParamTreble
		case "up", "k", "+":
			m.nudge(coarseStep)
		case "down", "j", "-":
			m.nudge(-coarseStep)
		case "shift+up", "K":
			m.nudge(fineStep)
		case "shift+down", "J":
			m.nudge(-fineStep)
		case "r":
			m.proc.ResetParameters()
			m.err = nil
		}

	case ParamMsg:
		m.err = m.proc.SetParameter(msg.ID, msg.Value)

	case ResetMsg:
		m.proc.ResetParameters()
		m.err = nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}

	return m, nil
}

// View renders the editor.
func (m Model) View() string {
	return renderEditor(m)
}

func (m *Model) nudge(delta float64) {
	p := m.proc.Parameter(m.focus)
	m.err = m.proc.SetParameter(m.focus, p.Value()+delta)
}

// Err returns the last rejected control change, or nil.
func (m Model) Err() error { return m.err }
