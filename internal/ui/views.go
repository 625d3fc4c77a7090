package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-tonestack/dsp/filter/tonestack"
	"github.com/cwbudde/algo-tonestack/host"
	"github.com/cwbudde/algo-tonestack/internal/cli"
)

const (
	knobWidth = 21

	plotMinHz = 20.0
	plotMaxHz = 20000.0
	plotTopDB = 0.0
	plotBotDB = -48.0
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF7A00"))

	knobStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1)

	focusedKnobStyle = knobStyle.
				BorderForeground(lipgloss.Color("#FF7A00"))

	plotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

func renderEditor(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(cli.Title))
	b.WriteString("\n\n")

	knobs := make([]string, 0, len(m.proc.Parameters()))
	for _, p := range m.proc.Parameters() {
		knobs = append(knobs, renderKnob(p, p.ID == m.focus))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, knobs...))
	b.WriteString("\n\n")

	cfg := m.proc.Config()
	coeffs := m.proc.Filter(0).Coefficients()

	plotWidth := max(m.Width-8, 20)
	plotHeight := max(min(m.Height-14, 16), 6)

	b.WriteString(plotStyle.Render(renderResponse(coeffs, cfg.SampleRate, plotWidth, plotHeight)))
	b.WriteString("\n")
	b.WriteString(renderReadout(coeffs, cfg.SampleRate))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(cli.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("tab switch knob · ↑/↓ adjust · shift for fine · r reset · q quit"))

	return b.String()
}

func renderKnob(p *host.Parameter, focused bool) string {
	filled := int(math.Round(p.Value() * knobWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", knobWidth-filled)

	style := knobStyle
	if focused {
		style = focusedKnobStyle
	}

	return style.Render(fmt.Sprintf("%-6s %4s\n%s", p.Name, p.Text(), bar))
}

func renderReadout(c tonestack.Coefficients, sampleRate float64) string {
	parts := make([]string, 0, 4)
	for _, f := range []float64{100, 1000, 8000} {
		parts = append(parts, fmt.Sprintf("%s %6.1f dB", formatHz(f), c.MagnitudeDB(f, sampleRate)))
	}

	if c.IsStable() {
		parts = append(parts, "stable")
	} else {
		parts = append(parts, "UNSTABLE")
	}

	return strings.Join(parts, "  ")
}

// renderResponse draws the magnitude response on a log-frequency grid, one
// column per frequency and one row per dB step. The bottom row carries the
// frequency axis.
func renderResponse(c tonestack.Coefficients, sampleRate float64, width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}

	maxHz := math.Min(plotMaxHz, 0.49*sampleRate)
	rows := make([][]rune, height)

	for r := range rows {
		rows[r] = []rune(strings.Repeat(" ", width))
	}

	for col := range width {
		f := logFrequency(col, width, plotMinHz, maxHz)
		db := c.MagnitudeDB(f, sampleRate)

		if math.IsNaN(db) {
			continue
		}

		row := dbToRow(db, height)
		rows[row][col] = '•'
	}

	var b strings.Builder

	for r, line := range rows {
		label := "      "
		if r == 0 {
			label = fmt.Sprintf("%4.0f ┤", plotTopDB)
		} else if r == height-1 {
			label = fmt.Sprintf("%4.0f ┤", plotBotDB)
		}

		b.WriteString(label)
		b.WriteString(string(line))
		b.WriteString("\n")
	}

	left := formatHz(plotMinHz)
	axis := fmt.Sprintf("%s%*s", left, width-len(left), formatHz(maxHz))
	b.WriteString("      ")
	b.WriteString(axis)

	return b.String()
}

func logFrequency(col, width int, lo, hi float64) float64 {
	if width <= 1 {
		return lo
	}

	t := float64(col) / float64(width-1)

	return lo * math.Pow(hi/lo, t)
}

func dbToRow(db float64, height int) int {
	t := (plotTopDB - db) / (plotTopDB - plotBotDB)
	row := int(math.Round(t * float64(height-1)))

	return max(0, min(height-1, row))
}

func formatHz(f float64) string {
	if f >= 1000 {
		return fmt.Sprintf("%gk", math.Round(f/100)/10)
	}

	return fmt.Sprintf("%.0f", f)
}
