package logging

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB000"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4D")).Bold(true)
	debugStyle = lipgloss.NewStyle().Faint(true)
)

// DefaultLogger writes leveled lines through the standard log package.
// Debug and Info go to the info writer, Warn and Error to the error writer.
type DefaultLogger struct {
	out       *log.Logger
	errOut    *log.Logger
	level     Level
	fields    Fields
	useColors bool
}

// NewDefaultLogger creates a logger on stdout/stderr. Colors are enabled
// when stderr is a terminal.
func NewDefaultLogger() *DefaultLogger {
	l := NewWriterLogger(os.Stdout, os.Stderr)
	l.SetColors(IsTerminal(os.Stderr))

	return l
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewWriterLogger creates an uncolored logger on the given writers without
// timestamps.
func NewWriterLogger(out, errOut io.Writer) *DefaultLogger {
	return &DefaultLogger{
		out:    log.New(out, "", 0),
		errOut: log.New(errOut, "", 0),
		level:  InfoLevel,
		fields: make(Fields),
	}
}

// SetColors toggles level styling of debug, warn and error lines.
func (d *DefaultLogger) SetColors(enabled bool) {
	d.useColors = enabled
}

func (d *DefaultLogger) formatMessage(level Level, err error, msg string, fields ...Fields) string {
	all := make(Fields, len(d.fields))
	maps.Copy(all, d.fields)

	for _, f := range fields {
		maps.Copy(all, f)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", level, msg)

	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}

	for _, k := range slices.Sorted(maps.Keys(all)) {
		fmt.Fprintf(&b, " %s=%v", k, all[k])
	}

	line := b.String()
	if !d.useColors {
		return line
	}

	switch level {
	case DebugLevel:
		return debugStyle.Render(line)
	case WarnLevel:
		return warnStyle.Render(line)
	case ErrorLevel:
		return errorStyle.Render(line)
	default:
		return line
	}
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	if level < d.level {
		return
	}

	line := d.formatMessage(level, err, msg, fields...)

	switch level {
	case DebugLevel, InfoLevel:
		d.out.Println(line)
	default:
		d.errOut.Println(line)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(d.fields)+len(fields))
	maps.Copy(merged, d.fields)
	maps.Copy(merged, fields)

	return &DefaultLogger{
		out:       d.out,
		errOut:    d.errOut,
		level:     d.level,
		fields:    merged,
		useColors: d.useColors,
	}
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}
