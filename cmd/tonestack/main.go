// Command tonestack inspects and applies the two-knob amplifier tone stack.
//
// Usage:
//
//	tonestack [flags] <command>
//
// Examples:
//
//	tonestack info --bass 0.2 --treble 0.8
//	tonestack response --points 16 --measure
//	tonestack generate sweep.wav --kind sweep --seconds 2
//	tonestack render in.wav out.wav --bass 0.7
//	tonestack tui
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-tonestack/internal/cli"
	"github.com/cwbudde/algo-tonestack/internal/logging"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Bass       float64 `help:"Bass pot position in [0,1]." default:"0.5" env:"TONESTACK_BASS"`
	Treble     float64 `help:"Treble pot position in [0,1]." default:"0.5" env:"TONESTACK_TREBLE"`
	SampleRate float64 `name:"sample-rate" short:"r" help:"Sample rate in Hz." default:"48000" env:"TONESTACK_SAMPLE_RATE"`
	Verbose    bool    `short:"v" help:"Enable debug logging." xor:"verbosity"`
	Quiet      bool    `short:"q" help:"Disable logging." xor:"verbosity"`

	Info     InfoCmd     `cmd:"" help:"Print analog and digital coefficients, poles and zeros."`
	Response ResponseCmd `cmd:"" help:"Print the magnitude response on a log-frequency grid."`
	Render   RenderCmd   `cmd:"" help:"Filter a WAV file through the tone stack."`
	Generate GenerateCmd `cmd:"" help:"Write a test signal to a WAV file."`
	TUI      TUICmd      `cmd:"" name:"tui" help:"Open the interactive two-knob editor."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// runContext is bound to every command's Run method.
type runContext struct {
	Bass       float64
	Treble     float64
	SampleRate float64

	Out io.Writer
	Log logging.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errExit carries a kong exit code out of Parse.
type errExit int

func (e errExit) Error() string { return fmt.Sprintf("exit %d", int(e)) }

func run(args []string, stdout, stderr io.Writer) (code int) {
	var c CLI

	parser, err := kong.New(&c,
		kong.Name("tonestack"),
		kong.Description("Guitar amplifier tone stack: coefficients, response and rendering"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(errExit(code)) }),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	defer func() {
		if r := recover(); r != nil {
			var exit errExit
			if e, ok := r.(error); ok && errors.As(e, &exit) {
				code = int(exit)
				return
			}

			panic(r)
		}
	}()

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", cli.ErrorStyle.Render("Error:"), err)
		return 2
	}

	rc := &runContext{
		Bass:       c.Bass,
		Treble:     c.Treble,
		SampleRate: c.SampleRate,
		Out:        stdout,
		Log:        newLogger(c.Verbose, c.Quiet, stderr),
	}

	if err := ctx.Run(rc); err != nil {
		rc.Log.Error(err, ctx.Command()+" failed")
		return 1
	}

	return 0
}

func newLogger(verbose, quiet bool, w io.Writer) logging.Logger {
	if quiet {
		return logging.NoOpLogger{}
	}

	l := logging.NewWriterLogger(w, w)
	l.SetColors(logging.IsTerminal(w))

	if verbose {
		l.SetLevel(logging.DebugLevel)
	}

	return l
}

// VersionCmd prints the version.
type VersionCmd struct{}

// Run executes the command.
func (VersionCmd) Run(rc *runContext) error {
	cli.PrintVersion(rc.Out, version)
	return nil
}
