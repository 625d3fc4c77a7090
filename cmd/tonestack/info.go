package main

import (
	"fmt"
	"math/cmplx"
	"text/tabwriter"

	"github.com/cwbudde/algo-tonestack/dsp/filter/tonestack"
	"github.com/cwbudde/algo-tonestack/internal/cli"
	"github.com/cwbudde/algo-tonestack/internal/logging"
	"github.com/cwbudde/algo-tonestack/internal/polyroot"
)

// InfoCmd prints the coefficient sets for the selected pot positions.
type InfoCmd struct {
	Precision int `help:"Digits after the decimal point." default:"9"`
}

// Run executes the command.
func (c InfoCmd) Run(rc *runContext) error {
	f, err := tonestack.New(rc.SampleRate, tonestack.WithControls(rc.Bass, rc.Treble))
	if err != nil {
		return err
	}

	bass, treble := f.Controls()
	an := tonestack.AnalogModel(bass, treble)
	coeffs := f.Coefficients()

	rc.Log.Debug("derived coefficients", logging.Fields{"bass": bass, "treble": treble, "sample_rate": rc.SampleRate})

	fmt.Fprintln(rc.Out, cli.HeaderStyle.Render(cli.Title))
	cli.PrintKeyValue(rc.Out, "Bass", bass)
	cli.PrintKeyValue(rc.Out, "Treble", treble)
	cli.PrintKeyValue(rc.Out, "Sample rate", rc.SampleRate)
	fmt.Fprintln(rc.Out)

	tw := tabwriter.NewWriter(rc.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Term\tAnalog b\tAnalog a\tDigital B\tDigital A\n")
	fmt.Fprintf(tw, "----\t--------\t--------\t---------\t---------\n")

	for i := range tonestack.Order + 1 {
		fmt.Fprintf(tw, "%d\t%.6g\t%.6g\t%.*f\t%.*f\n",
			i, an.B[i], an.A[i], c.Precision, coeffs.B[i], c.Precision, coeffs.A[i])
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write coefficients: %w", err)
	}

	fmt.Fprintln(rc.Out)

	tw = tabwriter.NewWriter(rc.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Root\tPole\t|p|\tZero\t|z|\n")
	fmt.Fprintf(tw, "----\t----\t---\t----\t---\n")

	poles, zeros := coeffs.Poles(), coeffs.Zeros()
	for i := range max(len(poles), len(zeros)) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, rootAt(poles, i), modAt(poles, i), rootAt(zeros, i), modAt(zeros, i))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write roots: %w", err)
	}

	fmt.Fprintln(rc.Out)
	cli.PrintKeyValue(rc.Out, "DC gain", fmt.Sprintf("%.6f", coeffs.DCGain()))
	cli.PrintKeyValue(rc.Out, "Max pole radius", fmt.Sprintf("%.6f", polyroot.MaxModulus(poles)))
	cli.PrintKeyValue(rc.Out, "Stable", coeffs.IsStable())

	return nil
}

func rootAt(roots []complex128, i int) string {
	if i >= len(roots) {
		return "-"
	}

	return fmt.Sprintf("%+.6f%+.6fi", real(roots[i]), imag(roots[i]))
}

func modAt(roots []complex128, i int) string {
	if i >= len(roots) {
		return "-"
	}

	return fmt.Sprintf("%.6f", cmplx.Abs(roots[i]))
}
