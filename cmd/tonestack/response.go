package main

import (
	"errors"
	"fmt"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-tonestack/dsp/filter/tonestack"
	"github.com/cwbudde/algo-tonestack/internal/logging"
	"github.com/cwbudde/algo-tonestack/measure/response"
)

// ResponseCmd prints the magnitude response of the tone stack.
type ResponseCmd struct {
	Points  int     `help:"Number of log-spaced frequencies." default:"31"`
	MinHz   float64 `name:"min-hz" help:"Lowest frequency." default:"20"`
	MaxHz   float64 `name:"max-hz" help:"Highest frequency, capped below Nyquist." default:"20000"`
	Measure bool    `help:"Add an FFT-measured column from the impulse response."`
	FFTSize int     `name:"fft-size" help:"FFT length for --measure." default:"32768"`
}

// Run executes the command.
func (c ResponseCmd) Run(rc *runContext) error {
	if c.Points < 2 {
		return errors.New("response: --points must be >= 2")
	}

	maxHz := math.Min(c.MaxHz, 0.49*rc.SampleRate)
	if !(c.MinHz > 0 && c.MinHz < maxHz) {
		return fmt.Errorf("response: invalid range [%g, %g] Hz", c.MinHz, maxHz)
	}

	f, err := tonestack.New(rc.SampleRate, tonestack.WithControls(rc.Bass, rc.Treble))
	if err != nil {
		return err
	}

	coeffs := f.Coefficients()

	var spec *response.Spectrum

	if c.Measure {
		analyzer, err := response.NewAnalyzer(rc.SampleRate, c.FFTSize)
		if err != nil {
			return err
		}

		s, err := analyzer.Measure(f.ImpulseResponse(analyzer.FFTSize()))
		if err != nil {
			return err
		}

		peakHz, peakDB := s.Peak()
		troughHz, troughDB := s.Trough()
		fields := logging.Fields{
			"fft_size":  analyzer.FFTSize(),
			"peak_hz":   peakHz,
			"peak_db":   peakDB,
			"trough_hz": troughHz,
			"trough_db": troughDB,
		}

		for _, band := range toneBands(maxHz) {
			if mean, err := s.BandMean(band.lo, band.hi); err == nil {
				fields[band.name+"_db"] = fmt.Sprintf("%.2f", mean)
			}
		}

		rc.Log.Debug("measured spectrum", fields)

		spec = &s
	}

	tw := tabwriter.NewWriter(rc.Out, 0, 0, 2, ' ', tabwriter.AlignRight)

	if spec != nil {
		fmt.Fprintf(tw, "Freq [Hz]\tMagnitude [dB]\tMeasured [dB]\tPhase [deg]\t\n")
	} else {
		fmt.Fprintf(tw, "Freq [Hz]\tMagnitude [dB]\tPhase [deg]\t\n")
	}

	for _, freq := range floats.LogSpan(make([]float64, c.Points), c.MinHz, maxHz) {
		mag := coeffs.MagnitudeDB(freq, rc.SampleRate)
		phase := coeffs.Phase(freq, rc.SampleRate) * 180 / math.Pi

		if spec != nil {
			fmt.Fprintf(tw, "%.1f\t%.2f\t%.2f\t%.1f\t\n", freq, mag, spec.At(freq), phase)
		} else {
			fmt.Fprintf(tw, "%.1f\t%.2f\t%.1f\t\n", freq, mag, phase)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	return nil
}

type toneBand struct {
	name   string
	lo, hi float64
}

// toneBands splits the audible range into the regions the two knobs act on.
func toneBands(maxHz float64) []toneBand {
	return []toneBand{
		{name: "low", lo: 20, hi: 250},
		{name: "mid", lo: 250, hi: 2000},
		{name: "high", lo: 2000, hi: maxHz},
	}
}
