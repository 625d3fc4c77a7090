package main

import (
	"math"

	"github.com/cwbudde/algo-tonestack/dsp/core"
	"github.com/cwbudde/algo-tonestack/dsp/signal"
	"github.com/cwbudde/algo-tonestack/internal/logging"
	"github.com/cwbudde/algo-tonestack/internal/wavio"
)

// GenerateCmd writes a test signal to a WAV file, typically as input for
// render.
type GenerateCmd struct {
	Out       string  `arg:"" type:"path" help:"Output WAV file."`
	Kind      string  `help:"Signal kind." enum:"impulse,step,sine,noise,sweep" default:"sweep"`
	Seconds   float64 `help:"Duration in seconds." default:"1"`
	Freq      float64 `help:"Sine frequency or sweep start in Hz." default:"20"`
	EndFreq   float64 `name:"end-freq" help:"Sweep end frequency in Hz." default:"20000"`
	Amplitude float64 `help:"Peak amplitude." default:"0.5"`
	Channels  int     `help:"Number of identical channels." default:"1"`
	Seed      int64   `help:"Noise seed." default:"1"`
	Format    string  `help:"Output sample format." enum:"float32,pcm16" default:"float32"`
}

// Run executes the command.
func (c GenerateCmd) Run(rc *runContext) error {
	fs := math.Round(rc.SampleRate)
	gen := signal.NewGenerator(
		[]core.ProcessorOption{core.WithSampleRate(fs)},
		signal.WithSeed(c.Seed),
	)

	spec := signal.Spec{
		Kind:      signal.Kind(c.Kind),
		Amplitude: c.Amplitude,
		FreqHz:    c.Freq,
		EndHz:     math.Min(c.EndFreq, 0.49*fs),
	}

	x, err := gen.Generate(spec, int(math.Round(c.Seconds*fs)))
	if err != nil {
		return err
	}

	channels := max(c.Channels, 1)
	audio := &wavio.Audio{SampleRate: int(fs), Channels: make([][]float64, channels)}

	for ch := range audio.Channels {
		audio.Channels[ch] = append([]float64(nil), x...)
	}

	format := wavio.Float32
	if c.Format == "pcm16" {
		format = wavio.PCM16
	}

	if err := wavio.WriteFile(c.Out, audio, format); err != nil {
		return err
	}

	rc.Log.Info("wrote signal", logging.Fields{
		"out":      c.Out,
		"kind":     c.Kind,
		"frames":   len(x),
		"channels": channels,
		"format":   format,
	})

	return nil
}
