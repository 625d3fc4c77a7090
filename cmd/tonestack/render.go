package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tonestack/dsp/core"
	"github.com/cwbudde/algo-tonestack/host"
	"github.com/cwbudde/algo-tonestack/internal/logging"
	"github.com/cwbudde/algo-tonestack/internal/wavio"
)

// RenderCmd filters a WAV file. The file's own sample rate is used.
type RenderCmd struct {
	In        string `arg:"" type:"existingfile" help:"Input WAV file."`
	Out       string `arg:"" type:"path" help:"Output WAV file."`
	Format    string `help:"Output sample format." enum:"float32,pcm16" default:"float32"`
	BlockSize int    `name:"block-size" help:"Processing block size in samples." default:"512"`
}

// Run executes the command.
func (c RenderCmd) Run(rc *runContext) error {
	audio, err := wavio.ReadFile(c.In)
	if err != nil {
		return err
	}

	log := rc.Log.WithFields(logging.Fields{"in": c.In})
	log.Info("read input", logging.Fields{
		"sample_rate": audio.SampleRate,
		"channels":    len(audio.Channels),
		"frames":      audio.Frames(),
	})

	if float64(audio.SampleRate) != rc.SampleRate {
		log.Debug("using file sample rate", logging.Fields{"flag": rc.SampleRate, "file": audio.SampleRate})
	}

	proc, err := host.NewProcessor(
		core.WithSampleRate(float64(audio.SampleRate)),
		core.WithChannels(len(audio.Channels)),
		core.WithBlockSize(c.BlockSize),
	)
	if err != nil {
		return err
	}

	proc.SetControls(rc.Bass, rc.Treble)
	renderBlocks(proc, audio.Channels, proc.Config().BlockSize)

	peak := 0.0
	for _, ch := range audio.Channels {
		for _, x := range ch {
			peak = math.Max(peak, math.Abs(x))
		}
	}

	format := wavio.Float32
	if c.Format == "pcm16" {
		format = wavio.PCM16

		if peak > 1 {
			log.Warn("output clips in 16-bit PCM", logging.Fields{"peak_db": fmt.Sprintf("%.2f", core.LinearToDB(peak))})
		}
	}

	if err := wavio.WriteFile(c.Out, audio, format); err != nil {
		return err
	}

	log.Info("wrote output", logging.Fields{
		"out":     c.Out,
		"format":  format,
		"peak_db": fmt.Sprintf("%.2f", core.LinearToDB(peak)),
	})

	return nil
}

// renderBlocks runs channels through proc in place, blockSize frames at a
// time, the way a host delivers audio.
func renderBlocks(proc *host.Processor, channels [][]float64, blockSize int) {
	if len(channels) == 0 {
		return
	}

	frames := len(channels[0])
	views := make([][]float64, len(channels))

	for start := 0; start < frames; start += blockSize {
		end := min(start+blockSize, frames)
		for ch := range channels {
			views[ch] = channels[ch][start:end]
		}

		proc.Process(views)
	}
}
