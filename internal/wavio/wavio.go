// Package wavio reads and writes WAV files as deinterleaved float64 channels.
package wavio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mjibson/go-dsp/wav"
)

const readChunk = 8192

var (
	// ErrNoChannels is returned when audio has no channels.
	ErrNoChannels = errors.New("wavio: no channels")
	// ErrRaggedChannels is returned when channels differ in length.
	ErrRaggedChannels = errors.New("wavio: channels differ in length")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("wavio: sample rate must be > 0")
	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("wavio: unsupported format")
)

// Format selects the sample encoding written by Write.
type Format int

const (
	// Float32 writes 32-bit IEEE float samples.
	Float32 Format = iota
	// PCM16 writes 16-bit signed integer samples with clipping.
	PCM16
)

func (f Format) String() string {
	switch f {
	case Float32:
		return "float32"
	case PCM16:
		return "pcm16"
	default:
		return "unknown"
	}
}

// Audio is a block of deinterleaved samples.
type Audio struct {
	SampleRate int
	Channels   [][]float64
}

// Frames returns the number of samples per channel.
func (a *Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}

	return len(a.Channels[0])
}

func (a *Audio) validate() error {
	if a.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, a.SampleRate)
	}

	if len(a.Channels) == 0 {
		return ErrNoChannels
	}

	n := len(a.Channels[0])
	for i, ch := range a.Channels {
		if len(ch) != n {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrRaggedChannels, i, len(ch), n)
		}
	}

	return nil
}

// Read decodes a WAV stream. 8- and 16-bit PCM are scaled to [-1, 1); 32-bit
// float samples are passed through.
func Read(r io.Reader) (*Audio, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, fmt.Errorf("wavio: decode header: %w", err)
	}

	channels := int(w.NumChannels)
	if channels == 0 {
		return nil, ErrNoChannels
	}

	if w.SampleRate == 0 {
		return nil, fmt.Errorf("%w: 0", ErrInvalidSampleRate)
	}

	// go-dsp rounds Samples down to a multiple of 8, so the bulk loop may
	// stop short of the data chunk; the tail is read one sample at a time.
	interleaved := make([]float64, 0, w.Samples+8)
	for len(interleaved) < w.Samples {
		chunk, err := w.ReadSamples(min(readChunk, w.Samples-len(interleaved)))
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("wavio: decode samples: %w", err)
		}

		interleaved, err = appendScaled(interleaved, chunk)
		if err != nil {
			return nil, err
		}
	}

	for {
		chunk, err := w.ReadSamples(1)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("wavio: decode samples: %w", err)
		}

		interleaved, err = appendScaled(interleaved, chunk)
		if err != nil {
			return nil, err
		}
	}

	frames := len(interleaved) / channels
	a := &Audio{
		SampleRate: int(w.SampleRate),
		Channels:   make([][]float64, channels),
	}

	for ch := range a.Channels {
		a.Channels[ch] = make([]float64, frames)
	}

	for i := range frames {
		for ch := range channels {
			a.Channels[ch][i] = interleaved[i*channels+ch]
		}
	}

	return a, nil
}

// appendScaled converts one decoded chunk to float64 in [-1, 1].
func appendScaled(dst []float64, chunk any) ([]float64, error) {
	switch d := chunk.(type) {
	case []uint8:
		for _, v := range d {
			dst = append(dst, (float64(v)-128)/128)
		}
	case []int16:
		for _, v := range d {
			dst = append(dst, float64(v)/32768)
		}
	case []float32:
		for _, v := range d {
			dst = append(dst, float64(v))
		}
	default:
		return dst, fmt.Errorf("%w: sample type %T", ErrUnsupportedFormat, chunk)
	}

	return dst, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()

	return Read(bufio.NewReader(f))
}

type fmtChunk struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Write encodes a as a canonical 44-byte-header WAV stream.
func Write(w io.Writer, a *Audio, format Format) error {
	if err := a.validate(); err != nil {
		return err
	}

	var (
		audioFormat uint16
		bits        uint16
	)

	switch format {
	case Float32:
		audioFormat, bits = 3, 32
	case PCM16:
		audioFormat, bits = 1, 16
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}

	channels := len(a.Channels)
	blockAlign := channels * int(bits) / 8
	dataSize := a.Frames() * blockAlign

	bw := bufio.NewWriter(w)

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + dataSize),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		fmtChunk{
			AudioFormat:   audioFormat,
			NumChannels:   uint16(channels),
			SampleRate:    uint32(a.SampleRate),
			ByteRate:      uint32(a.SampleRate * blockAlign),
			BlockAlign:    uint16(blockAlign),
			BitsPerSample: bits,
		},
		[4]byte{'d', 'a', 't', 'a'},
		uint32(dataSize),
	}

	for _, v := range header {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("wavio: write header: %w", err)
		}
	}

	var buf [4]byte

	for i := range a.Frames() {
		for ch := range channels {
			x := a.Channels[ch][i]

			var b []byte
			if format == Float32 {
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(x)))
				b = buf[:4]
			} else {
				binary.LittleEndian.PutUint16(buf[:], uint16(quantize16(x)))
				b = buf[:2]
			}

			if _, err := bw.Write(b); err != nil {
				return fmt.Errorf("wavio: write samples: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("wavio: flush: %w", err)
	}

	return nil
}

// WriteFile encodes a to a new file at path.
func WriteFile(path string, a *Audio, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	if err := Write(f, a, format); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	return nil
}

func quantize16(x float64) int16 {
	if math.IsNaN(x) {
		return 0
	}

	v := math.Round(x * math.MaxInt16)

	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
