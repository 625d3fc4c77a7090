package tonestack

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-tonestack/internal/testutil"
)

func BenchmarkProcessSample(b *testing.B) {
	f, err := New(48000, WithControls(0.5, 0.5))
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	x := 0.25

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		x = f.ProcessSample(x) + 0.25
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	for _, size := range []int{64, 256, 1024} {
		b.Run(strconv.Itoa(size), func(b *testing.B) {
			f, err := New(48000, WithControls(0.5, 0.5))
			if err != nil {
				b.Fatalf("New() error = %v", err)
			}

			buf := testutil.DeterministicNoise(1, 0.5, size)

			b.SetBytes(int64(size * 8))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				f.ProcessBlock(buf)
			}
		})
	}
}

func BenchmarkSetControls(b *testing.B) {
	f, err := New(48000)
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		f.SetControls(float64(i%101)/100, 0.5)
	}
}

func BenchmarkDerive(b *testing.B) {
	b.ReportAllocs()

	var c Coefficients
	for i := 0; i < b.N; i++ {
		c = Derive(float64(i%101)/100, 0.5, 48000)
	}

	_ = c
}
