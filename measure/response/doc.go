// Package response measures the magnitude response of a linear processor
// from its impulse response.
//
// The impulse response is zero-padded (or truncated) to the FFT size and
// transformed; bins 0..N/2 are reported in dB. This gives an independent
// check of an analytic response such as [tonestack.Coefficients.MagnitudeDB].
//
// # Usage
//
//	analyzer, err := response.NewAnalyzer(48000, 8192)
//	spec, err := analyzer.Measure(filter.ImpulseResponse(8192))
//	fmt.Printf("1 kHz: %.2f dB\n", spec.At(1000))
//
// [tonestack.Coefficients.MagnitudeDB]: github.com/cwbudde/algo-tonestack/dsp/filter/tonestack
package response
