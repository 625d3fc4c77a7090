// Package tonestack emulates the passive bass/treble tone stack of a guitar
// amplifier as a fourth-order IIR filter.
//
// The analog network is described by a fitted table of polynomials in the two
// pot positions ([AnalogModel]). [BilinearTransform] maps that continuous
// transfer function to the z domain and normalizes it so that A[0] == 1.
// [Filter] evaluates the resulting recurrence
//
//	y = B0*x + B1*x[-1] + B2*x[-2] + B3*x[-3] + B4*x[-4]
//	    - A1*y[-1] - A2*y[-2] - A3*y[-3] - A4*y[-4]
//
// sample by sample or in place over blocks. Block processing is bit-identical
// to calling [Filter.ProcessSample] once per element.
//
// # Threading
//
// Control-side methods ([Filter.SetControls], [Filter.SetSampleRate]) build a
// new immutable coefficient snapshot and publish it with an atomic pointer
// swap. Processing methods load the snapshot without locks, so controls may
// change from another goroutine while audio runs; [Filter.ProcessBlock] loads
// it once per block, which makes updates take effect at block boundaries.
// History state belongs to the processing goroutine: [Filter.Reset],
// [Filter.SetState] and [Filter.ImpulseResponse] must not run concurrently
// with processing. Control-side calls must be serialized by the caller.
//
// # Sample rate
//
// The transform constant k = 2*fs is taken from the filter's sample rate each
// time controls are applied. At 48 kHz this reproduces the fixed constants of
// the reference tone stack exactly. [WithReferenceRate] pins the transform to
// a fixed rate instead.
//
// Until the first control update all coefficients are zero and the filter
// outputs silence.
package tonestack
