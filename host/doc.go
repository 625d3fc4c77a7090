// Package host wires tone-stack filters to a plugin-style parameter surface.
//
// A [Processor] owns the "Bass" and "Treble" parameters and one
// [tonestack.Filter] per channel. Parameter changes arrive on a control
// goroutine through [Processor.SetParameter]; audio arrives on the audio
// goroutine through [Processor.Process]. The two sides share only the
// filters' atomically published coefficients, so the audio path takes no
// locks and performs no allocation.
package host
