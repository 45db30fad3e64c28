// ABOUTME: Audio fundamentals package for the sampling pipeline
// ABOUTME: Defines samples, rate and block-size tables, and SampleBuffer
// Package audio provides the data types shared by the pipeline and its hardware collaborators.
//
// Samples are unsigned 16-bit offset-binary values as produced by the analog-to-digital
// converter and consumed by the digital-to-analog converter. Rates and block sizes are
// enumerations validated against fixed tables:
//
//	rate := audio.FS16000
//	period, err := rate.Period() // 3000 timer cycles
//
//	n, err := audio.Length32.Samples() // 32
//	buf := audio.NewSampleBuffer(n)
package audio
