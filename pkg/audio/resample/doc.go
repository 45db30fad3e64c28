// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts decoded files to the pipeline sample rate
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation on mono 16-bit PCM. Handles both upsampling and
// downsampling, carrying state across chunks.
//
// Example:
//
//	r := resample.New(44100, 16000)
//	out := make([]int16, r.OutputSamplesNeeded(len(in)))
//	n := r.Resample(in, out)
package resample
