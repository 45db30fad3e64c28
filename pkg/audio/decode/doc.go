// ABOUTME: Audio decoder package for file-backed inputs
// ABOUTME: Provides the Decoder interface and MP3, FLAC, and raw PCM implementations
// Package decode turns audio files into mono 16-bit PCM streams.
//
// Example:
//
//	d, err := decode.Open("speech.flac")
//	n, err := d.Read(samples)
package decode
