// ABOUTME: Audio output package for playing pipeline samples
// ABOUTME: Provides the Output interface plus oto, malgo, and null backends
// Package output provides DAC backends for the sampling pipeline.
//
// Backends queue samples written at the pipeline's tick rate and hand them to the
// playback device in the bursts it asks for. Build with -tags headless to leave out the
// cgo audio libraries.
//
// Example:
//
//	out, err := output.New("oto", output.Options{})
//	err = out.Open(audio.FS16000.Hz())
//	out.Write(audio.MidScale)
package output
