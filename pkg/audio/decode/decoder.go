// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for file decoders feeding the file-backed ADC
package decode

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Decoder streams mono signed 16-bit PCM
type Decoder interface {
	// Read fills samples and returns io.EOF once the stream is exhausted
	Read(samples []int16) (int, error)

	// SampleRate returns the rate of the decoded stream
	SampleRate() int

	// Close releases decoder resources
	Close() error
}

// Open picks a decoder from the file extension
func Open(path string) (Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	var d Decoder
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		var mp3d *MP3Decoder
		if mp3d, err = NewMP3(f); err == nil {
			d = mp3d
		}
	case ".flac":
		var flacd *FLACDecoder
		if flacd, err = NewFLAC(f); err == nil {
			d = flacd
		}
	default:
		err = fmt.Errorf("unsupported file type %q (supported: .mp3, .flac)", ext)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	log.Printf("Loaded %s (sample rate: %d Hz)", filepath.Base(path), d.SampleRate())
	return d, nil
}

// downmix averages interleaved frames into mono
func downmix(interleaved []int16, channels int, out []int16) int {
	if channels < 1 {
		channels = 1
	}
	frames := len(interleaved) / channels
	for i := 0; i < frames && i < len(out); i++ {
		var sum int32
		for ch := 0; ch < channels; ch++ {
			sum += int32(interleaved[i*channels+ch])
		}
		out[i] = int16(sum / int32(channels))
	}
	return min(frames, len(out))
}

// closeReader closes r if it can be closed
func closeReader(r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
