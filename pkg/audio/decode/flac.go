// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC frames to mono 16-bit PCM via mewkiz/flac
package decode

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct {
	r        io.Reader
	stream   *flac.Stream
	bitDepth int
	pending  []int16
}

// NewFLAC creates a decoder reading FLAC data from r
func NewFLAC(r io.Reader) (*FLACDecoder, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}
	return &FLACDecoder{
		r:        r,
		stream:   stream,
		bitDepth: int(stream.Info.BitsPerSample),
	}, nil
}

// Read decodes up to len(samples) mono samples, parsing frames as needed
func (d *FLACDecoder) Read(samples []int16) (int, error) {
	n := 0
	for n < len(samples) {
		if len(d.pending) == 0 {
			f, err := d.stream.ParseNext()
			if err != nil {
				if err == io.EOF {
					return n, io.EOF
				}
				return n, fmt.Errorf("flac decode error: %w", err)
			}
			d.pending = d.mix(f)
		}
		c := copy(samples[n:], d.pending)
		d.pending = d.pending[c:]
		n += c
	}
	return n, nil
}

// mix downmixes one frame to mono and scales it to 16 bits
func (d *FLACDecoder) mix(f *frame.Frame) []int16 {
	channels := len(f.Subframes)
	out := make([]int16, int(f.BlockSize))
	shift := d.bitDepth - 16

	for i := range out {
		var sum int64
		for ch := 0; ch < channels; ch++ {
			sum += int64(f.Subframes[ch].Samples[i])
		}
		v := sum / int64(channels)
		if shift > 0 {
			v >>= shift
		} else if shift < 0 {
			v <<= -shift
		}
		out[i] = int16(v)
	}
	return out
}

func (d *FLACDecoder) SampleRate() int {
	return int(d.stream.Info.SampleRate)
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return closeReader(d.r)
}
