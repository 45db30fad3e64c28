// ABOUTME: PCM audio decoder
// ABOUTME: Reads raw interleaved 16-bit little-endian PCM and downmixes to mono
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// PCMDecoder decodes raw PCM audio
type PCMDecoder struct {
	r          io.Reader
	sampleRate int
	channels   int
	buf        []byte
	frame      []int16
}

// NewPCM creates a decoder for raw 16-bit PCM with the given format
func NewPCM(r io.Reader, sampleRate, channels int) (*PCMDecoder, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if channels < 1 || channels > 8 {
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
	return &PCMDecoder{r: r, sampleRate: sampleRate, channels: channels}, nil
}

// Read decodes up to len(samples) mono samples
func (d *PCMDecoder) Read(samples []int16) (int, error) {
	need := len(samples) * d.channels * 2
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
		d.frame = make([]int16, len(samples)*d.channels)
	}
	buf := d.buf[:need]

	n, err := io.ReadFull(d.r, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}

	interleaved := d.frame[:n/2]
	for i := range interleaved {
		interleaved[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	return downmix(interleaved, d.channels, samples), err
}

func (d *PCMDecoder) SampleRate() int {
	return d.sampleRate
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return closeReader(d.r)
}
