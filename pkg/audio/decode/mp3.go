// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 to mono 16-bit PCM via go-mp3
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct {
	r       io.Reader
	decoder *mp3.Decoder
	buf     []byte
	frame   []int16
}

// NewMP3 creates a decoder reading MP3 data from r
func NewMP3(r io.Reader) (*MP3Decoder, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}
	return &MP3Decoder{r: r, decoder: decoder}, nil
}

// Read decodes up to len(samples) mono samples
func (d *MP3Decoder) Read(samples []int16) (int, error) {
	// go-mp3 always produces 16-bit stereo
	need := len(samples) * 4
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
		d.frame = make([]int16, len(samples)*2)
	}
	buf := d.buf[:need]

	n, err := io.ReadFull(d.decoder, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}

	stereo := d.frame[:n/2]
	for i := range stereo {
		stereo[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	count := downmix(stereo, 2, samples)

	if err != nil && !errors.Is(err, io.EOF) {
		return count, fmt.Errorf("mp3 decode error: %w", err)
	}
	return count, err
}

func (d *MP3Decoder) SampleRate() int {
	return d.decoder.SampleRate()
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return closeReader(d.r)
}
