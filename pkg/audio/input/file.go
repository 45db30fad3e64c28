// ABOUTME: File-backed ADC
// ABOUTME: Decodes MP3 or FLAC, resamples to the pipeline rate, and loops at end of file
package input

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/audio/decode"
	"github.com/xlaudio/xlaudio-go/pkg/audio/resample"
)

const fileChunk = 1024

// File plays a decoded file as converter input, restarting when it ends
type File struct {
	open func() (decode.Decoder, error)
	rate int

	mu      sync.Mutex
	dec     decode.Decoder
	rs      *resample.Resampler
	in      []int16
	pending []int16
	result  audio.Sample
	loops   int
	err     error
}

// NewFile opens path and resamples it to sampleRate
func NewFile(path string, sampleRate int) (*File, error) {
	return NewFileFrom(func() (decode.Decoder, error) {
		return decode.Open(path)
	}, sampleRate)
}

// NewFileFrom builds a file input from a decoder factory, called again at every loop
func NewFileFrom(open func() (decode.Decoder, error), sampleRate int) (*File, error) {
	f := &File{
		open:   open,
		rate:   sampleRate,
		in:     make([]int16, fileChunk),
		result: audio.MidScale,
	}
	if err := f.reopen(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) reopen() error {
	if f.dec != nil {
		f.dec.Close()
	}
	dec, err := f.open()
	if err != nil {
		f.dec = nil
		return fmt.Errorf("failed to open input file: %w", err)
	}
	f.dec = dec
	f.rs = resample.New(dec.SampleRate(), f.rate)
	return nil
}

// refill decodes and resamples the next chunk
func (f *File) refill() error {
	n, err := f.dec.Read(f.in)
	if n > 0 {
		out := make([]int16, f.rs.OutputSamplesNeeded(n))
		f.pending = append(f.pending, out[:f.rs.Resample(f.in[:n], out)]...)
	}

	if errors.Is(err, io.EOF) {
		f.loops++
		return f.reopen()
	}
	return err
}

func (f *File) Trigger() {
	f.mu.Lock()
	defer f.mu.Unlock()

	// A file with no audio would otherwise loop forever
	for attempts := 0; len(f.pending) == 0; attempts++ {
		if f.err != nil || attempts == 3 {
			f.result = audio.MidScale
			return
		}
		if err := f.refill(); err != nil {
			f.err = err
			log.Printf("Warning: input file stopped: %v", err)
		}
	}

	f.result = audio.SampleFromInt16(f.pending[0])
	f.pending = f.pending[1:]
}

func (f *File) Busy() bool { return false }

func (f *File) Result() audio.Sample {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Loops returns how many times the file has restarted
func (f *File) Loops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loops
}

// Err returns the error that stopped playback, if any
func (f *File) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close releases the decoder
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dec == nil {
		return nil
	}
	err := f.dec.Close()
	f.dec = nil
	f.err = errors.New("input file closed")
	return err
}
