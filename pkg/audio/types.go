// ABOUTME: Audio type definitions for the sampling pipeline
// ABOUTME: Defines sample encoding, rate and buffer-length tables, and input sources
package audio

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MidScale is the offset-binary value of a silent sample
	MidScale Sample = 0x8000

	// TimerClockHz is the clock feeding the sample timer
	TimerClockHz = 48000000

	// MaxBufferSamples is the largest configurable block
	MaxBufferSamples = 128
)

var (
	ErrInvalidSampleRate   = errors.New("invalid sample rate")
	ErrInvalidBufferLength = errors.New("invalid buffer length")
	ErrInvalidInput        = errors.New("invalid input source")
)

// Sample is one 16-bit offset-binary converter value
type Sample = uint16

// SampleRate indexes the sample timer period table.
// A lower index means a longer period and therefore a lower rate.
type SampleRate int

const (
	FS8000 SampleRate = iota
	FS9600
	FS11025
	FS16000
	FS22050
	FS24000
	FS32000
	FS44100
	FS48000
)

// timerPeriods maps each SampleRate to sample-timer periods in TimerClockHz cycles
var timerPeriods = [...]uint32{
	6000,
	5000,
	4354,
	3000,
	2177,
	2000,
	1500,
	1088,
	1000,
}

// Period returns the sample timer period in timer clock cycles
func (r SampleRate) Period() (uint32, error) {
	if r < 0 || int(r) >= len(timerPeriods) {
		return 0, fmt.Errorf("%w: index %d", ErrInvalidSampleRate, int(r))
	}
	return timerPeriods[r], nil
}

// Hz returns the nominal rate, or 0 for an unmapped index
func (r SampleRate) Hz() int {
	period, err := r.Period()
	if err != nil {
		return 0
	}
	return int(TimerClockHz / period)
}

// Interval returns the wall-clock time between two sample ticks
func (r SampleRate) Interval() time.Duration {
	period, err := r.Period()
	if err != nil {
		return 0
	}
	return time.Duration(period) * time.Second / TimerClockHz
}

func (r SampleRate) String() string {
	if hz := r.Hz(); hz != 0 {
		return fmt.Sprintf("%dHz", hz)
	}
	return fmt.Sprintf("SampleRate(%d)", int(r))
}

// ParseSampleRate maps a rate in Hz to its table index
func ParseSampleRate(hz int) (SampleRate, error) {
	for i := range timerPeriods {
		r := SampleRate(i)
		if r.Hz() == hz {
			return r, nil
		}
	}
	// 11025 and 22050 do not divide the timer clock evenly
	switch hz {
	case 11025:
		return FS11025, nil
	case 22050:
		return FS22050, nil
	case 44100:
		return FS44100, nil
	}
	return 0, fmt.Errorf("%w: %dHz", ErrInvalidSampleRate, hz)
}

// BufferLength indexes the supported block sizes
type BufferLength int

const (
	Length8 BufferLength = iota
	Length16
	Length32
	Length64
	Length128
)

var bufferSamples = [...]int{8, 16, 32, 64, 128}

// Samples returns the number of samples in one block
func (l BufferLength) Samples() (int, error) {
	if l < 0 || int(l) >= len(bufferSamples) {
		return 0, fmt.Errorf("%w: index %d", ErrInvalidBufferLength, int(l))
	}
	return bufferSamples[l], nil
}

func (l BufferLength) String() string {
	if n, err := l.Samples(); err == nil {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("BufferLength(%d)", int(l))
}

// ParseBufferLength maps a sample count to its table index
func ParseBufferLength(n int) (BufferLength, error) {
	for i, v := range bufferSamples {
		if v == n {
			return BufferLength(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %d samples", ErrInvalidBufferLength, n)
}

// InputSource selects the analog input channel
type InputSource int

const (
	// Primary is the on-board microphone
	Primary InputSource = iota
	// Auxiliary is the external line input
	Auxiliary
)

// Validate reports whether the source is one of the known channels
func (s InputSource) Validate() error {
	switch s {
	case Primary, Auxiliary:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidInput, int(s))
}

func (s InputSource) String() string {
	switch s {
	case Primary:
		return "primary"
	case Auxiliary:
		return "auxiliary"
	}
	return fmt.Sprintf("InputSource(%d)", int(s))
}

// ParseInputSource maps a config name to an InputSource
func ParseInputSource(name string) (InputSource, error) {
	switch name {
	case "primary", "mic":
		return Primary, nil
	case "auxiliary", "aux", "line":
		return Auxiliary, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidInput, name)
}

// SampleToInt16 converts an offset-binary sample to signed PCM
func SampleToInt16(s Sample) int16 {
	return int16(s ^ 0x8000)
}

// SampleFromInt16 converts signed PCM to an offset-binary sample
func SampleFromInt16(v int16) Sample {
	return Sample(uint16(v) ^ 0x8000)
}

// SampleFromFloat converts a [-1, 1] value to a sample, clipping out-of-range input
func SampleFromFloat(v float64) Sample {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return SampleFromInt16(int16(v * 32767))
}

// SampleToFloat converts a sample to the [-1, 1] range
func SampleToFloat(s Sample) float64 {
	return float64(SampleToInt16(s)) / 32768
}
