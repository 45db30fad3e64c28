// ABOUTME: Sine tone ADC
// ABOUTME: Generates a fixed-frequency test tone one sample per conversion
package input

import (
	"math"
	"sync"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// DefaultToneFrequency is A4
const DefaultToneFrequency = 440.0

// Tone generates a sine wave at Frequency Hz
type Tone struct {
	Frequency  float64
	Amplitude  float64 // fraction of full scale
	SampleRate int

	mu     sync.Mutex
	index  uint64
	result audio.Sample
}

// NewTone creates a half-scale tone
func NewTone(frequency float64, sampleRate int) *Tone {
	return &Tone{
		Frequency:  frequency,
		Amplitude:  0.5,
		SampleRate: sampleRate,
		result:     audio.MidScale,
	}
}

func (g *Tone) Trigger() {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := float64(g.index) / float64(g.SampleRate)
	g.result = audio.SampleFromFloat(g.Amplitude * math.Sin(2*math.Pi*g.Frequency*t))
	g.index++
}

func (g *Tone) Busy() bool { return false }

func (g *Tone) Result() audio.Sample {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}
