// ABOUTME: White noise ADC
// ABOUTME: Uniform noise from a seeded generator so runs are reproducible
package input

import (
	"sync"

	"golang.org/x/exp/rand"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// Noise produces uniform white noise scaled by Amplitude
type Noise struct {
	Amplitude float64

	mu     sync.Mutex
	rng    *rand.Rand
	result audio.Sample
}

// NewNoise creates a quarter-scale noise source
func NewNoise(seed uint64) *Noise {
	return &Noise{
		Amplitude: 0.25,
		rng:       rand.New(rand.NewSource(seed)),
		result:    audio.MidScale,
	}
}

func (n *Noise) Trigger() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.result = audio.SampleFromFloat(n.Amplitude * (2*n.rng.Float64() - 1))
}

func (n *Noise) Busy() bool { return false }

func (n *Noise) Result() audio.Sample {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.result
}
