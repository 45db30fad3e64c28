// ABOUTME: Shared fixtures for pipeline tests
// ABOUTME: Manual clock, cycle counter, and controller builders
package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/hal"
)

// manualClock lets a test deliver ticks itself after Run has started the clock
type manualClock struct {
	mu      sync.Mutex
	tick    func()
	started chan struct{}
	stopped bool
}

func newManualClock() *manualClock {
	return &manualClock{started: make(chan struct{})}
}

func (m *manualClock) Start(interval time.Duration, tick func()) error {
	m.mu.Lock()
	m.tick = tick
	m.mu.Unlock()
	close(m.started)
	return nil
}

func (m *manualClock) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *manualClock) fire() {
	m.mu.Lock()
	tick := m.tick
	m.mu.Unlock()
	tick()
}

func (m *manualClock) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// stepCounter advances by one on every read plus whatever a transform adds
type stepCounter struct {
	now uint32
}

func (c *stepCounter) Now() uint32 {
	c.now++
	return c.now
}

func identity(in, out []audio.Sample) {
	copy(out, in)
}

func blockConfig(length audio.BufferLength, block BlockTransform, adc hal.ADC, dac hal.DAC) Config {
	return Config{
		Mode:   BlockDMA,
		Rate:   audio.FS8000,
		Input:  audio.Primary,
		Length: length,
		Block:  block,
		Hardware: Hardware{
			ADC: adc,
			DAC: dac,
		},
	}
}

func mustConfigure(t *testing.T, cfg Config) *Controller {
	t.Helper()
	c, err := Configure(cfg)
	if err != nil {
		t.Fatalf("unexpected configuration error: %v", err)
	}
	return c
}

// ramp returns the SequenceADC ramp values for the k-th block of n samples, counting from 0
func ramp(k, n int) []audio.Sample {
	out := make([]audio.Sample, n)
	for i := range out {
		out[i] = audio.Sample(k*n + i + 1)
	}
	return out
}

func equalSamples(a, b []audio.Sample) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(100 * time.Microsecond)
	}
}
