// ABOUTME: In-memory converters for tests and headless runs
// ABOUTME: SequenceADC replays scripted samples, MemoryDAC records everything written
package hal

import (
	"sync"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// SequenceADC returns Samples in order, wrapping around. With no samples it
// produces a ramp starting at 1.
type SequenceADC struct {
	Samples []audio.Sample

	// BusyPolls makes Busy report true this many times after each Trigger
	BusyPolls int

	mu       sync.Mutex
	next     int
	ramp     audio.Sample
	result   audio.Sample
	pending  int
	triggers int
	source   audio.InputSource
}

func (a *SequenceADC) Trigger() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.triggers++
	a.pending = a.BusyPolls
	if len(a.Samples) == 0 {
		a.ramp++
		a.result = a.ramp
		return
	}
	a.result = a.Samples[a.next%len(a.Samples)]
	a.next++
}

func (a *SequenceADC) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending > 0 {
		a.pending--
		return true
	}
	return false
}

func (a *SequenceADC) Result() audio.Sample {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Select records the requested channel
func (a *SequenceADC) Select(source audio.InputSource) error {
	if err := source.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	a.source = source
	a.mu.Unlock()
	return nil
}

// Source returns the last selected channel
func (a *SequenceADC) Source() audio.InputSource {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.source
}

// Triggers returns how many conversions were started
func (a *SequenceADC) Triggers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.triggers
}

// MemoryDAC records every sample written
type MemoryDAC struct {
	mu      sync.Mutex
	samples []audio.Sample
}

func (d *MemoryDAC) Write(s audio.Sample) {
	d.mu.Lock()
	d.samples = append(d.samples, s)
	d.mu.Unlock()
}

// Samples returns a copy of everything written so far
func (d *MemoryDAC) Samples() []audio.Sample {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]audio.Sample, len(d.samples))
	copy(out, d.samples)
	return out
}

// Len returns the number of samples written
func (d *MemoryDAC) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.samples)
}
