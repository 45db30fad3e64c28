// ABOUTME: Pipeline event recorder
// ABOUTME: Keeps the most recent notable events for display, skipping routine block completions
package telemetry

import (
	"sync"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/pipeline"
)

// DefaultHistory is how many events a Recorder keeps
const DefaultHistory = 8

// EventRecord is a pipeline event stamped with the time it was observed
type EventRecord struct {
	Kind  string    `json:"kind"`
	Label string    `json:"label,omitempty"`
	Count uint64    `json:"count,omitempty"`
	Error string    `json:"error,omitempty"`
	At    time.Time `json:"at"`
}

// Recorder collects pipeline events. Observe is safe to call from the sample clock.
type Recorder struct {
	mu      sync.Mutex
	history int
	events  []EventRecord
	last    pipeline.Label
	blocks  uint64
}

// NewRecorder creates a recorder holding up to history events
func NewRecorder(history int) *Recorder {
	if history <= 0 {
		history = DefaultHistory
	}
	return &Recorder{history: history}
}

// Observe records one event. Pass it as pipeline.Config.OnEvent.
func (r *Recorder) Observe(e pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Kind == pipeline.EventBlock {
		r.last = e.Label
		r.blocks = e.Count
		return
	}

	rec := EventRecord{Kind: e.Kind.String(), Count: e.Count, At: time.Now()}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}
	if len(r.events) == r.history {
		copy(r.events, r.events[1:])
		r.events = r.events[:len(r.events)-1]
	}
	r.events = append(r.events, rec)
}

// Recent returns recorded events, oldest first
func (r *Recorder) Recent() []EventRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventRecord, len(r.events))
	copy(out, r.events)
	return out
}

// LastBlock returns the most recently transformed buffer and the running block count
func (r *Recorder) LastBlock() (pipeline.Label, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.blocks
}
