// ABOUTME: Pipeline events and counters
// ABOUTME: Events feed telemetry; Stats is a point-in-time copy of the counters
package pipeline

import "sync/atomic"

// EventKind identifies a pipeline event
type EventKind int

const (
	EventStarted EventKind = iota
	EventBlock
	EventSkipped
	EventOverrun
	EventFault
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventBlock:
		return "block"
	case EventSkipped:
		return "skipped"
	case EventOverrun:
		return "overrun"
	case EventFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Event describes something observable that happened in the pipeline
type Event struct {
	Kind  EventKind
	Label Label  // buffer processed, for EventBlock
	Count uint64 // running total for the event's counter
	Err   error  // EventFault only
}

// Stats holds pipeline counters
type Stats struct {
	Ticks       uint64 // sample clock ticks delivered
	Samples     uint64 // samples transformed in the sample modes
	Completions uint64 // capture buffers completed by the producer
	Blocks      uint64 // capture buffers transformed by the consumer
	Skipped     uint64 // completed capture buffers never transformed
	Overruns    uint64 // ticks that arrived while a transform was still running
}

type counters struct {
	ticks       atomic.Uint64
	samples     atomic.Uint64
	completions atomic.Uint64
	blocks      atomic.Uint64
	skipped     atomic.Uint64
	overruns    atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Ticks:       c.ticks.Load(),
		Samples:     c.samples.Load(),
		Completions: c.completions.Load(),
		Blocks:      c.blocks.Load(),
		Skipped:     c.skipped.Load(),
		Overruns:    c.overruns.Load(),
	}
}

func (c *counters) reset() {
	c.ticks.Store(0)
	c.samples.Store(0)
	c.completions.Store(0)
	c.blocks.Store(0)
	c.skipped.Store(0)
	c.overruns.Store(0)
}
