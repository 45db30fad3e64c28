// ABOUTME: Pipeline status snapshots for telemetry consumers
// ABOUTME: Collects controller counters, buffer roles, and pin levels into one JSON-ready value
package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/xlaudio/xlaudio-go/internal/version"
	"github.com/xlaudio/xlaudio-go/pkg/hal"
	"github.com/xlaudio/xlaudio-go/pkg/pipeline"
)

// Snapshotter produces the current status
type Snapshotter interface {
	Snapshot() Status
}

// Status is one point-in-time view of the pipeline
type Status struct {
	Session     string        `json:"session"`
	Product     string        `json:"product"`
	Version     string        `json:"version"`
	Mode        string        `json:"mode"`
	RateHz      int           `json:"rate_hz"`
	Input       string        `json:"input"`
	Source      string        `json:"source"`
	Transform   string        `json:"transform"`
	Output      string        `json:"output"`
	BlockSize   int           `json:"block_size"`
	Uptime      float64       `json:"uptime_seconds"`
	Duty        bool          `json:"duty"`
	DutyToggles uint64        `json:"duty_toggles"`
	ErrorLED    bool          `json:"error_led"`
	DebugPin    bool          `json:"debug_pin"`
	Fault       string        `json:"fault,omitempty"`
	Cycles      uint32        `json:"transform_cycles"`
	BudgetNanos int64         `json:"budget_nanos"`
	Dropped     uint64        `json:"output_dropped"`
	Counters    Counters      `json:"counters"`
	Capture     *Roles        `json:"capture,omitempty"`
	Playback    *Roles        `json:"playback,omitempty"`
	Events      []EventRecord `json:"events,omitempty"`
}

// Counters mirrors pipeline.Stats
type Counters struct {
	Ticks       uint64 `json:"ticks"`
	Samples     uint64 `json:"samples"`
	Completions uint64 `json:"completions"`
	Blocks      uint64 `json:"blocks"`
	Skipped     uint64 `json:"skipped"`
	Overruns    uint64 `json:"overruns"`
}

// Roles reports which buffer of a pair is being written and read
type Roles struct {
	Write      string `json:"write"`
	Read       string `json:"read"`
	Generation uint64 `json:"generation"`
}

// Load returns the fraction of the per-block time budget the transform uses
func (s Status) Load() float64 {
	if s.BudgetNanos <= 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.BudgetNanos)
}

// Info describes how the pipeline was assembled
type Info struct {
	RateHz    int
	Input     string
	Source    string
	Transform string
	Output    string
}

// Dropper reports samples an output discarded
type Dropper interface {
	Dropped() uint64
}

// Source builds snapshots from a running controller. Optional fields may be nil.
type Source struct {
	Controller *pipeline.Controller
	Duty       *hal.LED
	Error      *hal.LED
	Debug      *hal.LED
	Output     Dropper
	Recorder   *Recorder
	Info       Info

	// Cycles is the profiled transform cost, filled in once at startup
	Cycles uint32
	// Budget is the time available per buffer
	Budget time.Duration

	session string
	started time.Time
}

// NewSource creates a snapshot source with a fresh session id
func NewSource(c *pipeline.Controller, info Info) *Source {
	return &Source{
		Controller: c,
		Info:       info,
		session:    uuid.New().String(),
		started:    time.Now(),
	}
}

// Session returns the id shared by every snapshot from this source
func (s *Source) Session() string {
	return s.session
}

// Snapshot collects the current status
func (s *Source) Snapshot() Status {
	st := Status{
		Session:     s.session,
		Product:     version.Product,
		Version:     version.Version,
		RateHz:      s.Info.RateHz,
		Input:       s.Info.Input,
		Source:      s.Info.Source,
		Transform:   s.Info.Transform,
		Output:      s.Info.Output,
		Uptime:      time.Since(s.started).Seconds(),
		Cycles:      s.Cycles,
		BudgetNanos: s.Budget.Nanoseconds(),
	}

	if c := s.Controller; c != nil {
		st.Mode = c.Mode().String()
		st.BlockSize = c.BlockSize()
		if err := c.Fault(); err != nil {
			st.Fault = err.Error()
		}
		stats := c.Stats()
		st.Counters = Counters{
			Ticks:       stats.Ticks,
			Samples:     stats.Samples,
			Completions: stats.Completions,
			Blocks:      stats.Blocks,
			Skipped:     stats.Skipped,
			Overruns:    stats.Overruns,
		}
		if capture, playback := c.Buffers(); capture != nil {
			st.Capture = rolesOf(capture)
			st.Playback = rolesOf(playback)
		}
	}

	if s.Duty != nil {
		st.Duty = s.Duty.Level()
		st.DutyToggles = s.Duty.Toggles()
	}
	if s.Error != nil {
		st.ErrorLED = s.Error.Level()
	}
	if s.Debug != nil {
		st.DebugPin = s.Debug.Level()
	}
	if s.Output != nil {
		st.Dropped = s.Output.Dropped()
	}
	if s.Recorder != nil {
		st.Events = s.Recorder.Recent()
	}
	return st
}

func rolesOf(p *pipeline.BufferPair) *Roles {
	return &Roles{
		Write:      p.WriteRole().String(),
		Read:       p.ReadRole().String(),
		Generation: p.Generation(),
	}
}
