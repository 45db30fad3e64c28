// ABOUTME: Cycle-count profiler for sample and block transforms
// ABOUTME: Overhead-cancelled median of timed trials on an injected counter
package profile

import (
	"errors"
	"runtime"
	"slices"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// DefaultTrials is the number of laps per median
const DefaultTrials = 11

// ErrNoBufferLength is returned when profiling a block transform without a block length
var ErrNoBufferLength = errors.New("buffer length not configured")

// Counter is a free-running monotonic cycle counter. Differences are taken modulo 2^32.
type Counter interface {
	Now() uint32
}

// Profiler times callbacks against a Counter
type Profiler struct {
	Counter Counter
	Trials  int
}

// New returns a profiler with the default trial count
func New(counter Counter) *Profiler {
	return &Profiler{Counter: counter, Trials: DefaultTrials}
}

// MeasureSample returns the cycles one call of fn takes
func (p *Profiler) MeasureSample(fn func(audio.Sample) audio.Sample) (uint32, error) {
	var out audio.Sample
	cycles := p.measure(func() {
		out = fn(audio.MidScale)
	})
	runtime.KeepAlive(out)
	return cycles, nil
}

// MeasureBlock returns the cycles one call of fn takes on zeroed blocks of length samples
func (p *Profiler) MeasureBlock(fn func(in, out []audio.Sample), length int) (uint32, error) {
	if length <= 0 {
		return 0, ErrNoBufferLength
	}
	if length > audio.MaxBufferSamples {
		return 0, audio.ErrInvalidBufferLength
	}

	in := audio.NewSampleBuffer(length)
	out := audio.NewSampleBuffer(length)
	return p.measure(func() {
		fn(in.Samples(), out.Samples())
	}), nil
}

// Delay spins until cycles have elapsed on the counter
func (p *Profiler) Delay(cycles uint32) {
	start := p.Counter.Now()
	for p.Counter.Now()-start < cycles {
	}
}

func (p *Profiler) measure(fn func()) uint32 {
	n := p.Trials
	if n <= 0 {
		n = DefaultTrials
	}

	overhead := make([]uint32, n)
	for i := range overhead {
		overhead[i] = p.lap(func() {})
	}

	cycles := make([]uint32, n)
	for i := range cycles {
		cycles[i] = p.lap(fn)
	}

	work, base := Median(cycles), Median(overhead)
	if work < base {
		return 0
	}
	return work - base
}

func (p *Profiler) lap(fn func()) uint32 {
	start := p.Counter.Now()
	fn()
	return p.Counter.Now() - start
}

// Median sorts a copy of samples and returns the middle element, 0 when empty
func Median(samples []uint32) uint32 {
	if len(samples) == 0 {
		return 0
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return sorted[len(sorted)/2]
}

// HostCounter counts nanoseconds since it was created, standing in for a 1 GHz cycle counter
type HostCounter struct {
	start time.Time
}

// NewHostCounter starts a host counter
func NewHostCounter() *HostCounter {
	return &HostCounter{start: time.Now()}
}

func (c *HostCounter) Now() uint32 {
	return uint32(time.Since(c.start).Nanoseconds())
}
