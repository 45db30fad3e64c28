// ABOUTME: Pipeline controller
// ABOUTME: Validates configuration once, then runs the selected mode until cancelled
package pipeline

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/hal"
	"github.com/xlaudio/xlaudio-go/pkg/profile"
)

// strategy is one execution mode. Each owns only the state its mode needs.
type strategy interface {
	reset()
	run(ctx context.Context) error
	tick()
}

// Controller owns the buffers, the callback, and the scheduling loop
type Controller struct {
	cfg   Config
	hw    Hardware
	n     int
	fault *FaultError
	loop  strategy
	block *blockLoop

	stats   counters
	running atomic.Bool
}

// Configure validates cfg and builds a controller for it. On failure it returns a controller
// in the fault state together with an error wrapping ErrConfig; running that controller
// blinks the error pin and never processes audio.
func Configure(cfg Config) (*Controller, error) {
	c := &Controller{cfg: cfg, hw: cfg.Hardware}
	if c.hw.Duty == nil {
		c.hw.Duty = hal.NopPin{}
	}
	if c.hw.Error == nil {
		c.hw.Error = hal.NopPin{}
	}
	if c.hw.Debug == nil {
		c.hw.Debug = hal.NopPin{}
	}
	c.hw.Debug.Low()

	n, err := cfg.validate()
	if err == nil {
		if sel, ok := cfg.Hardware.ADC.(hal.Selector); ok {
			if serr := sel.Select(cfg.Input); serr != nil {
				err = fmt.Errorf("failed to select %v input: %w", cfg.Input, serr)
			}
		}
	}
	if err != nil {
		cause := fmt.Errorf("%w: %w", ErrConfig, err)
		c.fault = &FaultError{Cause: cause}
		log.Printf("Pipeline configuration failed: %v", err)
		return c, cause
	}

	c.n = n
	switch cfg.Mode {
	case Polling:
		c.loop = &pollingLoop{c: c}
	case Interrupt:
		c.loop = &interruptLoop{c: c}
	case BlockDMA:
		c.block = newBlockLoop(c, n)
		c.loop = c.block
	}

	log.Printf("Pipeline configured: mode=%v, rate=%v, input=%v, block=%d", cfg.Mode, cfg.Rate, cfg.Input, n)
	return c, nil
}

// Run executes the configured mode until ctx is cancelled. A faulted controller blinks its
// error pin instead and returns its FaultError once ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	if c.fault != nil {
		log.Printf("Pipeline halted: %v", c.fault)
		c.emit(Event{Kind: EventFault, Err: c.fault})
		halt(ctx, c.hw.Error, c.cfg.FaultBlink)
		return c.fault
	}

	if !c.running.CompareAndSwap(false, true) {
		return fmt.Errorf("pipeline already running")
	}
	defer c.running.Store(false)

	c.stats.reset()
	c.hw.Error.Low()
	c.hw.Duty.Low()
	c.loop.reset()

	log.Printf("Pipeline running in %v mode", c.cfg.Mode)
	c.emit(Event{Kind: EventStarted})

	err := c.loop.run(ctx)

	s := c.Stats()
	log.Printf("Pipeline stopped: ticks=%d, samples=%d, blocks=%d, skipped=%d, overruns=%d",
		s.Ticks, s.Samples, s.Blocks, s.Skipped, s.Overruns)
	return err
}

// Tick delivers one sample clock tick. A configured Clock calls it automatically; without one
// the caller delivers ticks. Block mode expects ticks one at a time. Overlapping ticks in
// interrupt mode are reported as overruns.
func (c *Controller) Tick() {
	if c.fault != nil {
		return
	}
	c.stats.ticks.Add(1)
	c.loop.tick()
}

// DebugPin returns the user debug pin, a no-op pin when none is wired
func (c *Controller) DebugPin() hal.Pin {
	return c.hw.Debug
}

// Mode returns the configured mode
func (c *Controller) Mode() Mode {
	return c.cfg.Mode
}

// BlockSize returns samples per buffer, 1 in the sample modes
func (c *Controller) BlockSize() int {
	return c.n
}

// Fault returns the fault, or nil if the controller is healthy
func (c *Controller) Fault() error {
	if c.fault == nil {
		return nil
	}
	return c.fault
}

// Stats returns a copy of the counters
func (c *Controller) Stats() Stats {
	return c.stats.snapshot()
}

// Buffers returns the capture and playback pairs in block mode, nil otherwise
func (c *Controller) Buffers() (capture, playback *BufferPair) {
	if c.block == nil {
		return nil, nil
	}
	return c.block.capture, c.block.playback
}

// MeasureLatency profiles the configured transform
func (c *Controller) MeasureLatency(p *profile.Profiler) (uint32, error) {
	if c.fault != nil {
		return 0, c.fault
	}
	if c.cfg.Mode == BlockDMA {
		return p.MeasureBlock(c.cfg.Block, c.n)
	}
	return p.MeasureSample(c.cfg.Sample)
}

func (c *Controller) emit(e Event) {
	if c.cfg.OnEvent != nil {
		c.cfg.OnEvent(e)
	}
}

// overrun latches the error pin and reports a tick that arrived mid-transform
func (c *Controller) overrun() {
	n := c.stats.overruns.Add(1)
	c.hw.Error.High()
	if n == 1 || n%1000 == 0 {
		log.Printf("Warning: transform overrun, next tick arrived before it returned (%d total)", n)
	}
	c.emit(Event{Kind: EventOverrun, Count: n})
}

// idle waits between consumer polls
func (c *Controller) idle() {
	if c.cfg.PollInterval > 0 {
		time.Sleep(c.cfg.PollInterval)
		return
	}
	runtime.Gosched()
}

// startClock begins tick delivery if a clock is wired. The returned stop is always safe to call.
func (c *Controller) startClock() (stop func(), err error) {
	clock := c.hw.Clock
	if clock == nil {
		return func() {}, nil
	}
	if err := clock.Start(c.cfg.Rate.Interval(), c.Tick); err != nil {
		return nil, fmt.Errorf("failed to start sample clock: %w", err)
	}
	return clock.Stop, nil
}
