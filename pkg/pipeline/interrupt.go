// ABOUTME: Interrupt mode
// ABOUTME: Runs the sample transform on every clock tick and detects overruns
package pipeline

import (
	"context"
	"sync/atomic"
)

type interruptLoop struct {
	c *Controller

	// busy is set while a transform runs. A tick that finds it set is an overrun.
	busy atomic.Bool
}

func (l *interruptLoop) reset() {
	l.busy.Store(false)
}

func (l *interruptLoop) run(ctx context.Context) error {
	stop, err := l.c.startClock()
	if err != nil {
		return err
	}
	defer stop()

	<-ctx.Done()
	return nil
}

func (l *interruptLoop) tick() {
	c := l.c

	c.hw.ADC.Trigger()
	in := c.hw.ADC.Result()

	// Nested ticks still run; each works on its own sample.
	nested := !l.busy.CompareAndSwap(false, true)
	if nested {
		c.overrun()
	}

	c.hw.Duty.High()
	out := c.cfg.Sample(in)
	c.hw.Duty.Low()

	if !nested {
		l.busy.Store(false)
	}

	c.stats.samples.Add(1)
	c.hw.DAC.Write(out)
}
