// ABOUTME: Polling mode
// ABOUTME: Converts, transforms, and writes one sample at a time with no timing source
package pipeline

import "context"

type pollingLoop struct {
	c *Controller
}

func (l *pollingLoop) reset() {}

// tick is ignored; polling throughput is set by conversion plus transform latency
func (l *pollingLoop) tick() {}

func (l *pollingLoop) run(ctx context.Context) error {
	c := l.c
	adc, dac := c.hw.ADC, c.hw.DAC

	for {
		if ctx.Err() != nil {
			return nil
		}

		adc.Trigger()
		for adc.Busy() {
			if ctx.Err() != nil {
				return nil
			}
		}
		in := adc.Result()

		c.hw.Duty.High()
		out := c.cfg.Sample(in)
		c.hw.Duty.Low()

		dac.Write(out)
		c.stats.samples.Add(1)
	}
}
