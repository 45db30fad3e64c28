// ABOUTME: Block-DMA mode
// ABOUTME: Consumer side of the ping-pong handshake between capture and playback pairs
package pipeline

import (
	"context"
	"log"
)

type blockLoop struct {
	c        *Controller
	capture  *BufferPair
	playback *BufferPair
	producer *producer

	// consumed is the capture generation the consumer has caught up to
	consumed uint64
}

func newBlockLoop(c *Controller, n int) *blockLoop {
	l := &blockLoop{
		c:        c,
		capture:  NewBufferPair(n),
		playback: NewBufferPair(n),
	}
	l.producer = &producer{
		capture:  l.capture,
		playback: l.playback,
		adc:      c.hw.ADC,
		dac:      c.hw.DAC,
		duty:     c.hw.Duty,
		n:        n,
	}
	l.reset()
	return l
}

// reset zeroes both pairs. Capture starts filling A. Playback starts draining B with
// nothing published, so the first processed block goes to A.
func (l *blockLoop) reset() {
	l.capture.reset(A, B)
	l.playback.reset(B, B)
	l.producer.reset()
	l.consumed = 0
}

func (l *blockLoop) tick() {
	if _, done := l.producer.tick(); done {
		l.c.stats.completions.Add(1)
	}
}

func (l *blockLoop) run(ctx context.Context) error {
	stop, err := l.c.startClock()
	if err != nil {
		return err
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if !l.step() {
			l.c.idle()
		}
	}
}

// step is one consumer iteration. It returns true if a block was transformed.
func (l *blockLoop) step() bool {
	c := l.c

	gen := l.capture.Generation()
	if gen == l.consumed {
		return false
	}

	// The last published playback buffer has not started draining yet
	if l.playback.WriteRole() != l.playback.ReadRole() {
		return false
	}

	// Only the most recent completed buffer is processed; older ones are lost.
	ready := labelOf(gen).Other()
	if skipped := gen - l.consumed - 1; skipped > 0 {
		total := c.stats.skipped.Add(skipped)
		log.Printf("Warning: consumer fell behind, skipped %d capture buffer(s)", skipped)
		c.emit(Event{Kind: EventSkipped, Count: total})
	}

	target := l.playback.ReadRole().Other()
	c.cfg.Block(l.capture.samples(ready), l.playback.samples(target))

	l.capture.setRead(ready)
	l.playback.publish(target)
	l.consumed = gen

	n := c.stats.blocks.Add(1)
	c.emit(Event{Kind: EventBlock, Label: ready, Count: n})
	return true
}
