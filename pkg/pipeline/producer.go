// ABOUTME: Timer and DMA side of block mode
// ABOUTME: Transfers one sample each way per tick and flips capture buffers on completion
package pipeline

import "github.com/xlaudio/xlaudio-go/pkg/hal"

// producer models the sample timer driving the ADC, the capture DMA channel, and the DAC
// drain. Its methods run in tick context and are never called concurrently with themselves.
type producer struct {
	capture  *BufferPair
	playback *BufferPair
	adc      hal.ADC
	dac      hal.DAC
	duty     hal.Pin
	n        int

	fill   int   // next capture index
	drain  int   // next playback index
	active Label // playback buffer being drained
}

func (p *producer) reset() {
	p.fill = 0
	p.drain = 0
	p.active = p.playback.ReadRole()
	p.signal()
}

// tick moves one sample in and one sample out. When the capture buffer fills it raises
// the transfer-complete notification and returns the completed label.
func (p *producer) tick() (Label, bool) {
	p.adc.Trigger()
	p.capture.samples(p.capture.WriteRole())[p.fill] = p.adc.Result()
	p.fill++

	// The drain changes buffer only at a boundary, and only to a published buffer.
	if p.drain == p.n {
		p.active = p.playback.WriteRole()
		p.playback.setRead(p.active)
		p.drain = 0
		p.signal()
	}
	p.dac.Write(p.playback.samples(p.active)[p.drain])
	p.drain++

	if p.fill == p.n {
		return p.complete(), true
	}
	return 0, false
}

// complete is the capture transfer-complete notification. It hands the filled buffer to the
// consumer by flipping the write role and leaves the read role alone.
func (p *producer) complete() Label {
	p.fill = 0
	return p.capture.flip()
}

// signal shows the draining buffer on the duty pin, high for A
func (p *producer) signal() {
	if p.active == A {
		p.duty.High()
	} else {
		p.duty.Low()
	}
}
