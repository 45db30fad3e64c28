// ABOUTME: Double buffer with write and read roles
// ABOUTME: Role changes are single-word atomic writes so notifications and the consumer never lock
package pipeline

import (
	"sync/atomic"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// BufferPair holds two equally sized sample buffers plus the roles that say who owns which.
// The write role is the parity of a flip generation, so consecutive flips always alternate.
// The read role is the buffer last confirmed consumed.
type BufferPair struct {
	buffers [2]*audio.SampleBuffer
	gen     atomic.Uint64
	read    atomic.Uint32
}

// NewBufferPair allocates two zeroed buffers of n samples with writeRole A and readRole B
func NewBufferPair(n int) *BufferPair {
	p := &BufferPair{
		buffers: [2]*audio.SampleBuffer{
			audio.NewSampleBuffer(n),
			audio.NewSampleBuffer(n),
		},
	}
	p.reset(A, B)
	return p
}

// Len returns the samples per buffer
func (p *BufferPair) Len() int {
	return p.buffers[A].Len()
}

// WriteRole returns the buffer currently being filled
func (p *BufferPair) WriteRole() Label {
	return labelOf(p.gen.Load())
}

// ReadRole returns the buffer last confirmed consumed
func (p *BufferPair) ReadRole() Label {
	return Label(p.read.Load())
}

// Generation counts write-role flips since the last reset, offset by the initial role
func (p *BufferPair) Generation() uint64 {
	return p.gen.Load()
}

// Snapshot copies the contents of one buffer
func (p *BufferPair) Snapshot(l Label) []audio.Sample {
	return p.buffers[l].Snapshot()
}

func (p *BufferPair) reset(write, read Label) {
	p.buffers[A].Zero()
	p.buffers[B].Zero()
	p.gen.Store(uint64(write))
	p.read.Store(uint32(read))
}

// flip hands the current write buffer over and returns its label
func (p *BufferPair) flip() Label {
	return labelOf(p.gen.Add(1) - 1)
}

// publish makes l the write role
func (p *BufferPair) publish(l Label) {
	if p.WriteRole() != l {
		p.gen.Add(1)
	}
}

func (p *BufferPair) setRead(l Label) {
	p.read.Store(uint32(l))
}

func (p *BufferPair) samples(l Label) []audio.Sample {
	return p.buffers[l].Samples()
}
