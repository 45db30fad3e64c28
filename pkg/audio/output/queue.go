// ABOUTME: Sample queue shared by the device backends
// ABOUTME: Buffers tick-rate writes for the device callback and counts drops
package output

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// queue sits between the pipeline's per-sample writes and a device that pulls in bursts
type queue struct {
	ring    *audio.RingBuffer
	pace    bool
	closed  atomic.Bool
	dropped atomic.Uint64
	scratch []audio.Sample
}

func newQueue(sampleRate int, opts Options) *queue {
	ms := opts.BufferMillis
	if ms <= 0 {
		ms = DefaultBufferMillis
	}
	return &queue{
		ring: audio.NewRingBuffer(sampleRate * ms / 1000),
		pace: opts.Pace,
	}
}

func (q *queue) write(s audio.Sample) {
	for !q.ring.Push(s) {
		if !q.pace || q.closed.Load() {
			q.dropped.Add(1)
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// fill16 writes queued samples to out as signed 16-bit little-endian, silence on underrun
func (q *queue) fill16(out []byte) int {
	n := len(out) / 2
	if cap(q.scratch) < n {
		q.scratch = make([]audio.Sample, n)
	}
	samples := q.scratch[:n]
	read := q.ring.Read(samples, audio.MidScale)

	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(audio.SampleToInt16(s)))
	}
	return read
}
