// ABOUTME: Output that discards samples at the device rate
// ABOUTME: Used when no audio device is present or wanted
package output

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// Null drains its queue on a ticker as a device would, then discards the samples
type Null struct {
	opts     Options
	q        *queue
	written  atomic.Uint64
	stopChan chan struct{}
	done     chan struct{}
}

// NewNull creates a null output
func NewNull(opts Options) *Null {
	return &Null{opts: opts}
}

// Open starts draining at sampleRate
func (n *Null) Open(sampleRate int) error {
	n.q = newQueue(sampleRate, n.opts)
	n.stopChan = make(chan struct{})
	n.done = make(chan struct{})

	go n.drain(sampleRate)

	log.Printf("Audio output initialized: %dHz, mono (null)", sampleRate)
	return nil
}

func (n *Null) drain(sampleRate int) {
	defer close(n.done)

	const period = 10 * time.Millisecond
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	chunk := make([]byte, 2*sampleRate*int(period/time.Millisecond)/1000)
	for {
		select {
		case <-n.stopChan:
			return
		case <-ticker.C:
			n.written.Add(uint64(n.q.fill16(chunk)))
		}
	}
}

func (n *Null) Write(s audio.Sample) {
	if n.q == nil {
		return
	}
	n.q.write(s)
}

// Played returns how many queued samples have been drained
func (n *Null) Played() uint64 {
	return n.written.Load()
}

func (n *Null) Dropped() uint64 {
	if n.q == nil {
		return 0
	}
	return n.q.dropped.Load()
}

// Close stops draining
func (n *Null) Close() error {
	if n.stopChan == nil {
		return nil
	}
	n.q.closed.Store(true)
	close(n.stopChan)
	<-n.done
	n.stopChan = nil
	return nil
}
