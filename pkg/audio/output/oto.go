//go:build !headless

// ABOUTME: Oto-based audio output implementation
// ABOUTME: The oto player pulls queued pipeline samples as 16-bit mono PCM
package output

import (
	"fmt"
	"log"

	"github.com/ebitengine/oto/v3"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// Oto output implementation using oto library
type Oto struct {
	opts       Options
	q          *queue
	otoCtx     *oto.Context
	player     *oto.Player
	sampleRate int
	ready      bool
}

// NewOto creates a new Oto output
func NewOto(opts Options) *Oto {
	return &Oto{opts: opts}
}

// Open initializes the output device
func (o *Oto) Open(sampleRate int) error {
	// oto allows one context per process
	if o.otoCtx != nil {
		if o.sampleRate != sampleRate {
			log.Printf("Warning: oto cannot change rate from %dHz to %dHz, keeping existing context", o.sampleRate, sampleRate)
		}
		return nil
	}

	o.q = newQueue(sampleRate, o.opts)

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate

	// The player reads from o until closed
	o.player = o.otoCtx.NewPlayer(o)
	o.player.Play()

	o.ready = true

	log.Printf("Audio output initialized: %dHz, mono (oto)", sampleRate)

	return nil
}

// Read feeds the oto player, padding with silence when the pipeline is behind
func (o *Oto) Read(p []byte) (int, error) {
	o.q.fill16(p)
	return len(p) &^ 1, nil
}

func (o *Oto) Write(s audio.Sample) {
	if !o.ready {
		return
	}
	o.q.write(s)
}

func (o *Oto) Dropped() uint64 {
	if o.q == nil {
		return 0
	}
	return o.q.dropped.Load()
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.q != nil {
		o.q.closed.Store(true)
	}
	o.ready = false
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
	}
	return nil
}
