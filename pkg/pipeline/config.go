// ABOUTME: Pipeline configuration types
// ABOUTME: Modes, callback signatures, hardware wiring, and configuration validation
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/hal"
)

// Mode selects the execution strategy. It is fixed for the controller's lifetime.
type Mode int

const (
	Polling Mode = iota
	Interrupt
	BlockDMA
)

var (
	ErrInvalidMode     = errors.New("invalid pipeline mode")
	ErrMissingCallback = errors.New("missing callback")
	ErrMissingHardware = errors.New("missing hardware")
)

func (m Mode) String() string {
	switch m {
	case Polling:
		return "polling"
	case Interrupt:
		return "interrupt"
	case BlockDMA:
		return "dma"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Validate rejects values outside the enumerated modes
func (m Mode) Validate() error {
	if m < Polling || m > BlockDMA {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return nil
}

// ParseMode maps a mode name to a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "poll", "polling":
		return Polling, nil
	case "intr", "interrupt":
		return Interrupt, nil
	case "dma", "block", "blockdma":
		return BlockDMA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
	}
}

// SampleTransform processes one sample in the sample-at-a-time modes
type SampleTransform func(in audio.Sample) audio.Sample

// BlockTransform processes one captured block into one playback block of the same length
type BlockTransform func(in, out []audio.Sample)

// Hardware wires the pipeline to its peripherals
type Hardware struct {
	ADC hal.ADC
	DAC hal.DAC

	// Clock paces the interrupt and block modes. When nil, ticks are delivered by
	// calling Controller.Tick.
	Clock hal.Clock

	// Duty is high while a transform runs in the sample modes and tracks the
	// draining playback buffer in block mode
	Duty hal.Pin

	// Error is latched on overrun and blinks in the fault state
	Error hal.Pin

	// Debug is never driven by the pipeline. Transforms reach it through Controller.DebugPin
	// to mark sections of their own on a scope.
	Debug hal.Pin
}

// Config holds everything Configure needs
type Config struct {
	Mode   Mode
	Rate   audio.SampleRate
	Input  audio.InputSource
	Length audio.BufferLength // BlockDMA only

	Sample SampleTransform // Polling and Interrupt
	Block  BlockTransform  // BlockDMA

	Hardware Hardware

	// PollInterval is how long the block consumer sleeps when no buffer is ready.
	// Zero busy-polls, yielding the processor between checks.
	PollInterval time.Duration

	// FaultBlink is the half period of the fault blink
	FaultBlink time.Duration

	// OnEvent is called for lifecycle, block, overrun, and fault events. It may be called
	// from the tick context and must not block.
	OnEvent func(Event)
}

// DefaultFaultBlink is the fault blink half period
const DefaultFaultBlink = 250 * time.Millisecond

// validate checks every enumerated field and returns the block length in samples
func (c *Config) validate() (int, error) {
	if err := c.Input.Validate(); err != nil {
		return 0, err
	}
	if err := c.Mode.Validate(); err != nil {
		return 0, err
	}
	if _, err := c.Rate.Period(); err != nil {
		return 0, err
	}
	if c.Hardware.ADC == nil {
		return 0, fmt.Errorf("%w: no ADC", ErrMissingHardware)
	}
	if c.Hardware.DAC == nil {
		return 0, fmt.Errorf("%w: no DAC", ErrMissingHardware)
	}

	switch c.Mode {
	case Polling, Interrupt:
		if c.Sample == nil {
			return 0, fmt.Errorf("%w: %v mode needs a sample transform", ErrMissingCallback, c.Mode)
		}
		return 1, nil
	default:
		n, err := c.Length.Samples()
		if err != nil {
			return 0, err
		}
		if c.Block == nil {
			return 0, fmt.Errorf("%w: %v mode needs a block transform", ErrMissingCallback, c.Mode)
		}
		return n, nil
	}
}
