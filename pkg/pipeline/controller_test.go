// ABOUTME: Tests for controller configuration and the fault state
// ABOUTME: Invalid configurations must halt without ever running a loop body
package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/hal"
	"github.com/xlaudio/xlaudio-go/pkg/profile"
)

func TestConfigureRejectsInvalidValues(t *testing.T) {
	passthrough := func(s audio.Sample) audio.Sample { return s }

	tests := []struct {
		name string
		edit func(cfg *Config)
		want error
	}{
		{"input source", func(cfg *Config) { cfg.Input = audio.InputSource(2) }, audio.ErrInvalidInput},
		{"buffer length", func(cfg *Config) { cfg.Length = audio.BufferLength(5) }, audio.ErrInvalidBufferLength},
		{"negative buffer length", func(cfg *Config) { cfg.Length = audio.BufferLength(-1) }, audio.ErrInvalidBufferLength},
		{"sample rate", func(cfg *Config) { cfg.Rate = audio.SampleRate(9) }, audio.ErrInvalidSampleRate},
		{"mode", func(cfg *Config) { cfg.Mode = Mode(3) }, ErrInvalidMode},
		{"block callback", func(cfg *Config) { cfg.Block = nil }, ErrMissingCallback},
		{"sample callback", func(cfg *Config) { cfg.Mode = Interrupt }, ErrMissingCallback},
		{"adc", func(cfg *Config) { cfg.Hardware.ADC = nil }, ErrMissingHardware},
		{"dac", func(cfg *Config) { cfg.Hardware.DAC = nil }, ErrMissingHardware},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := blockConfig(audio.Length8, identity, &hal.SequenceADC{}, &hal.MemoryDAC{})
			tt.edit(&cfg)

			c, err := Configure(cfg)
			if !errors.Is(err, ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if c == nil {
				t.Fatal("expected a faulted controller")
			}
			if !errors.Is(c.Fault(), ErrFault) {
				t.Errorf("expected controller fault, got %v", c.Fault())
			}
		})
	}

	// sample modes do not use the buffer length
	cfg := Config{
		Mode:     Interrupt,
		Rate:     audio.FS8000,
		Input:    audio.Primary,
		Length:   audio.BufferLength(42),
		Sample:   passthrough,
		Hardware: Hardware{ADC: &hal.SequenceADC{}, DAC: &hal.MemoryDAC{}},
	}
	if _, err := Configure(cfg); err != nil {
		t.Errorf("expected buffer length to be ignored in interrupt mode, got %v", err)
	}
}

func TestConfigureSelectsInput(t *testing.T) {
	mic := &hal.SequenceADC{Samples: []audio.Sample{1}}
	mux := &hal.Mux{Inputs: map[audio.InputSource]hal.ADC{audio.Primary: mic}}

	cfg := blockConfig(audio.Length8, identity, mux, &hal.MemoryDAC{})
	c := mustConfigure(t, cfg)
	if c.Fault() != nil {
		t.Errorf("expected healthy controller, got %v", c.Fault())
	}

	cfg.Input = audio.Auxiliary
	if _, err := Configure(cfg); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for an unwired input, got %v", err)
	}
}

func TestDebugPinIsLeftToTransforms(t *testing.T) {
	debug := &hal.LED{}
	debug.High()

	var c *Controller
	cfg := interruptConfig(func(s audio.Sample) audio.Sample {
		c.DebugPin().High()
		defer c.DebugPin().Low()
		return s
	}, &hal.SequenceADC{}, &hal.MemoryDAC{})
	cfg.Hardware.Debug = debug
	c = mustConfigure(t, cfg)

	if debug.Level() {
		t.Error("expected debug pin driven low by Configure")
	}
	c.Tick()
	c.Tick()
	if debug.Toggles() != 6 || debug.Level() {
		t.Errorf("expected two pulses from the transform, got %d toggles", debug.Toggles())
	}

	// unwired pin is a no-op
	bare := mustConfigure(t, interruptConfig(func(s audio.Sample) audio.Sample { return s }, &hal.SequenceADC{}, &hal.MemoryDAC{}))
	bare.DebugPin().High()
	bare.DebugPin().Low()
}

func TestFaultedControllerBlinksAndNeverProcesses(t *testing.T) {
	adc := &hal.SequenceADC{}
	dac := &hal.MemoryDAC{}
	errLED := &hal.LED{}

	calls := 0
	var faults []Event
	cfg := blockConfig(audio.BufferLength(7), func(in, out []audio.Sample) { calls++ }, adc, dac)
	cfg.Hardware.Error = errLED
	cfg.Hardware.Clock = &hal.TickerClock{}
	cfg.FaultBlink = 2 * time.Millisecond
	cfg.OnEvent = func(e Event) {
		if e.Kind == EventFault {
			faults = append(faults, e)
		}
	}

	c, err := Configure(cfg)
	if err == nil {
		t.Fatal("expected configuration error")
	}

	c.Tick()

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	runErr := c.Run(ctx)

	if !errors.Is(runErr, ErrFault) || !errors.Is(runErr, audio.ErrInvalidBufferLength) {
		t.Errorf("expected fault wrapping the buffer length error, got %v", runErr)
	}
	var fault *FaultError
	if !errors.As(runErr, &fault) {
		t.Errorf("expected a *FaultError, got %T", runErr)
	}
	if errLED.Toggles() < 4 {
		t.Errorf("expected the error pin to blink, got %d toggles", errLED.Toggles())
	}
	if errLED.Level() {
		t.Error("expected error pin left low after halt")
	}
	if calls != 0 || adc.Triggers() != 0 || dac.Len() != 0 {
		t.Errorf("expected no processing, got %d calls, %d conversions, %d writes", calls, adc.Triggers(), dac.Len())
	}
	if c.Stats() != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", c.Stats())
	}
	if len(faults) != 1 || faults[0].Err == nil {
		t.Errorf("expected one fault event, got %+v", faults)
	}
	if a, b := c.Buffers(); a != nil || b != nil {
		t.Error("expected no buffers on a faulted controller")
	}
}

func TestRunRejectsSecondRun(t *testing.T) {
	clock := newManualClock()
	cfg := blockConfig(audio.Length8, identity, &hal.SequenceADC{}, &hal.MemoryDAC{})
	cfg.Hardware.Clock = clock
	c := mustConfigure(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- c.Run(ctx)
	}()
	<-clock.started

	if err := c.Run(ctx); err == nil {
		t.Error("expected error when running twice")
	}

	cancel()
	if err := <-result; err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
}

func TestMeasureLatency(t *testing.T) {
	counter := &stepCounter{}
	p := profile.New(counter)

	block := mustConfigure(t, blockConfig(audio.Length16, func(in, out []audio.Sample) {
		counter.now += uint32(len(in)) * 3
		copy(out, in)
	}, &hal.SequenceADC{}, &hal.MemoryDAC{}))

	cycles, err := block.MeasureLatency(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 48 {
		t.Errorf("expected 48 cycles, got %d", cycles)
	}

	sample := mustConfigure(t, interruptConfig(func(s audio.Sample) audio.Sample {
		counter.now += 9
		return s
	}, &hal.SequenceADC{}, &hal.MemoryDAC{}))
	if cycles, _ := sample.MeasureLatency(p); cycles != 9 {
		t.Errorf("expected 9 cycles, got %d", cycles)
	}

	faulted, _ := Configure(Config{Mode: BlockDMA})
	if _, err := faulted.MeasureLatency(p); !errors.Is(err, ErrFault) {
		t.Errorf("expected ErrFault, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{"poll": Polling, "Interrupt": Interrupt, "dma": BlockDMA} {
		got, err := ParseMode(name)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q): expected %v, got %v (%v)", name, want, got, err)
		}
	}
	if _, err := ParseMode("spin"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
	if BlockDMA.String() != "dma" {
		t.Errorf("expected dma, got %s", BlockDMA)
	}
}
