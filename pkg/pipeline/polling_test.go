// ABOUTME: Tests for polling mode
// ABOUTME: Runs the synchronous loop against scripted converters
package pipeline

import (
	"context"
	"testing"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/hal"
)

func TestPollingLoop(t *testing.T) {
	adc := &hal.SequenceADC{BusyPolls: 3}
	dac := &hal.MemoryDAC{}
	duty := &hal.LED{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	c := mustConfigure(t, Config{
		Mode:  Polling,
		Rate:  audio.FS48000,
		Input: audio.Primary,
		Sample: func(s audio.Sample) audio.Sample {
			calls++
			if calls == 100 {
				cancel()
			}
			return ^s
		},
		Hardware: Hardware{ADC: adc, DAC: dac, Duty: duty},
	})

	if err := c.Run(ctx); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}

	got := dac.Samples()
	if len(got) != 100 {
		t.Fatalf("expected 100 samples, got %d", len(got))
	}
	for i, s := range got {
		if want := ^audio.Sample(i + 1); s != want {
			t.Fatalf("expected sample %d to be %d, got %d", i, want, s)
		}
	}
	if adc.Triggers() != 100 {
		t.Errorf("expected 100 conversions, got %d", adc.Triggers())
	}
	if duty.Toggles() != 200 {
		t.Errorf("expected 200 duty toggles, got %d", duty.Toggles())
	}
	if c.Stats().Samples != 100 {
		t.Errorf("expected 100 samples counted, got %d", c.Stats().Samples)
	}
}

func TestPollingIgnoresTicks(t *testing.T) {
	adc := &hal.SequenceADC{}
	c := mustConfigure(t, Config{
		Mode:     Polling,
		Rate:     audio.FS8000,
		Input:    audio.Primary,
		Sample:   func(s audio.Sample) audio.Sample { return s },
		Hardware: Hardware{ADC: adc, DAC: &hal.MemoryDAC{}},
	})

	c.Tick()
	if adc.Triggers() != 0 {
		t.Errorf("expected no conversions from a tick, got %d", adc.Triggers())
	}
	if c.BlockSize() != 1 {
		t.Errorf("expected block size 1, got %d", c.BlockSize())
	}
}

func TestPollingStopsWhileBusy(t *testing.T) {
	// a conversion that never finishes
	adc := &hal.SequenceADC{BusyPolls: 1 << 30}
	ctx, cancel := context.WithCancel(context.Background())

	c := mustConfigure(t, Config{
		Mode:     Polling,
		Rate:     audio.FS8000,
		Input:    audio.Primary,
		Sample:   func(s audio.Sample) audio.Sample { return s },
		Hardware: Hardware{ADC: adc, DAC: &hal.MemoryDAC{}},
	})

	result := make(chan error, 1)
	go func() {
		result <- c.Run(ctx)
	}()
	waitFor(t, "conversion to start", func() bool { return adc.Triggers() == 1 })
	cancel()

	if err := <-result; err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
}
