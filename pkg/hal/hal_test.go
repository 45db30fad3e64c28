// ABOUTME: Tests for hardware collaborators
// ABOUTME: Covers LED telemetry, scripted converters, the input mux, and the host clock
package hal

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

func TestLEDTracksLevelAndToggles(t *testing.T) {
	var led LED
	if led.Level() {
		t.Error("expected LED to start low")
	}

	led.High()
	led.High()
	led.Low()
	led.High()

	if !led.Level() {
		t.Error("expected LED to be high")
	}
	if led.Toggles() != 3 {
		t.Errorf("expected 3 toggles, got %d", led.Toggles())
	}
}

func TestSequenceADCWrapsAround(t *testing.T) {
	adc := &SequenceADC{Samples: []audio.Sample{10, 20, 30}}
	var got []audio.Sample
	for i := 0; i < 5; i++ {
		adc.Trigger()
		got = append(got, adc.Result())
	}

	want := []audio.Sample{10, 20, 30, 10, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected sample %d to be %d, got %d", i, want[i], got[i])
		}
	}
	if adc.Triggers() != 5 {
		t.Errorf("expected 5 triggers, got %d", adc.Triggers())
	}
}

func TestSequenceADCRampAndBusy(t *testing.T) {
	adc := &SequenceADC{BusyPolls: 2}
	adc.Trigger()

	polls := 0
	for adc.Busy() {
		polls++
	}
	if polls != 2 {
		t.Errorf("expected 2 busy polls, got %d", polls)
	}
	if adc.Result() != 1 {
		t.Errorf("expected ramp to start at 1, got %d", adc.Result())
	}
}

func TestMemoryDACRecords(t *testing.T) {
	dac := &MemoryDAC{}
	dac.Write(1)
	dac.Write(2)

	got := dac.Samples()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
	got[0] = 99
	if dac.Samples()[0] != 1 {
		t.Error("expected Samples to return a copy")
	}
}

func TestMuxRoutesSelectedInput(t *testing.T) {
	primary := &SequenceADC{Samples: []audio.Sample{100}}
	aux := &SequenceADC{Samples: []audio.Sample{200}}
	mux := &Mux{Inputs: map[audio.InputSource]ADC{
		audio.Primary:   primary,
		audio.Auxiliary: aux,
	}}

	if mux.Result() != audio.MidScale {
		t.Errorf("expected mid-scale before selection, got %d", mux.Result())
	}

	if err := mux.Select(audio.Auxiliary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mux.Trigger()
	if mux.Result() != 200 {
		t.Errorf("expected auxiliary sample 200, got %d", mux.Result())
	}
	if primary.Triggers() != 0 {
		t.Errorf("expected primary untouched, got %d triggers", primary.Triggers())
	}
}

func TestMuxRejectsUnknownInput(t *testing.T) {
	mux := &Mux{Inputs: map[audio.InputSource]ADC{audio.Primary: &SequenceADC{}}}

	if err := mux.Select(audio.InputSource(9)); !errors.Is(err, audio.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := mux.Select(audio.Auxiliary); err == nil {
		t.Error("expected error for unwired auxiliary input")
	}
}

func TestTickerClockDeliversTicks(t *testing.T) {
	clock := &TickerClock{Resolution: time.Millisecond}

	var ticks atomic.Int64
	if err := clock.Start(100*time.Microsecond, func() { ticks.Add(1) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := clock.Start(time.Millisecond, func() {}); err == nil {
		t.Error("expected error when starting a running clock")
	}

	time.Sleep(50 * time.Millisecond)
	clock.Stop()

	n := ticks.Load()
	// 50ms at 100µs is 500 ticks; allow generous scheduling slack
	if n < 100 || n > 1000 {
		t.Errorf("expected roughly 500 ticks, got %d", n)
	}
	if clock.Delivered() != n {
		t.Errorf("expected Delivered %d, got %d", n, clock.Delivered())
	}

	after := ticks.Load()
	time.Sleep(5 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("expected no ticks after Stop")
	}

	// Stop is idempotent
	clock.Stop()
}

func TestTickerClockRejectsBadInterval(t *testing.T) {
	clock := &TickerClock{}
	if err := clock.Start(0, func() {}); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestTickerClockStopsPromptlyWithSlowTicks(t *testing.T) {
	clock := &TickerClock{Resolution: time.Millisecond}

	// every tick takes ten intervals, so each wakeup finds a larger batch due
	var ticks atomic.Int64
	if err := clock.Start(20*time.Microsecond, func() {
		ticks.Add(1)
		time.Sleep(200 * time.Microsecond)
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	begin := time.Now()
	clock.Stop()
	if elapsed := time.Since(begin); elapsed > 100*time.Millisecond {
		t.Errorf("expected Stop to return within one tick, took %v", elapsed)
	}
	if ticks.Load() == 0 {
		t.Error("expected some ticks before Stop")
	}
}

func TestTickerClockPreemptsSlowTick(t *testing.T) {
	clock := &TickerClock{Resolution: time.Millisecond, Preempt: true}

	var running, overlaps atomic.Int64
	if err := clock.Start(20*time.Microsecond, func() {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(500 * time.Microsecond)
		running.Add(-1)
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	clock.Stop()

	if clock.Nested() == 0 {
		t.Error("expected nested ticks over a handler slower than the interval")
	}
	if overlaps.Load() == 0 {
		t.Error("expected a tick to arrive while the previous one was running")
	}
	if running.Load() != 0 {
		t.Errorf("expected no ticks running after Stop, got %d", running.Load())
	}
}

func TestTickerClockDoesNotPreemptFastTick(t *testing.T) {
	clock := &TickerClock{Resolution: time.Millisecond, Preempt: true}

	var ticks atomic.Int64
	if err := clock.Start(5*time.Millisecond, func() { ticks.Add(1) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	clock.Stop()

	if ticks.Load() == 0 {
		t.Fatal("expected ticks")
	}
	if clock.Nested() != 0 {
		t.Errorf("expected no nested ticks, got %d", clock.Nested())
	}
}
