// ABOUTME: Tests for the host ADCs
// ABOUTME: Tone shape, noise bounds and determinism, and file looping and resampling
package input

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/audio/decode"
	"github.com/xlaudio/xlaudio-go/pkg/hal"
)

func TestInputsImplementADC(t *testing.T) {
	var _ hal.ADC = (*Tone)(nil)
	var _ hal.ADC = (*Noise)(nil)
	var _ hal.ADC = (*File)(nil)
	var _ hal.ADC = (*Microphone)(nil)
}

func TestToneStartsAtMidScaleAndPeaks(t *testing.T) {
	// 1kHz at 8kHz gives 8 samples per cycle, peaking at index 2
	tone := NewTone(1000, 8000)

	var got []audio.Sample
	for i := 0; i < 8; i++ {
		tone.Trigger()
		got = append(got, tone.Result())
	}

	if got[0] != audio.MidScale {
		t.Errorf("expected first sample at mid-scale, got %d", got[0])
	}
	peak := audio.SampleToInt16(got[2])
	if peak < 16000 || peak > 16400 {
		t.Errorf("expected half-scale peak near 16383, got %d", peak)
	}
	trough := audio.SampleToInt16(got[6])
	if trough > -16000 || trough < -16400 {
		t.Errorf("expected half-scale trough near -16383, got %d", trough)
	}
}

func TestNoiseIsBoundedAndSeeded(t *testing.T) {
	a := NewNoise(99)
	b := NewNoise(99)

	for i := 0; i < 1000; i++ {
		a.Trigger()
		b.Trigger()
		if a.Result() != b.Result() {
			t.Fatalf("expected identical sequences for the same seed at %d", i)
		}
		v := audio.SampleToInt16(a.Result())
		if v > 8192 || v < -8192 {
			t.Fatalf("expected quarter-scale noise, got %d", v)
		}
	}
}

func pcmOpener(rate int, samples ...int16) (func() (decode.Decoder, error), *int) {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	opens := 0
	return func() (decode.Decoder, error) {
		opens++
		return decode.NewPCM(bytes.NewReader(buf), rate, 1)
	}, &opens
}

func TestFileLoopsAtEnd(t *testing.T) {
	open, opens := pcmOpener(16000, 10, 20, 30)
	f, err := NewFileFrom(open, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []int16
	for i := 0; i < 8; i++ {
		f.Trigger()
		got = append(got, audio.SampleToInt16(f.Result()))
	}

	// the final input sample is held back for interpolation across the loop point
	want := []int16{10, 20, 10, 20, 10, 20, 10, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if f.Loops() < 3 || *opens < 4 {
		t.Errorf("expected repeated reopening, got %d loops and %d opens", f.Loops(), *opens)
	}
}

func TestFileResamplesToPipelineRate(t *testing.T) {
	open, _ := pcmOpener(8000, 0, 1000, 2000, 3000)
	f, err := NewFileFrom(open, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []int16
	for i := 0; i < 6; i++ {
		f.Trigger()
		got = append(got, audio.SampleToInt16(f.Result()))
	}
	want := []int16{0, 500, 1000, 1500, 2000, 2500}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFileWithoutAudioHoldsMidScale(t *testing.T) {
	open, _ := pcmOpener(8000)
	f, err := NewFileFrom(open, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.Trigger()
	if f.Result() != audio.MidScale {
		t.Errorf("expected mid-scale, got %d", f.Result())
	}
}

func TestFileOpenFailure(t *testing.T) {
	_, err := NewFileFrom(func() (decode.Decoder, error) {
		return nil, errors.New("no such file")
	}, 8000)
	if err == nil {
		t.Error("expected error when the decoder cannot be opened")
	}

	if _, err := NewFile("/nonexistent/clip.mp3", 8000); err == nil {
		t.Error("expected error for missing file")
	}
}
