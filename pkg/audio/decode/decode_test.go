// ABOUTME: Tests for the file decoders
// ABOUTME: Raw PCM downmixing plus error handling for malformed MP3 and FLAC input
package decode

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func pcmBytes(samples ...int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

func TestPCMDecodeMono(t *testing.T) {
	d, err := NewPCM(bytes.NewReader(pcmBytes(256, -770, 12)), 16000, 1)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	out := make([]int16, 2)
	n, err := d.Read(out)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 samples, got %d (%v)", n, err)
	}
	if out[0] != 256 || out[1] != -770 {
		t.Errorf("expected [256 -770], got %v", out)
	}

	n, err = d.Read(out)
	if n != 1 || err != io.EOF {
		t.Errorf("expected final sample with EOF, got %d (%v)", n, err)
	}
	if d.SampleRate() != 16000 {
		t.Errorf("expected 16000, got %d", d.SampleRate())
	}
}

func TestPCMDecodeStereoDownmix(t *testing.T) {
	d, err := NewPCM(bytes.NewReader(pcmBytes(100, 300, -50, 50)), 44100, 2)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	out := make([]int16, 4)
	n, _ := d.Read(out)
	if n != 2 {
		t.Fatalf("expected 2 frames, got %d", n)
	}
	if out[0] != 200 || out[1] != 0 {
		t.Errorf("expected [200 0], got %v", out[:2])
	}
}

func TestNewPCMRejectsBadFormat(t *testing.T) {
	if _, err := NewPCM(bytes.NewReader(nil), 0, 1); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := NewPCM(bytes.NewReader(nil), 8000, 0); err == nil {
		t.Error("expected error for zero channels")
	}
}

func TestNewMP3RejectsEmptyInput(t *testing.T) {
	if _, err := NewMP3(bytes.NewReader(nil)); err == nil {
		t.Error("expected error for empty MP3 stream")
	}
}

func TestNewFLACRejectsMissingSignature(t *testing.T) {
	if _, err := NewFLAC(bytes.NewReader([]byte("RIFF0000WAVEfmt "))); err == nil {
		t.Error("expected error for non-FLAC data")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "missing.mp3")); err == nil {
		t.Error("expected error for missing file")
	}

	wav := filepath.Join(dir, "tone.wav")
	if err := os.WriteFile(wav, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(wav); err == nil {
		t.Error("expected error for unsupported extension")
	}

	bad := filepath.Join(dir, "broken.flac")
	if err := os.WriteFile(bad, []byte("not flac"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(bad); err == nil {
		t.Error("expected error for malformed FLAC")
	}
}
