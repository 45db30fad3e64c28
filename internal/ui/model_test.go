// ABOUTME: Tests for the dashboard model
// ABOUTME: Covers status application, polling, key handling, and rendering helpers
package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xlaudio/xlaudio-go/internal/telemetry"
)

type stubSource struct {
	status telemetry.Status
	calls  int
}

func (s *stubSource) Snapshot() telemetry.Status {
	s.calls++
	return s.status
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil, 0)

	if model.refresh != DefaultRefresh {
		t.Errorf("expected default refresh %v, got %v", DefaultRefresh, model.refresh)
	}
	if model.haveData {
		t.Error("expected no data initially")
	}
	if model.showEvents {
		t.Error("expected events hidden initially")
	}
	if model.Init() != nil {
		t.Error("expected no refresh loop without a source")
	}
}

func TestViewBeforeData(t *testing.T) {
	model := NewModel(nil, 0)
	if got := model.View(); got != "Waiting for pipeline..." {
		t.Errorf("expected waiting text, got %q", got)
	}
}

func TestApplyStatus(t *testing.T) {
	model := NewModel(nil, 0)
	model.applyStatus(StatusMsg{Mode: "dma", BlockSize: 32, Counters: telemetry.Counters{Blocks: 7}})

	if !model.haveData {
		t.Error("expected haveData after status")
	}
	if model.status.Mode != "dma" || model.status.BlockSize != 32 {
		t.Errorf("expected dma/32, got %s/%d", model.status.Mode, model.status.BlockSize)
	}
	if model.status.Counters.Blocks != 7 {
		t.Errorf("expected 7 blocks, got %d", model.status.Counters.Blocks)
	}

	model.applyStatus(StatusMsg{Mode: "polling"})
	if model.status.BlockSize != 0 {
		t.Errorf("expected snapshot to be replaced, got block size %d", model.status.BlockSize)
	}
}

func TestPollReadsSource(t *testing.T) {
	src := &stubSource{status: telemetry.Status{Mode: "interrupt"}}
	model := NewModel(src, time.Millisecond)

	msg := model.poll()()
	status, ok := msg.(StatusMsg)
	if !ok {
		t.Fatalf("expected StatusMsg, got %T", msg)
	}
	if status.Mode != "interrupt" {
		t.Errorf("expected interrupt, got %s", status.Mode)
	}
	if src.calls != 1 {
		t.Errorf("expected 1 snapshot call, got %d", src.calls)
	}

	updated, _ := model.Update(status)
	if !updated.(Model).haveData {
		t.Error("expected model to hold data after StatusMsg")
	}
}

func TestQuitKey(t *testing.T) {
	model := NewModel(nil, 0)

	updated, cmd := model.Update(key('q'))
	if !updated.(Model).quitting {
		t.Error("expected quitting after q")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if got := updated.View(); got != "Stopping pipeline...\n" {
		t.Errorf("expected stopping text, got %q", got)
	}
}

func TestEventsToggle(t *testing.T) {
	model := NewModel(nil, 0)
	model.applyStatus(StatusMsg{
		Events: []telemetry.EventRecord{{Kind: "overrun", Count: 3, At: time.Now()}},
	})

	updated, _ := model.Update(key('e'))
	m := updated.(Model)
	if !m.showEvents {
		t.Fatal("expected events shown after e")
	}
	if view := m.View(); !strings.Contains(view, "overrun") || !strings.Contains(view, "#3") {
		t.Errorf("expected overrun event in view, got:\n%s", view)
	}

	updated, _ = m.Update(key('e'))
	if updated.(Model).showEvents {
		t.Error("expected events hidden after second e")
	}
}

func TestViewShowsFaultAndRoles(t *testing.T) {
	model := NewModel(nil, 0)
	model.applyStatus(StatusMsg{
		Mode:     "dma",
		Fault:    "pipeline configuration error: invalid sample rate",
		ErrorLED: true,
		Capture:  &telemetry.Roles{Write: "A", Read: "B"},
		Playback: &telemetry.Roles{Write: "B", Read: "B"},
	})

	view := model.View()
	for _, want := range []string{"FAULT", "write A", "read B", "Capture", "Playback", "Debug:"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestWindowSize(t *testing.T) {
	model := NewModel(nil, 0)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m := updated.(Model)
	if m.width != 80 || m.height != 24 {
		t.Errorf("expected 80x24, got %dx%d", m.width, m.height)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value, max, width int
		expected          string
	}{
		{0, 100, 4, "░░░░"},
		{50, 100, 4, "██░░"},
		{100, 100, 4, "████"},
		{250, 100, 4, "████"},
		{-5, 100, 4, "░░░░"},
	}

	for _, tt := range tests {
		if got := renderBar(tt.value, tt.max, tt.width); got != tt.expected {
			t.Errorf("renderBar(%d, %d, %d) = %q, expected %q", tt.value, tt.max, tt.width, got, tt.expected)
		}
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"this is longer than allowed", 10, "this is..."},
		{"", 10, ""},
		{"abcd", 4, "abcd"},
		{"abcde", 4, "a..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q",
				tt.input, tt.maxLen, result, tt.expected)
		}
	}
}
