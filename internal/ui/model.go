// ABOUTME: Bubbletea model for the pipeline dashboard
// ABOUTME: Holds the latest telemetry status and renders mode, LEDs, buffer roles, and counters
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xlaudio/xlaudio-go/internal/telemetry"
)

// DefaultRefresh is how often the dashboard polls its source
const DefaultRefresh = 200 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	faultStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// Model represents the TUI state
type Model struct {
	source  telemetry.Snapshotter
	refresh time.Duration

	status   telemetry.Status
	haveData bool

	showEvents bool
	quitting   bool

	width  int
	height int
}

// StatusMsg carries a fresh snapshot into the model
type StatusMsg telemetry.Status

type tickMsg time.Time

// Init starts the refresh loop
func (m Model) Init() tea.Cmd {
	if m.source == nil {
		return nil
	}
	return tea.Batch(m.poll(), tickEvery(m.refresh))
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) poll() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		return StatusMsg(src.Snapshot())
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if m.source == nil {
			return m, nil
		}
		return m, tea.Batch(m.poll(), tickEvery(m.refresh))
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Stopping pipeline...\n"
	}
	if !m.haveData {
		return "Waiting for pipeline..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(m.renderPins())
	b.WriteString(m.renderCounters())
	if m.showEvents {
		b.WriteString(m.renderEvents())
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

// renderHeader renders configuration and health
func (m Model) renderHeader() string {
	st := m.status

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", st.Product, st.Version)))
	b.WriteString("\n\n")

	line(&b, "Mode:    ", fmt.Sprintf("%s @ %dHz, %s input, block %d", st.Mode, st.RateHz, st.Input, st.BlockSize))
	line(&b, "Chain:   ", truncate(fmt.Sprintf("%s -> %s -> %s", st.Source, st.Transform, st.Output), 60))
	line(&b, "Uptime:  ", (time.Duration(st.Uptime * float64(time.Second))).Round(time.Second).String())

	b.WriteString(labelStyle.Render("Status:  "))
	switch {
	case st.Fault != "":
		b.WriteString(faultStyle.Render("FAULT " + truncate(st.Fault, 52)))
	case st.Counters.Overruns > 0:
		b.WriteString(warnStyle.Render(fmt.Sprintf("Running (%d overruns)", st.Counters.Overruns)))
	default:
		b.WriteString(valueStyle.Render("Running"))
	}
	b.WriteString("\n\n")
	return b.String()
}

// renderPins renders the LEDs, transform load, and buffer roles
func (m Model) renderPins() string {
	st := m.status

	var b strings.Builder
	line(&b, "Duty:    ", fmt.Sprintf("%s  (%d toggles)", ledText(st.Duty), st.DutyToggles))

	errText := ledText(st.ErrorLED)
	if st.ErrorLED {
		errText = faultStyle.Render(errText)
	}
	b.WriteString(labelStyle.Render("Error:   "))
	b.WriteString(errText)
	b.WriteString("\n")
	line(&b, "Debug:   ", ledText(st.DebugPin))

	load := int(st.Load()*100 + 0.5)
	line(&b, "Load:    ", fmt.Sprintf("[%s] %d%%  %d cycles", renderBar(load, 100, 20), load, st.Cycles))

	if st.Capture != nil && st.Playback != nil {
		line(&b, "Capture: ", fmt.Sprintf("write %s  read %s  gen %d", st.Capture.Write, st.Capture.Read, st.Capture.Generation))
		line(&b, "Playback:", fmt.Sprintf(" write %s  read %s  gen %d", st.Playback.Write, st.Playback.Read, st.Playback.Generation))
	}
	b.WriteString("\n")
	return b.String()
}

// renderCounters renders pipeline statistics
func (m Model) renderCounters() string {
	c := m.status.Counters

	var b strings.Builder
	line(&b, "Ticks:   ", fmt.Sprintf("%d  Samples: %d", c.Ticks, c.Samples))
	line(&b, "Blocks:  ", fmt.Sprintf("%d of %d  Skipped: %d", c.Blocks, c.Completions, c.Skipped))
	line(&b, "Dropped: ", fmt.Sprintf("%d", m.status.Dropped))
	b.WriteString("\n")
	return b.String()
}

// renderEvents renders the recent event history
func (m Model) renderEvents() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Events:"))
	b.WriteString("\n")
	if len(m.status.Events) == 0 {
		b.WriteString(valueStyle.Render("  (none)"))
		b.WriteString("\n")
	}
	for _, e := range m.status.Events {
		text := fmt.Sprintf("  %s %-8s", e.At.Format("15:04:05"), e.Kind)
		if e.Count > 0 {
			text += fmt.Sprintf(" #%d", e.Count)
		}
		if e.Error != "" {
			text += " " + truncate(e.Error, 40)
		}
		b.WriteString(valueStyle.Render(text))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return helpStyle.Render("e:Events  q:Quit") + "\n"
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "e":
		m.showEvents = !m.showEvents
	}

	return m, nil
}

// applyStatus replaces the displayed snapshot
func (m *Model) applyStatus(msg StatusMsg) {
	m.status = telemetry.Status(msg)
	m.haveData = true
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func ledText(on bool) string {
	if on {
		return "●"
	}
	return "○"
}

// Utility functions
func renderBar(value, max, width int) string {
	if value > max {
		value = max
	}
	if value < 0 {
		value = 0
	}
	filled := (value * width) / max
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
