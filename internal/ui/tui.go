// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the pipeline dashboard
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xlaudio/xlaudio-go/internal/telemetry"
)

// NewModel creates a dashboard model polling source every refresh
func NewModel(source telemetry.Snapshotter, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return Model{
		source:  source,
		refresh: refresh,
	}
}

// Run creates the dashboard program. The caller runs it and calls Quit to stop it.
func Run(source telemetry.Snapshotter, refresh time.Duration) *tea.Program {
	return tea.NewProgram(NewModel(source, refresh), tea.WithAltScreen())
}
