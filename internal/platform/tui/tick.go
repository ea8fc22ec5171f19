// Package tui hosts tower sessions in Bubble Tea programs, locally or over
// SSH. The engine runs on its own drivers; the UI only sends commands and
// redraws snapshots.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a redraw of one game. Ticks addressed to a
// replaced game are dropped, so a restart never doubles the frame rate.
type TickMsg struct {
	At      time.Time
	Session string
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(fps int, session string) tea.Cmd {
	if fps <= 0 {
		fps = 30
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Session: session}
	})
}
