// Package feedback combines the collaborators a session notifies.
package feedback

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/towerfall/internal/games/tower"
)

// Mux fans feedback out to every non-nil member in order.
type Mux []tower.Feedback

// NewMux drops nil members.
func NewMux(members ...tower.Feedback) Mux {
	out := make(Mux, 0, len(members))
	for _, m := range members {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// PlaySound implements tower.Feedback.
func (m Mux) PlaySound(s tower.Sound) {
	for _, f := range m {
		f.PlaySound(s)
	}
}

// Haptic implements tower.Feedback.
func (m Mux) Haptic(c tower.HapticClass) {
	for _, f := range m {
		f.Haptic(c)
	}
}

// Sinks fans game-over results out to every non-nil member in order.
type Sinks []tower.StatsSink

// NewSinks drops nil members.
func NewSinks(members ...tower.StatsSink) Sinks {
	out := make(Sinks, 0, len(members))
	for _, m := range members {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// PersistHighScore implements tower.StatsSink.
func (s Sinks) PersistHighScore(score int) {
	for _, sink := range s {
		sink.PersistHighScore(score)
	}
}

// PersistStats implements tower.StatsSink.
func (s Sinks) PersistStats(st tower.Stats) {
	for _, sink := range s {
		sink.PersistStats(st)
	}
}

// LogHaptics writes haptic notifications to a logger at debug level.
// Terminals have no vibration motor; the log stands in for one.
type LogHaptics struct {
	Log *log.Logger
}

// PlaySound implements tower.Feedback.
func (LogHaptics) PlaySound(tower.Sound) {}

// Haptic implements tower.Feedback.
func (l LogHaptics) Haptic(c tower.HapticClass) {
	if l.Log != nil {
		l.Log.Debug("haptic", "class", c)
	}
}

var (
	_ tower.Feedback  = Mux(nil)
	_ tower.StatsSink = Sinks(nil)
	_ tower.Feedback  = LogHaptics{}
)
