package storage

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/towerfall/internal/games/tower"
)

// Recorder persists a session's results. Write failures are logged and
// dropped; the game never waits on storage.
type Recorder struct {
	store *Store
	mode  string
	log   *log.Logger
}

// NewRecorder creates a recorder writing results for mode into store.
func NewRecorder(store *Store, mode string, logger *log.Logger) *Recorder {
	return &Recorder{store: store, mode: mode, log: logger}
}

var _ tower.StatsSink = (*Recorder)(nil)

// PersistHighScore implements tower.StatsSink.
func (r *Recorder) PersistHighScore(score int) {
	if r.store == nil {
		return
	}
	if err := r.store.RaiseHighScore(r.mode, score); err != nil {
		r.warn("high score not saved", "mode", r.mode, "score", score, "err", err)
		return
	}
	if r.log != nil {
		r.log.Info("new high score", "mode", r.mode, "score", score)
	}
}

// PersistStats implements tower.StatsSink.
func (r *Recorder) PersistStats(st tower.Stats) {
	if r.store == nil {
		return
	}
	mode := st.Mode
	if mode == "" {
		mode = r.mode
	}
	_, err := r.store.RecordGame(ScoreEntry{
		SessionID: st.SessionID,
		Mode:      mode,
		Score:     st.Score,
		Lines:     st.LinesCleared,
		BestCombo: st.BestCombo,
	})
	if err != nil {
		r.warn("game not saved", "session", st.SessionID, "err", err)
	}
}

func (r *Recorder) warn(msg string, keyvals ...any) {
	if r.log != nil {
		r.log.Warn(msg, keyvals...)
	}
}
