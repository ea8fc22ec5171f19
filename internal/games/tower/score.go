package tower

import (
	"math"

	"github.com/vovakirdan/towerfall/internal/config"
)

// LockScore is the scoring outcome of one lock.
type LockScore struct {
	Cleared    int
	Base       int     // Line-clear score before the multiplier
	Multiplier float64 // Combo multiplier applied to Base
	Award      int     // Base * Multiplier, rounded
	Delta      int     // Award plus drop bonuses earned by this piece
	Combo      int     // Combo counter after the lock
	Score      int     // Running total after the lock
}

// ScoreEngine accumulates score, combo and line totals.
type ScoreEngine struct {
	cfg config.ScoringConfig

	score     int
	combo     int
	bestCombo int
	lines     int
	pending   int // Drop bonus earned by the active piece
}

// NewScoreEngine creates a zeroed score engine.
func NewScoreEngine(cfg config.ScoringConfig) *ScoreEngine {
	return &ScoreEngine{cfg: cfg}
}

// LineScore returns the base score for clearing n lines at once. Counts
// beyond the table add ExtraLineScore per line to the last entry.
func (e *ScoreEngine) LineScore(n int) int {
	table := e.cfg.LineScores
	if n <= 0 || len(table) == 0 {
		return 0
	}
	if n <= len(table) {
		return table[n-1]
	}
	return table[len(table)-1] + (n-len(table))*e.cfg.ExtraLineScore
}

// Multiplier returns the combo multiplier for a combo count, clamped to
// the last table entry.
func (e *ScoreEngine) Multiplier(combo int) float64 {
	table := e.cfg.ComboMultipliers
	if len(table) == 0 {
		return 1
	}
	if combo < 0 {
		combo = 0
	}
	if combo >= len(table) {
		return table[len(table)-1]
	}
	return table[combo]
}

// AddDropBonus credits drop points to the score immediately.
func (e *ScoreEngine) AddDropBonus(points int) {
	if points <= 0 {
		return
	}
	e.score += points
	e.pending += points
}

// Lock scores a lock that cleared the given number of lines. A lock with no
// clear resets the combo; a clearing lock is scored with the multiplier of
// the prior combo and then increments it.
func (e *ScoreEngine) Lock(cleared int) LockScore {
	ls := LockScore{Cleared: cleared}
	if cleared <= 0 {
		e.combo = 0
		ls.Multiplier = 1
	} else {
		ls.Base = e.LineScore(cleared)
		ls.Multiplier = e.Multiplier(e.combo)
		ls.Award = int(math.Round(float64(ls.Base) * ls.Multiplier))
		e.score += ls.Award
		e.lines += cleared
		e.combo++
		if e.combo > e.bestCombo {
			e.bestCombo = e.combo
		}
	}
	ls.Delta = ls.Award + e.pending
	e.pending = 0
	ls.Combo = e.combo
	ls.Score = e.score
	return ls
}

func (e *ScoreEngine) Score() int     { return e.score }
func (e *ScoreEngine) Combo() int     { return e.combo }
func (e *ScoreEngine) BestCombo() int { return e.bestCombo }
func (e *ScoreEngine) Lines() int     { return e.lines }
