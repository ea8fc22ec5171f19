package tower

import (
	"time"

	"github.com/vovakirdan/towerfall/internal/config"
)

// RiseController turns elapsed play time into floor rises. Progress toward
// the next rise accumulates at a rate scaled by the score-derived speed
// multiplier, recomputed on every step.
type RiseController struct {
	interval time.Duration
	dm       *config.DifficultyManager
	enabled  bool

	last     time.Time
	progress float64
}

// NewRiseController creates a controller. A nil difficulty manager keeps
// the base cadence.
func NewRiseController(interval time.Duration, dm *config.DifficultyManager, enabled bool) *RiseController {
	return &RiseController{interval: interval, dm: dm, enabled: enabled && interval > 0}
}

// Start begins measuring from now with no accumulated progress.
func (r *RiseController) Start(now time.Time) {
	r.last = now
	r.progress = 0
}

// Rebase moves the reference time to now without touching progress, so a
// pause contributes nothing.
func (r *RiseController) Rebase(now time.Time) {
	r.last = now
}

// Multiplier returns the cadence multiplier for a score.
func (r *RiseController) Multiplier(score int) float64 {
	if r.dm == nil {
		return 1
	}
	return r.dm.Speed(1, score, 0)
}

// Progress returns the fraction of the way to the next rise.
func (r *RiseController) Progress() float64 {
	return r.progress
}

// Enabled reports whether the floor rises at all.
func (r *RiseController) Enabled() bool {
	return r.enabled
}

// Step advances to now and reports whether the floor should rise. At most
// one rise is reported per step; any further backlog is discarded.
func (r *RiseController) Step(now time.Time, score int) bool {
	if !r.enabled {
		return false
	}
	dt := now.Sub(r.last)
	r.last = now
	if dt <= 0 {
		return false
	}
	r.progress += dt.Seconds() * r.Multiplier(score) / r.interval.Seconds()
	if r.progress < 1 {
		return false
	}
	r.progress--
	if r.progress >= 1 {
		r.progress = 0
	}
	return true
}
