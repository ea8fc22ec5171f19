package tower

import "time"

// InputTiming is the auto-repeat state machine for held input. A held
// direction repeats after the DAS delay and then every ARR interval; a held
// soft drop fires on the first poll and then every soft-drop interval.
// It only decides when things are due; the session performs the moves.
type InputTiming struct {
	das      time.Duration
	arr      time.Duration
	softDrop time.Duration

	dir        int
	pressedAt  time.Time
	lastRepeat time.Time
	repeating  bool

	softHeld  bool
	softFired bool
	lastSoft  time.Time
}

// NewInputTiming creates an idle input-timing controller.
func NewInputTiming(das, arr, softDrop time.Duration) *InputTiming {
	return &InputTiming{das: das, arr: arr, softDrop: softDrop}
}

// Press starts holding dir. Pressing a new direction replaces the old one
// and restarts the delay.
func (t *InputTiming) Press(dir int, now time.Time) {
	t.dir = dir
	t.pressedAt = now
	t.lastRepeat = now
	t.repeating = false
}

// Release stops holding dir. Releasing a direction that is not held is a
// no-op.
func (t *InputTiming) Release(dir int) {
	if t.dir == dir {
		t.dir = 0
		t.repeating = false
	}
}

// Direction returns the held direction, or 0.
func (t *InputTiming) Direction() int {
	return t.dir
}

// RepeatDue returns the direction to move on this poll, or 0. At most one
// repeat is produced per poll; a late poll does not replay missed repeats.
func (t *InputTiming) RepeatDue(now time.Time) int {
	if t.dir == 0 {
		return 0
	}
	if !t.repeating {
		if now.Sub(t.pressedAt) < t.das {
			return 0
		}
		t.repeating = true
		t.lastRepeat = now
		return t.dir
	}
	if now.Sub(t.lastRepeat) < t.arr {
		return 0
	}
	t.lastRepeat = t.lastRepeat.Add(t.arr)
	if now.Sub(t.lastRepeat) >= t.arr {
		t.lastRepeat = now
	}
	return t.dir
}

// SoftDropBegin starts holding soft drop.
func (t *InputTiming) SoftDropBegin(now time.Time) {
	if t.softHeld {
		return
	}
	t.softHeld = true
	t.softFired = false
	t.lastSoft = now
}

// SoftDropEnd stops holding soft drop.
func (t *InputTiming) SoftDropEnd() {
	t.softHeld = false
	t.softFired = false
}

// SoftDropHeld reports whether soft drop is held.
func (t *InputTiming) SoftDropHeld() bool {
	return t.softHeld
}

// SoftDropDue reports whether a soft-drop step is due on this poll.
func (t *InputTiming) SoftDropDue(now time.Time) bool {
	if !t.softHeld {
		return false
	}
	if !t.softFired {
		t.softFired = true
		t.lastSoft = now
		return true
	}
	if now.Sub(t.lastSoft) < t.softDrop {
		return false
	}
	t.lastSoft = t.lastSoft.Add(t.softDrop)
	if now.Sub(t.lastSoft) >= t.softDrop {
		t.lastSoft = now
	}
	return true
}

// Shift moves every timestamp forward by d. Used on resume so time spent
// paused does not count toward any delay.
func (t *InputTiming) Shift(d time.Duration) {
	t.pressedAt = t.pressedAt.Add(d)
	t.lastRepeat = t.lastRepeat.Add(d)
	t.lastSoft = t.lastSoft.Add(d)
}

// Reset drops all held input.
func (t *InputTiming) Reset() {
	t.dir = 0
	t.repeating = false
	t.softHeld = false
	t.softFired = false
}
