package tower

import "time"

// LockState is the phase of the lock-delay state machine.
type LockState int

const (
	LockFalling LockState = iota
	LockGrounded
	LockLocked
)

func (s LockState) String() string {
	switch s {
	case LockFalling:
		return "falling"
	case LockGrounded:
		return "grounded"
	case LockLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// LockDelay tracks the grace period a grounded piece gets before it
// commits. Once the piece has touched down, every successful move or
// rotation restarts the timer and counts toward a hard cap, including ones
// that lift it off the floor. Only a descent below the lowest row the
// piece has occupied earns a fresh timer and a fresh count.
type LockDelay struct {
	delay    time.Duration
	resetCap int

	state   LockState
	timer   time.Duration
	resets  int
	lowest  int // Lowest occupied board row reached so far
	touched bool
}

// NewLockDelay creates a lock-delay tracker.
func NewLockDelay(delay time.Duration, resetCap int) *LockDelay {
	return &LockDelay{delay: delay, resetCap: resetCap}
}

// Reset prepares the tracker for a freshly spawned piece whose lowest
// occupied row is bottom.
func (l *LockDelay) Reset(bottom int) {
	l.state = LockFalling
	l.timer = 0
	l.resets = 0
	l.lowest = bottom
	l.touched = false
}

// Fell records a one-row descent that left the piece's lowest occupied
// row at bottom.
func (l *LockDelay) Fell(bottom int) {
	l.state = LockFalling
	if bottom < l.lowest {
		l.lowest = bottom
		l.timer = 0
		l.resets = 0
	}
}

// Ground records that the piece cannot descend. The timer keeps whatever
// it had accumulated on this row and runs while the piece stays grounded.
func (l *LockDelay) Ground() {
	if l.state == LockFalling {
		l.state = LockGrounded
		l.touched = true
	}
}

// Lift records that a grounded piece was moved over open space. The timer
// pauses until the piece is grounded again.
func (l *LockDelay) Lift() {
	if l.state == LockGrounded {
		l.state = LockFalling
	}
}

// Advance accumulates grounded time.
func (l *LockDelay) Advance(dt time.Duration) {
	if l.state == LockGrounded && dt > 0 {
		l.timer += dt
	}
}

// Bump restarts the timer after a successful move or rotation and counts
// the reset. Pieces that have not touched down yet move freely.
func (l *LockDelay) Bump() {
	if !l.touched || l.state == LockLocked {
		return
	}
	l.timer = 0
	l.resets++
}

// ShouldLock reports whether the grounded piece must commit now.
func (l *LockDelay) ShouldLock() bool {
	if l.state != LockGrounded {
		return false
	}
	return l.timer >= l.delay || l.resets >= l.resetCap
}

// MarkLocked moves the tracker into its terminal state for this piece.
func (l *LockDelay) MarkLocked() {
	l.state = LockLocked
}

func (l *LockDelay) State() LockState     { return l.state }
func (l *LockDelay) Timer() time.Duration { return l.timer }
func (l *LockDelay) Resets() int          { return l.resets }
func (l *LockDelay) Touched() bool        { return l.touched }
