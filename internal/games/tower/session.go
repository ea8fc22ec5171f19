package tower

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/towerfall/internal/config"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateOver // Game over, results committed
	StateQuit // Abandoned, nothing committed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// OverReason records which rule ended the game.
type OverReason int

const (
	OverNone    OverReason = iota
	OverBlockOut           // A spawned or swapped-in piece did not fit
	OverTopOut             // The floor rose into a filled top row
)

func (r OverReason) String() string {
	switch r {
	case OverBlockOut:
		return "block_out"
	case OverTopOut:
		return "top_out"
	default:
		return "none"
	}
}

// Kick offsets tried in order when a rotation does not fit in place.
var rotationKicks = []Point{{0, 0}, {-1, 0}, {1, 0}, {-1, 1}, {1, 1}}

// SessionOptions configures a new session.
type SessionOptions struct {
	Config    config.TowerConfig
	Mode      Mode // Zero value keeps Config untouched
	Seed      int64
	HighScore int // Best score known before this game
	Feedback  Feedback
	Stats     StatsSink
	Logger    *log.Logger
}

// Session owns one game. Every method takes the session lock for the whole
// transition, so the gravity, input and rise drivers plus direct commands
// form a single writer. Collaborator callbacks are queued during the
// transition and delivered after the lock is released.
type Session struct {
	mu sync.Mutex

	id       string
	cfg      config.TowerConfig
	mode     Mode
	rng      *rand.Rand
	log      *log.Logger
	feedback Feedback
	stats    StatsSink

	board *Board
	bag   *Bag
	rows  RowSource
	score *ScoreEngine
	lock  *LockDelay
	input *InputTiming
	rise  *RiseController

	piece    Piece
	held     Kind
	hasHeld  bool
	canHold  bool
	softDist int

	state    State
	reason   OverReason
	high     int
	clock    time.Time // Last time the lock timer was advanced
	pausedAt time.Time

	lastLock  LockScore
	lastPlace PlaceResult
	locks     int
	rises     int

	pending  []func()
	done     chan struct{}
	doneOnce sync.Once
}

// NewSession creates an idle session. Call Start to begin play.
func NewSession(opts SessionOptions) *Session {
	cfg := opts.Config
	if opts.Mode.ID != "" {
		opts.Mode.Apply(&cfg)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		mode:     opts.Mode,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		log:      logger,
		feedback: opts.Feedback,
		stats:    opts.Stats,
		high:     opts.HighScore,
		done:     make(chan struct{}),
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Config returns the effective configuration.
func (s *Session) Config() config.TowerConfig { return s.cfg }

// Done is closed when the game ends or is quit.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// do runs fn under the session lock and then delivers queued callbacks.
func (s *Session) do(fn func()) {
	s.mu.Lock()
	fn()
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, ev := range events {
		ev()
	}
}

func (s *Session) sound(ev SoundEvent, lines, combo int) {
	if s.feedback == nil {
		return
	}
	snd := Sound{Event: ev, Lines: lines, Combo: combo}
	fb := s.feedback
	s.pending = append(s.pending, func() { fb.PlaySound(snd) })
}

func (s *Session) haptic(c HapticClass) {
	if s.feedback == nil {
		return
	}
	fb := s.feedback
	s.pending = append(s.pending, func() { fb.Haptic(c) })
}

// Start builds a fresh board and bag, carves the tower and spawns the first
// piece. It only has an effect on an idle session.
func (s *Session) Start(now time.Time) {
	s.do(func() {
		if s.state != StateIdle {
			return
		}
		cfg := s.cfg

		s.board = NewBoard(cfg.Board.PlayableWidth, cfg.Board.DecorativeWidth, cfg.Board.Height)
		s.bag = NewBag(s.rng)
		s.score = NewScoreEngine(cfg.Scoring)
		s.lock = NewLockDelay(cfg.Timing.LockDelay, cfg.Timing.LockResetCap)
		s.input = NewInputTiming(cfg.Timing.DAS, cfg.Timing.ARR, cfg.Timing.SoftDrop)

		dm := config.NewDifficultyManager(cfg.Difficulty)
		s.rise = NewRiseController(cfg.Rise.Interval, dm, cfg.Rise.Variant != config.RiseOff)
		s.rise.Start(now)

		switch cfg.Rise.Variant {
		case config.RiseSparse:
			s.rows = SparseRows{Rand: s.rng, FillProbability: cfg.Rise.FillProbability}
		default:
			s.rows = NewGapRows(s.rng, cfg.Tower.Gap)
		}

		CarveTower(s.board, s.rng, cfg.Tower)

		s.canHold = true
		s.clock = now
		s.state = StatePlaying
		s.log.Info("game started", "session", s.id, "mode", s.mode.ID, "rise", cfg.Rise.Variant)

		if !s.spawn(s.bag.Next()) {
			s.gameOver(OverBlockOut)
		}
	})
}

// spawn makes kind the active piece at the spawn position and reports
// whether it fits. The preview queue is topped up here so observers never
// draw from the random source.
func (s *Session) spawn(kind Kind) bool {
	s.bag.Fill(s.cfg.PreviewCount)
	shape := CanonicalShape(kind)
	x := (s.board.PlayableWidth() - shape.Width()) / 2
	y := s.board.Height() - 1 - s.cfg.Board.SpawnMargin
	s.piece = Piece{Kind: kind, Shape: shape, X: x, Y: y}
	s.lock.Reset(s.piece.Bottom())
	s.softDist = 0
	return s.board.IsValid(shape, x, y)
}

// Pause halts all drivers at once.
func (s *Session) Pause(now time.Time) {
	s.do(func() {
		if s.state != StatePlaying {
			return
		}
		s.state = StatePaused
		s.pausedAt = now
		s.log.Debug("paused", "session", s.id)
	})
}

// Resume continues play. Time spent paused is skipped, not replayed.
func (s *Session) Resume(now time.Time) {
	s.do(func() {
		if s.state != StatePaused {
			return
		}
		if d := now.Sub(s.pausedAt); d > 0 {
			s.input.Shift(d)
		}
		s.rise.Rebase(now)
		s.clock = now
		s.state = StatePlaying
		s.log.Debug("resumed", "session", s.id)
	})
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Session) TogglePause(now time.Time) {
	if s.State() == StatePaused {
		s.Resume(now)
		return
	}
	s.Pause(now)
}

// Quit abandons the game without committing results.
func (s *Session) Quit() {
	s.do(func() {
		if s.state == StateOver || s.state == StateQuit {
			return
		}
		s.state = StateQuit
		s.log.Debug("quit", "session", s.id)
		s.doneOnce.Do(func() { close(s.done) })
	})
}

// tryMove shifts the active piece when the target fits.
func (s *Session) tryMove(dx, dy int) bool {
	if !s.board.IsValid(s.piece.Shape, s.piece.X+dx, s.piece.Y+dy) {
		return false
	}
	s.piece.X += dx
	s.piece.Y += dy
	return true
}

func (s *Session) grounded() bool {
	return !s.board.IsValid(s.piece.Shape, s.piece.X, s.piece.Y-1)
}

// bumpLock updates the lock delay after a successful move or rotation.
// Moves that lift a piece off the floor still count toward the cap.
func (s *Session) bumpLock() {
	if !s.lock.Touched() {
		return
	}
	s.lock.Bump()
	if !s.grounded() {
		s.lock.Lift()
		return
	}
	s.lock.Ground()
	if s.lock.ShouldLock() {
		s.lockPiece()
	}
}

func (s *Session) moveLocked(dir int) bool {
	if s.state != StatePlaying || (dir != -1 && dir != 1) {
		return false
	}
	if !s.tryMove(dir, 0) {
		return false
	}
	s.sound(SoundMove, 0, 0)
	s.bumpLock()
	return true
}

// Move shifts the piece one column. Blocked moves do nothing.
func (s *Session) Move(dir int) bool {
	var ok bool
	s.do(func() { ok = s.moveLocked(dir) })
	return ok
}

// MoveBegin moves once immediately and starts auto-repeat for dir.
func (s *Session) MoveBegin(dir int, now time.Time) bool {
	var ok bool
	s.do(func() {
		if s.state != StatePlaying || (dir != -1 && dir != 1) {
			return
		}
		ok = s.moveLocked(dir)
		s.input.Press(dir, now)
	})
	return ok
}

// MoveEnd stops auto-repeat for dir.
func (s *Session) MoveEnd(dir int) {
	s.do(func() {
		if s.input != nil {
			s.input.Release(dir)
		}
	})
}

// Rotate turns the piece clockwise, trying each kick offset in order.
func (s *Session) Rotate() bool {
	var ok bool
	s.do(func() {
		if s.state != StatePlaying {
			return
		}
		rotated := s.piece.Shape.Rotate()
		for _, k := range rotationKicks {
			x, y := s.piece.X+k.X, s.piece.Y+k.Y
			if s.board.IsValid(rotated, x, y) {
				s.piece.Shape = rotated
				s.piece.X, s.piece.Y = x, y
				ok = true
				break
			}
		}
		if !ok {
			return
		}
		s.sound(SoundRotate, 0, 0)
		s.bumpLock()
	})
	return ok
}

func (s *Session) softDropLocked() bool {
	if s.state != StatePlaying {
		return false
	}
	if !s.tryMove(0, -1) {
		s.lock.Ground()
		return false
	}
	s.softDist++
	s.score.AddDropBonus(s.cfg.Scoring.SoftDropPoints)
	s.lock.Fell(s.piece.Bottom())
	return true
}

// SoftDrop moves the piece down one row, awarding the soft-drop bonus.
func (s *Session) SoftDrop() bool {
	var ok bool
	s.do(func() { ok = s.softDropLocked() })
	return ok
}

// SoftDropBegin starts a held soft drop. The first step happens on the
// next input poll.
func (s *Session) SoftDropBegin(now time.Time) {
	s.do(func() {
		if s.state == StatePlaying {
			s.input.SoftDropBegin(now)
		}
	})
}

// SoftDropEnd releases a held soft drop.
func (s *Session) SoftDropEnd() {
	s.do(func() {
		if s.input != nil {
			s.input.SoftDropEnd()
		}
	})
}

// HardDrop drops the piece as far as it goes and locks it. It returns the
// number of rows descended.
func (s *Session) HardDrop() int {
	var dist int
	s.do(func() {
		if s.state != StatePlaying {
			return
		}
		for s.tryMove(0, -1) {
			dist++
		}
		s.score.AddDropBonus(dist * s.cfg.Scoring.HardDropPoints)
		s.lockPiece()
	})
	return dist
}

// Hold stores the active piece and brings in the held one, or the next
// piece from the bag when the slot is empty. Allowed once per lock. The
// swapped-in piece returns in its spawn orientation.
func (s *Session) Hold() bool {
	var ok bool
	s.do(func() {
		if s.state != StatePlaying || !s.canHold {
			return
		}
		cur := s.piece.Kind
		next := s.held
		if !s.hasHeld {
			next = s.bag.Next()
		}
		s.held = cur
		s.hasHeld = true
		s.canHold = false
		ok = true

		s.sound(SoundHold, 0, 0)
		s.haptic(HapticLight)
		if !s.spawn(next) {
			s.gameOver(OverBlockOut)
		}
	})
	return ok
}

// advance feeds elapsed time to the lock timer.
func (s *Session) advance(now time.Time) {
	dt := now.Sub(s.clock)
	s.clock = now
	s.lock.Advance(dt)
}

// Tick is the gravity driver: the piece falls one row when it can and is
// grounded otherwise.
func (s *Session) Tick(now time.Time) {
	s.do(func() {
		if s.state != StatePlaying {
			return
		}
		s.advance(now)
		if s.tryMove(0, -1) {
			s.lock.Fell(s.piece.Bottom())
		} else {
			s.lock.Ground()
		}
		if s.lock.ShouldLock() {
			s.lockPiece()
		}
	})
}

// ProcessInput is the high-rate driver: it applies due auto-repeat moves
// and soft-drop steps and fires the lock when the delay has run out.
func (s *Session) ProcessInput(now time.Time) {
	s.do(func() {
		if s.state != StatePlaying {
			return
		}
		s.advance(now)

		if dir := s.input.RepeatDue(now); dir != 0 {
			s.moveLocked(dir)
		}
		if s.state == StatePlaying && s.input.SoftDropDue(now) {
			s.softDropLocked()
		}
		if s.state != StatePlaying {
			return
		}

		if s.grounded() {
			s.lock.Ground()
		} else {
			s.lock.Lift()
		}
		if s.lock.ShouldLock() {
			s.lockPiece()
		}
	})
}

// RiseStep is the rise driver. When a rise is due the floor moves up one
// row; the game ends if the top row then holds blocks. An active piece
// caught by the new floor is pushed up one row if that fits.
func (s *Session) RiseStep(now time.Time) bool {
	var rose bool
	s.do(func() {
		if s.state != StatePlaying {
			return
		}
		if !s.rise.Step(now, s.score.Score()) {
			return
		}
		s.board.RiseUp(s.rows)
		s.rises++
		rose = true
		s.sound(SoundRise, 0, 0)

		if s.board.RowHasBlocks(s.board.Height() - 1) {
			s.gameOver(OverTopOut)
			return
		}
		if !s.board.IsValid(s.piece.Shape, s.piece.X, s.piece.Y) {
			if !s.tryMove(0, 1) {
				s.gameOver(OverTopOut)
			}
		}
	})
	return rose
}

// lockPiece commits the active piece, scores the lock and spawns the next
// piece.
func (s *Session) lockPiece() {
	res := s.board.Place(s.piece)
	ls := s.score.Lock(len(res.ClearedRows))
	s.lock.MarkLocked()
	s.lastPlace = res
	s.lastLock = ls
	s.locks++

	s.sound(SoundLand, 0, 0)
	switch n := ls.Cleared; {
	case n >= 4:
		s.sound(SoundClear, n, 0)
		s.haptic(HapticHeavy)
	case n > 0:
		s.sound(SoundClear, n, 0)
		s.haptic(HapticMedium)
	default:
		s.haptic(HapticLight)
	}
	if ls.Combo > 1 {
		s.sound(SoundCombo, 0, ls.Combo)
		s.haptic(HapticSuccess)
	}

	s.canHold = true
	if !s.spawn(s.bag.Next()) {
		s.gameOver(OverBlockOut)
	}
}

// gameOver ends the game and commits results exactly once.
func (s *Session) gameOver(reason OverReason) {
	if s.state == StateOver || s.state == StateQuit {
		return
	}
	s.state = StateOver
	s.reason = reason
	s.input.Reset()

	final := s.score.Score()
	if final > s.high {
		s.high = final
		if s.stats != nil {
			sink := s.stats
			s.pending = append(s.pending, func() { sink.PersistHighScore(final) })
		}
	}
	if s.stats != nil {
		sink := s.stats
		st := Stats{
			SessionID:    s.id,
			Mode:         s.mode.ID,
			GamesPlayed:  1,
			LinesCleared: s.score.Lines(),
			BestCombo:    s.score.BestCombo(),
			Score:        final,
		}
		s.pending = append(s.pending, func() { sink.PersistStats(st) })
	}
	s.sound(SoundGameOver, 0, 0)
	s.haptic(HapticFailure)

	s.log.Info("game over",
		"session", s.id,
		"reason", reason,
		"score", final,
		"lines", s.score.Lines(),
		"best_combo", s.score.BestCombo(),
		"rises", s.rises)
	s.doneOnce.Do(func() { close(s.done) })
}

// ghostRow returns the lowest row the active piece can reach.
func (s *Session) ghostRow() int {
	y := s.piece.Y
	for s.board.IsValid(s.piece.Shape, s.piece.X, y-1) {
		y--
	}
	return y
}

// GhostRow returns the anchor row the active piece would land on.
func (s *Session) GhostRow() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return 0
	}
	return s.ghostRow()
}
