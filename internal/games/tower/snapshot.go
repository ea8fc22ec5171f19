package tower

// PieceView is a read-only copy of a piece on the board.
type PieceView struct {
	Kind  Kind
	Shape Shape
	X, Y  int
}

// Snapshot captures everything a renderer or test needs about a session.
type Snapshot struct {
	ID     string
	Mode   string
	State  State
	Over   bool
	Reason OverReason

	PlayableWidth   int
	DecorativeWidth int
	Height          int
	Cells           [][]bool // [row][col], row 0 at the bottom

	Piece    PieceView
	HasPiece bool
	GhostY   int

	Held    Kind
	HasHeld bool
	CanHold bool
	Next    []Kind

	Score     int
	HighScore int
	Combo     int
	BestCombo int
	Lines     int

	Locks     int
	LastLock  LockScore
	LastPlace PlaceResult

	Rises          int
	RiseMultiplier float64
	RiseProgress   float64

	Lock       LockState
	LockResets int
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:              s.id,
		Mode:            s.mode.ID,
		State:           s.state,
		Over:            s.state == StateOver,
		Reason:          s.reason,
		PlayableWidth:   s.cfg.Board.PlayableWidth,
		DecorativeWidth: s.cfg.Board.DecorativeWidth,
		Height:          s.cfg.Board.Height,
		Held:            s.held,
		HasHeld:         s.hasHeld,
		CanHold:         s.canHold,
		HighScore:       s.high,
		Locks:           s.locks,
		LastLock:        s.lastLock,
		Rises:           s.rises,
	}
	if s.board == nil {
		return snap
	}

	snap.Cells = s.board.Cells()
	snap.HasPiece = s.state == StatePlaying || s.state == StatePaused
	snap.Piece = PieceView{Kind: s.piece.Kind, Shape: s.piece.Shape.Clone(), X: s.piece.X, Y: s.piece.Y}
	snap.GhostY = s.ghostRow()
	snap.Next = s.bag.Peek(s.cfg.PreviewCount)

	snap.Score = s.score.Score()
	snap.Combo = s.score.Combo()
	snap.BestCombo = s.score.BestCombo()
	snap.Lines = s.score.Lines()
	if snap.Score > snap.HighScore {
		snap.HighScore = snap.Score
	}

	snap.LastPlace = PlaceResult{
		ClearedRows: append([]int(nil), s.lastPlace.ClearedRows...),
		Moves:       append([]CellMove(nil), s.lastPlace.Moves...),
	}
	snap.RiseMultiplier = s.rise.Multiplier(snap.Score)
	snap.RiseProgress = s.rise.Progress()
	snap.Lock = s.lock.State()
	snap.LockResets = s.lock.Resets()
	return snap
}
