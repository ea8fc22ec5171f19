package tower

// SoundEvent names a moment the sound collaborator may voice.
type SoundEvent int

const (
	SoundMove SoundEvent = iota
	SoundRotate
	SoundLand
	SoundClear
	SoundCombo
	SoundHold
	SoundRise
	SoundGameOver
)

func (e SoundEvent) String() string {
	switch e {
	case SoundMove:
		return "move"
	case SoundRotate:
		return "rotate"
	case SoundLand:
		return "land"
	case SoundClear:
		return "clear"
	case SoundCombo:
		return "combo"
	case SoundHold:
		return "hold"
	case SoundRise:
		return "rise"
	case SoundGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Sound is one sound notification. Lines is set for clears, Combo for combos.
type Sound struct {
	Event SoundEvent
	Lines int
	Combo int
}

// HapticClass is the strength class of a haptic notification.
type HapticClass int

const (
	HapticLight HapticClass = iota
	HapticMedium
	HapticHeavy
	HapticSuccess
	HapticFailure
)

func (h HapticClass) String() string {
	switch h {
	case HapticLight:
		return "light"
	case HapticMedium:
		return "medium"
	case HapticHeavy:
		return "heavy"
	case HapticSuccess:
		return "success"
	case HapticFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Feedback receives fire-and-forget sound and haptic notifications.
// Calls are made outside the session lock.
type Feedback interface {
	PlaySound(Sound)
	Haptic(HapticClass)
}

// Stats is the contribution of one finished game to cumulative stats.
type Stats struct {
	SessionID    string
	Mode         string
	GamesPlayed  int
	LinesCleared int
	BestCombo    int
	Score        int
}

// StatsSink persists results at game over. Calls are made outside the
// session lock and their outcome is not observed.
type StatsSink interface {
	PersistHighScore(score int)
	PersistStats(Stats)
}
