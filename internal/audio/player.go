package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/towerfall/internal/games/tower"
)

// SampleRate is the output rate handed to the speaker.
const SampleRate = beep.SampleRate(44100)

// maxVoices bounds how many effects may sound at once; extras are dropped.
const maxVoices = 8

// Player voices sound events through the system speaker. Until Init
// succeeds every call is a no-op, so a host without an audio device plays
// silently.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	log         *log.Logger
}

// NewPlayer creates a player at the given linear volume in [0, 1].
func NewPlayer(volume float64, logger *log.Logger) *Player {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
		log:    logger,
	}
}

var _ tower.Feedback = (*Player)(nil)

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences every playing effect. The speaker itself stays open.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Enabled reports whether sounds reach the speaker.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// PlaySound implements tower.Feedback.
func (p *Player) PlaySound(s tower.Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.volume <= 0 {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if p.mixer.Len() >= maxVoices {
		if p.log != nil {
			p.log.Debug("sound dropped", "event", s.Event)
		}
		return
	}
	p.mixer.Add(withVolume(Effect(s, SampleRate), p.volume))
}

// Haptic implements tower.Feedback. Terminals have no haptics.
func (p *Player) Haptic(tower.HapticClass) {}
