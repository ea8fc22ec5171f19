package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/towerfall/internal/config"
	"github.com/vovakirdan/towerfall/internal/core"
	"github.com/vovakirdan/towerfall/internal/feedback"
	"github.com/vovakirdan/towerfall/internal/games/tower"
	"github.com/vovakirdan/towerfall/internal/metrics"
	"github.com/vovakirdan/towerfall/internal/storage"
)

// Terminals report key presses but never releases. A held key is treated
// as released once no repeat has arrived for holdWindow. It is shorter
// than the auto-shift delay, so a single tap never auto-repeats.
const holdWindow = 120 * time.Millisecond

// flashFor is how long a lock's award stays on screen.
const flashFor = time.Second

// GameOptions configures a hosted game.
type GameOptions struct {
	Context context.Context // Bounds the drivers; defaults to Background
	Config  config.TowerConfig
	Mode    tower.Mode
	Runtime core.RuntimeConfig // Seed 0 picks a time-based seed per game
	Store   *storage.Store
	Sound   tower.Feedback // Optional, e.g. an audio player
	Metrics *metrics.Metrics
	Logger  *log.Logger
}

// GameModel is the Bubble Tea model for one tower game. The session runs
// on its own drivers; the model forwards commands and redraws.
type GameModel struct {
	opts    GameOptions
	session *tower.Session
	runner  *tower.Runner
	screen  *core.Screen
	keys    *KeyMapper
	help    help.Model
	seed    int64

	moveDir   int
	moveUntil time.Time
	softHeld  bool
	softUntil time.Time

	seenLocks  int
	flash      string
	flashUntil time.Time

	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model and its first session. The session starts
// in Init.
func NewGameModel(opts GameOptions) GameModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	rt := &opts.Runtime
	if rt.ScreenW <= 0 || rt.ScreenH <= 0 {
		def := core.DefaultConfig()
		rt.ScreenW, rt.ScreenH = def.ScreenW, def.ScreenH
	}
	seed := rt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	h := help.New()
	h.Width = rt.ScreenW

	m := GameModel{
		opts:   opts,
		screen: core.NewScreen(rt.ScreenW, rt.ScreenH-1),
		keys:   NewKeyMapper(),
		help:   h,
		seed:   seed,
	}
	m.session, m.runner = m.newSession()
	return m
}

// newSession wires a session to storage, sound, haptics and metrics.
func (m GameModel) newSession() (*tower.Session, *tower.Runner) {
	mode := m.opts.Mode
	logger := m.opts.Logger

	high := 0
	if m.opts.Store != nil {
		if h, err := m.opts.Store.HighScore(mode.ID); err != nil {
			logger.Warn("could not load high score", "mode", mode.ID, "err", err)
		} else {
			high = h
		}
	}

	fb := []tower.Feedback{m.opts.Sound, feedback.LogHaptics{Log: logger}}
	sinks := []tower.StatsSink{storage.NewRecorder(m.opts.Store, mode.ID, logger)}
	if m.opts.Metrics != nil {
		obs := m.opts.Metrics.Observer(mode.ID)
		fb = append(fb, obs)
		sinks = append(sinks, obs)
	}

	s := tower.NewSession(tower.SessionOptions{
		Config:    m.opts.Config,
		Mode:      mode,
		Seed:      m.seed,
		HighScore: high,
		Feedback:  feedback.NewMux(fb...),
		Stats:     feedback.NewSinks(sinks...),
		Logger:    logger,
	})
	return s, tower.NewRunner(s)
}

// Init starts the session and the redraw loop.
func (m GameModel) Init() tea.Cmd {
	m.session.Start(time.Now())
	m.runner.Start(m.opts.Context)
	m.opts.Logger.Info("game started", "mode", m.opts.Mode.ID, "session", m.session.ID(), "seed", m.seed)
	return tickCmd(m.opts.Runtime.TickRate, m.session.ID())
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Session != m.session.ID() {
			return m, nil
		}
		return m.handleTick(msg.At)
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	s := m.session
	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.stop()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if st := s.State(); st == tower.StateOver || st == tower.StatePaused {
			m.stop()
			m.backToMenu = true
			return m, tea.Quit
		}

	case core.ActionLeft, core.ActionRight:
		dir := action.Direction()
		if m.moveDir != dir {
			if m.moveDir != 0 {
				s.MoveEnd(m.moveDir)
			}
			s.MoveBegin(dir, now)
			m.moveDir = dir
		}
		m.moveUntil = now.Add(holdWindow)

	case core.ActionSoftDrop:
		if !m.softHeld {
			s.SoftDropBegin(now)
			m.softHeld = true
		}
		m.softUntil = now.Add(holdWindow)

	case core.ActionRotate:
		s.Rotate()

	case core.ActionHardDrop:
		s.HardDrop()

	case core.ActionHold:
		s.Hold()

	case core.ActionPause:
		s.TogglePause(now)

	case core.ActionRestart:
		if s.State() == tower.StateOver {
			return m.restart()
		}
	}
	return m, nil
}

// handleTick releases expired holds, refreshes the award flash and
// schedules the next redraw.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.moveDir != 0 && now.After(m.moveUntil) {
		m.session.MoveEnd(m.moveDir)
		m.moveDir = 0
	}
	if m.softHeld && now.After(m.softUntil) {
		m.session.SoftDropEnd()
		m.softHeld = false
	}

	snap := m.session.Snapshot()
	if snap.Locks != m.seenLocks {
		m.seenLocks = snap.Locks
		m.flash = lockFlash(snap.LastLock)
		m.flashUntil = now.Add(flashFor)
	}
	if m.flash != "" && now.After(m.flashUntil) {
		m.flash = ""
	}

	if m.quitting || m.backToMenu {
		return m, nil
	}
	return m, tickCmd(m.opts.Runtime.TickRate, m.session.ID())
}

// lockFlash describes a lock's award, or nothing for a plain lock.
func lockFlash(ls tower.LockScore) string {
	if ls.Delta == 0 {
		return ""
	}
	if ls.Cleared == 0 {
		return fmt.Sprintf("+%d", ls.Delta)
	}
	if ls.Multiplier > 1 {
		return fmt.Sprintf("+%d  %dL x%.1f", ls.Delta, ls.Cleared, ls.Multiplier)
	}
	return fmt.Sprintf("+%d  %dL", ls.Delta, ls.Cleared)
}

// restart replaces a finished session with a fresh one.
func (m GameModel) restart() (tea.Model, tea.Cmd) {
	m.runner.Stop()
	if m.opts.Runtime.Seed != 0 {
		m.seed++
	} else {
		m.seed = time.Now().UnixNano()
	}
	m.session, m.runner = m.newSession()
	m.moveDir, m.softHeld = 0, false
	m.seenLocks, m.flash = 0, ""

	m.session.Start(time.Now())
	m.runner.Start(m.opts.Context)
	m.opts.Logger.Info("game restarted", "mode", m.opts.Mode.ID, "session", m.session.ID(), "seed", m.seed)
	return m, tickCmd(m.opts.Runtime.TickRate, m.session.ID())
}

// stop abandons an unfinished game and halts its drivers.
func (m GameModel) stop() {
	m.session.Quit()
	m.runner.Stop()
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	DrawGame(m.screen, m.session.Snapshot(), m.flash)

	dir := filepath.Join(os.Getenv("HOME"), ".towerfall", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("screenshot not saved", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.opts.Mode.ID, timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("screenshot not saved", "err", err)
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	DrawGame(m.screen, m.session.Snapshot(), m.flash)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys.Keys())
}

// Session exposes the running session.
func (m GameModel) Session() *tower.Session {
	return m.session
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one game in the local terminal. It reports whether the player
// asked to return to the menu.
func Run(opts GameOptions) (backToMenu bool, err error) {
	model := NewGameModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if gm, ok := final.(GameModel); ok {
		gm.stop()
		return gm.BackToMenu(), err
	}
	model.stop()
	return false, err
}
