package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/towerfall/internal/config"
	"github.com/vovakirdan/towerfall/internal/core"
	"github.com/vovakirdan/towerfall/internal/games/tower"
	"github.com/vovakirdan/towerfall/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runeKey("a"), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotate},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionSoftDrop},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionHardDrop},
		{runeKey("c"), core.ActionHold},
		{runeKey("p"), core.ActionPause},
		{runeKey("r"), core.ActionRestart},
		{tea.KeyMsg{Type: tea.KeyEscape}, core.ActionBack},
		{runeKey("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runeKey("z"), core.ActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKey(tt.msg); got != tt.want {
			t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEscape}, MenuActionBack},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func testSnapshot() tower.Snapshot {
	const pw, dw, h = 4, 2, 6
	cells := make([][]bool, h)
	for r := range cells {
		cells[r] = make([]bool, pw+dw)
	}
	cells[0][0], cells[0][1], cells[0][4] = true, true, true

	return tower.Snapshot{
		State:           tower.StatePlaying,
		PlayableWidth:   pw,
		DecorativeWidth: dw,
		Height:          h,
		Cells:           cells,
		Piece:           tower.PieceView{Kind: tower.KindO, Shape: tower.CanonicalShape(tower.KindO), X: 1, Y: 5},
		HasPiece:        true,
		GhostY:          2,
		Next:            []tower.Kind{tower.KindI},
		Score:           123,
		HighScore:       456,
		RiseMultiplier:  1.5,
		RiseProgress:    0.5,
	}
}

func TestComputeLayoutKeepsTopRows(t *testing.T) {
	snap := tower.Snapshot{PlayableWidth: 10, DecorativeWidth: 6, Height: 24}

	full := ComputeLayout(snap, 120, 40)
	if full.FirstRow != 0 || full.RowsShown != 24 {
		t.Errorf("tall screen: FirstRow=%d RowsShown=%d, want 0 and 24", full.FirstRow, full.RowsShown)
	}

	short := ComputeLayout(snap, 80, 20)
	if short.RowsShown != 17 || short.FirstRow != 7 {
		t.Errorf("short screen: FirstRow=%d RowsShown=%d, want 7 and 17", short.FirstRow, short.RowsShown)
	}
	if y := short.screenY(23); y != short.Board.Y+1 {
		t.Errorf("top row drawn at %d, want %d", y, short.Board.Y+1)
	}
	if y := short.screenY(6); y != -1 {
		t.Errorf("hidden row drawn at %d, want -1", y)
	}
}

func TestDrawGame(t *testing.T) {
	snap := testSnapshot()
	s := core.NewScreen(80, 24)
	DrawGame(s, snap, "+304  2L")

	out := s.String()
	for _, want := range []string{"HOLD", "NEXT", "SCORE 123", "HIGH  456", "+304  2L", "RISE  x1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q", want)
		}
	}

	l := ComputeLayout(snap, 80, 24)
	pieceX := l.Board.X + 1 + snap.Piece.X*cellW
	if c := s.GetCell(pieceX, l.screenY(5)); c.Rune != '█' || c.Color != core.ColorYellow {
		t.Errorf("piece cell = %q %v, want yellow block", c.Rune, c.Color)
	}
	if c := s.GetCell(pieceX, l.screenY(2)); c.Rune != '░' {
		t.Errorf("ghost cell = %q, want shade", c.Rune)
	}
	if c := s.GetCell(l.Board.X+1, l.screenY(0)); c.Rune != '[' {
		t.Errorf("stack cell = %q, want '['", c.Rune)
	}
	if c := s.GetCell(l.FringeX, l.screenY(0)); c.Rune != '[' || c.Color != core.ColorDarkGray {
		t.Errorf("fringe cell = %q %v, want dimmed stack", c.Rune, c.Color)
	}
}

func TestDrawGameOverlays(t *testing.T) {
	snap := testSnapshot()
	snap.State = tower.StatePaused
	s := core.NewScreen(80, 24)
	DrawGame(s, snap, "")
	if !strings.Contains(s.String(), "PAUSED") {
		t.Error("paused overlay missing")
	}

	snap.State = tower.StateOver
	snap.Over = true
	snap.Reason = tower.OverTopOut
	DrawGame(s, snap, "")
	out := s.String()
	if !strings.Contains(out, "GAME OVER") || !strings.Contains(out, "reached the top") {
		t.Error("game over overlay missing")
	}
}

func TestLockFlash(t *testing.T) {
	tests := []struct {
		ls   tower.LockScore
		want string
	}{
		{tower.LockScore{}, ""},
		{tower.LockScore{Delta: 4}, "+4"},
		{tower.LockScore{Delta: 304, Cleared: 2, Multiplier: 1}, "+304  2L"},
		{tower.LockScore{Delta: 750, Cleared: 2, Multiplier: 2.5}, "+750  2L x2.5"},
	}
	for _, tt := range tests {
		if got := lockFlash(tt.ls); got != tt.want {
			t.Errorf("lockFlash(%+v) = %q, want %q", tt.ls, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(0.5, 4); got != "[==  ]" {
		t.Errorf("progressBar(0.5) = %q", got)
	}
	if got := progressBar(2, 4); got != "[====]" {
		t.Errorf("progressBar(2) = %q", got)
	}
}

func newTestGame(t *testing.T) GameModel {
	t.Helper()
	mode, err := tower.LookupMode("calm")
	if err != nil {
		t.Fatal(err)
	}
	m := NewGameModel(GameOptions{
		Config:  config.DefaultTowerConfig(),
		Mode:    mode,
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 30, Seed: 7},
		Logger:  log.New(io.Discard),
	})
	m.Init()
	t.Cleanup(m.stop)
	return m
}

func TestGameModelPauseAndBack(t *testing.T) {
	m := newTestGame(t)
	now := time.Now()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEscape}, now)
	m = next.(GameModel)
	if m.BackToMenu() {
		t.Fatal("esc during play should not leave the game")
	}

	next, _ = m.handleKey(runeKey("p"), now)
	m = next.(GameModel)
	if st := m.Session().State(); st != tower.StatePaused {
		t.Fatalf("State = %v after p, want paused", st)
	}

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEscape}, now)
	m = next.(GameModel)
	if !m.BackToMenu() {
		t.Error("esc while paused should return to the menu")
	}
	if st := m.Session().State(); st != tower.StateQuit {
		t.Errorf("State = %v after leaving, want quit", st)
	}
}

func TestGameModelQuit(t *testing.T) {
	m := newTestGame(t)
	next, cmd := m.handleKey(runeKey("q"), time.Now())
	m = next.(GameModel)
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if !m.IsQuitting() {
		t.Error("IsQuitting() = false after q")
	}
	if m.View() != "" {
		t.Error("View() should be empty once quitting")
	}
}

func TestGameModelHoldWindow(t *testing.T) {
	m := newTestGame(t)
	now := time.Now()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyLeft}, now)
	m = next.(GameModel)
	if m.moveDir != -1 {
		t.Fatalf("moveDir = %d after left, want -1", m.moveDir)
	}
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown}, now)
	m = next.(GameModel)
	if !m.softHeld {
		t.Fatal("soft drop not held after down")
	}

	// A repeat inside the window keeps the key held.
	next, _ = m.handleTick(now.Add(holdWindow / 2))
	m = next.(GameModel)
	if m.moveDir != -1 || !m.softHeld {
		t.Error("keys released inside the hold window")
	}

	next, _ = m.handleTick(now.Add(2 * holdWindow))
	m = next.(GameModel)
	if m.moveDir != 0 || m.softHeld {
		t.Error("keys still held after the hold window")
	}
}

func TestGameModelIgnoresStaleTicks(t *testing.T) {
	m := newTestGame(t)
	_, cmd := m.Update(TickMsg{At: time.Now(), Session: "someone-else"})
	if cmd != nil {
		t.Error("stale tick scheduled another frame")
	}
	_, cmd = m.Update(TickMsg{At: time.Now(), Session: m.Session().ID()})
	if cmd == nil {
		t.Error("current tick did not schedule the next frame")
	}
}

func TestGameModelView(t *testing.T) {
	m := newTestGame(t)
	view := m.View()
	if !strings.Contains(view, "T O W E R F A L L") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "hard drop") {
		t.Error("view missing help line")
	}
}

func TestMenuModel(t *testing.T) {
	m := NewMenuModel(nil, 80, 24)
	if got := m.items[m.cursor].Mode.ID; got != tower.DefaultModeID {
		t.Errorf("initial cursor on %q, want %q", got, tower.DefaultModeID)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(MenuModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if cmd == nil || m.Selected() == nil {
		t.Fatal("enter did not select a mode")
	}
	if m.Selected().Mode.ID == tower.DefaultModeID {
		t.Error("selection ignored the cursor move")
	}

	sb := NewMenuModel(nil, 80, 24)
	next, _ = sb.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsScoreboard() {
		t.Error("tab did not request the scoreboard")
	}
}

func TestSessionModelFlow(t *testing.T) {
	m := NewSessionModel(GameOptions{
		Config:  config.DefaultTowerConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 30, Seed: 3},
		Logger:  log.New(io.Discard),
	})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SessionModel)
	if m.screen != screenGame || m.game == nil {
		t.Fatal("enter did not start a game")
	}
	t.Cleanup(m.game.stop)

	next, _ = m.Update(runeKey("p"))
	m = next.(SessionModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(SessionModel)
	if m.screen != screenMenu {
		t.Fatal("esc while paused did not return to the menu")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(SessionModel)
	if m.screen != screenScores {
		t.Fatal("tab did not open the scoreboard")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(SessionModel)
	if m.screen != screenMenu {
		t.Error("esc did not close the scoreboard")
	}
}

func TestScoreboardRecords(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	for _, e := range []storage.ScoreEntry{
		{Mode: "classic", Score: 1200, Lines: 12, BestCombo: 3},
		{Mode: "classic", Score: 400},
	} {
		if _, err := store.RecordGame(e); err != nil {
			t.Fatalf("RecordGame() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, "classic", 100, 40)
	if id := m.Mode().ID; id != "classic" {
		t.Fatalf("Mode() = %q, want classic", id)
	}
	view := m.View()
	for _, want := range []string{"[Classic]", "HIGH 1200", "GAMES 2", "LINES/GAME 6.0", "scattered rows"} {
		if !strings.Contains(view, want) {
			t.Errorf("classic records missing %q", want)
		}
	}

	steps := []struct {
		msg   tea.KeyMsg
		want  string
		empty bool
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, "rising", true},
		{tea.KeyMsg{Type: tea.KeyTab}, "calm", true},
		{tea.KeyMsg{Type: tea.KeyLeft}, "rising", true},
		{runeKey("h"), "classic", false},
	}
	for _, st := range steps {
		next, _ := m.Update(st.msg)
		m = next.(ScoreboardModel)
		if id := m.Mode().ID; id != st.want {
			t.Fatalf("after %q Mode() = %q, want %q", st.msg.String(), id, st.want)
		}
		if got := strings.Contains(m.View(), "No games finished"); got != st.empty {
			t.Errorf("%s records empty = %v, want %v", st.want, got, st.empty)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, "unknown", 80, 24)
	if id := m.Mode().ID; id != tower.Modes()[0].ID {
		t.Errorf("Mode() = %q, want the first mode", id)
	}
	if !strings.Contains(m.View(), "never") {
		t.Error("empty stats card should say the mode was never played")
	}

	tests := []struct {
		mode tower.Mode
		want string
	}{
		{tower.Mode{Rise: config.RiseGap, Ramp: true}, "floor rises along the gap, faster as the score climbs"},
		{tower.Mode{Rise: config.RiseSparse}, "floor rises with scattered rows at a steady pace"},
		{tower.Mode{Rise: config.RiseOff}, "the floor never rises"},
	}
	for _, tt := range tests {
		if got := floorRules(tt.mode); got != tt.want {
			t.Errorf("floorRules(%+v) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
