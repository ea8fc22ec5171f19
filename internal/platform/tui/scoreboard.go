package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/towerfall/internal/config"
	"github.com/vovakirdan/towerfall/internal/games/tower"
	"github.com/vovakirdan/towerfall/internal/storage"
)

// topScores is how many games the records table lists per mode.
const topScores = 20

var (
	recordsTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	recordsDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	recordsMode  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	recordsCard  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)
)

// ScoreboardKeyMap defines the key bindings for the records screen.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMode, k.NextMode, k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll")),
		NextMode: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("right/tab", "next mode")),
		PrevMode: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("left", "prev mode")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows one mode's records at a time: its floor rules, the
// cumulative stats card and the best games.
type ScoreboardModel struct {
	modes     []tower.Mode
	cursor    int
	store     *storage.Store
	scores    []storage.ScoreEntry
	stats     storage.ModeStats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel opens the records on startMode, or on the first mode
// when startMode is unknown. A nil store shows empty records.
func NewScoreboardModel(store *storage.Store, startMode string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		modes:  tower.Modes(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	for i, mode := range m.modes {
		if mode.ID == startMode {
			m.cursor = i
		}
	}
	m.help.Width = width
	m.table = newRecordsTable(height)
	m.load()
	return m
}

// newRecordsTable sizes the table to what is left under the stats card.
func newRecordsTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 9},
			{Title: "Lines", Width: 6},
			{Title: "Combo", Width: 6},
			{Title: "Pts/Line", Width: 9},
			{Title: "Played", Width: 13},
		}),
		table.WithFocused(true),
		table.WithHeight(max(height-14, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Mode returns the mode whose records are shown.
func (m ScoreboardModel) Mode() tower.Mode {
	if len(m.modes) == 0 {
		return tower.Mode{}
	}
	return m.modes[m.cursor]
}

// load reads the current mode's records. Storage errors leave them empty.
func (m *ScoreboardModel) load() {
	id := m.Mode().ID
	m.scores = nil
	m.stats = storage.ModeStats{Mode: id}
	if m.store != nil && id != "" {
		if scores, err := m.store.TopScores(id, topScores); err == nil {
			m.scores = scores
		}
		if st, err := m.store.Stats(id); err == nil {
			m.stats = st
		}
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Lines),
			fmt.Sprintf("%d", s.BestCombo),
			pointsPerLine(s.Score, s.Lines),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// step moves the mode cursor by d, wrapping around.
func (m *ScoreboardModel) step(d int) {
	if n := len(m.modes); n > 0 {
		m.cursor = (m.cursor + d + n) % n
		m.load()
	}
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = newRecordsTable(msg.Height)
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	mode := m.Mode()

	var b strings.Builder
	b.WriteString(centerText(recordsTitle.Render("R E C O R D S"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.modeStrip(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(recordsDim.Render(floorRules(mode)), m.width))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, recordsCard.Render(m.statsCard())))
	b.WriteString("\n")

	if len(m.scores) == 0 {
		b.WriteString("\n")
		b.WriteString(centerText(recordsDim.Render("No games finished in "+mode.Title+" yet."), m.width))
		b.WriteString("\n")
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.table.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(recordsDim.Render(m.help.View(m.keys)))
	return b.String()
}

// modeStrip lists every mode with the shown one highlighted.
func (m ScoreboardModel) modeStrip() string {
	parts := make([]string, len(m.modes))
	for i, mode := range m.modes {
		if i == m.cursor {
			parts[i] = recordsMode.Render("[" + mode.Title + "]")
		} else {
			parts[i] = recordsDim.Render(" " + mode.Title + " ")
		}
	}
	return strings.Join(parts, "  ")
}

// statsCard is the cumulative record for the shown mode.
func (m ScoreboardModel) statsCard() string {
	st := m.stats
	last := "never"
	if !st.LastPlayed.IsZero() {
		last = st.LastPlayed.Format("Jan 02 15:04")
	}
	avg := "-"
	if st.GamesPlayed > 0 {
		avg = fmt.Sprintf("%.1f", float64(st.LinesCleared)/float64(st.GamesPlayed))
	}
	return fmt.Sprintf("HIGH %-8d GAMES %-5d LINES %-6d\nBEST COMBO %-4d LINES/GAME %-6s LAST %s",
		st.HighScore, st.GamesPlayed, st.LinesCleared, st.BestCombo, avg, last)
}

// floorRules says how the floor behaves in a mode.
func floorRules(mode tower.Mode) string {
	var floor string
	switch mode.Rise {
	case config.RiseGap:
		floor = "floor rises along the gap"
	case config.RiseSparse:
		floor = "floor rises with scattered rows"
	default:
		return "the floor never rises"
	}
	if mode.Ramp {
		return floor + ", faster as the score climbs"
	}
	return floor + " at a steady pace"
}

func pointsPerLine(score, lines int) string {
	if lines == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", score/lines)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the records in the local terminal. It reports
// whether the player went back rather than quitting.
func RunScoreboard(store *storage.Store, startMode string, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, startMode, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
