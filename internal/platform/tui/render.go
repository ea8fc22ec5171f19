package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/towerfall/internal/core"
	"github.com/vovakirdan/towerfall/internal/games/tower"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorPurple:        lipgloss.NewStyle().Foreground(lipgloss.Color("93")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDarkGray:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// kindColors gives each tetromino its conventional color.
var kindColors = [tower.KindCount]core.Color{
	tower.KindI: core.ColorCyan,
	tower.KindO: core.ColorYellow,
	tower.KindT: core.ColorPurple,
	tower.KindS: core.ColorGreen,
	tower.KindZ: core.ColorRed,
	tower.KindJ: core.ColorBlue,
	tower.KindL: core.ColorOrange,
}

// Glyphs are two runes wide so cells come out roughly square.
const (
	glyphBlock = "██"
	glyphStack = "[]"
	glyphGhost = "░░"
	glyphEmpty = " ."
	cellW      = 2
	panelW     = 18
)

// Layout is where the board and side panel land on the screen.
type Layout struct {
	Board     core.Rect // Box around the playable columns
	FringeX   int       // First screen column of the decorative fringe
	Panel     core.Rect
	FirstRow  int // Lowest board row drawn
	RowsShown int
}

// ComputeLayout fits the board to a screen. Boards taller than the screen
// keep their top rows in view, where pieces spawn and fall.
func ComputeLayout(snap tower.Snapshot, screenW, screenH int) Layout {
	rows := snap.Height
	if avail := screenH - 3; rows > avail {
		rows = max(avail, 1)
	}
	boardW := snap.PlayableWidth*cellW + 2
	fringeW := snap.DecorativeWidth * cellW
	total := boardW + fringeW + 2 + panelW

	left := max((screenW-total)/2, 0)
	board := core.NewRect(left, 1, boardW, rows+2)
	fringeX := board.Right()
	return Layout{
		Board:     board,
		FringeX:   fringeX,
		Panel:     core.NewRect(fringeX+fringeW+2, 1, panelW, rows+2),
		FirstRow:  snap.Height - rows,
		RowsShown: rows,
	}
}

// screenY maps a board row to a screen row, or -1 when it is not shown.
func (l Layout) screenY(row int) int {
	if row < l.FirstRow || row >= l.FirstRow+l.RowsShown {
		return -1
	}
	return l.Board.Y + 1 + (l.FirstRow + l.RowsShown - 1 - row)
}

// DrawGame renders a snapshot. flash is a transient line shown under the
// score, such as the last lock's award.
func DrawGame(s *core.Screen, snap tower.Snapshot, flash string) {
	s.Clear()
	if snap.Height == 0 {
		s.DrawTextCentered(0, s.Width(), s.Height()/2, "starting...", core.ColorGray)
		return
	}

	l := ComputeLayout(snap, s.Width(), s.Height())
	s.DrawTextCentered(0, s.Width(), 0, "T O W E R F A L L", core.ColorBrightCyan)
	s.DrawBox(l.Board, core.ColorGray)

	drawCells(s, snap, l)
	if snap.HasPiece {
		drawPiece(s, snap, l)
	}
	drawPanel(s, snap, l, flash)

	switch {
	case snap.State == tower.StatePaused:
		drawOverlay(s, l, core.ColorBrightYellow, "PAUSED", "p to resume")
	case snap.Over:
		drawOverlay(s, l, core.ColorBrightRed, "GAME OVER", overReasonText(snap.Reason), "r restart  esc menu")
	}
}

func drawCells(s *core.Screen, snap tower.Snapshot, l Layout) {
	for row := l.FirstRow; row < snap.Height; row++ {
		y := l.screenY(row)
		for col := 0; col < snap.PlayableWidth; col++ {
			x := l.Board.X + 1 + col*cellW
			if snap.Cells[row][col] {
				s.DrawText(x, y, glyphStack, core.ColorWhite)
			} else {
				s.DrawText(x, y, glyphEmpty, core.ColorDarkGray)
			}
		}
		for d := 0; d < snap.DecorativeWidth; d++ {
			if snap.Cells[row][snap.PlayableWidth+d] {
				s.DrawText(l.FringeX+d*cellW, y, glyphStack, core.ColorDarkGray)
			}
		}
	}
}

func drawPiece(s *core.Screen, snap tower.Snapshot, l Layout) {
	color := kindColors[snap.Piece.Kind]
	for r, line := range snap.Piece.Shape {
		for c, filled := range line {
			if !filled {
				continue
			}
			col := snap.Piece.X + c
			if y := l.screenY(snap.GhostY - r); y >= 0 && snap.GhostY != snap.Piece.Y {
				s.DrawText(l.Board.X+1+col*cellW, y, glyphGhost, core.ColorGray)
			}
		}
	}
	for r, line := range snap.Piece.Shape {
		for c, filled := range line {
			if !filled {
				continue
			}
			col := snap.Piece.X + c
			if y := l.screenY(snap.Piece.Y - r); y >= 0 {
				s.DrawText(l.Board.X+1+col*cellW, y, glyphBlock, color)
			}
		}
	}
}

// drawKind draws a small preview of a piece in spawn orientation.
func drawKind(s *core.Screen, k tower.Kind, x, y int, color core.Color) {
	for r, line := range tower.CanonicalShape(k) {
		for c, filled := range line {
			if filled {
				s.DrawText(x+c*cellW, y+r, glyphBlock, color)
			}
		}
	}
}

func drawPanel(s *core.Screen, snap tower.Snapshot, l Layout, flash string) {
	x, y := l.Panel.X, l.Panel.Y

	s.DrawText(x, y, "HOLD", core.ColorGray)
	if snap.HasHeld {
		color := kindColors[snap.Held]
		if !snap.CanHold {
			color = core.ColorDarkGray
		}
		drawKind(s, snap.Held, x, y+1, color)
	}
	y += 4

	s.DrawText(x, y, "NEXT", core.ColorGray)
	y++
	for _, k := range snap.Next {
		if y+2 >= l.Panel.Bottom() {
			break
		}
		drawKind(s, k, x, y, kindColors[k])
		y += 3
	}
	y++

	stats := []struct {
		label string
		value string
	}{
		{"SCORE", fmt.Sprintf("%d", snap.Score)},
		{"HIGH", fmt.Sprintf("%d", snap.HighScore)},
		{"LINES", fmt.Sprintf("%d", snap.Lines)},
		{"COMBO", fmt.Sprintf("%d (best %d)", snap.Combo, snap.BestCombo)},
	}
	for _, st := range stats {
		s.DrawText(x, y, fmt.Sprintf("%-6s%s", st.label, st.value), core.ColorWhite)
		y++
	}
	if flash != "" {
		s.DrawText(x, y, flash, core.ColorBrightGreen)
	}
	y++

	if snap.RiseMultiplier > 0 {
		s.DrawText(x, y, fmt.Sprintf("RISE  x%.1f", snap.RiseMultiplier), core.ColorOrange)
		y++
		s.DrawText(x, y, progressBar(snap.RiseProgress, panelW-2), core.ColorOrange)
		y++
	}
	if snap.Lock == tower.LockGrounded {
		s.DrawText(x, y, fmt.Sprintf("LOCK  %d", snap.LockResets), core.ColorGray)
	}
}

func progressBar(p float64, width int) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func drawOverlay(s *core.Screen, l Layout, color core.Color, lines ...string) {
	w := 0
	for _, line := range lines {
		w = max(w, len([]rune(line)))
	}
	box := core.NewRect(0, 0, w+4, len(lines)+2)
	box.X = l.Board.X + (l.Board.W-box.W)/2
	box.Y = l.Board.Y + (l.Board.H-box.H)/2
	s.FillRect(box, ' ', core.ColorDefault)
	s.DrawBox(box, color)
	for i, line := range lines {
		s.DrawTextCentered(box.X, box.W, box.Y+1+i, line, color)
	}
}

func overReasonText(r tower.OverReason) string {
	switch r {
	case tower.OverBlockOut:
		return "no room to spawn"
	case tower.OverTopOut:
		return "the tower reached the top"
	default:
		return ""
	}
}
