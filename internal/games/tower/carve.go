package tower

import "github.com/vovakirdan/towerfall/internal/config"

// gapStep is one move of the gap tracer.
type gapStep struct {
	dx, dy int
}

// Step order matches the weight order in config.GapWeights.
var gapSteps = [5]gapStep{
	{0, 1},  // up
	{-1, 1}, // up-left
	{1, 1},  // up-right
	{-1, 0}, // left
	{1, 0},  // right
}

// NextStep draws the tracer's next move from column x on a play width of
// width columns. Near an edge the centering bias may override the draw and
// steer diagonally up toward the midline. Otherwise the weighted
// distribution is sampled with off-board directions folded into their
// mirror direction.
func NextStep(rng Rand, x, width int, w config.GapWeights) (dx, dy int) {
	if w.CenterBias > 0 && (x < w.EdgeMargin || x >= width-w.EdgeMargin) {
		if rng.Float64() < w.CenterBias {
			mid := (width - 1) / 2
			switch {
			case x < mid:
				return 1, 1
			case x > mid:
				return -1, 1
			default:
				return 0, 1
			}
		}
	}

	weights := [5]float64{w.Up, w.UpLeft, w.UpRight, w.Left, w.Right}
	if x <= 0 {
		weights[2] += weights[1]
		weights[4] += weights[3]
		weights[1], weights[3] = 0, 0
	}
	if x >= width-1 {
		weights[1] += weights[2]
		weights[3] += weights[4]
		weights[2], weights[4] = 0, 0
	}

	var total float64
	for _, v := range weights {
		total += v
	}
	if total <= 0 {
		return 0, 1
	}

	r := rng.Float64() * total
	for i, v := range weights {
		if r < v {
			return gapSteps[i].dx, gapSteps[i].dy
		}
		r -= v
	}
	return 0, 1
}

// wedgeSpan returns the left column and width of the wedge opening at wedge
// row i, counted from the wedge bottom.
func wedgeSpan(cfg config.TowerGenConfig, playable, i int) (left, width int) {
	width = cfg.WedgeTopWidth
	if cfg.WedgeDepth > 1 {
		width = cfg.WedgeBottomWidth + (cfg.WedgeTopWidth-cfg.WedgeBottomWidth)*i/(cfg.WedgeDepth-1)
	}
	width = clampInt(width, 0, playable)
	return (playable - width) / 2, width
}

// CarveTower fills the board up to the base height, opens the wedge in its
// top rows and traces the wandering gap from a random bottom column up to
// the row below the wedge, joining it to the wedge opening. It returns the
// column where the gap ends, or -1 when no gap was traced.
func CarveTower(b *Board, rng Rand, cfg config.TowerGenConfig) int {
	base := clampInt(cfg.BaseHeight, 0, b.Height())
	if base == 0 {
		return -1
	}
	pw := b.PlayableWidth()

	for y := 0; y < base; y++ {
		b.FillRow(y, true)
	}

	depth := clampInt(cfg.WedgeDepth, 0, base)
	for i := 0; i < depth; i++ {
		y := base - depth + i
		left, width := wedgeSpan(cfg, pw, i)
		for x := left; x < left+width; x++ {
			b.SetCell(x, y, false)
		}
	}

	top := base - depth - 1
	if top < 0 {
		return -1
	}

	x, y := rng.Intn(pw), 0
	b.SetCell(x, y, false)

	// Sideways drift is bounded so the walk always terminates.
	budget := 4*base + 2*pw
	for y < top {
		dx, dy := NextStep(rng, x, pw, cfg.Gap)
		if budget <= 0 {
			dx, dy = 0, 1
		}
		budget--
		x = clampInt(x+dx, 0, pw-1)
		// Diagonal steps also open the side cell so the path stays
		// edge-connected.
		b.SetCell(x, y, false)
		y += dy
		b.SetCell(x, y, false)
	}

	if depth > 0 {
		left, width := wedgeSpan(cfg, pw, 0)
		if width > 0 {
			for x < left {
				x++
				b.SetCell(x, y, false)
			}
			for x > left+width-1 {
				x--
				b.SetCell(x, y, false)
			}
		}
	}
	return x
}

// SparseRows fills each playable cell independently with FillProbability.
// Decorative columns are always filled and at least one playable cell is
// left open so the new row can never be complete.
type SparseRows struct {
	Rand            Rand
	FillProbability float64
}

// NextRow implements RowSource.
func (s SparseRows) NextRow(b *Board) []bool {
	pw := b.PlayableWidth()
	row := make([]bool, b.Circumference())
	full := true
	for x := range row {
		if x >= pw {
			row[x] = true
			continue
		}
		row[x] = s.Rand.Float64() < s.FillProbability
		if !row[x] {
			full = false
		}
	}
	if full && pw > 0 {
		row[s.Rand.Intn(pw)] = false
	}
	return row
}

// GapRows continues the wandering gap into each new row. The new row is
// solid except below the gap and, after a sideways step, the cell the
// tracer stepped into, so consecutive rows always share an edge. The
// tracer remembers where it ended; when that cell is no longer empty the
// leftmost empty cell of the bottom row is taken instead, and a full bottom
// row restarts the gap at the midline.
type GapRows struct {
	Rand    Rand
	Weights config.GapWeights

	cursor int
	traced bool
}

// NewGapRows returns a source with no remembered cursor.
func NewGapRows(rng Rand, weights config.GapWeights) *GapRows {
	return &GapRows{Rand: rng, Weights: weights}
}

// NextRow implements RowSource.
func (g *GapRows) NextRow(b *Board) []bool {
	pw := b.PlayableWidth()
	from := b.GapColumn(0)
	if g.traced && g.cursor < pw && !b.Occupied(g.cursor, 0) {
		from = g.cursor
	}
	if from < 0 {
		from = (pw - 1) / 2
	}
	dx, _ := NextStep(g.Rand, from, pw, g.Weights)
	to := clampInt(from+dx, 0, pw-1)
	g.cursor, g.traced = to, true

	row := make([]bool, b.Circumference())
	for x := range row {
		row[x] = x != from && x != to
	}
	return row
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
