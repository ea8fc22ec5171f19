package tower

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/towerfall/internal/config"
)

func TestNextStepBoundaryFolding(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		x       int
		weights config.GapWeights
		dx, dy  int
	}{
		{"up-left folds at left edge", 0, config.GapWeights{UpLeft: 1}, 1, 1},
		{"left folds at left edge", 0, config.GapWeights{Left: 1}, 1, 0},
		{"up-right folds at right edge", 9, config.GapWeights{UpRight: 1}, -1, 1},
		{"right folds at right edge", 9, config.GapWeights{Right: 1}, -1, 0},
		{"interior keeps direction", 5, config.GapWeights{Left: 1}, -1, 0},
		{"zero weights go up", 5, config.GapWeights{}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				dx, dy := NextStep(rng, tt.x, 10, tt.weights)
				if dx != tt.dx || dy != tt.dy {
					t.Fatalf("NextStep(x=%d) = (%d,%d), want (%d,%d)", tt.x, dx, dy, tt.dx, tt.dy)
				}
			}
		})
	}
}

func TestNextStepCenterBias(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := config.GapWeights{Left: 1, CenterBias: 1, EdgeMargin: 2}

	if dx, dy := NextStep(rng, 0, 10, w); dx != 1 || dy != 1 {
		t.Errorf("NextStep(left edge) = (%d,%d), want (1,1)", dx, dy)
	}
	if dx, dy := NextStep(rng, 9, 10, w); dx != -1 || dy != 1 {
		t.Errorf("NextStep(right edge) = (%d,%d), want (-1,1)", dx, dy)
	}
	// Outside the margin the bias does not apply.
	if dx, dy := NextStep(rng, 5, 10, w); dx != -1 || dy != 0 {
		t.Errorf("NextStep(interior) = (%d,%d), want (-1,0)", dx, dy)
	}
}

func TestNextStepStaysOnBoard(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	w := config.DefaultTowerConfig().Tower.Gap
	w.CenterBias = 0

	for x := 0; x < 10; x++ {
		for i := 0; i < 500; i++ {
			dx, _ := NextStep(rng, x, 10, w)
			if nx := x + dx; nx < 0 || nx >= 10 {
				t.Fatalf("NextStep(x=%d) stepped off board to %d", x, nx)
			}
		}
	}
}

// reachable reports whether an edge-connected path of empty playable cells
// leads from row 0 to row target.
func reachable(b *Board, target int) bool {
	type cell struct{ x, y int }
	var queue []cell
	seen := make(map[cell]bool)
	for x := 0; x < b.PlayableWidth(); x++ {
		if !b.Occupied(x, 0) {
			c := cell{x, 0}
			queue = append(queue, c)
			seen[c] = true
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c.y == target {
			return true
		}
		for _, d := range []cell{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
			n := cell{c.x + d.x, c.y + d.y}
			if n.x < 0 || n.x >= b.PlayableWidth() || n.y < 0 || n.y >= b.Height() {
				continue
			}
			if seen[n] || b.Occupied(n.x, n.y) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return false
}

func TestCarveTower(t *testing.T) {
	cfg := config.DefaultTowerConfig()
	tc := cfg.Tower

	for seed := int64(0); seed < 25; seed++ {
		b := NewBoard(cfg.Board.PlayableWidth, cfg.Board.DecorativeWidth, cfg.Board.Height)
		CarveTower(b, rand.New(rand.NewSource(seed)), tc)

		for y := tc.BaseHeight; y < b.Height(); y++ {
			if b.RowHasBlocks(y) {
				t.Fatalf("seed %d: row %d above the base should be empty", seed, y)
			}
		}
		for y := 0; y < tc.BaseHeight; y++ {
			for x := b.PlayableWidth(); x < b.Circumference(); x++ {
				if !b.Occupied(x, y) {
					t.Fatalf("seed %d: decorative cell (%d,%d) should stay filled", seed, x, y)
				}
			}
			if b.RowFull(y) {
				t.Fatalf("seed %d: row %d of the tower is full", seed, y)
			}
		}

		// Top wedge row is exactly the top width, centered.
		top := tc.BaseHeight - 1
		left := (b.PlayableWidth() - tc.WedgeTopWidth) / 2
		for x := 0; x < b.PlayableWidth(); x++ {
			want := x < left || x >= left+tc.WedgeTopWidth
			if got := b.Occupied(x, top); got != want {
				t.Errorf("seed %d: wedge top Occupied(%d,%d) = %v, want %v", seed, x, top, got, want)
			}
		}

		if !reachable(b, tc.BaseHeight) {
			t.Errorf("seed %d: no path from the bottom row into the wedge", seed)
		}
	}
}

func TestCarveTowerWithoutBase(t *testing.T) {
	b := NewBoard(6, 2, 8)
	tc := config.DefaultTowerConfig().Tower
	tc.BaseHeight = 0
	tc.WedgeDepth = 0
	if x := CarveTower(b, rand.New(rand.NewSource(1)), tc); x != -1 {
		t.Errorf("CarveTower() = %d, want -1", x)
	}
	for y := 0; y < b.Height(); y++ {
		if b.RowHasBlocks(y) {
			t.Fatalf("row %d should be empty", y)
		}
	}
}

func TestSparseRows(t *testing.T) {
	b := NewBoard(8, 3, 4)

	full := SparseRows{Rand: rand.New(rand.NewSource(5)), FillProbability: 1}
	for i := 0; i < 20; i++ {
		row := full.NextRow(b)
		holes := 0
		for x := 0; x < 8; x++ {
			if !row[x] {
				holes++
			}
		}
		if holes != 1 {
			t.Fatalf("fill probability 1 gave %d holes, want 1", holes)
		}
		for x := 8; x < 11; x++ {
			if !row[x] {
				t.Fatalf("decorative column %d should be filled", x)
			}
		}
	}

	empty := SparseRows{Rand: rand.New(rand.NewSource(5)), FillProbability: 0}
	row := empty.NextRow(b)
	for x := 0; x < 8; x++ {
		if row[x] {
			t.Fatalf("fill probability 0 filled column %d", x)
		}
	}
}

func TestGapRowsFollowGap(t *testing.T) {
	b := NewBoard(10, 2, 6)
	b.FillRow(0, true)
	b.SetCell(4, 0, false)

	src := NewGapRows(rand.New(rand.NewSource(11)), config.DefaultTowerConfig().Tower.Gap)
	from, sideways := 4, 0
	for i := 0; i < 40; i++ {
		b.RiseUp(src)

		var holes []int
		for x := 0; x < b.Circumference(); x++ {
			if !b.Occupied(x, 0) {
				holes = append(holes, x)
			}
		}
		if len(holes) == 0 || len(holes) > 2 {
			t.Fatalf("rise %d: risen row has empty cells %v, want 1 or 2", i, holes)
		}
		if holes[len(holes)-1] >= b.PlayableWidth() {
			t.Fatalf("rise %d: decorative cell %d left empty", i, holes[len(holes)-1])
		}
		if len(holes) == 2 {
			sideways++
			if holes[1]-holes[0] != 1 {
				t.Fatalf("rise %d: holes %v are not side by side", i, holes)
			}
		}
		// The old gap sits directly above an empty cell of the new row.
		if b.Occupied(from, 0) || b.Occupied(from, 1) {
			t.Fatalf("rise %d: gap at column %d is not open in both rows", i, from)
		}
		if b.Occupied(src.cursor, 0) {
			t.Fatalf("rise %d: cursor %d is not empty", i, src.cursor)
		}
		from = src.cursor
	}
	if sideways == 0 {
		t.Error("gap never stepped sideways; connectivity of diagonal steps untested")
	}
}

func TestGapRowsFallsBackToLeftmost(t *testing.T) {
	b := NewBoard(6, 1, 4)
	b.FillRow(0, true)
	b.SetCell(2, 0, false)

	src := NewGapRows(rand.New(rand.NewSource(3)), config.GapWeights{Up: 1})
	src.cursor, src.traced = 5, true // filled in row 0
	b.RiseUp(src)
	if b.Occupied(2, 0) {
		t.Error("stale cursor should fall back to the leftmost gap")
	}

	b.FillRow(0, true)
	src.traced = false
	b.RiseUp(src)
	if mid := (b.PlayableWidth() - 1) / 2; b.Occupied(mid, 0) {
		t.Errorf("full bottom row should restart the gap at column %d", mid)
	}
}
