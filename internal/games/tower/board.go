package tower

// CellMove describes one occupied cell displaced by post-clear gravity.
type CellMove struct {
	Col     int
	FromRow int
	ToRow   int
}

// PlaceResult is the outcome of committing a piece to the board.
type PlaceResult struct {
	ClearedRows []int      // Ascending
	Moves       []CellMove // Cells that fell after the clear
}

// RowSource produces the row inserted at the bottom when the floor rises.
// It is called before the board is mutated, so it may inspect the current
// bottom row.
type RowSource interface {
	NextRow(b *Board) []bool
}

// Board owns the cell matrix. Rows are kept in a ring so the rising floor
// drops the top row and inserts a bottom row in constant time.
type Board struct {
	playable   int
	decorative int
	height     int

	rows [][]bool // Physical storage, each row is playable+decorative wide
	base int      // Physical index of logical row 0
}

// NewBoard creates an empty board.
func NewBoard(playableWidth, decorativeWidth, height int) *Board {
	b := &Board{
		playable:   playableWidth,
		decorative: decorativeWidth,
		height:     height,
		rows:       make([][]bool, height),
	}
	for i := range b.rows {
		b.rows[i] = make([]bool, playableWidth+decorativeWidth)
	}
	return b
}

// PlayableWidth returns the number of columns that follow gameplay rules.
func (b *Board) PlayableWidth() int { return b.playable }

// DecorativeWidth returns the number of cosmetic fringe columns.
func (b *Board) DecorativeWidth() int { return b.decorative }

// Circumference returns the total column count.
func (b *Board) Circumference() int { return b.playable + b.decorative }

// Height returns the number of visible rows.
func (b *Board) Height() int { return b.height }

// row returns the storage for logical row y (0 = bottom).
func (b *Board) row(y int) []bool {
	return b.rows[(b.base+y)%b.height]
}

// Occupied reports whether the cell at column x, row y is filled.
// Coordinates outside the matrix read as empty.
func (b *Board) Occupied(x, y int) bool {
	if x < 0 || x >= b.Circumference() || y < 0 || y >= b.height {
		return false
	}
	return b.row(y)[x]
}

// SetCell sets a single cell. Out-of-range coordinates are ignored.
func (b *Board) SetCell(x, y int, filled bool) {
	if x < 0 || x >= b.Circumference() || y < 0 || y >= b.height {
		return
	}
	b.row(y)[x] = filled
}

// FillRow sets every cell of row y, decorative columns included.
func (b *Board) FillRow(y int, filled bool) {
	if y < 0 || y >= b.height {
		return
	}
	r := b.row(y)
	for x := range r {
		r[x] = filled
	}
}

// IsValid reports whether shape anchored at (x, y) fits: every filled cell
// must sit in a playable column at row 0 or above, and cells inside the
// visible board must land on empty cells. Rows at or above the board
// height are open ceiling.
func (b *Board) IsValid(shape Shape, x, y int) bool {
	for r, line := range shape {
		for c, filled := range line {
			if !filled {
				continue
			}
			col, row := x+c, y-r
			if col < 0 || col >= b.playable || row < 0 {
				return false
			}
			if row >= b.height {
				continue
			}
			if b.row(row)[col] {
				return false
			}
		}
	}
	return true
}

// RowFull reports whether every playable column of row y is filled.
func (b *Board) RowFull(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	r := b.row(y)
	for x := 0; x < b.playable; x++ {
		if !r[x] {
			return false
		}
	}
	return true
}

// RowHasBlocks reports whether any playable column of row y is filled.
func (b *Board) RowHasBlocks(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	r := b.row(y)
	for x := 0; x < b.playable; x++ {
		if r[x] {
			return true
		}
	}
	return false
}

// GapColumn returns the leftmost empty playable column of row y, or -1.
func (b *Board) GapColumn(y int) int {
	if y < 0 || y >= b.height {
		return -1
	}
	r := b.row(y)
	for x := 0; x < b.playable; x++ {
		if !r[x] {
			return x
		}
	}
	return -1
}

// Place writes the piece into the board, mirrors occupancy into the
// decorative columns of every touched row, clears full rows and lets the
// rows above the lowest cleared row fall by the number of cleared rows
// beneath them. Cells at or above the board height are dropped.
func (b *Board) Place(p Piece) PlaceResult {
	touched := make(map[int]bool)
	for _, pt := range p.Cells() {
		if pt.Y < 0 || pt.Y >= b.height || pt.X < 0 || pt.X >= b.playable {
			continue
		}
		b.row(pt.Y)[pt.X] = true
		touched[pt.Y] = true
	}
	for y := range touched {
		r := b.row(y)
		for x := b.playable; x < len(r); x++ {
			r[x] = true
		}
	}

	var res PlaceResult
	for y := 0; y < b.height; y++ {
		if b.RowFull(y) {
			res.ClearedRows = append(res.ClearedRows, y)
		}
	}
	if len(res.ClearedRows) == 0 {
		return res
	}

	cleared := make([]bool, b.height)
	for _, y := range res.ClearedRows {
		cleared[y] = true
		b.FillRow(y, false)
	}

	// Walk upward from the lowest cleared row. Each surviving row swaps into
	// its destination slot, which is always empty by the time it is reached.
	drop := 0
	for y := res.ClearedRows[0]; y < b.height; y++ {
		if cleared[y] {
			drop++
			continue
		}
		dest := y - drop
		src := b.row(y)
		for x, filled := range src {
			if filled {
				res.Moves = append(res.Moves, CellMove{Col: x, FromRow: y, ToRow: dest})
			}
		}
		si := (b.base + y) % b.height
		di := (b.base + dest) % b.height
		b.rows[si], b.rows[di] = b.rows[di], b.rows[si]
	}

	return res
}

// RiseUp discards the top row and inserts the row produced by src at the
// bottom; everything else moves up one row.
func (b *Board) RiseUp(src RowSource) {
	next := src.NextRow(b)
	b.base = (b.base + b.height - 1) % b.height
	bottom := b.row(0)
	for x := range bottom {
		bottom[x] = x < len(next) && next[x]
	}
}

// Cells returns a copy of the matrix indexed [row][col], row 0 at the bottom.
func (b *Board) Cells() [][]bool {
	out := make([][]bool, b.height)
	for y := range out {
		out[y] = append([]bool(nil), b.row(y)...)
	}
	return out
}
