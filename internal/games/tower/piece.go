// Package tower implements the falling-block tower engine: board rules,
// procedural tower carving, the rising floor, scoring, the piece randomizer
// and the timing state machines. It performs no rendering and no storage
// I/O; collaborators observe it through snapshots and callbacks.
package tower

// Kind identifies one of the seven tetromino shapes.
type Kind int

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// KindCount is the number of distinct piece kinds.
const KindCount = 7

// String returns the conventional letter for the kind.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	default:
		return "?"
	}
}

// Point is a board coordinate. Y grows upward; row 0 is the bottom.
type Point struct {
	X, Y int
}

// Shape is a 0/1 matrix stored top row first.
type Shape [][]bool

// Width returns the number of columns in the matrix.
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Height returns the number of rows in the matrix.
func (s Shape) Height() int {
	return len(s)
}

// Rotate returns the shape turned 90 degrees clockwise (transpose, then
// reverse each row). The receiver is not modified.
func (s Shape) Rotate() Shape {
	h, w := s.Height(), s.Width()
	out := make(Shape, w)
	for r := range out {
		out[r] = make([]bool, h)
		for c := range out[r] {
			out[r][c] = s[h-1-c][r]
		}
	}
	return out
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for r := range s {
		out[r] = append([]bool(nil), s[r]...)
	}
	return out
}

// Equal reports whether two shapes have identical matrices.
func (s Shape) Equal(o Shape) bool {
	if s.Height() != o.Height() || s.Width() != o.Width() {
		return false
	}
	for r := range s {
		for c := range s[r] {
			if s[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// canonical shapes in spawn orientation.
var canonical = [KindCount][]string{
	KindI: {"####"},
	KindO: {"##", "##"},
	KindT: {".#.", "###"},
	KindS: {".##", "##."},
	KindZ: {"##.", ".##"},
	KindJ: {"#..", "###"},
	KindL: {"..#", "###"},
}

// ParseShape builds a shape from rows of '#' (filled) and '.' (empty).
func ParseShape(rows ...string) Shape {
	s := make(Shape, len(rows))
	for r, line := range rows {
		s[r] = make([]bool, len(line))
		for c, ch := range line {
			s[r][c] = ch == '#'
		}
	}
	return s
}

// CanonicalShape returns a fresh copy of the spawn orientation for a kind.
func CanonicalShape(k Kind) Shape {
	if k < 0 || int(k) >= KindCount {
		return nil
	}
	return ParseShape(canonical[k]...)
}

// Piece is a shape anchored on the board. The anchor (X, Y) is the board
// position of the matrix's top-left cell; matrix row r lands on board row Y-r.
type Piece struct {
	Kind  Kind
	Shape Shape
	X, Y  int
}

// Cells returns the board coordinates of every occupied cell.
func (p Piece) Cells() []Point {
	return shapeCells(p.Shape, p.X, p.Y)
}

// Bottom returns the lowest board row the piece occupies.
func (p Piece) Bottom() int {
	bottom := p.Y
	for _, c := range p.Cells() {
		bottom = min(bottom, c.Y)
	}
	return bottom
}

func shapeCells(s Shape, x, y int) []Point {
	var pts []Point
	for r, row := range s {
		for c, filled := range row {
			if filled {
				pts = append(pts, Point{X: x + c, Y: y - r})
			}
		}
	}
	return pts
}
