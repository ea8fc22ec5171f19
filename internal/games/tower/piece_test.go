package tower

import (
	"math/rand"
	"testing"
)

func TestShapeRotate(t *testing.T) {
	tests := []struct {
		name string
		in   Shape
		want Shape
	}{
		{"T points right", CanonicalShape(KindT), ParseShape("#.", "##", "#.")},
		{"I stands up", CanonicalShape(KindI), ParseShape("#", "#", "#", "#")},
		{"O unchanged", CanonicalShape(KindO), ParseShape("##", "##")},
		{"J", CanonicalShape(KindJ), ParseShape("##", "#.", "#.")},
		{"S", CanonicalShape(KindS), ParseShape("#.", "##", ".#")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Rotate()
			if !got.Equal(tt.want) {
				t.Errorf("Rotate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShapeRotateFullTurn(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		s := CanonicalShape(k)
		r := s.Rotate().Rotate().Rotate().Rotate()
		if !r.Equal(s) {
			t.Errorf("%v: four rotations = %v, want %v", k, r, s)
		}
	}
}

func TestShapeRotateDoesNotMutate(t *testing.T) {
	s := CanonicalShape(KindL)
	before := s.Clone()
	_ = s.Rotate()
	if !s.Equal(before) {
		t.Errorf("Rotate mutated receiver: %v, want %v", s, before)
	}
}

func TestCanonicalShapesHaveFourCells(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		p := Piece{Kind: k, Shape: CanonicalShape(k)}
		if n := len(p.Cells()); n != 4 {
			t.Errorf("%v has %d cells, want 4", k, n)
		}
	}
	if CanonicalShape(Kind(KindCount)) != nil {
		t.Error("CanonicalShape for out-of-range kind should be nil")
	}
}

func TestPieceCells(t *testing.T) {
	p := Piece{Kind: KindT, Shape: CanonicalShape(KindT), X: 3, Y: 10}
	want := []Point{{4, 10}, {3, 9}, {4, 9}, {5, 9}}
	got := p.Cells()
	if len(got) != len(want) {
		t.Fatalf("Cells() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Cells()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBagFairness(t *testing.T) {
	bag := NewBag(rand.New(rand.NewSource(7)))

	for window := 0; window < 20; window++ {
		seen := make(map[Kind]int)
		for i := 0; i < KindCount; i++ {
			seen[bag.Next()]++
		}
		for k := Kind(0); k < KindCount; k++ {
			if seen[k] != 1 {
				t.Fatalf("window %d: kind %v drawn %d times, want 1", window, k, seen[k])
			}
		}
	}
}

func TestBagPeekDoesNotConsume(t *testing.T) {
	bag := NewBag(rand.New(rand.NewSource(3)))
	bag.Next()
	bag.Fill(10)

	peeked := bag.Peek(10)
	if len(peeked) != 10 {
		t.Fatalf("Peek(10) returned %d kinds", len(peeked))
	}
	for i, want := range peeked {
		if got := bag.Next(); got != want {
			t.Errorf("Next() #%d = %v, want peeked %v", i, got, want)
		}
	}
	if bag.Peek(0) != nil {
		t.Error("Peek(0) should be nil")
	}
}

// countingRand records how many draws the bag makes.
type countingRand struct {
	r     *rand.Rand
	draws int
}

func (c *countingRand) Intn(n int) int {
	c.draws++
	return c.r.Intn(n)
}

func (c *countingRand) Float64() float64 {
	c.draws++
	return c.r.Float64()
}

func TestBagPeekNeverDraws(t *testing.T) {
	rng := &countingRand{r: rand.New(rand.NewSource(9))}
	bag := NewBag(rng)

	if got := bag.Peek(5); got != nil {
		t.Errorf("Peek(5) on an empty bag = %v, want nil", got)
	}
	if rng.draws != 0 {
		t.Fatalf("Peek drew %d values from an empty bag", rng.draws)
	}

	bag.Fill(3)
	before := rng.draws
	if got := len(bag.Peek(20)); got != KindCount {
		t.Errorf("len(Peek(20)) = %d, want %d queued", got, KindCount)
	}
	if rng.draws != before {
		t.Errorf("Peek drew %d values, want 0", rng.draws-before)
	}
}

func TestBagDeterministic(t *testing.T) {
	a := NewBag(rand.New(rand.NewSource(42)))
	b := NewBag(rand.New(rand.NewSource(42)))
	for i := 0; i < 50; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("draw %d: %v != %v with equal seeds", i, x, y)
		}
	}
}
