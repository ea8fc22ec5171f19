package tower

// Rand is the randomness source the engine draws from. *math/rand.Rand
// satisfies it; tests inject seeded or scripted sources.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Bag is the 7-bag randomizer: a queue refilled with a full shuffled set
// of kinds whenever it runs shorter than the requested look-ahead.
type Bag struct {
	rng   Rand
	queue []Kind
}

// NewBag creates an empty bag; the first draw fills it.
func NewBag(rng Rand) *Bag {
	return &Bag{rng: rng}
}

// Fill appends shuffled sets until at least n kinds are queued.
func (b *Bag) Fill(n int) {
	for len(b.queue) < n {
		set := [KindCount]Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}
		for i := KindCount - 1; i > 0; i-- {
			j := b.rng.Intn(i + 1)
			set[i], set[j] = set[j], set[i]
		}
		b.queue = append(b.queue, set[:]...)
	}
}

// Next removes and returns the next kind.
func (b *Bag) Next() Kind {
	b.Fill(1)
	k := b.queue[0]
	b.queue = b.queue[1:]
	return k
}

// Peek returns up to n queued kinds without consuming them. It never
// draws from the random source; call Fill first to guarantee n.
func (b *Bag) Peek(n int) []Kind {
	n = min(n, len(b.queue))
	if n <= 0 {
		return nil
	}
	out := make([]Kind, n)
	copy(out, b.queue)
	return out
}
