package proptest

import (
	"math/rand/v2"
	"slices"
)

// Generator produces random values of T and proposes smaller ones.
//
// Shrink must return only candidates that are strictly smaller than v under
// some well-founded order, so repeated shrinking always terminates. Earlier
// candidates are preferred: the runner accepts the first one that still
// fails.
type Generator[T any] interface {
	Generate(rng *rand.Rand) T
	Shrink(v T) []T
}

type uint8Gen struct{}

// Uint8 generates bytes over the full range and shrinks toward zero.
func Uint8() Generator[uint8] {
	return uint8Gen{}
}

func (uint8Gen) Generate(rng *rand.Rand) uint8 {
	return uint8(rng.UintN(256))
}

func (uint8Gen) Shrink(v uint8) []uint8 {
	if v == 0 {
		return nil
	}
	candidates := []uint8{0}
	if half := v / 2; half != 0 {
		candidates = append(candidates, half)
	}
	if prev := v - 1; prev != 0 && prev != v/2 {
		candidates = append(candidates, prev)
	}
	return candidates
}

type int64RangeGen struct {
	lo, hi int64
}

// Int64Range generates integers in [lo, hi] and shrinks toward the value in
// range closest to zero. Int64Range panics if lo > hi.
func Int64Range(lo, hi int64) Generator[int64] {
	if lo > hi {
		panic("proptest: Int64Range with lo > hi")
	}
	return int64RangeGen{lo: lo, hi: hi}
}

func (g int64RangeGen) Generate(rng *rand.Rand) int64 {
	span := uint64(g.hi - g.lo)
	if span == ^uint64(0) {
		return int64(rng.Uint64())
	}
	return g.lo + int64(rng.Uint64N(span+1))
}

func (g int64RangeGen) target() int64 {
	switch {
	case g.lo > 0:
		return g.lo
	case g.hi < 0:
		return g.hi
	default:
		return 0
	}
}

func (g int64RangeGen) Shrink(v int64) []int64 {
	t := g.target()
	if v == t {
		return nil
	}
	candidates := []int64{t}
	// Halve the distance to the target, then step by one.
	if mid := t + (v-t)/2; mid != t && mid != v {
		candidates = append(candidates, mid)
	}
	step := v - 1
	if v < t {
		step = v + 1
	}
	if step != t && !slices.Contains(candidates, step) {
		candidates = append(candidates, step)
	}
	return candidates
}

// SliceGen generates slices with lengths in [0, MaxLen] and elements drawn
// from Elem.
type SliceGen[E any] struct {
	Elem   Generator[E]
	MaxLen int
}

// SliceOf creates a slice generator. A negative maxLen is treated as zero.
func SliceOf[E any](elem Generator[E], maxLen int) *SliceGen[E] {
	return &SliceGen[E]{Elem: elem, MaxLen: max(maxLen, 0)}
}

// Generate draws a length uniformly from [0, MaxLen], then each element.
func (g *SliceGen[E]) Generate(rng *rand.Rand) []E {
	n := rng.IntN(g.MaxLen + 1)
	s := make([]E, n)
	for i := range s {
		s[i] = g.Elem.Generate(rng)
	}
	return s
}

// Shrink proposes shorter slices first, then slices of equal length with a
// single element shrunk.
//
// Shorter candidates remove a contiguous chunk. Chunk sizes start at the
// whole slice (the empty candidate) and halve down to one, so a failure
// that only depends on length collapses in O(log n) accepted steps.
func (g *SliceGen[E]) Shrink(v []E) [][]E {
	n := len(v)
	if n == 0 {
		return nil
	}

	var candidates [][]E
	for size := n; size > 0; size /= 2 {
		for start := 0; start+size <= n; start += size {
			c := make([]E, 0, n-size)
			c = append(c, v[:start]...)
			c = append(c, v[start+size:]...)
			candidates = append(candidates, c)
		}
	}

	for i := range v {
		for _, e := range g.Elem.Shrink(v[i]) {
			c := slices.Clone(v)
			c[i] = e
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// trialRand returns the deterministic source for one trial.
func trialRand(seed uint64, trial int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(trial)))
}
