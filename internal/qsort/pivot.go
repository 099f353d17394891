package qsort

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// PivotStrategy chooses the pivot index for a range of n elements (n >= 2).
// less compares the elements at two indexes of the range.
// Pick must return an index in [0, n).
type PivotStrategy interface {
	Pick(n int, less func(i, j int) bool) int
}

// PivotFunc adapts a plain function to PivotStrategy.
type PivotFunc func(n int, less func(i, j int) bool) int

// Pick calls f.
func (f PivotFunc) Pick(n int, less func(i, j int) bool) int {
	return f(n, less)
}

// Built-in strategies.
var (
	// First always picks the first element.
	First PivotStrategy = PivotFunc(func(n int, _ func(i, j int) bool) int { return 0 })

	// Last always picks the last element.
	Last PivotStrategy = PivotFunc(func(n int, _ func(i, j int) bool) int { return n - 1 })

	// MedianOfThree picks the median of the first, middle and last elements.
	MedianOfThree PivotStrategy = PivotFunc(medianOfThree)
)

func medianOfThree(n int, less func(i, j int) bool) int {
	a, b, c := 0, n/2, n-1
	if less(b, a) {
		a, b = b, a
	}
	if less(c, b) {
		b = c
		if less(b, a) {
			b = a
		}
	}
	return b
}

// Random picks a uniformly random element. The zero value is not usable;
// create one with NewRandom.
//
// Thread-safety: Random is safe for concurrent use via internal mutex.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random strategy seeded with seed.
// The same seed yields the same pivot sequence.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns a random index in [0, n).
func (r *Random) Pick(n int, _ func(i, j int) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// Pivot strategy names accepted by ParsePivot.
const (
	PivotFirst  = "first"
	PivotLast   = "last"
	PivotMedian = "median3"
	PivotRandom = "random"
)

// PivotNames lists the accepted strategy names.
var PivotNames = []string{PivotFirst, PivotLast, PivotMedian, PivotRandom}

// ParsePivot returns the strategy registered under name.
// An empty name selects MedianOfThree. seed is used only by "random".
func ParsePivot(name string, seed uint64) (PivotStrategy, error) {
	switch name {
	case "", PivotMedian:
		return MedianOfThree, nil
	case PivotFirst:
		return First, nil
	case PivotLast:
		return Last, nil
	case PivotRandom:
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("unknown pivot strategy %q: must be one of %v", name, PivotNames)
	}
}
