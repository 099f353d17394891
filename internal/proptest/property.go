package proptest

import (
	"cmp"
	"fmt"
	"slices"
)

// Property checks an output against the snapshot of its input.
// It returns nil when the property holds.
type Property[T any] func(original, mutated T) error

// All combines properties; the first failure wins.
func All[T any](props ...Property[T]) Property[T] {
	return func(original, mutated T) error {
		for _, p := range props {
			if err := p(original, mutated); err != nil {
				return err
			}
		}
		return nil
	}
}

// Permutation requires mutated to hold exactly the elements of original,
// counting repeats: dropping one copy of a duplicated value is a violation.
//
// Elements are matched with cmp.Compare, the order the sort itself uses, so
// NaN matches NaN and nothing else.
func Permutation[E cmp.Ordered](original, mutated []E) error {
	if len(original) != len(mutated) {
		return fmt.Errorf("length changed: original has %d elements, mutated has %d", len(original), len(mutated))
	}

	a, b := slices.Clone(original), slices.Clone(mutated)
	slices.SortFunc(a, cmp.Compare[E])
	slices.SortFunc(b, cmp.Compare[E])

	// Lengths match, so a value with extra copies in mutated implies another
	// value with missing copies; only the missing copies are reported.
	i, j := 0, 0
	for i < len(a) {
		v := a[i]
		na := runLength(a[i:], v)
		for j < len(b) && cmp.Less(b[j], v) {
			j++
		}
		nb := runLength(b[j:], v)
		if na > nb {
			return fmt.Errorf("element %v occurs %d more time(s) in original than in mutated", v, na-nb)
		}
		i += na
		j += nb
	}
	return nil
}

// runLength counts the leading elements of s equal to v.
func runLength[E cmp.Ordered](s []E, v E) int {
	n := 0
	for n < len(s) && cmp.Compare(s[n], v) == 0 {
		n++
	}
	return n
}

// NonDecreasing requires every adjacent pair of mutated to be ordered by
// cmp.Less. NaN sorts before every other value.
func NonDecreasing[E cmp.Ordered](_, mutated []E) error {
	for i := 1; i < len(mutated); i++ {
		if cmp.Less(mutated[i], mutated[i-1]) {
			return fmt.Errorf("not sorted at index %d: %v > %v", i, mutated[i-1], mutated[i])
		}
	}
	return nil
}

// Idempotent requires that applying fn to a copy of mutated leaves it unchanged.
func Idempotent[E cmp.Ordered](fn func([]E) []E) Property[[]E] {
	return func(_, mutated []E) error {
		again := fn(slices.Clone(mutated))
		if !equal(again, mutated) {
			return fmt.Errorf("not idempotent: %v became %v", mutated, again)
		}
		return nil
	}
}

// Equals requires mutated to match want exactly.
func Equals[E cmp.Ordered](want []E) Property[[]E] {
	return func(_, mutated []E) error {
		if !equal(want, mutated) {
			return fmt.Errorf("expected %v, got %v", want, mutated)
		}
		return nil
	}
}

func equal[E cmp.Ordered](a, b []E) bool {
	return slices.EqualFunc(a, b, func(x, y E) bool { return cmp.Compare(x, y) == 0 })
}
