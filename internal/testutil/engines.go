// Package testutil provides deliberately broken sort engines for exercising
// the property harness: each one violates a different part of the contract.
package testutil

import (
	"cmp"
	"sync/atomic"
	"time"

	"github.com/roach88/qsortprop/internal/qsort"
)

// FixedSeed is the seed used by tests that need a reproducible run.
const FixedSeed uint64 = 0x5eed

// DropLast sorts s and then drops its last element.
func DropLast[E cmp.Ordered](s []E) []E {
	qsort.Sort(s)
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

// Noop leaves s untouched.
func Noop[E cmp.Ordered](s []E) {}

// Reverse sorts s descending.
func Reverse[E cmp.Ordered](s []E) {
	qsort.SortFunc(s, func(a, b E) int { return cmp.Compare(b, a) })
}

// CollapseDuplicates sorts s and then overwrites the second copy of the
// first duplicated value with the next larger value. Length, order and set
// membership are preserved, multiplicity is not, so only a count-based
// permutation check catches it.
func CollapseDuplicates[E cmp.Ordered](s []E) {
	qsort.Sort(s)
	for i := 1; i < len(s); i++ {
		if s[i] != s[i-1] {
			continue
		}
		for j := i + 1; j < len(s); j++ {
			if s[j] != s[i] {
				s[i] = s[j]
				return
			}
		}
	}
}

// HangOnLength sorts s but blocks for d when len(s) >= n, standing in for an
// engine that never terminates on some inputs.
func HangOnLength[E cmp.Ordered](n int, d time.Duration) func([]E) {
	return func(s []E) {
		if len(s) >= n {
			time.Sleep(d)
		}
		qsort.Sort(s)
	}
}

// PanicOnLength sorts s but panics when len(s) >= n.
func PanicOnLength[E cmp.Ordered](n int) func([]E) {
	return func(s []E) {
		if len(s) >= n {
			panic("index out of range in partition")
		}
		qsort.Sort(s)
	}
}

// FailOnce returns an engine that leaves its first non-trivial input (two or
// more elements) unsorted and sorts every later one correctly. Replaying
// the failing input therefore passes.
func FailOnce[E cmp.Ordered]() func([]E) {
	var failed atomic.Bool
	return func(s []E) {
		if len(s) >= 2 && !qsort.IsSorted(s) && failed.CompareAndSwap(false, true) {
			return
		}
		qsort.Sort(s)
	}
}
