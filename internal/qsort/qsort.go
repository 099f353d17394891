package qsort

import "cmp"

// Sort sorts s in place into non-decreasing order using the default pivot
// strategy (MedianOfThree).
func Sort[E cmp.Ordered](s []E) {
	SortStrategy(s, cmp.Compare[E], MedianOfThree)
}

// SortFunc sorts s in place into non-decreasing order as determined by cmp.
// cmp(a, b) must return a negative number when a < b, a positive number when
// a > b and zero when a == b, and must describe a total order.
func SortFunc[E any](s []E, cmp func(a, b E) int) {
	SortStrategy(s, cmp, MedianOfThree)
}

// SortStrategy sorts s in place using p to choose pivots.
// A nil strategy falls back to MedianOfThree.
func SortStrategy[E any](s []E, cmp func(a, b E) int, p PivotStrategy) {
	if p == nil {
		p = MedianOfThree
	}
	quickSort(s, cmp, p)
}

// quickSort recurses into the smaller partition and loops on the larger one.
func quickSort[E any](s []E, cmp func(a, b E) int, p PivotStrategy) {
	for len(s) > 1 {
		pivot := p.Pick(len(s), func(i, j int) bool { return cmp(s[i], s[j]) < 0 })
		mid := Partition(s, cmp, pivot)

		left, right := s[:mid], s[mid+1:]
		if len(left) < len(right) {
			quickSort(left, cmp, p)
			s = right
		} else {
			quickSort(right, cmp, p)
			s = left
		}
	}
}

// Partition rearranges s around the element at index pivot and returns the
// pivot's final index p. Afterwards s[:p] holds the elements less than the
// pivot and s[p+1:] the elements greater than or equal to it.
//
// Partition panics if pivot is out of range.
func Partition[E any](s []E, cmp func(a, b E) int, pivot int) int {
	last := len(s) - 1
	s[pivot], s[last] = s[last], s[pivot]

	store := 0
	for i := 0; i < last; i++ {
		if cmp(s[i], s[last]) < 0 {
			s[store], s[i] = s[i], s[store]
			store++
		}
	}
	s[store], s[last] = s[last], s[store]
	return store
}

// IsSorted reports whether s is in non-decreasing order under cmp.Less,
// the order Sort produces.
func IsSorted[E cmp.Ordered](s []E) bool {
	for i := 1; i < len(s); i++ {
		if cmp.Less(s[i], s[i-1]) {
			return false
		}
	}
	return true
}
