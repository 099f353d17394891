// Package qsort provides a generic in-place quicksort.
//
// The sort is a recursive partition scheme over a slice:
//
//  1. Ranges shorter than two elements are already sorted.
//  2. A PivotStrategy picks a pivot index within the active range.
//  3. Partition moves the pivot to its final position p so that every
//     element before p compares less than the pivot and every element
//     after p compares greater than or equal to it.
//  4. The two sides, both excluding p, are sorted the same way.
//
// Every sub-range excludes the pivot, so each step strictly shrinks the
// problem and the sort terminates for any finite input. The smaller side is
// sorted recursively and the larger side is handled by the enclosing loop,
// which caps stack depth at O(log n) regardless of pivot quality.
//
// The sort is not stable. It allocates nothing proportional to the input.
//
// # Pivot Strategies
//
//   - First: the first element. Quadratic on sorted input.
//   - Last: the last element. Quadratic on sorted input.
//   - MedianOfThree: median of first, middle and last (the default).
//   - Random: a uniformly random element from a seeded source.
//
// Pivot choice affects running time only, never the result.
//
// # Usage
//
//	data := []uint8{3, 1, 4, 1, 5, 9, 2, 6}
//	qsort.Sort(data) // [1 1 2 3 4 5 6 9]
//
//	qsort.SortStrategy(data, cmp.Compare[uint8], qsort.First)
package qsort
