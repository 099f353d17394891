package proptest

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsortprop/internal/qsort"
)

func TestPermutation(t *testing.T) {
	tests := []struct {
		name     string
		original []uint8
		mutated  []uint8
		errMsg   string
	}{
		{"empty", []uint8{}, []uint8{}, ""},
		{"reordered", []uint8{3, 1, 2}, []uint8{1, 2, 3}, ""},
		{"duplicates_kept", []uint8{5, 5, 1}, []uint8{1, 5, 5}, ""},
		{"shorter", []uint8{1, 2}, []uint8{1}, "length changed"},
		{"longer", []uint8{1}, []uint8{1, 1}, "length changed"},
		{"replaced", []uint8{1, 2}, []uint8{1, 3}, "element 2 occurs 1 more time(s) in original"},
		// A containment scan per original element accepts this pair.
		{"duplicate_swapped_for_other", []uint8{1, 1, 2}, []uint8{1, 2, 2}, "element 1 occurs 1 more time(s) in original"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Permutation(tt.original, tt.mutated)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPermutation_ExtraInMutated(t *testing.T) {
	// Same length and every original value present, but counts differ
	// in the other direction.
	err := Permutation([]int{1, 2, 2}, []int{1, 1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 2 occurs 1 more time(s) in original")
}

func TestNonDecreasing(t *testing.T) {
	assert.NoError(t, NonDecreasing[int](nil, []int{}))
	assert.NoError(t, NonDecreasing[int](nil, []int{1}))
	assert.NoError(t, NonDecreasing[int](nil, []int{1, 1, 2}))

	err := NonDecreasing[int](nil, []int{1, 3, 2})
	require.Error(t, err)
	assert.Equal(t, "not sorted at index 2: 3 > 2", err.Error())
}

func TestProperties_FloatNaN(t *testing.T) {
	nan := math.NaN()

	// NaN equals only NaN under cmp.Compare, so it cannot be swapped out.
	require.Error(t, Permutation([]float64{nan}, []float64{1}))
	require.Error(t, Permutation([]float64{nan, 2}, []float64{2, 2}))
	require.Error(t, Permutation([]float64{1, 2}, []float64{nan, 2}))
	assert.NoError(t, Permutation([]float64{2, nan, 1, nan}, []float64{nan, nan, 1, 2}))

	err := NonDecreasing(nil, []float64{1, nan, 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not sorted at index 1")
	assert.NoError(t, NonDecreasing(nil, []float64{nan, nan, 0, 1}))

	assert.NoError(t, Equals([]float64{nan, 1})(nil, []float64{nan, 1}))
	assert.Error(t, Equals([]float64{nan, 1})(nil, []float64{1, nan}))
}

func TestSortTarget_FloatNaN(t *testing.T) {
	nan := math.NaN()
	swapNaN := func(s []float64) {
		qsort.Sort(s)
		for i, v := range s {
			if math.IsNaN(v) {
				s[i] = 0
			}
		}
	}
	target := SortTarget[float64]("swap-nan", nil, swapNaN)
	input := []float64{3, nan, 1}
	assert.Error(t, target.Property(target.Clone(input), target.Apply(input)))

	sorted := SortTarget[float64]("qsort", nil, qsort.Sort[float64])
	input = []float64{3, nan, 1, nan}
	output := sorted.Apply(sorted.Clone(input))
	require.NoError(t, sorted.Property(input, output))
	assert.True(t, math.IsNaN(output[0]) && math.IsNaN(output[1]))
	assert.Equal(t, []float64{1, 3}, output[2:])
}

func TestIdempotent(t *testing.T) {
	prop := Idempotent(InPlace(qsort.Sort[int]))
	assert.NoError(t, prop(nil, []int{1, 2, 3}))

	err := prop(nil, []int{2, 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not idempotent")
}

func TestEquals(t *testing.T) {
	prop := Equals([]uint8{1, 1, 2, 3, 4, 5, 6, 9})
	assert.NoError(t, prop(nil, []uint8{1, 1, 2, 3, 4, 5, 6, 9}))
	assert.Error(t, prop(nil, []uint8{1, 2, 3, 4, 5, 6, 9}))
}

func TestAll_FirstFailureWins(t *testing.T) {
	first := errors.New("first")
	prop := All(
		func(_, _ []int) error { return nil },
		func(_, _ []int) error { return first },
		func(_, _ []int) error { return errors.New("second") },
	)
	assert.ErrorIs(t, prop(nil, nil), first)
	assert.NoError(t, All[[]int]()(nil, nil))
}

func TestSortTarget_ConcreteScenario(t *testing.T) {
	target := SortTarget("qsort", SliceOf(Uint8(), 100), qsort.Sort[uint8])

	input := []uint8{3, 1, 4, 1, 5, 9, 2, 6}
	snapshot := target.Clone(input)
	output := target.Apply(input)

	require.NoError(t, target.Property(snapshot, output))
	assert.Equal(t, []uint8{1, 1, 2, 3, 4, 5, 6, 9}, output)
	assert.Equal(t, []uint8{3, 1, 4, 1, 5, 9, 2, 6}, snapshot)
}

func TestFailureError_Format(t *testing.T) {
	err := &FailureError{
		Code:     CodeViolation,
		Message:  "length changed",
		Property: "qsort",
		Seed:     7,
		Trial:    3,
		Input:    []uint8{0},
	}
	assert.Equal(t, "PROPERTY_VIOLATION: length changed (property=qsort, seed=7, trial=3, input=[0])", err.Error())

	bare := &FailureError{Code: CodeTimeout, Message: "slow"}
	assert.Equal(t, "TIMEOUT: slow", bare.Error())

	assert.False(t, IsTimeout(errors.New("plain")))
}

func TestShrinkBudget(t *testing.T) {
	b := NewShrinkBudget(2)
	require.NoError(t, b.Check())
	require.NoError(t, b.Check())

	err := b.Check()
	var be *BudgetExceededError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 3, be.Steps)
	assert.Equal(t, 2, be.Limit)
	assert.Equal(t, 3, b.Current())
	assert.Equal(t, 2, b.Max())
}
