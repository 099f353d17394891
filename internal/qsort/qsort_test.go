package qsort

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strategies() map[string]PivotStrategy {
	return map[string]PivotStrategy{
		PivotFirst:  First,
		PivotLast:   Last,
		PivotMedian: MedianOfThree,
		PivotRandom: NewRandom(42),
	}
}

func TestSort_BoundaryCases(t *testing.T) {
	tests := []struct {
		name  string
		input []uint8
		want  []uint8
	}{
		{"empty", []uint8{}, []uint8{}},
		{"single", []uint8{7}, []uint8{7}},
		{"two_swapped", []uint8{2, 1}, []uint8{1, 2}},
		{"all_duplicates", []uint8{5, 5, 5, 5}, []uint8{5, 5, 5, 5}},
		{"already_sorted", []uint8{1, 2, 3, 4, 5}, []uint8{1, 2, 3, 4, 5}},
		{"descending", []uint8{9, 7, 5, 3, 1}, []uint8{1, 3, 5, 7, 9}},
		{"concrete", []uint8{3, 1, 4, 1, 5, 9, 2, 6}, []uint8{1, 1, 2, 3, 4, 5, 6, 9}},
		{"extremes", []uint8{255, 0, 128, 0, 255}, []uint8{0, 0, 128, 255, 255}},
	}

	for _, tt := range tests {
		for name, strategy := range strategies() {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				data := slices.Clone(tt.input)
				SortStrategy(data, cmp.Compare[uint8], strategy)
				assert.Equal(t, tt.want, data)
			})
		}
	}
}

func TestSort_NilSlice(t *testing.T) {
	var data []int
	Sort(data)
	assert.Nil(t, data)
}

func TestSort_Idempotent(t *testing.T) {
	data := []int{8, -3, 8, 0, 42, -3, 7}
	Sort(data)
	once := slices.Clone(data)
	Sort(data)
	assert.Equal(t, once, data)
}

func TestSort_DefaultStrategyOnNil(t *testing.T) {
	data := []int{3, 2, 1}
	SortStrategy(data, cmp.Compare[int], nil)
	assert.Equal(t, []int{1, 2, 3}, data)
}

func TestSortFunc_CustomOrder(t *testing.T) {
	words := []string{"pear", "Apple", "fig", "banana"}
	SortFunc(words, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	assert.Equal(t, []string{"Apple", "banana", "fig", "pear"}, words)
}

func TestSortFunc_Descending(t *testing.T) {
	data := []int{1, 5, 2, 4, 3}
	SortFunc(data, func(a, b int) int { return cmp.Compare(b, a) })
	assert.Equal(t, []int{5, 4, 3, 2, 1}, data)
}

func TestSort_WorstCaseInputsTerminate(t *testing.T) {
	const n = 5000

	ascending := make([]int, n)
	for i := range ascending {
		ascending[i] = i
	}
	descending := slices.Clone(ascending)
	slices.Reverse(descending)
	constant := make([]int, n)

	for name, strategy := range strategies() {
		for input, base := range map[string][]int{
			"ascending":  ascending,
			"descending": descending,
			"constant":   constant,
		} {
			t.Run(name+"/"+input, func(t *testing.T) {
				data := slices.Clone(base)
				SortStrategy(data, cmp.Compare[int], strategy)
				require.True(t, IsSorted(data))
				assert.Len(t, data, n)
			})
		}
	}
}

func TestPartition_Invariant(t *testing.T) {
	data := []int{5, 1, 9, 5, 3, 7, 5, 0}
	for pivot := range data {
		s := slices.Clone(data)
		pivotValue := s[pivot]

		p := Partition(s, cmp.Compare[int], pivot)

		require.Equal(t, pivotValue, s[p], "pivot %d not at its final index", pivot)
		for _, v := range s[:p] {
			assert.Less(t, v, pivotValue)
		}
		for _, v := range s[p+1:] {
			assert.GreaterOrEqual(t, v, pivotValue)
		}
		assert.ElementsMatch(t, data, s)
	}
}

func TestPartition_SingleElement(t *testing.T) {
	s := []int{4}
	assert.Equal(t, 0, Partition(s, cmp.Compare[int], 0))
	assert.Equal(t, []int{4}, s)
}

func TestMedianOfThree(t *testing.T) {
	tests := []struct {
		name string
		data []int
		want int // expected pivot value
	}{
		{"low_mid_high", []int{1, 5, 9}, 5},
		{"high_mid_low", []int{9, 5, 1}, 5},
		{"mid_low_high", []int{5, 1, 9}, 5},
		{"mid_high_low", []int{5, 9, 1}, 5},
		{"low_high_mid", []int{1, 9, 5}, 5},
		{"high_low_mid", []int{9, 1, 5}, 5},
		{"equal", []int{3, 3, 3}, 3},
		{"two", []int{8, 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := MedianOfThree.Pick(len(tt.data), func(i, j int) bool { return tt.data[i] < tt.data[j] })
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, len(tt.data))
			assert.Equal(t, tt.want, tt.data[idx])
		})
	}
}

func TestRandom_Deterministic(t *testing.T) {
	r1 := NewRandom(7)
	r2 := NewRandom(7)
	for n := 2; n < 100; n++ {
		i := r1.Pick(n, nil)
		assert.Equal(t, i, r2.Pick(n, nil))
		assert.Less(t, i, n)
	}
}

func TestParsePivot(t *testing.T) {
	for _, name := range append(PivotNames, "") {
		p, err := ParsePivot(name, 1)
		require.NoError(t, err, name)
		assert.NotNil(t, p)
	}

	_, err := ParsePivot("middle", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pivot strategy")
}

func TestIsSorted(t *testing.T) {
	assert.True(t, IsSorted([]int{}))
	assert.True(t, IsSorted([]int{1}))
	assert.True(t, IsSorted([]int{1, 1, 2}))
	assert.False(t, IsSorted([]int{2, 1}))
}

func TestIsSorted_NaN(t *testing.T) {
	nan := math.NaN()
	assert.True(t, IsSorted([]float64{nan, nan, -1, 2}))
	assert.False(t, IsSorted([]float64{1, nan, 0}))
	assert.False(t, IsSorted([]float64{1, nan}))

	data := []float64{3, nan, 1, nan, 2}
	Sort(data)
	require.True(t, IsSorted(data))
	assert.True(t, math.IsNaN(data[0]) && math.IsNaN(data[1]))
	assert.Equal(t, []float64{1, 2, 3}, data[2:])
}
