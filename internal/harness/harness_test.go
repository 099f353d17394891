package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsortprop/internal/proptest"
	"github.com/roach88/qsortprop/internal/testutil"
)

func TestRun_ConcreteExample(t *testing.T) {
	s := &Scenario{
		Name:        "concrete",
		Description: "d",
		Cases:       []Case{{Input: []int64{3, 1, 4, 1, 5, 9, 2, 6}, Expect: []int64{1, 1, 2, 3, 4, 5, 6, 9}}},
		Assertions:  []Assertion{{Type: AssertPermutation}, {Type: AssertNonDecreasing}, {Type: AssertMatchesExpect}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "median3", result.Pivot)
	require.Len(t, result.Cases, 1)
	assert.Equal(t, []int64{1, 1, 2, 3, 4, 5, 6, 9}, result.Cases[0].Output)
	assert.Equal(t, []int64{3, 1, 4, 1, 5, 9, 2, 6}, result.Cases[0].Input, "input must not be sorted in place")
	assert.Nil(t, result.Property)
}

func TestRun_EveryPivot(t *testing.T) {
	for _, pivot := range []string{"first", "last", "median3", "random"} {
		t.Run(pivot, func(t *testing.T) {
			s := &Scenario{
				Name:        pivot,
				Description: "d",
				Pivot:       pivot,
				Cases:       []Case{{Input: []int64{5, 4, 3, 2, 1, 1}, Expect: []int64{1, 1, 2, 3, 4, 5}}},
				Property:    &PropertyRun{Trials: 32, Seed: 9, MaxLen: 40},
				Assertions:  []Assertion{{Type: AssertPermutation}, {Type: AssertNonDecreasing}, {Type: AssertMatchesExpect}},
			}

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Equal(t, pivot, result.Pivot)
			require.NotNil(t, result.Property)
			assert.Equal(t, "passed", result.Property.Status)
			assert.Equal(t, 32, result.Property.Trials)
		})
	}
}

func TestRunEngine_CaseFailure(t *testing.T) {
	s := &Scenario{
		Name:        "noop",
		Description: "d",
		Cases: []Case{
			{Name: "sorted", Input: []int64{1, 2}, Expect: []int64{1, 2}},
			{Name: "unsorted", Input: []int64{2, 1}, Expect: []int64{1, 2}},
		},
		Assertions: []Assertion{{Type: AssertNonDecreasing}, {Type: AssertMatchesExpect}},
	}

	result, err := RunEngine(s, testutil.Noop[int64])
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Cases, 2)
	assert.True(t, result.Cases[0].Pass)
	assert.False(t, result.Cases[1].Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Case: unsorted")
	assert.Contains(t, result.Errors[1], "matches_expect")
}

func TestRunEngine_Panic(t *testing.T) {
	s := &Scenario{
		Name:        "panic",
		Description: "d",
		Cases:       []Case{{Input: []int64{1, 2, 3}}},
		Assertions:  []Assertion{{Type: AssertPermutation}},
	}

	result, err := RunEngine(s, testutil.PanicOnLength[int64](3))
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "cases[0]: engine panicked: index out of range in partition", result.Errors[0])
	assert.Equal(t, []int64{}, result.Cases[0].Output)
}

func TestRunEngine_PropertyFailureIsShrunk(t *testing.T) {
	s := &Scenario{
		Name:        "noop_property",
		Description: "d",
		Property:    &PropertyRun{Trials: 64, Seed: testutil.FixedSeed, MaxLen: 20},
		Assertions:  []Assertion{{Type: AssertPermutation}, {Type: AssertNonDecreasing}},
	}

	result, err := RunEngine(s, testutil.Noop[int64])
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.NotNil(t, result.Property)
	assert.Equal(t, string(proptest.StatusFailed), result.Property.Status)
	assert.Equal(t, []int64{1, 0}, result.Property.Minimal)
	assert.Contains(t, result.Property.Reason, "not sorted at index 1")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "property failed")
}

func TestHarness_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := (&Harness{engine: sortEngine, pivot: "median3"}).WithLogger(logger)
	s := &Scenario{
		Name:        "logged",
		Description: "d",
		Cases:       []Case{{Name: "one", Input: []int64{2, 1}}},
		Assertions:  []Assertion{{Type: AssertNonDecreasing}},
	}

	result, err := h.Run(t.Context(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Contains(t, buf.String(), "case sorted")
	assert.Contains(t, buf.String(), "case=one")
}
