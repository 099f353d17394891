package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsortprop/internal/canon"
)

func writeTestRun(t *testing.T, s *Store) string {
	t.Helper()
	id, err := s.WriteRun(context.Background(), Run{Property: "qsort", Pivot: "median3", Seed: 7, Trials: 256, Status: "failed"})
	require.NoError(t, err)
	return id
}

func TestWriteCounterexample_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	runID := writeTestRun(t, s)

	id, err := s.WriteCounterexample(ctx, Counterexample{
		Property: "qsort",
		Code:     "PROPERTY_VIOLATION",
		Input:    []int64{0},
		Original: []int64{9, 4, 200},
		Seed:     7,
		Trial:    3,
		Shrinks:  5,
		Message:  "length changed",
		LastRun:  runID,
	})
	require.NoError(t, err)

	wantID, err := canon.CounterexampleID("qsort", "PROPERTY_VIOLATION", []int64{0})
	require.NoError(t, err)
	assert.Equal(t, wantID, id)

	corpus, err := s.ReadCounterexamples(ctx, "qsort")
	require.NoError(t, err)
	require.Len(t, corpus, 1)

	ce := corpus[0]
	assert.Equal(t, id, ce.ID)
	assert.Equal(t, []int64{0}, ce.Input)
	assert.Equal(t, []int64{9, 4, 200}, ce.Original)
	assert.Equal(t, uint64(7), ce.Seed)
	assert.Equal(t, 3, ce.Trial)
	assert.Equal(t, 5, ce.Shrinks)
	assert.Equal(t, "length changed", ce.Message)
	assert.Equal(t, runID, ce.FirstRun)
	assert.Equal(t, runID, ce.LastRun)
	assert.Equal(t, 1, ce.Hits)
}

func TestWriteCounterexample_DuplicateBumpsHits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	firstRun := writeTestRun(t, s)
	secondRun := writeTestRun(t, s)

	ce := Counterexample{Property: "qsort", Code: "PROPERTY_VIOLATION", Input: []int64{1, 0}, Seed: 7, Trial: 0, LastRun: firstRun}
	id1, err := s.WriteCounterexample(ctx, ce)
	require.NoError(t, err)

	ce.LastRun = secondRun
	ce.Seed = 99
	id2, err := s.WriteCounterexample(ctx, ce)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	corpus, err := s.ReadCounterexamples(ctx, "qsort")
	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, 2, corpus[0].Hits)
	assert.Equal(t, firstRun, corpus[0].FirstRun)
	assert.Equal(t, secondRun, corpus[0].LastRun)
	assert.Equal(t, uint64(7), corpus[0].Seed, "first sighting's seed is kept")
}

func TestWriteCounterexample_EmptyInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	runID := writeTestRun(t, s)

	_, err := s.WriteCounterexample(ctx, Counterexample{Property: "qsort", Code: "TIMEOUT", LastRun: runID})
	require.NoError(t, err)

	corpus, err := s.ReadCounterexamples(ctx, "qsort")
	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, []int64{}, corpus[0].Input)
}

func TestWriteCounterexample_RequiresRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.WriteCounterexample(ctx, Counterexample{Property: "qsort", Code: "TIMEOUT"})
	assert.ErrorContains(t, err, "run id is required")

	// Foreign key enforcement rejects unknown runs.
	_, err = s.WriteCounterexample(ctx, Counterexample{Property: "qsort", Code: "TIMEOUT", LastRun: "no-such-run"})
	assert.Error(t, err)
}

func TestReadCounterexamples_OrderAndFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	runID := writeTestRun(t, s)

	inputs := [][]int64{{3}, {1}, {2}}
	for _, in := range inputs {
		_, err := s.WriteCounterexample(ctx, Counterexample{Property: "qsort", Code: "PROPERTY_VIOLATION", Input: in, LastRun: runID})
		require.NoError(t, err)
	}
	_, err := s.WriteCounterexample(ctx, Counterexample{Property: "other", Code: "PROPERTY_VIOLATION", Input: []int64{5}, LastRun: runID})
	require.NoError(t, err)

	corpus, err := s.ReadCounterexamples(ctx, "qsort")
	require.NoError(t, err)
	require.Len(t, corpus, 3)
	for i, in := range inputs {
		assert.Equal(t, in, corpus[i].Input)
	}
}

func TestDeleteCounterexample(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	runID := writeTestRun(t, s)

	id, err := s.WriteCounterexample(ctx, Counterexample{Property: "qsort", Code: "PROPERTY_VIOLATION", Input: []int64{0}, LastRun: runID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCounterexample(ctx, id))
	assert.ErrorIs(t, s.DeleteCounterexample(ctx, id), ErrNotFound)

	corpus, err := s.ReadCounterexamples(ctx, "qsort")
	require.NoError(t, err)
	assert.Empty(t, corpus)
}
