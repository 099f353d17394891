package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/roach88/qsortprop/internal/canon"
)

// Run is one harness invocation.
type Run struct {
	ID          string
	Seq         int64
	Property    string
	Pivot       string
	Seed        uint64
	Trials      int
	Regressions int
	Status      string
}

// Counterexample is a minimized failing input.
type Counterexample struct {
	ID       string
	Seq      int64
	Property string
	Code     string
	Input    []int64
	Original []int64
	Seed     uint64
	Trial    int
	Shrinks  int
	Message  string
	FirstRun string
	LastRun  string
	Hits     int
}

// WriteRun inserts a run record. A missing ID is filled with NewRunID.
// Returns the run ID.
func (s *Store) WriteRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seq, property, pivot, seed, trials, regressions, status)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Property,
		run.Pivot,
		strconv.FormatUint(run.Seed, 10),
		run.Trials,
		run.Regressions,
		run.Status,
	)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}
	return run.ID, nil
}

// WriteCounterexample records a counterexample found by run ce.LastRun.
//
// The ID is derived from (property, code, input). A new counterexample is
// inserted with FirstRun = LastRun; a known one has its hit count
// incremented and LastRun updated, keeping the original seed and trial.
// Returns the counterexample ID.
func (s *Store) WriteCounterexample(ctx context.Context, ce Counterexample) (string, error) {
	if ce.LastRun == "" {
		return "", fmt.Errorf("write counterexample: run id is required")
	}

	id, err := canon.CounterexampleID(ce.Property, ce.Code, nonNil(ce.Input))
	if err != nil {
		return "", fmt.Errorf("write counterexample: %w", err)
	}
	input, err := canon.Marshal(nonNil(ce.Input))
	if err != nil {
		return "", fmt.Errorf("write counterexample: input: %w", err)
	}
	original, err := canon.Marshal(nonNil(ce.Original))
	if err != nil {
		return "", fmt.Errorf("write counterexample: original: %w", err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO counterexamples
			(id, seq, property, code, input, original, seed, trial, shrinks, message, first_run, last_run)
			VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM counterexamples), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				hits = hits + 1,
				last_run = excluded.last_run
		`,
			id,
			ce.Property,
			ce.Code,
			string(input),
			string(original),
			strconv.FormatUint(ce.Seed, 10),
			ce.Trial,
			ce.Shrinks,
			ce.Message,
			ce.LastRun,
			ce.LastRun,
		)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("write counterexample: %w", err)
	}
	return id, nil
}

// DeleteCounterexample removes a counterexample, typically once it passes.
// Returns ErrNotFound if no record has the ID.
func (s *Store) DeleteCounterexample(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM counterexamples WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete counterexample: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete counterexample: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete counterexample %s: %w", id, ErrNotFound)
	}
	return nil
}

func nonNil(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}
