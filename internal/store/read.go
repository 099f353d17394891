package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ReadRun returns the run with the given ID, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var (
		run  Run
		seed string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, property, pivot, seed, trials, regressions, status
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Seq, &run.Property, &run.Pivot, &seed, &run.Trials, &run.Regressions, &run.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}

	run.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return Run{}, fmt.Errorf("read run: seed: %w", err)
	}
	return run, nil
}

// ReadRuns returns all runs for a property, oldest first.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadRuns(ctx context.Context, property string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, property, pivot, seed, trials, regressions, status
		FROM runs
		WHERE property = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, property)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run  Run
			seed string
		)
		if err := rows.Scan(&run.ID, &run.Seq, &run.Property, &run.Pivot, &seed, &run.Trials, &run.Regressions, &run.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("scan run: seed: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadCounterexamples returns the regression corpus for a property in the
// order the counterexamples were first found.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadCounterexamples(ctx context.Context, property string) ([]Counterexample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, property, code, input, original, seed, trial, shrinks, message, first_run, last_run, hits
		FROM counterexamples
		WHERE property = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, property)
	if err != nil {
		return nil, fmt.Errorf("query counterexamples: %w", err)
	}
	defer rows.Close()

	result := []Counterexample{}
	for rows.Next() {
		ce, err := scanCounterexample(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ce)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counterexamples: %w", err)
	}
	return result, nil
}

func scanCounterexample(rows *sql.Rows) (Counterexample, error) {
	var (
		ce              Counterexample
		input, original string
		seed            string
	)
	err := rows.Scan(&ce.ID, &ce.Seq, &ce.Property, &ce.Code, &input, &original, &seed,
		&ce.Trial, &ce.Shrinks, &ce.Message, &ce.FirstRun, &ce.LastRun, &ce.Hits)
	if err != nil {
		return Counterexample{}, fmt.Errorf("scan counterexample: %w", err)
	}

	if err := json.Unmarshal([]byte(input), &ce.Input); err != nil {
		return Counterexample{}, fmt.Errorf("scan counterexample %s: input: %w", ce.ID, err)
	}
	if err := json.Unmarshal([]byte(original), &ce.Original); err != nil {
		return Counterexample{}, fmt.Errorf("scan counterexample %s: original: %w", ce.ID, err)
	}
	if ce.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Counterexample{}, fmt.Errorf("scan counterexample %s: seed: %w", ce.ID, err)
	}
	return ce, nil
}
