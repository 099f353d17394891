package proptest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner checks a Target against a Config.
type Runner[T any] struct {
	cfg         Config
	target      Target[T]
	regressions []T
	logger      *slog.Logger
}

// NewRunner creates a runner. Logs are discarded unless WithLogger is used.
func NewRunner[T any](cfg Config, target Target[T]) *Runner[T] {
	return &Runner[T]{
		cfg:    cfg,
		target: target,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for trial and shrink progress.
func (r *Runner[T]) WithLogger(logger *slog.Logger) *Runner[T] {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithRegressions adds inputs that are checked, in order, before any random
// trial. They are typically minimized counterexamples from earlier runs.
func (r *Runner[T]) WithRegressions(inputs ...T) *Runner[T] {
	r.regressions = append(r.regressions, inputs...)
	return r
}

// Config returns the runner's configuration.
func (r *Runner[T]) Config() Config {
	return r.cfg
}

// Reproduce regenerates the input of the given trial of a run with seed.
func (r *Runner[T]) Reproduce(seed uint64, trial int) T {
	return r.target.Generator.Generate(trialRand(seed, trial))
}

// Check evaluates a single input under the per-case timeout, without
// shrinking or replay. It ignores Ignored/Extended. The input is not
// modified; a clone is handed to the target.
//
// Returns a nil *FailureError when the input passes. The error is non-nil
// only if ctx ended.
func (r *Runner[T]) Check(ctx context.Context, input T) (*FailureError, error) {
	if err := r.validateTarget(); err != nil {
		return nil, err
	}
	fe, err := r.evaluate(ctx, r.target.Clone(input))
	if err != nil || fe == nil {
		return nil, err
	}
	return r.describe(fe, -1, input, 0), nil
}

// failure is a failing input and why it failed.
type failure[T any] struct {
	trial int // -1 for regressions
	input T
	err   *FailureError
}

// Run executes the configured trials.
//
// The returned error is non-nil only when the run could not be carried out
// (invalid configuration or a cancelled context). Property violations,
// timeouts and flaky failures are reported through Result.
//
// Execution flow:
// 1. Skip if the configuration is ignored and not extended
// 2. Check regression inputs in order
// 3. Check random trials, possibly in parallel
// 4. Replay the first failure to detect flakiness
// 5. Shrink a reproducible failure
func (r *Runner[T]) Run(ctx context.Context) (*Result[T], error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := r.validateTarget(); err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}

	result := &Result[T]{
		Name:        r.target.Name,
		Seed:        r.cfg.Seed,
		Regressions: len(r.regressions),
	}

	if r.cfg.Skipped() {
		r.logger.Info("property skipped: ignored by default, run extended to enable",
			"property", r.target.Name,
		)
		result.Status = StatusSkipped
		return result, nil
	}

	start := time.Now()
	r.logger.Info("property run starting",
		"property", r.target.Name,
		"seed", r.cfg.Seed,
		"trials", r.cfg.Trials,
		"regressions", len(r.regressions),
		"workers", r.cfg.Workers,
	)

	found, err := r.checkRegressions(ctx)
	if err != nil {
		return nil, err
	}
	if found == nil {
		found, err = r.checkTrials(ctx)
		if err != nil {
			return nil, err
		}
	}

	if found == nil {
		result.Status = StatusPassed
		result.Trials = r.cfg.Trials
		r.logger.Info("property passed",
			"property", r.target.Name,
			"trials", r.cfg.Trials,
			"elapsed", time.Since(start),
		)
		return result, nil
	}

	result.Trials = found.trial + 1
	result.Original = found.input
	if err := r.resolve(ctx, found, result); err != nil {
		return nil, err
	}

	r.logger.Warn("property failed",
		"property", r.target.Name,
		"status", result.Status,
		"seed", r.cfg.Seed,
		"trial", found.trial,
		"shrinks", result.Err.Shrinks,
		"error", result.Err.Message,
	)
	return result, nil
}

func (r *Runner[T]) validateTarget() error {
	switch {
	case r.target.Generator == nil:
		return errors.New("generator is required")
	case r.target.Clone == nil:
		return errors.New("clone is required")
	case r.target.Apply == nil:
		return errors.New("apply is required")
	case r.target.Property == nil:
		return errors.New("property is required")
	}
	return nil
}

// resolve replays and shrinks a failure and fills in the result.
func (r *Runner[T]) resolve(ctx context.Context, found *failure[T], result *Result[T]) error {
	// Replay the untouched snapshot. A pass here means the failure
	// depends on something other than the input.
	replayErr, err := r.evaluate(ctx, r.target.Clone(found.input))
	if err != nil {
		return err
	}
	if replayErr == nil {
		result.Status = StatusFlaky
		result.Minimal = found.input
		result.Err = r.describe(&FailureError{
			Code:    CodeFlaky,
			Message: fmt.Sprintf("failure did not reproduce on replay: %s", found.err.Message),
		}, found.trial, found.input, 0)
		return nil
	}

	minimal, minErr, shrinks, exhausted, err := r.shrink(ctx, found.input, found.err)
	if err != nil {
		return err
	}

	result.Minimal = minimal
	result.ShrinkExhausted = exhausted
	result.Err = r.describe(minErr, found.trial, minimal, shrinks)
	if minErr.Code == CodeTimeout {
		result.Status = StatusTimeout
	} else {
		result.Status = StatusFailed
	}
	return nil
}

func (r *Runner[T]) describe(fe *FailureError, trial int, input T, shrinks int) *FailureError {
	return &FailureError{
		Code:     fe.Code,
		Message:  fe.Message,
		Property: r.target.Name,
		Seed:     r.cfg.Seed,
		Trial:    trial,
		Input:    input,
		Shrinks:  shrinks,
	}
}

func (r *Runner[T]) checkRegressions(ctx context.Context) (*failure[T], error) {
	for i, input := range r.regressions {
		snapshot := r.target.Clone(input)
		fe, err := r.evaluate(ctx, r.target.Clone(input))
		if err != nil {
			return nil, err
		}
		if fe != nil {
			r.logger.Info("regression input still fails",
				"property", r.target.Name,
				"index", i,
				"code", fe.Code,
			)
			return &failure[T]{trial: -1, input: snapshot, err: fe}, nil
		}
	}
	return nil, nil
}

// checkTrials returns the failure with the lowest trial index, if any.
func (r *Runner[T]) checkTrials(ctx context.Context) (*failure[T], error) {
	if r.cfg.Workers == 1 {
		for i := 0; i < r.cfg.Trials; i++ {
			found, err := r.trial(ctx, i)
			if err != nil || found != nil {
				return found, err
			}
		}
		return nil, nil
	}

	// Trials above the lowest failure seen so far are skipped. Every trial
	// below the final lowest failure still runs, so the reported failure
	// does not depend on scheduling.
	var (
		mu     sync.Mutex
		best   *failure[T]
		lowest atomic.Int64
	)
	lowest.Store(int64(r.cfg.Trials))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := 0; i < r.cfg.Trials; i++ {
		if int64(i) > lowest.Load() {
			break
		}
		g.Go(func() error {
			if int64(i) > lowest.Load() {
				return nil
			}
			found, err := r.trial(gctx, i)
			if err != nil || found == nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if best == nil || i < best.trial {
				best = found
				lowest.Store(int64(i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return best, nil
}

// trial generates and checks the input for trial i.
func (r *Runner[T]) trial(ctx context.Context, i int) (*failure[T], error) {
	var (
		snapshot T
		ready    bool
	)
	fe, err := r.guard(ctx, func() *FailureError {
		input := r.target.Generator.Generate(trialRand(r.cfg.Seed, i))
		snapshot = r.target.Clone(input)
		ready = true
		return r.check(snapshot, input)
	})
	if err != nil {
		return nil, err
	}
	if fe == nil {
		r.logger.Debug("trial passed", "property", r.target.Name, "trial", i)
		return nil, nil
	}

	r.logger.Info("trial failed",
		"property", r.target.Name,
		"trial", i,
		"code", fe.Code,
		"error", fe.Message,
	)

	// After a timeout the case goroutine may still be running, so its
	// snapshot is off limits; regenerate the input instead.
	input := snapshot
	if fe.Code == CodeTimeout || !ready {
		input = r.Reproduce(r.cfg.Seed, i)
	}
	return &failure[T]{trial: i, input: input, err: fe}, nil
}

// evaluate checks one concrete input under the time budget. The input is
// consumed; callers pass a clone when they need to keep it.
func (r *Runner[T]) evaluate(ctx context.Context, input T) (*FailureError, error) {
	return r.guard(ctx, func() *FailureError {
		return r.check(r.target.Clone(input), input)
	})
}

// check applies the target to input and judges the output against snapshot.
func (r *Runner[T]) check(snapshot, input T) *FailureError {
	output := r.target.Apply(input)
	if err := r.target.Property(snapshot, output); err != nil {
		return violation("%s", err.Error())
	}
	return nil
}

// guard runs fn under the per-case timeout and converts panics into
// violations. The returned error is non-nil only if ctx itself ended.
//
// A case that never returns leaks its goroutine; the timeout makes the
// hang visible, it cannot stop it.
func (r *Runner[T]) guard(ctx context.Context, fn func() *FailureError) (*FailureError, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	caseCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		caseCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	done := make(chan *FailureError, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- violation("panic: %v", p)
			}
		}()
		done <- fn()
	}()

	select {
	case fe := <-done:
		return fe, nil
	case <-caseCtx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &FailureError{
			Code:    CodeTimeout,
			Message: fmt.Sprintf("case exceeded time budget of %s", r.cfg.Timeout),
		}, nil
	}
}
