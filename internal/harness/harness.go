package harness

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/qsortprop/internal/proptest"
	"github.com/roach88/qsortprop/internal/qsort"
)

// Engine sorts a sequence in place.
type Engine func(s []int64)

// Harness executes scenarios against one engine.
type Harness struct {
	engine Engine
	pivot  string
	logger *slog.Logger
}

// Run executes a scenario against the quicksort engine configured with the
// scenario's pivot strategy. The random strategy is seeded from the
// property seed, or 0.
func Run(scenario *Scenario) (*Result, error) {
	var seed uint64
	if scenario.Property != nil {
		seed = scenario.Property.Seed
	}
	pivot, err := qsort.ParsePivot(scenario.Pivot, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pivot: %w", err)
	}

	name := scenario.Pivot
	if name == "" {
		name = qsort.PivotMedian
	}

	h := &Harness{
		engine: func(s []int64) { qsort.SortStrategy(s, cmp.Compare[int64], pivot) },
		pivot:  name,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.Run(context.Background(), scenario)
}

// RunEngine executes a scenario against an arbitrary engine. The reported
// pivot is the scenario's, as declared.
func RunEngine(scenario *Scenario, engine Engine) (*Result, error) {
	h := &Harness{
		engine: engine,
		pivot:  scenario.Pivot,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.Run(context.Background(), scenario)
}

// WithLogger returns a copy of h that logs to logger.
func (h *Harness) WithLogger(logger *slog.Logger) *Harness {
	c := *h
	c.logger = logger
	return &c
}

// Run executes the scenario's cases, then its property run.
//
// Execution flow:
// 1. Sort a copy of every case input and evaluate the assertions
// 2. Run the property block, if any, through proptest.Runner
// 3. Return result with pass/fail, outcomes and errors
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()
	result.Pivot = h.pivot

	for i, c := range scenario.Cases {
		label := c.Name
		if label == "" {
			label = fmt.Sprintf("cases[%d]", i)
		}

		output, err := h.sortCase(c.Input)
		if err != nil {
			result.Cases = append(result.Cases, CaseOutcome{Name: c.Name, Input: c.Input, Output: []int64{}})
			result.AddError(fmt.Sprintf("%s: %v", label, err))
			continue
		}

		errs := EvaluateAssertions(label, c, output, scenario.Assertions, h.engine)
		for _, msg := range errs {
			result.AddError(msg)
		}
		result.Cases = append(result.Cases, CaseOutcome{
			Name:   c.Name,
			Input:  c.Input,
			Output: output,
			Pass:   len(errs) == 0,
		})
		h.logger.Debug("case sorted", "case", label, "pass", len(errs) == 0)
	}

	if scenario.Property != nil {
		outcome, err := h.runProperty(ctx, scenario)
		if err != nil {
			return nil, fmt.Errorf("failed to run property: %w", err)
		}
		result.Property = outcome
		if outcome.Status != string(proptest.StatusPassed) {
			result.AddError(fmt.Sprintf("property %s: %s", outcome.Status, outcome.Reason))
		}
	}

	return result, nil
}

// sortCase sorts a copy of input, converting an engine panic into an error.
func (h *Harness) sortCase(input []int64) (output []int64, err error) {
	output = slices.Clone(input)
	if output == nil {
		output = []int64{}
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panicked: %v", r)
		}
	}()
	h.engine(output)
	return output, nil
}

func (h *Harness) runProperty(ctx context.Context, scenario *Scenario) (*PropertyOutcome, error) {
	p := scenario.Property
	lo, hi := p.bounds()

	cfg := proptest.DefaultConfig()
	cfg.Trials = p.Trials
	cfg.Seed = p.Seed
	cfg.Timeout = p.timeout()
	cfg.Ignored = false

	target := proptest.Target[[]int64]{
		Name:      scenario.Name,
		Generator: proptest.SliceOf(proptest.Int64Range(lo, hi), p.MaxLen),
		Clone:     func(s []int64) []int64 { return slices.Clone(s) },
		Apply:     proptest.InPlace(func(s []int64) { h.engine(s) }),
		Property:  propertyFor(scenario.Assertions, h.engine),
	}

	res, err := proptest.NewRunner(cfg, target).WithLogger(h.logger).Run(ctx)
	if err != nil {
		return nil, err
	}

	outcome := &PropertyOutcome{
		Status: string(res.Status),
		Seed:   res.Seed,
		Trials: res.Trials,
	}
	if res.Err != nil {
		outcome.Minimal = res.Minimal
		outcome.Reason = res.Err.Message
	}
	return outcome, nil
}
