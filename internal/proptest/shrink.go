package proptest

import (
	"context"
	"errors"
)

// maxShrinkTimeouts bounds the candidates allowed to time out while
// shrinking one failure. A timed-out case keeps its goroutine, so every
// hanging candidate is one more goroutine that never exits.
const maxShrinkTimeouts = 3

// shrink greedily minimizes a failing input. It repeatedly evaluates the
// generator's candidates for the current input and moves to the first one
// that fails with the same code, until no candidate fails or the budget is
// spent.
//
// Candidates failing with a different code are rejected so that a property
// violation never shrinks into a timeout or the reverse. Shrinking stops
// early, as if the budget ran out, after maxShrinkTimeouts timed-out
// candidates.
func (r *Runner[T]) shrink(ctx context.Context, input T, fe *FailureError) (T, *FailureError, int, bool, error) {
	budget := NewShrinkBudget(r.cfg.MaxShrinkSteps)
	current, currentErr := input, fe
	accepted, timeouts := 0, 0

	for {
		improved := false
		for _, candidate := range r.target.Generator.Shrink(current) {
			if err := budget.Check(); err != nil {
				var be *BudgetExceededError
				if errors.As(err, &be) {
					r.logger.Info("shrink budget exhausted",
						"property", r.target.Name,
						"steps", be.Steps,
						"limit", be.Limit,
						"accepted", accepted,
					)
				}
				return current, currentErr, accepted, true, nil
			}

			candErr, err := r.evaluate(ctx, r.target.Clone(candidate))
			if err != nil {
				return current, currentErr, accepted, false, err
			}
			if candErr != nil && candErr.Code == CodeTimeout {
				timeouts++
			}
			fails := candErr != nil && candErr.Code == currentErr.Code
			if fails {
				current, currentErr = candidate, candErr
				accepted++
				improved = true
				r.logger.Debug("shrink step accepted",
					"property", r.target.Name,
					"accepted", accepted,
					"evaluated", budget.Current(),
				)
			}
			if timeouts >= maxShrinkTimeouts {
				r.logger.Info("shrink stopped after repeated timeouts",
					"property", r.target.Name,
					"timeouts", timeouts,
					"accepted", accepted,
				)
				return current, currentErr, accepted, true, nil
			}
			if fails {
				break
			}
		}
		if !improved {
			return current, currentErr, accepted, false, nil
		}
	}
}
