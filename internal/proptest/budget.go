package proptest

import "fmt"

// ShrinkBudget counts candidate evaluations while shrinking one failure and
// enforces a maximum.
//
// Greedy shrinking always terminates because every candidate is strictly
// smaller, but a large input can still take a long time to minimize. The
// budget caps that work; a shrink that runs out reports the smallest input
// found so far.
type ShrinkBudget struct {
	max     int
	current int
}

// NewShrinkBudget creates a budget allowing max evaluations.
func NewShrinkBudget(max int) *ShrinkBudget {
	return &ShrinkBudget{max: max}
}

// Check records one evaluation and returns *BudgetExceededError once the
// limit is passed.
func (b *ShrinkBudget) Check() error {
	b.current++
	if b.current > b.max {
		return &BudgetExceededError{Steps: b.current, Limit: b.max}
	}
	return nil
}

// Current returns the number of evaluations recorded.
func (b *ShrinkBudget) Current() int {
	return b.current
}

// Max returns the limit.
func (b *ShrinkBudget) Max() int {
	return b.max
}

// BudgetExceededError is returned when shrinking exceeds its budget.
type BudgetExceededError struct {
	Steps int
	Limit int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("shrink budget exceeded (%d > %d)", e.Steps, e.Limit)
}
