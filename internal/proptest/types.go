package proptest

import (
	"cmp"
	"slices"
)

// Target is the code under test together with how to generate, copy and
// judge its inputs.
type Target[T any] struct {
	// Name identifies the target in results and logs.
	Name string

	// Generator draws inputs and proposes smaller ones.
	Generator Generator[T]

	// Clone returns an independent copy. The snapshot of every input is
	// taken with Clone, so it must never alias its argument.
	Clone func(T) T

	// Apply runs the code under test. It may mutate its argument and
	// returns the value the property judges.
	Apply func(T) T

	// Property judges (snapshot, output).
	Property Property[T]
}

// InPlace adapts an in-place slice operation to Target.Apply.
func InPlace[E any](fn func([]E)) func([]E) []E {
	return func(s []E) []E {
		fn(s)
		return s
	}
}

// SortTarget builds the target for an in-place sort: the output must be a
// permutation of the input in non-decreasing order.
func SortTarget[E cmp.Ordered](name string, gen Generator[[]E], sort func([]E)) Target[[]E] {
	return Target[[]E]{
		Name:      name,
		Generator: gen,
		Clone:     func(s []E) []E { return slices.Clone(s) },
		Apply:     InPlace(sort),
		Property:  All(Permutation[E], NonDecreasing[E]),
	}
}

// Status is the outcome of a run.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
	StatusFlaky   Status = "flaky"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of Runner.Run.
type Result[T any] struct {
	// Name is the target name.
	Name string

	// Status is the overall outcome.
	Status Status

	// Seed is the base seed of the run.
	Seed uint64

	// Trials is the number of trials covered: all of them on success, or
	// up to and including the failing one.
	Trials int

	// Regressions is the number of persisted inputs checked before the
	// random trials.
	Regressions int

	// Original is the first failing input, before shrinking.
	Original T

	// Minimal is the shrunk failing input.
	Minimal T

	// ShrinkExhausted is set when shrinking stopped at its budget rather
	// than at a local minimum.
	ShrinkExhausted bool

	// Err describes the failure. Nil for passed and skipped runs.
	Err *FailureError
}

// Passed reports whether the run found no failure.
// A skipped run counts as passed.
func (r *Result[T]) Passed() bool {
	return r.Status == StatusPassed || r.Status == StatusSkipped
}

// Failure returns the failure as an error, or nil.
func (r *Result[T]) Failure() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}
