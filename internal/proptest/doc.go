// Package proptest provides a property-based test runner built for
// algorithms that mutate a buffer in place.
//
// A Runner draws inputs from a Generator, snapshots each input, applies the
// code under test to the input and evaluates a Property against the
// (snapshot, output) pair. A failing input is replayed once to separate
// deterministic failures from flaky ones, then shrunk to a local minimum by
// greedily accepting the first smaller candidate that still fails.
//
// # Determinism
//
// Every trial draws from its own PCG source seeded with (Config.Seed, trial
// index). A reported failure can be regenerated with Runner.Reproduce and the
// outcome of a run does not depend on Config.Workers: when trials run in
// parallel the lowest failing trial index is the one shrunk and reported.
//
// # Failure Categories
//
//   - PROPERTY_VIOLATION: the property returned an error (or the code under
//     test panicked). Reported with the minimized input.
//   - TIMEOUT: generation, the code under test or the property exceeded
//     Config.Timeout. Likely an infinite loop rather than a wrong answer.
//   - FLAKY: the failing input passed when replayed.
//
// None of these are retried or downgraded.
//
// # Extended Runs
//
// Randomized runs are comparatively expensive. A Config with Ignored set
// reports StatusSkipped unless Extended opts in, which mirrors a test that is
// excluded from the default fast pass.
//
// # Usage
//
//	gen := proptest.SliceOf(proptest.Uint8(), 100)
//	runner := proptest.NewRunner(proptest.DefaultConfig(),
//	    proptest.SortTarget("qsort", gen, qsort.Sort[uint8]))
//	result, err := runner.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Passed() {
//	    log.Println(result.Err)
//	}
package proptest
