// Package harness runs sort scenarios described in YAML.
//
// A scenario pins example inputs for the sort engine and, optionally, a
// seeded property run. It states which assertions must hold for every
// output.
//
// # Scenario Format
//
//	name: concrete_example
//	description: "Sorts the canonical example"
//	pivot: median3
//	cases:
//	  - name: mixed
//	    input: [3, 1, 4, 1, 5, 9, 2, 6]
//	    expect: [1, 1, 2, 3, 4, 5, 6, 9]
//	property:
//	  trials: 64
//	  seed: 42
//	  max_len: 32
//	  min: -100
//	  max: 100
//	assertions:
//	  - type: permutation
//	  - type: non_decreasing
//	  - type: matches_expect
//
// # Assertion Types
//
//   - permutation: output has the same length and multiset as the input
//   - non_decreasing: every adjacent pair of the output is ordered
//   - idempotent: sorting the output again leaves it unchanged
//   - matches_expect: output equals the case's expect list (cases only)
//
// Example cases are checked one by one. The property block runs the
// proptest runner with every assertion except matches_expect, which has
// no expected value for generated inputs.
//
// # Golden Reports
//
// RunWithGolden renders the result as canonical JSON and compares it with
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
