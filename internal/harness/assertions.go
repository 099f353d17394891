package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/qsortprop/internal/proptest"
)

// AssertionError is returned when an assertion fails on an example case.
// It includes the input and output to help debug the failure.
type AssertionError struct {
	Type   string  // Assertion type for categorization
	Case   string  // Case label
	Input  []int64 // Input before sorting
	Output []int64 // Engine output
	Reason string  // Property failure message
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Case: %s\n", e.Case)
	fmt.Fprintf(&buf, "  Input: %v\n", e.Input)
	fmt.Fprintf(&buf, "  Output: %v\n", e.Output)
	fmt.Fprintf(&buf, "  Reason: %s", e.Reason)

	return buf.String()
}

// caseProperty returns the property checked by an assertion on one case.
func caseProperty(a Assertion, c Case, engine Engine) proptest.Property[[]int64] {
	if a.Type == AssertMatchesExpect {
		return proptest.Equals(c.Expect)
	}
	return assertionProperty(a, engine)
}

// assertionProperty maps an input-independent assertion to its property.
// Returns nil for matches_expect.
func assertionProperty(a Assertion, engine Engine) proptest.Property[[]int64] {
	switch a.Type {
	case AssertPermutation:
		return proptest.Permutation[int64]
	case AssertNonDecreasing:
		return proptest.NonDecreasing[int64]
	case AssertIdempotent:
		return proptest.Idempotent(proptest.InPlace(engine))
	}
	return nil
}

// EvaluateAssertions checks every assertion against one sorted case.
// Returns a failure message per violated assertion.
func EvaluateAssertions(label string, c Case, output []int64, assertions []Assertion, engine Engine) []string {
	var errs []string
	for _, a := range assertions {
		if err := caseProperty(a, c, engine)(c.Input, slices.Clone(output)); err != nil {
			errs = append(errs, (&AssertionError{
				Type:   a.Type,
				Case:   label,
				Input:  c.Input,
				Output: output,
				Reason: err.Error(),
			}).Error())
		}
	}
	return errs
}

// propertyFor combines the scenario's assertions into the property used by
// the randomized run. Without any applicable assertion the run checks the
// sort contract: permutation and non-decreasing order.
func propertyFor(assertions []Assertion, engine Engine) proptest.Property[[]int64] {
	var props []proptest.Property[[]int64]
	for _, a := range assertions {
		if p := assertionProperty(a, engine); p != nil {
			props = append(props, p)
		}
	}
	if len(props) == 0 {
		props = []proptest.Property[[]int64]{proptest.Permutation[int64], proptest.NonDecreasing[int64]}
	}
	return proptest.All(props...)
}
