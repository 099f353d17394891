package proptest

import (
	"errors"
	"fmt"
)

// FailureCode categorizes a failed run.
type FailureCode string

const (
	// CodeViolation indicates the property rejected an output.
	CodeViolation FailureCode = "PROPERTY_VIOLATION"

	// CodeTimeout indicates a case exceeded the configured time budget.
	CodeTimeout FailureCode = "TIMEOUT"

	// CodeFlaky indicates a failing input passed when replayed.
	CodeFlaky FailureCode = "FLAKY"
)

// FailureError describes why a run failed, with enough context to
// reproduce it: the seed and trial regenerate the original input, and Input
// holds the minimized one.
type FailureError struct {
	// Code identifies the failure category.
	Code FailureCode

	// Message is the property's (or the guard's) description of the failure.
	Message string

	// Property names the checked target.
	Property string

	// Seed and Trial identify the generated input. Trial is -1 for
	// persisted regression inputs.
	Seed  uint64
	Trial int

	// Input is the minimized failing input.
	Input any

	// Shrinks counts accepted shrink steps.
	Shrinks int
}

// Error implements the error interface.
func (e *FailureError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Trial < 0 {
		return fmt.Sprintf("%s: %s (property=%s, regression, input=%v)", e.Code, e.Message, e.Property, e.Input)
	}
	return fmt.Sprintf("%s: %s (property=%s, seed=%d, trial=%d, input=%v)",
		e.Code, e.Message, e.Property, e.Seed, e.Trial, e.Input)
}

// IsViolation returns true if err is a property violation.
func IsViolation(err error) bool {
	return hasCode(err, CodeViolation)
}

// IsTimeout returns true if err is a timeout failure.
func IsTimeout(err error) bool {
	return hasCode(err, CodeTimeout)
}

// IsFlaky returns true if err is a flaky failure.
func IsFlaky(err error) bool {
	return hasCode(err, CodeFlaky)
}

func hasCode(err error, code FailureCode) bool {
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

func violation(format string, args ...any) *FailureError {
	return &FailureError{Code: CodeViolation, Message: fmt.Sprintf(format, args...)}
}
