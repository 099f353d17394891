package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/qsortprop/internal/canon"
)

// Report renders a result as a canonical map for golden comparison.
// Keys with empty values are omitted so that reports stay minimal.
func Report(name string, result *Result) map[string]any {
	cases := make([]any, len(result.Cases))
	for i, c := range result.Cases {
		m := map[string]any{
			"input":  nonNil(c.Input),
			"output": nonNil(c.Output),
			"pass":   c.Pass,
		}
		if c.Name != "" {
			m["name"] = c.Name
		}
		cases[i] = m
	}

	report := map[string]any{
		"name":   name,
		"pass":   result.Pass,
		"cases":  cases,
		"errors": nonNilStrings(result.Errors),
	}
	if result.Pivot != "" {
		report["pivot"] = result.Pivot
	}
	if p := result.Property; p != nil {
		prop := map[string]any{
			"status": p.Status,
			"seed":   p.Seed,
			"trials": p.Trials,
		}
		if p.Minimal != nil {
			prop["minimal"] = p.Minimal
		}
		if p.Reason != "" {
			prop["reason"] = p.Reason
		}
		report["property"] = prop
	}
	return report
}

// MarshalReport returns the canonical JSON report for a result.
func MarshalReport(name string, result *Result) ([]byte, error) {
	return canon.Marshal(Report(name, result))
}

// ReportDigest returns the content hash of a scenario report. Two runs with
// the same digest produced byte-identical golden output.
func ReportDigest(name string, result *Result) (string, error) {
	return canon.Digest(Report(name, result))
}

// RunWithGolden executes a scenario and compares the report against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the report doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	reportJSON, err := MarshalReport(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, reportJSON)

	return nil
}

func nonNil(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
