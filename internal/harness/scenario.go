package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qsortprop/internal/qsort"
)

// Scenario defines a sort scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pivot selects the pivot strategy. Empty means median3.
	Pivot string `yaml:"pivot,omitempty"`

	// Cases are example inputs sorted one at a time.
	Cases []Case `yaml:"cases,omitempty"`

	// Property is an optional seeded property run.
	Property *PropertyRun `yaml:"property,omitempty"`

	// Assertions must hold for every output.
	Assertions []Assertion `yaml:"assertions"`
}

// Case is a single example input.
type Case struct {
	// Name labels the case in reports. Optional.
	Name string `yaml:"name,omitempty"`

	// Input is the sequence to sort. Missing means empty.
	Input []int64 `yaml:"input"`

	// Expect is the exact expected output, used by matches_expect.
	Expect []int64 `yaml:"expect,omitempty"`
}

// PropertyRun configures a randomized run over generated inputs.
type PropertyRun struct {
	// Trials is the number of generated inputs. Required.
	Trials int `yaml:"trials"`

	// Seed fixes the generator so the report is reproducible.
	Seed uint64 `yaml:"seed"`

	// MaxLen bounds generated lengths.
	MaxLen int `yaml:"max_len"`

	// Min and Max bound generated elements. Both zero means 0..255.
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`

	// Timeout is the per-case budget as a Go duration. Empty means 1s.
	Timeout string `yaml:"timeout,omitempty"`
}

// Assertion names a check applied to every output.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`
}

// Assertion type constants.
const (
	AssertPermutation   = "permutation"
	AssertNonDecreasing = "non_decreasing"
	AssertIdempotent    = "idempotent"
	AssertMatchesExpect = "matches_expect"
)

const defaultPropertyTimeout = time.Second

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 && s.Property == nil {
		return fmt.Errorf("at least one of cases or property is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if _, err := qsort.ParsePivot(s.Pivot, 0); err != nil {
		return fmt.Errorf("pivot: %w", err)
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, s); err != nil {
			return err
		}
	}

	if s.Property != nil {
		if err := validateProperty(s.Property); err != nil {
			return fmt.Errorf("property: %w", err)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion, s *Scenario) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertPermutation, AssertNonDecreasing, AssertIdempotent:
	case AssertMatchesExpect:
		if len(s.Cases) == 0 {
			return fmt.Errorf("assertions[%d]: matches_expect requires cases", index)
		}
		for i, c := range s.Cases {
			if c.Expect == nil {
				return fmt.Errorf("assertions[%d]: matches_expect requires expect on cases[%d]", index, i)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func validateProperty(p *PropertyRun) error {
	if p.Trials <= 0 {
		return fmt.Errorf("trials must be positive")
	}
	if p.MaxLen < 0 {
		return fmt.Errorf("max_len must be non-negative")
	}
	if p.Min > p.Max {
		return fmt.Errorf("min %d is greater than max %d", p.Min, p.Max)
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("timeout must be non-negative")
		}
	}
	return nil
}

// bounds returns the element range, defaulting to the uint8 domain.
func (p *PropertyRun) bounds() (int64, int64) {
	if p.Min == 0 && p.Max == 0 {
		return 0, 255
	}
	return p.Min, p.Max
}

func (p *PropertyRun) timeout() time.Duration {
	if p.Timeout == "" {
		return defaultPropertyTimeout
	}
	d, _ := time.ParseDuration(p.Timeout)
	return d
}
