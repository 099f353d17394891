package proptest

import (
	"fmt"
	"time"
)

// Defaults for Config.
const (
	DefaultTrials         = 256
	DefaultTimeout        = 100 * time.Millisecond
	DefaultMaxShrinkSteps = 1024
)

// Config holds harness-wide parameters. It is read-only once a run starts.
type Config struct {
	// Trials is the number of random inputs to check.
	Trials int

	// Timeout bounds each trial and each shrink evaluation (generation,
	// the code under test and the property together). Zero disables it.
	Timeout time.Duration

	// Ignored marks the run as excluded from the default test pass.
	Ignored bool

	// Extended opts in to running an Ignored configuration.
	Extended bool

	// Seed is the base seed for all trials.
	Seed uint64

	// MaxShrinkSteps caps the number of candidates evaluated while
	// shrinking a single failure.
	MaxShrinkSteps int

	// Workers is the number of trials evaluated concurrently.
	Workers int
}

// DefaultConfig returns the configuration for the sort scenario: 256 trials,
// a 100ms per-case budget, ignored by default, seeded from the wall clock.
func DefaultConfig() Config {
	return Config{
		Trials:         DefaultTrials,
		Timeout:        DefaultTimeout,
		Ignored:        true,
		Seed:           uint64(time.Now().UnixNano()),
		MaxShrinkSteps: DefaultMaxShrinkSteps,
		Workers:        1,
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s", c.Timeout)
	}
	if c.MaxShrinkSteps < 0 {
		return fmt.Errorf("max shrink steps must be non-negative, got %d", c.MaxShrinkSteps)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Skipped reports whether a run with this configuration should be skipped.
func (c Config) Skipped() bool {
	return c.Ignored && !c.Extended
}
