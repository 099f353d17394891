package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/qsortprop/internal/proptest"
	"github.com/roach88/qsortprop/internal/qsort"
)

//go:embed schema.cue
var schemaCUE string

//go:embed builtin.cue
var builtinCUE string

// DefaultProfile is selected when no profile name is given.
const DefaultProfile = "default"

// Profile is one decoded harness profile.
type Profile struct {
	Name           string  `json:"-"`
	Trials         int     `json:"trials"`
	Timeout        string  `json:"timeout"`
	Ignored        bool    `json:"ignored"`
	Extended       bool    `json:"extended"`
	Seed           *uint64 `json:"seed,omitempty"`
	MaxLen         int     `json:"max_len"`
	MaxShrinkSteps int     `json:"max_shrink_steps"`
	Workers        int     `json:"workers"`
	Pivot          string  `json:"pivot"`
}

// Config converts the profile into a runner configuration. A profile
// without a seed keeps the time-based seed from proptest.DefaultConfig.
func (p Profile) Config() (proptest.Config, error) {
	timeout, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return proptest.Config{}, &ProfileError{Profile: p.Name, Field: "timeout", Message: err.Error()}
	}

	cfg := proptest.DefaultConfig()
	cfg.Trials = p.Trials
	cfg.Timeout = timeout
	cfg.Ignored = p.Ignored
	cfg.Extended = p.Extended
	cfg.MaxShrinkSteps = p.MaxShrinkSteps
	cfg.Workers = p.Workers
	if p.Seed != nil {
		cfg.Seed = *p.Seed
	}

	if err := cfg.Validate(); err != nil {
		return proptest.Config{}, &ProfileError{Profile: p.Name, Field: "config", Message: err.Error()}
	}
	return cfg, nil
}

// PivotStrategy resolves the profile's pivot name. The random strategy is
// seeded with seed so that runs stay reproducible.
func (p Profile) PivotStrategy(seed uint64) (qsort.PivotStrategy, error) {
	return qsort.ParsePivot(p.Pivot, seed)
}

// ProfileError reports an invalid profile, with a CUE position when known.
type ProfileError struct {
	Profile string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ProfileError) Error() string {
	prefix := e.Field
	if e.Profile != "" {
		prefix = "profile." + e.Profile + "." + e.Field
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			prefix, e.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Set is a collection of validated profiles.
type Set struct {
	profiles map[string]Profile
}

// Names returns the profile names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named profile. An empty name selects DefaultProfile, or
// the only profile when the set has exactly one.
func (s *Set) Get(name string) (Profile, error) {
	if name == "" {
		if len(s.profiles) == 1 {
			for _, p := range s.profiles {
				return p, nil
			}
		}
		name = DefaultProfile
	}
	p, ok := s.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q: available profiles are %v", name, s.Names())
	}
	return p, nil
}

// LoadBuiltin returns the built-in profile set.
func LoadBuiltin() (*Set, error) {
	return Parse("builtin.cue", []byte(builtinCUE))
}

// Load reads and validates a CUE profile file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}
	return Parse(path, data)
}

// Parse validates CUE source against the profile schema. filename is used
// for error positions only.
func Parse(filename string, src []byte) (*Set, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile profile schema: %w", err)
	}

	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	value := schema.Unify(file)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	profilesVal := value.LookupPath(cue.ParsePath("profile"))
	if !profilesVal.Exists() {
		return nil, &ProfileError{Field: "profile", Message: "no profiles declared"}
	}

	iter, err := profilesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	set := &Set{profiles: make(map[string]Profile)}
	for iter.Next() {
		var p Profile
		if err := iter.Value().Decode(&p); err != nil {
			return nil, formatCUEError(err)
		}
		p.Name = iter.Selector().Unquoted()
		set.profiles[p.Name] = p
	}
	if len(set.profiles) == 0 {
		return nil, &ProfileError{Field: "profile", Message: "no profiles declared"}
	}

	return set, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &ProfileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
