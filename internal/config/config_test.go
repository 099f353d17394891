package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsortprop/internal/qsort"
)

func TestLoadBuiltin(t *testing.T) {
	set, err := LoadBuiltin()
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "extended", "quick"}, set.Names())

	def, err := set.Get("")
	require.NoError(t, err)
	assert.Equal(t, "default", def.Name)
	assert.Equal(t, 256, def.Trials)
	assert.Equal(t, "100ms", def.Timeout)
	assert.True(t, def.Ignored)
	assert.False(t, def.Extended)
	assert.Nil(t, def.Seed)
	assert.Equal(t, 100, def.MaxLen)
	assert.Equal(t, 1024, def.MaxShrinkSteps)
	assert.Equal(t, 1, def.Workers)
	assert.Equal(t, qsort.PivotMedian, def.Pivot)

	ext, err := set.Get("extended")
	require.NoError(t, err)
	assert.Equal(t, 4096, ext.Trials)
	assert.True(t, ext.Extended)
	assert.Equal(t, 4, ext.Workers)
}

func TestLoad_File(t *testing.T) {
	set, err := Load(filepath.Join("testdata", "profiles.cue"))
	require.NoError(t, err)
	assert.Equal(t, []string{"nightly", "smoke"}, set.Names())

	nightly, err := set.Get("nightly")
	require.NoError(t, err)
	require.NotNil(t, nightly.Seed)
	assert.Equal(t, ^uint64(0), *nightly.Seed)
	assert.Equal(t, qsort.PivotRandom, nightly.Pivot)

	cfg, err := nightly.Config()
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Trials)
	assert.Equal(t, ^uint64(0), cfg.Seed)
	assert.Equal(t, 8, cfg.Workers)
	assert.False(t, cfg.Skipped())

	smoke, err := set.Get("smoke")
	require.NoError(t, err)
	cfg, err = smoke.Config()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.True(t, cfg.Skipped())
	assert.Equal(t, 4, smoke.MaxLen)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	assert.ErrorContains(t, err, "read profile file")
}

func TestParse_SingleProfileIsDefault(t *testing.T) {
	set, err := Parse("one.cue", []byte(`profile: ci: trials: 3`))
	require.NoError(t, err)

	p, err := set.Get("")
	require.NoError(t, err)
	assert.Equal(t, "ci", p.Name)
	assert.Equal(t, 3, p.Trials)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", `profile: x: trails: 10`},
		{"zero trials", `profile: x: trials: 0`},
		{"bad pivot", `profile: x: pivot: "middle"`},
		{"negative seed", `profile: x: seed: -1`},
		{"too many workers", `profile: x: workers: 1000`},
		{"syntax", `profile: {`},
		{"no profiles", `other: 1`},
		{"empty profiles", `profile: {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.cue", []byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestParse_ErrorHasPosition(t *testing.T) {
	_, err := Parse("bad.cue", []byte("profile: x: {\n\ttrials: 0\n}\n"))
	require.Error(t, err)

	var pe *ProfileError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.Pos.IsValid())
	assert.Contains(t, err.Error(), "bad.cue:")
}

func TestSet_GetUnknown(t *testing.T) {
	set, err := LoadBuiltin()
	require.NoError(t, err)

	_, err = set.Get("nightly")
	assert.ErrorContains(t, err, `unknown profile "nightly"`)
}

func TestProfile_ConfigErrors(t *testing.T) {
	_, err := Profile{Name: "x", Trials: 1, Timeout: "soon", Workers: 1}.Config()
	assert.ErrorContains(t, err, "profile.x.timeout")

	_, err = Profile{Name: "x", Trials: 1, Timeout: "-1s", Workers: 1}.Config()
	assert.ErrorContains(t, err, "timeout must be non-negative")
}

func TestProfile_PivotStrategy(t *testing.T) {
	p, err := Profile{Pivot: qsort.PivotFirst}.PivotStrategy(1)
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = Profile{Pivot: "middle"}.PivotStrategy(1)
	assert.Error(t, err)
}
