package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorcf/internal/gb"
	"github.com/alexiusacademia/gorcf/internal/verify"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gorcf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	r := Default()
	require.NoError(t, r.Validate())

	require.NoError(t, r.Grid().Validate())

	cat, err := r.BuildCatalog()
	require.NoError(t, err)
	assert.Equal(t, 77, cat.Len())

	cfg := r.GAConfig()
	assert.Equal(t, 50, cfg.PopulationSize)
	assert.Equal(t, 100, cfg.Generations)
	assert.Equal(t, 0.8, cfg.CrossoverRate)

	params := r.VerifyParams()
	assert.Equal(t, verify.ExposureI, params.Exposure)
	assert.Equal(t, 942.0, params.BeamAsMM2)
	assert.Equal(t, 1520.0, params.ColumnAsMM2)
	assert.Equal(t, gb.C30HRB400(), params.Material)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
frame:
  spans_m: [5.0, 5.0, 5.0]
  story_heights_m: [3.0, 3.0]
  dead_load_knm: 18
  live_load_knm: 8
ga:
  population_size: 24
  seed: 42
`)
	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 5, 5}, r.Frame.SpansM)
	assert.Equal(t, []float64{3, 3}, r.Frame.StoryHeightsM)
	assert.Equal(t, 18.0, r.Frame.DeadLoadKNM)
	assert.Equal(t, 8.0, r.Frame.LiveLoadKNM)

	// Untouched blocks keep their defaults.
	assert.Equal(t, 24, r.GA.PopulationSize)
	assert.Equal(t, 100, r.GA.Generations)
	assert.EqualValues(t, 42, r.GA.Seed)
	assert.Equal(t, 50.0, r.Catalog.StepMM)
	assert.Equal(t, 942.0, r.Verification.BeamAsMM2)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative span", "frame:\n  spans_m: [-1.0]\n  story_heights_m: [3.0]"},
		{"zero dead load", "frame:\n  dead_load_knm: 0"},
		{"tiny population", "ga:\n  population_size: 1"},
		{"crossover out of range", "ga:\n  crossover_rate: 1.5"},
		{"elites exceed population", "ga:\n  elites: 60"},
		{"unknown exposure", "verification:\n  exposure: III"},
		{"inverted catalog bounds", "catalog:\n  max_width_mm: 100"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadWindRequiresSpacing(t *testing.T) {
	_, err := Load(writeConfig(t, `
frame:
  wind:
    basic_pressure_knm2: 0.45
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame_spacing_m")
}

func TestLoadWindDefaults(t *testing.T) {
	r, err := Load(writeConfig(t, `
frame:
  frame_spacing_m: 8
  wind:
    basic_pressure_knm2: 0.2
`))
	require.NoError(t, err)

	grid := r.Grid()
	require.NotNil(t, grid.Wind)
	assert.Equal(t, 0.3, grid.Wind.W0, "basic pressure floors at 0.3")
	assert.Equal(t, 1.3, grid.Wind.MuS)
	assert.Equal(t, gb.TerrainB, grid.Wind.Terrain)
	assert.Equal(t, 8.0, grid.FrameSpacingM)
}

func TestLoadWindOverrides(t *testing.T) {
	r, err := Load(writeConfig(t, `
frame:
  frame_spacing_m: 6
  wind:
    basic_pressure_knm2: 0.55
    shape_factor: 1.4
    terrain: C
`))
	require.NoError(t, err)

	grid := r.Grid()
	require.NotNil(t, grid.Wind)
	assert.Equal(t, 0.55, grid.Wind.W0)
	assert.Equal(t, 1.4, grid.Wind.MuS)
	assert.Equal(t, gb.TerrainC, grid.Wind.Terrain)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "frame: ["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gorcf.yaml")

	require.NoError(t, WriteDefault(path))
	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), r)

	err = WriteDefault(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
