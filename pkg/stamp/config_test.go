package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/phasepose/pkg/pose"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Finalize())

	shifter, err := cfg.GetPeriodShifter()
	require.NoError(t, err)
	assert.Nil(t, shifter)
}

func TestConfigYamlRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Verbosity = 2
	cfg.PhysicalPeriod = 2.5
	cfg.CameraQuarterTurns = 3
	cfg.PeriodShifter = "nearest"
	cfg.FixedShift2 = -1
	cfg.Candidates = []Candidate{
		{Name: "a", X: 10, Y: 20},
		{Name: "b", X: 30, Y: 40, HasCoarse: true, CoarseX: 1.5, CoarseY: -2},
	}

	cfg2, err := newConfigFromYaml([]byte(cfg.AsYaml()))
	require.NoError(t, err)
	assert.Equal(t, cfg, cfg2)
}

func TestConfigFromPartialYaml(t *testing.T) {
	cfg, err := newConfigFromYaml([]byte("physicalperiod: 4\nsnapshotsize: 256\ncandidates:\n- name: x\n  x: 5\n  y: 6\n"))
	require.NoError(t, err)

	assert.Equal(t, 4.0, cfg.PhysicalPeriod)
	assert.Equal(t, 256, cfg.SnapshotSize)
	assert.Equal(t, NewConfig().FilterSigma, cfg.FilterSigma) // defaults survive
	require.Len(t, cfg.Candidates, 1)
	assert.Equal(t, Candidate{Name: "x", X: 5, Y: 6}, cfg.Candidates[0])

	_, err = newConfigFromYaml([]byte("snapshotsize: [oops"))
	assert.Error(t, err)
}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Config)
	}{
		{"tiny snapshot", func(c *Config) { c.SnapshotSize = 4 }},
		{"huge margin", func(c *Config) { c.FitMargin = 64 }},
		{"no sigma", func(c *Config) { c.FilterSigma = 0 }},
		{"negative refine", func(c *Config) { c.RefinePasses = -1 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative period", func(c *Config) { c.PhysicalPeriod = -1 }},
		{"bad shifter", func(c *Config) { c.PeriodShifter = "guess" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.tweak(&cfg)
			assert.Error(t, cfg.Finalize())
		})
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := NewConfig()
	cfg.PeriodShifter = "nearest"
	shifter, err := cfg.GetPeriodShifter()
	require.NoError(t, err)
	assert.Equal(t, pose.NearestShift{}, shifter)

	cfg.PhysicalPeriod = 3
	cfg.FixedShift1, cfg.FixedShift2 = 2, -1
	assert.Equal(t, pose.Reconstruction{PhysicalPeriod: 3, PeriodShift1: 2, PeriodShift2: -1}, cfg.Reconstruction())

	ps := cfg.PeakSearch()
	assert.Equal(t, cfg.MinPeakRadius, ps.MinRadius)
	assert.Equal(t, cfg.OrthogonalityTolDeg, ps.OrthogonalityTolDeg)
}

func TestCandidateString(t *testing.T) {
	assert.Equal(t, "a@(1,2)", Candidate{Name: "a", X: 1, Y: 2}.String())
	assert.Equal(t, "b@(1,2)~(0.5,-3)", Candidate{Name: "b", X: 1, Y: 2, HasCoarse: true, CoarseX: 0.5, CoarseY: -3}.String())
}
