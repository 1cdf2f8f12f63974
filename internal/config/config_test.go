package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdoctor/internal/check"
	"agentdoctor/internal/optimize"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "agentdoctor.yaml"))
	require.NoError(t, err)

	weights := cfg.HealthWeights(map[string]check.Weight{"config_valid": {Weight: 0.3, Critical: true}})
	assert.Equal(t, check.Weight{Weight: 0.3, Critical: true}, weights["config_valid"])
	assert.Equal(t, check.DefaultThresholds, cfg.HealthThresholds(check.DefaultThresholds))
	assert.Equal(t, optimize.DefaultThresholds, cfg.OptimizeThresholds(optimize.DefaultThresholds))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentdoctor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("health: [broken"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing YAML")
}

func TestPartialOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentdoctor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
health:
  weights:
    version_current:
      weight: 0.10
      critical: true
  thresholds:
    healthy: 95
    warning: 60
optimize:
  thresholds:
    success_rate: 0.90
    response_time: 3.0
    error_rate: 0.10
    efficiency: 0.70
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	defaults := map[string]check.Weight{
		"config_valid":    {Weight: 0.3, Critical: true},
		"version_current": {Weight: 0.05},
	}
	weights := cfg.HealthWeights(defaults)
	// Named category overridden, the rest untouched.
	assert.Equal(t, check.Weight{Weight: 0.10, Critical: true}, weights["version_current"])
	assert.Equal(t, defaults["config_valid"], weights["config_valid"])

	assert.Equal(t, check.Thresholds{Healthy: 95, Warning: 60}, cfg.HealthThresholds(check.DefaultThresholds))
	assert.Equal(t, optimize.Thresholds{
		SuccessRate:  0.90,
		ResponseTime: 3.0,
		ErrorRate:    0.10,
		Efficiency:   0.70,
	}, cfg.OptimizeThresholds(optimize.DefaultThresholds))
}
