// Package config loads the optional workspace configuration file
// (agentdoctor.yaml). Every field is optional; absent fields keep the
// built-in defaults, so a workspace without a config file behaves
// identically to one with an empty file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"agentdoctor/internal/check"
	"agentdoctor/internal/optimize"
)

// Config is the full workspace configuration.
type Config struct {
	Health   HealthConfig   `yaml:"health"`
	Optimize OptimizeConfig `yaml:"optimize"`
}

// HealthConfig tunes the health engine's scoring policy.
type HealthConfig struct {
	// Weights maps check category to weight. Partial maps override only
	// the named categories.
	Weights map[string]WeightConfig `yaml:"weights"`

	// Thresholds for the healthy/warning classification boundaries.
	Thresholds *ThresholdsConfig `yaml:"thresholds"`
}

// WeightConfig is one category's weight entry.
type WeightConfig struct {
	Weight   float64 `yaml:"weight"`
	Critical bool    `yaml:"critical"`
}

// ThresholdsConfig holds the classification boundaries.
type ThresholdsConfig struct {
	Healthy float64 `yaml:"healthy"`
	Warning float64 `yaml:"warning"`
}

// OptimizeConfig tunes the optimizer's performance policy. The
// optimizer's scoring is deliberately independent of the health
// engine's.
type OptimizeConfig struct {
	Thresholds *optimize.Thresholds `yaml:"thresholds"`
}

// Load reads the configuration file. A missing file yields the zero
// Config (all defaults); a file that exists but does not parse is an
// error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// HealthWeights overlays the configured weights on the defaults.
func (c *Config) HealthWeights(defaults map[string]check.Weight) map[string]check.Weight {
	out := make(map[string]check.Weight, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for category, w := range c.Health.Weights {
		out[category] = check.Weight{Weight: w.Weight, Critical: w.Critical}
	}
	return out
}

// HealthThresholds returns the configured classification boundaries,
// or the defaults when unset.
func (c *Config) HealthThresholds(defaults check.Thresholds) check.Thresholds {
	if c.Health.Thresholds == nil {
		return defaults
	}
	return check.Thresholds{
		Healthy: c.Health.Thresholds.Healthy,
		Warning: c.Health.Thresholds.Warning,
	}
}

// OptimizeThresholds returns the configured optimizer policy, or the
// defaults when unset.
func (c *Config) OptimizeThresholds(defaults optimize.Thresholds) optimize.Thresholds {
	if c.Optimize.Thresholds == nil {
		return defaults
	}
	return *c.Optimize.Thresholds
}
