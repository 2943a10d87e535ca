// Package config provides configuration loading and management for the dose
// metrics tool. It handles loading structure parameters from YAML files and
// provides clinically common default values.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StructureParam maps a structure-name pattern to its gEUD exponent.
type StructureParam struct {
	// Pattern is matched case-insensitively as a substring of structure IDs.
	Pattern string `yaml:"pattern"`

	// Exponent is the tissue-specific gEUD exponent a. Large positive values
	// describe serial organs, values near 1 parallel organs, and negative
	// values target volumes. Zero is invalid: it makes the final 1/a power
	// in the gEUD formula undefined.
	Exponent float64 `yaml:"a"`
}

// Config represents the application configuration loaded from YAML.
// It is the caller-owned parameter surface of the metric engine: which
// structures get a gEUD and with what exponent, which structure names denote
// target volumes eligible for a homogeneity index, and how not-computable
// results are rendered.
type Config struct {
	// GEUD parameters
	GEUD struct {
		// Structures is the ordered pattern table for gEUD exponents.
		// The first pattern matching a structure ID wins.
		Structures []StructureParam `yaml:"structures"`
	} `yaml:"geud"`

	// Homogeneity index parameters
	HI struct {
		// TargetPatterns lists the substrings identifying target volumes,
		// the only structures the homogeneity index is reported for.
		TargetPatterns []string `yaml:"targetPatterns"`
	} `yaml:"hi"`

	// Report parameters
	Report struct {
		// NotComputable is the text rendered for metrics that could not be
		// computed.
		NotComputable string `yaml:"notComputable"`

		// Precision is the number of decimals used for metric values.
		Precision int `yaml:"precision"`
	} `yaml:"report"`
}

// DefaultConfig returns a configuration with default values: a parameter
// table of commonly used exponents (serial organs around a = 20, parallel
// organs around a = 1, targets negative) and the usual target-volume naming
// conventions.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.GEUD.Structures = []StructureParam{
		{Pattern: "cord", Exponent: 20},
		{Pattern: "brainstem", Exponent: 7},
		{Pattern: "esophagus", Exponent: 19},
		{Pattern: "heart", Exponent: 3},
		{Pattern: "liver", Exponent: 3},
		{Pattern: "lung", Exponent: 1},
		{Pattern: "parotid", Exponent: 1},
		{Pattern: "ptv", Exponent: -0.1},
		{Pattern: "ctv", Exponent: -0.1},
	}

	cfg.HI.TargetPatterns = []string{"ptv", "ctv", "gtv"}

	cfg.Report.NotComputable = "N/A"
	cfg.Report.Precision = 2

	return cfg
}

// LoadConfig loads configuration from a YAML file and validates it.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Parameter mistakes are rejected here, at configuration time, rather
	// than surfacing later as per-structure computation failures.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate checks the configuration for parameter-authoring mistakes:
// empty patterns and exponents that are zero or not finite.
func (cfg *Config) Validate() error {
	for i, sp := range cfg.GEUD.Structures {
		if strings.TrimSpace(sp.Pattern) == "" {
			return fmt.Errorf("geud structure %d: empty pattern", i)
		}
		if sp.Exponent == 0 {
			return fmt.Errorf("geud pattern %q: exponent a must not be zero", sp.Pattern)
		}
		if math.IsNaN(sp.Exponent) || math.IsInf(sp.Exponent, 0) {
			return fmt.Errorf("geud pattern %q: exponent a must be finite", sp.Pattern)
		}
	}

	for i, pattern := range cfg.HI.TargetPatterns {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("hi target pattern %d: empty pattern", i)
		}
	}

	if cfg.Report.Precision < 0 {
		return fmt.Errorf("report precision must not be negative, got %d", cfg.Report.Precision)
	}

	return nil
}

// ExponentFor returns the gEUD exponent for a structure ID. Patterns match
// case-insensitively as substrings, and the first configured match wins.
// The second return is false when no pattern matches.
func (cfg *Config) ExponentFor(structureID string) (float64, bool) {
	id := strings.ToLower(structureID)
	for _, sp := range cfg.GEUD.Structures {
		if strings.Contains(id, strings.ToLower(sp.Pattern)) {
			return sp.Exponent, true
		}
	}
	return 0, false
}

// IsTarget reports whether a structure ID names a target volume under the
// configured naming convention.
func (cfg *Config) IsTarget(structureID string) bool {
	id := strings.ToLower(structureID)
	for _, pattern := range cfg.HI.TargetPatterns {
		if strings.Contains(id, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
