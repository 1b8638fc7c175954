// Package config handles loading and managing engine configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

// Config is the top-level configuration.
type Config struct {
	Scoring  scoring.Weights `yaml:"scoring"`
	Features features.Config `yaml:"features"`
	Analysis AnalysisConfig  `yaml:"analysis"`
}

// AnalysisConfig controls the orchestration layer around the pure scorer.
type AnalysisConfig struct {
	// AIFlagThreshold triggers the slow-path analyzer when the fast path
	// produced fewer flags than this.
	AIFlagThreshold int `yaml:"ai_flag_threshold"`
	// AITimeoutSeconds bounds one slow-path call end to end.
	AITimeoutSeconds int `yaml:"ai_timeout_seconds"`
	// DefaultAlternatives is how many alternatives to return when the caller
	// does not say.
	DefaultAlternatives int `yaml:"default_alternatives"`
	// ResultCacheSize bounds the in-memory analysis result cache.
	ResultCacheSize int `yaml:"result_cache_size"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring:  scoring.DefaultWeights(),
		Features: features.Defaults(),
		Analysis: AnalysisConfig{
			AIFlagThreshold:     2,
			AITimeoutSeconds:    10,
			DefaultAlternatives: 5,
			ResultCacheSize:     512,
		},
	}
}

// Load reads a config file from the given path, overlaying it on defaults.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .fam/config.yaml in the given directory and its
// parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".fam", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// ModelDir returns the default on-disk location for serialized model params
// and ledgers.
func ModelDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "fam", "models")
}

// GraphDir returns the default on-disk location for graph snapshots.
func GraphDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "fam", "graphs")
}
