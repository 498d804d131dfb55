// Package config loads project-level settings for the consensus engine
// from quorum.yml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ModelParams are the reliability-model inputs used to derive voting
// margins from a declared target.
type ModelParams struct {
	// P is the per-step probability that one sample is individually
	// non-defective. Must exceed 0.5 for voting to help.
	P float64 `yaml:"p,omitempty"`

	// Target is the desired end-to-end success probability.
	Target float64 `yaml:"target,omitempty"`

	// CostPerSample prices one generator draw, in dollars.
	CostPerSample float64 `yaml:"costPerSample,omitempty"`
}

// TaskOverride adjusts one task class's voting profile.
type TaskOverride struct {
	K         int      `yaml:"k,omitempty"`
	MaxRounds int      `yaml:"maxRounds,omitempty"`
	MaxTokens int      `yaml:"maxTokens,omitempty"`
	Checks    []string `yaml:"checks,omitempty"`
}

// ProjectConfig holds settings loaded from quorum.yml.
type ProjectConfig struct {
	// Concurrency is the system-wide admission bound on in-flight draws.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Endpoints lists generator agent URLs.
	Endpoints []string `yaml:"endpoints,omitempty"`

	// Model configures margin derivation.
	Model ModelParams `yaml:"model,omitempty"`

	// Tasks maps task-class names to profile overrides.
	Tasks map[string]TaskOverride `yaml:"tasks,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read quorum.yml or quorum.yaml from the given directory.
// Returns a zero-value config (not an error) if no config file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"quorum.yml", "quorum.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
