package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-ai/quorum/internal/redflag"
	"github.com/inkstone-ai/quorum/internal/reliability"
	"github.com/inkstone-ai/quorum/internal/task"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_MissingFileYieldsZeroConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, cfg.Concurrency)
	assert.Empty(t, cfg.Endpoints)
	assert.Empty(t, cfg.Tasks)
}

func TestLoad_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "quorum.yml", `
concurrency: 25
endpoints:
  - http://agent-1:8080
  - http://agent-2:8080
model:
  p: 0.95
  target: 0.95
  costPerSample: 0.01
tasks:
  objective:
    maxRounds: 20
    checks: [length, format]
  ranking:
    k: 3
verbose: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Concurrency)
	assert.Equal(t, []string{"http://agent-1:8080", "http://agent-2:8080"}, cfg.Endpoints)
	assert.Equal(t, 0.95, cfg.Model.P)
	assert.Equal(t, 0.01, cfg.Model.CostPerSample)
	assert.True(t, cfg.Verbose)

	require.Contains(t, cfg.Tasks, "objective")
	assert.Equal(t, 20, cfg.Tasks["objective"].MaxRounds)
	assert.Equal(t, []string{"length", "format"}, cfg.Tasks["objective"].Checks)
	assert.Equal(t, 3, cfg.Tasks["ranking"].K)
}

func TestLoad_AcceptsYamlExtension(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "quorum.yaml", "concurrency: 7\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Concurrency)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "quorum.yml", "concurrency: [not an int\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestProfileFor_DefaultsWhenUnconfigured(t *testing.T) {
	cfg := &ProjectConfig{}

	p, err := cfg.ProfileFor(task.KindObjective, 0)
	require.NoError(t, err)
	assert.Equal(t, task.DefaultProfile(task.KindObjective), p)
}

func TestProfileFor_DerivesMarginFromModel(t *testing.T) {
	cfg := &ProjectConfig{Model: ModelParams{P: 0.95, Target: 0.95}}

	p, err := cfg.ProfileFor(task.KindObjective, 1000)
	require.NoError(t, err)
	assert.Equal(t, 4, p.K)

	// Without a step count there is nothing to derive from.
	p, err = cfg.ProfileFor(task.KindObjective, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, p.K)
}

func TestProfileFor_ExplicitKWinsOverDerivation(t *testing.T) {
	cfg := &ProjectConfig{
		Model: ModelParams{P: 0.95, Target: 0.95},
		Tasks: map[string]TaskOverride{
			"objective": {K: 9, MaxTokens: 900},
		},
	}

	p, err := cfg.ProfileFor(task.KindObjective, 1000)
	require.NoError(t, err)
	assert.Equal(t, 9, p.K)
	assert.Equal(t, 900, p.MaxTokens)
	// Fields the override leaves zero keep their defaults.
	assert.Equal(t, 12, p.MaxRounds)
}

func TestProfileFor_ChecksOverrideReplacesDefaults(t *testing.T) {
	cfg := &ProjectConfig{
		Tasks: map[string]TaskOverride{
			"objective": {Checks: []string{"format"}},
		},
	}

	p, err := cfg.ProfileFor(task.KindObjective, 0)
	require.NoError(t, err)
	assert.Equal(t, []redflag.Check{redflag.CheckFormat}, p.Checks)
}

func TestProfileFor_InfeasibleModelSurfaces(t *testing.T) {
	cfg := &ProjectConfig{Model: ModelParams{P: 0.4, Target: 0.95}}

	_, err := cfg.ProfileFor(task.KindRanking, 100)
	assert.ErrorIs(t, err, reliability.ErrInfeasible)
}
