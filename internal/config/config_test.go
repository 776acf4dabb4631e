package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, StrategyDenseBinary, cfg.Strategy)
	assert.Equal(t, PrioritySymbolic, cfg.ReasoningPriority)
	assert.True(t, cfg.AutoLoadCore)
	assert.Equal(t, 20, cfg.MaxArity)
	assert.Equal(t, 5, cfg.MaxProofDepth)
	assert.Equal(t, 100, cfg.CSPMaxSolutions)
	assert.Equal(t, 10_000, cfg.CSPTimeoutMS)
	assert.True(t, cfg.FallbackToSymbolic)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Strategy, cfg.Strategy)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	cfg := DefaultConfig()
	cfg.Strategy = StrategyExact
	cfg.Geometry = 4096
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StrategyExact, loaded.Strategy)
	assert.Equal(t, 4096, loaded.Geometry)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SYS2_STRATEGY", "sparse-polynomial")
	t.Setenv("SYS2_GEOMETRY", "2048")
	t.Setenv("SYS2_REASONING_PRIORITY", "holographic")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, StrategySparsePolynomial, cfg.Strategy)
	assert.Equal(t, 2048, cfg.Geometry)
	assert.Equal(t, PriorityHolographic, cfg.ReasoningPriority)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "not-a-strategy"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Geometry = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxArity = 0
	assert.Error(t, cfg.Validate())
}
