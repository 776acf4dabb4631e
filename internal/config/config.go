// Package config holds session configuration: the HDC strategy selection,
// reasoning priority, geometry, and ambient limits enumerated in spec.md
// §6.4, plus logging and theory-file resolution settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Strategy names one of the HDC substrates a session can select.
type Strategy string

const (
	StrategyExact            Strategy = "exact"
	StrategyDenseBinary      Strategy = "dense-binary"
	StrategySparsePolynomial Strategy = "sparse-polynomial"
	StrategyMetricAffine     Strategy = "metric-affine"
)

// ReasoningPriority selects which reasoning engine runs first.
type ReasoningPriority string

const (
	PrioritySymbolic    ReasoningPriority = "symbolic"
	PriorityHolographic ReasoningPriority = "holographic"
)

// Config holds all session configuration (spec.md §6.4).
type Config struct {
	Strategy          Strategy          `yaml:"strategy"`
	Geometry          int               `yaml:"geometry"`
	ReasoningPriority ReasoningPriority  `yaml:"reasoning_priority"`
	AutoLoadCore      bool              `yaml:"auto_load_core"`
	MaxArity          int               `yaml:"max_arity"`
	MaxProofDepth     int               `yaml:"max_proof_depth"`
	CSPMaxSolutions   int               `yaml:"csp_max_solutions"`
	CSPTimeoutMS      int               `yaml:"csp_timeout_ms"`
	FallbackToSymbolic bool             `yaml:"fallback_to_symbolic"`

	// BasePath resolves relative theory-file paths for the Load directive
	// (spec.md §6.2).
	BasePath string `yaml:"base_path"`

	// RandomSeed is loaded from and saved to the YAML file; no session
	// component reads it. Atom vectors come from create_from_name, seeded
	// by name, theory and dimension.
	RandomSeed int64 `yaml:"random_seed"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the session's zap-backed logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	JSONFormat bool   `yaml:"json_format"` // structured JSON vs console encoding
	Enabled    bool   `yaml:"enabled"`     // false = Nop registry (default)
}

// DefaultConfig returns the documented defaults from spec.md §6.4.
func DefaultConfig() *Config {
	return &Config{
		Strategy:           StrategyDenseBinary,
		Geometry:           16384,
		ReasoningPriority:  PrioritySymbolic,
		AutoLoadCore:       true,
		MaxArity:           20,
		MaxProofDepth:      5,
		CSPMaxSolutions:    100,
		CSPTimeoutMS:       10_000,
		FallbackToSymbolic: true,
		BasePath:           ".",
		Logging: LoggingConfig{
			Level:      "info",
			JSONFormat: false,
			Enabled:    false,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults for
// any field the file doesn't set and for the file not existing at all.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create dir %s: %w", dir, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets ambient environment variables override file/default
// settings, the same override-after-load order the teacher's config uses.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SYS2_STRATEGY"); v != "" {
		c.Strategy = Strategy(v)
	}
	if v := os.Getenv("SYS2_GEOMETRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Geometry = n
		}
	}
	if v := os.Getenv("SYS2_REASONING_PRIORITY"); v != "" {
		c.ReasoningPriority = ReasoningPriority(v)
	}
	if v := os.Getenv("SYS2_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("SYS2_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
		c.Logging.Enabled = true
	}
}

// ValidStrategies enumerates the strategies a session can select.
var ValidStrategies = []Strategy{
	StrategyExact, StrategyDenseBinary, StrategySparsePolynomial, StrategyMetricAffine,
}

// Validate checks the configuration is self-consistent before a session is
// constructed from it.
func (c *Config) Validate() error {
	validStrategy := false
	for _, s := range ValidStrategies {
		if c.Strategy == s {
			validStrategy = true
			break
		}
	}
	if !validStrategy {
		return fmt.Errorf("config: invalid strategy %q (valid: %v)", c.Strategy, ValidStrategies)
	}
	if c.ReasoningPriority != PrioritySymbolic && c.ReasoningPriority != PriorityHolographic {
		return fmt.Errorf("config: invalid reasoning_priority %q", c.ReasoningPriority)
	}
	if c.Geometry <= 0 {
		return fmt.Errorf("config: geometry must be positive, got %d", c.Geometry)
	}
	if c.MaxArity < 1 {
		return fmt.Errorf("config: max_arity must be >= 1, got %d", c.MaxArity)
	}
	if c.MaxProofDepth < 1 {
		return fmt.Errorf("config: max_proof_depth must be >= 1, got %d", c.MaxProofDepth)
	}
	if c.CSPMaxSolutions < 1 {
		return fmt.Errorf("config: csp_max_solutions must be >= 1, got %d", c.CSPMaxSolutions)
	}
	if c.CSPTimeoutMS < 1 {
		return fmt.Errorf("config: csp_timeout_ms must be >= 1, got %d", c.CSPTimeoutMS)
	}
	return nil
}
