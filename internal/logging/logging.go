// Package logging provides categorized, structured session diagnostics.
//
// Each session owns one zap.Logger (or a no-op logger, if none is supplied)
// and derives one child logger per Category via With("category", ...), so
// log lines can be filtered or routed per subsystem without a global logger
// registry — mirrors the category-per-subsystem idea, rebuilt on zap instead
// of ad hoc file-per-category log files, since a session never touches disk.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a logging subsystem. Session components request a
// category-scoped logger from a Registry rather than logging directly
// against the root logger, so log lines are always attributable.
type Category string

const (
	CategorySession     Category = "session"
	CategoryVocabulary  Category = "vocabulary"
	CategoryCompiler    Category = "compiler"
	CategoryKB          Category = "kb"
	CategoryReasoning   Category = "reasoning"
	CategoryHolographic Category = "holographic"
	CategoryRules       Category = "rules"
	CategoryCSP         Category = "csp"
	CategoryHDC         Category = "hdc"
)

// Registry hands out category-scoped loggers derived from one root logger.
type Registry struct {
	root *zap.Logger
}

// NewRegistry builds a Registry around root. A nil root is replaced with a
// no-op logger, so a session with no logging configured never writes to
// stdout/stderr by default.
func NewRegistry(root *zap.Logger) *Registry {
	if root == nil {
		root = zap.NewNop()
	}
	return &Registry{root: root}
}

// For returns the logger scoped to category, as a SugaredLogger for
// printf-style call sites (matching the rest of the codebase's logging
// idiom).
func (r *Registry) For(category Category) *zap.SugaredLogger {
	return r.root.With(zap.String("category", string(category))).Sugar()
}

// New builds a root zap.Logger for the given level and format, suitable for
// passing to NewRegistry. jsonFormat selects JSON encoding (for machine
// consumption) over the human-readable console encoder.
func New(level string, jsonFormat bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if !jsonFormat {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(level)); err != nil {
		zl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zl)

	return cfg.Build()
}

// Nop returns a Registry that discards everything, for tests and library
// callers that never configured logging.
func Nop() *Registry {
	return NewRegistry(zap.NewNop())
}
