// Package session implements the Session Context (spec.md §4.2, §3
// "Session"): the universe root that owns the strategy instance,
// vocabulary, KB, indices, loaded-theory set, graph table, and the
// statistics block, and exposes the binding-agnostic API of spec.md §6.3.
package session

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sys2core/internal/ast"
	"sys2core/internal/atom"
	"sys2core/internal/compiler"
	"sys2core/internal/config"
	"sys2core/internal/contradiction"
	"sys2core/internal/csp"
	"sys2core/internal/hdc"
	"sys2core/internal/kb"
	"sys2core/internal/logging"
	"sys2core/internal/reasoning/holographic"
	"sys2core/internal/reasoning/symbolic"
	"sys2core/internal/rules"
	"sys2core/internal/semantic"
	"sys2core/internal/vocabulary"
)

// Parser is implemented by the external Sys2DSL lexer/parser (spec.md §1
// "out of scope"). Session depends on it only to resolve `@_ Load "<path>"`
// directives against theory files on disk; a session that never loads a
// theory file from a directive never needs one.
type Parser interface {
	Parse(source []byte) (*ast.Document, error)
}

// Stats is the session's statistics counter block (spec.md §3 "Session").
type Stats struct {
	FactsLearned           int
	LearnBatchesRejected   int
	QueriesRun             int
	ProvesRun              int
	ForwardChainIterations int
	Holographic            holographic.Stats
}

// Session is the universe root (spec.md §3 "Session"). Constructed on
// Open, destroyed on Close; nothing it owns is shared with another
// session in the same process.
type Session struct {
	id     string
	config *config.Config
	logs   *logging.Registry

	strategy hdc.Strategy
	geom     hdc.Geometry
	vocab    *vocabulary.Vocabulary
	kb       *kb.KB
	semantic *semantic.Index
	scope    *compiler.Scope
	compiler *compiler.Compiler

	symbolic    *symbolic.Engine
	holographic *holographic.Engine

	detector *contradiction.Detector
	parser   Parser

	loadedTheories map[string]bool // theory file path -> loaded, for Load idempotency

	// ruleLiterals holds rule condition/conclusion templates bound by a
	// dest-bound hole-bearing statement (e.g. `@c isA ?x Human`), so a
	// later `@r Implies $c $k` can recover their Literal structure (spec.md
	// §3 "Rule", scenario C). Rolled back on a rejected learn batch exactly
	// like scope bindings.
	ruleLiterals map[string]kb.Literal

	stats Stats
}

// Open constructs a Session from cfg, the one per-session instance of
// every stateful strategy and index spec.md §3 "Session" requires. logger
// may be nil (a no-op registry is substituted, matching the teacher's
// silent-by-default logging policy); parser may be nil if the caller never
// issues a Load directive.
func Open(cfg *config.Config, parser Parser, logger *zap.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session: open: %w", err)
	}

	geom := hdc.Geometry{Dim: cfg.Geometry}
	strategy, err := hdc.New(string(cfg.Strategy), geom)
	if err != nil {
		return nil, fmt.Errorf("session: open: %w", err)
	}

	vocab := vocabulary.New(strategy, geom)
	const rootTheory = atom.CoreTheoryID
	for _, name := range atom.ReservedNames(cfg.MaxArity) {
		vocab.Intern(name, rootTheory)
	}

	store := kb.New()
	sem := semantic.New()
	scope := compiler.NewScope()
	comp := compiler.New(vocab, strategy, geom, cfg.MaxArity, rootTheory)

	symEngine := symbolic.New(store, sem).WithMaxDepth(cfg.MaxProofDepth)
	holoEngine := holographic.New(strategy, vocab, store, symEngine, geom, cfg.FallbackToSymbolic)

	s := &Session{
		id:             uuid.NewString(),
		config:         cfg,
		logs:           registryFor(logger),
		strategy:       strategy,
		geom:           geom,
		vocab:          vocab,
		kb:             store,
		semantic:       sem,
		scope:          scope,
		compiler:       comp,
		symbolic:       symEngine,
		holographic:    holoEngine,
		detector:       contradiction.New(store, sem),
		parser:         parser,
		loadedTheories: make(map[string]bool),
		ruleLiterals:   make(map[string]kb.Literal),
	}

	if cfg.AutoLoadCore {
		if _, err := s.Learn(CorePack()); err != nil {
			return nil, fmt.Errorf("session: open: loading core pack: %w", err)
		}
	}

	s.logs.For(logging.CategorySession).Infow("session opened", "id", s.id, "strategy", cfg.Strategy, "geometry", cfg.Geometry)
	return s, nil
}

func registryFor(logger *zap.Logger) *logging.Registry {
	if logger == nil {
		return logging.Nop()
	}
	return logging.NewRegistry(logger)
}

// ID returns the session's process-local identifier (never persisted).
func (s *Session) ID() string { return s.id }

// Stats returns a snapshot of the session's counters.
func (s *Session) Stats() Stats {
	snap := s.stats
	snap.Holographic = s.holographic.Stats
	return snap
}

// Close releases the session. There is nothing to flush since sys2core
// never persists state across restarts (spec.md §1 Non-goals); Close
// exists so callers have a symmetric lifecycle hook and so a future
// resource (e.g. a stateful strategy holding native memory) has a place to
// release from.
func (s *Session) Close() error {
	s.logs.For(logging.CategorySession).Infow("session closed", "id", s.id,
		"facts_learned", s.stats.FactsLearned, "queries_run", s.stats.QueriesRun)
	return nil
}

// runForwardChain drives the rule engine to a fixed point after a
// successful learn batch, so newly-learned rules and facts interact before
// the next query (spec.md §4.8).
func (s *Session) runForwardChain() {
	res := rules.RunToFixedPoint(s.kb, s.symbolic, 0)
	s.stats.ForwardChainIterations += res.Iterations
	if res.FactsAdded > 0 {
		s.logs.For(logging.CategoryRules).Debugw("forward chain materialized facts",
			"facts_added", res.FactsAdded, "iterations", res.Iterations)
	}
}
