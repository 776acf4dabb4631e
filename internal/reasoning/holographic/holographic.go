// Package holographic implements the holographic reasoning engine
// (spec.md §4.7): vector-space query and proof, always validated by the
// symbolic engine before a result is trusted.
package holographic

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"sys2core/internal/atom"
	"sys2core/internal/hdc"
	"sys2core/internal/kb"
	"sys2core/internal/reasoning/symbolic"
	"sys2core/internal/vocabulary"
)

// DefaultTopK bounds candidates decoded per hole before the Cartesian
// combination step (spec.md §4.7 step 4: "bounded by K^(#holes)").
const DefaultTopK = 5

// DefaultMinScore is the minimum decode/similarity score a candidate must
// clear to be considered (spec.md §4.1 "strategy-defined minimum
// similarity threshold").
const DefaultMinScore = 0.3

// DefaultProveThreshold is the minimum KB-bundle similarity a ground goal
// vector must clear before a symbolic validation pass is even attempted
// (spec.md §4.7 "Holographic prove").
const DefaultProveThreshold = 0.5

// Method labels the evidence source of a result (spec.md §4.7 "Contract").
type Method string

const (
	MethodHDCValidated     Method = "hdc_validated"
	MethodSymbolicFallback Method = "symbolic_fallback"
)

// Stats counts the engine's activity across the session's lifetime
// (spec.md §4.7 "Statistics"), read by the evaluation harness.
type Stats struct {
	HDCUnbindAttempts      int
	HDCUnbindSuccesses     int
	HDCValidationAttempts  int
	HDCValidationSuccesses int
	SymbolicFallbacks      int
}

// Engine runs holographic query/prove against one session's strategy,
// vocabulary, KB, and symbolic engine.
type Engine struct {
	strategy        hdc.Strategy
	vocab           *vocabulary.Vocabulary
	kb              *kb.KB
	symbolic        *symbolic.Engine
	geom            hdc.Geometry
	topK            int
	minScore        float64
	proveThreshold  float64
	fallbackEnabled bool

	Stats Stats
}

// New constructs a holographic Engine. fallbackEnabled matches spec.md
// §4.7's "fallback is enabled (default true)".
func New(strategy hdc.Strategy, vocab *vocabulary.Vocabulary, store *kb.KB, sym *symbolic.Engine, geom hdc.Geometry, fallbackEnabled bool) *Engine {
	return &Engine{
		strategy:        strategy,
		vocab:           vocab,
		kb:              store,
		symbolic:        sym,
		geom:            geom,
		topK:            DefaultTopK,
		minScore:        DefaultMinScore,
		proveThreshold:  DefaultProveThreshold,
		fallbackEnabled: fallbackEnabled,
	}
}

func (e *Engine) positionMarker(k int) atom.Vector {
	a := e.vocab.Intern(atom.PositionName(k), "core")
	return a.Vector
}

// kbBundle superposes every committed fact's vector, the "KB_bundle" spec.md
// §4.7 unbinds against. Computed fresh per call rather than maintained
// incrementally, trading some recomputation cost for a KB package that
// doesn't need to know about the holographic engine's internal state.
func (e *Engine) kbBundle() atom.Vector {
	facts := e.kb.All()
	vecs := make([]atom.Vector, 0, len(facts))
	for _, f := range facts {
		if f.Vector != nil {
			vecs = append(vecs, f.Vector)
		}
	}
	if len(vecs) == 0 {
		return e.strategy.CreateZero(e.geom)
	}
	bundle, _ := e.strategy.Bundle(vecs, 0)
	return bundle
}

// QueryArg is one argument position in a holographic query: either a
// known atom name or a hole.
type QueryArg struct {
	IsHole bool
	Name   string // atom name if !IsHole, hole label if IsHole
}

// Result is one validated holographic query answer.
type Result struct {
	Bindings map[string]string // hole label -> atom name
	Method   Method
}

// Query implements spec.md §4.7 "Holographic query" steps 1-5.
func (e *Engine) Query(operator string, args []QueryArg) ([]Result, error) {
	op := e.kb.Canonicalize(operator)
	opAtom := e.vocab.Intern(op, "core")

	var knownBinds []atom.Vector
	var holes []int
	for i, a := range args {
		if a.IsHole {
			holes = append(holes, i)
			continue
		}
		known := e.vocab.Intern(a.Name, "core")
		knownBinds = append(knownBinds, e.strategy.Bind(e.positionMarker(i+1), known.Vector))
	}
	var partial atom.Vector
	if len(knownBinds) == 0 {
		partial = e.strategy.CreateZero(e.geom)
	} else {
		b, _ := e.strategy.Bundle(knownBinds, 0)
		partial = b
	}
	partial = e.strategy.Bind(opAtom.Vector, partial)

	bundle := e.kbBundle()
	domain := e.vocab.Domain()

	// Step 2-3: decode each hole's candidates independently. Holes share no
	// mutable state (each unbinds the same read-only bundle/partial against
	// its own position marker), so they fan out across an errgroup; per-hole
	// stat deltas are collected into holeStats and merged onto e.Stats after
	// the group joins, since Stats is not itself safe for concurrent writes.
	perHole := make([][]hdc.Candidate, len(holes))
	holeStats := make([]Stats, len(holes))
	var g errgroup.Group
	for hi, pos := range holes {
		g.Go(func() error {
			holeStats[hi].HDCUnbindAttempts++
			residual := e.strategy.Unbind(bundle, partial)
			raw := e.strategy.Unbind(residual, e.positionMarker(pos+1))

			var candidates []hdc.Candidate
			if e.strategy.SupportsDecode() {
				candidates = e.strategy.DecodeUnboundCandidates(raw, domain, e.minScore, e.topK)
			} else {
				candidates = hdc.TopKSimilar(e.strategy, raw, domain, e.minScore, e.topK)
			}
			if len(candidates) > 0 {
				holeStats[hi].HDCUnbindSuccesses++
			}
			perHole[hi] = candidates
			return nil
		})
	}
	_ = g.Wait() // decode work never returns an error; kept for the errgroup contract
	for _, hs := range holeStats {
		e.Stats.HDCUnbindAttempts += hs.HDCUnbindAttempts
		e.Stats.HDCUnbindSuccesses += hs.HDCUnbindSuccesses
	}

	// Step 4: Cartesian combination over holes, bounded K^(#holes).
	combos := cartesian(perHole)
	var results []Result
	for _, combo := range combos {
		groundArgs := make([]string, len(args))
		bindings := make(map[string]string, len(holes))
		holeIdx := 0
		for i, a := range args {
			if a.IsHole {
				name := combo[holeIdx].Name
				groundArgs[i] = name
				bindings[a.Name] = name
				holeIdx++
			} else {
				groundArgs[i] = a.Name
			}
		}
		e.Stats.HDCValidationAttempts++
		if _, err := e.symbolic.Prove(op, groundArgs); err == nil {
			e.Stats.HDCValidationSuccesses++
			results = append(results, Result{Bindings: bindings, Method: MethodHDCValidated})
		}
	}

	// Step 5: fall back to the symbolic engine if nothing validated.
	if len(results) == 0 && e.fallbackEnabled {
		e.Stats.SymbolicFallbacks++
		pattern := make([]kb.Term, len(args))
		for i, a := range args {
			if a.IsHole {
				pattern[i] = kb.Var(a.Name)
			} else {
				pattern[i] = kb.Const(a.Name)
			}
		}
		for _, m := range e.symbolic.Query(op, pattern) {
			results = append(results, Result{Bindings: m.Binding, Method: MethodSymbolicFallback})
		}
	}

	return results, nil
}

// Prove implements spec.md §4.7 "Holographic prove": similarity of the
// ground goal vector against the KB bundle above threshold triggers a
// symbolic validation pass.
func (e *Engine) Prove(operator string, args []string) (*symbolic.Match, Method, error) {
	op := e.kb.Canonicalize(operator)
	opAtom := e.vocab.Intern(op, "core")

	binds := make([]atom.Vector, len(args))
	for i, a := range args {
		known := e.vocab.Intern(a, "core")
		binds[i] = e.strategy.Bind(e.positionMarker(i+1), known.Vector)
	}
	var bundled atom.Vector
	if len(binds) == 0 {
		bundled = e.strategy.CreateZero(e.geom)
	} else {
		b, _ := e.strategy.Bundle(binds, 0)
		bundled = b
	}
	goalVec := e.strategy.Bind(opAtom.Vector, bundled)

	sim := e.strategy.Similarity(goalVec, e.kbBundle())
	if sim >= e.proveThreshold {
		e.Stats.HDCValidationAttempts++
		if m, err := e.symbolic.Prove(op, args); err == nil {
			e.Stats.HDCValidationSuccesses++
			return m, MethodHDCValidated, nil
		}
	}

	e.Stats.SymbolicFallbacks++
	m, err := e.symbolic.Prove(op, args)
	if err != nil {
		return nil, "", fmt.Errorf("%w", err)
	}
	return m, MethodSymbolicFallback, nil
}

// cartesian returns the Cartesian product of per-hole candidate lists, in
// stable order. An empty input list of holes yields one empty combination.
func cartesian(lists [][]hdc.Candidate) [][]hdc.Candidate {
	if len(lists) == 0 {
		return [][]hdc.Candidate{{}}
	}
	rest := cartesian(lists[1:])
	var out [][]hdc.Candidate
	for _, c := range lists[0] {
		for _, r := range rest {
			combo := append([]hdc.Candidate{c}, r...)
			out = append(out, combo)
		}
	}
	return out
}
