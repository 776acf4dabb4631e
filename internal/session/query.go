package session

import (
	"errors"
	"fmt"

	"sys2core/internal/ast"
	"sys2core/internal/config"
	"sys2core/internal/kb"
	"sys2core/internal/logging"
	"sys2core/internal/reasoning/holographic"
	"sys2core/internal/reasoning/symbolic"
)

// ResultBinding is one answer to a query: a hole-name -> atom-name binding
// plus the confidence and evidence method behind it (spec.md §6.3).
type ResultBinding struct {
	Bindings   map[string]string
	Confidence float64
	Method     string
}

// QueryResult is the outcome of Session.Query (spec.md §6.3).
type QueryResult struct {
	Success    bool
	AllResults []ResultBinding
	Ambiguous  bool
	Warnings   []string
}

// resolveQueryArgs splits a statement's argument terms into the two shapes
// the two reasoning engines need: a kb.Term pattern (constants and named
// holes) for the symbolic engine, and a []holographic.QueryArg for the
// holographic engine. Nested-statement arguments aren't meaningful inside
// a query pattern and are rejected.
func (s *Session) resolveQueryArgs(args []ast.Term) ([]kb.Term, []holographic.QueryArg, error) {
	pattern := make([]kb.Term, len(args))
	holoArgs := make([]holographic.QueryArg, len(args))
	for i, a := range args {
		switch t := a.(type) {
		case ast.AtomName:
			pattern[i] = kb.Const(t.Name)
			holoArgs[i] = holographic.QueryArg{Name: t.Name}
		case ast.VarRef:
			name, ok := s.scope.ResolvedName(t.Name)
			if !ok {
				return nil, nil, fmt.Errorf("%w: $%s", kb.ErrUndefinedVariable, t.Name)
			}
			pattern[i] = kb.Const(name)
			holoArgs[i] = holographic.QueryArg{Name: name}
		case ast.Hole:
			pattern[i] = kb.Var(t.Name)
			holoArgs[i] = holographic.QueryArg{IsHole: true, Name: t.Name}
		default:
			return nil, nil, fmt.Errorf("session: query argument %d must be an atom, $var, or ?hole", i+1)
		}
	}
	return pattern, holoArgs, nil
}

// Query answers a query for operator against pattern (spec.md §4.6/§4.7,
// dispatched by the session's configured reasoning_priority). When the
// priority engine finds nothing, the other engine is tried as a fallback so
// a query never fails just because the wrong engine ran first.
func (s *Session) Query(operator string, args []ast.Term) (*QueryResult, error) {
	s.stats.QueriesRun++
	pattern, holoArgs, err := s.resolveQueryArgs(args)
	if err != nil {
		return nil, err
	}

	var results []ResultBinding
	var warnings []string

	symbolicFirst := func() []ResultBinding {
		matches := s.symbolic.Query(operator, pattern)
		out := make([]ResultBinding, len(matches))
		for i, m := range matches {
			out[i] = ResultBinding{Bindings: m.Binding, Confidence: m.Confidence, Method: "symbolic"}
		}
		return out
	}
	holographicFirst := func() ([]ResultBinding, error) {
		hres, err := s.holographic.Query(operator, holoArgs)
		if err != nil {
			return nil, err
		}
		out := make([]ResultBinding, len(hres))
		for i, r := range hres {
			out[i] = ResultBinding{Bindings: r.Bindings, Confidence: 1.0, Method: string(r.Method)}
		}
		return out, nil
	}

	switch s.config.ReasoningPriority {
	case config.PriorityHolographic:
		results, err = holographicFirst()
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			warnings = append(warnings, "holographic query found nothing, fell back to symbolic")
			results = symbolicFirst()
		}
	default: // config.PrioritySymbolic
		results = symbolicFirst()
		if len(results) == 0 {
			warnings = append(warnings, "symbolic query found nothing, fell back to holographic")
			hres, err := holographicFirst()
			if err != nil {
				return nil, err
			}
			results = hres
		}
	}

	s.logs.For(logging.CategoryReasoning).Debugw("query", "operator", operator, "results", len(results))
	return &QueryResult{
		Success:    len(results) > 0,
		AllResults: results,
		Ambiguous:  len(results) > 1,
		Warnings:   warnings,
	}, nil
}

// FindAll is Query with only the bindings projected out (spec.md §6.3
// "find_all(pattern_text) -> [{bindings}]").
func (s *Session) FindAll(operator string, args []ast.Term) ([]map[string]string, error) {
	res, err := s.Query(operator, args)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]string, len(res.AllResults))
	for i, r := range res.AllResults {
		out[i] = r.Bindings
	}
	return out, nil
}

// ProveResult is the outcome of Session.Prove (spec.md §6.3).
type ProveResult struct {
	Valid      bool
	Confidence float64
	Steps      []symbolic.Step
	Method     string
}

// Prove proves a fully-ground goal, dispatched by reasoning_priority the
// same way Query is (spec.md §4.6/§4.7 "Proof pipeline"). An unprovable
// goal is not an error (spec.md §7): it comes back as Valid:false with a
// nil error, the same propagation policy Query already follows for a
// zero-result search.
func (s *Session) Prove(operator string, args []string) (*ProveResult, error) {
	s.stats.ProvesRun++

	if s.config.ReasoningPriority == config.PriorityHolographic {
		m, method, err := s.holographic.Prove(operator, args)
		if err != nil {
			if errors.Is(err, kb.ErrGoalUnprovable) {
				return &ProveResult{Valid: false}, nil
			}
			return &ProveResult{Valid: false}, err
		}
		return &ProveResult{Valid: true, Confidence: m.Confidence, Steps: m.Steps, Method: string(method)}, nil
	}

	m, err := s.symbolic.Prove(operator, args)
	if err != nil {
		if errors.Is(err, kb.ErrGoalUnprovable) {
			return &ProveResult{Valid: false}, nil
		}
		return &ProveResult{Valid: false}, err
	}
	return &ProveResult{Valid: true, Confidence: m.Confidence, Steps: m.Steps, Method: "symbolic"}, nil
}
