package session

import (
	"sys2core/internal/csp"
	"sys2core/internal/logging"
)

// CspBuilder accumulates variables and constraints for one CSP solve,
// returned by Session.CreateCSPSolver (spec.md §6.3).
type CspBuilder struct {
	session *Session
	problem csp.Problem
}

// CreateCSPSolver starts a new CSP problem, pre-seeded with the session's
// configured max_solutions and csp_timeout_ms (spec.md §6.4).
func (s *Session) CreateCSPSolver() *CspBuilder {
	return &CspBuilder{
		session: s,
		problem: csp.Problem{
			Domains:      make(map[string][]string),
			MaxSolutions: s.config.CSPMaxSolutions,
			TimeoutMS:    s.config.CSPTimeoutMS,
		},
	}
}

// Variable adds a finite-domain variable, in insertion order (spec.md
// §4.9 "Determinism").
func (b *CspBuilder) Variable(name string, domain ...string) *CspBuilder {
	b.problem.VarOrder = append(b.problem.VarOrder, name)
	b.problem.Domains[name] = domain
	return b
}

// AllDifferent adds an AllDifferent constraint over the named variables.
func (b *CspBuilder) AllDifferent(vars ...string) *CspBuilder {
	b.problem.Constraints = append(b.problem.Constraints, csp.AllDifferent{Variables: vars})
	return b
}

// Relational adds a Relational-from-KB constraint: varA/varB's assignment
// must appear as a ground `operator varA varB` fact (spec.md §4.9).
func (b *CspBuilder) Relational(varA, operator, varB string) *CspBuilder {
	b.problem.Constraints = append(b.problem.Constraints, csp.Relational{
		VarA: varA, VarB: varB, Operator: operator, KB: b.session.kb,
	})
	return b
}

// RelationalNegated adds the value-level complement of Relational: varA/varB's
// assignment must NOT appear as a ground `operator varA varB` fact.
func (b *CspBuilder) RelationalNegated(varA, operator, varB string) *CspBuilder {
	b.problem.Constraints = append(b.problem.Constraints, csp.Relational{
		VarA: varA, VarB: varB, Operator: operator, KB: b.session.kb, Negate: true,
	})
	return b
}

// NoConflict adds a NoConflict-via-KB-relation constraint (spec.md §4.9,
// scenario E "no_conflict conflictsWith"): unlike Relational, which checks
// a KB fact over the two variables' *assigned values* at every node,
// NoConflict checks the KB once, at build time, over the two variables'
// *names* — the entities the variables were created from (e.g.
// `variables_from Guest` names each CSP variable after its guest atom).
// If `operator varA varB` is a ground fact, the two variables are forced
// to take different domain values (lowered to a plain AllDifferent); if
// it isn't, no constraint is added at all, since there's nothing to
// conflict over.
func (b *CspBuilder) NoConflict(varA, operator, varB string) *CspBuilder {
	if b.session.kb.HasGroundFact(operator, []string{varA, varB}) {
		b.problem.Constraints = append(b.problem.Constraints, csp.AllDifferent{Variables: []string{varA, varB}})
	}
	return b
}

// Constraint adds an arbitrary caller-built constraint (for And/Or/Not
// combinators and ad hoc Predicate constraints).
func (b *CspBuilder) Constraint(c csp.Constraint) *CspBuilder {
	b.problem.Constraints = append(b.problem.Constraints, c)
	return b
}

// MaxSolutions overrides the session-configured solution cap for this
// solve.
func (b *CspBuilder) MaxSolutions(n int) *CspBuilder {
	b.problem.MaxSolutions = n
	return b
}

// TimeoutMS overrides the session-configured wall-time cap for this solve.
func (b *CspBuilder) TimeoutMS(ms int) *CspBuilder {
	b.problem.TimeoutMS = ms
	return b
}

// Solve runs MRV-ordered backtracking search with forward checking
// (spec.md §4.9) and returns the result.
func (b *CspBuilder) Solve() *csp.Result {
	res := csp.Solve(&b.problem)
	b.session.logs.For(logging.CategoryCSP).Debugw("csp solve",
		"success", res.Success, "solutions", len(res.Solutions), "nodes", res.Stats.Nodes, "backtracks", res.Stats.Backtracks)
	return res
}
