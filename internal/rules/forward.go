// Package rules implements explicit forward chaining to a fixed point
// (spec.md §4.8). Backward chaining lives in internal/reasoning/symbolic,
// since it's invoked as a step inside query/prove rather than as a
// standalone operation; this package reuses that engine's premise solver
// to find ground instantiations for forward materialization.
package rules

import (
	"sys2core/internal/kb"
	"sys2core/internal/reasoning/symbolic"
)

// DefaultMaxIterations bounds forward chaining so a buggy or cyclic rule
// set can't loop forever (spec.md §4.8 "Terminates at a fixed point or
// when max_iterations is hit").
const DefaultMaxIterations = 100

// Result reports what one forward-chaining run did.
type Result struct {
	FactsAdded       int
	Iterations       int
	HitMaxIterations bool
}

// RunToFixedPoint processes rules in ascending conclusion-level order
// (spec.md §4.8 "Forward chaining"), materializing every ground
// instantiation of a rule's premises as a new fact when that conclusion
// isn't already present by canonical signature, until no iteration adds a
// fact or maxIterations is reached.
func RunToFixedPoint(store *kb.KB, engine *symbolic.Engine, maxIterations int) Result {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	res := Result{}
	for iter := 0; iter < maxIterations; iter++ {
		res.Iterations++
		addedThisRound := 0
		for _, rule := range store.AllRulesAscendingLevel() {
			matches := solvePremises(engine, rule.Premises)
			for _, binding := range matches {
				args := resolveArgs(rule.Conclusion.Args, binding)
				if store.HasGroundFact(rule.Conclusion.Operator, args) {
					continue
				}
				depLevels := make([]int, 0, len(args))
				for _, a := range args {
					depLevels = append(depLevels, maxLevelMentioning(store, a))
				}
				store.Insert(&kb.Fact{
					Operator: store.Canonicalize(rule.Conclusion.Operator),
					Args:     args,
					Level:    kb.Level(depLevels),
				})
				addedThisRound++
			}
		}
		res.FactsAdded += addedThisRound
		if addedThisRound == 0 {
			return res
		}
	}
	res.HitMaxIterations = true
	return res
}

func solvePremises(engine *symbolic.Engine, premises []kb.Literal) []symbolic.Binding {
	if len(premises) == 0 {
		return nil
	}
	first, rest := premises[0], premises[1:]
	matches := engine.Query(first.Operator, first.Args)
	if len(rest) == 0 {
		out := make([]symbolic.Binding, len(matches))
		for i, m := range matches {
			out[i] = m.Binding
		}
		return out
	}
	var out []symbolic.Binding
	for _, m := range matches {
		sub := solvePremisesFrom(engine, rest, m.Binding)
		out = append(out, sub...)
	}
	return out
}

func solvePremisesFrom(engine *symbolic.Engine, premises []kb.Literal, env symbolic.Binding) []symbolic.Binding {
	if len(premises) == 0 {
		return []symbolic.Binding{env}
	}
	first, rest := premises[0], premises[1:]
	substituted := substitute(first.Args, env)
	matches := engine.Query(first.Operator, substituted)
	var out []symbolic.Binding
	for _, m := range matches {
		merged := env.Clone()
		for k, v := range m.Binding {
			merged[k] = v
		}
		out = append(out, solvePremisesFrom(engine, rest, merged)...)
	}
	return out
}

func substitute(terms []kb.Term, env symbolic.Binding) []kb.Term {
	out := make([]kb.Term, len(terms))
	for i, t := range terms {
		if t.IsVar {
			if v, ok := env[t.Value]; ok {
				out[i] = kb.Const(v)
				continue
			}
		}
		out[i] = t
	}
	return out
}

func resolveArgs(terms []kb.Term, env symbolic.Binding) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		if t.IsVar {
			out[i] = env[t.Value]
		} else {
			out[i] = t.Value
		}
	}
	return out
}

func maxLevelMentioning(store *kb.KB, atomName string) int {
	max := 0
	for _, f := range store.ByArg(atomName) {
		if f.Level > max {
			max = f.Level
		}
	}
	return max
}
