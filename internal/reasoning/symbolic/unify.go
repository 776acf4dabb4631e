package symbolic

import "sys2core/internal/kb"

// Binding maps variable names to constant atom names. The zero value is a
// usable empty binding.
type Binding map[string]string

// Clone returns a shallow copy, so speculative extension (e.g. during
// backtracking) never mutates a binding a caller still holds a reference
// to — grounded on kevinawalsh-datalog's immutable-env-extension style,
// rebuilt here over string keys instead of pointer identity since
// sys2core's terms are always named atoms, never anonymous objects.
func (b Binding) Clone() Binding {
	out := make(Binding, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// resolve follows t through env: a constant resolves to itself, a bound
// variable resolves to its value, an unbound variable resolves to "" with
// ok=false.
func resolve(t kb.Term, env Binding) (string, bool) {
	if !t.IsVar {
		return t.Value, true
	}
	v, ok := env[t.Value]
	return v, ok
}

// unifyArgs unifies pattern (a rule head's or fact's argument terms)
// against args (ground atom names) under env, returning the extended
// binding. A variable bound inconsistently across positions fails the
// unification.
func unifyArgs(pattern []kb.Term, args []string, env Binding) (Binding, bool) {
	if len(pattern) != len(args) {
		return nil, false
	}
	out := env.Clone()
	for i, p := range pattern {
		if p.IsVar {
			if bound, ok := out[p.Value]; ok {
				if bound != args[i] {
					return nil, false
				}
				continue
			}
			out[p.Value] = args[i]
			continue
		}
		if p.Value != args[i] {
			return nil, false
		}
	}
	return out, true
}

// unifyLiteralWithFact unifies literal's terms against a ground fact's
// args, used both for query direct-match and rule-premise resolution.
func unifyLiteralWithFact(lit kb.Literal, f *kb.Fact, env Binding) (Binding, bool) {
	if lit.Operator != f.Operator {
		return nil, false
	}
	return unifyArgs(lit.Args, f.Args, env)
}
