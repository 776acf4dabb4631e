// Package symbolic implements the symbolic reasoning engine (spec.md
// §4.6): direct match, transitive closure, property inheritance, and
// backward-chaining rule resolution, all over the fact/rule store in
// internal/kb. The unification core (internal/reasoning/symbolic/unify.go)
// is grounded directly on kevinawalsh-datalog's Literal/Term/env design,
// adapted to sys2core's named-atom terms.
package symbolic

import (
	"fmt"

	"sys2core/internal/kb"
	"sys2core/internal/semantic"
)

// DefaultMaxDepth is the default backward-chaining recursion limit
// (spec.md §4.6 step 5: "Depth-limited (default 5)").
const DefaultMaxDepth = 5

// DefaultDecay is the per-chain-step confidence decay, within the
// spec.md §4.6 range [0.95, 0.98].
const DefaultDecay = 0.97

// StepKind identifies the kind of evidence one proof step used.
type StepKind string

const (
	StepDirect      StepKind = "direct_match"
	StepTransitive  StepKind = "transitive"
	StepSymmetric   StepKind = "symmetric"
	StepReflexive   StepKind = "reflexive"
	StepInheritance StepKind = "inheritance"
	StepRule        StepKind = "rule"
	StepCanonical   StepKind = "canonical_rewrite"
)

// Step is one entry in a proof's ordered evidence trail (spec.md §4.6
// "Proof pipeline").
type Step struct {
	Kind       StepKind
	Operator   string
	Args       []string
	Confidence float64
}

// Match is one successful query/prove result: a binding plus the evidence
// that produced it.
type Match struct {
	Binding    Binding
	Confidence float64
	Steps      []Step
}

// Engine runs queries and proofs against one session's KB and semantic
// index.
type Engine struct {
	kb       *kb.KB
	sem      *semantic.Index
	maxDepth int
	decay    float64
}

// New constructs a symbolic Engine.
func New(store *kb.KB, sem *semantic.Index) *Engine {
	return &Engine{kb: store, sem: sem, maxDepth: DefaultMaxDepth, decay: DefaultDecay}
}

// WithMaxDepth overrides the backward-chaining depth limit.
func (e *Engine) WithMaxDepth(d int) *Engine {
	e.maxDepth = d
	return e
}

// Query runs the full query pipeline (spec.md §4.6 steps 1-5) for a goal
// with zero or more hole (variable) positions, returning every successful
// binding. CSP handoff (step 6) is the caller's responsibility: Query
// itself only solves goals a pure backward search can resolve.
func (e *Engine) Query(operator string, pattern []kb.Term) []Match {
	op := e.kb.Canonicalize(operator)
	visited := make(map[string]bool)
	matches := e.solve(op, pattern, Binding{}, 0, visited)
	return dedupByCanonicalTuple(matches)
}

// Prove runs the proof pipeline (spec.md §4.6 "Proof pipeline") for a
// fully-ground goal, returning the best (highest-confidence) proof found.
func (e *Engine) Prove(operator string, args []string) (*Match, error) {
	pattern := make([]kb.Term, len(args))
	for i, a := range args {
		pattern[i] = kb.Const(a)
	}
	matches := e.solve(e.kb.Canonicalize(operator), pattern, Binding{}, 0, make(map[string]bool))
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s%v", kb.ErrGoalUnprovable, operator, args)
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}
	return &best, nil
}

// solve is the shared core of Query and Prove: direct match, transitive
// closure, property inheritance, and backward chaining over rules, in the
// order spec.md §4.6 specifies.
func (e *Engine) solve(op string, pattern []kb.Term, env Binding, depth int, visited map[string]bool) []Match {
	var out []Match

	// Step 2: direct match.
	lit := kb.Literal{Operator: op, Args: pattern}
	for _, f := range e.kb.ByOperator(op) {
		if f.IsRule {
			continue
		}
		if ext, ok := unifyLiteralWithFact(lit, f, env); ok {
			out = append(out, Match{
				Binding:    ext,
				Confidence: 1.0,
				Steps:      []Step{{Kind: StepDirect, Operator: op, Args: f.Args, Confidence: 1.0}},
			})
		}
	}

	// Step 3: transitive closure, for binary relations declared transitive.
	if e.sem.IsTransitive(op) && len(pattern) == 2 {
		out = append(out, e.transitiveMatches(op, pattern, env)...)
	}

	// Step 3b: symmetric pair emission, for binary relations declared
	// symmetric (spec.md §4.5, e.g. conflictsWith): a stored `op A B` fact
	// also answers `op B A`.
	if e.sem.IsSymmetric(op) && len(pattern) == 2 {
		out = append(out, e.symmetricMatches(op, pattern, env)...)
	}

	// Step 3c: reflexive auto-match, for binary relations declared
	// reflexive: `op X X` holds for any X without needing a stored fact.
	if e.sem.IsReflexive(op) && len(pattern) == 2 {
		out = append(out, e.reflexiveMatches(op, pattern, env)...)
	}

	// Step 4: property inheritance, for operators declared inheritable.
	if e.sem.IsInheritable(op) && len(pattern) == 2 {
		out = append(out, e.inheritedMatches(op, pattern, env)...)
	}

	// Step 5: backward chaining over rules, depth-limited.
	if depth < e.maxDepth {
		out = append(out, e.backwardChain(op, pattern, env, depth, visited)...)
	}

	return out
}

// transitiveMatches expands a transitive relation by chaining facts
// (spec.md §4.6 step 3), e.g. isA X Y + isA Y Z => isA X Z, with cycle
// detection via a visited set of the nodes already reached.
func (e *Engine) transitiveMatches(op string, pattern []kb.Term, env Binding) []Match {
	subj, subjOK := resolve(pattern[0], env)
	obj, objOK := resolve(pattern[1], env)

	var out []Match
	visited := make(map[string]bool)

	switch {
	case subjOK && !objOK:
		for reached := range closureFrom(e.kb, op, subj, visited) {
			if reached == subj {
				continue
			}
			if ext, ok := unifyArgs(pattern, []string{subj, reached}, env); ok {
				out = append(out, Match{Binding: ext, Confidence: 0.95,
					Steps: []Step{{Kind: StepTransitive, Operator: op, Args: []string{subj, reached}, Confidence: 0.95}}})
			}
		}
	case objOK && !subjOK:
		for reached := range closureFromReverse(e.kb, op, obj, visited) {
			if reached == obj {
				continue
			}
			if ext, ok := unifyArgs(pattern, []string{reached, obj}, env); ok {
				out = append(out, Match{Binding: ext, Confidence: 0.95,
					Steps: []Step{{Kind: StepTransitive, Operator: op, Args: []string{reached, obj}, Confidence: 0.95}}})
			}
		}
	case subjOK && objOK:
		if closureFrom(e.kb, op, subj, visited)[obj] {
			if ext, ok := unifyArgs(pattern, []string{subj, obj}, env); ok {
				out = append(out, Match{Binding: ext, Confidence: 0.95,
					Steps: []Step{{Kind: StepTransitive, Operator: op, Args: []string{subj, obj}, Confidence: 0.95}}})
			}
		}
	}
	return out
}

// symmetricMatches answers a binary goal from the reverse of any stored
// fact, for operators declared symmetric (spec.md §4.5 "symmetric pair
// emission"). Unlike transitiveMatches this needs no closure walk: a
// single stored fact's reverse is itself a complete answer.
func (e *Engine) symmetricMatches(op string, pattern []kb.Term, env Binding) []Match {
	var out []Match
	for _, f := range e.kb.ByOperator(op) {
		if f.IsRule || len(f.Args) != 2 {
			continue
		}
		reversed := []string{f.Args[1], f.Args[0]}
		if ext, ok := unifyArgs(pattern, reversed, env); ok {
			out = append(out, Match{Binding: ext, Confidence: 1.0,
				Steps: []Step{{Kind: StepSymmetric, Operator: op, Args: reversed, Confidence: 1.0}}})
		}
	}
	return out
}

// reflexiveMatches answers `op X X` for operators declared reflexive
// without requiring a stored fact: any value bound on one side also
// satisfies the other.
func (e *Engine) reflexiveMatches(op string, pattern []kb.Term, env Binding) []Match {
	subj, subjOK := resolve(pattern[0], env)
	obj, objOK := resolve(pattern[1], env)

	var out []Match
	switch {
	case subjOK && !objOK:
		if ext, ok := unifyArgs(pattern, []string{subj, subj}, env); ok {
			out = append(out, Match{Binding: ext, Confidence: 1.0,
				Steps: []Step{{Kind: StepReflexive, Operator: op, Args: []string{subj, subj}, Confidence: 1.0}}})
		}
	case objOK && !subjOK:
		if ext, ok := unifyArgs(pattern, []string{obj, obj}, env); ok {
			out = append(out, Match{Binding: ext, Confidence: 1.0,
				Steps: []Step{{Kind: StepReflexive, Operator: op, Args: []string{obj, obj}, Confidence: 1.0}}})
		}
	case subjOK && objOK && subj == obj:
		if ext, ok := unifyArgs(pattern, []string{subj, obj}, env); ok {
			out = append(out, Match{Binding: ext, Confidence: 1.0,
				Steps: []Step{{Kind: StepReflexive, Operator: op, Args: []string{subj, obj}, Confidence: 1.0}}})
		}
	}
	return out
}

func closureFrom(store *kb.KB, op, start string, visited map[string]bool) map[string]bool {
	closure := map[string]bool{}
	frontier := []string{start}
	visited[start] = true
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, f := range store.ByOperator(op) {
			if f.IsRule || len(f.Args) != 2 || f.Args[0] != cur {
				continue
			}
			next := f.Args[1]
			if !closure[next] {
				closure[next] = true
				if !visited[next] {
					visited[next] = true
					frontier = append(frontier, next)
				}
			}
		}
	}
	return closure
}

func closureFromReverse(store *kb.KB, op, start string, visited map[string]bool) map[string]bool {
	closure := map[string]bool{}
	frontier := []string{start}
	visited[start] = true
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, f := range store.ByOperator(op) {
			if f.IsRule || len(f.Args) != 2 || f.Args[1] != cur {
				continue
			}
			prev := f.Args[0]
			if !closure[prev] {
				closure[prev] = true
				if !visited[prev] {
					visited[prev] = true
					frontier = append(frontier, prev)
				}
			}
		}
	}
	return closure
}

// inheritedMatches implements spec.md §4.6 step 4: for `op S ?p` or
// `op S P` where op is inheritable, walk isA chains up from S to inherit
// properties declared on its ancestors. A goal whose subject is unbound
// (`op ?x P`) gets no inherited matches.
func (e *Engine) inheritedMatches(op string, pattern []kb.Term, env Binding) []Match {
	var out []Match
	subj, subjOK := resolve(pattern[0], env)
	if !subjOK {
		return out
	}
	ancestors := closureFrom(e.kb, "isA", subj, map[string]bool{subj: true})
	for ancestor := range ancestors {
		if ancestor == subj {
			continue
		}
		for _, f := range e.kb.ByOperator(op) {
			if f.IsRule || len(f.Args) != 2 || f.Args[0] != ancestor {
				continue
			}
			if ext, ok := unifyArgs(pattern, []string{subj, f.Args[1]}, env); ok {
				out = append(out, Match{Binding: ext, Confidence: 0.9,
					Steps: []Step{{Kind: StepInheritance, Operator: op, Args: []string{subj, f.Args[1]}, Confidence: 0.9}}})
			}
		}
	}
	return out
}

// backwardChain implements spec.md §4.6 step 5 / §4.8 "Backward chaining":
// select rules whose conclusion unifies with the goal, recurse on premises
// left-to-right, first-success wins per rule, backtrack to the next rule
// on failure.
func (e *Engine) backwardChain(op string, pattern []kb.Term, env Binding, depth int, visited map[string]bool) []Match {
	var out []Match
	for _, rule := range e.kb.RulesFor(op) {
		// Unify the rule's conclusion literal against the (possibly
		// partially bound) query pattern directly, since both may carry
		// variables.
		ext, ok := unifyLiteralTerms(rule.Conclusion, pattern, env)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%p|%v", rule, ext)
		if visited[key] {
			continue
		}
		visited[key] = true

		premiseMatches := e.proveConjunction(rule.Premises, ext, depth+1, visited)
		for _, pm := range premiseMatches {
			conf := pm.Confidence * pow(e.decay, float64(depth))
			steps := append(append([]Step{}, pm.Steps...), Step{
				Kind: StepRule, Operator: rule.Conclusion.Operator, Args: resolvedArgs(rule.Conclusion.Args, pm.Binding), Confidence: conf,
			})
			out = append(out, Match{Binding: pm.Binding, Confidence: conf, Steps: steps})
		}
	}
	return out
}

// proveConjunction proves every premise left-to-right under an
// accumulating binding, returning all ways to satisfy the whole
// conjunction.
func (e *Engine) proveConjunction(premises []kb.Literal, env Binding, depth int, visited map[string]bool) []Match {
	if len(premises) == 0 {
		return []Match{{Binding: env, Confidence: 1.0}}
	}
	first, rest := premises[0], premises[1:]
	var out []Match
	for _, m := range e.solve(first.Operator, first.Args, env, depth, visited) {
		for _, cont := range e.proveConjunction(rest, m.Binding, depth, visited) {
			conf := m.Confidence
			if cont.Confidence < conf {
				conf = cont.Confidence
			}
			out = append(out, Match{
				Binding:    cont.Binding,
				Confidence: conf,
				Steps:      append(append([]Step{}, m.Steps...), cont.Steps...),
			})
		}
	}
	return out
}

func pow(base float64, exp float64) float64 {
	if exp <= 0 {
		return 1.0
	}
	result := 1.0
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	return result
}

func resolvedArgs(terms []kb.Term, env Binding) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		v, _ := resolve(t, env)
		out[i] = v
	}
	return out
}

// unifyLiteralTerms unifies two term lists that may both contain
// variables (the rule conclusion's variables live in the rule's own
// namespace, the query pattern's in the caller's) by resolving the query
// pattern side through env first, then unifying against the rule's terms
// with query constants treated as constants. A rule variable that meets an
// unbound query variable is bound to the placeholder "$"+name, so its
// premises match only fact arguments spelled that way, and the query
// variable itself is never bound by the rule.
func unifyLiteralTerms(head kb.Literal, pattern []kb.Term, env Binding) (Binding, bool) {
	if len(head.Args) != len(pattern) {
		return nil, false
	}
	ext := env.Clone()
	for i, hp := range head.Args {
		qp := pattern[i]
		qVal, qBound := resolve(qp, env)
		switch {
		case hp.IsVar && qBound:
			if bound, ok := ext[hp.Value]; ok {
				if bound != qVal {
					return nil, false
				}
			} else {
				ext[hp.Value] = qVal
			}
		case hp.IsVar && !qBound:
			// Query hole meets rule variable: the rule variable gets the
			// placeholder "$"+name; nothing is substituted back into the
			// query hole after the premises are solved.
			ext[hp.Value] = "$" + qp.Value
		case !hp.IsVar && qBound:
			if hp.Value != qVal {
				return nil, false
			}
		default: // !hp.IsVar && !qBound
			return nil, false
		}
	}
	return ext, true
}

// dedupByCanonicalTuple removes duplicate bindings (by their sorted
// key=value tuple) and sorts by confidence descending, then by first
// appearance (spec.md §4.6 "Multi-answer queries").
func dedupByCanonicalTuple(matches []Match) []Match {
	seen := make(map[string]int) // tuple -> index in out
	var out []Match
	for _, m := range matches {
		key := canonicalKey(m.Binding)
		if idx, ok := seen[key]; ok {
			if m.Confidence > out[idx].Confidence {
				out[idx] = m
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, m)
	}
	// stable sort by confidence descending, preserving first-appearance
	// order among equal confidences.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Confidence > out[j-1].Confidence; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func canonicalKey(b Binding) string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	// simple insertion sort; binding sets are small
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	out := ""
	for _, k := range keys {
		out += k + "=" + b[k] + ";"
	}
	return out
}
