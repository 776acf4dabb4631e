// Package kb is the knowledge base: the fact/rule store and its five
// indices (spec.md §3 "Knowledge Base", §4.5).
package kb

import (
	"sort"

	"sys2core/internal/atom"
)

// Fact is one committed statement. Rules are facts whose Operator is
// "Implies" and whose Premises are non-empty; a plain ground fact has no
// premises.
type Fact struct {
	ID         int // monotonic, ascending insertion order
	Operator   string
	Args       []string // atom names, in order
	Vector     atom.Vector
	Level      int  // constructivist level, spec.md §4.5 step 3
	IsRule     bool
	Premises   []Literal // non-empty only when IsRule
	Conclusion Literal   // the rule's head; zero value when !IsRule
	// CanonicalRewrite is non-empty when this fact records a
	// __CANONICAL_REWRITE__ metadata entry rather than domain knowledge
	// (spec.md §4.5 "Canonicalization").
	CanonicalRewrite string
	// ExportName is set when this fact was committed via the
	// `@var:name op arg1 arg2` surface form (spec.md §4.4 "Persistence
	// rules"), naming the fact for later reference independent of its
	// operator/args.
	ExportName string
}

// Literal is one atom of a rule body or head: an operator applied to
// argument terms, where a term is either a constant (atom name) or a
// variable (spec.md §4.6, grounded on kevinawalsh-datalog's Literal shape).
type Literal struct {
	Operator string
	Args     []Term
}

// Term is a rule-literal argument: a constant name or a logic variable.
type Term struct {
	IsVar bool
	Value string // constant name, or variable name if IsVar
}

func Const(name string) Term { return Term{Value: name} }
func Var(name string) Term   { return Term{IsVar: true, Value: name} }

// KB is the session's fact/rule store plus its indices. One instance per
// session.
type KB struct {
	facts []*Fact

	byOperator map[string][]*Fact
	byArg      map[string][]*Fact // component index: atom name -> facts mentioning it anywhere
	byLevel    map[int][]*Fact
	byRuleHead map[string][]*Fact // rule index, keyed by conclusion operator

	canonicalRewrite map[string]string // alias operator -> canonical operator
}

// New constructs an empty knowledge base.
func New() *KB {
	return &KB{
		byOperator:       make(map[string][]*Fact),
		byArg:            make(map[string][]*Fact),
		byLevel:          make(map[int][]*Fact),
		byRuleHead:       make(map[string][]*Fact),
		canonicalRewrite: make(map[string]string),
	}
}

// Canonicalize rewrites operator through the canonical-rewrite index, if
// an alias was declared (spec.md §4.5 "Canonicalization").
func (k *KB) Canonicalize(operator string) string {
	seen := map[string]bool{}
	cur := operator
	for {
		if seen[cur] {
			return cur // defensive: break an accidental alias cycle
		}
		seen[cur] = true
		next, ok := k.canonicalRewrite[cur]
		if !ok {
			return cur
		}
		cur = next
	}
}

// DeclareCanonical records alias -> canonical, and inserts the
// metadata-only __CANONICAL_REWRITE__ fact spec.md §4.5 requires so proofs
// can cite the rewrite.
func (k *KB) DeclareCanonical(alias, canonical string) *Fact {
	k.canonicalRewrite[alias] = canonical
	f := &Fact{
		ID:               len(k.facts),
		Operator:         atom.CanonicalRewrite,
		Args:             []string{alias, canonical},
		Level:            0,
		CanonicalRewrite: alias,
	}
	k.insert(f)
	return f
}

// Level computes the constructivist level of a fact from its dependency
// levels: L(fact) = 1 + max(L(d) for d in dependencies); primitive atoms
// (no dependency facts, i.e. a fresh ground fact over atoms only) are
// level 0 (spec.md §4.5 step 3).
func Level(depLevels []int) int {
	if len(depLevels) == 0 {
		return 0
	}
	max := depLevels[0]
	for _, l := range depLevels[1:] {
		if l > max {
			max = l
		}
	}
	return max + 1
}

// Insert commits a fully-built fact, assigning it the next fact id and
// updating every index (spec.md §4.5 step 5).
func (k *KB) Insert(f *Fact) *Fact {
	f.ID = len(k.facts)
	k.insert(f)
	return f
}

func (k *KB) insert(f *Fact) {
	k.facts = append(k.facts, f)
	k.byOperator[f.Operator] = append(k.byOperator[f.Operator], f)
	for _, a := range f.Args {
		k.byArg[a] = append(k.byArg[a], f)
	}
	k.byLevel[f.Level] = append(k.byLevel[f.Level], f)
	if f.IsRule {
		k.byRuleHead[f.Conclusion.Operator] = append(k.byRuleHead[f.Conclusion.Operator], f)
	}
}

// ByOperator returns facts for operator in fact-id ascending order (spec.md
// §4.6 "Tie-breaking and ordering").
func (k *KB) ByOperator(operator string) []*Fact {
	return k.byOperator[k.Canonicalize(operator)]
}

// ByArg returns every fact mentioning atom name anywhere in its args
// (component index).
func (k *KB) ByArg(name string) []*Fact {
	return k.byArg[name]
}

// ByLevel returns every fact at exactly level l.
func (k *KB) ByLevel(l int) []*Fact {
	return k.byLevel[l]
}

// RulesFor returns rules whose conclusion operator is operator, in
// fact-id ascending order (the rule index, spec.md §4.5 step 5 / §4.8
// "Rule indexing").
func (k *KB) RulesFor(operator string) []*Fact {
	return k.byRuleHead[k.Canonicalize(operator)]
}

// AllRulesAscendingLevel returns every rule, sorted by conclusion level
// ascending then fact id ascending, the order §4.8 forward chaining
// requires ("process rules in ascending conclusion-level order").
func (k *KB) AllRulesAscendingLevel() []*Fact {
	var rules []*Fact
	for _, f := range k.facts {
		if f.IsRule {
			rules = append(rules, f)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Level != rules[j].Level {
			return rules[i].Level < rules[j].Level
		}
		return rules[i].ID < rules[j].ID
	})
	return rules
}

// All returns every fact (including rules) in insertion order.
func (k *KB) All() []*Fact {
	out := make([]*Fact, len(k.facts))
	copy(out, k.facts)
	return out
}

// Len reports the number of committed facts, including rules.
func (k *KB) Len() int { return len(k.facts) }

// Snapshot returns a marker for the current commit point, for learn's
// transactional rollback (spec.md §4.4 "Learn is transactional").
func (k *KB) Snapshot() int { return len(k.facts) }

// RollbackTo discards every fact inserted since mark and rebuilds every
// index from the retained facts. Facts retain their original ids; no
// facts from the rejected batch survive in any index.
func (k *KB) RollbackTo(mark int) {
	if mark >= len(k.facts) {
		return
	}
	retained := make([]*Fact, mark)
	copy(retained, k.facts[:mark])

	k.facts = nil
	k.byOperator = make(map[string][]*Fact)
	k.byArg = make(map[string][]*Fact)
	k.byLevel = make(map[int][]*Fact)
	k.byRuleHead = make(map[string][]*Fact)
	k.canonicalRewrite = make(map[string]string)

	for _, f := range retained {
		k.facts = append(k.facts, f)
		k.byOperator[f.Operator] = append(k.byOperator[f.Operator], f)
		for _, a := range f.Args {
			k.byArg[a] = append(k.byArg[a], f)
		}
		k.byLevel[f.Level] = append(k.byLevel[f.Level], f)
		if f.IsRule {
			k.byRuleHead[f.Conclusion.Operator] = append(k.byRuleHead[f.Conclusion.Operator], f)
		}
		if f.CanonicalRewrite != "" {
			k.canonicalRewrite[f.CanonicalRewrite] = f.Args[1]
		}
	}
}

// HasGroundFact reports whether a ground fact (not a rule) with exactly
// this operator and argument tuple already exists, used by forward
// chaining's "not already present, by canonical signature" check (spec.md
// §4.8) and by the CSP backend's Relational-from-KB constraint.
func (k *KB) HasGroundFact(operator string, args []string) bool {
	for _, f := range k.byOperator[k.Canonicalize(operator)] {
		if f.IsRule || len(f.Args) != len(args) {
			continue
		}
		match := true
		for i := range args {
			if f.Args[i] != args[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
