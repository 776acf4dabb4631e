// Package semantic holds the semantic index: per-operator relation
// properties declared via Core theory facts, read at query/prove/learn
// time to drive transitive closure, symmetric emission, mutual-exclusion
// checks, and property inheritance (spec.md §3 "Indices", §4.5, §4.10).
package semantic

// Index is the semantic index. One instance per session; never shared.
type Index struct {
	transitive     map[string]bool
	symmetric      map[string]bool
	reflexive      map[string]bool
	inheritable    map[string]bool
	mutuallyExcl   map[string][][]string // operator -> list of exclusive value-sets
	contradicts    map[string]map[string]bool // op1 -> set of op2 it contradicts on same args
}

// New constructs an empty semantic index.
func New() *Index {
	return &Index{
		transitive:   make(map[string]bool),
		symmetric:    make(map[string]bool),
		reflexive:    make(map[string]bool),
		inheritable:  make(map[string]bool),
		mutuallyExcl: make(map[string][][]string),
		contradicts:  make(map[string]map[string]bool),
	}
}

func (idx *Index) DeclareTransitive(op string)  { idx.transitive[op] = true }
func (idx *Index) DeclareSymmetric(op string)   { idx.symmetric[op] = true }
func (idx *Index) DeclareReflexive(op string)   { idx.reflexive[op] = true }
func (idx *Index) DeclareInheritable(op string) { idx.inheritable[op] = true }

func (idx *Index) IsTransitive(op string) bool  { return idx.transitive[op] }
func (idx *Index) IsSymmetric(op string) bool   { return idx.symmetric[op] }
func (idx *Index) IsReflexive(op string) bool   { return idx.reflexive[op] }
func (idx *Index) IsInheritable(op string) bool { return idx.inheritable[op] }

// DeclareMutuallyExclusive registers a value-set under op so that, for any
// subject S, at most one of values may hold via `op S value` at a time
// (spec.md §4.10).
func (idx *Index) DeclareMutuallyExclusive(op string, values []string) {
	idx.mutuallyExcl[op] = append(idx.mutuallyExcl[op], values)
}

// ExclusiveSetFor returns the exclusive value-set containing value under
// op, or nil if value isn't a member of any declared set.
func (idx *Index) ExclusiveSetFor(op, value string) []string {
	for _, set := range idx.mutuallyExcl[op] {
		for _, v := range set {
			if v == value {
				return set
			}
		}
	}
	return nil
}

// DeclareContradicts registers that op1 and op2 contradict when applied to
// the same argument pair, symmetrically (spec.md §4.10 contradictsSameArgs).
func (idx *Index) DeclareContradicts(op1, op2 string) {
	if idx.contradicts[op1] == nil {
		idx.contradicts[op1] = make(map[string]bool)
	}
	if idx.contradicts[op2] == nil {
		idx.contradicts[op2] = make(map[string]bool)
	}
	idx.contradicts[op1][op2] = true
	idx.contradicts[op2][op1] = true
}

// Contradicts reports whether op1 and op2 are declared to contradict on
// the same argument pair.
func (idx *Index) Contradicts(op1, op2 string) bool {
	return idx.contradicts[op1][op2]
}
