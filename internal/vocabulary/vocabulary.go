// Package vocabulary maps canonical names to atoms, theory-scoped (spec.md
// §4.3). Interning is the only way an atom's vector is created; every other
// component that needs an atom's vector goes through Intern or Lookup.
package vocabulary

import (
	"sys2core/internal/atom"
	"sys2core/internal/hdc"
)

// key scopes a surface name to the theory it was interned under, so the
// same name loaded from two distinct theories yields distinct atoms
// (spec.md §4.3 "Naming is theory-scoped") unless canonicalization upstream
// has already collapsed them to one name before Intern is called.
type key struct {
	theoryID string
	name     string
}

// Vocabulary is the session's name→atom table. It holds the strategy and
// geometry it was constructed with so Intern can call create_from_name
// without the caller threading them through on every call.
type Vocabulary struct {
	strategy hdc.Strategy
	geom     hdc.Geometry

	byKey  map[key]*atom.Atom
	byName map[string][]*atom.Atom // all atoms ever interned under this name, any theory
	order  []*atom.Atom            // interning order; index 0..n-1 assigns atom.ID
}

// New constructs an empty vocabulary bound to strategy and geom. strategy
// MUST be this session's own instance — per spec.md §4.1, "no component may
// cache a strategy globally."
func New(strategy hdc.Strategy, geom hdc.Geometry) *Vocabulary {
	return &Vocabulary{
		strategy: strategy,
		geom:     geom,
		byKey:    make(map[key]*atom.Atom),
		byName:   make(map[string][]*atom.Atom),
	}
}

// Intern returns the atom for name in theoryID, creating it via the
// strategy's create_from_name on first sight (spec.md §4.3).
func (v *Vocabulary) Intern(name, theoryID string) *atom.Atom {
	k := key{theoryID: theoryID, name: name}
	if a, ok := v.byKey[k]; ok {
		return a
	}
	a := &atom.Atom{
		ID:     len(v.order),
		Name:   name,
		Vector: v.strategy.CreateFromName(name, theoryID, v.geom),
	}
	v.byKey[k] = a
	v.byName[name] = append(v.byName[name], a)
	v.order = append(v.order, a)
	return a
}

// Lookup returns the atom for name in theoryID without creating it. The
// second return value is false if no such atom has been interned.
func (v *Vocabulary) Lookup(name, theoryID string) (*atom.Atom, bool) {
	a, ok := v.byKey[key{theoryID: theoryID, name: name}]
	return a, ok
}

// LookupAny returns every atom interned under name across all theories, in
// interning order. Used by components that need to resolve a bare name
// without a theory context (e.g. the reasoning engines' candidate domains).
func (v *Vocabulary) LookupAny(name string) []*atom.Atom {
	return v.byName[name]
}

// All returns every interned atom in interning order. Reserved atoms
// (position markers, sentinels) are always first, since Session interns
// them before any user atom (spec.md §4.2).
func (v *Vocabulary) All() []*atom.Atom {
	out := make([]*atom.Atom, len(v.order))
	copy(out, v.order)
	return out
}

// Domain returns every interned atom as an hdc.NamedVector, the shape the
// holographic engine's decode and top-K fallback search over.
func (v *Vocabulary) Domain() []hdc.NamedVector {
	out := make([]hdc.NamedVector, len(v.order))
	for i, a := range v.order {
		out[i] = hdc.NamedVector{Name: a.Name, Vector: a.Vector}
	}
	return out
}

// Len reports how many atoms have been interned.
func (v *Vocabulary) Len() int { return len(v.order) }
