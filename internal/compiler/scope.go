package compiler

import "sys2core/internal/atom"

// Scope holds `$var` bindings created by `@var` statement forms (spec.md
// §4.4). It outlives a single learn call — only the bindings created
// during a rejected batch are rolled back — so the session owns one Scope
// for its whole lifetime.
type Scope struct {
	vars map[string]atom.Vector
	// names records, for a scope variable whose bound vector is exactly
	// one atom's vector (no composition happened), that atom's canonical
	// name — so a fact argument written as `$var` can still be recorded
	// by name rather than only as an opaque vector.
	names map[string]string
}

// NewScope constructs an empty scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]atom.Vector), names: make(map[string]string)}
}

// Bind records var's vector (and, if it resolves directly to one atom,
// its name).
func (s *Scope) Bind(varName string, v atom.Vector, resolvedName string) {
	s.vars[varName] = v
	if resolvedName != "" {
		s.names[varName] = resolvedName
	} else {
		delete(s.names, varName)
	}
}

// Lookup returns the vector bound to varName, or false if undefined.
func (s *Scope) Lookup(varName string) (atom.Vector, bool) {
	v, ok := s.vars[varName]
	return v, ok
}

// ResolvedName returns the atom name varName resolves to, if any.
func (s *Scope) ResolvedName(varName string) (string, bool) {
	n, ok := s.names[varName]
	return n, ok
}

// snapshot is an opaque rollback marker: a shallow copy of both maps at
// the moment a learn batch begins.
type snapshot struct {
	vars  map[string]atom.Vector
	names map[string]string
}

// Snapshot captures the current bindings for later rollback.
func (s *Scope) Snapshot() snapshot {
	vars := make(map[string]atom.Vector, len(s.vars))
	for k, v := range s.vars {
		vars[k] = v
	}
	names := make(map[string]string, len(s.names))
	for k, v := range s.names {
		names[k] = v
	}
	return snapshot{vars: vars, names: names}
}

// RollbackTo discards any binding created or overwritten since snap was
// taken (spec.md §4.10 "all scope variables created for the batch are
// discarded").
func (s *Scope) RollbackTo(snap snapshot) {
	s.vars = snap.vars
	s.names = snap.names
}
