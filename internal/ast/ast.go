// Package ast defines the Sys2DSL surface the external parser emits
// (spec.md §6.1). Nothing in this package parses text; it only describes
// the shape the compiler (internal/compiler) consumes.
package ast

// Term is one statement argument: an atom reference, a scope-variable
// reference, a query hole, or a nested statement.
type Term interface{ isTerm() }

// AtomName is a bare identifier, resolved as an atom by name.
type AtomName struct{ Name string }

// VarRef is a `$var` scope-variable reference.
type VarRef struct{ Name string }

// Hole is a `?name` query hole; valid only inside a query-context
// statement.
type Hole struct{ Name string }

// Nested is a parenthesized nested statement used as an argument.
type Nested struct{ Statement *Statement }

func (AtomName) isTerm() {}
func (VarRef) isTerm()   {}
func (Hole) isTerm()     {}
func (Nested) isTerm()   {}

// Statement is `[@dest[:exportName]] OPERATOR arg1 arg2 … argN` (spec.md
// §6.1). Dest and ExportName are empty when the corresponding prefix form
// wasn't used.
type Statement struct {
	Dest       string // scope variable to bind the result under; "" if none
	ExportName string // KB fact name to additionally insert under; "" if none
	Operator   string
	Args       []Term
}

// HasDest reports whether this statement used the `@dest` prefix form.
func (s *Statement) HasDest() bool { return s.Dest != "" }

// HasExportName reports whether this statement used the `@dest:name` form.
func (s *Statement) HasExportName() bool { return s.ExportName != "" }

// Graph is a reusable macro (spec.md §6.1):
//
//	@Name[:alias] graph p1 p2 … pK
//	  … body statements …
//	  return $expr
//	end
type Graph struct {
	Name   string
	Alias  string // "" if not aliased
	Params []string
	Body   []*Statement
	Return Term
}

// Theory groups statements under a geometry and initial strategy:
//
//	@Name theory <geometry> <init-strategy> … end
type Theory struct {
	Name         string
	Geometry     int
	InitStrategy string
	Statements   []*Statement
	Graphs       []*Graph
}

// Directive is a top-level `@_ ...` form consumed before any statement is
// compiled.
type Directive interface{ isDirective() }

// LoadDirective is `@_ Load "<path>"`.
type LoadDirective struct{ Path string }

// UnloadDirective is `@_ Unload "<theory>"`.
type UnloadDirective struct{ TheoryName string }

// ExportDirective is `@_ Export $var`.
type ExportDirective struct{ VarName string }

func (LoadDirective) isDirective()   {}
func (UnloadDirective) isDirective() {}
func (ExportDirective) isDirective() {}

// Document is everything the parser produces from one unit of Sys2DSL
// source text: zero or more directives, graph declarations, theory blocks,
// and top-level statements, each recorded in source order so `learn` can
// replay them as a single ordered batch.
type Document struct {
	Directives []Directive
	Graphs     []*Graph
	Theories   []*Theory
	Statements []*Statement
}
