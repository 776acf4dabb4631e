// Package compiler turns Sys2DSL AST (internal/ast) into HDC vectors and
// fact records, implementing the encoding rule and persistence rules of
// spec.md §4.4.
package compiler

import (
	"fmt"

	"sys2core/internal/ast"
	"sys2core/internal/atom"
	"sys2core/internal/hdc"
	"sys2core/internal/kb"
	"sys2core/internal/vocabulary"
)

// Compiler compiles statements against one session's vocabulary, strategy,
// geometry and graph table. It holds no KB-mutating state itself; callers
// decide whether/when to insert the facts it returns.
type Compiler struct {
	vocab    *vocabulary.Vocabulary
	strategy hdc.Strategy
	geom     hdc.Geometry
	maxArity int
	graphs   map[string]*ast.Graph // keyed by both Name and Alias
	theoryID string
}

// New constructs a Compiler for one theory context. theoryID scopes every
// atom this compiler interns (spec.md §4.3 "Naming is theory-scoped").
func New(vocab *vocabulary.Vocabulary, strategy hdc.Strategy, geom hdc.Geometry, maxArity int, theoryID string) *Compiler {
	return &Compiler{
		vocab:    vocab,
		strategy: strategy,
		geom:     geom,
		maxArity: maxArity,
		graphs:   make(map[string]*ast.Graph),
		theoryID: theoryID,
	}
}

// DefineGraph registers g so later statements can invoke it by Name or
// Alias.
func (c *Compiler) DefineGraph(g *ast.Graph) {
	c.graphs[g.Name] = g
	if g.Alias != "" {
		c.graphs[g.Alias] = g
	}
}

// WithTheoryID returns a Compiler for the same vocabulary, strategy,
// geometry and graph table, scoped to a different theory namespace
// (spec.md §4.3 "Naming is theory-scoped"). The graph table is shared by
// reference, so graphs registered under either handle are visible to both.
func (c *Compiler) WithTheoryID(theoryID string) *Compiler {
	return &Compiler{
		vocab:    c.vocab,
		strategy: c.strategy,
		geom:     c.geom,
		maxArity: c.maxArity,
		graphs:   c.graphs,
		theoryID: theoryID,
	}
}

func (c *Compiler) positionMarker(k int) atom.Vector {
	a := c.vocab.Intern(atom.PositionName(k), atom.CoreTheoryID)
	return a.Vector
}

// emptyBundleVector returns the reserved __EMPTY_BUNDLE__ atom's vector
// (spec.md §8 "Empty bundle"), used as the bundle argument for a zero-arity
// statement instead of a freshly generated zero vector — so two zero-arity
// statements of different operators still diverge only in opAtom.Vector,
// not in an arbitrary all-zero bundle neither could have produced any other
// way.
func (c *Compiler) emptyBundleVector() atom.Vector {
	a := c.vocab.Intern(atom.EmptyBundle, atom.CoreTheoryID)
	return a.Vector
}

// encodeTerm computes encode(term) (spec.md §4.4), returning the vector and,
// when the term resolved to exactly one named atom (an AtomName, or a
// VarRef bound to one), that atom's name — used to populate Fact.Args and
// to record proof witnesses. A nested statement yields the placeholder name
// "#nested".
func (c *Compiler) encodeTerm(scope *Scope, t ast.Term) (atom.Vector, string, error) {
	switch term := t.(type) {
	case ast.AtomName:
		a := c.vocab.Intern(term.Name, c.theoryID)
		return a.Vector, a.Name, nil
	case ast.VarRef:
		v, ok := scope.Lookup(term.Name)
		if !ok {
			return nil, "", fmt.Errorf("%w: $%s", kb.ErrUndefinedVariable, term.Name)
		}
		name, _ := scope.ResolvedName(term.Name)
		return v, name, nil
	case ast.Hole:
		return nil, "", fmt.Errorf("compiler: query hole ?%s encountered outside query context", term.Name)
	case ast.Nested:
		v, _, err := c.CompileExpr(scope, term.Statement)
		return v, "#nested", err
	default:
		return nil, "", fmt.Errorf("compiler: unknown term type %T", t)
	}
}

// CompileExpr computes encode(op, a1..aN) for a statement used purely as a
// value (a nested term, or a graph's `return` expression) — no fact is
// emitted, no scope binding happens. It returns the vector and the
// resolved argument names (for Fact.Args bookkeeping by callers that do
// want to record a fact for this result).
func (c *Compiler) CompileExpr(scope *Scope, stmt *ast.Statement) (atom.Vector, []string, error) {
	if g, ok := c.graphs[stmt.Operator]; ok {
		return c.invokeGraph(scope, g, stmt.Args)
	}

	if len(stmt.Args) > c.maxArity {
		return nil, nil, fmt.Errorf("%w: %s has %d args, max is %d", kb.ErrArityOverflow, stmt.Operator, len(stmt.Args), c.maxArity)
	}

	opAtom := c.vocab.Intern(stmt.Operator, c.theoryID)

	argNames := make([]string, len(stmt.Args))
	boundVectors := make([]atom.Vector, len(stmt.Args))
	for i, arg := range stmt.Args {
		v, name, err := c.encodeTerm(scope, arg)
		if err != nil {
			return nil, nil, err
		}
		boundVectors[i] = c.strategy.Bind(c.positionMarker(i+1), v)
		argNames[i] = name
	}

	var bundled atom.Vector
	if len(boundVectors) == 0 {
		bundled = c.emptyBundleVector()
	} else {
		b, _ := c.strategy.Bundle(boundVectors, 0)
		bundled = b
	}
	vec := c.strategy.Bind(opAtom.Vector, bundled)
	return vec, argNames, nil
}

// invokeGraph binds params to args in a fresh child scope, compiles the
// graph body in order, and returns only the final `return` expression's
// value — spec.md §4.4: "Within graph bodies, only the final return
// expression contributes to the outer invocation's result."
func (c *Compiler) invokeGraph(outer *Scope, g *ast.Graph, args []ast.Term) (atom.Vector, []string, error) {
	if len(args) != len(g.Params) {
		return nil, nil, fmt.Errorf("compiler: graph %s expects %d args, got %d", g.Name, len(g.Params), len(args))
	}
	child := NewScope()
	for i, p := range g.Params {
		v, name, err := c.encodeTerm(outer, args[i])
		if err != nil {
			return nil, nil, err
		}
		child.Bind(p, v, name)
	}
	for _, stmt := range g.Body {
		if _, _, err := c.CompileStatement(child, stmt); err != nil {
			return nil, nil, err
		}
	}
	v, name, err := c.encodeTerm(child, g.Return)
	if err != nil {
		return nil, nil, err
	}
	var names []string
	if name != "" {
		names = []string{name}
	}
	return v, names, nil
}

// CompileStatement compiles one top-level (or graph-body) statement,
// applying the persistence rules of spec.md §4.4:
//
//   - no `@` prefix: returns a fact ready for KB insertion.
//   - `@var`: binds scope[var]; returns a nil fact (plus the resolved
//     argument names) — no fact.
//   - `@var:name`: binds scope[var] AND returns a fact tagged ExportName.
//
// Graph references (stmt.Operator naming a declared graph) are handled
// transparently by CompileExpr; CompileStatement only adds the
// dest/export/fact-emission wrapper around it.
func (c *Compiler) CompileStatement(scope *Scope, stmt *ast.Statement) (*kb.Fact, []string, error) {
	vec, argNames, err := c.CompileExpr(scope, stmt)
	if err != nil {
		return nil, nil, err
	}

	if stmt.HasDest() {
		scope.Bind(stmt.Dest, vec, "")
		if !stmt.HasExportName() {
			return nil, argNames, nil
		}
	}

	f := &kb.Fact{
		Operator:   stmt.Operator,
		Args:       argNames,
		Vector:     vec,
		ExportName: stmt.ExportName,
	}
	return f, argNames, nil
}
