package session

import (
	"fmt"

	"sys2core/internal/ast"
	"sys2core/internal/kb"
)

// Reserved meta-declaration operators. spec.md §4.5's semantic index
// ("operator -> declared properties") and §4.10's mutuallyExclusive/
// contradicts constraints are populated by theory-authored statements
// using these operator names, rather than by a separate declaration
// surface syntax — spec.md doesn't spell one out, so this is the session's
// own resolution of that silence, documented in DESIGN.md.
const (
	metaTransitive        = "Transitive"
	metaSymmetric         = "Symmetric"
	metaReflexive         = "Reflexive"
	metaInheritable       = "Inheritable"
	metaMutuallyExclusive = "MutuallyExclusive"
	metaContradicts       = "Contradicts"
	metaCanonical         = "Canonical"
)

// isMetaDeclaration reports whether operator is one of the reserved
// semantic-index declaration forms, so learnStatement can intercept it
// before handing the statement to the compiler.
func isMetaDeclaration(operator string) bool {
	switch operator {
	case metaTransitive, metaSymmetric, metaReflexive, metaInheritable,
		metaMutuallyExclusive, metaContradicts, metaCanonical:
		return true
	}
	return false
}

// applyMetaDeclaration updates the semantic index or canonical-rewrite
// index from a meta-declaration statement. All arguments must be bare
// AtomName terms: meta-declarations describe static theory structure, not
// runtime values, so $var/?hole/nested forms make no sense here.
func (s *Session) applyMetaDeclaration(stmt *ast.Statement) error {
	names, err := atomNames(stmt)
	if err != nil {
		return err
	}
	switch stmt.Operator {
	case metaTransitive:
		if len(names) != 1 {
			return fmt.Errorf("session: %s takes exactly one operator name", metaTransitive)
		}
		s.semantic.DeclareTransitive(names[0])
	case metaSymmetric:
		if len(names) != 1 {
			return fmt.Errorf("session: %s takes exactly one operator name", metaSymmetric)
		}
		s.semantic.DeclareSymmetric(names[0])
	case metaReflexive:
		if len(names) != 1 {
			return fmt.Errorf("session: %s takes exactly one operator name", metaReflexive)
		}
		s.semantic.DeclareReflexive(names[0])
	case metaInheritable:
		if len(names) != 1 {
			return fmt.Errorf("session: %s takes exactly one operator name", metaInheritable)
		}
		s.semantic.DeclareInheritable(names[0])
	case metaMutuallyExclusive:
		if len(names) < 3 {
			return fmt.Errorf("session: %s takes an operator and at least two values", metaMutuallyExclusive)
		}
		s.semantic.DeclareMutuallyExclusive(names[0], names[1:])
	case metaContradicts:
		if len(names) != 2 {
			return fmt.Errorf("session: %s takes exactly two operator names", metaContradicts)
		}
		s.semantic.DeclareContradicts(names[0], names[1])
	case metaCanonical:
		if len(names) != 2 {
			return fmt.Errorf("session: %s takes exactly an alias and a canonical name", metaCanonical)
		}
		s.kb.DeclareCanonical(names[0], names[1])
	}
	return nil
}

func atomNames(stmt *ast.Statement) ([]string, error) {
	out := make([]string, len(stmt.Args))
	for i, a := range stmt.Args {
		name, ok := a.(ast.AtomName)
		if !ok {
			return nil, fmt.Errorf("session: %s argument %d must be a bare atom name", stmt.Operator, i+1)
		}
		out[i] = name.Name
	}
	return out, nil
}

// isRuleStatement reports whether stmt declares a rule: operator Implies
// with exactly two arguments, each either a nested statement or a `$var`
// reference to a previously-bound rule-literal template (spec.md §3
// "Rule", scenario C's `@r Implies $c $k` form).
func isRuleStatement(stmt *ast.Statement) bool {
	if stmt.Operator != "Implies" || len(stmt.Args) != 2 {
		return false
	}
	return isRuleTemplateTerm(stmt.Args[0]) && isRuleTemplateTerm(stmt.Args[1])
}

func isRuleTemplateTerm(t ast.Term) bool {
	switch t.(type) {
	case ast.Nested, ast.VarRef:
		return true
	}
	return false
}

// containsHole reports whether any of stmt's direct arguments is a query
// hole. A dest-bound statement containing a hole (e.g. `@c isA ?x Human`)
// is a rule-literal template, not a fact to compile — spec.md §3 "Rule":
// "Expressions may contain variables (?x)" — reusing ast.Hole for rule
// variables rather than inventing a parallel term, since the shapes are
// identical and the compiler never touches rule bodies directly.
func containsHole(stmt *ast.Statement) bool {
	for _, a := range stmt.Args {
		if _, ok := a.(ast.Hole); ok {
			return true
		}
	}
	return false
}

// ruleFromStatement builds a kb.Fact rule record from an Implies
// statement whose condition/conclusion arguments are resolved via
// s.literalTemplate (spec.md §3 "Rule").
func (s *Session) ruleFromStatement(stmt *ast.Statement) (*kb.Fact, error) {
	premises, err := s.premisesFromArg(stmt.Args[0])
	if err != nil {
		return nil, err
	}
	conclusion, err := s.literalTemplate(stmt.Args[1])
	if err != nil {
		return nil, err
	}
	return &kb.Fact{
		Operator:   "Implies",
		IsRule:     true,
		Premises:   premises,
		Conclusion: conclusion,
	}, nil
}

// literalTemplate resolves one rule condition/conclusion argument to a
// kb.Literal: a nested statement is converted directly; a $var reference
// is looked up among the rule-literal templates bound earlier in this
// batch (or an earlier batch) by a dest-bound hole-bearing statement.
func (s *Session) literalTemplate(t ast.Term) (kb.Literal, error) {
	switch term := t.(type) {
	case ast.Nested:
		return literalFromStatement(term.Statement)
	case ast.VarRef:
		lit, ok := s.ruleLiterals[term.Name]
		if !ok {
			return kb.Literal{}, fmt.Errorf("%w: $%s (not a rule-literal template)", kb.ErrUndefinedVariable, term.Name)
		}
		return lit, nil
	default:
		return kb.Literal{}, fmt.Errorf("session: rule condition/conclusion must be a nested statement or $var, got %T", t)
	}
}

// premisesFromArg treats a reserved `And` operator (on a nested-statement
// arg) as a conjunction of premises, and anything else as a single-literal
// premise list, so rule bodies can express multi-premise conjunctions
// without a dedicated AST node. $var-referenced templates are always
// single premises, since a rule-literal template stores exactly one
// kb.Literal.
func (s *Session) premisesFromArg(t ast.Term) ([]kb.Literal, error) {
	nested, ok := t.(ast.Nested)
	if ok && nested.Statement.Operator == "And" {
		var out []kb.Literal
		for _, arg := range nested.Statement.Args {
			lit, err := s.literalTemplate(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, lit)
		}
		return out, nil
	}
	lit, err := s.literalTemplate(t)
	if err != nil {
		return nil, err
	}
	return []kb.Literal{lit}, nil
}

func literalFromStatement(stmt *ast.Statement) (kb.Literal, error) {
	args := make([]kb.Term, len(stmt.Args))
	for i, a := range stmt.Args {
		switch t := a.(type) {
		case ast.AtomName:
			args[i] = kb.Const(t.Name)
		case ast.Hole:
			args[i] = kb.Var(t.Name)
		default:
			return kb.Literal{}, fmt.Errorf("session: rule expressions may only use atom names and ?holes, got %T", a)
		}
	}
	return kb.Literal{Operator: stmt.Operator, Args: args}, nil
}

// CorePack returns the Core theory's semantic declarations, loaded on
// session open when auto_load_core is set (spec.md §6.4 "auto_load_core").
// isA is declared transitive (so "Socrates isA Greek" + "Greek isA Mortal"
// composes) and inheritable (so the isA-ancestor walk of spec.md §4.6 step 4
// also runs for isA goals). Other operators get that walk only when they
// are declared inheritable themselves.
func CorePack() *ast.Document {
	return &ast.Document{
		Statements: []*ast.Statement{
			{Operator: metaTransitive, Args: []ast.Term{ast.AtomName{Name: "isA"}}},
			{Operator: metaInheritable, Args: []ast.Term{ast.AtomName{Name: "isA"}}},
		},
	}
}
