package session

import (
	"errors"
	"fmt"

	"sys2core/internal/ast"
	"sys2core/internal/compiler"
	"sys2core/internal/contradiction"
	"sys2core/internal/kb"
	"sys2core/internal/logging"
)

// LearnResult is the outcome of one learn batch (spec.md §6.3).
type LearnResult struct {
	Success    bool
	FactsAdded int
	Warnings   []string
	Errors     []string
	Rejected   *contradiction.Contradiction
}

// Learn commits an entire document as one transactional batch (spec.md
// §4.4 "Learn is transactional"): directives, then graph definitions, then
// theory-scoped statements, then top-level statements, in source order.
// Any failure rolls back every KB fact and scope binding from this batch,
// but NOT vocabulary atoms interned along the way (spec.md §9
// "Transactional learn with vocabulary retention" — the one deliberately
// asymmetric rollback behavior).
func (s *Session) Learn(doc *ast.Document) (*LearnResult, error) {
	kbMark := s.kb.Snapshot()
	scopeMark := s.scope.Snapshot()
	ruleLiteralsMark := cloneRuleLiterals(s.ruleLiterals)
	result := &LearnResult{Success: true}

	fail := func(err error) (*LearnResult, error) {
		s.kb.RollbackTo(kbMark)
		s.scope.RollbackTo(scopeMark)
		s.ruleLiterals = ruleLiteralsMark
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
		var c *contradiction.Contradiction
		if errors.As(err, &c) {
			result.Rejected = c
		}
		s.stats.LearnBatchesRejected++
		s.logs.For(logging.CategorySession).Warnw("learn batch rejected", "reason", err.Error())
		return result, err
	}

	for _, d := range doc.Directives {
		if err := s.applyDirective(d); err != nil {
			return fail(err)
		}
	}

	for _, g := range doc.Graphs {
		s.compiler.DefineGraph(g)
	}

	for _, th := range doc.Theories {
		if th.Geometry != 0 && th.Geometry != s.config.Geometry {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"theory %s declares geometry %d, session is fixed at %d; ignoring theory geometry",
				th.Name, th.Geometry, s.config.Geometry))
		}
		themeCompiler := s.compiler.WithTheoryID(th.Name)
		for _, g := range th.Graphs {
			themeCompiler.DefineGraph(g)
		}
		for _, stmt := range th.Statements {
			if err := s.learnStatement(themeCompiler, stmt, result); err != nil {
				return fail(err)
			}
		}
	}

	for _, stmt := range doc.Statements {
		if err := s.learnStatement(s.compiler, stmt, result); err != nil {
			return fail(err)
		}
	}

	s.runForwardChain()
	s.stats.FactsLearned += result.FactsAdded
	return result, nil
}

// learnStatement applies the persistence rules of spec.md §4.4 to one
// statement: meta-declarations update the semantic/canonical indices, rule
// statements are recorded without a compiled vector, and everything else
// goes through the compiler and, for ground two-arg facts, the
// contradiction detector before being inserted.
func (s *Session) learnStatement(comp *compiler.Compiler, stmt *ast.Statement, result *LearnResult) error {
	if isMetaDeclaration(stmt.Operator) {
		return s.applyMetaDeclaration(stmt)
	}
	if isRuleStatement(stmt) {
		rule, err := s.ruleFromStatement(stmt)
		if err != nil {
			return err
		}
		rule.Level = 0
		s.kb.Insert(rule)
		return nil
	}
	if containsHole(stmt) {
		if !stmt.HasDest() {
			return fmt.Errorf("session: %s ?hole statement must bind a @dest rule-literal template", stmt.Operator)
		}
		lit, err := literalFromStatement(stmt)
		if err != nil {
			return err
		}
		s.ruleLiterals[stmt.Dest] = lit
		return nil
	}

	fact, _, err := comp.CompileStatement(s.scope, stmt)
	if err != nil {
		return err
	}
	if fact == nil {
		// @var without :exportName: scope binding only, no fact.
		return nil
	}

	depLevels := make([]int, 0, len(fact.Args))
	for _, a := range fact.Args {
		depLevels = append(depLevels, s.maxLevelMentioning(a))
	}
	fact.Level = kb.Level(depLevels)

	if err := s.detector.Check(fact); err != nil {
		return err
	}

	s.kb.Insert(fact)
	result.FactsAdded++
	return nil
}

func cloneRuleLiterals(m map[string]kb.Literal) map[string]kb.Literal {
	out := make(map[string]kb.Literal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Session) maxLevelMentioning(atomName string) int {
	max := 0
	for _, f := range s.kb.ByArg(atomName) {
		if f.Level > max {
			max = f.Level
		}
	}
	return max
}

// applyDirective resolves one top-level `@_ ...` directive (spec.md §6.1,
// §6.2).
func (s *Session) applyDirective(d ast.Directive) error {
	switch dir := d.(type) {
	case ast.LoadDirective:
		return s.loadTheoryFile(dir.Path)
	case ast.UnloadDirective:
		if !s.loadedTheories[dir.TheoryName] {
			return fmt.Errorf("%w: %s", ErrUnknownTheory, dir.TheoryName)
		}
		delete(s.loadedTheories, dir.TheoryName)
		return nil
	case ast.ExportDirective:
		// Exporting an already-bound scope var to the KB under its own
		// name is handled at compile time via `@var:name`; a bare
		// `@_ Export $var` directive re-affirms persistence for a var
		// already bound earlier in this batch without changing its fact.
		if _, ok := s.scope.Lookup(dir.VarName); !ok {
			return fmt.Errorf("%w: $%s", kb.ErrUndefinedVariable, dir.VarName)
		}
		return nil
	default:
		return fmt.Errorf("session: unknown directive type %T", d)
	}
}

// loadTheoryFile resolves path against the configured base path and parses
// it via the session's Parser, idempotent per session-id×path (spec.md
// §6.2); since every Session instance is process-local and never
// persisted, idempotency only needs to be tracked for this session's
// lifetime.
func (s *Session) loadTheoryFile(path string) error {
	if s.loadedTheories[path] {
		return nil
	}
	if s.parser == nil {
		return fmt.Errorf("%w: %s", ErrNoParserConfigured, path)
	}
	resolved := resolveTheoryPath(s.config.BasePath, path)
	data, err := s.readTheoryFile(resolved)
	if err != nil {
		return err
	}
	doc, err := s.parser.Parse(data)
	if err != nil {
		return fmt.Errorf("session: parsing theory %s: %w", path, err)
	}
	s.loadedTheories[path] = true
	if _, err := s.Learn(doc); err != nil {
		delete(s.loadedTheories, path)
		return err
	}
	return nil
}
