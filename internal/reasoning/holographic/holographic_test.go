package holographic

import (
	"testing"

	"sys2core/internal/ast"
	"sys2core/internal/atom"
	"sys2core/internal/compiler"
	"sys2core/internal/hdc"
	"sys2core/internal/kb"
	"sys2core/internal/reasoning/symbolic"
	"sys2core/internal/semantic"
	"sys2core/internal/vocabulary"
)

func stmtOf(op, a, b string) *ast.Statement {
	return &ast.Statement{
		Operator: op,
		Args:     []ast.Term{ast.AtomName{Name: a}, ast.AtomName{Name: b}},
	}
}

func setup(t *testing.T) (*Engine, *kb.KB) {
	t.Helper()
	geom := hdc.Geometry{Dim: 8192}
	strategy := hdc.NewDenseBinary(geom)
	vocab := vocabulary.New(strategy, geom)
	for _, name := range atom.ReservedNames(atom.MaxArity) {
		vocab.Intern(name, "core")
	}
	store := kb.New()
	comp := compiler.New(vocab, strategy, geom, atom.MaxArity, "core")

	scope := compiler.NewScope()
	insertFact(t, comp, store, scope, "isA", "Socrates", "Person")
	insertFact(t, comp, store, scope, "isA", "Plato", "Person")
	insertFact(t, comp, store, scope, "isA", "Aristotle", "Person")

	sym := symbolic.New(store, semantic.New())
	eng := New(strategy, vocab, store, sym, geom, true)
	return eng, store
}

func insertFact(t *testing.T, comp *compiler.Compiler, store *kb.KB, scope *compiler.Scope, op, a, b string) {
	t.Helper()
	f, _, err := comp.CompileStatement(scope, stmtOf(op, a, b))
	if err != nil {
		t.Fatalf("compile %s(%s,%s): %v", op, a, b, err)
	}
	store.Insert(f)
}

func TestHolographicQueryValidatesAgainstSymbolic(t *testing.T) {
	eng, _ := setup(t)
	results, err := eng.Query("isA", []QueryArg{{Name: "Socrates"}, {IsHole: true, Name: "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one validated or fallback result")
	}
	found := false
	for _, r := range results {
		if r.Bindings["x"] == "Person" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected x=Person among results, got %+v", results)
	}
}

func TestHolographicProveSucceedsWithRecognizedMethod(t *testing.T) {
	eng, _ := setup(t)
	_, method, err := eng.Prove("isA", []string{"Socrates", "Person"})
	if err != nil {
		t.Fatalf("expected a proof (direct or fallback): %v", err)
	}
	if method != MethodHDCValidated && method != MethodSymbolicFallback {
		t.Fatalf("unexpected method: %s", method)
	}
}

func TestStatsAreCounted(t *testing.T) {
	eng, _ := setup(t)
	_, _ = eng.Query("isA", []QueryArg{{Name: "Socrates"}, {IsHole: true, Name: "x"}})
	if eng.Stats.HDCUnbindAttempts == 0 {
		t.Fatal("expected at least one unbind attempt to be counted")
	}
}
