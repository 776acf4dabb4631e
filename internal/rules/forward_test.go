package rules

import (
	"testing"

	"sys2core/internal/kb"
	"sys2core/internal/reasoning/symbolic"
	"sys2core/internal/semantic"
)

func TestForwardChainMaterializesConclusion(t *testing.T) {
	store := kb.New()
	store.Insert(&kb.Fact{Operator: "isA", Args: []string{"Socrates", "Person"}})
	store.Insert(&kb.Fact{
		Operator: "Implies",
		IsRule:   true,
		Level:    1,
		Premises: []kb.Literal{{Operator: "isA", Args: []kb.Term{kb.Var("x"), kb.Const("Person")}}},
		Conclusion: kb.Literal{
			Operator: "mortal",
			Args:     []kb.Term{kb.Var("x")},
		},
	})

	engine := symbolic.New(store, semantic.New())
	res := RunToFixedPoint(store, engine, 0)

	if res.FactsAdded != 1 {
		t.Fatalf("expected exactly 1 materialized fact, got %d (iterations=%d)", res.FactsAdded, res.Iterations)
	}
	if !store.HasGroundFact("mortal", []string{"Socrates"}) {
		t.Fatal("expected mortal(Socrates) to be materialized")
	}
}

func TestForwardChainReachesFixedPointWithoutDuplicates(t *testing.T) {
	store := kb.New()
	store.Insert(&kb.Fact{Operator: "isA", Args: []string{"Socrates", "Person"}})
	store.Insert(&kb.Fact{
		Operator: "Implies",
		IsRule:   true,
		Level:    1,
		Premises: []kb.Literal{{Operator: "isA", Args: []kb.Term{kb.Var("x"), kb.Const("Person")}}},
		Conclusion: kb.Literal{
			Operator: "mortal",
			Args:     []kb.Term{kb.Var("x")},
		},
	})

	engine := symbolic.New(store, semantic.New())
	RunToFixedPoint(store, engine, 0)
	lenAfterFirst := store.Len()
	res2 := RunToFixedPoint(store, engine, 0)

	if res2.FactsAdded != 0 {
		t.Fatalf("expected a second run to add nothing new, got %d", res2.FactsAdded)
	}
	if store.Len() != lenAfterFirst {
		t.Fatal("expected KB size unchanged on a no-op second run")
	}
}

func TestForwardChainHonorsMaxIterations(t *testing.T) {
	store := kb.New()
	engine := symbolic.New(store, semantic.New())
	res := RunToFixedPoint(store, engine, 1)
	if res.Iterations != 1 {
		t.Fatalf("expected exactly 1 iteration with no rules and maxIterations=1, got %d", res.Iterations)
	}
}
