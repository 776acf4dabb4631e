package kb

import "testing"

func TestInsertAssignsAscendingIDs(t *testing.T) {
	k := New()
	f1 := k.Insert(&Fact{Operator: "isA", Args: []string{"Socrates", "Person"}, Level: 0})
	f2 := k.Insert(&Fact{Operator: "isA", Args: []string{"Plato", "Person"}, Level: 0})
	if f1.ID != 0 || f2.ID != 1 {
		t.Fatalf("expected ascending ids 0,1; got %d,%d", f1.ID, f2.ID)
	}
	if k.Len() != 2 {
		t.Fatalf("expected len 2, got %d", k.Len())
	}
}

func TestByOperatorAndByArgIndices(t *testing.T) {
	k := New()
	k.Insert(&Fact{Operator: "isA", Args: []string{"Socrates", "Person"}})
	k.Insert(&Fact{Operator: "isA", Args: []string{"Plato", "Person"}})
	k.Insert(&Fact{Operator: "livesIn", Args: []string{"Socrates", "Athens"}})

	byOp := k.ByOperator("isA")
	if len(byOp) != 2 {
		t.Fatalf("expected 2 isA facts, got %d", len(byOp))
	}
	byArg := k.ByArg("Socrates")
	if len(byArg) != 2 {
		t.Fatalf("expected 2 facts mentioning Socrates, got %d", len(byArg))
	}
}

func TestCanonicalizationRewritesAlias(t *testing.T) {
	k := New()
	k.DeclareCanonical("adores", "loves")
	k.Insert(&Fact{Operator: "loves", Args: []string{"Romeo", "Juliet"}})

	if got := k.Canonicalize("adores"); got != "loves" {
		t.Fatalf("expected adores to canonicalize to loves, got %s", got)
	}
	facts := k.ByOperator("adores")
	if len(facts) != 1 {
		t.Fatalf("expected ByOperator(adores) to resolve through canonicalization, got %d facts", len(facts))
	}
}

func TestRuleIndexByConclusionOperator(t *testing.T) {
	k := New()
	k.Insert(&Fact{
		Operator: "Implies",
		IsRule:   true,
		Level:    1,
		Premises: []Literal{{Operator: "isA", Args: []Term{Var("x"), Const("Person")}}},
		Conclusion: Literal{
			Operator: "mortal",
			Args:     []Term{Var("x")},
		},
	})
	rules := k.RulesFor("mortal")
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule concluding mortal, got %d", len(rules))
	}
}

func TestLevelComputation(t *testing.T) {
	if Level(nil) != 0 {
		t.Fatal("expected primitive level 0 for no dependencies")
	}
	if Level([]int{0, 2, 1}) != 3 {
		t.Fatalf("expected 1+max(0,2,1)=3, got %d", Level([]int{0, 2, 1}))
	}
}

func TestRollbackDiscardsBatchButKeepsEarlier(t *testing.T) {
	k := New()
	k.Insert(&Fact{Operator: "isA", Args: []string{"Socrates", "Person"}})
	mark := k.Snapshot()
	k.Insert(&Fact{Operator: "isA", Args: []string{"Plato", "Person"}})
	k.Insert(&Fact{Operator: "livesIn", Args: []string{"Plato", "Athens"}})

	k.RollbackTo(mark)

	if k.Len() != 1 {
		t.Fatalf("expected len 1 after rollback, got %d", k.Len())
	}
	if len(k.ByOperator("livesIn")) != 0 {
		t.Fatal("expected livesIn facts to be rolled back")
	}
	if len(k.ByArg("Plato")) != 0 {
		t.Fatal("expected component index entries for Plato to be rolled back")
	}
	if len(k.ByOperator("isA")) != 1 {
		t.Fatal("expected the pre-transaction isA fact to survive rollback")
	}
}

func TestHasGroundFact(t *testing.T) {
	k := New()
	k.Insert(&Fact{Operator: "isA", Args: []string{"Socrates", "Person"}})
	if !k.HasGroundFact("isA", []string{"Socrates", "Person"}) {
		t.Fatal("expected HasGroundFact to find the exact ground fact")
	}
	if k.HasGroundFact("isA", []string{"Plato", "Person"}) {
		t.Fatal("did not expect HasGroundFact to find a fact that doesn't exist")
	}
}
