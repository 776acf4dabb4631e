package csp

import (
	"testing"

	"sys2core/internal/kb"
)

func TestAllDifferentUnsatisfiableOverSmallDomain(t *testing.T) {
	p := &Problem{
		VarOrder: []string{"A", "B", "C"},
		Domains: map[string][]string{
			"A": {"1", "2"},
			"B": {"1", "2"},
			"C": {"1", "2"},
		},
		Constraints:  []Constraint{AllDifferent{Variables: []string{"A", "B", "C"}}},
		MaxSolutions: 10,
		TimeoutMS:    1000,
	}
	res := Solve(p)
	if res.Success {
		t.Fatal("expected no solution: 3 vars over a 2-value domain can't all differ")
	}
}

func TestAllDifferentOverSufficientDomain(t *testing.T) {
	p := &Problem{
		VarOrder: []string{"A", "B", "C"},
		Domains: map[string][]string{
			"A": {"1", "2", "3"},
			"B": {"1", "2", "3"},
			"C": {"1", "2", "3"},
		},
		Constraints:  []Constraint{AllDifferent{Variables: []string{"A", "B", "C"}}},
		MaxSolutions: 100,
		TimeoutMS:    1000,
	}
	res := Solve(p)
	if !res.Success {
		t.Fatal("expected at least one solution")
	}
	for _, sol := range res.Solutions {
		seen := map[string]bool{}
		for _, v := range sol {
			if seen[v] {
				t.Fatalf("solution %+v violates AllDifferent", sol)
			}
			seen[v] = true
		}
	}
}

func TestMaxSolutionsCapsResultCount(t *testing.T) {
	p := &Problem{
		VarOrder: []string{"A", "B"},
		Domains: map[string][]string{
			"A": {"1", "2", "3"},
			"B": {"1", "2", "3"},
		},
		Constraints:  nil,
		MaxSolutions: 2,
		TimeoutMS:    1000,
	}
	res := Solve(p)
	if len(res.Solutions) != 2 {
		t.Fatalf("expected exactly 2 solutions (MaxSolutions cap), got %d", len(res.Solutions))
	}
}

func TestRelationalFromKBRestrictsAssignment(t *testing.T) {
	store := kb.New()
	store.Insert(&kb.Fact{Operator: "likes", Args: []string{"Romeo", "Juliet"}})

	p := &Problem{
		VarOrder: []string{"Who"},
		Domains: map[string][]string{
			"Who": {"Romeo", "Paris", "Mercutio"},
		},
		Constraints: []Constraint{
			Relational{VarA: "Who", VarB: "__Juliet__", Operator: "likes", KB: store},
		},
		MaxSolutions: 10,
		TimeoutMS:    1000,
	}
	// Relational needs both vars bound; wire a constant second variable.
	p.VarOrder = append(p.VarOrder, "__Juliet__")
	p.Domains["__Juliet__"] = []string{"Juliet"}

	res := Solve(p)
	if !res.Success {
		t.Fatal("expected a solution where likes(Who,Juliet) holds")
	}
	for _, sol := range res.Solutions {
		if sol["Who"] != "Romeo" {
			t.Fatalf("expected Who=Romeo, got %+v", sol)
		}
	}
}

func TestRelationalNegatedExcludesRelatedPair(t *testing.T) {
	store := kb.New()
	store.Insert(&kb.Fact{Operator: "contradicts", Args: []string{"Red", "Green"}})

	p := &Problem{
		VarOrder: []string{"X", "Y"},
		Domains: map[string][]string{
			"X": {"Red"},
			"Y": {"Red", "Green"},
		},
		Constraints: []Constraint{
			Relational{VarA: "X", VarB: "Y", Operator: "contradicts", KB: store, Negate: true},
		},
		MaxSolutions: 10,
		TimeoutMS:    1000,
	}
	res := Solve(p)
	if !res.Success {
		t.Fatal("expected a solution avoiding the conflicting pair")
	}
	for _, sol := range res.Solutions {
		if sol["X"] == "Red" && sol["Y"] == "Green" {
			t.Fatalf("solution %+v violates negated Relational", sol)
		}
	}
}

func TestLogicalCombinators(t *testing.T) {
	base := Predicate{
		Variables: []string{"X"},
		Fn:        func(a map[string]string) bool { return a["X"] == "1" },
	}
	notC := Not{Inner: base}
	if notC.Check(map[string]string{"X": "1"}) {
		t.Fatal("Not should invert satisfied base constraint")
	}
	if !notC.Check(map[string]string{"X": "2"}) {
		t.Fatal("Not should allow X=2")
	}

	and := And{Inner: []Constraint{base, Predicate{
		Variables: []string{"X"},
		Fn:        func(a map[string]string) bool { return true },
	}}}
	if !and.Check(map[string]string{"X": "1"}) {
		t.Fatal("And of two satisfied constraints should hold")
	}

	or := Or{Inner: []Constraint{base, Predicate{
		Variables: []string{"X"},
		Fn:        func(a map[string]string) bool { return a["X"] == "2" }},
	}}
	if !or.Check(map[string]string{"X": "2"}) {
		t.Fatal("Or should be satisfied when one branch holds")
	}
}

func TestNoSolutionWhenDomainEmpty(t *testing.T) {
	p := &Problem{
		VarOrder:     []string{"A"},
		Domains:      map[string][]string{"A": {}},
		MaxSolutions: 1,
		TimeoutMS:    1000,
	}
	res := Solve(p)
	if res.Success {
		t.Fatal("expected no solution over an empty domain")
	}
	if res.Stats.Backtracks == 0 {
		t.Fatal("expected an empty domain to count as a backtrack, per spec.md §8's unsat boundary")
	}
}

func TestStatsReportNodesAndTime(t *testing.T) {
	p := &Problem{
		VarOrder: []string{"A", "B"},
		Domains: map[string][]string{
			"A": {"1", "2"},
			"B": {"1", "2"},
		},
		Constraints:  []Constraint{AllDifferent{Variables: []string{"A", "B"}}},
		MaxSolutions: 10,
		TimeoutMS:    1000,
	}
	res := Solve(p)
	if res.Stats.Nodes == 0 {
		t.Fatal("expected at least one search node to be counted")
	}
}

func TestDeterministicInsertionOrderSolutions(t *testing.T) {
	p := &Problem{
		VarOrder: []string{"A", "B"},
		Domains: map[string][]string{
			"A": {"x", "y"},
			"B": {"x", "y"},
		},
		Constraints:  []Constraint{AllDifferent{Variables: []string{"A", "B"}}},
		MaxSolutions: 100,
		TimeoutMS:    1000,
	}
	res1 := Solve(p)
	res2 := Solve(p)
	if len(res1.Solutions) != len(res2.Solutions) {
		t.Fatal("expected repeated solves of the same problem to be reproducible")
	}
	for i := range res1.Solutions {
		if res1.Solutions[i]["A"] != res2.Solutions[i]["A"] || res1.Solutions[i]["B"] != res2.Solutions[i]["B"] {
			t.Fatalf("expected identical solution order, got %+v vs %+v", res1.Solutions, res2.Solutions)
		}
	}
}
