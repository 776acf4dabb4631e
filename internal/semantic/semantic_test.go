package semantic

import "testing"

func TestDeclareAndQueryRelationProperties(t *testing.T) {
	idx := New()
	idx.DeclareTransitive("isA")
	idx.DeclareSymmetric("conflictsWith")
	idx.DeclareInheritable("hasProperty")

	if !idx.IsTransitive("isA") {
		t.Fatal("expected isA to be transitive")
	}
	if !idx.IsSymmetric("conflictsWith") {
		t.Fatal("expected conflictsWith to be symmetric")
	}
	if !idx.IsInheritable("hasProperty") {
		t.Fatal("expected hasProperty to be inheritable")
	}
	if idx.IsTransitive("hasState") {
		t.Fatal("hasState was never declared transitive")
	}
}

func TestMutuallyExclusiveLookup(t *testing.T) {
	idx := New()
	idx.DeclareMutuallyExclusive("hasState", []string{"Open", "Closed"})

	set := idx.ExclusiveSetFor("hasState", "Open")
	if len(set) != 2 {
		t.Fatalf("expected exclusive set of 2, got %v", set)
	}
	if idx.ExclusiveSetFor("hasState", "Locked") != nil {
		t.Fatal("Locked was never declared part of an exclusive set")
	}
}

func TestContradictsIsSymmetric(t *testing.T) {
	idx := New()
	idx.DeclareContradicts("loves", "hates")

	if !idx.Contradicts("loves", "hates") {
		t.Fatal("expected loves to contradict hates")
	}
	if !idx.Contradicts("hates", "loves") {
		t.Fatal("expected contradiction to be registered symmetrically")
	}
	if idx.Contradicts("loves", "likes") {
		t.Fatal("loves/likes was never declared contradictory")
	}
}
