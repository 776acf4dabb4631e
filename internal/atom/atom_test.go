package atom

import (
	"testing"
)

func TestSetTypeFirstAssignmentSucceeds(t *testing.T) {
	a := &Atom{Name: "Socrates"}
	if err := a.SetType(TypePerson); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Type != TypePerson {
		t.Fatalf("expected TypePerson, got %v", a.Type)
	}
}

func TestSetTypeSameTypeIsIdempotent(t *testing.T) {
	a := &Atom{Name: "Socrates", Type: TypePerson}
	if err := a.SetType(TypePerson); err != nil {
		t.Fatalf("re-assigning the same type should not error: %v", err)
	}
}

func TestSetTypeRebindRejected(t *testing.T) {
	a := &Atom{Name: "Socrates", Type: TypePerson}
	err := a.SetType(TypeObject)
	if err == nil {
		t.Fatal("expected ErrTypeRebind, got nil")
	}
	rebind, ok := err.(*ErrTypeRebind)
	if !ok {
		t.Fatalf("expected *ErrTypeRebind, got %T", err)
	}
	if rebind.Existing != TypePerson || rebind.Attempt != TypeObject {
		t.Fatalf("unexpected rebind detail: %+v", rebind)
	}
}

func TestPositionName(t *testing.T) {
	if got := PositionName(1); got != "Pos_1" {
		t.Fatalf("PositionName(1) = %q, want Pos_1", got)
	}
	if got := PositionName(20); got != "Pos_20" {
		t.Fatalf("PositionName(20) = %q, want Pos_20", got)
	}
}

func TestReservedNamesOrderAndContent(t *testing.T) {
	names := ReservedNames(MaxArity)

	if len(names) != MaxArity+5 {
		t.Fatalf("expected %d reserved names, got %d", MaxArity+5, len(names))
	}
	for k := 1; k <= MaxArity; k++ {
		if names[k-1] != PositionName(k) {
			t.Fatalf("position %d: expected %s, got %s", k, PositionName(k), names[k-1])
		}
	}
	tail := names[MaxArity:]
	want := []string{BottomImpossible, TopIneffable, EmptyBundle, CanonicalRewrite, Implies}
	for i, w := range want {
		if tail[i] != w {
			t.Fatalf("tail[%d] = %q, want %q", i, tail[i], w)
		}
	}
}

func TestReservedNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, n := range ReservedNames(MaxArity) {
		if seen[n] {
			t.Fatalf("duplicate reserved name: %s", n)
		}
		seen[n] = true
	}
}
