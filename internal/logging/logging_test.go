package logging

import "testing"

func TestNopRegistryNeverPanics(t *testing.T) {
	r := Nop()
	l := r.For(CategorySession)
	l.Infow("hello", "k", "v")
}

func TestNewRegistryNilRootIsNop(t *testing.T) {
	r := NewRegistry(nil)
	if r.root == nil {
		t.Fatal("expected non-nil fallback root logger")
	}
}

func TestNewBuildsLoggerForValidAndInvalidLevel(t *testing.T) {
	if _, err := New("debug", true); err != nil {
		t.Fatalf("New(debug, json) error: %v", err)
	}
	if _, err := New("not-a-level", false); err != nil {
		t.Fatalf("New(invalid level) should fall back to info, got error: %v", err)
	}
}
