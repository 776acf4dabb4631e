package hdc

import (
	"testing"

	"sys2core/internal/atom"
)

// contractCase bundles a strategy instance with the geometry its vectors
// should be created at, so the contract tester below (spec.md §4.1
// "Required invariants (verified by a contract tester)") can run the same
// checks against every strategy specified.
type contractCase struct {
	name string
	s    Strategy
	geom Geometry
}

func contractCases() []contractCase {
	return []contractCase{
		{"dense-binary", NewDenseBinary(Geometry{Dim: 2048}), Geometry{Dim: 2048}},
		{"exact", NewExact(), Geometry{}},
		{"sparse-polynomial", NewSparsePolynomial(Geometry{Dim: 4096}), Geometry{Dim: 4096}},
		{"metric-affine", NewMetricAffine(Geometry{Dim: 256}), Geometry{Dim: 256}},
	}
}

func isXORClass(name string) bool {
	return name == "dense-binary" || name == "exact" || name == "sparse-polynomial"
}

func TestContractReflexivity(t *testing.T) {
	for _, c := range contractCases() {
		t.Run(c.name, func(t *testing.T) {
			v := c.s.CreateFromName("alpha", "theory1", c.geom)
			if got := c.s.Similarity(v, v); got != 1.0 {
				t.Fatalf("similarity(v, v) = %v, want 1.0", got)
			}
		})
	}
}

func TestContractSymmetry(t *testing.T) {
	for _, c := range contractCases() {
		t.Run(c.name, func(t *testing.T) {
			a := c.s.CreateFromName("alpha", "theory1", c.geom)
			b := c.s.CreateFromName("beta", "theory1", c.geom)
			ab := c.s.Similarity(a, b)
			ba := c.s.Similarity(b, a)
			if ab != ba {
				t.Fatalf("similarity(a,b)=%v != similarity(b,a)=%v", ab, ba)
			}
		})
	}
}

func TestContractRange(t *testing.T) {
	for _, c := range contractCases() {
		t.Run(c.name, func(t *testing.T) {
			a := c.s.CreateFromName("alpha", "theory1", c.geom)
			b := c.s.CreateFromName("beta", "theory1", c.geom)
			sim := c.s.Similarity(a, b)
			if sim < 0 || sim > 1 {
				t.Fatalf("similarity out of [0,1]: %v", sim)
			}
		})
	}
}

func TestContractDeterminismOfCreateFromName(t *testing.T) {
	for _, c := range contractCases() {
		t.Run(c.name, func(t *testing.T) {
			v1 := c.s.CreateFromName("gamma", "theory1", c.geom)
			v2 := c.s.CreateFromName("gamma", "theory1", c.geom)
			if !c.s.Equals(v1, v2) {
				t.Fatalf("create_from_name not deterministic within session")
			}
		})
	}
}

func TestContractBundleDeterminism(t *testing.T) {
	for _, c := range contractCases() {
		t.Run(c.name, func(t *testing.T) {
			a := c.s.CreateFromName("a", "t", c.geom)
			b := c.s.CreateFromName("b", "t", c.geom)
			d := c.s.CreateFromName("d", "t", c.geom)
			bundle1, _ := c.s.Bundle([]atom.Vector{a, b, d}, 0)
			bundle2, _ := c.s.Bundle([]atom.Vector{a, b, d}, 0)
			if !c.s.Equals(bundle1, bundle2) {
				t.Fatalf("bundle not deterministic for identical input multiset")
			}
		})
	}
}

func TestContractXORClassBindUnbindIdentity(t *testing.T) {
	for _, c := range contractCases() {
		if !isXORClass(c.name) {
			continue
		}
		t.Run(c.name, func(t *testing.T) {
			a := c.s.CreateFromName("a", "t", c.geom)
			b := c.s.CreateFromName("b", "t", c.geom)
			bound := c.s.Bind(a, b)
			recovered := c.s.Bind(bound, b)
			if !c.s.Equals(a, recovered) {
				t.Fatalf("bind(bind(a,b),b) != a for XOR-class strategy %s", c.name)
			}
		})
	}
}

func TestMetricAffineUnbindRecoversOriginal(t *testing.T) {
	s := NewMetricAffine(Geometry{Dim: 256})
	a := s.CreateFromName("a", "t", Geometry{Dim: 256})
	b := s.CreateFromName("b", "t", Geometry{Dim: 256})
	bound := s.Bind(a, b)
	recovered := s.Unbind(bound, b)
	if !s.Equals(a, recovered) {
		t.Fatal("metric-affine Unbind should exactly invert Bind via mod-256 subtraction")
	}
}

func TestCloneProducesEqualButIndependentVector(t *testing.T) {
	for _, c := range contractCases() {
		t.Run(c.name, func(t *testing.T) {
			v := c.s.CreateFromName("alpha", "t", c.geom)
			clone := c.s.Clone(v)
			if !c.s.Equals(v, clone) {
				t.Fatalf("clone not equal to original")
			}
		})
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	for _, c := range contractCases() {
		t.Run(c.name, func(t *testing.T) {
			v := c.s.CreateFromName("alpha", "t", c.geom)
			data, err := c.s.Serialize(v)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			back, err := c.s.Deserialize(data)
			if err != nil {
				t.Fatalf("deserialize: %v", err)
			}
			if !c.s.Equals(v, back) {
				t.Fatalf("round-trip mismatch")
			}
		})
	}
}

func TestDenseBinaryRandomBaselineNearHalf(t *testing.T) {
	s := NewDenseBinary(Geometry{Dim: 8192})
	a := s.CreateRandom(Geometry{Dim: 8192}, 1)
	b := s.CreateRandom(Geometry{Dim: 8192}, 2)
	sim := s.Similarity(a, b)
	if sim < 0.4 || sim > 0.6 {
		t.Fatalf("expected baseline similarity near 0.5 for independent random vectors, got %v", sim)
	}
}

func TestMetricAffineRandomBaselineNearPointSixSeven(t *testing.T) {
	s := NewMetricAffine(Geometry{Dim: 8192})
	a := s.CreateRandom(Geometry{Dim: 8192}, 1)
	b := s.CreateRandom(Geometry{Dim: 8192}, 2)
	sim := s.Similarity(a, b)
	if sim < 0.55 || sim > 0.78 {
		t.Fatalf("expected baseline similarity near 0.67 for independent random byte vectors, got %v", sim)
	}
}

func TestDenseBinaryBundleCapacityWarning(t *testing.T) {
	s := NewDenseBinary(Geometry{Dim: 64})
	vecs := make([]atom.Vector, 0, 50)
	for i := 0; i < 50; i++ {
		vecs = append(vecs, s.CreateRandom(Geometry{Dim: 64}, int64(i)))
	}
	_, warn := s.Bundle(vecs, 0)
	if warn == nil {
		t.Fatal("expected a capacity warning when bundling well past the soft cap")
	}
}

func TestExactBindIsSymmetricDifference(t *testing.T) {
	s := NewExact()
	a := s.CreateFromName("a", "t", Geometry{})
	b := s.CreateFromName("b", "t", Geometry{})
	bound := s.Bind(a, b)
	if s.Similarity(bound, a) == 1.0 {
		t.Fatal("bind(a,b) should differ from a")
	}
	selfBind := s.Bind(a, a)
	zero := newExactVector()
	if !s.Equals(selfBind, zero) {
		t.Fatal("bind(a,a) should cancel to the empty set under symmetric difference")
	}
}

func TestSparsePolynomialDecodeFindsOriginal(t *testing.T) {
	s := NewSparsePolynomial(Geometry{Dim: 4096})
	geom := Geometry{Dim: 4096}
	a := s.CreateFromName("dog", "t", geom)
	b := s.CreateFromName("bites", "t", geom)
	bound := s.Bind(a, b)
	residual := s.Unbind(bound, b)

	domain := []NamedVector{
		{Name: "dog", Vector: a},
		{Name: "cat", Vector: s.CreateFromName("cat", "t", geom)},
	}
	candidates := s.DecodeUnboundCandidates(residual, domain, 0.5, 5)
	if len(candidates) == 0 || candidates[0].Name != "dog" {
		t.Fatalf("expected top decode candidate to be 'dog', got %+v", candidates)
	}
}

func TestExactDecodeFindsOriginal(t *testing.T) {
	s := NewExact()
	geom := Geometry{}
	a := s.CreateFromName("dog", "t", geom)
	b := s.CreateFromName("bites", "t", geom)
	bound := s.Bind(a, b)
	residual := s.Unbind(bound, b)

	domain := []NamedVector{
		{Name: "dog", Vector: a},
		{Name: "cat", Vector: s.CreateFromName("cat", "t", geom)},
	}
	candidates := s.DecodeUnboundCandidates(residual, domain, 0.5, 5)
	if len(candidates) == 0 || candidates[0].Name != "dog" {
		t.Fatalf("expected top decode candidate to be 'dog', got %+v", candidates)
	}
}

func TestTopKSimilarFallback(t *testing.T) {
	s := NewDenseBinary(Geometry{Dim: 2048})
	geom := Geometry{Dim: 2048}
	a := s.CreateFromName("dog", "t", geom)
	domain := []NamedVector{
		{Name: "dog", Vector: a},
		{Name: "cat", Vector: s.CreateFromName("cat", "t", geom)},
	}
	candidates := TopKSimilar(s, a, domain, 0.0, 5)
	if len(candidates) == 0 || candidates[0].Name != "dog" {
		t.Fatalf("expected top match to be the identical vector 'dog', got %+v", candidates)
	}
}

func TestStrategyFactory(t *testing.T) {
	for _, name := range []string{"dense-binary", "exact", "sparse-polynomial", "metric-affine"} {
		s, err := New(name, Geometry{Dim: 1024})
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if s.Name() != name {
			t.Fatalf("New(%s).Name() = %s", name, s.Name())
		}
	}
	if _, err := New("not-a-strategy", Geometry{Dim: 1024}); err == nil {
		t.Fatal("expected error for unknown strategy name")
	}
}
