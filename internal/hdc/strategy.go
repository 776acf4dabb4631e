// Package hdc implements the HDC Strategy trait (spec.md §4.1) and its four
// concrete vector substrates. A Strategy is constructed once per session and
// never shared or cached globally; every component that needs vector algebra
// receives the session's instance explicitly.
package hdc

import (
	"fmt"

	"sys2core/internal/atom"
)

// Geometry parameterizes a strategy's vector space: for dense-binary it is
// the bit width, for sparse-polynomial the universe size, for metric-affine
// the byte-vector length. Exact ignores it.
type Geometry struct {
	Dim int
}

// Candidate is one ranked result from DecodeUnboundCandidates.
type Candidate struct {
	Name    string
	Score   float64
	Witness string
}

// Warning is the capacity-warning side effect a strategy signals when an
// operation exceeds its soft capacity (spec.md §4.1 "Failure modes"); the
// operation that produced it still completes and returns a usable vector.
type Warning struct {
	Kind    string
	Message string
}

func (w *Warning) String() string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Strategy is the trait every HDC vector substrate implements (spec.md
// §4.1). All methods are pure functions of their arguments except
// CreateFromName and CreateRandom on strategies with session-local state
// (EXACT), whose mapping lives in the strategy instance itself.
type Strategy interface {
	// Name identifies the strategy, and is what atom.Vector.Strategy()
	// returns for every vector this strategy produces.
	Name() string

	CreateZero(geom Geometry) atom.Vector
	CreateRandom(geom Geometry, seed int64) atom.Vector
	CreateFromName(name, theoryID string, geom Geometry) atom.Vector

	Bind(a, b atom.Vector) atom.Vector
	Bundle(vectors []atom.Vector, tieBreaker int64) (atom.Vector, *Warning)
	Unbind(composite, component atom.Vector) atom.Vector

	Similarity(a, b atom.Vector) float64

	// SupportsDecode reports whether DecodeUnboundCandidates does anything
	// beyond returning nil; the holographic engine falls back to generic
	// top-K similarity over the vocabulary when it does not (spec.md
	// §4.7, §9 "Backward compatibility with decoders").
	SupportsDecode() bool
	DecodeUnboundCandidates(residual atom.Vector, domain []NamedVector, minScore float64, k int) []Candidate

	Clone(v atom.Vector) atom.Vector
	Equals(a, b atom.Vector) bool

	Serialize(v atom.Vector) ([]byte, error)
	Deserialize(data []byte) (atom.Vector, error)
}

// NamedVector pairs a candidate atom's name with its vector, the shape
// DecodeUnboundCandidates and the generic top-K fallback both search over.
type NamedVector struct {
	Name   string
	Vector atom.Vector
}

// TopKSimilar is the generic decode fallback (spec.md §4.7 step 3): rank
// domain by similarity to raw and return the top k at or above minScore.
// The holographic engine calls it in place of DecodeUnboundCandidates for
// strategies whose SupportsDecode is false (dense-binary, metric-affine).
func TopKSimilar(s Strategy, raw atom.Vector, domain []NamedVector, minScore float64, k int) []Candidate {
	out := make([]Candidate, 0, len(domain))
	for _, nv := range domain {
		score := s.Similarity(raw, nv.Vector)
		if score >= minScore {
			out = append(out, Candidate{Name: nv.Name, Score: score})
		}
	}
	sortCandidatesDesc(out)
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func sortCandidatesDesc(c []Candidate) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].Score > c[j-1].Score; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}

// New constructs the named strategy (spec.md config "strategy" field).
func New(name string, geom Geometry) (Strategy, error) {
	switch name {
	case "dense-binary":
		return NewDenseBinary(geom), nil
	case "exact":
		return NewExact(), nil
	case "sparse-polynomial":
		return NewSparsePolynomial(geom), nil
	case "metric-affine":
		return NewMetricAffine(geom), nil
	default:
		return nil, fmt.Errorf("hdc: unknown strategy %q", name)
	}
}
