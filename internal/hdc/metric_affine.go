package hdc

import (
	"fmt"
	"math/rand"

	"sys2core/internal/atom"
)

// MetricAffineVector is a fixed-length byte vector under mod-256 addition.
type MetricAffineVector struct {
	bytes []byte
}

func (*MetricAffineVector) Strategy() string { return "metric-affine" }

// MetricAffine is the metric-affine strategy (spec.md §4.1): byte-vector
// with L1-based similarity (baseline ≈ 0.67), bind/unbind as mod-256
// addition/subtraction, bundle as a per-component mean. Not
// XOR-class: bind(bind(a,b),b) = a + 2b (mod 256) ≠ a in general, so
// invariant 6 doesn't apply and unbind is implemented as the true additive
// inverse instead of reusing Bind.
type MetricAffine struct {
	geom Geometry
}

func NewMetricAffine(geom Geometry) *MetricAffine {
	return &MetricAffine{geom: geom}
}

func (s *MetricAffine) Name() string { return "metric-affine" }

func (s *MetricAffine) CreateZero(geom Geometry) atom.Vector {
	return &MetricAffineVector{bytes: make([]byte, geom.Dim)}
}

func (s *MetricAffine) CreateRandom(geom Geometry, seed int64) atom.Vector {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, geom.Dim)
	r.Read(b)
	return &MetricAffineVector{bytes: b}
}

func (s *MetricAffine) CreateFromName(name, theoryID string, geom Geometry) atom.Vector {
	return s.CreateRandom(geom, deterministicSeed(name, theoryID, geom.Dim))
}

func (s *MetricAffine) Bind(a, b atom.Vector) atom.Vector {
	av, bv := a.(*MetricAffineVector), b.(*MetricAffineVector)
	out := make([]byte, len(av.bytes))
	for i := range out {
		out[i] = av.bytes[i] + bv.bytes[i]
	}
	return &MetricAffineVector{bytes: out}
}

func (s *MetricAffine) Unbind(composite, component atom.Vector) atom.Vector {
	cv, kv := composite.(*MetricAffineVector), component.(*MetricAffineVector)
	out := make([]byte, len(cv.bytes))
	for i := range out {
		out[i] = cv.bytes[i] - kv.bytes[i]
	}
	return &MetricAffineVector{bytes: out}
}

// Bundle is a single per-component mean over all inputs, rounded to the
// nearest byte; the inputs are not split into chunks. The result depends only on the input multiset (sum is commutative), so
// it satisfies bundle determinism (spec.md invariant 5) without needing a
// tie-breaker.
func (s *MetricAffine) Bundle(vectors []atom.Vector, tieBreaker int64) (atom.Vector, *Warning) {
	if len(vectors) == 0 {
		return &MetricAffineVector{bytes: make([]byte, s.geom.Dim)}, nil
	}
	dim := len(vectors[0].(*MetricAffineVector).bytes)
	sums := make([]int, dim)
	for _, raw := range vectors {
		mv := raw.(*MetricAffineVector)
		for i := 0; i < dim; i++ {
			sums[i] += int(mv.bytes[i])
		}
	}
	out := make([]byte, dim)
	n := len(vectors)
	for i := 0; i < dim; i++ {
		out[i] = byte((sums[i] + n/2) / n)
	}
	return &MetricAffineVector{bytes: out}, nil
}

func (s *MetricAffine) Similarity(a, b atom.Vector) float64 {
	av, bv := a.(*MetricAffineVector), b.(*MetricAffineVector)
	if len(av.bytes) == 0 {
		return 1.0
	}
	var l1 int
	for i := range av.bytes {
		d := int(av.bytes[i]) - int(bv.bytes[i])
		if d < 0 {
			d = -d
		}
		l1 += d
	}
	maxL1 := 255 * len(av.bytes)
	return 1.0 - float64(l1)/float64(maxL1)
}

func (s *MetricAffine) SupportsDecode() bool { return false }

func (s *MetricAffine) DecodeUnboundCandidates(residual atom.Vector, domain []NamedVector, minScore float64, k int) []Candidate {
	return nil
}

func (s *MetricAffine) Clone(v atom.Vector) atom.Vector {
	mv := v.(*MetricAffineVector)
	out := make([]byte, len(mv.bytes))
	copy(out, mv.bytes)
	return &MetricAffineVector{bytes: out}
}

func (s *MetricAffine) Equals(a, b atom.Vector) bool {
	av, bv := a.(*MetricAffineVector), b.(*MetricAffineVector)
	if len(av.bytes) != len(bv.bytes) {
		return false
	}
	for i := range av.bytes {
		if av.bytes[i] != bv.bytes[i] {
			return false
		}
	}
	return true
}

func (s *MetricAffine) Serialize(v atom.Vector) ([]byte, error) {
	mv := v.(*MetricAffineVector)
	out := make([]byte, len(mv.bytes))
	copy(out, mv.bytes)
	return out, nil
}

func (s *MetricAffine) Deserialize(data []byte) (atom.Vector, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("hdc: metric-affine serialized data empty")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return &MetricAffineVector{bytes: out}, nil
}
