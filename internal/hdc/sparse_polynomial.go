package hdc

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"sys2core/internal/atom"
)

// sparseActiveFraction sets the active-index count K relative to the
// universe size, so random atoms stay quasi-orthogonal (spec.md §4.1
// "Sparse-polynomial": "quasi-orthogonal active indices").
const sparseActiveFraction = 0.02

// SparsePolynomialVector is a sparse set of active indices drawn from a
// universe of size geom.Dim, held sorted for deterministic set algebra.
type SparsePolynomialVector struct {
	universe int
	active   []int // sorted, deduplicated
}

func (*SparsePolynomialVector) Strategy() string { return "sparse-polynomial" }

func newSparseVector(universe int, active []int) *SparsePolynomialVector {
	sort.Ints(active)
	active = dedupSorted(active)
	return &SparsePolynomialVector{universe: universe, active: active}
}

func dedupSorted(s []int) []int {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// SparsePolynomial is the sparse-polynomial strategy (spec.md §4.1): vectors
// are sparse sets of quasi-orthogonal active indices; bind is symmetric
// difference over the active sets (XOR-class), bundle is union, similarity
// is a cosine-like overlap measure bounded to [0, 1].
type SparsePolynomial struct {
	geom Geometry
}

func NewSparsePolynomial(geom Geometry) *SparsePolynomial {
	return &SparsePolynomial{geom: geom}
}

func (s *SparsePolynomial) Name() string { return "sparse-polynomial" }

func (s *SparsePolynomial) activeCount() int {
	k := int(sparseActiveFraction * float64(s.geom.Dim))
	if k < 1 {
		k = 1
	}
	return k
}

func (s *SparsePolynomial) CreateZero(geom Geometry) atom.Vector {
	return newSparseVector(geom.Dim, nil)
}

func (s *SparsePolynomial) CreateRandom(geom Geometry, seed int64) atom.Vector {
	r := rand.New(rand.NewSource(seed))
	k := s.activeCount()
	chosen := make(map[int]bool, k)
	active := make([]int, 0, k)
	for len(active) < k && len(active) < geom.Dim {
		i := r.Intn(geom.Dim)
		if !chosen[i] {
			chosen[i] = true
			active = append(active, i)
		}
	}
	return newSparseVector(geom.Dim, active)
}

func (s *SparsePolynomial) CreateFromName(name, theoryID string, geom Geometry) atom.Vector {
	return s.CreateRandom(geom, deterministicSeed(name, theoryID, geom.Dim))
}

// Bind is set symmetric difference: an element present in exactly one of
// the two operands survives. Two binds with the same component cancel it
// back out, so sparse-polynomial is XOR-class (spec.md invariant 6).
func (s *SparsePolynomial) Bind(a, b atom.Vector) atom.Vector {
	av, bv := a.(*SparsePolynomialVector), b.(*SparsePolynomialVector)
	inA := make(map[int]bool, len(av.active))
	for _, i := range av.active {
		inA[i] = true
	}
	inB := make(map[int]bool, len(bv.active))
	for _, i := range bv.active {
		inB[i] = true
	}
	out := make([]int, 0, len(av.active)+len(bv.active))
	for i := range inA {
		if !inB[i] {
			out = append(out, i)
		}
	}
	for i := range inB {
		if !inA[i] {
			out = append(out, i)
		}
	}
	return newSparseVector(av.universe, out)
}

func (s *SparsePolynomial) Unbind(composite, component atom.Vector) atom.Vector {
	return s.Bind(composite, component)
}

func (s *SparsePolynomial) Bundle(vectors []atom.Vector, tieBreaker int64) (atom.Vector, *Warning) {
	universe := s.geom.Dim
	seen := make(map[int]bool)
	union := make([]int, 0)
	for _, raw := range vectors {
		sv := raw.(*SparsePolynomialVector)
		universe = sv.universe
		for _, i := range sv.active {
			if !seen[i] {
				seen[i] = true
				union = append(union, i)
			}
		}
	}
	out := newSparseVector(universe, union)
	var warn *Warning
	// Past this density the set is no longer quasi-orthogonal to fresh
	// random atoms; signal it the same way dense-binary signals overrun.
	if softCap := int(1.0 / sparseActiveFraction); len(vectors) > softCap {
		warn = &Warning{
			Kind:    "bundle_capacity_exceeded",
			Message: fmt.Sprintf("bundled %d vectors into a shared universe of %d, density risks losing orthogonality", len(vectors), universe),
		}
	}
	return out, warn
}

func (s *SparsePolynomial) Similarity(a, b atom.Vector) float64 {
	av, bv := a.(*SparsePolynomialVector), b.(*SparsePolynomialVector)
	if len(av.active) == 0 && len(bv.active) == 0 {
		return 1.0
	}
	inB := make(map[int]bool, len(bv.active))
	for _, i := range bv.active {
		inB[i] = true
	}
	inter := 0
	for _, i := range av.active {
		if inB[i] {
			inter++
		}
	}
	denom := math.Sqrt(float64(len(av.active)) * float64(len(bv.active)))
	if denom == 0 {
		return 0
	}
	sim := float64(inter) / denom
	if sim > 1.0 {
		sim = 1.0
	}
	return sim
}

func (s *SparsePolynomial) SupportsDecode() bool { return true }

// DecodeUnboundCandidates decodes via exact intersection against the
// domain, the method spec.md §4.1 specifies for sparse-polynomial.
func (s *SparsePolynomial) DecodeUnboundCandidates(residual atom.Vector, domain []NamedVector, minScore float64, k int) []Candidate {
	rv := residual.(*SparsePolynomialVector)
	inR := make(map[int]bool, len(rv.active))
	for _, i := range rv.active {
		inR[i] = true
	}
	out := make([]Candidate, 0, len(domain))
	for _, nv := range domain {
		cv, ok := nv.Vector.(*SparsePolynomialVector)
		if !ok || len(cv.active) == 0 {
			continue
		}
		inter := 0
		for _, i := range cv.active {
			if inR[i] {
				inter++
			}
		}
		score := float64(inter) / float64(len(cv.active))
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

func (s *SparsePolynomial) Clone(v atom.Vector) atom.Vector {
	sv := v.(*SparsePolynomialVector)
	active := make([]int, len(sv.active))
	copy(active, sv.active)
	return &SparsePolynomialVector{universe: sv.universe, active: active}
}

func (s *SparsePolynomial) Equals(a, b atom.Vector) bool {
	av, bv := a.(*SparsePolynomialVector), b.(*SparsePolynomialVector)
	if len(av.active) != len(bv.active) {
		return false
	}
	for i := range av.active {
		if av.active[i] != bv.active[i] {
			return false
		}
	}
	return true
}

func (s *SparsePolynomial) Serialize(v atom.Vector) ([]byte, error) {
	sv := v.(*SparsePolynomialVector)
	out := make([]byte, 8+len(sv.active)*4)
	binary.LittleEndian.PutUint32(out, uint32(sv.universe))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(sv.active)))
	for i, idx := range sv.active {
		binary.LittleEndian.PutUint32(out[8+i*4:], uint32(idx))
	}
	return out, nil
}

func (s *SparsePolynomial) Deserialize(data []byte) (atom.Vector, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("hdc: sparse-polynomial serialized data too short")
	}
	universe := int(binary.LittleEndian.Uint32(data))
	n := int(binary.LittleEndian.Uint32(data[4:]))
	if len(data) < 8+n*4 {
		return nil, fmt.Errorf("hdc: sparse-polynomial serialized data truncated")
	}
	active := make([]int, n)
	for i := 0; i < n; i++ {
		active[i] = int(binary.LittleEndian.Uint32(data[8+i*4:]))
	}
	return newSparseVector(universe, active), nil
}
