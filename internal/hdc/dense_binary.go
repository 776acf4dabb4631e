package hdc

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/bits"
	"math/rand"

	"sys2core/internal/atom"
)

// denseBinaryCapacityFactor is the soft bundle-capacity multiplier from
// spec.md §4.1: "Bundle capacity ~0.6·√d items."
const denseBinaryCapacityFactor = 0.6

// DenseBinaryVector is a fixed-width bit vector, packed into 64-bit words.
type DenseBinaryVector struct {
	dim   int
	words []uint64
}

func (DenseBinaryVector) Strategy() string { return "dense-binary" }

func newDenseBinaryVector(dim int) *DenseBinaryVector {
	return &DenseBinaryVector{dim: dim, words: make([]uint64, (dim+63)/64)}
}

func (v *DenseBinaryVector) bit(i int) bool {
	return v.words[i/64]&(1<<uint(i%64)) != 0
}

func (v *DenseBinaryVector) setBit(i int, val bool) {
	if val {
		v.words[i/64] |= 1 << uint(i%64)
	} else {
		v.words[i/64] &^= 1 << uint(i%64)
	}
}

// DenseBinary is the dense-binary HDC strategy (spec.md §4.1): bind = XOR,
// bundle = per-bit majority vote with a deterministic 0-favoring tie-break,
// similarity = 1 − normalized Hamming distance.
type DenseBinary struct {
	geom Geometry
}

// NewDenseBinary constructs the dense-binary strategy at the given
// geometry (bit width, spec.md range 1024..65536).
func NewDenseBinary(geom Geometry) *DenseBinary {
	return &DenseBinary{geom: geom}
}

func (s *DenseBinary) Name() string { return "dense-binary" }

func (s *DenseBinary) CreateZero(geom Geometry) atom.Vector {
	return newDenseBinaryVector(geom.Dim)
}

func (s *DenseBinary) CreateRandom(geom Geometry, seed int64) atom.Vector {
	v := newDenseBinaryVector(geom.Dim)
	r := rand.New(rand.NewSource(seed))
	for i := 0; i < len(v.words); i++ {
		v.words[i] = r.Uint64()
	}
	v.maskTail()
	return v
}

func (s *DenseBinary) CreateFromName(name, theoryID string, geom Geometry) atom.Vector {
	return s.CreateRandom(geom, deterministicSeed(name, theoryID, geom.Dim))
}

// deterministicSeed derives a stable int64 seed from name+theoryID+dim, so
// create_from_name is a pure function of its inputs (spec.md invariant 4).
func deterministicSeed(name, theoryID string, dim int) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(theoryID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(name))
	var dimBuf [8]byte
	binary.LittleEndian.PutUint64(dimBuf[:], uint64(dim))
	_, _ = h.Write(dimBuf[:])
	return int64(h.Sum64())
}

func (v *DenseBinaryVector) maskTail() {
	rem := v.dim % 64
	if rem == 0 || len(v.words) == 0 {
		return
	}
	v.words[len(v.words)-1] &= (1 << uint(rem)) - 1
}

func (s *DenseBinary) Bind(a, b atom.Vector) atom.Vector {
	av, bv := a.(*DenseBinaryVector), b.(*DenseBinaryVector)
	out := newDenseBinaryVector(av.dim)
	for i := range out.words {
		out.words[i] = av.words[i] ^ bv.words[i]
	}
	return out
}

func (s *DenseBinary) Unbind(composite, component atom.Vector) atom.Vector {
	// XOR-class: unbind is the same operation as bind (spec.md §4.1).
	return s.Bind(composite, component)
}

func (s *DenseBinary) Bundle(vectors []atom.Vector, tieBreaker int64) (atom.Vector, *Warning) {
	if len(vectors) == 0 {
		return newDenseBinaryVector(s.geom.Dim), nil
	}
	dim := vectors[0].(*DenseBinaryVector).dim
	counts := make([]int, dim)
	for _, raw := range vectors {
		dv := raw.(*DenseBinaryVector)
		for i := 0; i < dim; i++ {
			if dv.bit(i) {
				counts[i]++
			}
		}
	}
	out := newDenseBinaryVector(dim)
	half := len(vectors)
	for i := 0; i < dim; i++ {
		// Majority vote; ties resolved in favor of 0, deterministically
		// and without consulting wall-clock or map iteration order.
		if counts[i]*2 > half {
			out.setBit(i, true)
		}
	}
	var warn *Warning
	if softCap := int(denseBinaryCapacityFactor * math.Sqrt(float64(dim))); len(vectors) > softCap {
		warn = &Warning{
			Kind:    "bundle_capacity_exceeded",
			Message: fmt.Sprintf("bundled %d vectors, soft capacity is %d at dim %d", len(vectors), softCap, dim),
		}
	}
	return out, warn
}

func (s *DenseBinary) Similarity(a, b atom.Vector) float64 {
	av, bv := a.(*DenseBinaryVector), b.(*DenseBinaryVector)
	dist := 0
	for i := range av.words {
		dist += bits.OnesCount64(av.words[i] ^ bv.words[i])
	}
	if av.dim == 0 {
		return 1.0
	}
	return 1.0 - float64(dist)/float64(av.dim)
}

func (s *DenseBinary) SupportsDecode() bool { return false }

func (s *DenseBinary) DecodeUnboundCandidates(residual atom.Vector, domain []NamedVector, minScore float64, k int) []Candidate {
	return nil
}

func (s *DenseBinary) Clone(v atom.Vector) atom.Vector {
	dv := v.(*DenseBinaryVector)
	out := newDenseBinaryVector(dv.dim)
	copy(out.words, dv.words)
	return out
}

func (s *DenseBinary) Equals(a, b atom.Vector) bool {
	av, bv := a.(*DenseBinaryVector), b.(*DenseBinaryVector)
	if av.dim != bv.dim {
		return false
	}
	for i := range av.words {
		if av.words[i] != bv.words[i] {
			return false
		}
	}
	return true
}

func (s *DenseBinary) Serialize(v atom.Vector) ([]byte, error) {
	dv := v.(*DenseBinaryVector)
	out := make([]byte, 4+len(dv.words)*8)
	binary.LittleEndian.PutUint32(out, uint32(dv.dim))
	for i, w := range dv.words {
		binary.LittleEndian.PutUint64(out[4+i*8:], w)
	}
	return out, nil
}

func (s *DenseBinary) Deserialize(data []byte) (atom.Vector, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("hdc: dense-binary serialized data too short")
	}
	dim := int(binary.LittleEndian.Uint32(data))
	v := newDenseBinaryVector(dim)
	rest := data[4:]
	if len(rest) < len(v.words)*8 {
		return nil, fmt.Errorf("hdc: dense-binary serialized data truncated")
	}
	for i := range v.words {
		v.words[i] = binary.LittleEndian.Uint64(rest[i*8:])
	}
	return v, nil
}
