package hdc

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"sys2core/internal/atom"
)

// ExactVector is a session-local appearance-index bitset, stored as a
// big.Int used purely as an arbitrary-width bit set (spec.md §4.1 "Exact").
type ExactVector struct {
	bits *big.Int
}

func (*ExactVector) Strategy() string { return "exact" }

func newExactVector() *ExactVector { return &ExactVector{bits: new(big.Int)} }

func singletonExactVector(i int) *ExactVector {
	v := newExactVector()
	v.bits.SetBit(v.bits, i, 1)
	return v
}

// Exact is the session-local appearance-index strategy. Every distinct
// name+theoryID first seen by CreateFromName is assigned the next small
// integer, so the mapping — and therefore every vector this instance
// produces — is scoped to this one Strategy instance, never shared or
// reconstructed from another session (spec.md §4.1: "the mapping lives in
// the strategy instance").
type Exact struct {
	index    map[string]int
	names    []string // reverse index: appearance index -> name
	nextFree int
}

// NewExact constructs a fresh, empty appearance index.
func NewExact() *Exact {
	return &Exact{index: make(map[string]int)}
}

func (s *Exact) Name() string { return "exact" }

func exactKey(name, theoryID string) string { return theoryID + "\x00" + name }

func (s *Exact) appearanceIndex(name, theoryID string) int {
	key := exactKey(name, theoryID)
	if i, ok := s.index[key]; ok {
		return i
	}
	i := s.nextFree
	s.nextFree++
	s.index[key] = i
	s.names = append(s.names, name)
	return i
}

func (s *Exact) CreateZero(geom Geometry) atom.Vector { return newExactVector() }

func (s *Exact) CreateRandom(geom Geometry, seed int64) atom.Vector {
	// A "roughly balanced random vector" for EXACT is a fresh singleton at
	// the next unassigned index, deterministic per (instance, call order).
	i := s.nextFree
	s.nextFree++
	s.names = append(s.names, "")
	return singletonExactVector(i)
}

func (s *Exact) CreateFromName(name, theoryID string, geom Geometry) atom.Vector {
	return singletonExactVector(s.appearanceIndex(name, theoryID))
}

// Bind is set symmetric difference, making EXACT an XOR-class strategy
// (spec.md §4.1 invariant 6): bind(bind(a,b),b) = a exactly, since XOR-ing
// a set in twice cancels it out.
func (s *Exact) Bind(a, b atom.Vector) atom.Vector {
	av, bv := a.(*ExactVector), b.(*ExactVector)
	out := newExactVector()
	out.bits.Xor(av.bits, bv.bits)
	return out
}

func (s *Exact) Unbind(composite, component atom.Vector) atom.Vector {
	return s.Bind(composite, component)
}

func (s *Exact) Bundle(vectors []atom.Vector, tieBreaker int64) (atom.Vector, *Warning) {
	out := newExactVector()
	for _, raw := range vectors {
		ev := raw.(*ExactVector)
		out.bits.Or(out.bits, ev.bits)
	}
	return out, nil
}

func (s *Exact) Similarity(a, b atom.Vector) float64 {
	av, bv := a.(*ExactVector), b.(*ExactVector)
	if av.bits.Sign() == 0 && bv.bits.Sign() == 0 {
		return 1.0
	}
	inter := new(big.Int).And(av.bits, bv.bits)
	union := new(big.Int).Or(av.bits, bv.bits)
	interCard := popcount(inter)
	unionCard := popcount(union)
	if unionCard == 0 {
		return 1.0
	}
	return float64(interCard) / float64(unionCard)
}

func popcount(b *big.Int) int {
	count := 0
	for _, w := range b.Bits() {
		count += onesInWord(uint64(w))
	}
	return count
}

func onesInWord(w uint64) int {
	n := 0
	for w != 0 {
		w &= w - 1
		n++
	}
	return n
}

func (s *Exact) SupportsDecode() bool { return true }

// DecodeUnboundCandidates ranks domain atoms by exact set overlap with the
// residual, the postings-list decode spec.md §4.1 describes for EXACT.
func (s *Exact) DecodeUnboundCandidates(residual atom.Vector, domain []NamedVector, minScore float64, k int) []Candidate {
	rv := residual.(*ExactVector)
	out := make([]Candidate, 0, len(domain))
	for _, nv := range domain {
		cv, ok := nv.Vector.(*ExactVector)
		if !ok || cv.bits.Sign() == 0 {
			continue
		}
		inter := new(big.Int).And(rv.bits, cv.bits)
		interCard := popcount(inter)
		candCard := popcount(cv.bits)
		if candCard == 0 {
			continue
		}
		score := float64(interCard) / float64(candCard)
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

func (s *Exact) Clone(v atom.Vector) atom.Vector {
	ev := v.(*ExactVector)
	out := newExactVector()
	out.bits.Set(ev.bits)
	return out
}

func (s *Exact) Equals(a, b atom.Vector) bool {
	av, bv := a.(*ExactVector), b.(*ExactVector)
	return av.bits.Cmp(bv.bits) == 0
}

func (s *Exact) Serialize(v atom.Vector) ([]byte, error) {
	ev := v.(*ExactVector)
	data := ev.bits.Bytes()
	out := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))
	copy(out[4:], data)
	return out, nil
}

func (s *Exact) Deserialize(data []byte) (atom.Vector, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("hdc: exact serialized data too short")
	}
	n := int(binary.LittleEndian.Uint32(data))
	if len(data) < 4+n {
		return nil, fmt.Errorf("hdc: exact serialized data truncated")
	}
	v := newExactVector()
	v.bits.SetBytes(data[4 : 4+n])
	return v, nil
}

// Names returns the reverse appearance index in assignment order; indices
// taken by CreateRandom appear as "".
func (s *Exact) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
