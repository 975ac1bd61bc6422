package types

import (
	"hash/maphash"
	"sync/atomic"
)

// Item is the fixed-size representation of every interned type: a Tag
// selecting how Data is interpreted, plus either an inline payload or an
// index into the pool's flat extra-data heap.
type Item struct {
	Tag  Tag
	Data uint32
}

// Pool is the process-wide (per compilation) canonical store of every
// type. Each structurally distinct type is interned exactly once; equality
// of two Idx values is equality of the types they denote.
type Pool struct {
	items []Item
	flags []Flags
	extra []uint32

	internMap map[uint64][]Idx // hash -> candidates, full-equality disambiguated

	resolutions map[Idx]Idx
	vars        []VarState

	names *NameTable
	seed  maphash.Seed

	// depthWarnings counts Resolve calls that hit maxResolutionDepth. It is
	// incremented from Resolve, which classifier.Default.IsScalar reaches
	// through the parallel per-function pipeline stages (§11.6), so it
	// needs atomic access even though the rest of Pool is built and read
	// single-threaded per compilation.
	depthWarnings atomic.Int64
}

// New creates a Pool pre-populated with the twelve reserved primitive
// indices, in the stable order INT, FLOAT, BOOL, STR, CHAR, BYTE, UNIT,
// NEVER, ERROR, DURATION, SIZE, ORDERING.
func New() *Pool {
	p := &Pool{
		internMap:   make(map[uint64][]Idx),
		resolutions: make(map[Idx]Idx),
		names:       NewNameTable(),
		seed:        maphash.MakeSeed(),
	}
	for i := Idx(0); i < firstDynamic; i++ {
		tag := primitiveTags[i]
		idx := p.intern(tag, 0, baseFlags(tag))
		if idx != i {
			panic("types: primitive interning order violated")
		}
	}
	return p
}

// Names returns the pool's shared name table (struct/enum/field/variant
// identifiers).
func (p *Pool) Names() *NameTable { return p.names }

func (p *Pool) pushItem(it Item, flags Flags) Idx {
	idx := Idx(len(p.items))
	p.items = append(p.items, it)
	p.flags = append(p.flags, flags)
	return idx
}

// Tag returns the tag of the type at idx.
func (p *Pool) Tag(idx Idx) Tag { return p.items[idx].Tag }

// Data returns the raw inline/extra-index payload of the type at idx.
func (p *Pool) Data(idx Idx) uint32 { return p.items[idx].Data }

// Flags returns the precomputed, immutable flag bitset for idx.
func (p *Pool) Flags(idx Idx) Flags { return p.flags[idx] }

func (p *Pool) hashOf(tag Tag, data uint32, extra []uint32) uint64 {
	var h maphash.Hash
	h.SetSeed(p.seed)
	var b [1 + 4 + 4]byte
	b[0] = byte(tag)
	putU32(b[1:5], data)
	putU32(b[5:9], uint32(len(extra)))
	h.Write(b[:])
	for _, v := range extra {
		var eb [4]byte
		putU32(eb[:], v)
		h.Write(eb[:])
	}
	return h.Sum64()
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func (p *Pool) extraEqual(start uint32, extra []uint32) bool {
	if int(start)+len(extra) > len(p.extra) {
		return false
	}
	for i, v := range extra {
		if p.extra[int(start)+i] != v {
			return false
		}
	}
	return true
}

// intern canonicalizes a primitive-shaped item (no extra-data payload
// beyond the inline Data word). Idempotent: repeated calls with the same
// (tag, data) return the same Idx.
func (p *Pool) intern(tag Tag, data uint32, flags Flags) Idx {
	h := p.hashOf(tag, data, nil)
	for _, cand := range p.internMap[h] {
		it := p.items[cand]
		if it.Tag == tag && it.Data == data {
			return cand
		}
	}
	idx := p.pushItem(Item{Tag: tag, Data: data}, flags)
	p.internMap[h] = append(p.internMap[h], idx)
	return idx
}

// internComplex allocates extra-data for a compound type and interns it by
// the hash of (tag, extra). Idempotent.
func (p *Pool) internComplex(tag Tag, extra []uint32, flags Flags) Idx {
	h := p.hashOf(tag, 0, extra)
	for _, cand := range p.internMap[h] {
		it := p.items[cand]
		if it.Tag == tag && p.extraEqual(it.Data, extra) {
			return cand
		}
	}
	start := uint32(len(p.extra))
	p.extra = append(p.extra, extra...)
	idx := p.pushItem(Item{Tag: tag, Data: start}, flags)
	p.internMap[h] = append(p.internMap[h], idx)
	return idx
}

func (p *Pool) extraAt(start uint32, n int) []uint32 {
	return p.extra[start : start+uint32(n)]
}
