package fdcp

import "math/bits"

// bitsetDomain is a dense word-array domain store for small integer ranges
// (spec §3 table: size <= BitsetCapacity). Values are offset by base so bit
// i of the word array represents value base+i. Membership, bound, and
// word-parallel set operations are all O(1) in the number of machine words.
//
// bitsetDomain mutates in place and logs one trail record per mutating
// call; the record is a full copy of the word array plus cached bounds,
// which is small (at most BitsetCapacity/64 words) and sufficient to
// restore prior min/max/present-set exactly (spec §3 "Trail" invariant).
type bitsetDomain struct {
	trail *Trail
	base  int64
	n     int // number of representable values (words * 64 may exceed n)
	words []uint64

	// cached aggregates, kept in sync with words on every mutation.
	count    int
	minCache int64 // valid only if count > 0
	maxCache int64
}

func wordsFor(n int) int { return (n + 63) / 64 }

func newBitsetDomain(t *Trail, lo, hi int64) *bitsetDomain {
	n := int(hi - lo + 1)
	d := &bitsetDomain{trail: t, base: lo, n: n, words: make([]uint64, wordsFor(n))}
	for i := 0; i < n; i++ {
		d.words[i/64] |= 1 << uint(i%64)
	}
	d.count = n
	d.minCache = lo
	d.maxCache = hi
	return d
}

func newBitsetDomainFromValues(t *Trail, lo, hi int64, values []int64) *bitsetDomain {
	n := int(hi - lo + 1)
	d := &bitsetDomain{trail: t, base: lo, n: n, words: make([]uint64, wordsFor(n))}
	for _, v := range values {
		idx := int(v - lo)
		d.words[idx/64] |= 1 << uint(idx%64)
	}
	d.recomputeAggregates()
	return d
}

func (d *bitsetDomain) Kind() VarKind { return KindInteger }

func (d *bitsetDomain) recomputeAggregates() {
	d.count = 0
	d.minCache, d.maxCache = 0, -1
	found := false
	for wi, w := range d.words {
		d.count += bits.OnesCount64(w)
		if w == 0 {
			continue
		}
		if !found {
			d.minCache = d.base + int64(wi*64+bits.TrailingZeros64(w))
			found = true
		}
		d.maxCache = d.base + int64(wi*64+63-bits.LeadingZeros64(w))
	}
}

func (d *bitsetDomain) snapshot() (words []uint64, count int, mn, mx int64) {
	cp := make([]uint64, len(d.words))
	copy(cp, d.words)
	return cp, d.count, d.minCache, d.maxCache
}

func (d *bitsetDomain) pushUndo() {
	words, count, mn, mx := d.snapshot()
	d.trail.Push(func() {
		d.words = words
		d.count = count
		d.minCache = mn
		d.maxCache = mx
	})
}

func (d *bitsetDomain) IsEmpty() bool { return d.count == 0 }
func (d *bitsetDomain) IsFixed() bool { return d.count == 1 }
func (d *bitsetDomain) Size() int     { return d.count }
func (d *bitsetDomain) Min() Value    { return Int(d.minCache) }
func (d *bitsetDomain) Max() Value    { return Int(d.maxCache) }

func (d *bitsetDomain) index(v int64) (int, bool) {
	idx := v - d.base
	if idx < 0 || idx >= int64(d.n) {
		return 0, false
	}
	return int(idx), true
}

func (d *bitsetDomain) Contains(v Value) bool {
	idx, ok := d.index(v.AsInt())
	if !ok {
		return false
	}
	return (d.words[idx/64]>>uint(idx%64))&1 == 1
}

func (d *bitsetDomain) setBit(idx int, on bool) {
	w, b := idx/64, uint(idx%64)
	if on {
		d.words[w] |= 1 << b
	} else {
		d.words[w] &^= 1 << b
	}
}

// Remove deletes a single value, updating cached bounds without a full
// rescan when possible.
func (d *bitsetDomain) Remove(v Value) (Event, bool) {
	idx, ok := d.index(v.AsInt())
	if !ok {
		return EventNone, true
	}
	if (d.words[idx/64]>>uint(idx%64))&1 == 0 {
		return EventNone, true
	}
	d.pushUndo()
	d.setBit(idx, false)
	d.count--
	if d.count == 0 {
		return EventDomain, false
	}
	val := v.AsInt()
	ev := EventDomain
	if val == d.minCache || val == d.maxCache {
		d.recomputeAggregates()
		ev |= EventBound
	}
	if d.count == 1 {
		ev |= EventFix
	}
	return ev, true
}

func (d *bitsetDomain) SetMin(v Value) (Event, bool) {
	lo := v.AsInt()
	if lo <= d.minCache {
		return EventNone, true
	}
	if lo > d.maxCache {
		d.pushUndo()
		d.count = 0
		return EventBound, false
	}
	d.pushUndo()
	for idx := 0; idx < d.n && d.base+int64(idx) < lo; idx++ {
		d.setBit(idx, false)
	}
	d.recomputeAggregates()
	ev := EventBound
	if d.count == 0 {
		return ev, false
	}
	if d.count == 1 {
		ev |= EventFix
	}
	return ev, true
}

func (d *bitsetDomain) SetMax(v Value) (Event, bool) {
	hi := v.AsInt()
	if hi >= d.maxCache {
		return EventNone, true
	}
	if hi < d.minCache {
		d.pushUndo()
		d.count = 0
		return EventBound, false
	}
	d.pushUndo()
	for idx := 0; idx < d.n; idx++ {
		if d.base+int64(idx) > hi {
			d.setBit(idx, false)
		}
	}
	d.recomputeAggregates()
	ev := EventBound
	if d.count == 0 {
		return ev, false
	}
	if d.count == 1 {
		ev |= EventFix
	}
	return ev, true
}

func (d *bitsetDomain) Fix(v Value) (Event, bool) {
	if !d.Contains(v) {
		d.pushUndo()
		d.count = 0
		return EventDomain, false
	}
	if d.IsFixed() {
		return EventNone, true
	}
	d.pushUndo()
	for i := range d.words {
		d.words[i] = 0
	}
	idx, _ := d.index(v.AsInt())
	d.setBit(idx, true)
	d.count = 1
	d.minCache, d.maxCache = v.AsInt(), v.AsInt()
	return EventBound | EventDomain | EventFix, true
}

func (d *bitsetDomain) ForEach(f func(Value) bool) {
	for wi, w := range d.words {
		for w != 0 {
			off := bits.TrailingZeros64(w)
			if !f(Int(d.base + int64(wi*64+off))) {
				return
			}
			w &^= 1 << uint(off)
		}
	}
}
