package fdcp

// sparseSetDomain is a Briggs-Torczon style sparse-set: parallel `dense` and
// `sparse` arrays over the fixed universe [base, base+n-1] plus a live-size
// cursor. Removal swaps the removed element with the last live element and
// shrinks the cursor; because the swapped-out data is left physically in
// place beyond the cursor, undo is O(1) — it only needs to grow the cursor
// back (spec §4.B: "restoration grows the cursor"). min/max are cached and
// rescanned only when a boundary value is the one removed (§4.B).
type sparseSetDomain struct {
	trail *Trail
	base  int64
	n     int

	dense  []int64 // dense[0:size] are the live values, in no particular order
	sparse []int   // sparse[v-base] = index into dense

	size int

	minCache int64
	maxCache int64
}

func newSparseSetDomain(t *Trail, lo, hi int64) *sparseSetDomain {
	n := int(hi - lo + 1)
	d := &sparseSetDomain{
		trail:  t,
		base:   lo,
		n:      n,
		dense:  make([]int64, n),
		sparse: make([]int, n),
		size:   n,
	}
	for i := 0; i < n; i++ {
		d.dense[i] = lo + int64(i)
		d.sparse[i] = i
	}
	d.minCache, d.maxCache = lo, hi
	return d
}

func newSparseSetDomainFromValues(t *Trail, lo, hi int64, values []int64) *sparseSetDomain {
	n := int(hi - lo + 1)
	d := &sparseSetDomain{
		trail:  t,
		base:   lo,
		n:      n,
		dense:  make([]int64, n),
		sparse: make([]int, n),
		size:   0,
	}
	for i := range d.sparse {
		d.sparse[i] = -1
	}
	present := make(map[int64]bool, len(values))
	for _, v := range values {
		if v < lo || v > hi || present[v] {
			continue
		}
		present[v] = true
		d.dense[d.size] = v
		d.sparse[v-lo] = d.size
		d.size++
	}
	// Absent values go past the live cursor so Contains reports them absent.
	next := d.size
	for i := range d.sparse {
		if d.sparse[i] == -1 {
			d.dense[next] = lo + int64(i)
			d.sparse[i] = next
			next++
		}
	}
	d.recomputeAggregates()
	return d
}

func (d *sparseSetDomain) Kind() VarKind { return KindInteger }

func (d *sparseSetDomain) recomputeAggregates() {
	if d.size == 0 {
		d.minCache, d.maxCache = 0, -1
		return
	}
	mn, mx := d.dense[0], d.dense[0]
	for i := 1; i < d.size; i++ {
		if d.dense[i] < mn {
			mn = d.dense[i]
		}
		if d.dense[i] > mx {
			mx = d.dense[i]
		}
	}
	d.minCache, d.maxCache = mn, mx
}

func (d *sparseSetDomain) IsEmpty() bool { return d.size == 0 }
func (d *sparseSetDomain) IsFixed() bool { return d.size == 1 }
func (d *sparseSetDomain) Size() int     { return d.size }
func (d *sparseSetDomain) Min() Value    { return Int(d.minCache) }
func (d *sparseSetDomain) Max() Value    { return Int(d.maxCache) }

func (d *sparseSetDomain) idx(v int64) int {
	off := v - d.base
	if off < 0 || off >= int64(d.n) {
		return -1
	}
	return int(off)
}

func (d *sparseSetDomain) Contains(v Value) bool {
	off := d.idx(v.AsInt())
	if off < 0 {
		return false
	}
	return d.sparse[off] < d.size
}

// removeIndex removes the live element currently at dense position pos via
// swap-with-last, and pushes the O(1) undo record (cursor + cached bounds).
func (d *sparseSetDomain) removeIndex(pos int) {
	size, mn, mx := d.size, d.minCache, d.maxCache
	d.trail.Push(func() {
		d.size = size
		d.minCache = mn
		d.maxCache = mx
	})

	last := d.size - 1
	lv, pv := d.dense[last], d.dense[pos]
	d.dense[pos], d.dense[last] = lv, pv
	d.sparse[lv-d.base], d.sparse[pv-d.base] = pos, last
	d.size--
}

func (d *sparseSetDomain) Remove(v Value) (Event, bool) {
	val := v.AsInt()
	off := d.idx(val)
	if off < 0 {
		return EventNone, true
	}
	pos := d.sparse[off]
	if pos >= d.size {
		return EventNone, true
	}
	d.removeIndex(pos)
	if d.size == 0 {
		return EventDomain, false
	}
	ev := EventDomain
	if val == d.minCache || val == d.maxCache {
		d.recomputeAggregates()
		ev |= EventBound
	}
	if d.size == 1 {
		ev |= EventFix
	}
	return ev, true
}

func (d *sparseSetDomain) SetMin(v Value) (Event, bool) {
	lo := v.AsInt()
	if lo <= d.minCache {
		return EventNone, true
	}
	if lo > d.maxCache {
		d.removeAllSnapshot()
		return EventBound, false
	}
	// Remove every live value < lo. Iterate the live prefix from the end so
	// swap-with-last doesn't skip an element we haven't visited yet.
	for i := d.size - 1; i >= 0; i-- {
		if d.dense[i] < lo {
			d.removeIndex(i)
		}
	}
	d.recomputeAggregates()
	ev := EventBound
	if d.size == 0 {
		return ev, false
	}
	if d.size == 1 {
		ev |= EventFix
	}
	return ev, true
}

func (d *sparseSetDomain) SetMax(v Value) (Event, bool) {
	hi := v.AsInt()
	if hi >= d.maxCache {
		return EventNone, true
	}
	if hi < d.minCache {
		d.removeAllSnapshot()
		return EventBound, false
	}
	for i := d.size - 1; i >= 0; i-- {
		if d.dense[i] > hi {
			d.removeIndex(i)
		}
	}
	d.recomputeAggregates()
	ev := EventBound
	if d.size == 0 {
		return ev, false
	}
	if d.size == 1 {
		ev |= EventFix
	}
	return ev, true
}

func (d *sparseSetDomain) removeAllSnapshot() {
	size, mn, mx := d.size, d.minCache, d.maxCache
	d.trail.Push(func() {
		d.size = size
		d.minCache = mn
		d.maxCache = mx
	})
	d.size = 0
}

func (d *sparseSetDomain) Fix(v Value) (Event, bool) {
	val := v.AsInt()
	off := d.idx(val)
	if off < 0 || d.sparse[off] >= d.size {
		d.removeAllSnapshot()
		return EventDomain, false
	}
	if d.IsFixed() {
		return EventNone, true
	}
	pos := d.sparse[off]
	size, mn, mx := d.size, d.minCache, d.maxCache
	d.trail.Push(func() {
		d.size = size
		d.minCache = mn
		d.maxCache = mx
	})
	// Move val to dense[0], shrink to size 1.
	d.dense[0], d.dense[pos] = d.dense[pos], d.dense[0]
	d.sparse[d.dense[0]-d.base] = 0
	d.sparse[d.dense[pos]-d.base] = pos
	d.size = 1
	d.minCache, d.maxCache = val, val
	return EventBound | EventDomain | EventFix, true
}

func (d *sparseSetDomain) ForEach(f func(Value) bool) {
	for i := 0; i < d.size; i++ {
		if !f(Int(d.dense[i])) {
			return
		}
	}
}
