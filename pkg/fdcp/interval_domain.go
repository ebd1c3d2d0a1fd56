package fdcp

// intervalDomain represents a domain purely as [min, max] with no interior
// hole tracking (spec §3 table: floats and very large integer ranges).
// Interior Remove is a no-op unless the removed value coincides with a
// current bound, in which case it behaves like a one-step SetMin/SetMax.
// Equality testing on floats uses an epsilon tolerance supplied by the
// solver configuration (see Fix).
type intervalDomain struct {
	trail   *Trail
	kind    VarKind
	empty   bool
	min     Value
	max     Value
	epsilon float64
}

func newIntervalDomain(t *Trail, lo, hi Value) *intervalDomain {
	k := KindFloatVar
	if lo.IsInt() {
		k = KindInteger
	}
	d := &intervalDomain{trail: t, kind: k, min: lo, max: hi, epsilon: 1e-10}
	if hi.Less(lo) {
		d.empty = true
	}
	return d
}

func newEmptyInterval(t *Trail) *intervalDomain {
	return &intervalDomain{trail: t, kind: KindInteger, empty: true, min: Int(1), max: Int(0)}
}

// SetEpsilon configures the float-equality tolerance used by Fix/Contains
// (spec §6 float_epsilon, default ~1e-10).
func (d *intervalDomain) SetEpsilon(eps float64) { d.epsilon = eps }

func (d *intervalDomain) Kind() VarKind { return d.kind }
func (d *intervalDomain) IsEmpty() bool { return d.empty }
func (d *intervalDomain) IsFixed() bool { return !d.empty && d.min.Equal(d.max) }
func (d *intervalDomain) Size() int {
	if d.empty {
		return 0
	}
	if d.IsFixed() {
		return 1
	}
	return 2 // interval stores don't track cardinality beyond "more than one"
}
func (d *intervalDomain) Min() Value { return d.min }
func (d *intervalDomain) Max() Value { return d.max }

func (d *intervalDomain) Contains(v Value) bool {
	if d.empty {
		return false
	}
	if d.kind == KindFloatVar {
		return v.AsFloat() >= d.min.AsFloat()-d.epsilon && v.AsFloat() <= d.max.AsFloat()+d.epsilon
	}
	return !v.Less(d.min) && !v.Greater(d.max)
}

func (d *intervalDomain) pushUndo() {
	empty, mn, mx := d.empty, d.min, d.max
	d.trail.Push(func() {
		d.empty, d.min, d.max = empty, mn, mx
	})
}

func (d *intervalDomain) SetMin(v Value) (Event, bool) {
	if d.empty {
		return EventNone, false
	}
	if !v.Greater(d.min) {
		return EventNone, true
	}
	d.pushUndo()
	if v.Greater(d.max) {
		d.empty = true
		return EventBound, false
	}
	d.min = v
	ev := EventBound
	if d.IsFixed() {
		ev |= EventFix
	}
	return ev, true
}

func (d *intervalDomain) SetMax(v Value) (Event, bool) {
	if d.empty {
		return EventNone, false
	}
	if !v.Less(d.max) {
		return EventNone, true
	}
	d.pushUndo()
	if v.Less(d.min) {
		d.empty = true
		return EventBound, false
	}
	d.max = v
	ev := EventBound
	if d.IsFixed() {
		ev |= EventFix
	}
	return ev, true
}

func (d *intervalDomain) Fix(v Value) (Event, bool) {
	if !d.Contains(v) {
		d.pushUndo()
		d.empty = true
		return EventBound, false
	}
	if d.IsFixed() {
		return EventNone, true
	}
	d.pushUndo()
	d.min, d.max = v, v
	return EventBound | EventFix, true
}

// Remove is a no-op unless v coincides with a current bound (spec §4.B).
func (d *intervalDomain) Remove(v Value) (Event, bool) {
	if d.empty {
		return EventNone, true
	}
	if d.min.Equal(v) && d.max.Equal(v) {
		d.pushUndo()
		d.empty = true
		return EventBound, false
	}
	if d.min.Equal(v) {
		return d.SetMin(v.Next())
	}
	if d.max.Equal(v) {
		return d.SetMax(v.Prev())
	}
	return EventNone, true
}
