package fdcp

import "math"

// View lets a propagator read and tighten a linear transform of a variable
// (a*x+b) without the variable's own domain store knowing about the
// transform (spec §4.E "views"). Every view method translates into the
// corresponding operation on the underlying VarId's Domain, inverting the
// affine map as needed; scale must be nonzero and, for integer-kind
// variables, an integer.
type View struct {
	store *Store
	id    VarId
	scale int64
	// scaleF/offF hold the float-precision affine map; for integer variables
	// scale/off (int64) are authoritative and scaleF/offF mirror them.
	scaleF float64
	off    int64
	offF   float64
	// steps shifts the affine result by whole grid steps: +1 per Next (one
	// int step or one float ULP), -1 per Prev. Applied after scale/offset.
	steps int
	isInt bool
}

// VarView returns the identity view over id (scale=1, offset=0).
func VarView(s *Store, id VarId) View {
	isInt := s.vars.Kind(id) != KindFloatVar
	return View{store: s, id: id, scale: 1, scaleF: 1, isInt: isInt}
}

// Offset returns a view of v shifted by delta: Offset(v, d).Min() == v.Min()+d.
func Offset(v View, delta int64) View {
	nv := v
	nv.off += delta
	nv.offF += float64(delta)
	return nv
}

// OffsetF is the float-offset counterpart of Offset, for float-kind views.
func OffsetF(v View, delta float64) View {
	nv := v
	nv.offF += delta
	return nv
}

// Scale returns a view of v multiplied by factor (factor != 0): for
// factor > 0 the transform is monotonic increasing, for factor < 0 it
// reverses min/max when reading through to the base variable.
func Scale(v View, factor int64) View {
	nv := v
	nv.scale *= factor
	nv.scaleF *= float64(factor)
	nv.off *= factor
	nv.offF *= float64(factor)
	return nv
}

// Negate returns a view of v negated, equivalent to Scale(v, -1).
func Negate(v View) View { return Scale(v, -1) }

// NextView returns a view one grid step above v: one integer step for
// integer variables, one ULP for floats (spec §4.D "Next/Prev shift by one
// step (int) or ULP (float)").
func NextView(v View) View {
	v.steps++
	return v
}

// PrevView returns a view one grid step below v.
func PrevView(v View) View {
	v.steps--
	return v
}

func (v View) domain() Domain { return v.store.vars.Domain(v.id) }

func stepValue(x Value, steps int) Value {
	for ; steps > 0; steps-- {
		x = x.Next()
	}
	for ; steps < 0; steps++ {
		x = x.Prev()
	}
	return x
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

// exactBase maps x to the unique base value it corresponds to, reporting
// ok=false when x is not representable through this view: a non-integral
// float written to an integer variable, or a residue the scale can't hit.
// For non-representable floats the rule of spec §9 matters only to bound
// writes, which don't come through here.
func (v View) exactBase(x Value) (Value, bool) {
	x = stepValue(x, -v.steps)
	if !v.isInt {
		return Float((x.AsFloat() - v.offF) / v.scaleF), true
	}
	if x.IsFloat() {
		f := x.AsFloat()
		if f != math.Trunc(f) {
			return Value{}, false
		}
		x = Int(int64(f))
	}
	num := x.AsInt() - v.off
	if num%v.scale != 0 {
		return Value{}, false
	}
	return Int(num / v.scale), true
}

// toBaseCeil returns the smallest base value b with scale*b+off >= x' (for
// positive scale; the caller picks the side for negative scale). A float
// bound written to an integer variable is ceil-rounded here, which combined
// with the caller's use of Next for strict inequalities yields the rule
// "x > c becomes x >= floor(c)+1 when c is integral, x >= ceil(c)
// otherwise".
func (v View) toBaseCeil(x Value) Value {
	x = stepValue(x, -v.steps)
	if !v.isInt {
		return Float((x.AsFloat() - v.offF) / v.scaleF)
	}
	if x.IsFloat() {
		return Int(int64(math.Ceil((x.AsFloat() - v.offF) / v.scaleF)))
	}
	return Int(ceilDiv(x.AsInt()-v.off, v.scale))
}

// toBaseFloor is the symmetric largest base value b with scale*b+off <= x'.
func (v View) toBaseFloor(x Value) Value {
	x = stepValue(x, -v.steps)
	if !v.isInt {
		return Float((x.AsFloat() - v.offF) / v.scaleF)
	}
	if x.IsFloat() {
		return Int(int64(math.Floor((x.AsFloat() - v.offF) / v.scaleF)))
	}
	return Int(floorDiv(x.AsInt()-v.off, v.scale))
}

func (v View) fromBase(b Value) Value {
	if v.isInt {
		return stepValue(Int(b.AsInt()*v.scale+v.off), v.steps)
	}
	return stepValue(Float(b.AsFloat()*v.scaleF+v.offF), v.steps)
}

// Min returns the current minimum of the view, accounting for sign reversal
// under a negative scale.
func (v View) Min() Value {
	d := v.domain()
	if v.scale < 0 || v.scaleF < 0 {
		return v.fromBase(d.Max())
	}
	return v.fromBase(d.Min())
}

// Max returns the current maximum of the view.
func (v View) Max() Value {
	d := v.domain()
	if v.scale < 0 || v.scaleF < 0 {
		return v.fromBase(d.Min())
	}
	return v.fromBase(d.Max())
}

func (v View) IsFixed() bool { return v.domain().IsFixed() }
func (v View) IsEmpty() bool { return v.domain().IsEmpty() }

// Contains reports whether x is representable and present through the view.
func (v View) Contains(x Value) bool {
	b, ok := v.exactBase(x)
	if !ok {
		return false
	}
	return v.domain().Contains(b)
}

// ForEach enumerates the view's current members in base-domain order,
// translated through the affine map, for iterable underlying domains.
// ok is false when the underlying store is an interval (not enumerable).
func (v View) ForEach(f func(Value) bool) (ok bool) {
	id, iterable := v.domain().(IterableDomain)
	if !iterable {
		return false
	}
	id.ForEach(func(b Value) bool {
		return f(v.fromBase(b))
	})
	return true
}

// SetMin tightens the view's lower bound to at least x, translating through
// to the appropriate SetMin or SetMax on the base domain depending on the
// scale's sign, rounding a float bound onto the integer grid on the
// feasible side.
func (v View) SetMin(x Value) (Event, bool) {
	if v.scale < 0 || v.scaleF < 0 {
		return v.domain().SetMax(v.toBaseFloor(x))
	}
	return v.domain().SetMin(v.toBaseCeil(x))
}

// SetMax tightens the view's upper bound to at most x.
func (v View) SetMax(x Value) (Event, bool) {
	if v.scale < 0 || v.scaleF < 0 {
		return v.domain().SetMin(v.toBaseCeil(x))
	}
	return v.domain().SetMax(v.toBaseFloor(x))
}

// Fix assigns the view to the singleton {x}.
func (v View) Fix(x Value) (Event, bool) {
	b, ok := v.exactBase(x)
	if !ok {
		// x is unreachable under this affine map: fail by emptying the base.
		v.domain().SetMin(Int(1))
		v.domain().SetMax(Int(0))
		return EventBound | EventFix, false
	}
	return v.domain().Fix(b)
}

// Remove deletes x from the view's representable set, a no-op if x is not
// reachable under the affine map.
func (v View) Remove(x Value) (Event, bool) {
	b, ok := v.exactBase(x)
	if !ok {
		return EventNone, true
	}
	return v.domain().Remove(b)
}

// Base returns the underlying VarId this view ultimately reads through to.
func (v View) Base() VarId { return v.id }
