package fdcp

// AddPropagator enforces z = x + y by bound propagation in both directions
// (spec §4.E "add, sub"): forward z ∈ [xmin+ymin, xmax+ymax]; reverse
// x ∈ [zmin-ymax, zmax-ymin], symmetrically for y.
type AddPropagator struct {
	X, Y, Z View
}

func (p *AddPropagator) Name() string { return "add" }

func (p *AddPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventFix
	s.Watch(p.X.Base(), idx, mask)
	s.Watch(p.Y.Base(), idx, mask)
	s.Watch(p.Z.Base(), idx, mask)
}

func addBounds(a, b View) (lo, hi Value, ok bool) {
	lo, ok1 := a.Min().Add(b.Min())
	hi, ok2 := a.Max().Add(b.Max())
	return lo, hi, ok1 && ok2
}

func (p *AddPropagator) Prune(s *Store) error {
	// z bounds from x+y
	lo, hi, ok := addBounds(p.X, p.Y)
	if !ok {
		return fail
	}
	if ev, ok := p.Z.SetMin(lo); !ok {
		return fail
	} else {
		s.wake(p.Z.Base(), ev)
	}
	if ev, ok := p.Z.SetMax(hi); !ok {
		return fail
	} else {
		s.wake(p.Z.Base(), ev)
	}
	// x bounds from z-y
	if xlo, ok := subLo(p.Z, p.Y); ok {
		if ev, ok := p.X.SetMin(xlo); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
	}
	if xhi, ok := subHi(p.Z, p.Y); ok {
		if ev, ok := p.X.SetMax(xhi); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
	}
	// y bounds from z-x
	if ylo, ok := subLo(p.Z, p.X); ok {
		if ev, ok := p.Y.SetMin(ylo); !ok {
			return fail
		} else {
			s.wake(p.Y.Base(), ev)
		}
	}
	if yhi, ok := subHi(p.Z, p.X); ok {
		if ev, ok := p.Y.SetMax(yhi); !ok {
			return fail
		} else {
			s.wake(p.Y.Base(), ev)
		}
	}
	return nil
}

func subLo(a, b View) (Value, bool) { return a.Min().Sub(b.Max()) }
func subHi(a, b View) (Value, bool) { return a.Max().Sub(b.Min()) }

// SubPropagator enforces z = x - y, implemented as AddPropagator over a
// negated view of y (x + (-y) = z), reusing the same bound arithmetic.
type SubPropagator struct {
	inner *AddPropagator
}

// NewSub builds a propagator enforcing z = x - y.
func NewSub(x, y, z View) *SubPropagator {
	return &SubPropagator{inner: &AddPropagator{X: x, Y: Negate(y), Z: z}}
}

func (p *SubPropagator) Name() string                   { return "sub" }
func (p *SubPropagator) Register(s *Store, idx int)      { p.inner.Register(s, idx) }
func (p *SubPropagator) Prune(s *Store) error            { return p.inner.Prune(s) }

// MulPropagator enforces z = x * y using corner-product bounds to handle
// sign changes soundly (spec §4.E "mul").
type MulPropagator struct {
	X, Y, Z View
}

func (p *MulPropagator) Name() string { return "mul" }

func (p *MulPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventFix
	s.Watch(p.X.Base(), idx, mask)
	s.Watch(p.Y.Base(), idx, mask)
	s.Watch(p.Z.Base(), idx, mask)
}

func corners(a, b View) (lo, hi Value, ok bool) {
	corners := [4]Value{}
	oks := [4]bool{}
	corners[0], oks[0] = a.Min().Mul(b.Min())
	corners[1], oks[1] = a.Min().Mul(b.Max())
	corners[2], oks[2] = a.Max().Mul(b.Min())
	corners[3], oks[3] = a.Max().Mul(b.Max())
	first := true
	for i, c := range corners {
		if !oks[i] {
			return Value{}, Value{}, false
		}
		if first {
			lo, hi = c, c
			first = false
			continue
		}
		if c.Less(lo) {
			lo = c
		}
		if c.Greater(hi) {
			hi = c
		}
	}
	return lo, hi, true
}

func (p *MulPropagator) Prune(s *Store) error {
	lo, hi, ok := corners(p.X, p.Y)
	if !ok {
		return fail
	}
	if ev, ok := p.Z.SetMin(lo); !ok {
		return fail
	} else {
		s.wake(p.Z.Base(), ev)
	}
	if ev, ok := p.Z.SetMax(hi); !ok {
		return fail
	} else {
		s.wake(p.Z.Base(), ev)
	}
	// Reverse propagation only when y (resp. x) is fixed and nonzero: full
	// interval division for mul is not attempted (matches the spec's
	// conservative treatment of div/mod's straddle-zero case, §4.E).
	if p.Y.IsFixed() && !p.Y.Min().Equal(Int(0)) {
		if lo2, hi2, ok := divByConst(p.Z, p.Y.Min()); ok {
			if ev, ok := p.X.SetMin(lo2); !ok {
				return fail
			} else {
				s.wake(p.X.Base(), ev)
			}
			if ev, ok := p.X.SetMax(hi2); !ok {
				return fail
			} else {
				s.wake(p.X.Base(), ev)
			}
		}
	}
	if p.X.IsFixed() && !p.X.Min().Equal(Int(0)) {
		if lo2, hi2, ok := divByConst(p.Z, p.X.Min()); ok {
			if ev, ok := p.Y.SetMin(lo2); !ok {
				return fail
			} else {
				s.wake(p.Y.Base(), ev)
			}
			if ev, ok := p.Y.SetMax(hi2); !ok {
				return fail
			} else {
				s.wake(p.Y.Base(), ev)
			}
		}
	}
	return nil
}

func divByConst(z View, c Value) (lo, hi Value, ok bool) {
	a, ok1 := z.Min().Div(c, 1e-12)
	b, ok2 := z.Max().Div(c, 1e-12)
	if !ok1 || !ok2 {
		return Value{}, Value{}, false
	}
	if a.Greater(b) {
		a, b = b, a
	}
	return a, b, true
}

// DivPropagator enforces z = x / y under safe-division semantics. If y's
// domain straddles zero, Prune leaves every domain unchanged: neither z nor
// x is narrowed (spec §4.E "div, mod").
type DivPropagator struct {
	X, Y, Z View
	Epsilon float64
}

func (p *DivPropagator) Name() string { return "div" }

func (p *DivPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventFix
	s.Watch(p.X.Base(), idx, mask)
	s.Watch(p.Y.Base(), idx, mask)
	s.Watch(p.Z.Base(), idx, mask)
}

func (p *DivPropagator) straddlesZero() bool {
	return p.Y.Min().AsFloat() <= p.Epsilon && p.Y.Max().AsFloat() >= -p.Epsilon
}

func (p *DivPropagator) Prune(s *Store) error {
	if p.straddlesZero() {
		// No propagation in either direction: z's bound from the widest
		// possible quotient is not computed here without case-splitting on
		// y's sign, so no narrowing is attempted.
		return nil
	}
	lo, hi, ok := divCorners(p.X, p.Y, p.Epsilon)
	if !ok {
		return nil
	}
	if ev, ok := p.Z.SetMin(lo); !ok {
		return fail
	} else {
		s.wake(p.Z.Base(), ev)
	}
	if ev, ok := p.Z.SetMax(hi); !ok {
		return fail
	} else {
		s.wake(p.Z.Base(), ev)
	}
	if p.Y.IsFixed() {
		if lo2, hi2, ok := mulByConst(p.Z, p.Y.Min()); ok {
			if ev, ok := p.X.SetMin(lo2); !ok {
				return fail
			} else {
				s.wake(p.X.Base(), ev)
			}
			if ev, ok := p.X.SetMax(hi2); !ok {
				return fail
			} else {
				s.wake(p.X.Base(), ev)
			}
		}
	}
	return nil
}

func mulByConst(v View, c Value) (lo, hi Value, ok bool) {
	a, ok1 := v.Min().Mul(c)
	b, ok2 := v.Max().Mul(c)
	if !ok1 || !ok2 {
		return Value{}, Value{}, false
	}
	if a.Greater(b) {
		a, b = b, a
	}
	return a, b, true
}

// divCorners computes z = x/y's bound from the four corner quotients,
// valid only once the caller has established y does not straddle zero (so
// every corner divisor is safely nonzero).
func divCorners(x, y View, epsilon float64) (lo, hi Value, ok bool) {
	vals := [4]Value{}
	oks := [4]bool{}
	vals[0], oks[0] = x.Min().Div(y.Min(), epsilon)
	vals[1], oks[1] = x.Min().Div(y.Max(), epsilon)
	vals[2], oks[2] = x.Max().Div(y.Min(), epsilon)
	vals[3], oks[3] = x.Max().Div(y.Max(), epsilon)
	first := true
	for i, v := range vals {
		if !oks[i] {
			return Value{}, Value{}, false
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v.Less(lo) {
			lo = v
		}
		if v.Greater(hi) {
			hi = v
		}
	}
	return lo, hi, true
}

// ModPropagator enforces z = x % y under the same safe semantics as div;
// only forward propagation of z's sign/magnitude bound is attempted.
type ModPropagator struct {
	X, Y, Z View
	Epsilon float64
}

func (p *ModPropagator) Name() string { return "mod" }

func (p *ModPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventFix
	s.Watch(p.X.Base(), idx, mask)
	s.Watch(p.Y.Base(), idx, mask)
	s.Watch(p.Z.Base(), idx, mask)
}

func (p *ModPropagator) Prune(s *Store) error {
	if p.Y.Min().AsFloat() <= p.Epsilon && p.Y.Max().AsFloat() >= -p.Epsilon {
		return nil
	}
	// |z| < |y|, bound z by the largest magnitude y can take.
	my := p.Y.Max().Abs()
	if p.Y.Min().Abs().Greater(my) {
		my = p.Y.Min().Abs()
	}
	bound := my.Prev()
	if ev, ok := p.Z.SetMax(bound); !ok {
		return fail
	} else {
		s.wake(p.Z.Base(), ev)
	}
	neg := bound.Neg()
	if ev, ok := p.Z.SetMin(neg); !ok {
		return fail
	} else {
		s.wake(p.Z.Base(), ev)
	}
	return nil
}

// AbsPropagator enforces s = |x| (spec §4.E "abs"): s >= 0; s bounded by
// max(|xmin|,|xmax|); reverse x ∈ [-s, s], tightened to the stronger
// equality if x is known non-negative or non-positive.
type AbsPropagator struct {
	X, S View
}

func (p *AbsPropagator) Name() string { return "abs" }

func (p *AbsPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventFix
	s.Watch(p.X.Base(), idx, mask)
	s.Watch(p.S.Base(), idx, mask)
}

func (p *AbsPropagator) Prune(s *Store) error {
	if ev, ok := p.S.SetMin(Int(0)); !ok {
		return fail
	} else {
		s.wake(p.S.Base(), ev)
	}
	hi := p.X.Max().Abs()
	if p.X.Min().Abs().Greater(hi) {
		hi = p.X.Min().Abs()
	}
	if ev, ok := p.S.SetMax(hi); !ok {
		return fail
	} else {
		s.wake(p.S.Base(), ev)
	}

	switch {
	case !p.X.Min().Less(Int(0)): // x >= 0: s == x
		if ev, ok := p.S.SetMin(p.X.Min()); !ok {
			return fail
		} else {
			s.wake(p.S.Base(), ev)
		}
		if ev, ok := p.X.SetMin(p.S.Min()); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
		if ev, ok := p.X.SetMax(p.S.Max()); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
	case !p.X.Max().Greater(Int(0)): // x <= 0: s == -x
		if ev, ok := p.S.SetMin(p.X.Max().Neg()); !ok {
			return fail
		} else {
			s.wake(p.S.Base(), ev)
		}
		if ev, ok := p.X.SetMax(p.S.Min().Neg()); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
		if ev, ok := p.X.SetMin(p.S.Max().Neg()); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
	default:
		negS := p.S.Max().Neg()
		if ev, ok := p.X.SetMin(negS); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
		if ev, ok := p.X.SetMax(p.S.Max()); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
	}
	return nil
}
