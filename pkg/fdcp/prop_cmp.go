package fdcp

// cmpKind enumerates the binary comparison operators (spec §4.E
// "Comparison / arithmetic").
type cmpKind int

const (
	cmpLE cmpKind = iota
	cmpLT
	cmpGE
	cmpGT
	cmpEQ
	cmpNE
)

// CmpPropagator enforces x ⋈ y between two views via bound propagation
// only, using Next/Prev on the appropriate side for strict comparisons
// (spec §4.E). Equality and disequality additionally fix singletons when
// possible.
type CmpPropagator struct {
	X, Y View
	Op   cmpKind

	// self is 1+engine index once registered, 0 when this propagator runs
	// unregistered as the live side of a reification. Entailment is
	// reported to the engine (trail-linked) only in the registered case.
	self int
}

func (p *CmpPropagator) Name() string { return "cmp" }

func (p *CmpPropagator) Register(s *Store, idx int) {
	p.self = idx + 1
	mask := EventBound | EventDomain | EventFix
	s.Watch(p.X.Base(), idx, mask)
	s.Watch(p.Y.Base(), idx, mask)
}

// entail deactivates the registered propagator until backtracking unwinds
// past this point. A no-op when running as an unregistered reification side.
func (p *CmpPropagator) entail(s *Store) {
	if p.self > 0 {
		s.Entail(p.self - 1)
	}
}

func (p *CmpPropagator) Prune(s *Store) error {
	x, y := p.X, p.Y
	switch p.Op {
	case cmpLE:
		return p.proneLE(s, x, y, false)
	case cmpLT:
		return p.proneLE(s, x, y, true)
	case cmpGE:
		return p.proneLE(s, y, x, false)
	case cmpGT:
		return p.proneLE(s, y, x, true)
	case cmpEQ:
		return p.proneEQ(s, x, y)
	default: // cmpNE
		return p.proneNE(s, x, y)
	}
}

// proneLE enforces x <= y (strict when strict is true, via Next/Prev on the
// appropriate bound so it works uniformly on the int-step and float-ULP
// grids, per spec §4.A/§4.E).
func (p *CmpPropagator) proneLE(s *Store, x, y View, strict bool) error {
	yMax := y.Max()
	xMin := x.Min()
	if strict {
		yMax = yMax.Prev()
		xMin = xMin.Next()
	}
	if ev, ok := x.SetMax(yMax); !ok {
		return fail
	} else {
		s.wake(x.Base(), ev)
	}
	if ev, ok := y.SetMin(xMin); !ok {
		return fail
	} else {
		s.wake(y.Base(), ev)
	}
	if strict {
		if x.Max().Less(y.Min()) {
			p.entail(s)
		}
	} else if x.Max().LessEq(y.Min()) {
		p.entail(s)
	}
	return nil
}

func (p *CmpPropagator) proneEQ(s *Store, x, y View) error {
	lo := x.Min()
	if y.Min().Greater(lo) {
		lo = y.Min()
	}
	hi := x.Max()
	if y.Max().Less(hi) {
		hi = y.Max()
	}
	if hi.Less(lo) {
		return fail
	}
	if ev, ok := x.SetMin(lo); !ok {
		return fail
	} else {
		s.wake(x.Base(), ev)
	}
	if ev, ok := x.SetMax(hi); !ok {
		return fail
	} else {
		s.wake(x.Base(), ev)
	}
	if ev, ok := y.SetMin(lo); !ok {
		return fail
	} else {
		s.wake(y.Base(), ev)
	}
	if ev, ok := y.SetMax(hi); !ok {
		return fail
	} else {
		s.wake(y.Base(), ev)
	}
	if x.IsFixed() && y.IsFixed() {
		p.entail(s)
	}
	return nil
}

func (p *CmpPropagator) proneNE(s *Store, x, y View) error {
	if x.IsFixed() {
		v := x.Min()
		if ev, ok := y.Remove(v); !ok {
			return fail
		} else if ev != EventNone {
			s.wake(y.Base(), ev)
		}
	}
	if y.IsFixed() {
		v := y.Min()
		if ev, ok := x.Remove(v); !ok {
			return fail
		} else if ev != EventNone {
			s.wake(x.Base(), ev)
		}
	}
	if x.IsFixed() && y.IsFixed() && !x.Min().Equal(y.Min()) {
		p.entail(s)
	} else if x.Max().Less(y.Min()) || y.Max().Less(x.Min()) {
		p.entail(s)
	}
	return nil
}

// NewLessEq returns a propagator enforcing x <= y.
func NewLessEq(x, y View) *CmpPropagator { return &CmpPropagator{X: x, Y: y, Op: cmpLE} }

// NewLess returns a propagator enforcing x < y.
func NewLess(x, y View) *CmpPropagator { return &CmpPropagator{X: x, Y: y, Op: cmpLT} }

// NewGreaterEq returns a propagator enforcing x >= y.
func NewGreaterEq(x, y View) *CmpPropagator { return &CmpPropagator{X: x, Y: y, Op: cmpGE} }

// NewGreater returns a propagator enforcing x > y.
func NewGreater(x, y View) *CmpPropagator { return &CmpPropagator{X: x, Y: y, Op: cmpGT} }

// NewEqual returns a propagator enforcing x == y.
func NewEqual(x, y View) *CmpPropagator { return &CmpPropagator{X: x, Y: y, Op: cmpEQ} }

// NewNotEqual returns a propagator enforcing x != y.
func NewNotEqual(x, y View) *CmpPropagator { return &CmpPropagator{X: x, Y: y, Op: cmpNE} }
