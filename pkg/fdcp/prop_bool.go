package fdcp

// BoolAndPropagator enforces result = AND(lits...) over {0,1} views (spec
// §4.E "Booleans"): result is 1 iff every literal is 1.
type BoolAndPropagator struct {
	Lits   []View
	Result View
}

func (p *BoolAndPropagator) Name() string { return "bool_and" }

func (p *BoolAndPropagator) Register(s *Store, idx int) {
	mask := EventFix
	for _, l := range p.Lits {
		s.Watch(l.Base(), idx, mask)
	}
	s.Watch(p.Result.Base(), idx, mask)
}

func (p *BoolAndPropagator) Prune(s *Store) error {
	anyZero := false
	allOne := true
	for _, l := range p.Lits {
		if l.IsFixed() {
			if l.Min().Equal(Int(0)) {
				anyZero = true
			}
		} else {
			allOne = false
		}
	}
	if anyZero {
		if ev, ok := p.Result.Fix(Int(0)); !ok {
			return fail
		} else {
			s.wake(p.Result.Base(), ev)
		}
		return nil
	}
	if allOne {
		if ev, ok := p.Result.Fix(Int(1)); !ok {
			return fail
		} else {
			s.wake(p.Result.Base(), ev)
		}
		return nil
	}
	if p.Result.IsFixed() {
		if p.Result.Min().Equal(Int(1)) {
			for _, l := range p.Lits {
				if ev, ok := l.Fix(Int(1)); !ok {
					return fail
				} else {
					s.wake(l.Base(), ev)
				}
			}
			return nil
		}
		// result = 0 with exactly one undecided literal: it must be 0.
		var lastUnfixed *View
		unfixed := 0
		for i := range p.Lits {
			if !p.Lits[i].IsFixed() {
				unfixed++
				lastUnfixed = &p.Lits[i]
			}
		}
		if unfixed == 1 {
			if ev, ok := lastUnfixed.Fix(Int(0)); !ok {
				return fail
			} else {
				s.wake(lastUnfixed.Base(), ev)
			}
		}
	}
	return nil
}

// BoolOrPropagator enforces result = OR(lits...), and doubles as the
// "clause" constraint (at-least-one) when Result is pinned to 1.
type BoolOrPropagator struct {
	Lits   []View
	Result View
}

func (p *BoolOrPropagator) Name() string { return "bool_or" }

func (p *BoolOrPropagator) Register(s *Store, idx int) {
	mask := EventFix
	for _, l := range p.Lits {
		s.Watch(l.Base(), idx, mask)
	}
	s.Watch(p.Result.Base(), idx, mask)
}

func (p *BoolOrPropagator) Prune(s *Store) error {
	anyOne := false
	allZero := true
	var lastUnfixed *View
	unfixedCount := 0
	for i := range p.Lits {
		l := &p.Lits[i]
		if l.IsFixed() {
			if l.Min().Equal(Int(1)) {
				anyOne = true
			}
		} else {
			allZero = false
			unfixedCount++
			lastUnfixed = l
		}
	}
	if anyOne {
		if ev, ok := p.Result.Fix(Int(1)); !ok {
			return fail
		} else {
			s.wake(p.Result.Base(), ev)
		}
		return nil
	}
	if allZero {
		if ev, ok := p.Result.Fix(Int(0)); !ok {
			return fail
		} else {
			s.wake(p.Result.Base(), ev)
		}
		return nil
	}
	if p.Result.IsFixed() {
		if p.Result.Min().Equal(Int(0)) {
			for _, l := range p.Lits {
				if ev, ok := l.Fix(Int(0)); !ok {
					return fail
				} else {
					s.wake(l.Base(), ev)
				}
			}
		} else if unfixedCount == 1 {
			if ev, ok := lastUnfixed.Fix(Int(1)); !ok {
				return fail
			} else {
				s.wake(lastUnfixed.Base(), ev)
			}
		}
	}
	return nil
}

// NewClause builds an at-least-one-of constraint over lits, the boolean
// "clause" special case of BoolOr with Result pinned to true.
func NewClause(s *Store, lits []View) *BoolOrPropagator {
	one := VarView(s, s.Declare("__clause_true", KindBoolean, NewBoolDomain(s.trail)))
	s.vars.Domain(one.Base()).Fix(Int(1))
	return &BoolOrPropagator{Lits: lits, Result: one}
}

// BoolNotPropagator enforces result = NOT(x).
type BoolNotPropagator struct {
	X, Result View
}

func (p *BoolNotPropagator) Name() string { return "bool_not" }

func (p *BoolNotPropagator) Register(s *Store, idx int) {
	mask := EventFix
	s.Watch(p.X.Base(), idx, mask)
	s.Watch(p.Result.Base(), idx, mask)
}

func (p *BoolNotPropagator) Prune(s *Store) error {
	if p.X.IsFixed() {
		want := Int(1)
		if p.X.Min().Equal(Int(1)) {
			want = Int(0)
		}
		if ev, ok := p.Result.Fix(want); !ok {
			return fail
		} else {
			s.wake(p.Result.Base(), ev)
		}
	}
	if p.Result.IsFixed() {
		want := Int(1)
		if p.Result.Min().Equal(Int(1)) {
			want = Int(0)
		}
		if ev, ok := p.X.Fix(want); !ok {
			return fail
		} else {
			s.wake(p.X.Base(), ev)
		}
	}
	return nil
}

// BoolXorPropagator enforces result = x XOR y.
type BoolXorPropagator struct {
	X, Y, Result View
}

func (p *BoolXorPropagator) Name() string { return "bool_xor" }

func (p *BoolXorPropagator) Register(s *Store, idx int) {
	mask := EventFix
	s.Watch(p.X.Base(), idx, mask)
	s.Watch(p.Y.Base(), idx, mask)
	s.Watch(p.Result.Base(), idx, mask)
}

func (p *BoolXorPropagator) Prune(s *Store) error {
	if p.X.IsFixed() && p.Y.IsFixed() {
		r := Int(0)
		if p.X.Min().AsInt() != p.Y.Min().AsInt() {
			r = Int(1)
		}
		if ev, ok := p.Result.Fix(r); !ok {
			return fail
		} else {
			s.wake(p.Result.Base(), ev)
		}
		return nil
	}
	if p.Result.IsFixed() {
		if p.X.IsFixed() {
			want := p.X.Min().AsInt() ^ p.Result.Min().AsInt()
			if ev, ok := p.Y.Fix(Int(want)); !ok {
				return fail
			} else {
				s.wake(p.Y.Base(), ev)
			}
		} else if p.Y.IsFixed() {
			want := p.Y.Min().AsInt() ^ p.Result.Min().AsInt()
			if ev, ok := p.X.Fix(Int(want)); !ok {
				return fail
			} else {
				s.wake(p.X.Base(), ev)
			}
		}
	}
	return nil
}

// NewBoolAnd, NewBoolOr, NewBoolNot, NewBoolXor construct the corresponding
// boolean propagators.
func NewBoolAnd(lits []View, result View) *BoolAndPropagator {
	return &BoolAndPropagator{Lits: lits, Result: result}
}
func NewBoolOr(lits []View, result View) *BoolOrPropagator {
	return &BoolOrPropagator{Lits: lits, Result: result}
}
func NewBoolNot(x, result View) *BoolNotPropagator { return &BoolNotPropagator{X: x, Result: result} }
func NewBoolXor(x, y, result View) *BoolXorPropagator {
	return &BoolXorPropagator{X: x, Y: y, Result: result}
}
