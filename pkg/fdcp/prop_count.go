package fdcp

// CountPropagator enforces count(vars, target, n): n is the number of
// vars_i equal to target (spec §4.E "Count / Count-var"). Bounds on n are
// derived from the number of variables certainly equal to target (fixed to
// it) and the number possibly equal (still containing it); once n is
// pinned to one of those extremes, the uncertain variables are resolved
// accordingly.
type CountPropagator struct {
	Vars   []View
	Target View
	N      View
}

func (p *CountPropagator) Name() string { return "count" }

func (p *CountPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventDomain | EventFix
	for _, v := range p.Vars {
		s.Watch(v.Base(), idx, mask)
	}
	s.Watch(p.Target.Base(), idx, mask)
	s.Watch(p.N.Base(), idx, mask)
}

func (p *CountPropagator) Prune(s *Store) error {
	if !p.Target.IsFixed() {
		// Without a fixed target, possibility/certainty bookkeeping per
		// spec's definition doesn't apply; only cheap n bounds from the
		// variable count are maintained.
		if ev, ok := p.N.SetMin(Int(0)); !ok {
			return fail
		} else {
			s.wake(p.N.Base(), ev)
		}
		if ev, ok := p.N.SetMax(Int(int64(len(p.Vars)))); !ok {
			return fail
		} else {
			s.wake(p.N.Base(), ev)
		}
		return nil
	}
	target := p.Target.Min()

	certain := 0
	var uncertain []View
	for _, v := range p.Vars {
		switch {
		case v.IsFixed() && v.Min().Equal(target):
			certain++
		case v.Contains(target):
			uncertain = append(uncertain, v)
		}
	}
	possible := certain + len(uncertain)

	if ev, ok := p.N.SetMin(Int(int64(certain))); !ok {
		return fail
	} else {
		s.wake(p.N.Base(), ev)
	}
	if ev, ok := p.N.SetMax(Int(int64(possible))); !ok {
		return fail
	} else {
		s.wake(p.N.Base(), ev)
	}

	if p.N.IsFixed() {
		n := p.N.Min().AsInt()
		if n == int64(possible) && len(uncertain) > 0 {
			for _, v := range uncertain {
				if ev, ok := v.Fix(target); !ok {
					return fail
				} else {
					s.wake(v.Base(), ev)
				}
			}
		} else if n == int64(certain) && len(uncertain) > 0 {
			for _, v := range uncertain {
				if ev, ok := v.Remove(target); !ok {
					return fail
				} else if ev != EventNone {
					s.wake(v.Base(), ev)
				}
			}
		}
	}
	return nil
}

// NewCount builds a count(vars, target, n) propagator.
func NewCount(vars []View, target, n View) *CountPropagator {
	return &CountPropagator{Vars: vars, Target: target, N: n}
}
