package fdcp

// MinPropagator enforces result = min(vars) (spec §4.E "Min / Max
// (n-ary)"): result.min = min_i vars_i.min; result.max = min_i vars_i.max;
// reverse, every var_i >= result.min, and if exactly one variable can
// achieve result.max, its upper bound is tightened to result.max.
type MinPropagator struct {
	Vars   []View
	Result View
}

func (p *MinPropagator) Name() string { return "min" }

func (p *MinPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventFix
	for _, v := range p.Vars {
		s.Watch(v.Base(), idx, mask)
	}
	s.Watch(p.Result.Base(), idx, mask)
}

func (p *MinPropagator) Prune(s *Store) error {
	if len(p.Vars) == 0 {
		return fail
	}
	rmin, rmax := p.Vars[0].Min(), p.Vars[0].Max()
	for _, v := range p.Vars[1:] {
		if v.Min().Less(rmin) {
			rmin = v.Min()
		}
		if v.Max().Less(rmax) {
			rmax = v.Max()
		}
	}
	if ev, ok := p.Result.SetMin(rmin); !ok {
		return fail
	} else {
		s.wake(p.Result.Base(), ev)
	}
	if ev, ok := p.Result.SetMax(rmax); !ok {
		return fail
	} else {
		s.wake(p.Result.Base(), ev)
	}

	resMin := p.Result.Min()
	for _, v := range p.Vars {
		if ev, ok := v.SetMin(resMin); !ok {
			return fail
		} else {
			s.wake(v.Base(), ev)
		}
	}

	resMax := p.Result.Max()
	var achiever *View
	count := 0
	for i := range p.Vars {
		if !p.Vars[i].Min().Greater(resMax) {
			count++
			achiever = &p.Vars[i]
			if count > 1 {
				break
			}
		}
	}
	if count == 1 {
		if ev, ok := achiever.SetMax(resMax); !ok {
			return fail
		} else {
			s.wake(achiever.Base(), ev)
		}
	}
	return nil
}

// MaxPropagator enforces result = max(vars), symmetric to MinPropagator.
type MaxPropagator struct {
	Vars   []View
	Result View
}

func (p *MaxPropagator) Name() string { return "max" }

func (p *MaxPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventFix
	for _, v := range p.Vars {
		s.Watch(v.Base(), idx, mask)
	}
	s.Watch(p.Result.Base(), idx, mask)
}

func (p *MaxPropagator) Prune(s *Store) error {
	if len(p.Vars) == 0 {
		return fail
	}
	rmin, rmax := p.Vars[0].Min(), p.Vars[0].Max()
	for _, v := range p.Vars[1:] {
		if v.Min().Greater(rmin) {
			rmin = v.Min()
		}
		if v.Max().Greater(rmax) {
			rmax = v.Max()
		}
	}
	if ev, ok := p.Result.SetMin(rmin); !ok {
		return fail
	} else {
		s.wake(p.Result.Base(), ev)
	}
	if ev, ok := p.Result.SetMax(rmax); !ok {
		return fail
	} else {
		s.wake(p.Result.Base(), ev)
	}

	resMax := p.Result.Max()
	for _, v := range p.Vars {
		if ev, ok := v.SetMax(resMax); !ok {
			return fail
		} else {
			s.wake(v.Base(), ev)
		}
	}

	resMin := p.Result.Min()
	var achiever *View
	count := 0
	for i := range p.Vars {
		if !p.Vars[i].Max().Less(resMin) {
			count++
			achiever = &p.Vars[i]
			if count > 1 {
				break
			}
		}
	}
	if count == 1 {
		if ev, ok := achiever.SetMin(resMin); !ok {
			return fail
		} else {
			s.wake(achiever.Base(), ev)
		}
	}
	return nil
}

// NewMin builds a result = min(vars) propagator.
func NewMin(vars []View, result View) *MinPropagator { return &MinPropagator{Vars: vars, Result: result} }

// NewMax builds a result = max(vars) propagator.
func NewMax(vars []View, result View) *MaxPropagator { return &MaxPropagator{Vars: vars, Result: result} }
