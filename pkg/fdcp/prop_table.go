package fdcp

// TablePropagator enforces that the tuple of values assigned to Vars must
// match one of the rows in Tuples exactly (spec §4.E "Table (GAC)"). Each
// Prune discards rows incompatible with the current domains, then
// intersects each column's live domain with the set of values appearing in
// any surviving row; the engine's own re-trigger on the resulting domain
// events iterates this to the GAC fixpoint. The tuple list itself is never
// mutated — which rows are live is a function of the current domains, so it
// needs no undo record of its own.
type TablePropagator struct {
	Vars   []View
	Tuples [][]int64
}

func (p *TablePropagator) Name() string { return "table" }

// Priority defers the row scan until cheaper propagators have settled.
func (p *TablePropagator) Priority() int { return 1 }

func (p *TablePropagator) Register(s *Store, idx int) {
	mask := EventBound | EventDomain | EventFix
	for _, v := range p.Vars {
		s.Watch(v.Base(), idx, mask)
	}
}

func (p *TablePropagator) Prune(s *Store) error {
	// Collect per-column supports over the rows still compatible with the
	// current domains.
	support := make([]map[int64]bool, len(p.Vars))
	for i := range support {
		support[i] = map[int64]bool{}
	}
	anyLive := false
	for _, row := range p.Tuples {
		ok := true
		for i, v := range row {
			if !p.Vars[i].Contains(Int(v)) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		anyLive = true
		for i, v := range row {
			support[i][v] = true
		}
	}
	if !anyLive {
		return fail
	}

	for i, v := range p.Vars {
		var toRemove []Value
		if v.ForEach(func(x Value) bool {
			if !support[i][x.AsInt()] {
				toRemove = append(toRemove, x)
			}
			return true
		}) {
			for _, x := range toRemove {
				if ev, ok := v.Remove(x); !ok {
					return fail
				} else if ev != EventNone {
					s.wake(v.Base(), ev)
				}
			}
			continue
		}
		// interval domain: narrow bounds to the supported min/max only.
		var lo, hi int64
		first := true
		for val := range support[i] {
			if first {
				lo, hi, first = val, val, false
				continue
			}
			if val < lo {
				lo = val
			}
			if val > hi {
				hi = val
			}
		}
		if ev, ok := v.SetMin(Int(lo)); !ok {
			return fail
		} else {
			s.wake(v.Base(), ev)
		}
		if ev, ok := v.SetMax(Int(hi)); !ok {
			return fail
		} else {
			s.wake(v.Base(), ev)
		}
	}
	return nil
}

// NewTable builds a table constraint over vars with the given allowed
// tuples (one []int64 per row, same length as vars).
func NewTable(vars []View, tuples [][]int64) *TablePropagator {
	cp := make([][]int64, len(tuples))
	copy(cp, tuples)
	return &TablePropagator{Vars: vars, Tuples: cp}
}
