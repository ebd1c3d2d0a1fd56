package fdcp

import "math"

// selectVariable picks the next unfixed variable to branch on according to
// cfg.VariableOrdering (spec §4.H, grounded on the teacher's labeling.go
// family of *Labeling.SelectVariable methods). Returns (-1, false) if every
// variable is already fixed.
func selectVariable(s *Store, cfg Config) (VarId, bool) {
	n := s.vars.Count()
	switch cfg.VariableOrdering {
	case OrderInputOrder:
		for i := 0; i < n; i++ {
			if !s.vars.entries[i].domain.IsFixed() {
				return VarId(i), true
			}
		}
		return -1, false

	case OrderMostConstrained:
		best, bestSize, bestID, found := -1, 0, VarId(-1), false
		for i := 0; i < n; i++ {
			d := s.vars.entries[i].domain
			if d.IsFixed() {
				continue
			}
			deg := len(s.vars.entries[i].watchers)
			if !found || deg > best || (deg == best && d.Size() < bestSize) {
				best, bestSize, bestID, found = deg, d.Size(), VarId(i), true
			}
		}
		return bestID, found

	case OrderHybrid:
		bestScore := -1.0
		bestID, found := VarId(-1), false
		for i := 0; i < n; i++ {
			d := s.vars.entries[i].domain
			if d.IsFixed() {
				continue
			}
			deg := len(s.vars.entries[i].watchers)
			if deg == 0 {
				deg = 1
			}
			score := float64(deg) / float64(d.Size())
			if !found || score > bestScore {
				bestScore, bestID, found = score, VarId(i), true
			}
		}
		return bestID, found

	default: // OrderFirstFail
		bestSize, bestID, found := 0, VarId(-1), false
		for i := 0; i < n; i++ {
			d := s.vars.entries[i].domain
			if d.IsFixed() {
				continue
			}
			if !found || d.Size() < bestSize {
				bestSize, bestID, found = d.Size(), VarId(i), true
			}
		}
		return bestID, found
	}
}

// selectValue picks the branching value for id according to
// cfg.ValueOrdering. The variable must not be fixed.
func selectValue(s *Store, id VarId, cfg Config) Value {
	d := s.vars.Domain(id)
	switch cfg.ValueOrdering {
	case ValueMax:
		return d.Max()
	case ValueMedian:
		lo, hi := d.Min().AsFloat(), d.Max().AsFloat()
		mid := (lo + hi) / 2
		if d.Kind() == KindFloatVar {
			return Float(mid)
		}
		if it, ok := d.(IterableDomain); ok {
			// Smallest live value at or above the midpoint, so holes are skipped.
			m, best := Int(int64(mid)), d.Max()
			it.ForEach(func(v Value) bool {
				if !v.Less(m) && v.Less(best) {
					best = v
				}
				return true
			})
			return best
		}
		return Int(int64(mid))
	default: // ValueMin
		return d.Min()
	}
}

// branchAlt is one alternative at a decision node: a mutation applied to
// the branching variable's domain right after the node's trail mark.
type branchAlt func(d Domain) (Event, bool)

// branchAlternatives returns the ordered list of alternatives search tries
// for id (spec §4.G "Value-ordering strategies"). Enumerable domains use
// classic two-way branching (var = v, then var ≠ v). Interval domains
// cannot represent interior holes, so they branch three ways around a
// split point g: var = g, var ≤ prev(g), var ≥ beyond(g) — where beyond is
// g+1 for integers and the next point on the precision grid for floats,
// keeping every float assignment on the grid step 10^(-FloatPrecisionDigits)
// (spec §4.G "float vars → value-assignment at a precision-aligned point").
func branchAlternatives(s *Store, id VarId, cfg Config) []branchAlt {
	d := s.vars.Domain(id)
	if _, ok := d.(IterableDomain); ok {
		v := selectValue(s, id, cfg)
		return []branchAlt{
			func(d Domain) (Event, bool) { return d.Fix(v) },
			func(d Domain) (Event, bool) { return d.Remove(v) },
		}
	}

	if d.Kind() != KindFloatVar {
		g := selectValue(s, id, cfg)
		return []branchAlt{
			func(d Domain) (Event, bool) { return d.Fix(g) },
			func(d Domain) (Event, bool) { return d.SetMax(g.Prev()) },
			func(d Domain) (Event, bool) { return d.SetMin(g.Next()) },
		}
	}

	// Float interval: pick a grid-aligned point inside [min, max]. If the
	// interval has narrowed past the grid (no aligned point left inside),
	// assign a boundary (spec §4.G: "if domain becomes trivially empty
	// after rounding, pick a boundary").
	step := math.Pow(10, -float64(cfg.FloatPrecisionDigits))
	lo, hi := d.Min().AsFloat(), d.Max().AsFloat()
	var g float64
	switch cfg.ValueOrdering {
	case ValueMax:
		g = math.Floor(hi/step) * step
	case ValueMedian:
		g = math.Round((lo+hi)/2/step) * step
	default:
		g = math.Ceil(lo/step) * step
	}
	if g < lo || g > hi {
		b := Float(lo)
		if cfg.ValueOrdering == ValueMax {
			b = Float(hi)
		}
		return []branchAlt{func(d Domain) (Event, bool) { return d.Fix(b) }}
	}

	gv := Float(g)
	above := func(d Domain) (Event, bool) { return d.SetMin(Float(g + step)) }
	below := func(d Domain) (Event, bool) { return d.SetMax(gv.Prev()) }
	if cfg.ValueOrdering == ValueMax {
		return []branchAlt{
			func(d Domain) (Event, bool) { return d.Fix(gv) },
			below,
			above,
		}
	}
	return []branchAlt{
		func(d Domain) (Event, bool) { return d.Fix(gv) },
		above,
		below,
	}
}
