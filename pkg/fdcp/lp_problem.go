package fdcp

// lpRow is one extracted linear constraint in terms of base VarIds (views'
// affine transforms are folded into the coefficient and a constant shift
// before this point), ready for matrix assembly.
type lpRow struct {
	coef map[VarId]float64
	rel  LinearRel // only LinearEQ or LinearLE ever appear here
	rhs  float64
}

// lpProblem is the dense extraction described in spec §4.I/§3 "LP
// problem": only linear equalities, inequalities, and per-variable bounds
// participate; mul/div/mod/abs/element/table/all-different are invisible
// to it. Boolean variables are relaxed to a continuous [0,1] bound.
type lpProblem struct {
	cols    []VarId          // column index -> VarId
	colOf   map[VarId]int    // VarId -> column index
	lower   []float64
	upper   []float64
	rows    []lpRow
}

// extractLP walks the store's registered propagators, folding every
// *LinearPropagator into an lpRow and collecting the set of variables that
// appear in at least one such row (spec §4.I "Scope of extraction").
// Variables that never appear in a linear constraint are omitted: LP
// tightening has nothing to contribute to them.
func extractLP(s *Store) *lpProblem {
	p := &lpProblem{colOf: map[VarId]int{}}
	addVar := func(id VarId) int {
		if c, ok := p.colOf[id]; ok {
			return c
		}
		c := len(p.cols)
		p.colOf[id] = c
		p.cols = append(p.cols, id)
		d := s.vars.Domain(id)
		p.lower = append(p.lower, d.Min().AsFloat())
		p.upper = append(p.upper, d.Max().AsFloat())
		return c
	}

	for _, prop := range s.props {
		lin, ok := prop.(*LinearPropagator)
		if !ok || lin.Rel == LinearNE {
			continue
		}
		row := lpRow{coef: map[VarId]float64{}, rel: lin.Rel}
		constShift := 0.0
		for _, t := range lin.Terms {
			coef := t.coefF
			if !lin.isFloat {
				coef = float64(t.coef)
			}
			v := t.v
			// Fold the view's affine transform x = scale*base + off into
			// the row: coef*(scale*base+off) = coef*scale*base + coef*off.
			var baseScale, baseOff float64
			if v.isInt {
				baseScale, baseOff = float64(v.scale), float64(v.off)
			} else {
				baseScale, baseOff = v.scaleF, v.offF
			}
			id := v.Base()
			addVar(id)
			row.coef[id] += coef * baseScale
			constShift += coef * baseOff
		}
		row.rhs = lin.Const.AsFloat() - constShift
		p.rows = append(p.rows, row)
	}
	return p
}
