package fdcp

// LinearRel is the relation a linear constraint enforces (spec §4.E
// "Linear (Σ a_i·x_i ⋈ c ...)").
type LinearRel int

const (
	LinearEQ LinearRel = iota
	LinearLE
	LinearNE
)

// term pairs a coefficient with the view it multiplies.
type term struct {
	coef int64
	coefF float64
	v     View
}

// LinearPropagator enforces Σ coef_i·v_i ⋈ c via two-pass bound propagation:
// a forward pass computes the total's bounds, then a reverse pass tightens
// each term from (c − Σ_{j≠i} bounds_j) (spec §4.E "Sum"/"Linear"). Sum is
// the coefficient-1 special case and uses the same code path.
type LinearPropagator struct {
	Terms    []term
	Const    Value
	Rel      LinearRel
	isFloat  bool
	epsilon  float64
}

// NewLinear builds a linear propagator over integer views with integer
// coefficients: Σ coefs[i]*vars[i] ⋈ c.
func NewLinear(vars []View, coefs []int64, rel LinearRel, c int64) *LinearPropagator {
	terms := make([]term, len(vars))
	for i := range vars {
		terms[i] = term{coef: coefs[i], coefF: float64(coefs[i]), v: vars[i]}
	}
	return &LinearPropagator{Terms: terms, Const: Int(c), Rel: rel}
}

// NewLinearFloat builds a linear propagator over float-valued coefficients
// and views.
func NewLinearFloat(vars []View, coefs []float64, rel LinearRel, c float64, epsilon float64) *LinearPropagator {
	terms := make([]term, len(vars))
	for i := range vars {
		terms[i] = term{coefF: coefs[i], v: vars[i]}
	}
	return &LinearPropagator{Terms: terms, Const: Float(c), Rel: rel, isFloat: true, epsilon: epsilon}
}

// NewSum builds a propagator enforcing Σ vars_i ⋈ target (coefficients all
// 1; spec §4.E "Sum" is the coefficient-1 special case of Linear).
func NewSum(vars []View, rel LinearRel, target View) *LinearPropagator {
	terms := make([]term, len(vars)+1)
	for i := range vars {
		terms[i] = term{coef: 1, coefF: 1, v: vars[i]}
	}
	terms[len(vars)] = term{coef: -1, coefF: -1, v: target}
	return &LinearPropagator{Terms: terms, Const: Int(0), Rel: rel}
}

func (p *LinearPropagator) Name() string { return "linear" }

func (p *LinearPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventFix
	for _, t := range p.Terms {
		s.Watch(t.v.Base(), idx, mask)
	}
}

func (p *LinearPropagator) termBounds(t term) (lo, hi Value, ok bool) {
	if p.isFloat {
		mn, mx := t.v.Min().AsFloat(), t.v.Max().AsFloat()
		a, b := mn*t.coefF, mx*t.coefF
		if t.coefF < 0 {
			a, b = b, a
		}
		return Float(a), Float(b), true
	}
	a, ok1 := t.v.Min().Mul(Int(t.coef))
	b, ok2 := t.v.Max().Mul(Int(t.coef))
	if !ok1 || !ok2 {
		return Value{}, Value{}, false
	}
	if t.coef < 0 {
		a, b = b, a
	}
	return a, b, true
}

func (p *LinearPropagator) Prune(s *Store) error {
	n := len(p.Terms)
	los := make([]Value, n)
	his := make([]Value, n)
	var totalLo, totalHi Value
	if p.isFloat {
		totalLo, totalHi = Float(0), Float(0)
	} else {
		totalLo, totalHi = Int(0), Int(0)
	}
	for i, t := range p.Terms {
		lo, hi, ok := p.termBounds(t)
		if !ok {
			return fail
		}
		los[i], his[i] = lo, hi
		var ok1, ok2 bool
		totalLo, ok1 = totalLo.Add(lo)
		totalHi, ok2 = totalHi.Add(hi)
		if !ok1 || !ok2 {
			return fail
		}
	}

	switch p.Rel {
	case LinearLE:
		// Σ <= c: nothing to do for the forward total itself (it's not a
		// variable), but every term can be tightened from the slack.
		if totalLo.Greater(p.Const) {
			return fail
		}
	case LinearEQ:
		if totalLo.Greater(p.Const) || totalHi.Less(p.Const) {
			return fail
		}
	case LinearNE:
		if totalLo.Equal(p.Const) && totalHi.Equal(p.Const) {
			return fail
		}
	}

	if p.Rel == LinearNE {
		return nil // disequality over a sum only fails on full determinism, handled above
	}

	for i, t := range p.Terms {
		// rest = Σ_{j≠i} term_j, bounds [restLo, restHi]
		restLo, ok1 := totalLo.Sub(los[i])
		restHi, ok2 := totalHi.Sub(his[i])
		if !ok1 || !ok2 {
			return fail
		}
		// term_i <= c - restLo always holds for LE and EQ upper side.
		upper, okU := p.Const.Sub(restLo)
		if !okU {
			return fail
		}
		if err := p.tightenTerm(s, t, i, Value{}, upper, false, true); err != nil {
			return err
		}
		if p.Rel == LinearEQ {
			lower, okL := p.Const.Sub(restHi)
			if !okL {
				return fail
			}
			if err := p.tightenTerm(s, t, i, lower, Value{}, true, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// tightenTerm converts a bound on coef_i*v_i back to a bound on v_i,
// inverting the coefficient's sign, and applies it.
func (p *LinearPropagator) tightenTerm(s *Store, t term, i int, lower, upper Value, haveLower, haveUpper bool) error {
	coef := t.coefF
	if !p.isFloat {
		coef = float64(t.coef)
	}
	applyMin := func(bound Value) error {
		var vb Value
		if p.isFloat {
			vb = Float(bound.AsFloat() / coef)
		} else {
			vb = Int(ceilDiv(bound.AsInt(), t.coef))
		}
		if ev, ok := t.v.SetMin(vb); !ok {
			return fail
		} else {
			s.wake(t.v.Base(), ev)
		}
		return nil
	}
	applyMax := func(bound Value) error {
		var vb Value
		if p.isFloat {
			vb = Float(bound.AsFloat() / coef)
		} else {
			vb = Int(floorDiv(bound.AsInt(), t.coef))
		}
		if ev, ok := t.v.SetMax(vb); !ok {
			return fail
		} else {
			s.wake(t.v.Base(), ev)
		}
		return nil
	}

	if haveUpper {
		if coef > 0 {
			if err := applyMax(upper); err != nil {
				return err
			}
		} else {
			if err := applyMin(upper); err != nil {
				return err
			}
		}
	}
	if haveLower {
		if coef > 0 {
			if err := applyMin(lower); err != nil {
				return err
			}
		} else {
			if err := applyMax(lower); err != nil {
				return err
			}
		}
	}
	return nil
}
