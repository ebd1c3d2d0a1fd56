package fdcp

// ReifiedConstraint is the minimal interface a base constraint must provide
// to be reified (spec §4.E "Reification"): its own propagation contract
// (Prune/Register, reused unchanged when active) plus an entailment check
// in both directions and a way to post its negation.
type ReifiedConstraint interface {
	Propagator
	// Entailed reports true if the constraint is necessarily satisfied by
	// the current domains, false if necessarily violated, and (false,
	// false) if undetermined.
	Entailed(s *Store) (holds bool, determined bool)
	// Negation returns a propagator enforcing the logical negation of this
	// constraint.
	Negation() Propagator
}

// ReifyPropagator enforces B ⇔ R(vars) for a reifiable base constraint R
// (spec §4.E "Reification"): when b is fixed, the corresponding side
// (R or its negation) is posted as an always-active sub-propagator; when R
// becomes entailed or disentailed, b is fixed accordingly.
type ReifyPropagator struct {
	B    View
	Base ReifiedConstraint

	// active is the live side being enforced once b is known. It is set
	// through Store.TrailFlag so backtracking past the point where b was
	// fixed reverts the propagator to its undetermined state — b may take
	// the other truth value in a sibling branch.
	active Propagator
	neg    Propagator // cached negation, built once
}

func (p *ReifyPropagator) Name() string { return "reify" }

func (p *ReifyPropagator) Register(s *Store, idx int) {
	s.Watch(p.B.Base(), idx, EventFix)
	p.Base.Register(s, idx)
}

func (p *ReifyPropagator) Prune(s *Store) error {
	if p.active != nil {
		return p.active.Prune(s)
	}
	if p.B.IsFixed() {
		side := Propagator(p.Base)
		if p.B.Min().Equal(Int(0)) {
			if p.neg == nil {
				p.neg = p.Base.Negation()
			}
			side = p.neg
		}
		s.TrailFlag(func() { p.active = side }, func() { p.active = nil })
		return p.active.Prune(s)
	}
	if holds, determined := p.Base.Entailed(s); determined {
		want := Int(0)
		if holds {
			want = Int(1)
		}
		if ev, ok := p.B.Fix(want); !ok {
			return fail
		} else {
			s.wake(p.B.Base(), ev)
		}
	}
	return nil
}

// NewReify builds a propagator enforcing b <=> base.
func NewReify(b View, base ReifiedConstraint) *ReifyPropagator {
	return &ReifyPropagator{B: b, Base: base}
}

// cmpNegation returns the logical negation of a cmpKind (used by
// CmpPropagator.Negation below).
func cmpNegation(k cmpKind) cmpKind {
	switch k {
	case cmpLE:
		return cmpGT
	case cmpLT:
		return cmpGE
	case cmpGE:
		return cmpLT
	case cmpGT:
		return cmpLE
	case cmpEQ:
		return cmpNE
	default: // cmpNE
		return cmpEQ
	}
}

// Entailed implements ReifiedConstraint for CmpPropagator: a comparison is
// entailed once the two views' bounds make it unconditionally true, and
// disentailed once they make it unconditionally false.
func (p *CmpPropagator) Entailed(s *Store) (holds bool, determined bool) {
	x, y := p.X, p.Y
	switch p.Op {
	case cmpLE:
		if x.Max().LessEq(y.Min()) {
			return true, true
		}
		if x.Min().Greater(y.Max()) {
			return false, true
		}
	case cmpLT:
		if x.Max().Less(y.Min()) {
			return true, true
		}
		if !x.Min().Less(y.Max()) {
			return false, true
		}
	case cmpGE:
		if x.Min().GreaterEq(y.Max()) {
			return true, true
		}
		if x.Max().Less(y.Min()) {
			return false, true
		}
	case cmpGT:
		if x.Min().Greater(y.Max()) {
			return true, true
		}
		if !x.Max().Greater(y.Min()) {
			return false, true
		}
	case cmpEQ:
		if x.IsFixed() && y.IsFixed() && x.Min().Equal(y.Min()) {
			return true, true
		}
		if x.Max().Less(y.Min()) || y.Max().Less(x.Min()) {
			return false, true
		}
	default: // cmpNE
		if x.Max().Less(y.Min()) || y.Max().Less(x.Min()) {
			return true, true
		}
		if x.IsFixed() && y.IsFixed() && x.Min().Equal(y.Min()) {
			return false, true
		}
	}
	return false, false
}

// Negation implements ReifiedConstraint for CmpPropagator.
func (p *CmpPropagator) Negation() Propagator {
	return &CmpPropagator{X: p.X, Y: p.Y, Op: cmpNegation(p.Op)}
}

// Entailed implements ReifiedConstraint for LinearPropagator, for all three
// relations (EQ, LE and NE).
func (p *LinearPropagator) Entailed(s *Store) (holds bool, determined bool) {
	var totalLo, totalHi Value
	if p.isFloat {
		totalLo, totalHi = Float(0), Float(0)
	} else {
		totalLo, totalHi = Int(0), Int(0)
	}
	for _, t := range p.Terms {
		lo, hi, ok := p.termBounds(t)
		if !ok {
			return false, true
		}
		totalLo, _ = totalLo.Add(lo)
		totalHi, _ = totalHi.Add(hi)
	}
	switch p.Rel {
	case LinearLE:
		if totalHi.LessEq(p.Const) {
			return true, true
		}
		if totalLo.Greater(p.Const) {
			return false, true
		}
	case LinearEQ:
		if totalLo.Equal(p.Const) && totalHi.Equal(p.Const) {
			return true, true
		}
		if totalLo.Greater(p.Const) || totalHi.Less(p.Const) {
			return false, true
		}
	case LinearNE:
		if totalLo.Greater(p.Const) || totalHi.Less(p.Const) {
			return true, true
		}
		if totalLo.Equal(p.Const) && totalHi.Equal(p.Const) {
			return false, true
		}
	}
	return false, false
}

// Negation implements ReifiedConstraint for LinearPropagator. The negation
// of Σ <= c is Σ > c, expressed by negating every coefficient:
// Σ(-a_i)x_i <= -next(c) — on the integer grid next(c) is c+1, on floats one
// ULP above c, so strictness is preserved without a dedicated > relation.
func (p *LinearPropagator) Negation() Propagator {
	switch p.Rel {
	case LinearLE:
		terms := make([]term, len(p.Terms))
		for i, t := range p.Terms {
			terms[i] = term{coef: -t.coef, coefF: -t.coefF, v: t.v}
		}
		return &LinearPropagator{
			Terms:   terms,
			Const:   p.Const.Next().Neg(),
			Rel:     LinearLE,
			isFloat: p.isFloat,
			epsilon: p.epsilon,
		}
	case LinearEQ:
		return &LinearPropagator{Terms: p.Terms, Const: p.Const, Rel: LinearNE, isFloat: p.isFloat, epsilon: p.epsilon}
	default: // LinearNE
		return &LinearPropagator{Terms: p.Terms, Const: p.Const, Rel: LinearEQ, isFloat: p.isFloat, epsilon: p.epsilon}
	}
}

// NewImplication builds a ⇒ b as the boolean encoding b >= a (spec §4.E
// "Implication (a ⇒ b) is a special case: b ≥ a").
func NewImplication(a, b View) *CmpPropagator {
	return &CmpPropagator{X: a, Y: b, Op: cmpLE}
}
