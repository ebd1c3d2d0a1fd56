package fdcp

import "testing"

func TestMinPropagatorBounds(t *testing.T) {
	s := newTestStore()
	a := intVar(s, 2, 8)
	b := intVar(s, 4, 6)
	r := intVar(s, -100, 100)
	s.Post(NewMin([]View{a, b}, r))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	// result.min = min of mins = 2, result.max = min of maxes = 6
	if r.Min().AsInt() != 2 || r.Max().AsInt() != 6 {
		t.Fatalf("min bounds [%v,%v], want [2,6]", r.Min(), r.Max())
	}
}

func TestMinReverseRaisesVars(t *testing.T) {
	s := newTestStore()
	a := intVar(s, 0, 8)
	b := intVar(s, 0, 6)
	r := intVar(s, 3, 100)
	s.Post(NewMin([]View{a, b}, r))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if a.Min().AsInt() != 3 || b.Min().AsInt() != 3 {
		t.Fatalf("every var must be >= result min: a min %v b min %v", a.Min(), b.Min())
	}
}

func TestMinSingleAchieverTightened(t *testing.T) {
	s := newTestStore()
	a := intVar(s, 2, 4)
	b := intVar(s, 6, 9)
	r := intVar(s, -100, 100)
	s.Post(NewMin([]View{a, b}, r))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	// r in [2,4]; only a can achieve values <= 4, so a.max <= r.max = 4
	// (already true) — and r tracks a's range exactly here.
	if r.Min().AsInt() != 2 || r.Max().AsInt() != 4 {
		t.Fatalf("r bounds [%v,%v], want [2,4]", r.Min(), r.Max())
	}
}

func TestMaxPropagatorBounds(t *testing.T) {
	s := newTestStore()
	a := intVar(s, 2, 8)
	b := intVar(s, 4, 6)
	r := intVar(s, -100, 100)
	s.Post(NewMax([]View{a, b}, r))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	// result.min = max of mins = 4, result.max = max of maxes = 8
	if r.Min().AsInt() != 4 || r.Max().AsInt() != 8 {
		t.Fatalf("max bounds [%v,%v], want [4,8]", r.Min(), r.Max())
	}
}

func TestMaxReverseLowersVars(t *testing.T) {
	s := newTestStore()
	a := intVar(s, 0, 10)
	b := intVar(s, 0, 10)
	r := intVar(s, 0, 4)
	s.Post(NewMax([]View{a, b}, r))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if a.Max().AsInt() != 4 || b.Max().AsInt() != 4 {
		t.Fatalf("every var must be <= result max: a max %v b max %v", a.Max(), b.Max())
	}
}

func TestMinEmptyVarsFails(t *testing.T) {
	s := newTestStore()
	r := intVar(s, 0, 4)
	s.Post(NewMin(nil, r))
	if s.Run() {
		t.Fatalf("min over no variables must fail")
	}
}
