package fdcp

import "testing"

func intVar(s *Store, lo, hi int64) View {
	return VarView(s, s.Declare("", KindInteger, NewIntDomain(s.trail, lo, hi)))
}

func floatVar(s *Store, lo, hi float64) View {
	return VarView(s, s.Declare("", KindFloatVar, NewFloatDomain(s.trail, lo, hi)))
}

func boolVar(s *Store) View {
	return VarView(s, s.Declare("", KindBoolean, NewBoolDomain(s.trail)))
}

func fixedInt(s *Store, v int64) View  { return intVar(s, v, v) }
func fixedFloat(s *Store, v float64) View {
	return floatVar(s, v, v)
}

func TestCmpLessEq(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 10)
	y := intVar(s, 3, 6)
	s.Post(NewLessEq(x, y))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if x.Max().AsInt() != 6 {
		t.Fatalf("x max %v, want 6", x.Max())
	}
	if y.Min().AsInt() != 3 {
		t.Fatalf("y min %v, want 3", y.Min())
	}
}

func TestCmpLessStrict(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 10)
	y := intVar(s, 0, 10)
	s.Post(NewLess(x, y))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if x.Max().AsInt() != 9 || y.Min().AsInt() != 1 {
		t.Fatalf("strict bounds: x max %v y min %v", x.Max(), y.Min())
	}
}

// Mixed int/float strict comparison follows the §-documented rounding rule:
// integer x > 2.5 gives x >= 3, and integer x > 2.0 gives x >= 3 as well.
func TestCmpStrictMixedIntFloat(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 10)
	c := fixedFloat(s, 2.5)
	s.Post(NewGreater(x, c))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if x.Min().AsInt() != 3 {
		t.Fatalf("x > 2.5: min %v, want 3", x.Min())
	}

	s2 := newTestStore()
	x2 := intVar(s2, 0, 10)
	c2 := fixedFloat(s2, 2.0)
	s2.Post(NewGreater(x2, c2))
	if !s2.Run() {
		t.Fatalf("propagation failed")
	}
	if x2.Min().AsInt() != 3 {
		t.Fatalf("x > 2.0: min %v, want 3", x2.Min())
	}
}

func TestCmpFloatStrict(t *testing.T) {
	s := newTestStore()
	x := floatVar(s, 1.0, 10.0)
	c := fixedFloat(s, 5.5)
	s.Post(NewLess(x, c))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if !(x.Max().AsFloat() < 5.5) {
		t.Fatalf("x < 5.5 must propagate max strictly below 5.5, got %v", x.Max())
	}
	if x.Max().AsFloat() < 5.49 {
		t.Fatalf("propagation overshot: max %v", x.Max())
	}
}

func TestCmpEqual(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 6)
	y := intVar(s, 4, 10)
	s.Post(NewEqual(x, y))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if x.Min().AsInt() != 4 || x.Max().AsInt() != 6 || y.Min().AsInt() != 4 || y.Max().AsInt() != 6 {
		t.Fatalf("equality bounds: x [%v,%v] y [%v,%v]", x.Min(), x.Max(), y.Min(), y.Max())
	}

	s2 := newTestStore()
	a := intVar(s2, 0, 3)
	b := intVar(s2, 5, 9)
	s2.Post(NewEqual(a, b))
	if s2.Run() {
		t.Fatalf("disjoint equality must fail")
	}
}

func TestCmpNotEqual(t *testing.T) {
	s := newTestStore()
	x := fixedInt(s, 5)
	y := intVar(s, 3, 7)
	s.Post(NewNotEqual(x, y))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if y.Contains(Int(5)) {
		t.Fatalf("y must lose 5")
	}
	if y.Min().AsInt() != 3 || y.Max().AsInt() != 7 {
		t.Fatalf("y bounds must otherwise stay, got [%v,%v]", y.Min(), y.Max())
	}

	s2 := newTestStore()
	a := fixedInt(s2, 4)
	b := fixedInt(s2, 4)
	s2.Post(NewNotEqual(a, b))
	if s2.Run() {
		t.Fatalf("4 != 4 must fail")
	}
}

// Running Prune twice in a row with no interleaving change leaves domains
// untouched the second time (universal invariant 4).
func TestCmpIdempotent(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 10)
	y := intVar(s, 3, 6)
	p := NewLessEq(x, y)
	s.Post(p)
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	xmin, xmax := x.Min(), x.Max()
	ymin, ymax := y.Min(), y.Max()
	if err := p.Prune(s); err != nil {
		t.Fatalf("re-prune errored: %v", err)
	}
	if !x.Min().Equal(xmin) || !x.Max().Equal(xmax) || !y.Min().Equal(ymin) || !y.Max().Equal(ymax) {
		t.Fatalf("second prune changed domains")
	}
}
