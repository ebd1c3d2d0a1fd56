package fdcp

import "testing"

func TestAddPropagator(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 1, 4)
	y := intVar(s, 2, 5)
	z := intVar(s, -20, 20)
	s.Post(&AddPropagator{X: x, Y: y, Z: z})
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if z.Min().AsInt() != 3 || z.Max().AsInt() != 9 {
		t.Fatalf("z bounds [%v,%v], want [3,9]", z.Min(), z.Max())
	}

	// Reverse direction: fixing z drags x and y.
	if ev, ok := z.Fix(Int(3)); ok {
		s.wake(z.Base(), ev)
	} else {
		t.Fatalf("fix z failed")
	}
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if x.Min().AsInt() != 1 || x.Max().AsInt() != 1 || y.Min().AsInt() != 2 {
		t.Fatalf("reverse: x [%v,%v] y [%v,%v]", x.Min(), x.Max(), y.Min(), y.Max())
	}
}

func TestSubPropagator(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 5, 10)
	y := intVar(s, 1, 3)
	z := intVar(s, -20, 20)
	s.Post(NewSub(x, y, z))
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if z.Min().AsInt() != 2 || z.Max().AsInt() != 9 {
		t.Fatalf("z = x-y bounds [%v,%v], want [2,9]", z.Min(), z.Max())
	}
}

func TestMulPropagatorSigns(t *testing.T) {
	s := newTestStore()
	x := intVar(s, -2, 3)
	y := intVar(s, -4, 5)
	z := intVar(s, -100, 100)
	s.Post(&MulPropagator{X: x, Y: y, Z: z})
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	// corners: -2*-4=8, -2*5=-10, 3*-4=-12, 3*5=15
	if z.Min().AsInt() != -12 || z.Max().AsInt() != 15 {
		t.Fatalf("z bounds [%v,%v], want [-12,15]", z.Min(), z.Max())
	}
}

func TestMulReverseWithFixedFactor(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 100)
	y := fixedInt(s, 3)
	z := intVar(s, 6, 12)
	s.Post(&MulPropagator{X: x, Y: y, Z: z})
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if x.Min().AsInt() != 2 || x.Max().AsInt() != 4 {
		t.Fatalf("x bounds [%v,%v], want [2,4]", x.Min(), x.Max())
	}
}

// A divisor straddling zero suppresses propagation entirely rather than
// producing unsound bounds (spec §4.E "div, mod").
func TestDivStraddleZeroNoPruning(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 1, 10)
	y := intVar(s, -2, 2)
	z := intVar(s, -100, 100)
	s.Post(&DivPropagator{X: x, Y: y, Z: z, Epsilon: 1e-10})
	if !s.Run() {
		t.Fatalf("propagation must not fail")
	}
	if z.Min().AsInt() != -100 || z.Max().AsInt() != 100 {
		t.Fatalf("straddle-zero divisor must leave z alone, got [%v,%v]", z.Min(), z.Max())
	}
}

func TestDivForward(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 10, 20)
	y := fixedInt(s, 2)
	z := intVar(s, -100, 100)
	s.Post(&DivPropagator{X: x, Y: y, Z: z, Epsilon: 1e-10})
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if z.Min().AsInt() != 5 || z.Max().AsInt() != 10 {
		t.Fatalf("z bounds [%v,%v], want [5,10]", z.Min(), z.Max())
	}
}

func TestModForward(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 100)
	y := fixedInt(s, 5)
	z := intVar(s, -100, 100)
	s.Post(&ModPropagator{X: x, Y: y, Z: z, Epsilon: 1e-10})
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if z.Min().AsInt() != -4 || z.Max().AsInt() != 4 {
		t.Fatalf("z bounds [%v,%v], want [-4,4]", z.Min(), z.Max())
	}
}

func TestAbsPropagator(t *testing.T) {
	s := newTestStore()
	x := intVar(s, -3, 7)
	a := intVar(s, -100, 100)
	s.Post(&AbsPropagator{X: x, S: a})
	if !s.Run() {
		t.Fatalf("propagation failed")
	}
	if a.Min().AsInt() != 0 || a.Max().AsInt() != 7 {
		t.Fatalf("|x| bounds [%v,%v], want [0,7]", a.Min(), a.Max())
	}

	// Known-negative x applies the stronger equality s = -x.
	s2 := newTestStore()
	x2 := intVar(s2, -6, -2)
	a2 := intVar(s2, 0, 100)
	s2.Post(&AbsPropagator{X: x2, S: a2})
	if !s2.Run() {
		t.Fatalf("propagation failed")
	}
	if a2.Min().AsInt() != 2 || a2.Max().AsInt() != 6 {
		t.Fatalf("|x| for x in [-6,-2]: [%v,%v], want [2,6]", a2.Min(), a2.Max())
	}
}
