package fdcp

import "testing"

func newTestStore() *Store { return newStore(DefaultConfig()) }

func TestOffsetView(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, 0, 10))
	v := Offset(VarView(s, id), 5)

	if v.Min().AsInt() != 5 || v.Max().AsInt() != 15 {
		t.Fatalf("offset bounds [%v,%v]", v.Min(), v.Max())
	}
	if !v.Contains(Int(5)) || v.Contains(Int(4)) {
		t.Fatalf("offset containment wrong")
	}
	if _, ok := v.SetMin(Int(8)); !ok {
		t.Fatalf("SetMin failed")
	}
	if s.Domain(id).Min().AsInt() != 3 {
		t.Fatalf("write-through min: base=%v", s.Domain(id).Min())
	}
}

func TestScaleView(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, 1, 4))
	v := Scale(VarView(s, id), 3)

	if v.Min().AsInt() != 3 || v.Max().AsInt() != 12 {
		t.Fatalf("scale bounds [%v,%v]", v.Min(), v.Max())
	}
	if !v.Contains(Int(6)) || v.Contains(Int(7)) {
		t.Fatalf("scale containment must respect the residue")
	}
	// view <= 10 means base <= floor(10/3) = 3
	if _, ok := v.SetMax(Int(10)); !ok {
		t.Fatalf("SetMax failed")
	}
	if s.Domain(id).Max().AsInt() != 3 {
		t.Fatalf("write-through max: base=%v", s.Domain(id).Max())
	}
}

func TestNegateView(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, 2, 7))
	v := Negate(VarView(s, id))

	if v.Min().AsInt() != -7 || v.Max().AsInt() != -2 {
		t.Fatalf("negated bounds [%v,%v]", v.Min(), v.Max())
	}
	// view >= -5 means base <= 5
	if _, ok := v.SetMin(Int(-5)); !ok {
		t.Fatalf("SetMin failed")
	}
	if s.Domain(id).Max().AsInt() != 5 {
		t.Fatalf("write-through: base max=%v", s.Domain(id).Max())
	}
}

func TestViewCompose(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, 0, 10))
	v := Offset(Scale(VarView(s, id), 2), 1) // 2x+1
	if v.Min().AsInt() != 1 || v.Max().AsInt() != 21 {
		t.Fatalf("2x+1 bounds [%v,%v]", v.Min(), v.Max())
	}
	if _, ok := v.Fix(Int(7)); !ok {
		t.Fatalf("fix 2x+1=7 failed")
	}
	if s.Domain(id).Min().AsInt() != 3 || !s.Domain(id).IsFixed() {
		t.Fatalf("base should be fixed to 3")
	}
}

func TestViewFixUnreachable(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, 0, 10))
	v := Scale(VarView(s, id), 2)
	if _, ok := v.Fix(Int(7)); ok {
		t.Fatalf("fixing 2x=7 must fail")
	}
	if !s.Domain(id).IsEmpty() {
		t.Fatalf("base must be emptied by unreachable fix")
	}
}

// Float bounds written through an integer view must round to the feasible
// side: x >= 2.5 gives base >= 3, x <= 2.5 gives base <= 2. Combined with
// Next on the caller's side this yields the strict-inequality rule
// (x > 2.0 => x >= 3, x > 2.5 => x >= 3).
func TestViewFloatBoundRounding(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, -10, 10))
	v := VarView(s, id)

	if _, ok := v.SetMin(Float(2.5)); !ok {
		t.Fatalf("SetMin failed")
	}
	if s.Domain(id).Min().AsInt() != 3 {
		t.Fatalf("x >= 2.5 should give min 3, got %v", s.Domain(id).Min())
	}
	if _, ok := v.SetMax(Float(7.5)); !ok {
		t.Fatalf("SetMax failed")
	}
	if s.Domain(id).Max().AsInt() != 7 {
		t.Fatalf("x <= 7.5 should give max 7, got %v", s.Domain(id).Max())
	}

	// The historical bug: x > 2.0 propagated as x >= 4. The ULP-next of 2.0
	// must ceil to exactly 3.
	s2 := newTestStore()
	id2 := s2.Declare("y", KindInteger, NewIntDomain(s2.trail, 0, 10))
	v2 := VarView(s2, id2)
	if _, ok := v2.SetMin(Float(2.0).Next()); !ok {
		t.Fatalf("SetMin failed")
	}
	if s2.Domain(id2).Min().AsInt() != 3 {
		t.Fatalf("x > 2.0 should give min 3, got %v", s2.Domain(id2).Min())
	}
}

func TestViewFloatValueNotRepresentable(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, 0, 10))
	v := VarView(s, id)
	if v.Contains(Float(2.5)) {
		t.Fatalf("integer view cannot contain 2.5")
	}
	if ev, ok := v.Remove(Float(2.5)); !ok || ev != EventNone {
		t.Fatalf("removing an unrepresentable value must be a no-op")
	}
	if _, ok := v.Fix(Float(2.5)); ok {
		t.Fatalf("fixing an integer view to 2.5 must fail")
	}
}

func TestNextPrevView(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, 3, 8))
	nv := NextView(VarView(s, id))
	if nv.Min().AsInt() != 4 || nv.Max().AsInt() != 9 {
		t.Fatalf("next view bounds [%v,%v]", nv.Min(), nv.Max())
	}
	pv := PrevView(VarView(s, id))
	if pv.Min().AsInt() != 2 {
		t.Fatalf("prev view min %v", pv.Min())
	}
	if _, ok := nv.SetMax(Int(6)); !ok {
		t.Fatalf("SetMax through next view failed")
	}
	if s.Domain(id).Max().AsInt() != 5 {
		t.Fatalf("base max after next-view SetMax(6): %v", s.Domain(id).Max())
	}
}

func TestViewForEach(t *testing.T) {
	s := newTestStore()
	id := s.Declare("x", KindInteger, NewIntDomain(s.trail, 1, 3))
	v := Offset(VarView(s, id), 10)
	var got []int64
	if !v.ForEach(func(x Value) bool {
		got = append(got, x.AsInt())
		return true
	}) {
		t.Fatalf("bitset-backed view must be enumerable")
	}
	if len(got) != 3 || got[0] != 11 || got[2] != 13 {
		t.Fatalf("view values %v", got)
	}

	fid := s.Declare("f", KindFloatVar, NewFloatDomain(s.trail, 0, 1))
	if VarView(s, fid).ForEach(func(Value) bool { return true }) {
		t.Fatalf("interval view must report not enumerable")
	}
}
