package fdcp

import (
	"math"
	"testing"
)

func TestValueArithmetic(t *testing.T) {
	sum, ok := Int(3).Add(Int(4))
	if !ok || sum.AsInt() != 7 {
		t.Fatalf("3+4: got %v ok=%v", sum, ok)
	}
	diff, ok := Int(3).Sub(Int(10))
	if !ok || diff.AsInt() != -7 {
		t.Fatalf("3-10: got %v ok=%v", diff, ok)
	}
	prod, ok := Int(-6).Mul(Int(7))
	if !ok || prod.AsInt() != -42 {
		t.Fatalf("-6*7: got %v ok=%v", prod, ok)
	}
}

func TestValuePromotion(t *testing.T) {
	v, ok := Int(2).Add(Float(0.5))
	if !ok || !v.IsFloat() || v.AsFloat() != 2.5 {
		t.Fatalf("int+float promotion: got %v", v)
	}
	if Int(2).Cmp(Float(2.0)) != 0 {
		t.Fatalf("2 and 2.0 should compare equal across the lattice")
	}
	if !Int(2).Less(Float(2.5)) {
		t.Fatalf("2 < 2.5 expected")
	}
}

func TestValueOverflow(t *testing.T) {
	if _, ok := Int(math.MaxInt64).Add(Int(1)); ok {
		t.Fatalf("MaxInt64+1 must report overflow")
	}
	if _, ok := Int(math.MinInt64).Sub(Int(1)); ok {
		t.Fatalf("MinInt64-1 must report overflow")
	}
	if _, ok := Int(math.MaxInt64).Mul(Int(2)); ok {
		t.Fatalf("MaxInt64*2 must report overflow")
	}
	if _, ok := Int(math.MinInt64).Div(Int(-1), 0); ok {
		t.Fatalf("MinInt64/-1 must report overflow")
	}
}

func TestValueSafeDivision(t *testing.T) {
	if _, ok := Int(10).Div(Int(0), 0); ok {
		t.Fatalf("int division by zero must fail")
	}
	if _, ok := Float(1.0).Div(Float(1e-12), 1e-10); ok {
		t.Fatalf("float division by near-zero (within epsilon) must fail")
	}
	q, ok := Float(1.0).Div(Float(0.5), 1e-10)
	if !ok || q.AsFloat() != 2.0 {
		t.Fatalf("1.0/0.5: got %v ok=%v", q, ok)
	}
	if _, ok := Int(10).Mod(Int(0), 0); ok {
		t.Fatalf("int modulo by zero must fail")
	}
	r, ok := Int(10).Mod(Int(3), 0)
	if !ok || r.AsInt() != 1 {
		t.Fatalf("10%%3: got %v ok=%v", r, ok)
	}
}

func TestValueNextPrevRoundTrip(t *testing.T) {
	for _, v := range []Value{Int(0), Int(-5), Int(1 << 40), Float(1.0), Float(-3.25), Float(5.5)} {
		if got := v.Next().Prev(); !got.Equal(v) {
			t.Errorf("prev(next(%v)) = %v", v, got)
		}
		if got := v.Prev().Next(); !got.Equal(v) {
			t.Errorf("next(prev(%v)) = %v", v, got)
		}
		if !v.Next().Greater(v) {
			t.Errorf("next(%v) not strictly greater", v)
		}
	}
}

func TestFloatNextIsULP(t *testing.T) {
	v := Float(1.0)
	n := v.Next()
	if n.AsFloat() != math.Nextafter(1.0, math.Inf(1)) {
		t.Fatalf("next(1.0) should be one ULP up, got %v", n)
	}
	if math.IsNaN(n.AsFloat()) {
		t.Fatalf("next produced NaN")
	}
}

// Strict integer bounds from float constants follow the rule: for integer x,
// x > c becomes x >= floor(c)+1 when c is integral, x >= ceil(c) otherwise.
func TestStrictGreaterRounding(t *testing.T) {
	cases := []struct {
		c    float64
		want int64
	}{
		{2.5, 3},
		{2.0, 3},
		{-2.5, -2},
		{-2.0, -1},
		{0.0, 1},
	}
	for _, tc := range cases {
		if got := CeilForStrictGreater(tc.c); got != tc.want {
			t.Errorf("x > %v: want x >= %d, got %d", tc.c, tc.want, got)
		}
	}
}

func TestStrictLessRounding(t *testing.T) {
	cases := []struct {
		c    float64
		want int64
	}{
		{2.5, 2},
		{3.0, 2},
		{-2.5, -3},
		{-2.0, -3},
	}
	for _, tc := range cases {
		if got := FloorForStrictLess(tc.c); got != tc.want {
			t.Errorf("x < %v: want x <= %d, got %d", tc.c, tc.want, got)
		}
	}
}

func TestValueAbsNeg(t *testing.T) {
	if Int(-4).Abs().AsInt() != 4 || Int(4).Abs().AsInt() != 4 {
		t.Fatalf("abs int wrong")
	}
	if Float(-1.5).Abs().AsFloat() != 1.5 {
		t.Fatalf("abs float wrong")
	}
	if Int(4).Neg().AsInt() != -4 {
		t.Fatalf("neg wrong")
	}
}
