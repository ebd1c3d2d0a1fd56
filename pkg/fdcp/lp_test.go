package fdcp

import (
	"math"
	"testing"
)

func TestSolveLPOptimal(t *testing.T) {
	// maximize x+y subject to x+y <= 4, x <= 3, y <= 3, x,y >= 0
	A := [][]float64{{1, 1}, {1, 0}, {0, 1}}
	b := []float64{4, 3, 3}
	c := []float64{1, 1}
	res := solveLP(A, b, c, 100, lpTols{})
	if res.status != lpOptimal {
		t.Fatalf("status %v", res.status)
	}
	if math.Abs(res.obj-4) > 1e-6 {
		t.Fatalf("objective %v, want 4", res.obj)
	}
	if res.iters == 0 {
		t.Fatalf("iteration count not recorded")
	}
}

func TestSolveLPBinding(t *testing.T) {
	// maximize 3x+2y subject to x+y <= 4, x+3y <= 6: optimum at x=4, y=0 -> 12.
	A := [][]float64{{1, 1}, {1, 3}}
	b := []float64{4, 6}
	c := []float64{3, 2}
	res := solveLP(A, b, c, 100, lpTols{})
	if res.status != lpOptimal {
		t.Fatalf("status %v", res.status)
	}
	if math.Abs(res.obj-12) > 1e-6 {
		t.Fatalf("objective %v, want 12", res.obj)
	}
}

func TestSolveLPInfeasible(t *testing.T) {
	// x <= -1 with x >= 0 is infeasible.
	A := [][]float64{{1}}
	b := []float64{-1}
	c := []float64{0}
	res := solveLP(A, b, c, 100, lpTols{})
	if res.status != lpInfeasible {
		t.Fatalf("status %v, want infeasible", res.status)
	}
}

func TestSolveLPUnbounded(t *testing.T) {
	// maximize x with no constraining rows.
	res := solveLP(nil, nil, []float64{1}, 100, lpTols{})
	if res.status != lpUnbounded {
		t.Fatalf("status %v, want unbounded", res.status)
	}
}

func TestExtractLPFoldsViews(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 10)
	// (x+2) <= 8 posted through an offset view: coefficient stays on x,
	// the offset moves to the right-hand side.
	s.Post(NewLinear([]View{Offset(x, 2)}, []int64{1}, LinearLE, 8))
	p := extractLP(s)
	if len(p.rows) != 1 || len(p.cols) != 1 {
		t.Fatalf("rows=%d cols=%d", len(p.rows), len(p.cols))
	}
	row := p.rows[0]
	if row.coef[x.Base()] != 1 {
		t.Fatalf("coefficient %v", row.coef[x.Base()])
	}
	if row.rhs != 6 {
		t.Fatalf("rhs %v, want 6 (8 minus folded offset 2)", row.rhs)
	}
}

func TestExtractLPSkipsDisequality(t *testing.T) {
	s := newTestStore()
	x := intVar(s, 0, 10)
	s.Post(NewLinear([]View{x}, []int64{1}, LinearNE, 5))
	p := extractLP(s)
	if len(p.rows) != 0 {
		t.Fatalf("disequalities must not reach the LP, got %d rows", len(p.rows))
	}
}

func TestTightenWithLPBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableLPTightening = true
	o := NewOrchestrator(cfg)
	x, _ := o.NewInteger(0, 10)
	y, _ := o.NewInteger(0, 10)
	// 2x + 3y <= 6: LP min/max per variable gives x <= 3, y <= 2.
	o.Post(NewLinear([]View{o.Var(x), o.Var(y)}, []int64{2, 3}, LinearLE, 6))

	if err := tightenWithLP(o.store, cfg); err != nil {
		t.Fatalf("tighten failed: %v", err)
	}
	if o.store.Domain(x).Max().AsInt() != 3 {
		t.Fatalf("x max %v, want 3", o.store.Domain(x).Max())
	}
	if o.store.Domain(y).Max().AsInt() != 2 {
		t.Fatalf("y max %v, want 2", o.store.Domain(y).Max())
	}
	st := o.Stats()
	if !st.LPUsed || st.LPIterations == 0 || st.LPConstraintCount == 0 {
		t.Fatalf("LP statistics not recorded: %+v", st)
	}
}

func TestTightenWithLPInfeasible(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableLPTightening = true
	o := NewOrchestrator(cfg)
	x, _ := o.NewInteger(0, 10)
	// x <= 3 and x >= 5 as two LP-visible inequalities.
	o.Post(NewLinear([]View{o.Var(x)}, []int64{1}, LinearLE, 3))
	o.Post(NewLinear([]View{o.Var(x)}, []int64{-1}, LinearLE, -5))

	err := tightenWithLP(o.store, cfg)
	if err == nil {
		t.Fatalf("contradictory linear fragment must be infeasible")
	}
	se, ok := err.(*SolveError)
	if !ok || se.Kind != ErrNoSolution {
		t.Fatalf("want NoSolution, got %v", err)
	}
}

func TestTightenWithLPParallelWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableLPTightening = true
	cfg.LPWorkers = 4
	o := NewOrchestrator(cfg)
	var vars []View
	for i := 0; i < 6; i++ {
		id, _ := o.NewInteger(0, 100)
		vars = append(vars, o.Var(id))
	}
	coefs := []int64{1, 1, 1, 1, 1, 1}
	o.Post(NewLinear(vars, coefs, LinearLE, 30))
	if err := tightenWithLP(o.store, cfg); err != nil {
		t.Fatalf("tighten failed: %v", err)
	}
	for i, v := range vars {
		if v.Max().AsInt() != 30 {
			t.Fatalf("var %d max %v, want 30", i, v.Max())
		}
	}
}
