package fdcp

import (
	"math"
	"sync"

	"github.com/gokando-cp/fdcp/internal/workpool"
)

// maxLPTighteningRounds bounds the "loop of re-solves" bound-tightening
// fallback (spec §4.I "Bound feedback to CP ... Repeated until no bound
// improves (or a small iteration cap is hit)").
const maxLPTighteningRounds = 5

// tightenWithLP runs the spec §4.H step 3 LP preprocessing pass: extract
// the linear fragment, check base feasibility, then for every variable
// appearing in it solve "minimize x" and "maximize x" and tighten the CP
// domain by the result (respecting integrality: ceil the min, floor the
// max). Solves for distinct variables in one round are independent of each
// other, so they run across workpool.Pool when cfg.LPWorkers > 1 (the one
// sanctioned parallelism point in this engine, spec §5).
func tightenWithLP(s *Store, cfg Config) error {
	tols := lpTols{pivot: cfg.LPPivotTol, feas: cfg.LPFeasibilityTol}
	for round := 0; round < maxLPTighteningRounds; round++ {
		problem := extractLP(s)
		if len(problem.cols) == 0 {
			return nil
		}
		s.monitor.LPConstraints.Store(int64(len(problem.rows)))

		base, baseRHS, shift, upper := shiftedRows(s, problem)
		full := fullA(base, upper)
		rhs := boundsRHS(baseRHS, upper)

		// Base feasibility: maximize 0 subject to the extracted rows; an
		// infeasible result here means the linear fragment alone already
		// has no solution (spec §4.I "Infeasibility propagation").
		zeroC := make([]float64, len(problem.cols))
		res := solveLP(full, rhs, zeroC, 2000, tols)
		s.monitor.LPSolves.Add(1)
		s.monitor.LPIterations.Add(int64(res.iters))
		if res.status == lpInfeasible {
			return &SolveError{Kind: ErrNoSolution, ActiveConstraints: len(s.props), ActiveVariables: s.vars.Count()}
		}

		improved := false
		var mu sync.Mutex
		pool := workpool.New(cfg.LPWorkers)
		pool.Map(len(problem.cols), func(j int) {
			id := problem.cols[j]
			lo, hi, ok := boundLPVar(s.monitor, base, baseRHS, shift, upper, problem, j, tols)
			if !ok {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if tightenDomainFromLP(s, id, lo, hi) {
				improved = true
			}
		})
		if !s.Run() {
			return &SolveError{Kind: ErrNoSolution, ActiveConstraints: len(s.props), ActiveVariables: s.vars.Count()}
		}
		if !improved {
			return nil
		}
	}
	return nil
}

// shiftedRows returns the structural row coefficient matrix and matching
// RHS (in shifted, nonnegative variable space, with every equality row
// split into the two opposite-sign inequality rows the Big-M tableau
// expects — spec §4.I "Equalities are split into two inequalities"),
// the per-column shift (original lower bound), and the per-column width
// (upper-lower) needed to add explicit upper-bound rows.
func shiftedRows(s *Store, p *lpProblem) (rows [][]float64, rhs []float64, shift, width []float64) {
	n := len(p.cols)
	shift = make([]float64, n)
	width = make([]float64, n)
	for j, id := range p.cols {
		d := s.vars.Domain(id)
		lo, hi := d.Min().AsFloat(), d.Max().AsFloat()
		shift[j] = lo
		width[j] = hi - lo
	}

	addRow := func(r lpRow, sign float64) {
		row := make([]float64, n)
		c := 0.0
		for id, coef := range r.coef {
			j := p.colOf[id]
			row[j] = sign * coef
			c += sign * coef * shift[j]
		}
		rows = append(rows, row)
		rhs = append(rhs, sign*r.rhs-c)
	}
	for _, r := range p.rows {
		switch r.rel {
		case LinearLE:
			addRow(r, 1)
		case LinearEQ:
			addRow(r, 1)
			addRow(r, -1)
		}
	}
	return rows, rhs, shift, width
}

// boundsRHS appends one upper-bound row (the shifted variable's width) per
// column to the structural RHS already computed by shiftedRows.
func boundsRHS(structRHS []float64, width []float64) []float64 {
	rhs := make([]float64, len(structRHS)+len(width))
	copy(rhs, structRHS)
	for j := range width {
		rhs[len(structRHS)+j] = width[j]
	}
	return rhs
}

func fullA(rows [][]float64, width []float64) [][]float64 {
	n := len(width)
	full := make([][]float64, len(rows)+n)
	copy(full, rows)
	for j := 0; j < n; j++ {
		row := make([]float64, n)
		row[j] = 1
		full[len(rows)+j] = row
	}
	return full
}

// boundLPVar solves minimize/maximize x_j over the shifted LP and returns
// the resulting bounds in original (unshifted) variable space.
func boundLPVar(m *Monitor, rows [][]float64, structRHS, shift, width []float64, p *lpProblem, j int, tols lpTols) (lo, hi float64, ok bool) {
	n := len(p.cols)
	full := fullA(rows, width)
	rhs := boundsRHS(structRHS, width)

	cMax := make([]float64, n)
	cMax[j] = 1
	resMax := solveLP(full, rhs, cMax, 2000, tols)
	m.LPSolves.Add(1)
	m.LPIterations.Add(int64(resMax.iters))
	if resMax.status != lpOptimal {
		return 0, 0, false
	}

	cMin := make([]float64, n)
	cMin[j] = -1
	resMin := solveLP(full, rhs, cMin, 2000, tols)
	m.LPSolves.Add(1)
	m.LPIterations.Add(int64(resMin.iters))
	if resMin.status != lpOptimal {
		return 0, 0, false
	}

	hi = shift[j] + resMax.x[j]
	lo = shift[j] - resMin.obj // maximize(-x) = -min(x), so min(x) = -obj
	return lo, hi, true
}

// tightenDomainFromLP applies LP-derived bounds to id's CP domain if they
// are strictly tighter, rounding for integrality (spec §4.I "Bound
// feedback to CP"). Returns true if either bound was actually tightened.
func tightenDomainFromLP(s *Store, id VarId, lo, hi float64) bool {
	d := s.vars.Domain(id)
	changed := false
	isInt := s.vars.Kind(id) != KindFloatVar

	var lv, uv Value
	if isInt {
		lv, uv = Int(int64(math.Ceil(lo-1e-9))), Int(int64(math.Floor(hi+1e-9)))
	} else {
		lv, uv = Float(lo), Float(hi)
	}

	if lv.Greater(d.Min()) {
		if ev, ok := d.SetMin(lv); ok {
			s.wake(id, ev)
			changed = true
		}
	}
	if uv.Less(d.Max()) {
		if ev, ok := d.SetMax(uv); ok {
			s.wake(id, ev)
			changed = true
		}
	}
	return changed
}
