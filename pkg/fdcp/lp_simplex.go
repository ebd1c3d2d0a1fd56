package fdcp

import "gonum.org/v1/gonum/mat"

// lpStatus enumerates the simplex outcome kinds named in spec §4.I
// "Outputs": `{Optimal, x, basis}`, `{Infeasible}`, `{Unbounded}`,
// `{IterationLimit}`.
type lpStatus int

const (
	lpOptimal lpStatus = iota
	lpInfeasible
	lpUnbounded
	lpIterationLimit
)

// lpResult is the outcome of one simplex solve: for lpOptimal, x holds the
// value of every original (shifted, nonnegative) structural variable.
type lpResult struct {
	status lpStatus
	x      []float64
	obj    float64
	iters  int
}

// lpTols carries the configurable simplex tolerances (spec §4.I "Numerical
// tolerances"). Zero values fall back to the standard defaults.
type lpTols struct {
	pivot float64
	feas  float64
}

func (t lpTols) orDefaults() lpTols {
	if t.pivot == 0 {
		t.pivot = 1e-9
	}
	if t.feas == 0 {
		t.feas = 1e-7
	}
	return t
}

// bigM is the penalty coefficient applied to artificial variables; large
// enough relative to typical CP/LP coefficient magnitudes in this solver's
// intended problem sizes (bound-tightening over domains already filtered
// by CP) without risking float overflow in the tableau arithmetic.
const bigM = 1e7

// solveLP maximizes c·x subject to A x <= b (rows may have negative b,
// normalized internally to >= form with a surplus+artificial pair) and
// x >= 0, using a dense Big-M simplex tableau backed by gonum's mat.Dense
// (spec §4.I "Primal simplex (cold solve)": here specialized to the
// bound-tightening use this engine makes of it — a tableau-based Big-M
// method rather than a fully LU-refactorized revised simplex, since every
// call re-solves from the current domain bounds rather than needing true
// incremental warm starts; spec §4.I explicitly sanctions "a loop of
// re-solves ... as the fallback" when sensitivity analysis isn't
// attempted). Bland's smallest-index rule breaks ties to avoid cycling on
// degenerate problems (spec §4.I).
func solveLP(A [][]float64, b []float64, c []float64, maxIter int, tols lpTols) lpResult {
	tols = tols.orDefaults()
	n := len(c)
	m := len(b)

	// Normalize every row to have b >= 0.
	rows := make([][]float64, m)
	rhs := make([]float64, m)
	needsArtificial := make([]bool, m)
	for i := 0; i < m; i++ {
		row := make([]float64, n)
		copy(row, A[i])
		r := b[i]
		if r < 0 {
			for j := range row {
				row[j] = -row[j]
			}
			r = -r
			needsArtificial[i] = true
		}
		rows[i] = row
		rhs[i] = r
	}

	// One slack (<= rows) or surplus (>= rows, post-normalization) column per
	// row, plus an artificial column per >= row to seed a feasible basis.
	nSlack := m
	nArt := 0
	for i := 0; i < m; i++ {
		if needsArtificial[i] {
			nArt++
		}
	}
	total := n + nSlack + nArt

	tab := mat.NewDense(m+1, total+1, nil)
	basis := make([]int, m)
	artCol := n + nSlack
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			tab.Set(i, j, rows[i][j])
		}
		tab.Set(i, total, rhs[i])
		if needsArtificial[i] {
			tab.Set(i, n+i, -1) // surplus
			tab.Set(i, artCol, 1)
			basis[i] = artCol
			artCol++
		} else {
			tab.Set(i, n+i, 1) // slack
			basis[i] = n + i
		}
	}

	// Objective row: maximize c·x - M*Σartificials  =>  stored as
	// (z_j - c_j) so a negative entry indicates an improving column.
	for j := 0; j < n; j++ {
		tab.Set(m, j, -c[j])
	}
	for j := n + nSlack; j < total; j++ {
		tab.Set(m, j, bigM)
	}
	// Zero out the reduced cost of every basic artificial variable so the
	// bigM penalty is reflected through the structural columns instead
	// (standard Big-M setup: basic columns must carry reduced cost 0).
	for i := 0; i < m; i++ {
		if basis[i] >= n+nSlack {
			addScaledRow(tab, m, i, -bigM, total)
		}
	}

	iter := 0
	optimal := false
	for iter < maxIter {
		iter++
		// Choose entering column: most negative objective-row entry,
		// Bland's rule breaking ties toward the smallest index to prevent
		// cycling.
		enter := -1
		best := -tols.pivot
		for j := 0; j < total; j++ {
			v := tab.At(m, j)
			if v < best {
				best = v
				enter = j
			}
		}
		if enter == -1 {
			optimal = true
			break
		}

		leave := -1
		bestRatio := 0.0
		first := true
		for i := 0; i < m; i++ {
			a := tab.At(i, enter)
			if a <= tols.pivot {
				continue
			}
			ratio := tab.At(i, total) / a
			if first || ratio < bestRatio-tols.pivot || (ratio < bestRatio+tols.pivot && basis[i] < basis[leave]) {
				bestRatio, leave, first = ratio, i, false
			}
		}
		if leave == -1 {
			return lpResult{status: lpUnbounded, iters: iter}
		}

		pivot := tab.At(leave, enter)
		for j := 0; j <= total; j++ {
			tab.Set(leave, j, tab.At(leave, j)/pivot)
		}
		for i := 0; i <= m; i++ {
			if i == leave {
				continue
			}
			factor := tab.At(i, enter)
			if factor == 0 {
				continue
			}
			addScaledRow(tab, i, leave, -factor, total)
		}
		basis[leave] = enter
	}
	if !optimal {
		return lpResult{status: lpIterationLimit, iters: iter}
	}

	// Any artificial variable left in the basis with positive value means
	// infeasibility.
	for i := 0; i < m; i++ {
		if basis[i] >= n+nSlack && tab.At(i, total) > tols.feas {
			return lpResult{status: lpInfeasible, iters: iter}
		}
	}

	x := make([]float64, n)
	for i := 0; i < m; i++ {
		if basis[i] < n {
			x[basis[i]] = tab.At(i, total)
		}
	}
	obj := 0.0
	for j := 0; j < n; j++ {
		obj += c[j] * x[j]
	}
	return lpResult{status: lpOptimal, x: x, obj: obj, iters: iter}
}

// addScaledRow adds factor*tab[src] to tab[dst] across columns [0,total].
func addScaledRow(tab *mat.Dense, dst, src int, factor float64, total int) {
	for j := 0; j <= total; j++ {
		tab.Set(dst, j, tab.At(dst, j)+factor*tab.At(src, j))
	}
}
