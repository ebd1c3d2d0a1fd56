package fdcp

// AllDifferentPropagator enforces GAC (generalized arc consistency) for
// pairwise distinctness across a set of views, via Hopcroft–Karp maximum
// bipartite matching (variables vs. values) followed by a Dulmage–Mendelsohn
// style decomposition of the matching's residual digraph (spec §4.E
// "AllDifferent (GAC)"). Every value not reachable as a valid partner for a
// variable — not on an alternating cycle with it and not reachable from a
// free value node — is removed from that variable's domain. This is a
// strictly stronger filter than the teacher's per-value re-matching probe
// (fd_regin.go), which only tests feasibility one value at a time; here the
// whole residual graph is decomposed once per call.
type AllDifferentPropagator struct {
	Vars []View
}

func (p *AllDifferentPropagator) Name() string { return "all_different" }

// Priority places the matching pass after cheap bound propagation has
// settled (spec §4.E: "prioritized lower than simple comparisons").
func (p *AllDifferentPropagator) Priority() int { return 2 }

func (p *AllDifferentPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventDomain | EventFix
	for _, v := range p.Vars {
		s.Watch(v.Base(), idx, mask)
	}
}

// bipartiteGraph is the variable/value adjacency built fresh on every Prune
// call from the live domains. Values are compacted to a dense index range
// so matching and SCC arrays stay small even over a wide variable range.
type bipartiteGraph struct {
	adj   [][]int // adj[varIdx] = list of valueIdx currently in that var's domain
	valOf []int64 // valueIdx -> actual Value
	// skip marks variables whose interval domain is too wide to enumerate;
	// they sit out the matching instead of failing it (filtering the rest
	// remains a sound necessary condition).
	skip  []bool
	nVars int
	nVals int
}

func buildBipartite(vars []View) bipartiteGraph {
	seen := map[int64]int{}
	var valOf []int64
	adj := make([][]int, len(vars))
	skip := make([]bool, len(vars))
	for i, v := range vars {
		var row []int
		if v.ForEach(func(x Value) bool {
			key := x.AsInt()
			idx, ok := seen[key]
			if !ok {
				idx = len(valOf)
				seen[key] = idx
				valOf = append(valOf, key)
			}
			row = append(row, idx)
			return true
		}) {
			adj[i] = row
			continue
		}
		// interval domain: enumerate only if small enough to be practical;
		// otherwise AllDifferent on huge float/interval domains is not
		// filtered beyond what other propagators already provide.
		lo, hi := v.Min().AsInt(), v.Max().AsInt()
		if hi-lo > 4096 {
			skip[i] = true
			continue
		}
		for x := lo; x <= hi; x++ {
			idx, ok := seen[x]
			if !ok {
				idx = len(valOf)
				seen[x] = idx
				valOf = append(valOf, x)
			}
			row = append(row, idx)
		}
		adj[i] = row
	}
	return bipartiteGraph{adj: adj, valOf: valOf, skip: skip, nVars: len(vars), nVals: len(valOf)}
}

// hopcroftKarp computes a maximum matching between the variable side and
// the value side of g, returning matchVar[i] = matched value index (or -1)
// and matchVal[j] = matched variable index (or -1).
func hopcroftKarp(g bipartiteGraph) (matchVar, matchVal []int) {
	matchVar = make([]int, g.nVars)
	matchVal = make([]int, g.nVals)
	for i := range matchVar {
		matchVar[i] = -1
	}
	for j := range matchVal {
		matchVal[j] = -1
	}

	dist := make([]int, g.nVars)
	const inf = 1 << 30

	bfs := func() bool {
		queue := make([]int, 0, g.nVars)
		for i := 0; i < g.nVars; i++ {
			if matchVar[i] == -1 {
				dist[i] = 0
				queue = append(queue, i)
			} else {
				dist[i] = inf
			}
		}
		found := false
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			for _, v := range g.adj[u] {
				w := matchVal[v]
				if w == -1 {
					found = true
					continue
				}
				if dist[w] == inf {
					dist[w] = dist[u] + 1
					queue = append(queue, w)
				}
			}
		}
		return found
	}

	var dfs func(u int) bool
	dfs = func(u int) bool {
		for _, v := range g.adj[u] {
			w := matchVal[v]
			if w == -1 || (dist[w] == dist[u]+1 && dfs(w)) {
				matchVar[u] = v
				matchVal[v] = u
				return true
			}
		}
		dist[u] = inf
		return false
	}

	for bfs() {
		for i := 0; i < g.nVars; i++ {
			if matchVar[i] == -1 {
				dfs(i)
			}
		}
	}
	return matchVar, matchVal
}

// sccResidual computes strongly connected components of the directed
// residual graph derived from the matching (matched edges value->var,
// unmatched edges var->value), plus the set of nodes lying on an
// alternating path starting at a free (unmatched) value node. In this
// orientation such a path runs AGAINST the edge direction (the path's first
// unmatched edge points into the free value), so the marking walks reversed
// edges from the free value nodes. Node ids: [0, nVars) are variable nodes,
// [nVars, nVars+nVals) are value nodes (offset by nVars).
func sccResidual(g bipartiteGraph, matchVar, matchVal []int) (comp []int, reachableFromFree []bool) {
	n := g.nVars + g.nVals
	adjOut := make([][]int, n)
	for i := 0; i < g.nVars; i++ {
		for _, j := range g.adj[i] {
			vn := g.nVars + j
			if matchVar[i] == j {
				adjOut[vn] = append(adjOut[vn], i)
			} else {
				adjOut[i] = append(adjOut[i], vn)
			}
		}
	}

	comp = make([]int, n)
	for i := range comp {
		comp[i] = -1
	}
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	nextIndex := 0
	nextComp := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = nextIndex
		low[v] = nextIndex
		nextIndex++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adjOut[v] {
			if index[w] == -1 {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp[w] = nextComp
				if w == v {
					break
				}
			}
			nextComp++
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}

	adjIn := make([][]int, n)
	for u := 0; u < n; u++ {
		for _, w := range adjOut[u] {
			adjIn[w] = append(adjIn[w], u)
		}
	}
	reachableFromFree = make([]bool, n)
	var queue []int
	for j := 0; j < g.nVals; j++ {
		if matchVal[j] == -1 {
			vn := g.nVars + j
			reachableFromFree[vn] = true
			queue = append(queue, vn)
		}
	}
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, w := range adjIn[u] {
			if !reachableFromFree[w] {
				reachableFromFree[w] = true
				queue = append(queue, w)
			}
		}
	}
	return comp, reachableFromFree
}

func (p *AllDifferentPropagator) Prune(s *Store) error {
	g := buildBipartite(p.Vars)
	matchVar, matchVal := hopcroftKarp(g)
	for i := range matchVar {
		if g.skip[i] {
			continue
		}
		// Unmatched with a live domain means no system of distinct values
		// exists; unmatched with an empty adjacency means the domain itself
		// already emptied — both are failures here.
		if matchVar[i] == -1 {
			return fail
		}
	}

	comp, reachFree := sccResidual(g, matchVar, matchVal)

	for i, v := range p.Vars {
		for _, j := range g.adj[i] {
			if matchVar[i] == j {
				continue
			}
			vn := g.nVars + j
			if comp[i] == comp[vn] || reachFree[vn] {
				continue
			}
			val := Int(g.valOf[j])
			if ev, ok := v.Remove(val); !ok {
				return fail
			} else if ev != EventNone {
				s.wake(v.Base(), ev)
			}
		}
	}
	return nil
}

// NewAllDifferent returns a propagator enforcing pairwise distinctness
// across vars.
func NewAllDifferent(vars []View) *AllDifferentPropagator {
	return &AllDifferentPropagator{Vars: vars}
}
