package fdcp

import (
	"context"
	"math"
	"time"
)

// Objective describes an optional branch-and-bound goal (spec §4.H
// "optimization search"): minimize or maximize the value read through view,
// tightening its bound after every improving solution so the remainder of
// the search tree only explores strictly better candidates.
type Objective struct {
	View     View
	Minimize bool
}

// searchLimits is consulted once per search node; a non-negative ErrorKind
// aborts the search immediately (timeout or memory cap).
type searchLimits struct {
	deadline    time.Time
	hasDeadline bool
	memCapMB    int
}

func newSearchLimits(cfg Config, start time.Time) searchLimits {
	l := searchLimits{memCapMB: cfg.MemoryCapMB}
	if cfg.Timeout > 0 {
		l.deadline = start.Add(cfg.Timeout)
		l.hasDeadline = true
	}
	return l
}

func (l searchLimits) exceeded(s *Store) ErrorKind {
	if l.hasDeadline && time.Now().After(l.deadline) {
		return ErrTimeout
	}
	if l.memCapMB > 0 && estimateMemoryMB(s) > l.memCapMB {
		return ErrMemoryLimit
	}
	return -1
}

// searcher runs depth-first labeling search with optional branch-and-bound
// against a single Store, using the trail to undo each branch (spec §4.H,
// the teacher's recursive-with-snapshot/undo search shape generalized from
// FDStore.snapshot/undo to Trail.Mark/Restore).
type searcher struct {
	store   *Store
	cfg     Config
	ctx     context.Context
	limits  searchLimits
	obj     *Objective
	bestObj Value
	haveObj bool
}

func newSearcher(ctx context.Context, s *Store, cfg Config, obj *Objective) *searcher {
	if ctx == nil {
		ctx = context.Background()
	}
	return &searcher{
		store:  s,
		cfg:    cfg,
		ctx:    ctx,
		limits: newSearchLimits(cfg, time.Now()),
		obj:    obj,
	}
}

// run explores the search tree below the store's current state, invoking
// onSolution for every complete, consistent assignment found. onSolution
// returns false to stop the search early (e.g. after the first solution).
// run returns the terminal ErrorKind, -1 if the subtree was exhausted, or
// -2 if onSolution stopped the search early.
func (se *searcher) run(depth int, onSolution func() bool) ErrorKind {
	select {
	case <-se.ctx.Done():
		return ErrTimeout
	default:
	}
	if kind := se.limits.exceeded(se.store); kind != -1 {
		return kind
	}
	se.store.monitor.NodesExplored.Add(1)
	se.store.monitor.recordDepth(depth)
	se.store.monitor.recordTrailSize(se.store.trail.Len())
	if se.store.observer != nil {
		se.store.observer.OnNode(depth)
	}

	// Branch-and-bound: the tightening constraint obj ⋈ best is logically
	// posted at the root once the first solution is found; re-applying it
	// as a bound at every node entry gives the same semantics under trail
	// undo (the mutation sits inside the parent's mark and is restored
	// with everything else).
	if se.obj != nil && se.haveObj && !se.applyObjectiveBound() {
		return -1
	}

	if !se.store.Run() {
		return -1 // local fail, not a search-level error; caller backtracks
	}

	id, found := selectVariable(se.store, se.cfg)
	if !found {
		// Complete assignment. Check it against the objective bound before
		// reporting it, so a branch-and-bound search never yields a
		// non-improving solution.
		if se.obj != nil {
			cur := se.obj.View.Min() // fixed, so Min==Max
			if se.haveObj && !se.improves(cur) {
				return -1
			}
			se.haveObj = true
			se.bestObj = cur
		}
		se.store.monitor.SolutionsFound.Add(1)
		if se.store.observer != nil {
			se.store.observer.OnSolution()
		}
		if !onSolution() {
			return -2 // sentinel: caller-requested stop, not an error
		}
		return -1
	}

	d := se.store.vars.Domain(id)
	for _, alt := range branchAlternatives(se.store, id, se.cfg) {
		mark := se.store.Mark()
		if ev, ok := alt(d); ok {
			se.store.wake(id, ev)
			if kind := se.run(depth+1, onSolution); kind != -1 {
				return kind
			}
		}
		se.store.monitor.Backtracks.Add(1)
		se.store.Restore(mark)
	}
	return -1
}

func (se *searcher) improves(cur Value) bool {
	if se.obj.Minimize {
		return cur.Less(se.bestObj)
	}
	return cur.Greater(se.bestObj)
}

// applyObjectiveBound excludes everything no better than the best solution
// found so far (obj < best for minimize, obj > best for maximize). The
// "strictly better" step is one integer for integer objectives and one
// precision-grid step for float objectives — the grid is the representable
// set search assigns from, so the next candidate worth exploring is a full
// step away, never a bare ULP. Returns false if the bound empties the
// objective's domain, i.e. nothing below this node can improve.
func (se *searcher) applyObjectiveBound() bool {
	var bound Value
	if se.bestObj.IsFloat() {
		step := math.Pow(10, -float64(se.cfg.FloatPrecisionDigits))
		if se.obj.Minimize {
			bound = Float(se.bestObj.AsFloat() - step)
		} else {
			bound = Float(se.bestObj.AsFloat() + step)
		}
	} else {
		if se.obj.Minimize {
			bound = se.bestObj.Prev()
		} else {
			bound = se.bestObj.Next()
		}
	}
	if se.obj.Minimize {
		ev, ok := se.obj.View.SetMax(bound)
		if !ok {
			return false
		}
		se.store.wake(se.obj.View.Base(), ev)
		return true
	}
	ev, ok := se.obj.View.SetMin(bound)
	if !ok {
		return false
	}
	se.store.wake(se.obj.View.Base(), ev)
	return true
}

// estimateMemoryMB gives a coarse estimate of the store's footprint for the
// Config.MemoryCapMB check: trail records plus one fixed-size slot per
// declared variable, in megabytes. This intentionally overapproximates
// rather than reflecting exact Go runtime heap usage, which propagators
// have no cheap way to measure per node.
func estimateMemoryMB(s *Store) int {
	bytesPerRecord := 64
	total := s.trail.Len() * bytesPerRecord
	total += s.vars.Count() * 128
	return total / (1024 * 1024)
}
