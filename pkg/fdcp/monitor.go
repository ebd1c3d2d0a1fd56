package fdcp

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Monitor accumulates search and propagation statistics with atomic
// counters so it can be read concurrently with a running solve (spec §4.K,
// grounded on the teacher's SolverStats/SolverMonitor pattern). All methods
// are safe to call on a nil *Monitor, matching the teacher's nil-receiver
// convention for optional instrumentation.
type Monitor struct {
	NodesExplored    atomic.Int64
	Backtracks       atomic.Int64
	SolutionsFound   atomic.Int64
	PropagationCount atomic.Int64
	PropagationTime  atomic.Int64 // nanoseconds
	ConstraintsAdded atomic.Int64
	PeakTrailSize    atomic.Int64
	PeakQueueSize    atomic.Int64
	MaxDepth         atomic.Int64

	// LP sub-statistics (spec §6: lp_used, lp_iterations,
	// lp_constraint_count), bumped by the bound-tightening pass.
	LPSolves      atomic.Int64
	LPIterations  atomic.Int64
	LPConstraints atomic.Int64

	startedAt time.Time
	initDur   atomic.Int64 // nanoseconds, validation+LP+initial propagation
	searchDur atomic.Int64 // nanoseconds, set once search ends
}

func newMonitor() *Monitor {
	return &Monitor{startedAt: time.Time{}}
}

func (m *Monitor) now() time.Time {
	if m == nil {
		return time.Time{}
	}
	return time.Now()
}

func (m *Monitor) since(t time.Time) int64 {
	if m == nil || t.IsZero() {
		return 0
	}
	return int64(time.Since(t))
}

func (m *Monitor) startSearch() {
	if m == nil {
		return
	}
	m.startedAt = time.Now()
}

func (m *Monitor) stopSearch() {
	if m == nil || m.startedAt.IsZero() {
		return
	}
	m.searchDur.Store(int64(time.Since(m.startedAt)))
}

func (m *Monitor) recordDepth(d int) {
	if m == nil {
		return
	}
	for {
		cur := m.MaxDepth.Load()
		if int64(d) <= cur || m.MaxDepth.CompareAndSwap(cur, int64(d)) {
			return
		}
	}
}

func (m *Monitor) recordTrailSize(n int) {
	if m == nil {
		return
	}
	for {
		cur := m.PeakTrailSize.Load()
		if int64(n) <= cur || m.PeakTrailSize.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

// Stats is an immutable snapshot of a Monitor, returned to callers alongside
// a Solution so they aren't holding references into a live, concurrently
// updated solve (spec §4.K). Counter fields come from the Monitor; variable
// counts, init time, memory, and objective fields are filled in by the
// orchestrator at snapshot time.
type Stats struct {
	NodesExplored    int64
	Backtracks       int64
	SolutionsFound   int64
	PropagationCount int64
	PropagationTime  time.Duration
	ConstraintsAdded int64
	PeakTrailSize    int64
	PeakQueueSize    int64
	MaxDepth         int64
	InitTime         time.Duration
	SearchTime       time.Duration

	VariableCount int
	IntVarCount   int
	BoolVarCount  int
	FloatVarCount int

	PeakMemoryMB int

	// ObjectiveValue is meaningful only when HasObjective is true and a
	// solution was found.
	HasObjective   bool
	ObjectiveValue Value

	LPUsed            bool
	LPIterations      int64
	LPConstraintCount int64
}

// Snapshot copies the current counter values into a Stats value.
func (m *Monitor) Snapshot() Stats {
	if m == nil {
		return Stats{}
	}
	dur := time.Duration(m.searchDur.Load())
	if dur == 0 && !m.startedAt.IsZero() {
		dur = time.Since(m.startedAt)
	}
	return Stats{
		NodesExplored:     m.NodesExplored.Load(),
		Backtracks:        m.Backtracks.Load(),
		SolutionsFound:    m.SolutionsFound.Load(),
		PropagationCount:  m.PropagationCount.Load(),
		PropagationTime:   time.Duration(m.PropagationTime.Load()),
		ConstraintsAdded:  m.ConstraintsAdded.Load(),
		PeakTrailSize:     m.PeakTrailSize.Load(),
		PeakQueueSize:     m.PeakQueueSize.Load(),
		MaxDepth:          m.MaxDepth.Load(),
		InitTime:          time.Duration(m.initDur.Load()),
		SearchTime:        dur,
		LPUsed:            m.LPSolves.Load() > 0,
		LPIterations:      m.LPIterations.Load(),
		LPConstraintCount: m.LPConstraints.Load(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"nodes=%d backtracks=%d solutions=%d propagations=%d (%s) constraints=%d peak_trail=%d peak_queue=%d max_depth=%d search_time=%s",
		s.NodesExplored, s.Backtracks, s.SolutionsFound, s.PropagationCount,
		s.PropagationTime, s.ConstraintsAdded, s.PeakTrailSize, s.PeakQueueSize,
		s.MaxDepth, s.SearchTime)
}
