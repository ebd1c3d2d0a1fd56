package fdcp

import (
	"context"
	"testing"
	"time"
)

func TestMonitorNilSafe(t *testing.T) {
	var m *Monitor
	m.startSearch()
	m.stopSearch()
	m.recordDepth(3)
	m.recordTrailSize(5)
	if st := m.Snapshot(); st.NodesExplored != 0 {
		t.Fatalf("nil monitor snapshot must be zero")
	}
}

func TestMonitorSnapshot(t *testing.T) {
	m := newMonitor()
	m.NodesExplored.Add(3)
	m.recordDepth(2)
	m.recordDepth(1)
	st := m.Snapshot()
	if st.NodesExplored != 3 || st.MaxDepth != 2 {
		t.Fatalf("snapshot %+v", st)
	}
	if st.String() == "" {
		t.Fatalf("stats must format")
	}
}

func TestObserverReceivesEvents(t *testing.T) {
	o := NewOrchestrator(DefaultConfig())
	x, _ := o.NewInteger(1, 3)
	y, _ := o.NewInteger(1, 3)
	o.Post(NewNotEqual(o.Var(x), o.Var(y)))

	props, nodes, sols := 0, 0, 0
	o.SetObserver(&funcObserver{
		onPropagate: func(string) { props++ },
		onNode:      func(int) { nodes++ },
		onSolution:  func() { sols++ },
	})
	if _, _, err := o.Solve(context.Background()); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if props == 0 || nodes == 0 || sols != 1 {
		t.Fatalf("observer counts: props=%d nodes=%d sols=%d", props, nodes, sols)
	}
}

func TestEstimateMemoryCoarse(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 10; i++ {
		s.Declare("", KindInteger, NewIntDomain(s.trail, 0, 9))
	}
	if estimateMemoryMB(s) != 0 {
		t.Fatalf("tiny store must estimate under a megabyte")
	}
}

func TestMemoryLimitSurfaces(t *testing.T) {
	// Force the estimator over the cap by pre-filling the trail, then check
	// the search-level limit reports MemoryLimit.
	cfg := DefaultConfig()
	cfg.MemoryCapMB = 1
	s := newStore(cfg)
	s.Declare("", KindInteger, NewIntDomain(s.trail, 0, 9))
	for i := 0; i < 40000; i++ {
		s.trail.Push(func() {})
	}
	limits := newSearchLimits(cfg, time.Now())
	if kind := limits.exceeded(s); kind != ErrMemoryLimit {
		t.Fatalf("want MemoryLimit, got %v", kind)
	}
}
