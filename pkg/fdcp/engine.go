package fdcp

// numPriorities bounds the priority classes the queue distinguishes. Lower
// classes run first (spec §4.F: cheap bound-only propagators before
// expensive GAC passes). Propagators pick a class via the Prioritized
// interface; everything else defaults to class 0.
const numPriorities = 3

// Prioritized is optionally implemented by propagators whose Prune is
// expensive enough that it should run after cheaper filtering has settled
// (all-different's matching pass, table reduction). Priority must be in
// [0, numPriorities) and constant for the propagator's lifetime.
type Prioritized interface {
	Priority() int
}

// StatsObserver receives live solver telemetry without touching the Stats
// counters: one callback per propagator execution, per search node, and per
// recorded solution. Implementations must be cheap; they run inline on the
// solving goroutine.
type StatsObserver interface {
	OnPropagate(name string)
	OnNode(depth int)
	OnSolution()
}

// Store is the central mutable solver state: the variable table, the trail
// backing backtracking, the registered propagators, and the propagation
// queue that drives the fixpoint loop (spec §4.G). A Store is built once by
// an Orchestrator and then mutated in place for the life of a solve; search
// branches by marking and restoring the trail rather than cloning the
// Store.
type Store struct {
	trail *Trail
	vars  *VarTable

	props []Propagator

	// queues holds, per priority class, the indices of propagators pending
	// a Prune call, FIFO within a class; inQueue deduplicates so a
	// propagator woken twice before it runs is only queued once. prio
	// caches each propagator's class, and entailed marks propagators that
	// proved their constraint and are skipped until the trail unwinds the
	// mark (spec §4.F "entailment check ... permanently deactivated" —
	// permanent within the subtree, undone on backtrack like any other
	// search-local state).
	queues   [numPriorities][]int
	inQueue  []bool
	prio     []uint8
	entailed []bool

	monitor  *Monitor
	observer StatsObserver
	config   Config

	failed bool
}

func newStore(cfg Config) *Store {
	t := NewTrail()
	return &Store{
		trail:   t,
		vars:    newVarTable(t),
		monitor: newMonitor(),
		config:  cfg,
	}
}

// Declare registers a new variable and returns its id.
func (s *Store) Declare(name string, kind VarKind, d Domain) VarId {
	return s.vars.Declare(name, kind, d)
}

// Post registers a propagator: assigns it an index, lets it subscribe to
// the variables it watches, and schedules an initial Prune so it filters
// against the domains as they stood at registration time.
func (s *Store) Post(p Propagator) {
	idx := len(s.props)
	s.props = append(s.props, p)
	s.inQueue = append(s.inQueue, false)
	s.entailed = append(s.entailed, false)
	pr := 0
	if pp, ok := p.(Prioritized); ok {
		pr = pp.Priority()
		if pr < 0 || pr >= numPriorities {
			pr = numPriorities - 1
		}
	}
	s.prio = append(s.prio, uint8(pr))
	p.Register(s, idx)
	s.enqueue(idx)
	s.monitor.ConstraintsAdded.Add(1)
}

// Watch is called by a Propagator's Register to subscribe to a variable
// under an event mask.
func (s *Store) Watch(id VarId, propIdx int, mask Event) {
	s.vars.Watch(id, propIdx, mask)
}

func (s *Store) enqueue(idx int) {
	if s.inQueue[idx] || s.entailed[idx] {
		return
	}
	s.inQueue[idx] = true
	s.queues[s.prio[idx]] = append(s.queues[s.prio[idx]], idx)
	total := 0
	for i := range s.queues {
		total += len(s.queues[i])
	}
	if int64(total) > s.monitor.PeakQueueSize.Load() {
		s.monitor.PeakQueueSize.Store(int64(total))
	}
}

// wake enqueues every propagator watching id for any bit in ev. Domain
// mutation call sites (views, direct Fix/SetMin/SetMax/Remove on behalf of
// search) must call wake immediately after a successful mutation so the
// fixpoint loop sees it.
func (s *Store) wake(id VarId, ev Event) {
	if ev == EventNone {
		return
	}
	var buf [8]int
	out := s.vars.WatchersFor(id, ev, buf[:0])
	for _, idx := range out {
		s.enqueue(idx)
	}
}

// Entail marks the propagator at idx entailed: it is skipped by the queue
// until the trail unwinds past this point. The flag is trail-linked so a
// propagator entailed inside a branch becomes live again when that branch
// is undone — entailment under narrowed domains does not hold under the
// wider domains an ancestor node restores.
func (s *Store) Entail(idx int) {
	if s.entailed[idx] {
		return
	}
	s.entailed[idx] = true
	s.trail.Push(func() { s.entailed[idx] = false })
}

// TrailFlag pushes unset as an undo record and then calls set, so
// backtracking past this point runs unset. Propagators use it for any
// search-local activation state beyond the plain entailed bit (e.g. which
// side of a reification is live).
func (s *Store) TrailFlag(set func(), unset func()) {
	s.trail.Push(unset)
	set()
}

// Fail marks the store failed for the remainder of the current fixpoint
// run; Run observes this and stops early rather than calling further
// propagators against inconsistent state.
func (s *Store) Fail() { s.failed = true }

// dequeue pops the next pending propagator index in (priority ascending,
// FIFO within priority) order, or -1 if every class is drained.
func (s *Store) dequeue() int {
	for pr := 0; pr < numPriorities; pr++ {
		q := s.queues[pr]
		if len(q) == 0 {
			continue
		}
		idx := q[0]
		s.queues[pr] = q[1:]
		s.inQueue[idx] = false
		return idx
	}
	return -1
}

func (s *Store) clearQueues() {
	for pr := range s.queues {
		s.queues[pr] = s.queues[pr][:0]
	}
	for i := range s.inQueue {
		s.inQueue[i] = false
	}
}

// Run drains the propagation queue until it is empty (a fixpoint) or a
// propagator signals failure. It returns false if the store failed.
//
// Invariant: Run is always called from a state where the queue may be
// non-empty; it must leave the queues empty and s.failed accurate on
// return.
func (s *Store) Run() bool {
	s.failed = false
	for {
		idx := s.dequeue()
		if idx == -1 {
			return true
		}
		if s.entailed[idx] {
			continue
		}
		start := s.monitor.now()
		err := s.props[idx].Prune(s)
		s.monitor.PropagationTime.Add(s.monitor.since(start))
		s.monitor.PropagationCount.Add(1)
		if s.observer != nil {
			s.observer.OnPropagate(s.props[idx].Name())
		}
		if err != nil {
			s.failed = true
			s.clearQueues()
			return false
		}
	}
}

// Domain returns the Domain backing id, for propagators and views.
func (s *Store) Domain(id VarId) Domain { return s.vars.Domain(id) }

// Mark returns a trail checkpoint for the search layer.
func (s *Store) Mark() int { return s.trail.Mark() }

// Restore rewinds the trail (and any queued-but-not-yet-run propagator
// state) to mark. The queue itself is not part of the trail: a branch that
// fails never leaves stale queue entries behind because Run always drains
// or clears the queue before returning.
func (s *Store) Restore(mark int) {
	s.trail.Restore(mark)
	s.failed = false
}
