package fdcp

import (
	"context"
	"time"
)

// Orchestrator is the engine-side half of the model-building interface
// (spec §6): it owns a Store and sequences validation, LP tightening,
// initial propagation, and search (spec §4.H). The public modeling façade
// (operator overloading, macros) and the FlatZinc front-end are external
// collaborators that call into exactly this surface.
type Orchestrator struct {
	store *Store
	cfg   Config
	obj   *Objective
}

// NewOrchestrator creates an Orchestrator with the given configuration.
func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{store: newStore(cfg), cfg: cfg}
}

// NewInteger declares an integer variable with domain [lo, hi].
func (o *Orchestrator) NewInteger(lo, hi int64) (VarId, error) {
	if hi < lo {
		return 0, newError(ErrInvalidDomain, "empty integer domain")
	}
	d := NewIntDomain(o.store.trail, lo, hi)
	return o.store.Declare("", KindInteger, d), nil
}

// NewIntegerFromSet declares an integer variable whose domain is exactly
// the given explicit set of values.
func (o *Orchestrator) NewIntegerFromSet(values []int64) (VarId, error) {
	d, err := NewIntDomainFromValues(o.store.trail, values)
	if err != nil {
		return 0, err
	}
	return o.store.Declare("", KindInteger, d), nil
}

// NewFloat declares a float variable with domain [lo, hi]. The interval's
// equality tolerance follows the configured FloatEpsilon.
func (o *Orchestrator) NewFloat(lo, hi float64) (VarId, error) {
	if hi < lo {
		return 0, newError(ErrInvalidDomain, "empty float domain")
	}
	d := NewFloatDomain(o.store.trail, lo, hi)
	if o.cfg.FloatEpsilon > 0 {
		d.(*intervalDomain).SetEpsilon(o.cfg.FloatEpsilon)
	}
	return o.store.Declare("", KindFloatVar, d), nil
}

// NewBoolean declares a boolean variable pinned to {0,1}.
func (o *Orchestrator) NewBoolean() (VarId, error) {
	d := NewBoolDomain(o.store.trail)
	return o.store.Declare("", KindBoolean, d), nil
}

// Named variants additionally tag the variable with a name usable later
// via Solution.ValueOf.
func (o *Orchestrator) NewNamedInteger(name string, lo, hi int64) (VarId, error) {
	id, err := o.NewInteger(lo, hi)
	if err == nil {
		o.store.vars.entries[id].name = name
	}
	return id, err
}

// Var returns a read/write view over id, for building propagator
// arguments. Panics if id is out of range, matching the teacher's
// convention that VarId misuse is a programmer error caught by the
// InvalidVariable validation path at Post time, not a recoverable runtime
// condition once past that point.
func (o *Orchestrator) Var(id VarId) View {
	if !o.store.vars.Valid(id) {
		panic("fdcp: invalid VarId")
	}
	return VarView(o.store, id)
}

// Valid reports whether id refers to a declared variable, for callers that
// want to check before calling Var.
func (o *Orchestrator) Valid(id VarId) bool { return o.store.vars.Valid(id) }

// Post registers a propagator against the store.
func (o *Orchestrator) Post(p Propagator) {
	o.store.Post(p)
}

// SetObjective marks id as the optimization objective; minimize selects the
// direction. An unknown id is reported as InvalidVariable.
func (o *Orchestrator) SetObjective(id VarId, minimize bool) error {
	if !o.store.vars.Valid(id) {
		return &SolveError{Kind: ErrInvalidVariable, VarID: id, Message: "objective references unknown variable"}
	}
	o.obj = &Objective{View: VarView(o.store, id), Minimize: minimize}
	return nil
}

// Configure replaces the orchestrator's configuration. Must be called
// before Solve/Enumerate; it does not retroactively affect propagators
// that captured a tolerance at construction time (DivPropagator and
// ModPropagator take their Epsilon as a field).
func (o *Orchestrator) Configure(cfg Config) {
	o.cfg = cfg
	o.store.config = cfg
}

// SetObserver installs a telemetry hook called on every propagator
// execution, search node, and recorded solution. Pass nil to remove it.
func (o *Orchestrator) SetObserver(obs StatsObserver) { o.store.observer = obs }

// Stats returns a snapshot of the orchestrator's current solve statistics,
// including the per-kind variable counts and memory estimate the monitor's
// counters alone don't carry.
func (o *Orchestrator) Stats() Stats {
	st := o.store.monitor.Snapshot()
	st.VariableCount = o.store.vars.Count()
	for i := 0; i < st.VariableCount; i++ {
		switch o.store.vars.Kind(VarId(i)) {
		case KindBoolean:
			st.BoolVarCount++
		case KindFloatVar:
			st.FloatVarCount++
		default:
			st.IntVarCount++
		}
	}
	st.PeakMemoryMB = estimateMemoryMB(o.store)
	return st
}

// validate checks the spec §4.H step 1 preconditions: every declared
// variable has a non-empty domain. Propagator-level InvalidConstraint
// checks (coefficient/variable length mismatches) are the responsibility
// of each constructor, which is expected to be called with matching
// slices; constructors taking mismatched slices are a programmer error
// the constructor functions do not defend against, matching the spec's
// framing of InvalidConstraint as a validation-time, not prune-time,
// concern for the façade layer above this one.
func (o *Orchestrator) validate() error {
	for i := 0; i < o.store.vars.Count(); i++ {
		if o.store.vars.Domain(VarId(i)).IsEmpty() {
			return &SolveError{Kind: ErrInvalidDomain, VarID: VarId(i), Message: "empty domain at validation"}
		}
	}
	// Detect the directly-contradictory case the spec calls out for
	// ConflictingConstraints: two equality constraints pinning the same
	// variable to different constants (the "other side" already being a
	// singleton at validation time).
	pinned := map[VarId]Value{}
	for _, prop := range o.store.props {
		cmp, ok := prop.(*CmpPropagator)
		if !ok || cmp.Op != cmpEQ {
			continue
		}
		var v View
		var c Value
		switch {
		case cmp.Y.IsFixed() && !cmp.X.IsFixed():
			v, c = cmp.X, cmp.Y.Min()
		case cmp.X.IsFixed() && !cmp.Y.IsFixed():
			v, c = cmp.Y, cmp.X.Min()
		default:
			continue
		}
		if prev, ok := pinned[v.Base()]; ok && !prev.Equal(c) {
			return &SolveError{
				Kind:    ErrConflictingConstraints,
				VarID:   v.Base(),
				Message: "variable pinned to two different constants",
			}
		}
		pinned[v.Base()] = c
	}
	return nil
}

// Solve runs the full orchestration sequence (spec §4.H) and returns the
// first solution found, or an optimum if an objective was set.
func (o *Orchestrator) Solve(ctx context.Context) (Solution, Stats, error) {
	if err := o.prepareAndPropagate(); err != nil {
		return Solution{}, o.Stats(), err
	}

	o.store.monitor.startSearch()
	defer o.store.monitor.stopSearch()

	se := newSearcher(ctx, o.store, o.cfg, o.obj)
	var best *Solution
	var bestObj Value
	kind := se.run(0, func() bool {
		sol := captureSolution(o.store)
		best = &sol
		if o.obj != nil {
			bestObj = o.obj.View.Min()
		}
		return o.obj != nil // keep searching only when optimizing
	})

	finalStats := func() Stats {
		st := o.Stats()
		if o.obj != nil && best != nil {
			st.HasObjective = true
			st.ObjectiveValue = bestObj
		}
		return st
	}

	switch {
	case kind == -1 || kind == -2:
		if best != nil {
			return *best, finalStats(), nil
		}
		return Solution{}, o.Stats(), &SolveError{
			Kind:              ErrNoSolution,
			ActiveConstraints: len(o.store.props),
			ActiveVariables:   o.store.vars.Count(),
		}
	default:
		if best != nil {
			return *best, finalStats(), nil
		}
		return Solution{}, o.Stats(), &SolveError{Kind: ErrorKind(kind), Elapsed: o.Stats().SearchTime.String()}
	}
}

// Enumerate runs search to completion, invoking onSolution for every
// solution found; onSolution returning false stops the search early.
func (o *Orchestrator) Enumerate(ctx context.Context, onSolution func(Solution) bool) (Stats, error) {
	if err := o.prepareAndPropagate(); err != nil {
		return o.Stats(), err
	}
	o.store.monitor.startSearch()
	defer o.store.monitor.stopSearch()

	se := newSearcher(ctx, o.store, o.cfg, nil)
	kind := se.run(0, func() bool {
		return onSolution(captureSolution(o.store))
	})
	if kind >= 0 {
		return o.Stats(), &SolveError{Kind: ErrorKind(kind)}
	}
	return o.Stats(), nil
}

func (o *Orchestrator) prepareAndPropagate() error {
	start := time.Now()
	defer func() {
		o.store.monitor.initDur.Store(int64(time.Since(start)))
	}()
	if err := o.validate(); err != nil {
		return err
	}
	if o.cfg.EnableLPTightening {
		if err := tightenWithLP(o.store, o.cfg); err != nil {
			return err
		}
	}
	if !o.store.Run() {
		return &SolveError{
			Kind:              ErrNoSolution,
			ActiveConstraints: len(o.store.props),
			ActiveVariables:   o.store.vars.Count(),
		}
	}
	return nil
}
