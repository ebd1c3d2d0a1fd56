package fdcp

// Propagator is the uniform interface every constraint filter implements
// (spec §4.F). Prune is called by the engine whenever one of the
// propagator's watched variables changed; it should remove values that can
// no longer participate in any solution and return ErrFail the moment it
// detects an empty domain. Prune must be idempotent: calling it again with
// no intervening domain change must be a no-op (spec's "Universal Invariant:
// propagator idempotence").
type Propagator interface {
	// Prune tightens domains given the current store state. It returns
	// ErrFail (via the package-level fail value) if a domain went empty.
	Prune(s *Store) error

	// Register subscribes this propagator to the variable/event pairs that
	// can affect its filtering, via s.Watch. Called once, at Post time.
	Register(s *Store, idx int)

	// Name identifies the propagator's constraint family for diagnostics and
	// for the observer's OnPropagate notification.
	Name() string
}

// fail is the sentinel path every propagator uses to report an empty
// domain; engine.go translates it into a fixpoint Failed result without
// ever constructing a user-visible SolveError (spec §7's distinction
// between propagation-local Fail and terminal errors).
var fail = ErrFail
