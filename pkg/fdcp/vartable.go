package fdcp

// VarId identifies a variable within a Store. Ids are assigned sequentially
// starting at 0 as variables are declared and are never reused (spec §3
// "Variable table").
type VarId int

// varEntry holds the per-variable bookkeeping the engine needs beyond the
// Domain itself: its declared kind, a human-readable name for diagnostics,
// and the list of propagators that must be woken when it changes.
type varEntry struct {
	name   string
	kind   VarKind
	domain Domain

	// watchers lists the indices into Store.props of every propagator that
	// registered an interest in this variable (spec §4.F "watched
	// variables"). A propagator may appear more than once if it watches the
	// variable under more than one event mask; each Watch call appends its
	// own entry, and WatchersFor checks each entry's mask against the event
	// an actual mutation raised.
	watchers []propWatch
}

type propWatch struct {
	propIdx int
	mask    Event
}

// VarTable is the append-only registry of a Store's variables. It exists as
// its own type (rather than folding into Store) because the search layer
// needs to snapshot variable domains for solution extraction without
// depending on propagator bookkeeping.
type VarTable struct {
	trail   *Trail
	entries []varEntry
}

func newVarTable(t *Trail) *VarTable {
	return &VarTable{trail: t}
}

// Declare registers a new variable with the given name, kind, and initial
// domain and returns its VarId.
func (vt *VarTable) Declare(name string, kind VarKind, d Domain) VarId {
	id := VarId(len(vt.entries))
	vt.entries = append(vt.entries, varEntry{name: name, kind: kind, domain: d})
	return id
}

// Count returns the number of declared variables.
func (vt *VarTable) Count() int { return len(vt.entries) }

// Valid reports whether id refers to a declared variable.
func (vt *VarTable) Valid(id VarId) bool { return id >= 0 && int(id) < len(vt.entries) }

// Domain returns the live Domain backing id. Callers must not retain the
// returned value across a Trail.Restore that could have swapped a domain's
// internal shape (it currently never does: shapes are fixed at declaration).
func (vt *VarTable) Domain(id VarId) Domain { return vt.entries[id].domain }

// Name returns the declared name of id, used only for diagnostics.
func (vt *VarTable) Name(id VarId) string { return vt.entries[id].name }

// Kind returns the declared VarKind of id.
func (vt *VarTable) Kind(id VarId) VarKind { return vt.entries[id].kind }

// Watch registers propIdx to be woken whenever id changes under any event in
// mask (spec §4.F: propagators subscribe to specific variable/event pairs at
// registration time rather than being re-scanned from scratch each fixpoint
// iteration).
func (vt *VarTable) Watch(id VarId, propIdx int, mask Event) {
	e := &vt.entries[id]
	e.watchers = append(e.watchers, propWatch{propIdx: propIdx, mask: mask})
}

// WatchersFor returns the propagator indices watching id under any of the
// bits set in ev, used by the propagation engine to build its wake list
// after a mutation.
func (vt *VarTable) WatchersFor(id VarId, ev Event, out []int) []int {
	for _, w := range vt.entries[id].watchers {
		if w.mask&ev != 0 {
			out = append(out, w.propIdx)
		}
	}
	return out
}

// AllFixed reports whether every declared variable currently has a singleton
// domain, i.e. the store describes a complete candidate solution.
func (vt *VarTable) AllFixed() bool {
	for i := range vt.entries {
		if !vt.entries[i].domain.IsFixed() {
			return false
		}
	}
	return true
}
