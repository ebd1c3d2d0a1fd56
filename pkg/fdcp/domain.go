package fdcp

// VarKind is the declared type of a variable (spec §3 "Variable kind").
// Boolean is modeled as an Integer variable pinned to {0,1} at creation.
type VarKind uint8

const (
	KindInteger VarKind = iota
	KindBoolean
	KindFloatVar
)

func (k VarKind) String() string {
	switch k {
	case KindBoolean:
		return "bool"
	case KindFloatVar:
		return "float"
	default:
		return "int"
	}
}

// Event classifies the kind of domain change a mutation produced, used by
// the propagation engine to decide which registered propagators to wake
// (spec §3 "Propagation queue", §4.F). A single mutation can raise more
// than one event (fixing a variable is also a bound change and, from the
// caller's point of view, a domain change).
type Event uint8

const (
	EventNone Event = 0
	// EventBound fires when min or max changed.
	EventBound Event = 1 << 0
	// EventDomain fires when an interior value was removed (bitset/sparse-set
	// only; interval stores never raise it since holes aren't representable).
	EventDomain Event = 1 << 1
	// EventFix fires when the domain became a singleton.
	EventFix Event = 1 << 2
)

// Has reports whether the event set e includes flag f.
func (e Event) Has(f Event) bool { return e&f != 0 }

// BitsetCapacity is the default threshold (spec §3 table: "≈ 64-128") above
// which an integer domain is represented as a sparse-set instead of a
// bitset. Call sites can override per domain via NewIntDomain.
const BitsetCapacity = 128

// IntervalFallbackSize is the size above which even a sparse-set is
// abandoned in favor of an interval store for integers whose constraints
// don't need hole representation (spec §4.B).
const IntervalFallbackSize = 1 << 20

// Domain is a mutable, trail-linked representation of a variable's
// remaining set of values. All three concrete shapes (bitset, sparse-set,
// interval) implement it uniformly so propagators and views never need to
// know which one backs a given variable.
//
// Every mutating method returns (events, ok): ok is false exactly when the
// operation would leave the domain empty (a propagation Fail, spec §3's
// "Invariants of every domain store"); events reports what changed so the
// caller can wake dependent propagators. A false ok always leaves the
// domain in the failed (empty) state, and the caller is responsible for
// treating the node as failed — the mutation is not rolled back by the
// domain itself; only Trail.Restore undoes it.
type Domain interface {
	Kind() VarKind
	IsEmpty() bool
	IsFixed() bool
	Size() int
	Min() Value
	Max() Value
	Contains(v Value) bool

	// SetMin raises the lower bound to v, removing every value < v.
	SetMin(v Value) (Event, bool)
	// SetMax lowers the upper bound to v, removing every value > v.
	SetMax(v Value) (Event, bool)
	// Fix assigns the domain to the singleton {v}; ok is false if v is not
	// currently a member.
	Fix(v Value) (Event, bool)
	// Remove deletes a single interior value. A no-op (ok=true, no event)
	// for interval stores unless v coincides with a current bound.
	Remove(v Value) (Event, bool)
}

// IterableDomain is implemented by domain shapes that can enumerate their
// members (bitset and sparse-set, not interval — spec §4.B: "holes are not
// represented" for intervals).
type IterableDomain interface {
	Domain
	ForEach(f func(Value) bool)
}

// NewIntDomain builds the appropriately-shaped integer domain store for the
// range [lo, hi], per the sizing table in spec §3: bitset for small ranges,
// sparse-set for larger-but-bounded ranges, interval once the range exceeds
// IntervalFallbackSize and hole tracking stops being worth the memory.
func NewIntDomain(t *Trail, lo, hi int64) Domain {
	span := hi - lo + 1
	switch {
	case span <= 0:
		return newEmptyInterval(t)
	case span <= BitsetCapacity:
		return newBitsetDomain(t, lo, hi)
	case span <= IntervalFallbackSize:
		return newSparseSetDomain(t, lo, hi)
	default:
		return newIntervalDomain(t, Int(lo), Int(hi))
	}
}

// NewIntDomainFromValues builds a bitset or sparse-set domain containing
// exactly the given values (spec §6 new_integer_from_set).
func NewIntDomainFromValues(t *Trail, values []int64) (Domain, error) {
	if len(values) == 0 {
		return nil, newError(ErrInvalidDomain, "empty explicit domain")
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo + 1
	if span <= BitsetCapacity {
		return newBitsetDomainFromValues(t, lo, hi, values), nil
	}
	return newSparseSetDomainFromValues(t, lo, hi, values), nil
}

// NewFloatDomain builds an interval domain for a float variable.
func NewFloatDomain(t *Trail, lo, hi float64) Domain {
	return newIntervalDomain(t, Float(lo), Float(hi))
}

// NewBoolDomain builds the {0,1} bitset domain for a boolean variable.
func NewBoolDomain(t *Trail) Domain {
	return newBitsetDomain(t, 0, 1)
}
