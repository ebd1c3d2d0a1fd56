package fdcp

import "time"

// VariableOrdering selects which unfixed variable search branches on next
// (spec §4.H, grounded on the teacher's labeling.go heuristics).
type VariableOrdering int

const (
	// OrderFirstFail picks the unfixed variable with the smallest domain.
	OrderFirstFail VariableOrdering = iota
	// OrderMostConstrained picks the variable with the highest propagator
	// degree (teacher's DegreeLabeling), breaking ties by domain size.
	OrderMostConstrained
	// OrderInputOrder picks variables in declaration order.
	OrderInputOrder
	// OrderHybrid combines domain size and degree: smallest domain/degree
	// ratio first (the classic "dom/wdeg"-style tie-break).
	OrderHybrid
)

// ValueOrdering selects which value of the chosen variable to try first.
type ValueOrdering int

const (
	// ValueMin tries the smallest remaining value first.
	ValueMin ValueOrdering = iota
	// ValueMax tries the largest remaining value first.
	ValueMax
	// ValueMedian tries the middle remaining value first.
	ValueMedian
)

// Config holds every tunable the orchestrator exposes (spec §6). Zero value
// is invalid; use DefaultConfig and override fields as needed.
type Config struct {
	VariableOrdering VariableOrdering
	ValueOrdering    ValueOrdering

	// Timeout bounds wall-clock search time; zero means unbounded.
	Timeout time.Duration

	// MemoryCapMB bounds the estimated memory footprint reported by the
	// monitor; zero means unbounded. Checked between search nodes, not
	// inside a single propagator call.
	MemoryCapMB int

	// FloatEpsilon is the divisor-safety tolerance and the interval-domain
	// float equality tolerance (spec §6 float_epsilon).
	FloatEpsilon float64

	// FloatPrecisionDigits sets the branching grid for float variables: the
	// search assigns float values on a uniform grid with step
	// 10^(-FloatPrecisionDigits). Propagation stays exact; the grid only
	// controls where branches land (spec §6 float_precision_digits, §9
	// "Float precision is a modeling grid, not a propagation relaxation").
	FloatPrecisionDigits int

	// EnableLPTightening turns on the LP-relaxation bound-tightening pass
	// described in spec §4.I. The pass runs once, before search; it is not
	// repeated at search nodes.
	EnableLPTightening bool

	// LPFeasibilityTol and LPPivotTol are the simplex tolerances (spec §6
	// lp_feasibility_tol / lp_pivot_tol).
	LPFeasibilityTol float64
	LPPivotTol       float64

	// LPWorkers bounds how many variable bound-tightening LP solves run
	// concurrently (spec's parallel-LP-presolve allowance). 0 or 1 means
	// sequential.
	LPWorkers int
}

// DefaultConfig returns the solver's default tuning: first-fail variable
// ordering, min-value ordering, no timeout, no memory cap, a conservative
// float epsilon, and LP tightening disabled (it has a cost and many models
// never need it).
func DefaultConfig() Config {
	return Config{
		VariableOrdering:     OrderFirstFail,
		ValueOrdering:        ValueMin,
		FloatEpsilon:         1e-10,
		FloatPrecisionDigits: 6,
		EnableLPTightening:   false,
		LPFeasibilityTol:     1e-7,
		LPPivotTol:           1e-9,
		LPWorkers:            1,
	}
}
