package solver

import (
	"context"
	"io"
)

// VarKind distinguishes continuous from binary decision variables.
type VarKind int

const (
	// Continuous variables take any value in [lb, ub].
	Continuous VarKind = iota
	// Binary variables are restricted to {0, 1}; lb/ub are ignored.
	Binary
)

// Sense selects minimization or maximization for an objective.
type Sense int

const (
	// Minimize is the default objective sense for every QP/LCP in this module.
	Minimize Sense = iota
	// Maximize is provided for completeness; unused by the core algorithms.
	Maximize
)

// ConstraintSense selects the relational operator of a linear constraint.
type ConstraintSense int

const (
	// LE denotes coeffs·x <= rhs.
	LE ConstraintSense = iota
	// EQ denotes coeffs·x == rhs.
	EQ
	// GE denotes coeffs·x >= rhs.
	GE
)

// Status is the outcome reported by Model.Optimize, mirroring spec §6.3's
// consumed status codes.
type Status int

const (
	// StatusOptimal: the backend certified global optimality.
	StatusOptimal Status = iota
	// StatusSuboptimal: a feasible, not-certified-optimal solution was returned.
	StatusSuboptimal
	// StatusSolutionLimit: search stopped after a configured solution-count cap.
	StatusSolutionLimit
	// StatusInfeasible: the backend proved no feasible point exists.
	StatusInfeasible
	// StatusInfeasibleOrUnbounded: the backend could not distinguish the two.
	StatusInfeasibleOrUnbounded
	// StatusTimeLimit: the configured time budget was exhausted.
	StatusTimeLimit
)

// Succeeded reports whether status represents a usable solution (spec §6.3:
// OPTIMAL, SUBOPTIMAL, and SOLUTION_LIMIT are all "success-y").
func (s Status) Succeeded() bool {
	return s == StatusOptimal || s == StatusSuboptimal || s == StatusSolutionLimit
}

// VarRef identifies a variable within one Model. It is opaque to callers
// beyond equality comparison; backends are free to use any representation
// (here, a dense index).
type VarRef int

// Backend constructs fresh, independent optimization models. A single
// Backend instance is shared by every LCP, ParamQP, and algorithm strategy
// in a process (spec §5: "a single backend solver environment is held by
// the EPEC").
type Backend interface {
	// NewModel allocates a new, empty model. name is used only for
	// diagnostics (WriteLP headers, log fields).
	NewModel(name string) (Model, error)
}

// Model is one optimization problem instance: variables, objective,
// constraints, and the ability to solve and retrieve results.
type Model interface {
	// AddVar declares a new decision variable and returns its reference.
	// For Binary variables lb/ub are ignored (fixed to [0, 1]).
	AddVar(lb, ub float64, kind VarKind, name string) (VarRef, error)

	// SetLinearObjective replaces the model's linear objective coefficients.
	SetLinearObjective(coeffs map[VarRef]float64, sense Sense) error

	// SetQuadraticObjective adds a quadratic term sum(q[i,j]*x_i*x_j) to the
	// current objective. An empty/nil map clears any quadratic term.
	SetQuadraticObjective(q map[[2]VarRef]float64) error

	// AddLinearConstraint adds coeffs·x <sense> rhs. name is used only for
	// diagnostics.
	AddLinearConstraint(coeffs map[VarRef]float64, sense ConstraintSense, rhs float64, name string) error

	// AddIndicatorConstraint adds the clause (indicator == indicatorValue) =>
	// (coeffs·x <sense> rhs). indicator must be a Binary variable.
	AddIndicatorConstraint(indicator VarRef, indicatorValue bool, coeffs map[VarRef]float64, sense ConstraintSense, rhs float64) error

	// SetParam sets a solver tuning knob (e.g. "IntFeasTol", "MIPGap",
	// "Threads", "TimeLimit"). Unknown names are accepted and ignored by the
	// reference backend but recorded for WriteLP diagnostics.
	SetParam(name string, value float64) error

	// Optimize runs the solve, honoring ctx's deadline/cancellation as the
	// engine's time-limit budget (spec §5).
	Optimize(ctx context.Context) (Status, error)

	// VarValue returns the solution value of v after a successful Optimize.
	VarValue(v VarRef) (float64, error)

	// ObjectiveValue returns the objective value after a successful Optimize.
	ObjectiveValue() (float64, error)

	// Clone returns an independent deep copy of the model and its current
	// solve state (spec §6.3: "model cloning").
	Clone() (Model, error)

	// WriteLP writes a textual .lp-style description for debugging.
	WriteLP(w io.Writer) error

	// WriteSolution writes a textual .sol-style solution dump for debugging.
	// Returns ErrNoSolution if Optimize has not yet succeeded.
	WriteSolution(w io.Writer) error
}
