package algorithms

import (
	"context"
	"time"

	"github.com/ssriram1992/epecsolve/solver"
)

// Status is the EPEC-level outcome of a strategy's Solve call, distinct
// from the backend's solver.Status (spec §7's error taxonomy).
type Status int

const (
	// NashEqFound: an equilibrium profile was found and verified.
	NashEqFound Status = iota
	// NashEqNotFound: the strategy completed without finding one.
	NashEqNotFound
	// InfeasibleRelaxed: some country's lower-level problem has no
	// feasible point at all; terminal.
	InfeasibleRelaxed
	// TimeLimit: the wall-clock budget was exhausted.
	TimeLimit
	// NumericalIssue: a solve succeeded but no new polyhedron could be
	// added from the deviation check; typically tolerance mismatches.
	NumericalIssue
	// SolverError: the backend returned an unexpected status.
	SolverError
)

// Kind selects which of the four strategies New dispatches to.
type Kind int

const (
	// FullEnumerationKind builds the complete convex-hull QP for every
	// country and solves the upper-level Nash game once.
	FullEnumerationKind Kind = iota
	// InnerApproximationKind iteratively samples and refines polyhedra.
	InnerApproximationKind
	// CombinatorialPNEKind exhaustively searches the Cartesian product of
	// per-country feasible polyhedra.
	CombinatorialPNEKind
	// OuterApproximationKind refines partial encodings via a branching
	// tree per country.
	OuterApproximationKind
)

// FullEnumeration, InnerApproximation, CombinatorialPNE, and
// OuterApproximation are exported aliases matching spec.md's naming.
const (
	FullEnumeration    = FullEnumerationKind
	InnerApproximation = InnerApproximationKind
	CombinatorialPNE   = CombinatorialPNEKind
	OuterApproximation = OuterApproximationKind
)

// Orchestrator is the narrow surface a strategy needs from its host EPEC.
// epec.EPEC implements this interface; algorithms never imports epec, so
// the "non-owning EPEC reference" spec.md describes is realized as this
// interface rather than a concrete type.
type Orchestrator interface {
	// CountryCount returns the number of countries.
	CountryCount() int

	// EnumerateCountry populates country i's inner approximation with
	// every polyhedron of its lower-level LCP.
	EnumerateCountry(ctx context.Context, i int) error

	// ResetCountryApprox clears country i's polyhedron set (inner or
	// outer, whichever is active) back to empty.
	ResetCountryApprox(i int) error

	// AddCountryPolyBatch adds up to batch new feasible polyhedra to
	// country i's inner approximation via its selection policy, returning
	// the count actually added.
	AddCountryPolyBatch(ctx context.Context, i int, batch int) (int, error)

	// AddCountryPolyFromDeviation encodes the deviation implied by
	// compositeX at country i and adds the corresponding polyhedron.
	AddCountryPolyFromDeviation(ctx context.Context, i int, compositeX []float64) error

	// CombinatorialCount returns the number of feasible polyhedra
	// currently enumerated for country i (the search width of
	// CombinatorialPNE's Cartesian product at that country).
	CombinatorialCount(i int) int

	// SolveLeafCombination assembles each country's QP from exactly the
	// polyhedron at indices[i] and solves the upper-level LCP once.
	SolveLeafCombination(ctx context.Context, indices []int) (solver.Status, []float64, error)

	// BranchCountryOnce advances country i's outer-approximation
	// branching tree by one decision, using compositeX (nil if no
	// candidate exists yet) to choose the branch location. Returns false
	// if no branching remains legal at country i's current frontier.
	BranchCountryOnce(ctx context.Context, i int, compositeX []float64) (bool, error)

	// MakePlayersQP converts every country's current polyhedral
	// approximation into its upper-level ParamQP.
	MakePlayersQP(ctx context.Context) error

	// SolveUpperLevelOnce builds the upper-level NashGame from the
	// countries' current ParamQPs and solves its LCP as an MIP.
	SolveUpperLevelOnce(ctx context.Context) (solver.Status, []float64, error)

	// IsSolved checks compositeX against every country's best response,
	// returning the first violating country (if any) and its deviation.
	IsSolved(compositeX []float64, tol float64) (bool, int, []float64, error)

	// Deadline returns the host's remaining wall-clock budget, if any.
	Deadline() (time.Time, bool)
}

// Strategy is the common contract for all four EPEC solution strategies.
type Strategy interface {
	// Solve runs the strategy to completion or until ctx/the host's
	// deadline expires.
	Solve(ctx context.Context) (Status, error)

	// IsSolved reports whether the strategy's last candidate profile is
	// an equilibrium within tol.
	IsSolved(tol float64) (bool, error)
}

// Options configures a strategy's search behavior.
type Options struct {
	// Aggressiveness is the inner approximation's per-iteration sampling
	// batch size. Default (zero) is treated as 1.
	Aggressiveness int
	// MaxIterations bounds the inner approximation's iteration count; the
	// other strategies do not read it. Zero means unlimited (bounded only
	// by the time budget).
	MaxIterations int
	// RequirePure is carried for callers; no strategy in this package
	// reads it, so an equilibrium is returned without checking whether it
	// is pure and no recovery path runs.
	RequirePure bool
	// ExcludeCombinations seeds CombinatorialPNE's exclusion list with
	// leaf index tuples already visited in a prior run.
	ExcludeCombinations [][]int
}

// New dispatches to the concrete strategy for kind, mirroring the
// teacher's tsp.SolveWithMatrix enum dispatcher.
func New(kind Kind, o Orchestrator, opts Options) (Strategy, error) {
	if opts.Aggressiveness <= 0 {
		opts.Aggressiveness = 1
	}

	switch kind {
	case FullEnumerationKind:
		return &fullEnumeration{o: o}, nil
	case InnerApproximationKind:
		return &innerApproximation{o: o, opts: opts}, nil
	case CombinatorialPNEKind:
		return &combinatorialPNE{o: o, excluded: excludeSet(opts.ExcludeCombinations)}, nil
	case OuterApproximationKind:
		return &outerApproximation{o: o}, nil
	default:
		return nil, ErrUnknownKind
	}
}

func deadlineExceeded(o Orchestrator) bool {
	dl, ok := o.Deadline()
	return ok && time.Now().After(dl)
}
