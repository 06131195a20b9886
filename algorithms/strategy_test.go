// Package algorithms_test validates the strategy dispatcher and the
// four strategies' control flow against a scripted fake Orchestrator.
package algorithms_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ssriram1992/epecsolve/algorithms"
	"github.com/ssriram1992/epecsolve/solver"
)

// fakeOrchestrator scripts a world of `countries` countries whose
// upper-level and leaf solves succeed from attempt `solveOnAttempt` on.
type fakeOrchestrator struct {
	countries      int
	combinatorial  []int
	solveOnAttempt int
	attempts       int
	isSolved       bool
}

func (f *fakeOrchestrator) CountryCount() int { return f.countries }

func (f *fakeOrchestrator) EnumerateCountry(ctx context.Context, i int) error { return nil }

func (f *fakeOrchestrator) ResetCountryApprox(i int) error { return nil }

func (f *fakeOrchestrator) AddCountryPolyBatch(ctx context.Context, i, batch int) (int, error) {
	return batch, nil
}

func (f *fakeOrchestrator) AddCountryPolyFromDeviation(ctx context.Context, i int, x []float64) error {
	return nil
}

func (f *fakeOrchestrator) CombinatorialCount(i int) int {
	if i < len(f.combinatorial) {
		return f.combinatorial[i]
	}
	return 1
}

func (f *fakeOrchestrator) SolveLeafCombination(ctx context.Context, indices []int) (solver.Status, []float64, error) {
	f.attempts++
	if f.attempts >= f.solveOnAttempt {
		return solver.StatusOptimal, []float64{1, 2}, nil
	}
	return solver.StatusInfeasible, nil, nil
}

func (f *fakeOrchestrator) BranchCountryOnce(ctx context.Context, i int, x []float64) (bool, error) {
	f.attempts++
	return f.attempts <= 1, nil
}

func (f *fakeOrchestrator) MakePlayersQP(ctx context.Context) error { return nil }

func (f *fakeOrchestrator) SolveUpperLevelOnce(ctx context.Context) (solver.Status, []float64, error) {
	f.attempts++
	if f.attempts >= f.solveOnAttempt {
		return solver.StatusOptimal, []float64{1, 2}, nil
	}
	return solver.StatusInfeasible, nil, nil
}

func (f *fakeOrchestrator) IsSolved(x []float64, tol float64) (bool, int, []float64, error) {
	return f.isSolved, 0, []float64{0.1}, nil
}

func (f *fakeOrchestrator) Deadline() (time.Time, bool) { return time.Time{}, false }

func TestNew_RejectsUnknownKind(t *testing.T) {
	_, err := algorithms.New(algorithms.Kind(99), &fakeOrchestrator{}, algorithms.Options{})
	require.ErrorIs(t, err, algorithms.ErrUnknownKind)
}

func TestFullEnumeration_SolvesImmediately(t *testing.T) {
	f := &fakeOrchestrator{countries: 1, solveOnAttempt: 1, isSolved: true}
	strat, err := algorithms.New(algorithms.FullEnumeration, f, algorithms.Options{})
	require.NoError(t, err)

	status, err := strat.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, algorithms.NashEqFound, status)

	ok, err := strat.IsSolved(1e-6)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInnerApproximation_SolvesAfterFailedUpperLevelAttempt(t *testing.T) {
	f := &fakeOrchestrator{countries: 1, solveOnAttempt: 2, isSolved: true}
	strat, err := algorithms.New(algorithms.InnerApproximation, f, algorithms.Options{Aggressiveness: 1})
	require.NoError(t, err)

	status, err := strat.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, algorithms.NashEqFound, status)
}

func TestCombinatorialPNE_FindsFeasibleLeaf(t *testing.T) {
	f := &fakeOrchestrator{countries: 2, combinatorial: []int{2, 2}, solveOnAttempt: 3}
	strat, err := algorithms.New(algorithms.CombinatorialPNE, f, algorithms.Options{})
	require.NoError(t, err)

	status, err := strat.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, algorithms.NashEqFound, status)
}

func TestCombinatorialPNE_EmptyCountryIsInfeasibleRelaxed(t *testing.T) {
	f := &fakeOrchestrator{countries: 1, combinatorial: []int{0}}
	strat, err := algorithms.New(algorithms.CombinatorialPNE, f, algorithms.Options{})
	require.NoError(t, err)

	status, err := strat.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, algorithms.InfeasibleRelaxed, status)
}

func TestOuterApproximation_StopsWhenNoBranchingRemains(t *testing.T) {
	f := &fakeOrchestrator{countries: 1, solveOnAttempt: 1000}
	strat, err := algorithms.New(algorithms.OuterApproximation, f, algorithms.Options{})
	require.NoError(t, err)

	status, err := strat.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, algorithms.NashEqNotFound, status)
}

func TestIsSolved_NoCandidateYet(t *testing.T) {
	f := &fakeOrchestrator{countries: 1}
	strat, err := algorithms.New(algorithms.FullEnumeration, f, algorithms.Options{})
	require.NoError(t, err)

	_, err = strat.IsSolved(1e-6)
	require.ErrorIs(t, err, algorithms.ErrNoCandidate)
}
