package milp

import (
	"math"

	"github.com/ssriram1992/epecsolve/solver"
)

// lpRow is one linear constraint over the shifted, nonnegative variable
// space used internally by solveLP.
type lpRow struct {
	coeffs []float64
	sense  solver.ConstraintSense
	rhs    float64
}

// bigMPenalty is the artificial-variable penalty used by the Big-M simplex
// method. It must dominate any realistic objective coefficient and also the
// default indicator BigM (1e7): with an equal penalty, a near-zero
// artificial times BigM can buy the same objective as honouring the row.
const bigMPenalty = 1e9

// solveLP minimizes objCoeffs·x subject to rows, x >= 0, via the Big-M
// simplex method over a dense tableau. It is a direct, unoptimized
// implementation (no revised-simplex bookkeeping, no Bland's-rule-only
// anti-cycling beyond a lexicographic tiebreak) appropriate for the small,
// dense models this module produces.
//
// Complexity: O(iterations * rows * cols); iterations are not bounded a
// priori but are capped defensively (simplexMaxIters) to guarantee
// termination on degenerate inputs.
func solveLP(numVars int, objCoeffs []float64, rows []lpRow) ([]float64, float64, solver.Status, error) {
	const simplexMaxIters = 20000

	m := len(rows)
	// Normalize rows to have rhs >= 0 (flip sense+signs otherwise), and
	// determine how many slack/surplus/artificial columns we need.
	type normRow struct {
		coeffs []float64
		sense  solver.ConstraintSense
		rhs    float64
	}
	norm := make([]normRow, m)
	for i, r := range rows {
		c := append([]float64(nil), r.coeffs...)
		rhs := r.rhs
		sense := r.sense
		if rhs < 0 {
			for j := range c {
				c[j] = -c[j]
			}
			rhs = -rhs
			switch sense {
			case solver.LE:
				sense = solver.GE
			case solver.GE:
				sense = solver.LE
			}
		}
		norm[i] = normRow{coeffs: c, sense: sense, rhs: rhs}
	}

	// Column layout: [structural vars][slack/surplus per row][artificial per row (GE/EQ rows and any row needing one)]
	slackCol := make([]int, m) // -1 if none
	artCol := make([]int, m)   // -1 if none
	col := numVars
	for i, r := range norm {
		slackCol[i] = -1
		artCol[i] = -1
		switch r.sense {
		case solver.LE:
			slackCol[i] = col
			col++
		case solver.GE:
			slackCol[i] = col // surplus, coefficient -1
			col++
			artCol[i] = col
			col++
		case solver.EQ:
			artCol[i] = col
			col++
		}
	}
	totalCols := col
	needsArt := false
	for _, a := range artCol {
		if a >= 0 {
			needsArt = true
		}
	}

	// Tableau: m rows + 1 objective row, totalCols + 1 (rhs).
	tab := make([][]float64, m+1)
	for i := range tab {
		tab[i] = make([]float64, totalCols+1)
	}
	basis := make([]int, m)
	for i, r := range norm {
		copy(tab[i][:numVars], r.coeffs)
		if r.sense == solver.GE {
			tab[i][slackCol[i]] = -1
		} else if r.sense == solver.LE {
			tab[i][slackCol[i]] = 1
		}
		if artCol[i] >= 0 {
			tab[i][artCol[i]] = 1
			basis[i] = artCol[i]
		} else {
			basis[i] = slackCol[i]
		}
		tab[i][totalCols] = r.rhs
	}

	// Objective row: minimize objCoeffs·x + bigMPenalty * sum(artificials).
	obj := tab[m]
	for j := 0; j < numVars; j++ {
		obj[j] = objCoeffs[j]
	}
	if needsArt {
		for i := range norm {
			if artCol[i] >= 0 {
				obj[artCol[i]] = bigMPenalty
			}
		}
	}
	// Price out basic artificial/slack columns so the objective row reads
	// reduced costs relative to the current (artificial) basis.
	for i := 0; i < m; i++ {
		coef := obj[basis[i]]
		if coef == 0 {
			continue
		}
		for j := 0; j <= totalCols; j++ {
			obj[j] -= coef * tab[i][j]
		}
	}

	const eps = 1e-9
	for iter := 0; iter < simplexMaxIters; iter++ {
		// Choose entering column: most negative reduced cost (Dantzig rule).
		enter := -1
		best := -eps
		for j := 0; j < totalCols; j++ {
			if obj[j] < best {
				best = obj[j]
				enter = j
			}
		}
		if enter == -1 {
			break // optimal
		}

		// Ratio test for leaving row.
		leave := -1
		bestRatio := math.Inf(1)
		for i := 0; i < m; i++ {
			if tab[i][enter] > eps {
				ratio := tab[i][totalCols] / tab[i][enter]
				if ratio < bestRatio-1e-12 || (ratio < bestRatio+1e-12 && (leave == -1 || basis[i] < basis[leave])) {
					bestRatio = ratio
					leave = i
				}
			}
		}
		if leave == -1 {
			return nil, 0, solver.StatusInfeasibleOrUnbounded, ErrSimplexUnbounded
		}

		// Pivot on (leave, enter).
		pivot := tab[leave][enter]
		for j := 0; j <= totalCols; j++ {
			tab[leave][j] /= pivot
		}
		for i := 0; i <= m; i++ {
			if i == leave {
				continue
			}
			factor := tab[i][enter]
			if factor == 0 {
				continue
			}
			for j := 0; j <= totalCols; j++ {
				tab[i][j] -= factor * tab[leave][j]
			}
		}
		basis[leave] = enter
	}

	// Infeasibility check: any artificial variable remains basic at a
	// positive value.
	for i := 0; i < m; i++ {
		if artCol[i] >= 0 && basis[i] == artCol[i] && tab[i][totalCols] > 1e-6 {
			return nil, 0, solver.StatusInfeasible, nil
		}
	}

	values := make([]float64, numVars)
	for i := 0; i < m; i++ {
		if basis[i] < numVars {
			values[basis[i]] = tab[i][totalCols]
		}
	}
	var objVal float64
	for j := 0; j < numVars; j++ {
		objVal += objCoeffs[j] * values[j]
	}

	return values, objVal, solver.StatusOptimal, nil
}
