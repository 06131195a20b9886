package nashgame

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/matutil"
	"github.com/ssriram1992/epecsolve/paramqp"
	"github.com/ssriram1992/epecsolve/solver"
)

// NashGame composes an ordered list of player ParamQPs with a
// market-clearing block and optional leader-level constraints.
type NashGame struct {
	players     []*paramqp.ParamQP
	mc          *mat.Dense // numMc x totalPrimal
	rhsC        []float64
	leaderCount int
	l           *mat.Dense // leader constraints, width == totalWidth once padded
	r           []float64

	primalStart []int
	dualStart   []int
	mcDualStart int
	leaderStart int
	totalWidth  int
	totalPrimal int

	be solver.Backend
}

// SetBackend installs the convex-QP backend used by Respond/IsSolved to
// compute each player's best response.
func (g *NashGame) SetBackend(be solver.Backend) { g.be = be }

// New validates every player's parameter arity against the composition
// invariant (Nx_i == totalPrimal - Ny_i + leaderCount) and caches offsets.
func New(players []*paramqp.ParamQP, mc *mat.Dense, rhsC []float64, leaderCount int, l *mat.Dense, r []float64) (*NashGame, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	g := &NashGame{
		players:     players,
		mc:          mc,
		rhsC:        append([]float64(nil), rhsC...),
		leaderCount: leaderCount,
		l:           l,
		r:           append([]float64(nil), r...),
	}
	g.computeOffsets()

	for i, p := range players {
		want := g.totalPrimal - p.Ny() + leaderCount
		if p.Nx() != want {
			return nil, ErrArityMismatch
		}
		_ = i
	}

	return g, nil
}

func (g *NashGame) computeOffsets() {
	n := len(g.players)
	g.primalStart = make([]int, n)
	g.dualStart = make([]int, n)

	sum := 0
	for i, p := range g.players {
		g.primalStart[i] = sum
		sum += p.Ny()
	}
	g.totalPrimal = sum
	g.mcDualStart = sum
	g.leaderStart = g.mcDualStart + len(g.rhsC)

	dualCursor := g.leaderStart + g.leaderCount
	for i, p := range g.players {
		g.dualStart[i] = dualCursor
		dualCursor += p.Ncons()
	}
	g.totalWidth = dualCursor
}

// TotalWidth returns the size of the composite LCP vector this game produces.
func (g *NashGame) TotalWidth() int { return g.totalWidth }

// LeaderStart returns the column offset of the leader-variable block.
func (g *NashGame) LeaderStart() int { return g.leaderStart }

// LeaderCount returns the current leader-variable count.
func (g *NashGame) LeaderCount() int { return g.leaderCount }

// PrimalRange returns [start, start+Ny) for player i.
func (g *NashGame) PrimalRange(i int) (int, int) {
	return g.primalStart[i], g.primalStart[i] + g.players[i].Ny()
}

// DualRange returns [start, start+Ncons) for player i.
func (g *NashGame) DualRange(i int) (int, int) {
	return g.dualStart[i], g.dualStart[i] + g.players[i].Ncons()
}

// AddDummy pads every player's parameter space by count (at position,
// -1 meaning append), since leader variables are parameters to every
// player, and grows the leader-variable block to match. Offsets are
// recomputed.
func (g *NashGame) AddDummy(count, position int) error {
	if count < 0 {
		return matutil.ErrNegativeCount
	}
	for _, p := range g.players {
		if err := p.AddDummy(count, 0, position); err != nil {
			return err
		}
	}
	g.leaderCount += count
	g.computeOffsets()

	return nil
}

// otherPrimalColumns returns, for player i, the composite primal-column
// indices (excluding player i's own range) in the order N_kkt^i's columns
// are expected to scatter into, followed by the leader-variable columns.
func (g *NashGame) otherPrimalColumns(i int) []int {
	cols := make([]int, 0, g.totalPrimal-g.players[i].Ny()+g.leaderCount)
	for j := range g.players {
		if j == i {
			continue
		}
		s, e := g.PrimalRange(j)
		for c := s; c < e; c++ {
			cols = append(cols, c)
		}
	}
	for c := g.leaderStart; c < g.leaderStart+g.leaderCount; c++ {
		cols = append(cols, c)
	}

	return cols
}

// FormulateLCP composes the joint KKT system of every player (plus the
// market-clearing block) into one (M, q) pair with an explicit
// complementarity pairing list, per this package's canonical ordering. It
// returns plain data rather than an lcp.LCP so that package lcp — which
// depends on nashgame, not the reverse — owns the LCP type.
//
// M is deliberately non-square: the leader-variable block is a column
// range only (g.leaderStart..g.leaderStart+g.leaderCount), never a row —
// leader variables are free parameters with no complementarity condition
// of their own, so giving them a row would mean a row of M that's always
// zero. Every player's dual rows therefore land leaderCount short of
// where their own dual *column* sits; pairing reflects that directly:
// primal rows pair with the identical column, dual rows pair with
// column (row + leaderCount), matching the composite-vector layout
// [primals][leader][duals].
func (g *NashGame) FormulateLCP() (m *mat.Dense, q []float64, pairing [][2]int, leadStart, leadEnd int, err error) {
	rows := g.totalWidth - g.leaderCount
	m = mat.NewDense(rows, g.totalWidth, nil)
	q = make([]float64, rows)

	for i, p := range g.players {
		mk, nk, qk, kerr := p.KKT()
		if kerr != nil {
			return nil, nil, nil, 0, 0, kerr
		}
		ny := p.Ny()
		ncons := p.Ncons()
		ps, _ := g.PrimalRange(i)
		ds, _ := g.DualRange(i)

		for r := 0; r < ny; r++ {
			for c := 0; c < ny; c++ {
				m.Set(ps+r, ps+c, m.At(ps+r, ps+c)+mk.At(r, c))
			}
			for c := 0; c < ncons; c++ {
				m.Set(ps+r, ds+c, m.At(ps+r, ds+c)+mk.At(r, ny+c))
			}
			q[ps+r] += qk[r]
		}
		for r := 0; r < ncons; r++ {
			dualRow := ds + r - g.leaderCount
			for c := 0; c < ny; c++ {
				m.Set(dualRow, ps+c, m.At(dualRow, ps+c)+mk.At(ny+r, c))
			}
			q[dualRow] += qk[ny+r]
		}

		others := g.otherPrimalColumns(i)
		for r := 0; r < ny; r++ {
			for k, col := range others {
				v := nk.At(r, k)
				if v != 0 {
					m.Set(ps+r, col, m.At(ps+r, col)+v)
				}
			}
		}
		for r := 0; r < ncons; r++ {
			dualRow := ds + r - g.leaderCount
			for k, col := range others {
				v := nk.At(ny+r, k)
				if v != 0 {
					m.Set(dualRow, col, m.At(dualRow, col)+v)
				}
			}
		}

		for r := 0; r < ny; r++ {
			pairing = append(pairing, [2]int{ps + r, ps + r})
		}
		for r := 0; r < ncons; r++ {
			dualRow := ds + r - g.leaderCount
			pairing = append(pairing, [2]int{dualRow, dualRow + g.leaderCount})
		}
	}

	// Market-clearing block: row i occupies composite row mcDualStart+i
	// (always below leaderStart, so unaffected by the dual-row shift),
	// columns span every player's primal block; paired complementarily
	// with the market-clearing dual at the same composite index.
	if len(g.rhsC) > 0 && g.mc != nil {
		for i := 0; i < len(g.rhsC); i++ {
			row := g.mcDualStart + i
			for c := 0; c < g.totalPrimal; c++ {
				m.Set(row, c, g.mc.At(i, c))
			}
			q[row] = -g.rhsC[i]
			pairing = append(pairing, [2]int{row, row})
		}
	}

	leadStart = g.leaderStart
	leadEnd = g.leaderStart + g.leaderCount - 1
	if g.leaderCount == 0 {
		leadEnd = leadStart - 1
	}

	return m, q, pairing, leadStart, leadEnd, nil
}

// RewriteLeaderConstraints pads L with zero columns to reach the composite
// width and re-injects each market-clearing row as a two-sided (<= and >=)
// inequality, returning the combined (A, b) side-constraint system suitable
// for lcp.LCP's A_side/b_side.
func (g *NashGame) RewriteLeaderConstraints() (aSide *mat.Dense, bSide []float64, err error) {
	var lRows, lCols int
	if g.l != nil {
		lRows, lCols = g.l.Dims()
	}

	padded := g.l
	if g.l != nil && lCols < g.totalWidth {
		padded, err = matutil.PadCols(g.l, g.totalWidth-lCols)
		if err != nil {
			return nil, nil, err
		}
	}

	mcRows := len(g.rhsC)
	totalRows := lRows + 2*mcRows
	aSide = mat.NewDense(totalRows, g.totalWidth, nil)
	bSide = make([]float64, totalRows)

	if padded != nil {
		aSide.Slice(0, lRows, 0, g.totalWidth).(*mat.Dense).Copy(padded)
		copy(bSide[:lRows], g.r)
	}

	for i := 0; i < mcRows; i++ {
		for c := 0; c < g.totalPrimal; c++ {
			v := g.mc.At(i, c)
			aSide.Set(lRows+2*i, c, v)
			aSide.Set(lRows+2*i+1, c, -v)
		}
		bSide[lRows+2*i] = g.rhsC[i]
		bSide[lRows+2*i+1] = -g.rhsC[i]
	}

	return aSide, bSide, nil
}

// Respond extracts the other players' decisions from a composite solution
// vector and calls player playerIndex's SolveFixed to return its best
// response model.
func (g *NashGame) Respond(playerIndex int, compositeX []float64) (*paramqp.SolvedModel, error) {
	if playerIndex < 0 || playerIndex >= len(g.players) {
		return nil, ErrPlayerIndexOOB
	}
	if len(compositeX) != g.totalWidth {
		return nil, ErrBadCompositeLength
	}

	others := g.otherPrimalColumns(playerIndex)
	xHat := make([]float64, len(others))
	for i, col := range others {
		xHat[i] = compositeX[col]
	}

	return g.players[playerIndex].SolveFixed(context.Background(), xHat, g.be)
}

// IsSolved iterates players, computes each player's best response, and
// compares the induced objective change. Returns true iff no player can
// improve by more than tol; otherwise also returns the first violating
// player's index and its deviation vector (its own best-response y minus
// its current slice of compositeX).
func (g *NashGame) IsSolved(compositeX []float64, tol float64) (bool, int, []float64, error) {
	if len(compositeX) != g.totalWidth {
		return false, -1, nil, ErrBadCompositeLength
	}

	for i, p := range g.players {
		others := g.otherPrimalColumns(i)
		xHat := make([]float64, len(others))
		for k, col := range others {
			xHat[k] = compositeX[col]
		}
		ps, pe := g.PrimalRange(i)
		current := compositeX[ps:pe]

		resp, err := p.SolveFixed(context.Background(), xHat, g.be)
		if err != nil {
			return false, -1, nil, err
		}
		if resp.Y == nil {
			return false, i, nil, nil
		}

		curObj, err := p.ComputeObjective(current, xHat, false)
		if err != nil {
			return false, -1, nil, err
		}
		if math.Abs(curObj-resp.Obj) > tol {
			deviation := make([]float64, len(current))
			for k := range current {
				deviation[k] = resp.Y[k] - current[k]
			}
			return false, i, deviation, nil
		}
	}

	return true, -1, nil, nil
}
