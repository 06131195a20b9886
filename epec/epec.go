package epec

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/algorithms"
	"github.com/ssriram1992/epecsolve/branchtree"
	"github.com/ssriram1992/epecsolve/config"
	"github.com/ssriram1992/epecsolve/core"
	"github.com/ssriram1992/epecsolve/epec/history"
	"github.com/ssriram1992/epecsolve/lcp"
	"github.com/ssriram1992/epecsolve/nashgame"
	"github.com/ssriram1992/epecsolve/outerlcp"
	"github.com/ssriram1992/epecsolve/paramqp"
	"github.com/ssriram1992/epecsolve/polylcp"
	"github.com/ssriram1992/epecsolve/solver"
)

// approximator is the common surface of polylcp.PolyLCP and
// outerlcp.OuterLCP that MakePlayersQP needs; both packages satisfy it
// structurally without importing epec.
type approximator interface {
	ConvexHull() (*mat.Dense, []float64, int, error)
	MakeQP(q *mat.SymDense, c *mat.Dense, cVec []float64, a *mat.Dense) (*paramqp.ParamQP, int, error)
	FeasibleCount() int
}

// EPEC is the top-level orchestrator: country assembly, the build/
// prepare/solve lifecycle, and the upper-level Nash game whose KKT LCP's
// feasibility is the equilibrium set. Its build phase is mutable;
// Finalize seals it (sealed bool, not a mutex — spec's single-threaded
// cooperative model makes locking discipline unnecessary).
type EPEC struct {
	RunID uuid.UUID

	cfg config.Config
	be  solver.Backend

	countries []*Country
	transport *mat.Dense

	sealed      bool
	leaderWidth int

	upperGame *nashgame.NashGame
	lastX     []float64

	deadline    time.Time
	hasDeadline bool

	Stats   *Stats
	History *history.Store // optional; nil disables run-history persistence
}

// New constructs an EPEC backed by be, configured by cfg.
func New(cfg config.Config, be solver.Backend) *EPEC {
	return &EPEC{
		RunID: uuid.New(),
		cfg:   cfg,
		be:    be,
		Stats: NewStats(),
	}
}

// AddCountry registers a fully-built country. Returns ErrSealed once
// Finalize has run.
func (e *EPEC) AddCountry(c *Country) error {
	if e.sealed {
		return ErrSealed
	}
	e.countries = append(e.countries, c)

	return nil
}

// AddTransportCosts records the transportation-cost matrix (square, sized
// to the eventual country count, zero diagonal — validated at Finalize
// once the country count is known).
func (e *EPEC) AddTransportCosts(m *mat.Dense) error {
	if e.sealed {
		return ErrSealed
	}
	e.transport = m

	return nil
}

// Finalize validates the build phase, resolves the static upper-level
// leader-variable layout (each country's tax-width and, when it has a
// trading partner, one netExport column), and seals the struct.
func (e *EPEC) Finalize(ctx context.Context) error {
	if e.sealed {
		return ErrSealed
	}
	if len(e.countries) == 0 {
		return ErrNoCountries
	}
	if e.transport != nil {
		r, c := e.transport.Dims()
		if r != c || r != len(e.countries) {
			return ErrTransportShape
		}
		for i := 0; i < r; i++ {
			if e.transport.At(i, i) != 0 {
				return ErrTransportShape
			}
		}
		e.checkTradeConnectivity()
	}

	offset := 0
	for _, c := range e.countries {
		c.leaderOffset = offset
		c.netExportRelCol = -1
		offset += c.leaderTaxWidth
		if c.hasTrade {
			c.netExportRelCol = offset
			offset++
		}
	}
	e.leaderWidth = offset
	e.sealed = true

	return nil
}

// Unlock clears the seal, re-enabling AddCountry/AddTransportCosts.
func (e *EPEC) Unlock() {
	e.sealed = false
}

// checkTradeConnectivity runs a BFS over the directed trade-topology graph
// implied by the transport-cost matrix (an edge per non-zero cost) and logs
// any country unreachable from the first one. It never fails Finalize: an
// isolated country is economically valid (it simply can't export), but it is
// worth surfacing before the solve runs.
func (e *EPEC) checkTradeConnectivity() {
	names := make([]string, len(e.countries))
	for i, c := range e.countries {
		names[i] = c.Name
	}

	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	for _, name := range names {
		if err := g.AddVertex(name); err != nil {
			e.cfg.Logger.Debug().Err(err).Msg("epec: connectivity check: add vertex")
			return
		}
	}
	rows, cols := e.transport.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if i == j {
				continue
			}
			cost := e.transport.At(i, j)
			if cost == 0 {
				continue
			}
			if _, err := g.AddEdge(names[i], names[j], int64(cost*1e4)); err != nil {
				e.cfg.Logger.Debug().Err(err).Msg("epec: connectivity check: add edge")
				return
			}
		}
	}

	reached, err := algorithms.ReachableFrom(g, names[0])
	if err != nil {
		e.cfg.Logger.Debug().Err(err).Msg("epec: connectivity check: BFS")
		return
	}
	for _, name := range names {
		if !reached[name] {
			e.cfg.Logger.Warn().Str("country", name).Msg("epec: country unreachable from others via transport costs")
		}
	}
}

// SetDeadline configures the wall-clock budget honored by Deadline and the
// algorithms package's strategies. Passing ok == false clears it.
func (e *EPEC) SetDeadline(d time.Time, ok bool) {
	e.deadline = d
	e.hasDeadline = ok
}

// CountryCount implements algorithms.Orchestrator.
func (e *EPEC) CountryCount() int { return len(e.countries) }

// Deadline implements algorithms.Orchestrator.
func (e *EPEC) Deadline() (time.Time, bool) { return e.deadline, e.hasDeadline }

func (e *EPEC) country(i int) (*Country, error) {
	if i < 0 || i >= len(e.countries) {
		return nil, ErrCountryIndexOOB
	}

	return e.countries[i], nil
}

// EnumerateCountry implements algorithms.Orchestrator: populates country
// i's inner (polyhedral) approximation with every feasible encoding.
func (e *EPEC) EnumerateCountry(ctx context.Context, i int) error {
	c, err := e.country(i)
	if err != nil {
		return err
	}
	if c.poly == nil {
		c.poly = polylcp.New(c.problem, e.cfg.Seed)
	}
	c.usingOuter = false

	return c.poly.EnumerateAll(ctx, e.be)
}

// ResetCountryApprox implements algorithms.Orchestrator: clears country
// i's polyhedron set back to empty.
func (e *EPEC) ResetCountryApprox(i int) error {
	c, err := e.country(i)
	if err != nil {
		return err
	}
	c.poly = polylcp.New(c.problem, e.cfg.Seed)
	c.outer = nil
	c.tree = nil
	c.usingOuter = false

	return nil
}

// AddCountryPolyBatch implements algorithms.Orchestrator.
func (e *EPEC) AddCountryPolyBatch(ctx context.Context, i, batch int) (int, error) {
	c, err := e.country(i)
	if err != nil {
		return 0, err
	}
	if c.poly == nil {
		c.poly = polylcp.New(c.problem, e.cfg.Seed)
	}

	return c.poly.AddOnePoly(ctx, e.be, batch, polylcp.Sequential)
}

// AddCountryPolyFromDeviation implements algorithms.Orchestrator. It
// recovers country i's lower-level point from the leading n coordinates
// of its best response in the upper game (the convex-hull extended
// layout's first n columns are always the shared x, per polylcp/outerlcp's
// ConvexHull), then encodes and adds the polyhedron containing it.
func (e *EPEC) AddCountryPolyFromDeviation(ctx context.Context, i int, compositeX []float64) error {
	c, err := e.country(i)
	if err != nil {
		return err
	}
	if e.upperGame == nil {
		return ErrNotFinalized
	}
	if c.poly == nil {
		c.poly = polylcp.New(c.problem, e.cfg.Seed)
	}

	resp, err := e.upperGame.Respond(i, compositeX)
	if err != nil {
		return err
	}
	if resp.Y == nil {
		return ErrNoDeviation
	}

	n := c.problem.N()
	rows := c.problem.Rows()
	x := append([]float64(nil), resp.Y[:n]...)
	z := make([]float64, rows)
	m := c.problem.M()
	q := c.problem.Q()
	for r := 0; r < rows; r++ {
		var acc float64
		for col := 0; col < n; col++ {
			acc += m.At(r, col) * x[col]
		}
		z[r] = acc + q[r]
	}

	return c.poly.AddPolyFromPoint(ctx, e.be, x, z, 1e-6)
}

// CombinatorialCount implements algorithms.Orchestrator.
func (e *EPEC) CombinatorialCount(i int) int {
	c, err := e.country(i)
	if err != nil || c.poly == nil {
		return 0
	}

	return len(c.poly.Polys())
}

// leafQP builds a single-polyhedron ParamQP for country c's poly index
// idx, bypassing the convex-hull combination entirely (a combinatorial-PNE
// leaf fixes exactly one polyhedron per country).
func leafQP(c *Country, idx int) (*paramqp.ParamQP, error) {
	if c.poly == nil || idx < 0 || idx >= len(c.poly.Polys()) {
		return nil, ErrCountryIndexOOB
	}
	poly := c.poly.Polys()[idx]
	n := c.problem.N()
	aSide, bSide := c.problem.SideConstraints()

	sideRows := 0
	if aSide != nil {
		sideRows, _ = aSide.Dims()
	}
	rows := len(poly.B) + sideRows
	a := mat.NewDense(rows, n, nil)
	b := make([]float64, rows)
	a.Slice(0, len(poly.B), 0, n).(*mat.Dense).Copy(poly.A)
	copy(b, poly.B)
	if aSide != nil {
		a.Slice(len(poly.B), rows, 0, n).(*mat.Dense).Copy(aSide)
		copy(b[len(poly.B):], bSide)
	}

	q := mat.NewSymDense(n, nil)
	cVec := make([]float64, n)

	return paramqp.New(q, nil, nil, a, cVec, b)
}

// buildUpperGame assembles the upper-level NashGame from players (one per
// country, in country order), padding each player's parameter space to
// the composite width via AddDummy and wiring the static per-country
// trade-balance constraints resolved at Finalize.
func (e *EPEC) buildUpperGame(players []*paramqp.ParamQP) (*nashgame.NashGame, error) {
	nys := make([]int, len(players))
	totalPrimal := 0
	for i, p := range players {
		nys[i] = p.Ny()
		totalPrimal += nys[i]
	}

	for i, p := range players {
		need := (totalPrimal - nys[i]) + e.leaderWidth
		if err := p.AddDummy(need, 0, -1); err != nil {
			return nil, err
		}
	}

	l, r := e.buildTradeConstraints(totalPrimal)

	game, err := nashgame.New(players, nil, nil, e.leaderWidth, l, r)
	if err != nil {
		return nil, err
	}
	game.SetBackend(e.be)

	return game, nil
}

// buildTradeConstraints assembles the global trade-balance row (the sum
// of every trading country's net exports is zero) plus each trading
// country's own import/export box bounds, over the composite leader block
// that starts at column totalPrimal.
func (e *EPEC) buildTradeConstraints(totalPrimal int) (*mat.Dense, []float64) {
	leaderStart := totalPrimal
	width := totalPrimal + e.leaderWidth

	var rows [][]float64
	var rhs []float64

	var balance []float64
	anyTrade := false
	for _, c := range e.countries {
		if !c.hasTrade {
			continue
		}
		anyTrade = true
		col := leaderStart + c.netExportRelCol
		if balance == nil {
			balance = make([]float64, width)
		}
		balance[col] = 1

		if c.Leader.ExportLimit != NoLimit {
			row := make([]float64, width)
			row[col] = 1
			rows = append(rows, row)
			rhs = append(rhs, c.Leader.ExportLimit)
		}
		if c.Leader.ImportLimit != NoLimit {
			row := make([]float64, width)
			row[col] = -1
			rows = append(rows, row)
			rhs = append(rhs, c.Leader.ImportLimit)
		}
	}
	if anyTrade {
		neg := make([]float64, width)
		for i, v := range balance {
			neg[i] = -v
		}
		rows = append(rows, balance, neg)
		rhs = append(rhs, 0, 0)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	l := mat.NewDense(len(rows), width, nil)
	for ri, row := range rows {
		for ci, v := range row {
			if v != 0 {
				l.Set(ri, ci, v)
			}
		}
	}

	return l, rhs
}

// SolveLeafCombination implements algorithms.Orchestrator: builds every
// country's QP from exactly the polyhedron at indices[i], assembles the
// upper-level NashGame, and solves its LCP once as an MIP.
func (e *EPEC) SolveLeafCombination(ctx context.Context, indices []int) (solver.Status, []float64, error) {
	if len(indices) != len(e.countries) {
		return solver.StatusInfeasible, nil, ErrCountryIndexOOB
	}

	players := make([]*paramqp.ParamQP, len(e.countries))
	for i, c := range e.countries {
		p, err := leafQP(c, indices[i])
		if err != nil {
			return solver.StatusInfeasible, nil, err
		}
		players[i] = p
	}

	game, err := e.buildUpperGame(players)
	if err != nil {
		return solver.StatusInfeasible, nil, err
	}

	l, err := lcp.NewFromNashGame(game)
	if err != nil {
		return solver.StatusInfeasible, nil, err
	}
	l.Reform = e.cfg.Reformulation
	l.BigM = e.cfg.BigM

	x, _, status, err := l.SolveAsMIP(ctx, e.be)
	e.Stats.recordMIPCall()
	if status.Succeeded() {
		e.lastX = x
	}

	return status, x, err
}

// branchTol is the zero/positivity tolerance BranchCountryOnce uses to
// judge complementarity violations and best-response deviations, matching
// the tolerance AddCountryPolyFromDeviation already solves points to.
const branchTol = 1e-6

// xzFromPrimal computes z = Mx + q over c's own base LCP and returns x and
// z concatenated (x first, length c.problem.N(), then z).
func xzFromPrimal(c *Country, x []float64) []float64 {
	m, q := c.problem.M(), c.problem.Q()
	rows := c.problem.Rows()
	z := make([]float64, rows)
	for r := 0; r < rows; r++ {
		var acc float64
		for col := range x {
			acc += m.At(r, col) * x[col]
		}
		z[r] = acc + q[r]
	}

	return append(append([]float64(nil), x...), z...)
}

// localXZ evaluates country i's own (x, z) pair at its slice of
// compositeX: x is the country's primal slice, z = Mx + q over the
// country's own base LCP.
func (e *EPEC) localXZ(c *Country, i int, compositeX []float64) []float64 {
	ps, pe := e.upperGame.PrimalRange(i)

	return xzFromPrimal(c, compositeX[ps:pe])
}

// pickViolatedPosition implements composite-rule tier 1 (spec.md §4.8's
// outer-approximation branching rule): among still-permitted positions,
// the one where the candidate profile is strictly infeasible (x_j > 0 and
// z_i > 0 both beyond branchTol) with the largest sum of violations. No
// direction is preferred here — both sides of the pair are equally over
// their bound, so the +1/-1 child order stays as tried by the caller.
func pickViolatedPosition(c *Country, mask []bool, x, z []float64) int {
	best, bestScore := -1, 0.0
	for pos, ok := range mask {
		if !ok {
			continue
		}
		pair := c.problem.Pairing()[pos]
		row, col := pair[0], pair[1]
		xj, zi := x[col], z[row]
		if xj <= branchTol || zi <= branchTol {
			continue
		}
		if score := xj + zi; best == -1 || score > bestScore {
			best, bestScore = pos, score
		}
	}

	return best
}

// pickDeviationPosition implements composite-rule tier 2: the first
// still-permitted position the best-response deviation's encoding
// resolves (skips ambiguous, tol-zero entries), plus the direction
// (+1 prefers z_i = 0, x_j > 0) that encoding entry indicates.
func pickDeviationPosition(mask []bool, encoding []int8) (pos int, preferNeg bool) {
	for idx, ok := range mask {
		if !ok || encoding[idx] == 0 {
			continue
		}

		return idx, encoding[idx] < 0
	}

	return -1, false
}

// BranchCountryOnce implements algorithms.Orchestrator: advances country
// i's outer-approximation branching tree by one decision. The branching
// location follows spec.md §4.8's composite rule: prefer a complementarity
// the candidate profile violates (largest combined violation), else the
// one the country's best-response deviation resolves (branching toward
// the side its encoding indicates), else the first still-permitted
// position (no candidate and no deviation to go on yet). Either child of
// the chosen position that is outer-infeasible is pruned.
func (e *EPEC) BranchCountryOnce(ctx context.Context, i int, compositeX []float64) (bool, error) {
	c, err := e.country(i)
	if err != nil {
		return false, err
	}
	if c.outer == nil {
		c.outer = outerlcp.New(c.problem)
		c.tree = branchtree.New(len(c.problem.Pairing()))
		c.current = c.tree.Root()
	}
	c.usingOuter = true

	node, err := c.tree.Node(c.current)
	if err != nil {
		return false, err
	}

	pos, preferNeg := -1, false
	if compositeX != nil {
		xz := e.localXZ(c, i, compositeX)
		n := c.problem.N()
		pos = pickViolatedPosition(c, node.Mask, xz[:n], xz[n:])

		if pos == -1 {
			resp, rerr := e.upperGame.Respond(i, compositeX)
			if rerr != nil {
				return false, rerr
			}
			if resp.Y != nil {
				devXZ := xzFromPrimal(c, resp.Y[:n])
				encoding, eerr := c.problem.EncodingFromPoint(devXZ[:n], devXZ[n:], branchTol)
				if eerr == nil {
					pos, preferNeg = pickDeviationPosition(node.Mask, encoding)
				}
			}
		}
	}

	if pos == -1 {
		for idx, ok := range node.Mask {
			if ok {
				pos = idx
				break
			}
		}
	}
	if pos == -1 {
		return false, nil
	}

	childNeg, childPos, err := c.tree.SingleBranch(c.current, pos)
	if err != nil {
		return false, err
	}

	order := [2]int{childPos, childNeg}
	if preferNeg {
		order = [2]int{childNeg, childPos}
	}

	for _, child := range order {
		cn, err := c.tree.Node(child)
		if err != nil {
			return false, err
		}
		if err := c.outer.AddPolyFromEncoding(ctx, e.be, cn.Encoding, true); err != nil {
			return false, err
		}
		if c.outer.IsInfeasible(cn.Encoding) {
			continue
		}
		c.current = child

		return true, nil
	}

	if err := c.tree.DenyBranch(c.current, pos); err != nil {
		return false, err
	}

	return false, nil
}

// MakePlayersQP implements algorithms.Orchestrator: converts every
// country's current polyhedral approximation (inner or outer, whichever is
// active) into its upper-level ParamQP and assembles the upper-level
// NashGame.
func (e *EPEC) MakePlayersQP(ctx context.Context) error {
	if !e.sealed {
		return ErrNotFinalized
	}

	players := make([]*paramqp.ParamQP, len(e.countries))
	for i, c := range e.countries {
		var approx approximator
		switch {
		case c.usingOuter && c.outer != nil:
			approx = c.outer
		case c.poly != nil:
			approx = c.poly
		default:
			c.poly = polylcp.New(c.problem, e.cfg.Seed)
			approx = c.poly
		}

		n := c.problem.N()
		qTemplate := mat.NewSymDense(n, nil)
		upper, feasCount, err := approx.MakeQP(qTemplate, nil, make([]float64, n), nil)
		if err != nil {
			return fmt.Errorf("epec: country %q: %w", c.Name, err)
		}
		c.upper = upper
		players[i] = upper
		e.Stats.recordFeasiblePolys(c.Name, feasCount)
	}

	game, err := e.buildUpperGame(players)
	if err != nil {
		return err
	}
	e.upperGame = game

	return nil
}

// SolveUpperLevelOnce implements algorithms.Orchestrator: builds the
// upper-level LCP from the last MakePlayersQP call and solves it once as
// an MIP, honoring the remaining deadline.
func (e *EPEC) SolveUpperLevelOnce(ctx context.Context) (solver.Status, []float64, error) {
	if e.upperGame == nil {
		return solver.StatusInfeasible, nil, ErrNotFinalized
	}

	l, err := lcp.NewFromNashGame(e.upperGame)
	if err != nil {
		return solver.StatusInfeasible, nil, err
	}
	l.Reform = e.cfg.Reformulation
	l.BigM = e.cfg.BigM

	if e.hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, e.deadline)
		defer cancel()
	}

	x, _, status, err := l.SolveAsMIP(ctx, e.be)
	e.Stats.recordMIPCall()
	if status.Succeeded() {
		e.lastX = x
	}

	return status, x, err
}

// IsSolved implements algorithms.Orchestrator, delegating to the cached
// upper-level NashGame's own best-response check.
func (e *EPEC) IsSolved(compositeX []float64, tol float64) (bool, int, []float64, error) {
	if e.upperGame == nil {
		return false, -1, nil, ErrNotFinalized
	}

	return e.upperGame.IsSolved(compositeX, tol)
}

// FindNashEq runs the configured strategy to completion, driving this
// EPEC as its algorithms.Orchestrator.
func (e *EPEC) FindNashEq(ctx context.Context) (algorithms.Status, []float64, error) {
	if !e.sealed {
		return algorithms.SolverError, nil, ErrNotFinalized
	}

	strat, err := algorithms.New(e.cfg.Algo, e, algorithms.Options{
		Aggressiveness: e.cfg.Aggressiveness,
		RequirePure:    e.cfg.RequirePure,
	})
	if err != nil {
		return algorithms.SolverError, nil, err
	}

	if ok, screenErr := e.tradeFeasibilityScreen(ctx); screenErr != nil {
		e.cfg.Logger.Debug().Err(screenErr).Msg("epec: trade feasibility screen")
	} else if !ok {
		e.Stats.recordSolve(algorithms.NashEqNotFound, 0)

		return algorithms.NashEqNotFound, nil, nil
	}

	start := time.Now()
	status, solveErr := strat.Solve(ctx)
	e.Stats.recordSolve(status, time.Since(start))

	if e.History != nil {
		errMsg := ""
		if solveErr != nil {
			errMsg = solveErr.Error()
		}
		run := history.Run{
			RunID:        e.RunID,
			StartedAt:    start,
			CountryCount: len(e.countries),
			Algorithm:    e.cfg.Algo,
			Status:       status,
			Duration:     time.Since(start),
			Err:          errMsg,
		}
		if recErr := e.History.Record(ctx, run); recErr != nil {
			e.cfg.Logger.Warn().Err(recErr).Msg("epec: failed to record run history")
		}
	}

	if solveErr != nil {
		return status, nil, solveErr
	}

	return status, e.lastX, nil
}
