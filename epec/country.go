package epec

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/branchtree"
	"github.com/ssriram1992/epecsolve/lcp"
	"github.com/ssriram1992/epecsolve/nashgame"
	"github.com/ssriram1992/epecsolve/outerlcp"
	"github.com/ssriram1992/epecsolve/paramqp"
	"github.com/ssriram1992/epecsolve/polylcp"
)

// NoLimit is the instance format's "no limit" sentinel for capacities,
// caps, and trade limits (spec §6.1).
const NoLimit = -1

// TaxParadigm selects how a country's leader tax decision is distributed
// across its followers.
type TaxParadigm int

const (
	// Standard gives every follower its own independent per-unit tax rate.
	Standard TaxParadigm = iota
	// Single applies one shared per-unit tax rate to every follower.
	Single
	// Carbon applies one carbon-price rate, scaled per follower by its
	// emission cost, in place of a flat per-unit tax.
	Carbon
)

// FollowerParams is one producer's cost, capacity, and emission data.
type FollowerParams struct {
	Name         string
	LinCost      float64
	QuadCost     float64
	Capacity     float64
	EmissionCost float64
	TaxCap       float64 // NoLimit means uncapped
}

// DemandParams is a country's linear inverse demand curve:
// price = Alpha - Beta*quantity.
type DemandParams struct {
	Alpha float64
	Beta  float64
}

// LeaderParams is a country's government-level decision bounds and policy
// choices.
type LeaderParams struct {
	ImportLimit           float64 // NoLimit means uncapped; 0 means no trade
	ExportLimit           float64
	PriceCap              float64 // NoLimit means uncapped
	TaxRevenueInObjective bool
	Paradigm              TaxParadigm
}

// hasTradingPartner reports whether l structurally permits any trade, per
// the Open Question resolution: a country with zero import and export
// limits contributes no netExport leader variable or term anywhere.
func (l LeaderParams) hasTradingPartner() bool {
	return l.ImportLimit != 0 || l.ExportLimit != 0
}

// Country is one EPEC leader: its followers' lower-level Cournot game,
// wrapped as an LCP, plus whichever polyhedral approximation the active
// strategy is using against it.
type Country struct {
	Name      string
	Followers []FollowerParams
	Demand    DemandParams
	Leader    LeaderParams

	game    *nashgame.NashGame
	problem *lcp.LCP

	poly  *polylcp.PolyLCP
	outer *outerlcp.OuterLCP
	tree  *branchtree.Tree

	usingOuter bool
	current    int // outer-approximation branching-tree frontier node

	// leaderTaxWidth, hasTrade, leaderOffset and netExportRelCol are fixed
	// at construction/Finalize time; leaderOffset/netExportRelCol are
	// relative offsets within the upper-level leader block, resolved to
	// absolute composite columns afresh by every MakePlayersQP call (the
	// upper level's leaderStart shifts as convex-hull sizes change, but
	// the leader block's own internal layout does not).
	leaderTaxWidth  int
	hasTrade        bool
	leaderOffset    int
	netExportRelCol int // -1 when hasTrade is false

	upper *paramqp.ParamQP
}

// NewCountry builds a country's lower-level follower Cournot game from the
// given parameters, wraps it as an LCP, and records the leader-variable
// layout this country contributes to the upper level.
//
// Each follower i minimizes its cost net of Cournot revenue:
//
//	min (1/2)*QuadCost_i*q_i^2 + LinCost_i*q_i + tax_i*q_i - price*q_i
//	     price = Alpha - Beta*(sum_f q_f - netExport), s.t. q_i <= Capacity_i
//
// where tax_i is this country's tax leader variable (or the follower's
// share of it, per Paradigm) and netExport is this country's net-export
// leader variable (present only when hasTradingPartner is true). Expanding
// the Cournot revenue term yields the quadratic/cross coefficients built
// below, matching the construction idiom of a single-variable ParamQP per
// player.
func NewCountry(name string, followers []FollowerParams, demand DemandParams, leader LeaderParams) (*Country, error) {
	if len(followers) == 0 {
		return nil, ErrNoFollowers
	}
	if demand.Alpha <= 0 || demand.Beta <= 0 {
		return nil, ErrInvalidDemand
	}

	c := &Country{
		Name:      name,
		Followers: append([]FollowerParams(nil), followers...),
		Demand:    demand,
		Leader:    leader,
		hasTrade:  leader.hasTradingPartner(),
	}

	switch leader.Paradigm {
	case Single, Carbon:
		c.leaderTaxWidth = 1
	default:
		c.leaderTaxWidth = len(followers)
	}

	leaderCount := c.leaderTaxWidth
	if c.hasTrade {
		leaderCount++
	}

	players := make([]*paramqp.ParamQP, len(followers))
	for i := range followers {
		p, err := buildFollowerQP(i, c.Followers, demand, leader, c.leaderTaxWidth, c.hasTrade)
		if err != nil {
			return nil, err
		}
		players[i] = p
	}

	l, r := buildCountryLeaderConstraints(c.Followers, demand, leader, c.leaderTaxWidth, c.hasTrade)

	game, err := nashgame.New(players, nil, nil, leaderCount, l, r)
	if err != nil {
		return nil, err
	}
	c.game = game

	problem, err := lcp.NewFromNashGame(game)
	if err != nil {
		return nil, err
	}
	c.problem = problem

	return c, nil
}

func buildFollowerQP(i int, followers []FollowerParams, demand DemandParams, leader LeaderParams, taxWidth int, hasTrade bool) (*paramqp.ParamQP, error) {
	f := followers[i]
	beta := demand.Beta

	q := mat.NewSymDense(1, []float64{f.QuadCost + 2*beta})

	nx := (len(followers) - 1) + taxWidth
	if hasTrade {
		nx++
	}

	c := mat.NewDense(1, nx, nil)
	a := mat.NewDense(1, nx, nil)

	col := 0
	for j := range followers {
		if j == i {
			continue
		}
		c.Set(0, col, beta)
		col++
	}

	switch leader.Paradigm {
	case Single:
		c.Set(0, col, 1)
	case Carbon:
		c.Set(0, col, f.EmissionCost)
	default: // Standard
		c.Set(0, col+i, 1)
	}
	col += taxWidth

	if hasTrade {
		c.Set(0, col, -beta)
	}

	cVec := []float64{f.LinCost - demand.Alpha}
	b := mat.NewDense(1, 1, []float64{1})
	bVec := []float64{f.Capacity}

	return paramqp.New(q, c, a, b, cVec, bVec)
}

// buildCountryLeaderConstraints assembles this country's own leader-level
// side constraints: a domestic price cap (spans every follower's output
// plus the netExport term) and, for the Standard paradigm, a per-follower
// tax cap; Single/Carbon paradigms apply the first follower with a finite
// TaxCap as the shared cap, a documented simplification since the
// instance format carries one TaxCap per follower even under a shared-rate
// paradigm.
func buildCountryLeaderConstraints(followers []FollowerParams, demand DemandParams, leader LeaderParams, taxWidth int, hasTrade bool) (*mat.Dense, []float64) {
	n := len(followers)
	leaderCount := taxWidth
	if hasTrade {
		leaderCount++
	}
	width := 2*n + leaderCount // totalPrimal(n) + leaderCount + sum(Ncons=1 each)
	leaderStart := n

	var rows [][]float64
	var rhs []float64

	if leader.PriceCap != NoLimit {
		row := make([]float64, width)
		for f := 0; f < n; f++ {
			row[f] = -demand.Beta
		}
		if hasTrade {
			row[leaderStart+taxWidth] = demand.Beta
		}
		rows = append(rows, row)
		rhs = append(rhs, leader.PriceCap-demand.Alpha)
	}

	switch leader.Paradigm {
	case Standard:
		for f := 0; f < n; f++ {
			if followers[f].TaxCap == NoLimit {
				continue
			}
			row := make([]float64, width)
			row[leaderStart+f] = 1
			rows = append(rows, row)
			rhs = append(rhs, followers[f].TaxCap)
		}
	default:
		for f := 0; f < n; f++ {
			if followers[f].TaxCap == NoLimit {
				continue
			}
			row := make([]float64, width)
			row[leaderStart] = 1
			rows = append(rows, row)
			rhs = append(rhs, followers[f].TaxCap)
			break
		}
	}

	if hasTrade {
		col := leaderStart + taxWidth
		if leader.ExportLimit != NoLimit {
			row := make([]float64, width)
			row[col] = 1
			rows = append(rows, row)
			rhs = append(rhs, leader.ExportLimit)
		}
		if leader.ImportLimit != NoLimit {
			row := make([]float64, width)
			row[col] = -1
			rows = append(rows, row)
			rhs = append(rhs, leader.ImportLimit)
		}
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
