package epec

import (
	"context"
	"math"

	"github.com/ssriram1992/epecsolve/core"
	"github.com/ssriram1992/epecsolve/flow"
)

// tradeFeasibilityScreen is a cheap pre-solve check: it builds a max-flow
// network from the transport-cost topology (source → exporting countries
// → transport edges → importing countries → sink) and compares the
// achievable flow against the aggregate finite import demand. When the
// network cannot carry that demand, no tax/quota assignment can balance
// trade either, so the caller can skip the LCP/MIP search entirely.
//
// It reports ok=false only when at least one country has a finite
// ImportLimit that the topology provably cannot satisfy; unlimited import
// capacities never block the screen, since any finite flow satisfies them.
func (e *EPEC) tradeFeasibilityScreen(ctx context.Context) (ok bool, err error) {
	if e.transport == nil {
		return true, nil
	}

	const (
		source   = "__source__"
		sink     = "__sink__"
		infinite = math.MaxInt32
	)

	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	if err := g.AddVertex(source); err != nil {
		return false, err
	}
	if err := g.AddVertex(sink); err != nil {
		return false, err
	}

	demand := 0.0
	anyTrade := false
	for _, c := range e.countries {
		if !c.hasTrade {
			continue
		}
		anyTrade = true
		if err := g.AddVertex(c.Name); err != nil {
			return false, err
		}
		if c.Leader.ExportLimit != NoLimit && c.Leader.ExportLimit > 0 {
			if _, err := g.AddEdge(source, c.Name, int64(c.Leader.ExportLimit)); err != nil {
				return false, err
			}
		} else if c.Leader.ExportLimit != 0 {
			if _, err := g.AddEdge(source, c.Name, infinite); err != nil {
				return false, err
			}
		}
		if c.Leader.ImportLimit != 0 {
			edgeCap := int64(infinite)
			if c.Leader.ImportLimit != NoLimit {
				edgeCap = int64(c.Leader.ImportLimit)
				demand += c.Leader.ImportLimit
			}
			if _, err := g.AddEdge(c.Name, sink, edgeCap); err != nil {
				return false, err
			}
		}
	}
	if !anyTrade || demand == 0 {
		return true, nil
	}

	rows, cols := e.transport.Dims()
	for i := 0; i < rows; i++ {
		ci, err := e.country(i)
		if err != nil || !ci.hasTrade {
			continue
		}
		for j := 0; j < cols; j++ {
			if i == j {
				continue
			}
			cj, err := e.country(j)
			if err != nil || !cj.hasTrade {
				continue
			}
			if e.transport.At(i, j) == 0 {
				continue
			}
			if _, err := g.AddEdge(ci.Name, cj.Name, infinite); err != nil {
				return false, err
			}
		}
	}

	opts := flow.DefaultOptions()
	opts.Ctx = ctx
	maxFlow, _, err := flow.Dinic(g, source, sink, opts)
	if err != nil {
		return false, err
	}

	if maxFlow+1e-6 < demand {
		e.cfg.Logger.Warn().
			Float64("max_flow", maxFlow).
			Float64("import_demand", demand).
			Msg("epec: trade topology cannot satisfy aggregate import demand")

		return false, nil
	}

	return true, nil
}
