package instance

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/core"
	"github.com/ssriram1992/epecsolve/matrix"
)

// transportScale converts between the instance format's float transport
// costs and core.Graph's int64 edge weights. Costs are truncated toward
// zero to four decimal places of precision, which is adequate for the per-unit
// transport costs this module deals with; a documented, lossy but
// deterministic round-trip (see DESIGN.md).
const transportScale = 1e4

// TransportToGraph builds a directed, weighted core.Graph over one vertex
// per country (named by names, in order), with one edge per non-zero
// transport-cost entry.
func TransportToGraph(names []string, transport *mat.Dense) (*core.Graph, error) {
	n := len(names)
	if transport == nil {
		return nil, ErrTransportShape
	}
	rows, cols := transport.Dims()
	if rows != n || cols != n {
		return nil, ErrTransportShape
	}

	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	for _, name := range names {
		if err := g.AddVertex(name); err != nil {
			return nil, fmt.Errorf("instance: TransportToGraph add vertex %s: %w", name, err)
		}
	}

	for i, from := range names {
		for j, to := range names {
			if i == j {
				continue
			}
			cost := transport.At(i, j)
			if cost == 0 {
				continue
			}
			if _, err := g.AddEdge(from, to, int64(cost*transportScale)); err != nil {
				return nil, fmt.Errorf("instance: TransportToGraph add edge %s->%s: %w", from, to, err)
			}
		}
	}

	return g, nil
}

// GraphToTransport is the inverse of TransportToGraph: it rebuilds the
// dense transport-cost matrix from g's edge weights, ordering rows/columns
// by names.
func GraphToTransport(g *core.Graph, names []string) (*mat.Dense, error) {
	opts := matrix.NewMatrixOptions(matrix.WithDirected(), matrix.WithWeighted())
	am, err := matrix.NewAdjacencyMatrix(g, opts)
	if err != nil {
		return nil, fmt.Errorf("instance: GraphToTransport: %w", err)
	}

	n := len(names)
	out := mat.NewDense(n, n, nil)
	for i, from := range names {
		fi, ok := am.VertexIndex[from]
		if !ok {
			continue
		}
		for j, to := range names {
			if i == j {
				continue
			}
			ti, ok := am.VertexIndex[to]
			if !ok {
				continue
			}
			w, err := am.Mat.At(fi, ti)
			if err != nil {
				return nil, fmt.Errorf("instance: GraphToTransport: At(%d,%d): %w", fi, ti, err)
			}
			out.Set(i, j, w/transportScale)
		}
	}

	return out, nil
}
