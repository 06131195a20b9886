// Package flow computes maximum flow on graphs represented by *core.Graph.
// epec uses it to screen trade feasibility before an expensive EPEC solve:
// a source node feeds every exporting country at its export-limit capacity,
// every importing country drains to a sink at its import-limit capacity, and
// if the max flow falls short of aggregate import demand no tax/quota
// combination can balance trade, so the equilibrium search short-circuits.
//
// Dinic's algorithm (level graph construction + blocking-flow via DFS) is
// the one solver kept:
//
//	Time:   O(E · √V) on unit-capacity networks (general networks often near O(E·√V)).
//	Memory: O(V + E) for level map, adjacency slices, and recursion state.
//
// # Graph Support
//
// Dinic operates on *core.Graph, respecting its configuration flags:
//
//	– Directed or undirected edges (with per-edge mixed direction support).
//	– Weighted edges (capacity values).
//	– Optional multi-edges (parallel edges aggregated).
//	– Optional loops (ignored for augmenting-path search).
//
// Capacities are represented as int64, but an initial Epsilon threshold
// (float64) allows filtering very small weights when aggregating parallel edges.
//
// # API
//
// FlowOptions configures the algorithm:
//
//	type FlowOptions struct {
//	    Ctx                  context.Context // for cancellation / timeouts
//	    Epsilon              float64         // ignore capacities ≤ Epsilon during build
//	    Verbose              bool            // log each augmentation step
//	    LevelRebuildInterval int             // rebuild level graph every N pushes
//	}
//
// Use DefaultOptions() to obtain production-safe defaults:
//
//	opts := flow.DefaultOptions()
//	// opts.Ctx = context.Background()
//	// opts.Epsilon = 1e-9
//	// opts.Verbose = false
//	// opts.LevelRebuildInterval = 0
//
//	func Dinic(
//	    g *core.Graph,
//	    source, sink string,
//	    opts FlowOptions,
//	) (maxFlow float64, residual *core.Graph, err error)
//
// Dinic returns the computed maximum flow value and a residual graph that
// preserves all original configuration flags (directedness, weighting,
// loops, multi-edges, mixed-edges). The residual graph's edges correspond
// to remaining forward capacity and newly created reverse edges.
//
// # Errors
//
//	ErrSourceNotFound - if the source vertex is missing in the input graph.
//	ErrSinkNotFound   - if the sink vertex is missing.
//	context.Canceled / context.DeadlineExceeded - if opts.Ctx is canceled.
//
// # Integration
//
//   - Relies on github.com/ssriram1992/epecsolve/core for graph storage and iteration.
//   - epec.tradeFeasibilityScreen is the sole caller outside this package's own tests.
package flow
