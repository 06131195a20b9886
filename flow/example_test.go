package flow_test

import (
	"context"
	"fmt"

	"github.com/ssriram1992/epecsolve/core"
	"github.com/ssriram1992/epecsolve/flow"
)

////////////////////////////////////////////////////////////////////////////////
// Complex network example (7 vertices, 9 edges):
//
//    S→A (5)        A→B (8)
//    S→C (15)       B→D (10)
//    C→D (5)        C→E (10)
//    E→D (10)       D→T (10)
//    E→T (5)
//
// Expected max‐flow: 15 (see path breakdown in comments).
////////////////////////////////////////////////////////////////////////////////

// ExampleDinic_complex demonstrates Dinic on the complex network.
// It builds a level graph and pushes blocking flows, achieving O(E·√V) on unit networks.
func ExampleDinic_complex() {
	// Construct a directed, weighted graph.
	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	g.AddEdge("S", "A", 5)
	g.AddEdge("S", "C", 15)
	g.AddEdge("A", "B", 8)
	g.AddEdge("B", "D", 10)
	g.AddEdge("C", "D", 5)
	g.AddEdge("C", "E", 10)
	g.AddEdge("E", "D", 10)
	g.AddEdge("D", "T", 10)
	g.AddEdge("E", "T", 5)

	// Prepare options: background context, use default Epsilon, no verbosity.
	opts := flow.DefaultOptions()
	opts.Ctx = context.Background()

	// Run Dinic's algorithm.
	maxFlow, _, err := flow.Dinic(g, "S", "T", opts)
	if err != nil {
		panic(err)
	}

	fmt.Println(maxFlow)
	// Output:
	// 15
}
