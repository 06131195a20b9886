// Package algorithms serves two distinct purposes that share one package
// by design: it carries BFS/DFS traversal over core.Graph (used by epec's
// trade-topology connectivity diagnostic, run from EPEC.Finalize), and
// it implements the four EPEC solution strategies behind one Strategy
// interface — FullEnumeration, InnerApproximation, CombinatorialPNE, and
// OuterApproximation.
//
// Each strategy holds a non-owning Orchestrator — a narrow interface
// satisfied by the host EPEC, so this package never imports epec (epec
// imports algorithms instead, mirroring the teacher's
// tsp.SolveWithMatrix dispatcher-by-enum and the flow package's three
// interchangeable MaxFlow engines sharing one contract).
package algorithms
