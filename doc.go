// Package epecsolve computes Nash equilibria of Equilibrium Problems with
// Equilibrium Constraints (EPECs): several countries, each a Stackelberg
// leader over its own lower-level Cournot market of producers, coupled
// through cross-border trade.
//
// The engine is organized under subpackages:
//
//	epec/        — the orchestrator: country assembly, trade-balance
//	               wiring, global LCP, statistics, optional run history
//	lcp/          — base linear complementarity problem entity
//	nashgame/     — composition of per-country parametric QPs into one LCP
//	paramqp/      — parametric quadratic program representation
//	polylcp/      — inner polyhedral approximation of an LCP's solution set
//	outerlcp/     — outer (branch-and-bound) approximation
//	branchtree/   — append-only arena backing outerlcp's search tree
//	algorithms/   — the four EPEC solution strategies, plus BFS/DFS
//	               connectivity diagnostics over the trade-topology graph
//	solver/       — the MILP backend contract, with an in-house reference
//	               branch-and-bound implementation in solver/milp
//	instance/     — the plain-text problem-instance format, and
//	               random-instance generation
//	persist/      — shared plain-text section framing used by lcp and
//	               instance
//	config/       — ambient configuration (logging, deadlines, algorithm
//	               choice)
//
// core/, matrix/, builder/, and flow/ are graph-theoretic infrastructure
// reused from the library this engine grew out of: core.Graph models the
// trade topology, matrix converts it to/from the transport-cost matrix,
// flow screens trade feasibility via max-flow, and builder generates
// synthetic topologies for tests and benchmarks.
package epecsolve
