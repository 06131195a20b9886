// Package outerlcp implements the outer polyhedral approximation of an
// LCP's feasible region. Unlike polylcp, encodings need not be fully
// resolved: a zero entry leaves that complementarity pair unconstrained,
// so the resulting polyhedron is a relaxation (a superset of the true
// feasible region restricted to the resolved positions). Because tightening
// a zero to +1/-1 can only shrink the region further, a node whose parent
// (one fewer resolved position) is already infeasible is pruned without a
// feasibility check of its own.
package outerlcp
