// Package polylcp implements the inner polyhedral approximation of an
// LCP's feasible region: a set of owned (A_i, b_i) polyhedra, each
// corresponding to one fully-resolved {-1,+1} complementarity encoding,
// together with three encoding-id bookkeeping sets: Feasible and
// Infeasible (disjoint verdicts of the feasibility check) and Enumerated
// (ids whose polyhedron was added; an id added after a feasibility check
// is in both Enumerated and Feasible).
package polylcp
