// Package milp is the reference solver.Backend shipped by this module.
//
// It is not a replacement for a commercial MIP/MIQP solver — spec.md treats
// the bundled solver as an external black box and places it out of scope —
// but it fully implements the solver.Model contract so every algorithm in
// this repository (ParamQP.SolveFixed, LCP.LCPasMIP, the MPEC
// reformulations) is runnable end to end.
//
// Three engines back Optimize, selected by what the model actually contains:
//
//   - No binary variables, no quadratic objective: a dense Big-M
//     primal simplex (simplex.go), following the tsp package's preference
//     for dense prefetch buffers over sparse structures in hot loops.
//   - No binary variables, a quadratic objective: the KKT conditions of the
//     (convex, Q ⪰ 0) QP are themselves a linear complementarity problem,
//     solved by Lemke's complementary pivoting algorithm (lemke.go) — the
//     same LCP shape this module derives in paramqp.KKT, so the reference
//     backend reuses the derivation rather than inventing a second one.
//   - Any binary variables: branch-and-bound over the relaxation above
//     (bb.go), in the dedicated-engine-struct, deadline-aware idiom of
//     tsp/bb.go, grounded algorithmically on the retrieval pack's
//     jjhbw/GoMILP (ilp.go: LP-relaxation branch-and-bound with
//     fractional-variable branching and incumbent pruning).
//
// Indicator constraints (solver.Model.AddIndicatorConstraint) are compiled
// to Big-M linear constraints at add-time, using the "BigM" SetParam value
// (default 1e7, matching spec §4.3's default).
package milp
