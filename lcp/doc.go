// Package lcp implements the base linear complementarity problem
//
//	0 <= x ⊥ Mx + q >= 0
//
// together with an explicit complementarity pairing, optional side
// constraints (A_side x <= b_side), and a contiguous "leader" range of
// variables excluded from complementarity. It provides the relaxed model
// (rebuilt on a fresh backend model for every check and solve; no built
// model is cached between calls), both MIP reformulations (Big-M and indicator constraints, selected
// via Reformulation mirroring the teacher's tsp.BoundAlgo enum-and-switch
// idiom), point-to-encoding extraction, the MPEC-as-MILP/MIQP helpers, and
// textual persistence compatible with the persist package's framing.
package lcp
