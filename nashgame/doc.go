// Package nashgame composes an ordered list of player parametric QPs
// (paramqp.ParamQP), a market-clearing linear block, and optional
// leader-level constraints into a single Nash game, and formulates that
// game's joint KKT conditions as one linear complementarity problem (an
// lcp.LCP once wrapped).
//
// Canonical variable ordering in the composite vector is:
//
//	[primals_1 .. primals_n][market-clearing duals][leader vars][duals_1 .. duals_n]
//
// every player sees every other player's primals, the leader variables, and
// nothing else as its own parameter vector x.
package nashgame
