// Package paramqp implements a parametric quadratic program:
//
//	minimize   (1/2) yᵀQy + cᵀy + (Cx)ᵀy
//	subject to Ax + By <= b,  y >= 0
//
// where y (length Ny) are the program's own decision variables and x (length
// Nx) are exogenous parameters supplied at solve time. ParamQP is the leaf
// building block every other package in this module composes: a player's
// best response in a NashGame, a country's upper-level objective in EPEC,
// and the convex-hull lift produced by polylcp/outerlcp are all ParamQP
// values.
package paramqp
