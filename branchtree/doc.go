// Package branchtree implements the branching tree used by the outer
// approximation algorithm: a rooted tree whose nodes each carry a
// complementarity encoding ({-1,0,+1} per position) and a bitmask of
// branchings still legal at that node. Nodes live in an append-only arena
// (a growable slice, children referenced by index rather than pointer),
// following the teacher's dense-buffer-over-pointers discipline in
// tsp/bb.go, so that non-owning references into the tree remain valid
// across growth.
package branchtree
