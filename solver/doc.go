// Package solver defines the backend contract that the rest of this module
// treats as an external collaborator: a linear / mixed-integer / convex
// quadratic optimizer, specified only through its interface (spec §6.3). The
// bundled solver itself is out of scope (assumed present as a black box);
// subpackage milp ships one in-house reference implementation of this
// contract so every algorithm here is runnable without a commercial MIP
// solver license.
package solver
