// Package config defines the ambient configuration struct threaded
// through construction of the EPEC engine: solver reformulation choice,
// time/thread budgets, polyhedron-sampling aggressiveness, and the
// structured logger. It replaces the process-wide VERBOSE-style flag with
// an explicit, construction-time Config.
package config
