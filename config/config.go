package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ssriram1992/epecsolve/algorithms"
	"github.com/ssriram1992/epecsolve/lcp"
)

// PNERecovery selects how FindNashEq recovers when a mixed equilibrium is
// found but a pure one was requested.
type PNERecovery int

const (
	// IncrementalEnumeration keeps adding polyhedra and re-solving.
	IncrementalEnumeration PNERecovery = iota
	// SwitchToCombinatorialPNE abandons inner approximation in favour of
	// the combinatorial-PNE strategy, excluding combinations already
	// visited.
	SwitchToCombinatorialPNE
)

// Config is the ambient configuration threaded through EPEC construction.
// Zero value is not meaningful; use Default() and override fields.
type Config struct {
	// Reformulation selects the LCP MIP reformulation. Default: indicator
	// constraints (numerically robust; see the base LCP's documented
	// Open Question resolution).
	Reformulation lcp.Reformulation

	// BigM overrides the default Big-M constant (only consulted when
	// Reformulation == lcp.ReformulationBigM).
	BigM float64

	// Algo selects which of the four strategies FindNashEq dispatches to.
	Algo algorithms.Kind

	// TimeLimit bounds the wall-clock budget for one FindNashEq call.
	// Zero means no limit.
	TimeLimit time.Duration

	// Threads is forwarded to the backend's Optimize call where
	// supported; zero means "solver chooses".
	Threads int

	// Aggressiveness is the polyhedron-sampling batch size for the inner
	// approximation's per-iteration heuristic add.
	Aggressiveness int

	// RequirePure is forwarded to algorithms.Options.RequirePure, which no
	// strategy reads: a mixed equilibrium is not rejected.
	RequirePure bool

	// PNERecovery names a recovery path for a rejected mixed equilibrium.
	// Nothing in the engine reads it, so no recovery path runs.
	PNERecovery PNERecovery

	// Seed seeds the Random polyhedron-selection policy. Zero selects
	// each package's own documented default.
	Seed uint64

	// Logger is the structured logger threaded through the engine.
	Logger zerolog.Logger
}

// Default returns a fully populated Config with safe, production-ready
// defaults: indicator reformulation, no time limit, solver-chosen thread
// count, aggressiveness 1, mixed equilibria accepted, full enumeration,
// console logging to stderr with no level filter set.
func Default() Config {
	return Config{
		Reformulation:  lcp.ReformulationIndicator,
		BigM:           lcp.DefaultBigM,
		Algo:           algorithms.FullEnumeration,
		TimeLimit:      0,
		Threads:        0,
		Aggressiveness: 1,
		RequirePure:    false,
		PNERecovery:    IncrementalEnumeration,
		Seed:           0,
		Logger:         zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}
}

// Option mutates a Config in place, for functional-options construction.
type Option func(*Config)

// New builds a Config starting from Default() and applying opts in order.
func New(opts ...Option) Config {
	c := Default()
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithReformulation overrides the LCP MIP reformulation.
func WithReformulation(r lcp.Reformulation) Option {
	return func(c *Config) { c.Reformulation = r }
}

// WithAlgorithm selects which strategy FindNashEq dispatches to.
func WithAlgorithm(k algorithms.Kind) Option {
	return func(c *Config) { c.Algo = k }
}

// WithTimeLimit bounds the wall-clock solve budget.
func WithTimeLimit(d time.Duration) Option {
	return func(c *Config) { c.TimeLimit = d }
}

// WithAggressiveness sets the inner-approximation sampling batch size.
func WithAggressiveness(n int) Option {
	return func(c *Config) { c.Aggressiveness = n }
}

// WithRequirePure toggles pure-equilibrium enforcement and its recovery path.
func WithRequirePure(require bool, recovery PNERecovery) Option {
	return func(c *Config) {
		c.RequirePure = require
		c.PNERecovery = recovery
	}
}

// WithSeed sets the Random polyhedron-selection seed.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithLogger overrides the structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
