package epec

import "errors"

// Sentinel errors for package epec.
var (
	// ErrSealed is returned by a build-phase mutator once Finalize has run.
	ErrSealed = errors.New("epec: struct is sealed; call Unlock first")

	// ErrNotFinalized is returned by a prepare/solve-phase call made
	// before Finalize.
	ErrNotFinalized = errors.New("epec: Finalize has not been called")

	// ErrNoCountries is returned by Finalize when no country was added.
	ErrNoCountries = errors.New("epec: no countries added")

	// ErrNoFollowers is returned by NewCountry for an empty follower list.
	ErrNoFollowers = errors.New("epec: country has no followers")

	// ErrInvalidDemand is returned by NewCountry for a non-positive
	// intercept or slope.
	ErrInvalidDemand = errors.New("epec: demand intercept and slope must be positive")

	// ErrTransportShape is returned by Finalize for a
	// non-square matrix, a size mismatching the country count, or a
	// non-zero diagonal.
	ErrTransportShape = errors.New("epec: transport-cost matrix must be square, sized to the country count, with zero diagonal")

	// ErrCountryIndexOOB is returned by Orchestrator methods given an
	// out-of-range country index.
	ErrCountryIndexOOB = errors.New("epec: country index out of bounds")

	// ErrNoDeviation is returned by AddCountryPolyFromDeviation when the
	// country's best response at compositeX has no feasible point.
	ErrNoDeviation = errors.New("epec: no best-response point to encode a deviation from")
)
