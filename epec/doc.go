// Package epec implements the top-level EPEC orchestrator: country
// assembly from follower/demand/leader parameters, the build/prepare/
// solve lifecycle (AddCountry/AddTransportCosts/Finalize/MakePlayersQP/
// FindNashEq), and the global upper-level Nash game whose KKT LCP's
// feasibility is the equilibrium set. It implements
// algorithms.Orchestrator so the four strategies in package algorithms
// can drive it without that package importing this one.
package epec
