// Package history persists a row per FindNashEq invocation to a SQLite
// database: timestamp, country count, algorithm, outcome status, iteration
// count and wall-clock duration. This is run-history bookkeeping only — it
// is unrelated to the LCP/ParamQP/NashGame intermediate-state text format
// written by the persist/lcp/paramqp/nashgame packages.
package history
