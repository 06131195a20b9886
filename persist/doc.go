// Package persist provides shared ascii section-framing helpers used by
// lcp.Save/Load, the instance format and the CLI's solution file to write
// and read the textual format described by this module's
// instance/persistence contract: a magic string, then a sequence of
// named sections, each a "## name count" header line followed by count
// rows, one value per line. ParamQP and NashGame have no Save/Load of
// their own.
package persist
