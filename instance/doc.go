// Package instance implements the plain-text, self-describing instance
// file format: a tuple of countries (follower cost/capacity/emission
// data, a demand curve, and a leader policy block) plus a square
// transportation-cost matrix, round-tripping via Load/Save. The section
// framing is the same ascii format package persist provides for LCP state
// and the CLI's solution file; this is another call site over the same
// framing, not a second format.
package instance
