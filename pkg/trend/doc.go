// Package trend computes deltas across stored audit snapshots under two
// distinct semantics: a previous-run delta comparing the newest snapshot
// to the one immediately before it, and a windowed delta comparing the
// first and last entries of a trailing window. The two are intentionally
// separate operations with separate result types.
package trend
