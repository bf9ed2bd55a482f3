// Package audit implements the cluster resource audit engine: the
// point-in-time snapshot model, per-container issue classification,
// and cluster-wide statistics aggregation.
//
// A Snapshot is built once per run from already-fetched node and pod
// objects and is treated as an immutable value afterwards. Derived
// figures (ratios, totals, severity) are pure functions recomputed on
// demand rather than cached fields.
package audit
