// Package policy classifies Kubernetes namespaces as system or user
// workload. The audit engine excludes system namespaces from snapshots
// and per-namespace rollups.
//
// A Policy is an explicit value injected into the collector and each
// analyzer, so tests and callers can vary the classification per call
// without shared mutable state.
package policy
