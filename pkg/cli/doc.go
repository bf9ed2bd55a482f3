// Package cli implements the kaudit command-line interface.
//
// # Commands
//
// audit - Run one audit pass:
//
//	kaudit audit [--output FILE] [--format json|yaml|table]
//
// Fetches the cluster inventory, builds a snapshot, computes the
// cluster statistics and rollups, appends the snapshot to the history
// store, and renders the full report.
//
// trends - Compute trend deltas from stored history:
//
//	kaudit trends [--window 7]
//
// history - List stored snapshots:
//
//	kaudit history
//
// publish - Publish a report directory as an OCI artifact:
//
//	kaudit publish --source ./reports --target oci://ghcr.io/org/reports:v1
//
// # Global Flags
//
//	--log-level   Logging verbosity: debug, info, warn, error
//
// # History Store Selection
//
// The --history flag accepts a file path. Paths ending in .db or
// .sqlite select the embedded SQLite backend; anything else uses the
// flat JSON file backend.
package cli
