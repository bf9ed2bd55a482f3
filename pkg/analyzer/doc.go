// Package analyzer computes the per-dimension rollups derived from an
// audit snapshot: pod density per node, resource efficiency per
// namespace, and scheduling issue detection. Each rollup is a read-only
// projection recomputed fresh every run and never persisted.
package analyzer
