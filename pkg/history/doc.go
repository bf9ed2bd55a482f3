// Package history persists the bounded rolling snapshot history. Every
// save appends one snapshot, prunes to the most recent 30 entries, and
// rewrites the store wholesale. Two backends are provided: a flat JSON
// file and an embedded SQLite database. Concurrent writers racing on the
// same store are not coordinated; callers serialize audit runs.
package history
