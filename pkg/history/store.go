package history

import (
	"context"

	"github.com/mchmarny/kaudit/pkg/audit"
)

// MaxSnapshots bounds the history: saves beyond this drop the oldest
// entries first, pure FIFO with no time-based eviction.
const MaxSnapshots = 30

// Store is the persistence contract for snapshot history. Load returns
// the full history oldest-first, or an empty slice when the store does
// not exist yet. Save appends, prunes to MaxSnapshots, persists the
// result, and returns the pruned history.
type Store interface {
	Load(ctx context.Context) ([]audit.Snapshot, error)
	Save(ctx context.Context, snapshot *audit.Snapshot) ([]audit.Snapshot, error)
}

// prune truncates the history to the most recent MaxSnapshots entries.
func prune(snapshots []audit.Snapshot) []audit.Snapshot {
	if len(snapshots) <= MaxSnapshots {
		return snapshots
	}
	return snapshots[len(snapshots)-MaxSnapshots:]
}
