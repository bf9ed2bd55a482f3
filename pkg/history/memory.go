package history

import (
	"context"

	"github.com/mchmarny/kaudit/pkg/audit"
)

// MemoryStore is an in-memory Store used in tests and dry runs.
type MemoryStore struct {
	snapshots []audit.Snapshot
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored history.
func (s *MemoryStore) Load(_ context.Context) ([]audit.Snapshot, error) {
	out := make([]audit.Snapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out, nil
}

// Save appends and prunes in memory.
func (s *MemoryStore) Save(ctx context.Context, snapshot *audit.Snapshot) ([]audit.Snapshot, error) {
	s.snapshots = prune(append(s.snapshots, *snapshot))
	return s.Load(ctx)
}
