package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/errors"
)

func testSnapshot(id string, totalPods int, at time.Time) *audit.Snapshot {
	return &audit.Snapshot{
		ID:        id,
		Timestamp: at,
		Nodes:     []audit.NodeRecord{},
		Pods:      []audit.PodRecord{},
		ClusterStats: audit.ClusterStats{
			TotalPods: totalPods,
		},
	}
}

func TestFileStoreLoadAbsent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "history.json"))

	snapshots, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	at := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)

	saved, err := store.Save(t.Context(), testSnapshot("first", 10, at))
	require.NoError(t, err)
	require.Len(t, saved, 1)

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "first", loaded[0].ID)
	assert.Equal(t, 10, loaded[0].ClusterStats.TotalPods)
	assert.True(t, at.Equal(loaded[0].Timestamp))
}

func TestFileStoreBounded(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	at := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)

	for i := 0; i < MaxSnapshots+5; i++ {
		_, err := store.Save(t.Context(), testSnapshot(fmt.Sprintf("s%d", i), i, at.AddDate(0, 0, i)))
		require.NoError(t, err)
	}

	snapshots, err := store.Load(t.Context())
	require.NoError(t, err)
	require.Len(t, snapshots, MaxSnapshots)

	// Oldest entries dropped first, most recent last.
	assert.Equal(t, "s5", snapshots[0].ID)
	assert.Equal(t, fmt.Sprintf("s%d", MaxSnapshots+4), snapshots[MaxSnapshots-1].ID)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	_, err := store.Load(t.Context())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStoreCorrupted, errors.CodeOf(err))
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.json")
	store := NewFileStore(path)

	_, err := store.Save(t.Context(), testSnapshot("s", 1, time.Now()))
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestMemoryStoreBounded(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < MaxSnapshots+3; i++ {
		_, err := store.Save(t.Context(), testSnapshot(fmt.Sprintf("m%d", i), i, time.Now()))
		require.NoError(t, err)
	}

	snapshots, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.Len(t, snapshots, MaxSnapshots)
	assert.Equal(t, "m3", snapshots[0].ID)
}
