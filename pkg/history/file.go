package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/errors"
)

// historyDocument is the persisted file layout.
type historyDocument struct {
	Snapshots []audit.Snapshot `json:"snapshots"`
}

// FileStore persists history as a single JSON document, rewritten in
// full on every save via a temp file and rename.
type FileStore struct {
	Path string
}

// NewFileStore creates a file-backed store at the given path. The file
// is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the full history. A missing file yields an empty history;
// a file that exists but cannot be decoded is a hard error, never a
// silent reset.
func (s *FileStore) Load(_ context.Context) ([]audit.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []audit.Snapshot{}, nil
		}
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to read history file", err,
			map[string]any{"path": s.Path})
	}

	var doc historyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeStoreCorrupted,
			"history file is not valid JSON", err,
			map[string]any{"path": s.Path})
	}

	return doc.Snapshots, nil
}

// Save appends the snapshot, prunes to MaxSnapshots, and atomically
// rewrites the file.
func (s *FileStore) Save(ctx context.Context, snapshot *audit.Snapshot) ([]audit.Snapshot, error) {
	snapshots, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	snapshots = prune(append(snapshots, *snapshot))

	data, err := json.MarshalIndent(historyDocument{Snapshots: snapshots}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to encode history", err)
	}

	if err := writeAtomic(s.Path, data); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to write history file", err,
			map[string]any{"path": s.Path})
	}

	slog.Debug("history saved",
		slog.String("path", s.Path),
		slog.Int("snapshots", len(snapshots)))

	return snapshots, nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it into place so readers never observe a partial write.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
