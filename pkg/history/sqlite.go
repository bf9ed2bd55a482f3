package history

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	snapshot_id TEXT NOT NULL,
	taken_at DATETIME NOT NULL,
	document TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
`

// SQLiteStore persists each snapshot as one JSON document row in an
// embedded SQLite database, pruned to MaxSnapshots after every save.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at the given
// path and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to open history database", err,
			map[string]any{"path": path})
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to ping history database", err,
			map[string]any{"path": path})
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to apply history schema", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns all stored snapshots in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]audit.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT document FROM snapshots ORDER BY id ASC")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to query history", err)
	}
	defer rows.Close()

	snapshots := []audit.Snapshot{}
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to scan history row", err)
		}
		var snap audit.Snapshot
		if err := json.Unmarshal([]byte(document), &snap); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreCorrupted,
				"stored snapshot document is not valid JSON", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read history rows", err)
	}

	return snapshots, nil
}

// Save inserts the snapshot and deletes rows beyond the MaxSnapshots
// most recent, all in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snapshot *audit.Snapshot) ([]audit.Snapshot, error) {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to encode snapshot", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to begin history transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (snapshot_id, taken_at, document) VALUES (?, ?, ?)",
		snapshot.ID, snapshot.Timestamp, string(document),
	); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to insert snapshot", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		)`, MaxSnapshots,
	); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to prune history", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to commit history transaction", err)
	}

	return s.Load(ctx)
}
