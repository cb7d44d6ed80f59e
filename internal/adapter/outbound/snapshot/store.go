// Package snapshot persists the last known-good backend payload per
// resource family in a local SQLite database. When the backend is
// down, a snapshot is a fresher fallback than the embedded datasets;
// state served from it is still flagged as mock-sourced, so mutations
// stay blocked.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no snapshot exists for a resource.
var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	resource   TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	checksum   TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// Store is a SQLite-backed snapshot cache.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	// The CLI is the only writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Put stores the payload for a resource, replacing any previous
// snapshot. Writes are skipped when the payload is unchanged.
func (s *Store) Put(ctx context.Context, resource string, payload []byte) error {
	sum := fmt.Sprintf("%016x", xxhash.Sum64(payload))

	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT checksum FROM snapshots WHERE resource = ?`, resource).Scan(&existing)
	if err == nil && existing == sum {
		return nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read snapshot checksum: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (resource, payload, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(resource) DO UPDATE SET
			payload = excluded.payload,
			checksum = excluded.checksum,
			updated_at = excluded.updated_at`,
		resource, payload, sum, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.Debug("snapshot stored", "resource", resource, "bytes", len(payload))
	return nil
}

// Get returns the stored payload for a resource, or ErrNotFound.
func (s *Store) Get(ctx context.Context, resource string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE resource = ?`, resource).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return payload, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
