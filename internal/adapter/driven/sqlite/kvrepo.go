package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.KVStore = (*KVRepo)(nil)

// KVRepo is the SQLite implementation of the KVStore port interface.
// Each key maps to one row in kv_entries; values are stored verbatim.
type KVRepo struct {
	db *DB
}

// NewKVRepo creates a new KVRepo backed by the given DB.
func NewKVRepo(db *DB) *KVRepo {
	return &KVRepo{db: db}
}

// Get returns the stored value for key. ok is false if no entry exists.
func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM kv_entries WHERE key = ?`

	var value string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get entry %q: %w", key, err)
	}

	return value, true, nil
}

// Set stores or replaces the value for key. The upsert is a single statement,
// so readers observe either the old or the new value, never a mix.
func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Writer.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set entry %q: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key. Deleting a missing key is a no-op.
func (r *KVRepo) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_entries WHERE key = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete entry %q: %w", key, err)
	}
	return nil
}
