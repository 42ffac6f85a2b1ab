package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vietddude/crosspay/internal/infra/storage"
)

// KVRepo implements storage.KV on the kv table.
type KVRepo struct {
	db    *DB
	retry RetryConfig
}

var _ storage.KV = (*KVRepo)(nil)

// NewKVRepo creates a new SQLite-backed KV store.
func NewKVRepo(db *DB) *KVRepo {
	return &KVRepo{db: db, retry: DefaultRetryConfig}
}

// Get retrieves the value stored under key.
func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the value stored under key.
func (r *KVRepo) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	err := withRetry(ctx, r.retry, func() error {
		_, err := r.db.ExecContext(ctx, query, key, value, time.Now().UnixMilli())
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys in a single statement.
func (r *KVRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM kv WHERE key IN (?)`, keys)
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	err = withRetry(ctx, r.retry, func() error {
		_, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// Keys lists stored keys in ascending order.
func (r *KVRepo) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, `SELECT key FROM kv ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (r *KVRepo) Ping(ctx context.Context) error {
	return r.db.Health(ctx)
}

func (r *KVRepo) Close() error {
	return r.db.Close()
}
