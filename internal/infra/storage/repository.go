package storage

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned when a key doesn't exist
	ErrKeyNotFound = errors.New("key not found")

	// ErrSaveFailed is the generic write failure surfaced to callers
	ErrSaveFailed = errors.New("save failed")
)

// Record keys of the local store.
const (
	KeyAddresses    = "trust_demo_addresses_v1"
	KeyTransactions = "trust_demo_txs_v1"
	KeyAdminSession = "trust_demo_admin_session_v1"
)

// KV is the local key-value store backing all persisted state.
type KV interface {
	// Get returns the value stored under key, or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error

	// Keys lists stored keys in ascending order
	Keys(ctx context.Context) ([]string, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error

	// Close releases the store
	Close() error
}
