// Package snapshot publishes derived property info lists for consumers
// outside the process, backed by memory or Redis.
package snapshot

import (
	"context"
	"errors"
	"time"
)

// Store defines the interface for all snapshot backends
type Store interface {
	// Get retrieves a value from the store
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the store
	Delete(ctx context.Context, key string) error

	// Clear removes every table snapshot under the store's prefix; other
	// keys sharing the prefix are left alone
	Clear(ctx context.Context) error

	// Exists checks if a key exists in the store
	Exists(ctx context.Context, key string) (bool, error)

	// Tables returns the identities of all tables with a live snapshot, sorted
	Tables(ctx context.Context) ([]string, error)
}

// Config holds common configuration for snapshot backends
type Config struct {
	// DefaultTTL is used when Set is called with a zero TTL; negative means no expiry
	DefaultTTL time.Duration
	// Prefix is prepended to all keys
	Prefix string
}

// DefaultConfig returns a default store configuration
func DefaultConfig() Config {
	return Config{
		DefaultTTL: 10 * time.Minute,
		Prefix:     "gridmeta:",
	}
}

// ErrSnapshotMiss is returned when a key is not found in the store
type ErrSnapshotMiss struct {
	Key string
}

func (e ErrSnapshotMiss) Error() string {
	return "snapshot miss: " + e.Key
}

// IsSnapshotMiss checks if an error is a snapshot miss
func IsSnapshotMiss(err error) bool {
	var miss ErrSnapshotMiss
	return errors.As(err, &miss)
}
