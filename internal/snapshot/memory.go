package snapshot

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// MemoryStore implements an in-memory store with TTL support
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]item
	config Config
	clock  clockwork.Clock
	cancel context.CancelFunc
}

// item represents a value stored in memory
type item struct {
	value      []byte
	expiration time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithConfig(DefaultConfig(), clockwork.NewRealClock())
}

// NewMemoryStoreWithConfig creates a new in-memory store with custom configuration
// and clock
func NewMemoryStoreWithConfig(config Config, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &MemoryStore{
		data:   make(map[string]item),
		config: config,
		clock:  clock,
		cancel: cancel,
	}

	// Start background goroutine to clean up expired items
	go m.cleanupExpired(ctx)

	return m
}

// Get retrieves a value from the store
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullKey := m.config.Prefix + key

	m.mu.RLock()
	it, ok := m.data[fullKey]
	m.mu.RUnlock()
	if !ok || it.expired(m.clock.Now()) {
		return nil, ErrSnapshotMiss{Key: key}
	}

	return it.value, nil
}

// Set stores a value with a TTL
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Use default TTL if none provided
	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	it := item{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expiration = m.clock.Now().Add(ttl)
	}

	m.mu.Lock()
	m.data[m.config.Prefix+key] = it
	m.mu.Unlock()
	return nil
}

// Delete removes a value from the store
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.data, m.config.Prefix+key)
	m.mu.Unlock()
	return nil
}

// Clear removes all table snapshots carrying the store's prefix
func (m *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if _, ok := m.tableID(key); ok {
			delete(m.data, key)
		}
	}
	return nil
}

// Tables returns the identities of all tables with an unexpired snapshot
func (m *MemoryStore) Tables(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := m.clock.Now()
	m.mu.RLock()
	var ids []string
	for key, it := range m.data {
		if id, ok := m.tableID(key); ok && !it.expired(now) {
			ids = append(ids, id)
		}
	}
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}

// tableID maps a stored key back to its table identity.
func (m *MemoryStore) tableID(fullKey string) (string, bool) {
	key, ok := strings.CutPrefix(fullKey, m.config.Prefix)
	if !ok {
		return "", false
	}
	return TableIDFromKey(key)
}

// Exists checks if a key exists in the store
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	it, ok := m.data[m.config.Prefix+key]
	m.mu.RUnlock()
	return ok && !it.expired(m.clock.Now()), nil
}

// Len returns the number of stored items, expired or not
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close stops the background cleanup goroutine
func (m *MemoryStore) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

// cleanupExpired periodically removes expired items
func (m *MemoryStore) cleanupExpired(ctx context.Context) {
	ticker := m.clock.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.removeExpired()
		}
	}
}

func (m *MemoryStore) removeExpired() {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, it := range m.data {
		if it.expired(now) {
			delete(m.data, key)
		}
	}
}
