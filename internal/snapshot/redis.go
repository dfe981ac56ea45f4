package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch bounds the keys fetched per SCAN round and deleted per DEL
const scanBatch = 100

// RedisStore keeps table snapshots in Redis, one string key per table.
type RedisStore struct {
	client *redis.Client
	config Config
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string
	// Password is the Redis password (optional)
	Password string
	// DB is the Redis database number
	DB int
	// Config holds common store configuration
	Config Config
}

// DefaultRedisConfig returns a default Redis configuration
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:   "localhost:6379",
		Config: DefaultConfig(),
	}
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, config RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisStoreWithClient(client, config.Config), nil
}

// NewRedisStoreWithClient creates a store over an existing client
func NewRedisStoreWithClient(client *redis.Client, config Config) *RedisStore {
	return &RedisStore{
		client: client,
		config: config,
	}
}

// Get reads the value stored under key
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.config.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotMiss{Key: key}
	}
	return value, err
}

// Set stores a value. A zero ttl uses the configured default and a negative
// one keeps the value until it is deleted.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.config.DefaultTTL
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.config.Prefix+key, value, ttl).Err()
}

// Delete removes the value stored under key
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.config.Prefix+key).Err()
}

// Clear deletes every table snapshot under the prefix in batches.
func (r *RedisStore) Clear(ctx context.Context) error {
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := r.client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	err := r.scanTables(ctx, func(fullKey, _ string) error {
		batch = append(batch, fullKey)
		if len(batch) == scanBatch {
			return flush()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return flush()
}

// Exists reports whether a value is stored under key
func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Exists(ctx, r.config.Prefix+key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Tables lists the tables with a snapshot under the prefix.
func (r *RedisStore) Tables(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.scanTables(ctx, func(_, id string) error {
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// scanTables calls fn for every snapshot key under the prefix. Keys that
// match the glob but do not decode to a table identity are skipped.
func (r *RedisStore) scanTables(ctx context.Context, fn func(fullKey, tableID string) error) error {
	iter := r.client.Scan(ctx, 0, r.config.Prefix+tableKeyPattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()
		id, ok := TableIDFromKey(strings.TrimPrefix(fullKey, r.config.Prefix))
		if !ok {
			continue
		}
		if err := fn(fullKey, id); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
