// Package cache memoizes derived property info lists per table.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/conduit-lang/gridmeta/internal/metrics"
	"github.com/conduit-lang/gridmeta/internal/table/propinfo"
)

// ComputeFunc derives the property infos of a table
type ComputeFunc func() ([]propinfo.PropertyInfo, error)

// InvalidateFunc is called after a table's entry has been dropped
type InvalidateFunc func(tableID string)

// StoredFunc is called with a freshly computed list once it is cached
type StoredFunc func(infos []propinfo.PropertyInfo)

// DerivationCache holds at most one derived list per table identity.
// Entries never expire; owners call Invalidate whenever the declarations or
// the context path of a table change.
type DerivationCache struct {
	mu        sync.RWMutex
	entries   map[string][]propinfo.PropertyInfo
	listeners []InvalidateFunc
	group     singleflight.Group
	// epochs advance on every invalidation so that a computation started
	// before an invalidation does not store its stale result
	epochs map[string]uint64
}

// New creates an empty cache
func New() *DerivationCache {
	return &DerivationCache{
		entries: make(map[string][]propinfo.PropertyInfo),
		epochs:  make(map[string]uint64),
	}
}

// GetOrCompute returns the cached list of tableID, computing it on a miss.
// Concurrent misses for the same table share one computation. Errors are
// returned as-is and nothing is cached. The cached slice is returned by
// reference and must be treated as immutable.
//
// compute must not call GetOrCompute for the same table.
func (c *DerivationCache) GetOrCompute(tableID string, compute ComputeFunc) ([]propinfo.PropertyInfo, error) {
	return c.GetOrComputeStored(tableID, compute, nil)
}

// GetOrComputeStored is GetOrCompute with a hook that runs only when the
// computed list is actually cached. A computation overtaken by an
// invalidation is returned to its callers but neither cached nor passed to
// stored. stored runs while the cache is locked, before any later
// invalidation listener, and must not call back into the cache.
func (c *DerivationCache) GetOrComputeStored(tableID string, compute ComputeFunc, stored StoredFunc) ([]propinfo.PropertyInfo, error) {
	c.mu.RLock()
	infos, ok := c.entries[tableID]
	c.mu.RUnlock()
	if ok {
		metrics.RecordCacheLookup(true)
		return infos, nil
	}
	metrics.RecordCacheLookup(false)

	v, err, _ := c.group.Do(tableID, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.entries[tableID]
		epoch := c.epochs[tableID]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		computed, err := compute()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.epochs[tableID] == epoch {
			c.entries[tableID] = computed
			metrics.CacheEntries.Set(float64(len(c.entries)))
			if stored != nil {
				stored(computed)
			}
		}
		c.mu.Unlock()
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]propinfo.PropertyInfo), nil
}

// Get returns the cached list of tableID without computing it
func (c *DerivationCache) Get(tableID string) ([]propinfo.PropertyInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	infos, ok := c.entries[tableID]
	return infos, ok
}

// Invalidate drops the entry of tableID and notifies the listeners.
func (c *DerivationCache) Invalidate(tableID string) {
	c.mu.Lock()
	_, existed := c.entries[tableID]
	delete(c.entries, tableID)
	c.epochs[tableID]++
	listeners := append([]InvalidateFunc(nil), c.listeners...)
	metrics.CacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()

	if existed {
		metrics.CacheInvalidationsTotal.Inc()
	}
	for _, fn := range listeners {
		fn(tableID)
	}
}

// OnInvalidate registers a listener called after every invalidation
func (c *DerivationCache) OnInvalidate(fn InvalidateFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Len returns the number of cached tables
func (c *DerivationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
