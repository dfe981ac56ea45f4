package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/gridmeta/internal/table/propinfo"
)

func counting(calls *int32) ComputeFunc {
	return func() ([]propinfo.PropertyInfo, error) {
		atomic.AddInt32(calls, 1)
		return []propinfo.PropertyInfo{{Name: "OrderNo"}, {Name: "Status"}}, nil
	}
}

func TestGetOrCompute_ComputesOnce(t *testing.T) {
	c := New()
	var calls int32

	first, err := c.GetOrCompute("orders", counting(&calls))
	require.NoError(t, err)
	second, err := c.GetOrCompute("orders", counting(&calls))
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	// Same backing array: stored by reference
	assert.Same(t, &first[0], &second[0])
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCompute_AfterInvalidate(t *testing.T) {
	c := New()
	var calls int32

	before, err := c.GetOrCompute("orders", counting(&calls))
	require.NoError(t, err)

	c.Invalidate("orders")
	_, ok := c.Get("orders")
	assert.False(t, ok)

	after, err := c.GetOrCompute("orders", counting(&calls))
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.NotSame(t, &before[0], &after[0])
	assert.Equal(t, before, after)
}

func TestGetOrCompute_ErrorsNotCached(t *testing.T) {
	c := New()
	boom := errors.New("boom")

	_, err := c.GetOrCompute("orders", func() ([]propinfo.PropertyInfo, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	var calls int32
	_, err = c.GetOrCompute("orders", counting(&calls))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrCompute_TablesAreIndependent(t *testing.T) {
	c := New()
	var calls int32

	_, err := c.GetOrCompute("orders", counting(&calls))
	require.NoError(t, err)
	_, err = c.GetOrCompute("customers", counting(&calls))
	require.NoError(t, err)

	c.Invalidate("customers")
	_, ok := c.Get("orders")
	assert.True(t, ok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrCompute_ConcurrentMissesCollapse(t *testing.T) {
	c := New()
	var calls int32
	release := make(chan struct{})

	compute := func() ([]propinfo.PropertyInfo, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []propinfo.PropertyInfo{{Name: "OrderNo"}}, nil
	}

	var wg sync.WaitGroup
	results := make([][]propinfo.PropertyInfo, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			infos, err := c.GetOrCompute("orders", compute)
			assert.NoError(t, err)
			results[i] = infos
		}(i)
	}

	// Give the goroutines time to join the in-flight computation
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, infos := range results {
		require.Len(t, infos, 1)
		assert.Same(t, &results[0][0], &infos[0])
	}
}

func TestInvalidate_DuringComputeDropsStaleResult(t *testing.T) {
	c := New()
	var calls int32

	_, err := c.GetOrCompute("orders", func() ([]propinfo.PropertyInfo, error) {
		atomic.AddInt32(&calls, 1)
		c.Invalidate("orders")
		return []propinfo.PropertyInfo{{Name: "Stale"}}, nil
	})
	require.NoError(t, err)

	_, ok := c.Get("orders")
	assert.False(t, ok)

	infos, err := c.GetOrCompute("orders", counting(&calls))
	require.NoError(t, err)
	assert.Equal(t, "OrderNo", infos[0].Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOnInvalidate(t *testing.T) {
	c := New()
	var invalidated []string
	c.OnInvalidate(func(tableID string) {
		invalidated = append(invalidated, tableID)
	})

	var calls int32
	_, err := c.GetOrCompute("orders", counting(&calls))
	require.NoError(t, err)

	c.Invalidate("orders")
	c.Invalidate("customers")
	assert.Equal(t, []string{"orders", "customers"}, invalidated)
}

func TestGetOrComputeStored(t *testing.T) {
	t.Run("runs for cached results", func(t *testing.T) {
		c := New()
		var calls int32
		var stored [][]propinfo.PropertyInfo
		record := func(infos []propinfo.PropertyInfo) { stored = append(stored, infos) }

		_, err := c.GetOrComputeStored("orders", counting(&calls), record)
		require.NoError(t, err)
		_, err = c.GetOrComputeStored("orders", counting(&calls), record)
		require.NoError(t, err)

		require.Len(t, stored, 1)
		assert.Equal(t, "OrderNo", stored[0][0].Name)
	})

	t.Run("skipped when invalidated during compute", func(t *testing.T) {
		c := New()
		storedCalls := 0

		infos, err := c.GetOrComputeStored("orders", func() ([]propinfo.PropertyInfo, error) {
			c.Invalidate("orders")
			return []propinfo.PropertyInfo{{Name: "Stale"}}, nil
		}, func([]propinfo.PropertyInfo) { storedCalls++ })
		require.NoError(t, err)

		assert.Equal(t, "Stale", infos[0].Name)
		assert.Equal(t, 0, storedCalls)
	})

	t.Run("skipped on error", func(t *testing.T) {
		c := New()
		storedCalls := 0

		_, err := c.GetOrComputeStored("orders", func() ([]propinfo.PropertyInfo, error) {
			return nil, errors.New("boom")
		}, func([]propinfo.PropertyInfo) { storedCalls++ })
		require.Error(t, err)
		assert.Equal(t, 0, storedCalls)
	})
}
