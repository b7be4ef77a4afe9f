// Copyright (c) 2026 Choice Properties. All rights reserved.

package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiceproperties-source/choice/internal/platform/cache"
)

const longTTL = time.Hour

/*
TestCache_SetGet verifies basic storage and retrieval.
*/
func TestCache_SetGet(t *testing.T) {
	c := cache.New[string](10)

	c.Set("user_role:u1", "agent", longTTL)

	value, ok := c.Get("user_role:u1")
	require.True(t, ok)
	assert.Equal(t, "agent", value)

	_, ok = c.Get("user_role:unknown")
	assert.False(t, ok)
}

/*
TestCache_OverwriteSameKey verifies that Set on an existing key replaces the
entry wholesale without growing the cache.
*/
func TestCache_OverwriteSameKey(t *testing.T) {
	c := cache.New[string](10)

	c.Set("user_role:u1", "renter", longTTL)
	c.Set("user_role:u1", "landlord", longTTL)

	value, ok := c.Get("user_role:u1")
	require.True(t, ok)
	assert.Equal(t, "landlord", value)
	assert.Equal(t, 1, c.Size())
}

/*
TestCache_LRUEviction verifies that inserting capacity+1 distinct keys evicts
exactly the least-recently-touched one.
*/
func TestCache_LRUEviction(t *testing.T) {
	c := cache.New[int](3)

	c.Set("a", 1, longTTL)
	c.Set("b", 2, longTTL)
	c.Set("c", 3, longTTL)

	// "a" is the oldest; inserting "d" must evict it and nothing else.
	c.Set("d", 4, longTTL)

	assert.False(t, c.Has("a"))
	assert.True(t, c.Has("b"))
	assert.True(t, c.Has("c"))
	assert.True(t, c.Has("d"))
	assert.Equal(t, 3, c.Size())
}

/*
TestCache_GetRefreshesRecency verifies true LRU behavior: a read counts as a
touch and changes the subsequent eviction order.
*/
func TestCache_GetRefreshesRecency(t *testing.T) {
	c := cache.New[int](3)

	c.Set("a", 1, longTTL)
	c.Set("b", 2, longTTL)
	c.Set("c", 3, longTTL)

	// Touch "a" so that "b" becomes the least recently used.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", 4, longTTL)

	assert.True(t, c.Has("a"))
	assert.False(t, c.Has("b"))
	assert.True(t, c.Has("c"))
	assert.True(t, c.Has("d"))
}

/*
TestCache_Expiry verifies that a read past the TTL behaves as a miss and
removes the stale entry as a side effect.
*/
func TestCache_Expiry(t *testing.T) {
	c := cache.New[string](10)

	c.Set("short", "lived", 10*time.Millisecond)
	require.Equal(t, 1, c.Size())

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
	assert.False(t, c.Has("short"))
	assert.Equal(t, 0, c.Size(), "expired entry must be deleted by the read")
}

/*
TestCache_InvalidatePattern verifies substring-based invalidation leaves
non-matching keys untouched.
*/
func TestCache_InvalidatePattern(t *testing.T) {
	c := cache.New[string](10)

	c.Set("user_role:u1", "agent", longTTL)
	c.Set("user_role:u2", "renter", longTTL)
	c.Set("listing:p1", "cached", longTTL)

	c.Invalidate("user_role:")

	assert.False(t, c.Has("user_role:u1"))
	assert.False(t, c.Has("user_role:u2"))
	assert.True(t, c.Has("listing:p1"))
	assert.Equal(t, 1, c.Size())
}

/*
TestCache_InvalidateAll verifies that Invalidate with no pattern empties the
cache entirely.
*/
func TestCache_InvalidateAll(t *testing.T) {
	c := cache.New[string](10)

	c.Set("a", "1", longTTL)
	c.Set("b", "2", longTTL)

	c.Invalidate()

	assert.Equal(t, 0, c.Size())
	assert.False(t, c.Has("a"))
	assert.False(t, c.Has("b"))
}

/*
TestCache_ConcurrentAccess hammers the cache from multiple goroutines to
surface races under -race. Correctness of individual results is covered by
the deterministic tests above.
*/
func TestCache_ConcurrentAccess(t *testing.T) {
	c := cache.New[int](16)

	done := make(chan struct{})
	for worker := 0; worker < 8; worker++ {
		go func(seed int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("key-%d", (seed+i)%32)
				c.Set(key, i, longTTL)
				c.Get(key)
				if i%50 == 0 {
					c.Invalidate("key-3")
				}
			}
		}(worker)
	}
	for worker := 0; worker < 8; worker++ {
		<-done
	}

	assert.LessOrEqual(t, c.Size(), 16)
}
