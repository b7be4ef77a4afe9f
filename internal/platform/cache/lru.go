// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package cache provides a bounded in-process LRU cache with per-entry expiry.

It backs the authorization layer's role lookups, avoiding a persistence
round-trip on every request without introducing an external dependency.

Core Properties:

  - Bounded: A cache with capacity N never holds more than N live entries;
    inserting past capacity evicts the least-recently-touched entry.
  - True LRU: A successful read refreshes the entry's recency rank.
  - Lazy expiry: Reading an expired entry behaves as a miss and deletes the
    entry as a side effect. Size() therefore counts lazily-expired entries
    until something touches them.

# Concurrency

All methods serialize map and recency-list mutations behind a single mutex.
The expected entry count (hundreds, not millions) does not justify sharding.
*/
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 100

// Cache is a thread-safe LRU cache with per-entry TTL.
//
// It is constructed explicitly and injected into its consumers, so tests can
// supply an isolated instance per case rather than sharing process state.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // Front = most recently used, Back = least recently used
}

// entry holds the key, value, and absolute expiry inside the recency list.
type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// New creates a cache bounded to the given capacity.
// A non-positive capacity falls back to [DefaultCapacity].
func New[V any](capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Set inserts or replaces the value under key with the given TTL.
//
// Replacing an existing key overwrites the entry wholesale (value and
// expiry) and marks it most recently used. Inserting a new key at capacity
// evicts the least-recently-used entry first.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if element, exists := c.items[key]; exists {
		element.Value.(*entry[V]).value = value
		element.Value.(*entry[V]).expiresAt = expiresAt
		c.order.MoveToFront(element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
}

// Get returns the live value for key.
//
// An unknown key, or a key whose entry has expired, reports a miss; expired
// entries are deleted on the way out. A hit refreshes the entry's recency.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	element, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := element.Value.(*entry[V])
	if time.Now().After(item.expiresAt) {
		// Lazy expiry: discard the stale entry as a side effect of the read.
		c.removeElement(element)
		return zero, false
	}

	c.order.MoveToFront(element)
	return item.value, true
}

// Has reports whether Get would return a value for key.
// It goes through the same expiry check (and stale-entry deletion) as Get.
func (c *Cache[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Invalidate removes entries from the cache.
//
// With no arguments it clears everything. With one or more substring
// patterns it deletes every key containing any of them.
func (c *Cache[V]) Invalidate(patterns ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(patterns) == 0 {
		c.items = make(map[string]*list.Element, c.capacity)
		c.order.Init()
		return
	}

	for key, element := range c.items {
		for _, pattern := range patterns {
			if strings.Contains(key, pattern) {
				c.removeElement(element)
				break
			}
		}
	}
}

// Size returns the current live entry count.
//
// The count is not expiry-filtered: entries past their TTL remain counted
// until a read or eviction removes them.
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// evictOldest drops the least-recently-used entry. Caller holds the lock.
func (c *Cache[V]) evictOldest() {
	if oldest := c.order.Back(); oldest != nil {
		c.removeElement(oldest)
	}
}

// removeElement unlinks an entry from both structures. Caller holds the lock.
func (c *Cache[V]) removeElement(element *list.Element) {
	c.order.Remove(element)
	delete(c.items, element.Value.(*entry[V]).key)
}
