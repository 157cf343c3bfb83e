// Package cache provides a small LRU-evicting, TTL-expiring map.
//
// It is deliberately generic over its key and value types: the teacher
// repo's cache keyed (dns.Question, server address) pairs to *dns.Msg for a
// persistent, cross-invocation resolver cache. This package's caller
// (ResolverGroup) has no such cache — spec §1 rules out "local cache across
// process invocations; no persistent state" — so a Cache here is created
// fresh for the lifetime of a single ResolverGroup.Lookup call and exists
// only to de-duplicate (resolver, query) pairs scheduled more than once
// within that one call. Tasks built from a MultiQuery never repeat a pair,
// so in this module the memo only takes effect for a task list that repeats
// one.
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

type item[V any] struct {
	value   V
	addedAt time.Time
	ttl     time.Duration
	elem    *list.Element
}

// Cache is a fixed-capacity, LRU-evicting, TTL-expiring map. All methods are
// safe for concurrent use.
type Cache[K comparable, V any] struct {
	maxSize int
	mu      sync.Mutex
	items   map[K]item[V]
	lru     *list.List // list of K
}

// New returns an empty Cache that holds at most maxSize entries, evicting
// the least-recently-used entry once that bound is exceeded.
func New[K comparable, V any](maxSize int) *Cache[K, V] {
	return &Cache[K, V]{
		maxSize: maxSize,
		items:   map[K]item[V]{},
		lru:     list.New(),
	}
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.items = map[K]item[V]{}
	c.lru.Init()
	c.mu.Unlock()
}

// Get returns the cached value for key and true, or the zero value and
// false if key is absent or its TTL has elapsed.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return zero, false
	}

	if it.addedAt.Add(it.ttl).Before(now) {
		c.lru.Remove(it.elem)
		delete(c.items, key)
		return zero, false
	}

	c.lru.MoveToBack(it.elem)
	return it.value, true
}

// Set stores value for key with the given ttl, evicting the
// least-recently-used entry if the cache is now over capacity.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it := c.items[key]
	it.value = value
	it.addedAt = time.Now()
	it.ttl = ttl
	if it.elem == nil {
		it.elem = c.lru.PushBack(key)
	} else {
		c.lru.MoveToBack(it.elem)
	}

	c.items[key] = it

	c.prune()

	if c.lru.Len() != len(c.items) {
		panic(fmt.Sprintf("map and list out of sync: len(map)=%d, len(list)=%d", len(c.items), c.lru.Len()))
	}
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[K, V]) prune() {
	for len(c.items) > c.maxSize {
		elem := c.lru.Front()
		key := elem.Value.(K)

		delete(c.items, key)
		c.lru.Remove(elem)
	}
}
