// Package query implements the client-side cache for read results, keyed
// by structured query keys, with targeted invalidation after mutations.
// Invalidated entries stay readable as stale data until the next
// successful refetch, and a response fetched before an invalidation can
// never overwrite the newer state it raced with.
package query

import (
	"context"
	"strings"
	"sync"
)

type entry struct {
	value    any
	hasValue bool
	fresh    bool
	version  uint64
}

type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
	}
}

// Get returns the cached value for key, whether one exists, and whether it
// is still fresh. Stale values remain readable for stale-while-revalidate
// display.
func (c *Cache) Get(key Key) (any, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !e.hasValue {
		return nil, false, false
	}

	return e.value, true, e.fresh
}

// Version returns the invalidation counter for key. Callers capture it
// before fetching and hand it back to Put.
func (c *Cache) Version(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e.version
	}

	return 0
}

// Put stores value under key, unless the key was invalidated after version
// was captured; a superseded response is discarded so it cannot overwrite
// newer state. Reports whether the value was stored.
func (c *Cache) Put(key Key, version uint64, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	if e.version != version {
		return false
	}

	e.value = value
	e.hasValue = true
	e.fresh = true

	return true
}

// Invalidate marks the entry for key stale, so the next read refetches.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidateLocked(key)
}

// InvalidatePrefix marks every entry whose key starts with prefix stale.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(string(key), prefix) {
			c.invalidateLocked(key)
		}
	}
}

// Clear drops everything, e.g. on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
}

func (c *Cache) invalidateLocked(key Key) {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.fresh = false
	e.version++
}

// Resolve returns the fresh cached value for key or runs fetch and caches
// its result. A cancelled or invalidated-during-flight fetch never
// overwrites newer state.
func Resolve[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok, fresh := c.Get(key); ok && fresh {
		return v.(T), nil
	}

	version := c.Version(key)

	out, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if ctx.Err() != nil {
		var zero T
		return zero, ctx.Err()
	}

	c.Put(key, version, out)

	return out, nil
}

// Cached returns the last known value for key, fresh or stale. It backs
// the stale-while-revalidate surface: callers may keep showing it while a
// refetch is underway or after one failed.
func Cached[T any](c *Cache, key Key) (T, bool) {
	v, ok, _ := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}

	return v.(T), true
}
