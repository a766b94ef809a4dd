package apiclient

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache stores fetched response bodies keyed by request path and collapses
// concurrent fetches of the same key into a single upstream call.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	group   singleflight.Group
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: map[string][]byte{}}
}

// Get returns the cached body for key
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.entries[key]
	return body, ok
}

// Fetch returns the cached body for key, or runs fn once to populate it.
// Concurrent callers with the same key share one fn invocation; only a
// successful result is cached.
func (c *Cache) Fetch(key string, fn func() ([]byte, error)) ([]byte, error) {
	if body, ok := c.Get(key); ok {
		return body, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if body, ok := c.Get(key); ok {
			return body, nil
		}
		body, err := fn()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = body
		c.mu.Unlock()
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops every entry whose key starts with prefix
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear drops all entries
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
