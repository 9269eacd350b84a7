// Package cache provides an LRU cache with TTL support, used to keep
// prepared statements per rendered SQL text.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// EvictFunc is called with every entry that leaves the cache, whether it was
// evicted, expired, invalidated or cleared. It runs with the cache lock held
// and must not call back into the cache.
type EvictFunc[V any] func(key string, value V)

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
	HitRate   float64
}

// LRU implements an LRU cache with TTL support
type LRU[V any] struct {
	mu         sync.Mutex
	data       map[string]*node[V]
	maxSize    int
	defaultTTL time.Duration
	head       *node[V]
	tail       *node[V]
	stats      Stats
	onEvict    EvictFunc[V]
	now        func() time.Time
}

type node[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *node[V]
	next      *node[V]
}

// New creates an LRU cache holding at most maxSize entries. A zero
// defaultTTL keeps entries until they are evicted.
func New[V any](maxSize int, defaultTTL time.Duration, onEvict EvictFunc[V]) *LRU[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRU[V]{
		data:       make(map[string]*node[V]),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		stats:      Stats{MaxSize: maxSize},
		onEvict:    onEvict,
		now:        time.Now,
	}
}

// Get retrieves a value from the cache
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	n, ok := c.data[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}

	if !n.expiresAt.IsZero() && c.now().After(n.expiresAt) {
		c.remove(n)
		c.stats.Misses++
		return zero, false
	}

	c.moveToFront(n)
	c.stats.Hits++
	return n.value, true
}

// Set stores a value in the cache. A zero ttl uses the default TTL.
// Replacing a value reports the old one to the eviction callback.
func (c *LRU[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value, ttl)
}

// SetIfAbsent stores value unless key holds an unexpired value. It returns
// the value kept in the cache and whether it was already present.
func (c *LRU[V]) SetIfAbsent(key string, value V, ttl time.Duration) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.data[key]; ok {
		if n.expiresAt.IsZero() || !c.now().After(n.expiresAt) {
			c.moveToFront(n)
			return n.value, true
		}
		c.remove(n)
	}
	c.set(key, value, ttl)
	return value, false
}

func (c *LRU[V]) set(key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if n, exists := c.data[key]; exists {
		old := n.value
		n.value = value
		n.expiresAt = expiresAt
		c.moveToFront(n)
		if c.onEvict != nil {
			c.onEvict(key, old)
		}
		return
	}

	if len(c.data) >= c.maxSize && c.tail != nil {
		c.remove(c.tail)
		c.stats.Evictions++
	}

	n := &node[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(n)
	c.data[key] = n
}

// Invalidate removes a specific key from the cache
func (c *LRU[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.data[key]; ok {
		c.remove(n)
	}
}

// Clear removes all entries from the cache and resets the statistics
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.tail != nil {
		c.remove(c.tail)
	}
	c.stats = Stats{MaxSize: c.maxSize}
}

// Len returns the number of entries, expired ones included
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// GetStats returns cache statistics
func (c *LRU[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.data)
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	return stats
}

func (c *LRU[V]) addToFront(n *node[V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRU[V]) moveToFront(n *node[V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.addToFront(n)
}

func (c *LRU[V]) unlink(n *node[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// remove unlinks n, drops it from the index and reports it to onEvict.
func (c *LRU[V]) remove(n *node[V]) {
	c.unlink(n)
	delete(c.data, n.key)
	if c.onEvict != nil {
		c.onEvict(n.key, n.value)
	}
}

// StatementKey derives the cache key of a rendered statement for a provider.
func StatementKey(provider, sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return provider + ":" + hex.EncodeToString(sum[:])[:16]
}
