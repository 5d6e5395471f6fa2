package cache

import (
	"container/list"
	"sync"
	"time"
)

type lruEntry struct {
	key       string
	value     interface{}
	expiresAt time.Time // zero: never
}

// LRUCache evicts the least recently used entry once MaxSize is reached.
// Expired entries are dropped lazily on access.
type LRUCache struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // front is most recently used
	hits    int64
	misses  int64
	evicted int64
}

// NewLRUCache creates a cache. MaxSize below 1 is treated as 1.
func NewLRUCache(config Config) *LRUCache {
	if config.MaxSize < 1 {
		config.MaxSize = 1
	}
	return &LRUCache{
		config: config,
		now:    time.Now,
		items:  make(map[string]*list.Element),
		order:  list.New(),
	}
}

// Get returns the value for key if present and not expired.
func (c *LRUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	entry := element.Value.(*lruEntry)
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.removeLocked(element)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(element)
	c.hits++
	return entry.value, true
}

// Set stores value with the default TTL.
func (c *LRUCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value, expiring it after ttl. A ttl of zero never expires.
func (c *LRUCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if element, ok := c.items[key]; ok {
		entry := element.Value.(*lruEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(element)
		return
	}

	c.items[key] = c.order.PushFront(&lruEntry{key: key, value: value, expiresAt: expiresAt})
	for c.order.Len() > c.config.MaxSize {
		c.removeLocked(c.order.Back())
		c.evicted++
	}
}

// Delete removes key if present.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		c.removeLocked(element)
	}
}

// Purge drops every entry. Statistics are kept.
func (c *LRUCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of stored entries, including expired ones not yet
// touched.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns cache statistics
func (c *LRUCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evicted,
		Size:      len(c.items),
		MaxSize:   c.config.MaxSize,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// removeLocked removes an element; the caller holds mu.
func (c *LRUCache) removeLocked(element *list.Element) {
	delete(c.items, element.Value.(*lruEntry).key)
	c.order.Remove(element)
}
