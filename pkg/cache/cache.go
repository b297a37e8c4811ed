package cache

import (
	"sync"
	"time"
)

type item struct {
	value     interface{}
	expiresAt time.Time
}

func (it *item) expired() bool {
	return time.Now().After(it.expiresAt)
}

// Cache is a thread-safe in-memory cache with TTL support
type Cache struct {
	items           map[string]*item
	mu              sync.RWMutex
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// NewCache creates a new cache with default TTL
func NewCache(defaultTTL time.Duration) *Cache {
	c := &Cache{
		items:           make(map[string]*item),
		defaultTTL:      defaultTTL,
		cleanupInterval: defaultTTL / 2,
		stopCleanup:     make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Get retrieves a value from cache
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, exists := c.items[key]
	if !exists || it.expired() {
		return nil, false
	}

	return it.value, true
}

// Set stores a value with the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &item{
		value:     value,
		expiresAt: time.Now().Add(c.defaultTTL),
	}
}

// Delete removes a key from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Size returns the number of entries, including not-yet-collected expired ones
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop terminates the background cleanup goroutine
func (c *Cache) Stop() {
	close(c.stopCleanup)
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			for key, it := range c.items {
				if it.expired() {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}
