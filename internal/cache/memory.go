package cache

import (
	"sync"
	"time"
)

// cacheItem represents a single cached message with expiration
type cacheItem struct {
	Value      string
	Expiration time.Time
}

// MessageCache is a thread-safe in-memory cache with TTL support, used to
// avoid regenerating short-lived assistant text (e.g. the daily motivation)
// on every request.
type MessageCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMessageCache creates a new in-memory message cache
func NewMessageCache() *MessageCache {
	cache := &MessageCache{
		data: make(map[string]cacheItem),
	}

	// Remove expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a value from the cache, ok=false on miss or expiry
func (c *MessageCache) Get(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return "", false
	}

	if time.Now().After(item.Expiration) {
		return "", false
	}

	return item.Value, true
}

// Set stores a value in the cache with TTL
func (c *MessageCache) Set(key, value string, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Value:      value,
		Expiration: time.Now().Add(ttl),
	}
}

// Delete removes a value from the cache
func (c *MessageCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
}

// Size returns the current number of items in the cache
func (c *MessageCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MessageCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

func (c *MessageCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
