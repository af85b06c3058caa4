package utils

import (
	"os"
	"sync"
	"time"
)

// CacheItem is a cached value together with the file state it was derived from
type CacheItem[T any] struct {
	Value   T
	ModTime time.Time
	Size    int64
}

// Cache is a generic cache whose entries can be tied to a file on disk
type Cache[K comparable, V any] struct {
	items map[K]*CacheItem[V]
	mutex sync.RWMutex

	hits          int
	misses        int
	invalidations int
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*CacheItem[V]),
	}
}

// GetWithFileValidation returns the cached value only while filePath keeps the
// modification time and size recorded by SetWithFileInfo. Stale entries are dropped.
func (c *Cache[K, V]) GetWithFileValidation(key K, filePath string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		c.count(&c.misses)
		return zero, false
	}

	if stat, err := os.Stat(filePath); err == nil {
		if stat.ModTime().Equal(item.ModTime) && stat.Size() == item.Size {
			c.count(&c.hits)
			return item.Value, true
		}
	}

	c.invalidate(key, item)
	return zero, false
}

// invalidate drops item only if it is still the entry stored under key.
// A concurrent SetWithFileInfo may have replaced it since it was checked.
func (c *Cache[K, V]) invalidate(key K, item *CacheItem[V]) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.items[key] == item {
		delete(c.items, key)
	}
	c.invalidations++
	c.misses++
}

func (c *Cache[K, V]) count(counter *int) {
	c.mutex.Lock()
	*counter++
	c.mutex.Unlock()
}

// SetWithFileInfo stores an item together with the current state of filePath
func (c *Cache[K, V]) SetWithFileInfo(key K, value V, filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &CacheItem[V]{
		Value:   value,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}

	return nil
}

// GetStats returns cache statistics
func (c *Cache[K, V]) GetStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return CacheStats{
		Size:          len(c.items),
		Hits:          c.hits,
		Misses:        c.misses,
		Invalidations: c.invalidations,
	}
}

// CacheStats provides cache statistics
type CacheStats struct {
	Size          int
	Hits          int
	Misses        int
	Invalidations int
}
