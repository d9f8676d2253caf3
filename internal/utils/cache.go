package utils

import (
	"os"
	"sync"
	"time"
)

// FileStamp identifies one version of a file on disk
type FileStamp struct {
	ModTime time.Time
	Size    int64
}

// StatFile returns the current stamp of a file
func StatFile(path string) (FileStamp, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileStamp{}, err
	}
	return FileStamp{ModTime: stat.ModTime(), Size: stat.Size()}, nil
}

// Matches reports whether two stamps describe the same file version
func (s FileStamp) Matches(other FileStamp) bool {
	return s.ModTime.Equal(other.ModTime) && s.Size == other.Size
}

type cacheItem[V any] struct {
	value V
	stamp FileStamp
}

// Cache is a generic cache whose entries can be tied to the file they were
// loaded from and dropped once that file changes
type Cache[K comparable, V any] struct {
	items map[K]*cacheItem[V]
	mutex sync.RWMutex
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
	}
}

// Get retrieves an item without file validation
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if item, exists := c.items[key]; exists {
		return item.value, true
	}

	var zero V
	return zero, false
}

// GetWithFileValidation retrieves an item, evicting it when filePath changed
// since the item was stored
func (c *Cache[K, V]) GetWithFileValidation(key K, filePath string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if stamp, err := StatFile(filePath); err == nil && stamp.Matches(item.stamp) {
		return item.value, true
	}

	c.mutex.Lock()
	if current, ok := c.items[key]; ok && current == item {
		delete(c.items, key)
	}
	c.mutex.Unlock()

	return zero, false
}

// Set stores an item with no file stamp
func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &cacheItem[V]{value: value}
}

// SetWithFileInfo stores an item stamped with the current state of filePath
func (c *Cache[K, V]) SetWithFileInfo(key K, value V, filePath string) error {
	stamp, err := StatFile(filePath)
	if err != nil {
		return err
	}
	c.SetWithStamp(key, value, stamp)
	return nil
}

// SetWithStamp stores an item with an explicit file stamp
func (c *Cache[K, V]) SetWithStamp(key K, value V, stamp FileStamp) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &cacheItem[V]{value: value, stamp: stamp}
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[K]*cacheItem[V])
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}
