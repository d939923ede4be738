package cache

import (
	"time"

	"github.com/rotisserie/eris"
)

// LayeredCache checks memory first and falls back to disk,
// promoting disk hits into memory
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache creates a memory cache in front of a disk cache under dir
func NewLayeredCache(ttl time.Duration, dir string) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(ttl, 10*time.Minute),
		disk:   NewDiskCache(dir, ttl),
	}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}
	entry, ok := c.disk.read(key)
	if !ok {
		return nil, false
	}
	remaining := entry.ExpiresAt.Sub(c.disk.now())
	if remaining <= 0 {
		return nil, false
	}
	_ = c.memory.Set(key, entry.Data, remaining)
	return entry.Data, true
}

// GetStale serves the disk copy regardless of expiry
func (c *LayeredCache) GetStale(key string) ([]byte, time.Time, bool) {
	return c.disk.GetStale(key)
}

func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	if err := c.disk.Clear(); err != nil {
		return eris.Wrap(err, "clear disk cache")
	}
	return nil
}
