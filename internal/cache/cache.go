// Package cache stores directory snapshots in memory and on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented TTL cache
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// StaleReader is implemented by caches that keep expired entries around.
// GetStale ignores expiry and reports when the entry was stored.
type StaleReader interface {
	GetStale(key string) ([]byte, time.Time, bool)
}

// Key builds a cache key for a namespace and a source locator
// (file path, API URL or DSN). The locator is hashed so credentials in
// DSNs never reach file names.
func Key(namespace, source string) string {
	hash := sha256.Sum256([]byte(source))
	return "dartxbrl-" + namespace + "-v1-" + hex.EncodeToString(hash[:12])
}
