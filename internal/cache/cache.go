// Package cache provides the probe-result cache. A short-TTL cache in front
// of the URL probe keeps repeated re-verification of the same citation list
// from re-hitting the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface shared by the memory, disk and layered caches
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a URL
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "veracity:v1:" + hex.EncodeToString(sum[:])
}
