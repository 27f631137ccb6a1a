// Package cache memoizes ephemeris lookups for the lifetime of a run or batch.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey builds a namespaced key from its parts, e.g. ("pos", "Mars", "1996-09-06T15:32:36Z")
func CacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "almuten:v1:" + hex.EncodeToString(hash[:])
}
