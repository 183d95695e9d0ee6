// Package cache stores raw inference responses keyed by prompt so that
// re-running ingestion over unchanged statements avoids duplicate calls.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a prompt
func Key(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return "specsift:v1:" + hex.EncodeToString(hash[:])
}
