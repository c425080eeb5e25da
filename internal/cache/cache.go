// Package cache provides the response cache used by the verification client
// for GET requests (case-name search, opinion fetch). Lookup POSTs are never
// cached; the client decides what goes in.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the caching contract.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a request URL.
func Key(requestURL string) string {
	sum := sha256.Sum256([]byte(requestURL))
	return "citehound:v1:" + hex.EncodeToString(sum[:])
}
