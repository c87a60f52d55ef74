package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching tool responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a namespaced cache key from a request identifier
// (search query, quote URL, ...).
func Key(id string) string {
	hash := sha256.Sum256([]byte(id))
	return "finbrief:v1:" + hex.EncodeToString(hash[:])
}
