package providers

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by Get when the key is not cached
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache; a missing key returns ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// SetNX stores a value only when the key is absent and reports whether it did
	SetNX(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error)

	// CompareAndSwap replaces the value only while the key still holds expected
	CompareAndSwap(ctx context.Context, key string, expected, value []byte, expirationSeconds int) (bool, error)

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error
}

// Override cache keys are shared by the cached override store, the warmer and
// the invalidation listener.
const overrideCachePrefix = "prompt_override:"

// OverrideCacheKey returns the cache key of a stage's override row
func OverrideCacheKey(stageID string) string {
	return overrideCachePrefix + stageID
}

// OverrideCachePattern matches every cached override row
func OverrideCachePattern() string {
	return overrideCachePrefix + "*"
}

// A fill lease is parked on a missing key by the reader about to populate it
// from the store. The reader swaps its row in only if the lease is still there;
// any write or delete in between replaces the lease and the stale row is
// dropped.
const fillLeasePrefix = "lease:"

// FillLeaseSeconds bounds how long an abandoned lease blocks population.
const FillLeaseSeconds = 10

// NewFillLease returns a unique lease value
func NewFillLease() []byte {
	return []byte(fillLeasePrefix + uuid.NewString())
}

// IsFillLease reports whether a cached value is a lease rather than data
func IsFillLease(value []byte) bool {
	return bytes.HasPrefix(value, []byte(fillLeasePrefix))
}
