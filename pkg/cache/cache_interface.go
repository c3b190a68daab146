package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer.
// Redis in production, miniredis in tests.
type Cache interface {
	// Get loads key into dest.
	// found = false means a cache miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded) with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern (SCAN based).
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error

	// Counters used by rate limiting and token revocation
	// IncrementWindow bumps a counter and starts its window if none is set.
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}
