package domain

import (
	"context"
	"time"
)

// Cache memoizes analysis results by user_id for the duration of a batch
// window, so re-runs and overlapping batches do not repeat the paid LLM
// call. Values are serialized ExportPayloads.
type Cache interface {
	// Get returns the cached value or nil on miss. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// CacheConfig holds configuration for cache initialization.
type CacheConfig struct {
	// Type is the cache type: "memory" or "redis"
	Type string

	// Local (LRU) settings
	LocalMaxSize int
	LocalTTL     time.Duration

	// Redis settings
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// EnableTwoPhase wraps Redis with a local LRU front.
	EnableTwoPhase bool

	// PayloadTTL bounds how long a memoized analysis stays valid.
	PayloadTTL time.Duration
}
