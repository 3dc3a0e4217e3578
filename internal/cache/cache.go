// Package cache stores rendered page bytes under string keys with a TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

// Store is a process-wide key/value cache for rendered pages
type Store interface {
	// Get returns the cached value and whether it was present and fresh
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry owned by the store
	Clear(ctx context.Context) error
}

// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
var ErrCacheDisabled = errors.New("cache is disabled")

// Checker is implemented by stores that can report whether their backend
// is reachable
type Checker interface {
	Health(ctx context.Context) error
}
