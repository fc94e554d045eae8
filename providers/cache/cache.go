// Package cache provides the time-bounded memoization layer used in front of
// the external data providers. It is injected rather than module-global so it
// can be swapped or cleared in tests.
package cache

import (
	"context"
	"time"
)

// Cache defines generic byte cache operations with per-entry TTL
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
}
