package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/smartlocalbusiness/backend/internal/domain/providers"
)

// TypedCache stores JSON-encoded values of T under string keys
type TypedCache[T any] struct {
	provider providers.CacheProvider
	ttl      time.Duration
}

// NewTypedCache binds a provider to a value type and default TTL
func NewTypedCache[T any](provider providers.CacheProvider, ttl time.Duration) *TypedCache[T] {
	return &TypedCache[T]{provider: provider, ttl: ttl}
}

// Get returns the cached value. ok is false on a miss; a corrupt entry is
// treated as a miss and removed.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (value *T, ok bool, err error) {
	data, err := c.provider.Get(ctx, key)
	if err == providers.ErrCacheMiss {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		_ = c.provider.Delete(ctx, key)
		return nil, false, nil
	}
	return &v, true, nil
}

// Set stores value with the default TTL
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.provider.Set(ctx, key, data, int(c.ttl.Seconds()))
}

// Remove deletes key
func (c *TypedCache[T]) Remove(ctx context.Context, key string) error {
	return c.provider.Delete(ctx, key)
}
