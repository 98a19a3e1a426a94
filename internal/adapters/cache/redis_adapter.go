package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	redisclient "github.com/smartlocalbusiness/backend/internal/infrastructure/clients/redis"
)

// DefaultNamespace prefixes every key this backend writes to Redis
const DefaultNamespace = "slb"

// RedisAdapter backs the read-through business cache. Keys are stored as
// <namespace>:<key> so several deployments can share one Redis database.
type RedisAdapter struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisAdapter creates a cache on client. An empty namespace means
// DefaultNamespace.
func NewRedisAdapter(client *redisclient.Client, namespace string) providers.CacheProvider {
	return newRedisAdapter(client.Client(), namespace)
}

func newRedisAdapter(client redis.UniversalClient, namespace string) *RedisAdapter {
	namespace = strings.TrimSuffix(strings.TrimSpace(namespace), ":")
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisAdapter{client: client, namespace: namespace}
}

func (a *RedisAdapter) key(key string) string {
	return a.namespace + ":" + key
}

// Get returns providers.ErrCacheMiss for absent or expired keys
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Get(ctx, a.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return result, nil
}

// Set stores value for expirationSeconds. Entries always expire: a
// non-positive expiration skips the write.
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	ttl, ok := entryTTL(expirationSeconds)
	if !ok {
		return nil
	}
	if err := a.client.Set(ctx, a.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete is a no-op for absent keys
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, a.key(key)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.client.Exists(ctx, a.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists %s: %w", key, err)
	}
	return n > 0, nil
}

func entryTTL(seconds int) (time.Duration, bool) {
	if seconds <= 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
