package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlocalbusiness/backend/internal/domain/providers"
)

// unreachableClient fails every command without a server
func unreachableClient(t *testing.T) redis.UniversalClient {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisAdapter_Namespace(t *testing.T) {
	tests := []struct {
		namespace string
		want      string
	}{
		{"", "slb:business:42"},
		{"  ", "slb:business:42"},
		{"staging", "staging:business:42"},
		{"staging:", "staging:business:42"},
	}
	for _, tt := range tests {
		a := newRedisAdapter(nil, tt.namespace)
		assert.Equal(t, tt.want, a.key("business:42"), "namespace %q", tt.namespace)
	}
}

func TestEntryTTL(t *testing.T) {
	ttl, ok := entryTTL(1800)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Minute, ttl)

	_, ok = entryTTL(0)
	assert.False(t, ok)
	_, ok = entryTTL(-1)
	assert.False(t, ok)
}

func TestRedisAdapter_SetWithoutTTLSkipsWrite(t *testing.T) {
	a := newRedisAdapter(unreachableClient(t), "")

	// no command is sent, so the dead connection never surfaces
	assert.NoError(t, a.Set(context.Background(), "business:1", []byte("{}"), 0))
}

func TestRedisAdapter_ConnectionErrorsAreNotMisses(t *testing.T) {
	a := newRedisAdapter(unreachableClient(t), "")
	ctx := context.Background()

	_, err := a.Get(ctx, "business:1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, providers.ErrCacheMiss))
	assert.Contains(t, err.Error(), "business:1")

	assert.Error(t, a.Set(ctx, "business:1", []byte("{}"), 60))
	assert.Error(t, a.Delete(ctx, "business:1"))

	exists, err := a.Exists(ctx, "business:1")
	assert.Error(t, err)
	assert.False(t, exists)
}
