//go:build integration

package events_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlocalbusiness/backend/internal/adapters/cache"
	"github.com/smartlocalbusiness/backend/internal/adapters/events"
	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/redis"
	"github.com/smartlocalbusiness/backend/pkg/config"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	port, _ := strconv.Atoi(getEnv("TEST_REDIS_PORT", "6379"))
	client, err := redis.NewClient(&config.RedisConfig{
		Host: getEnv("TEST_REDIS_HOST", "localhost"),
		Port: port,
	})
	require.NoError(t, err, "Failed to create redis client")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func waitForEvent(t *testing.T, ch <-chan *entities.BusinessEvent) *entities.BusinessEvent {
	t.Helper()
	select {
	case event := <-ch:
		require.NotNil(t, event)
		return event
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for business event")
		return nil
	}
}

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	redisClient := newTestRedisClient(t)

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := eventBus.Subscribe(ctx1, providers.EventChannelBusinessUpdates)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx2, providers.EventChannelBusinessUpdates)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewBusinessEvent("biz-redis-1", entities.BusinessEventRatingUpdated, map[string]interface{}{
		"rating":       4.5,
		"totalReviews": float64(2),
	})
	require.NoError(t, eventBus.Publish(context.Background(), providers.EventChannelBusinessUpdates, event))

	received1 := waitForEvent(t, sub1)
	received2 := waitForEvent(t, sub2)
	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	assert.Equal(t, 4.5, received1.ChangedFields["rating"])
}

func TestCacheInvalidationOverRedisIntegration(t *testing.T) {
	redisClient := newTestRedisClient(t)
	ctx := context.Background()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()
	cacheProvider := cache.NewRedisAdapter(redisClient, "slb-test")

	key := services.BusinessCacheKey("biz-redis-2")
	require.NoError(t, cacheProvider.Set(ctx, key, []byte(`{"businessId":"biz-redis-2"}`), 60))
	raw, err := redisClient.Client().Exists(ctx, "slb-test:"+key).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), raw)

	invalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
	require.NoError(t, invalidation.Start())
	defer invalidation.Stop()
	time.Sleep(50 * time.Millisecond)

	event := entities.NewBusinessEvent("biz-redis-2", entities.BusinessEventRatingUpdated, nil)
	require.NoError(t, eventBus.Publish(ctx, providers.EventChannelBusinessUpdates, event))

	assert.Eventually(t, func() bool {
		exists, err := cacheProvider.Exists(ctx, key)
		return err == nil && !exists
	}, 3*time.Second, 50*time.Millisecond)
}
