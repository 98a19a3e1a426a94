package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("CACHE_BUSINESS_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 30*time.Minute, cfg.Cache.BusinessTTL)
	assert.False(t, cfg.Auth.Enforce)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "booking.events", cfg.RabbitMQ.Queue)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("AUTH_ENFORCE", "true")
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	t.Setenv("TYPESENSE_API_KEY", "test-key")
	t.Setenv("RATE_LIMIT_REFILL_PER_SEC", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenExpiry)
	assert.True(t, cfg.Auth.Enforce)
	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
	assert.Equal(t, 2.5, cfg.RateLimit.RefillPerSec)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("JWT_EXPIRY", "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenExpiry)
}

func TestLoadForService(t *testing.T) {
	t.Run("applies default port and name", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "")
		t.Setenv("OTEL_SERVICE_NAME", "")

		cfg, err := LoadForService("booking-service", 5004)
		require.NoError(t, err)
		assert.Equal(t, 5004, cfg.Server.Port)
		assert.Equal(t, "booking-service", cfg.OTEL.ServiceName)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("OTEL_SERVICE_NAME", "custom")

		cfg, err := LoadForService("booking-service", 5004)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "custom", cfg.OTEL.ServiceName)
	})
}

func TestValidate(t *testing.T) {
	t.Run("development gets a fallback secret", func(t *testing.T) {
		cfg := &Config{Environment: "development", Auth: AuthConfig{BcryptCost: 10}, Cache: CacheConfig{BusinessTTL: time.Minute}}
		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.Auth.JWTSecret)
	})

	t.Run("production requires a secret", func(t *testing.T) {
		cfg := &Config{Environment: "production", Auth: AuthConfig{BcryptCost: 10}, Cache: CacheConfig{BusinessTTL: time.Minute}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out of range bcrypt cost", func(t *testing.T) {
		cfg := &Config{Environment: "development", Auth: AuthConfig{JWTSecret: "s", BcryptCost: 2}, Cache: CacheConfig{BusinessTTL: time.Minute}}
		assert.Error(t, cfg.Validate())
	})
}

func TestGatewayRoutes(t *testing.T) {
	g := GatewayConfig{
		UserServiceURL:     "http://u",
		BusinessServiceURL: "http://b",
		BookingServiceURL:  "http://k",
		ReviewServiceURL:   "http://r",
		SearchServiceURL:   "http://s",
	}

	routes := g.Routes()
	assert.Len(t, routes, 5)
	assert.Equal(t, "http://k", routes["/booking"])
	assert.Equal(t, "http://s", routes["/search"])
}
