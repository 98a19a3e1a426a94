package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/postgres"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/redis"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/observability"
	"github.com/smartlocalbusiness/backend/pkg/auth"
	"github.com/smartlocalbusiness/backend/pkg/config"
)

// Runtime is the process-wide state every binary starts with
type Runtime struct {
	Config  *config.Config
	Metrics *observability.Metrics

	closers []func(context.Context) error
}

// Bootstrap loads configuration for one service, initializes the logger
// and, when enabled, OpenTelemetry export.
func Bootstrap(ctx context.Context, serviceName string, defaultPort int) (*Runtime, error) {
	cfg, err := config.LoadForService(serviceName, defaultPort)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment, cfg.Log)

	rt := &Runtime{Config: cfg}
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			rt.closers = append(rt.closers, shutdown)
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	rt.Metrics = metrics
	return rt, nil
}

// OnClose registers fn to run, in reverse order, from Close
func (rt *Runtime) OnClose(fn func(context.Context) error) {
	rt.closers = append(rt.closers, fn)
}

// Close releases everything registered with OnClose
func (rt *Runtime) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("Error during shutdown")
		}
	}
}

// ConnectPostgres opens the database, which retries its initial ping, and
// applies the schema when DB_AUTO_MIGRATE is set
func (rt *Runtime) ConnectPostgres(ctx context.Context) (*postgres.Client, error) {
	client, err := postgres.NewClient(&rt.Config.Database)
	if err != nil {
		return nil, err
	}
	rt.OnClose(func(context.Context) error { return client.Close() })
	client.SetMetrics(rt.Metrics)

	if rt.Config.Database.AutoMigrate {
		if err := client.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		log.Info().Msg("Database schema applied")
	}
	return client, nil
}

// ConnectRedis returns nil, nil when Redis is disabled
func (rt *Runtime) ConnectRedis() (*redis.Client, error) {
	if !rt.Config.Redis.Enabled {
		log.Info().Msg("Redis disabled")
		return nil, nil
	}
	client, err := redis.NewClient(&rt.Config.Redis)
	if err != nil {
		return nil, err
	}
	rt.OnClose(func(context.Context) error { return client.Close() })
	return client, nil
}

// Tokens returns the JWT manager built from AUTH settings
func (rt *Runtime) Tokens() *auth.TokenManager {
	a := rt.Config.Auth
	return auth.NewTokenManager(a.JWTSecret, a.Issuer, a.Audience, a.TokenExpiry)
}

// ListenAndServe runs handler on the configured address
func (rt *Runtime) ListenAndServe(ctx context.Context, handler http.Handler) error {
	return Run(ctx, rt.Config.Server.Addr(), handler)
}
