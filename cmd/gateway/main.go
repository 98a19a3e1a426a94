package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/api/middleware"
	"github.com/smartlocalbusiness/backend/internal/gateway"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/server"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Gateway exited")
	}
}

func run(ctx context.Context) error {
	rt, err := server.Bootstrap(ctx, "api-gateway", 5000)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.Config

	opts := gateway.Options{
		Routes:          cfg.Gateway.Routes(),
		UpstreamTimeout: cfg.Gateway.UpstreamTimeout,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		Metrics:         rt.Metrics,
	}

	if cfg.RateLimit.Enabled {
		redisClient, err := rt.ConnectRedis()
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("Rate limiting disabled")
		case redisClient == nil:
			log.Warn().Msg("Rate limiting needs Redis; disabled")
		default:
			opts.Limiter = middleware.NewRedisTokenBucket(redisClient.Client(), cfg.RateLimit)
			opts.RateCapacity = cfg.RateLimit.Capacity
			opts.RateFailOpen = cfg.RateLimit.FailOpen
			log.Info().
				Int("capacity", cfg.RateLimit.Capacity).
				Float64("refill_per_sec", cfg.RateLimit.RefillPerSec).
				Msg("Gateway rate limiting enabled")
		}
	}

	gw, err := gateway.New(opts)
	if err != nil {
		return err
	}
	return rt.ListenAndServe(ctx, gw.Handler())
}
