package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/adapters/database"
	"github.com/smartlocalbusiness/backend/internal/adapters/events"
	"github.com/smartlocalbusiness/backend/internal/api/handlers"
	"github.com/smartlocalbusiness/backend/internal/api/routes"
	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/server"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Review service exited")
	}
}

func run(ctx context.Context) error {
	rt, err := server.Bootstrap(ctx, "review-service", 5005)
	if err != nil {
		return err
	}
	defer rt.Close()

	pgClient, err := rt.ConnectPostgres(ctx)
	if err != nil {
		return err
	}

	// Rating changes are announced so the business service drops its cache
	var eventBus providers.EventBus
	redisClient, err := rt.ConnectRedis()
	if err != nil {
		log.Warn().Err(err).Msg("Rating updates will not be announced")
	} else if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		rt.OnClose(func(context.Context) error { return eventBus.Close() })
	}

	reviewService := services.NewReviewService(
		database.NewReviewAdapter(pgClient),
		database.NewBusinessAdapter(pgClient),
		eventBus,
		rt.Metrics,
	)

	router := routes.NewRouter(routes.Options{
		AllowedOrigins: rt.Config.CORS.AllowedOrigins,
		Verifier:       rt.Tokens(),
		EnforceAuth:    rt.Config.Auth.Enforce,
		Metrics:        rt.Metrics,
	})
	router.RegisterReviewRoutes(handlers.NewReviewHandler(reviewService))

	return rt.ListenAndServe(ctx, router.Handler())
}
