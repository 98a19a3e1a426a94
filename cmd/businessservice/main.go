package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/adapters/cache"
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
		log.Fatal().Err(err).Msg("Business service exited")
	}
}

func run(ctx context.Context) error {
	rt, err := server.Bootstrap(ctx, "business-service", 5002)
	if err != nil {
		return err
	}
	defer rt.Close()

	pgClient, err := rt.ConnectPostgres(ctx)
	if err != nil {
		return err
	}

	// Redis is optional; without it reads go straight to the database
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	redisClient, err := rt.ConnectRedis()
	if err != nil {
		log.Warn().Err(err).Msg("Continuing without cache and event bus")
	} else if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient, rt.Config.Redis.KeyPrefix)
		eventBus = events.NewRedisEventBus(redisClient)
		rt.OnClose(func(context.Context) error { return eventBus.Close() })

		invalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("Cache invalidation service not started")
		} else {
			rt.OnClose(func(context.Context) error {
				invalidation.Stop()
				return nil
			})
		}
	}

	businessService := services.NewBusinessService(
		database.NewBusinessAdapter(pgClient),
		cacheProvider,
		rt.Config.Cache.BusinessTTL,
		eventBus,
		rt.Metrics,
	)
	categoryService := services.NewCategoryService(database.NewCategoryAdapter(pgClient))
	catalogService := services.NewServiceCatalogService(database.NewServiceAdapter(pgClient))

	router := routes.NewRouter(routes.Options{
		AllowedOrigins: rt.Config.CORS.AllowedOrigins,
		Verifier:       rt.Tokens(),
		EnforceAuth:    rt.Config.Auth.Enforce,
		Metrics:        rt.Metrics,
	})
	router.RegisterBusinessRoutes(
		handlers.NewBusinessHandler(businessService),
		handlers.NewCategoryHandler(categoryService),
		handlers.NewServiceHandler(catalogService),
	)

	return rt.ListenAndServe(ctx, router.Handler())
}
