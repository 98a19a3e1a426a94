package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/adapters/database"
	"github.com/smartlocalbusiness/backend/internal/adapters/events"
	"github.com/smartlocalbusiness/backend/internal/adapters/search"
	"github.com/smartlocalbusiness/backend/internal/api/handlers"
	"github.com/smartlocalbusiness/backend/internal/api/routes"
	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/typesense"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/server"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Search service exited")
	}
}

func run(ctx context.Context) error {
	rt, err := server.Bootstrap(ctx, "search-service", 5003)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.Config

	pgClient, err := rt.ConnectPostgres(ctx)
	if err != nil {
		return err
	}
	businessRepo := database.NewBusinessAdapter(pgClient)

	var index providers.BusinessSearchIndex
	if cfg.Typesense.Enabled {
		index = startIndex(ctx, rt, businessRepo)
	}

	searchService := services.NewSearchService(database.NewSearchAdapter(pgClient), index, cfg.Search.QuickLimit)

	router := routes.NewRouter(routes.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Verifier:       rt.Tokens(),
		EnforceAuth:    cfg.Auth.Enforce,
		Metrics:        rt.Metrics,
	})
	router.RegisterSearchRoutes(handlers.NewSearchHandler(searchService))

	return rt.ListenAndServe(ctx, router.Handler())
}

// startIndex connects Typesense and starts index maintenance. It returns
// nil when the index is unavailable so quick search uses the database.
func startIndex(ctx context.Context, rt *server.Runtime, businessRepo repositories.BusinessRepository) providers.BusinessSearchIndex {
	cfg := rt.Config

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable, quick search uses the database")
		return nil
	}
	adapter := search.NewTypesenseAdapter(tsClient)

	var eventBus providers.EventBus
	redisClient, err := rt.ConnectRedis()
	if err != nil {
		log.Warn().Err(err).Msg("Search index will refresh on schedule only")
	} else if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		rt.OnClose(func(context.Context) error { return eventBus.Close() })
	}

	indexer := services.NewSearchIndexService(businessRepo, adapter, eventBus, cfg.Search.ReindexWorkers, cfg.Search.ReindexCron)
	if _, err := indexer.Reindex(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial search reindex failed")
	}
	if err := indexer.Start(); err != nil {
		log.Warn().Err(err).Msg("Search index service not started")
		return adapter
	}
	rt.OnClose(func(context.Context) error {
		indexer.Stop()
		return nil
	})
	return adapter
}
