package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/adapters/database"
	"github.com/smartlocalbusiness/backend/internal/adapters/search"
	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/typesense"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/server"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "drop the businesses collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		var err error
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("Invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := server.Bootstrap(ctx, "search-indexer", 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start indexer")
	}
	defer rt.Close()

	pgClient, err := rt.ConnectPostgres(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to PostgreSQL")
		return
	}
	tsClient, err := typesense.NewClient(&rt.Config.Typesense)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to Typesense")
		return
	}

	adapter := search.NewTypesenseAdapter(tsClient)
	indexer := services.NewSearchIndexService(
		database.NewBusinessAdapter(pgClient),
		adapter,
		nil,
		rt.Config.Search.ReindexWorkers,
		"",
	)

	for {
		if reset {
			if err := adapter.Reset(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to reset collection")
			}
			reset = false
		}

		if _, err := indexer.Reindex(ctx); err != nil {
			log.Error().Err(err).Msg("Reindex failed")
		}

		if interval <= 0 {
			return
		}

		log.Info().Dur("next_run_in", interval).Msg("Reindex complete")
		select {
		case <-ctx.Done():
			log.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}
