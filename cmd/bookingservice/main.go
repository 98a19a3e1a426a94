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
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/rabbitmq"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/server"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Booking service exited")
	}
}

func run(ctx context.Context) error {
	rt, err := server.Bootstrap(ctx, "booking-service", 5004)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.Config

	pgClient, err := rt.ConnectPostgres(ctx)
	if err != nil {
		return err
	}

	var publisher providers.BookingEventPublisher = events.NoopBookingPublisher{}
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(&cfg.RabbitMQ)
		if err != nil {
			log.Warn().Err(err).Msg("Booking events disabled")
		} else {
			publisher = events.NewRabbitMQPublisher(mq)
			log.Info().Str("queue", mq.Queue()).Msg("Publishing booking events")
		}
	}
	rt.OnClose(func(context.Context) error { return publisher.Close() })

	bookingService := services.NewBookingService(database.NewBookingAdapter(pgClient), publisher, rt.Metrics)

	router := routes.NewRouter(routes.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Verifier:       rt.Tokens(),
		EnforceAuth:    cfg.Auth.Enforce,
		Metrics:        rt.Metrics,
	})
	router.RegisterBookingRoutes(handlers.NewBookingHandler(bookingService))

	return rt.ListenAndServe(ctx, router.Handler())
}
