package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/adapters/database"
	"github.com/smartlocalbusiness/backend/internal/api/handlers"
	"github.com/smartlocalbusiness/backend/internal/api/routes"
	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/server"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("User service exited")
	}
}

func run(ctx context.Context) error {
	rt, err := server.Bootstrap(ctx, "user-service", 5001)
	if err != nil {
		return err
	}
	defer rt.Close()

	pgClient, err := rt.ConnectPostgres(ctx)
	if err != nil {
		return err
	}

	tokens := rt.Tokens()
	userService := services.NewUserService(database.NewUserAdapter(pgClient), tokens, rt.Config.Auth.BcryptCost)

	router := routes.NewRouter(routes.Options{
		AllowedOrigins: rt.Config.CORS.AllowedOrigins,
		Verifier:       tokens,
		EnforceAuth:    rt.Config.Auth.Enforce,
		Metrics:        rt.Metrics,
	})
	router.RegisterUserRoutes(handlers.NewUserHandler(userService))

	return rt.ListenAndServe(ctx, router.Handler())
}
