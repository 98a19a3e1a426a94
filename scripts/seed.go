package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/adapters/database"
	"github.com/smartlocalbusiness/backend/internal/adapters/search"
	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/postgres"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/typesense"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/observability"
	"github.com/smartlocalbusiness/backend/pkg/config"
)

type seedBusiness struct {
	category string
	input    services.CreateBusinessInput
	services []services.ServiceInput
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("seed", cfg.Environment, cfg.Log)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	ctx := context.Background()
	if err := pgClient.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reviews,
				bookings,
				services,
				businesses,
				categories,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	categoryRepo := database.NewCategoryAdapter(pgClient)
	businessRepo := database.NewBusinessAdapter(pgClient)

	userService := services.NewUserService(database.NewUserAdapter(pgClient), nil, cfg.Auth.BcryptCost)
	businessService := services.NewBusinessService(businessRepo, nil, cfg.Cache.BusinessTTL, nil, nil)
	catalogService := services.NewServiceCatalogService(database.NewServiceAdapter(pgClient))
	reviewService := services.NewReviewService(database.NewReviewAdapter(pgClient), businessRepo, nil, nil)

	// 1. Categories
	categoryIDs := map[string]string{}
	for _, c := range []struct{ name, description, icon string }{
		{"Restaurants", "Places to eat and drink", "utensils"},
		{"Salons", "Hair, nails and beauty", "scissors"},
		{"Plumbing", "Repairs and installations", "wrench"},
		{"Fitness", "Gyms and personal training", "dumbbell"},
	} {
		category := &entities.Category{
			ID:          uuid.NewString(),
			Name:        c.name,
			Description: c.description,
			Icon:        c.icon,
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			log.Warn().Err(err).Str("category", c.name).Msg("Failed to create category")
			continue
		}
		categoryIDs[c.name] = category.ID
	}

	// 2. Accounts
	owner, err := userService.Register(ctx, services.RegisterInput{
		Email:     "owner@smartlocal.test",
		Password:  "Owner123!",
		FirstName: "Olivia",
		LastName:  "Owner",
		UserType:  entities.UserTypeBusinessOwner,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create owner (run with RESET_DB=true to reseed)")
	}
	customer, err := userService.Register(ctx, services.RegisterInput{
		Email:     "customer@smartlocal.test",
		Password:  "Customer123!",
		FirstName: "Casey",
		LastName:  "Customer",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create customer")
	}

	// 3. Businesses and their services
	seeds := []seedBusiness{
		{
			category: "Restaurants",
			input: services.CreateBusinessInput{
				Name: "Corner Bistro", Description: "Seasonal plates and coffee",
				Address: "12 Main St", City: "Springfield", State: "IL", ZipCode: "62701",
				Latitude: 39.7990, Longitude: -89.6440, PhoneNumber: "217-555-0101",
				Email: "hello@cornerbistro.test",
			},
			services: []services.ServiceInput{
				{Name: "Table for two", Price: 0, DurationMinutes: 90},
				{Name: "Private dining room", Price: 150, DurationMinutes: 180},
			},
		},
		{
			category: "Salons",
			input: services.CreateBusinessInput{
				Name: "Shear Genius", Description: "Cuts, colour and styling",
				Address: "40 Oak Ave", City: "Springfield", State: "IL", ZipCode: "62702",
				Latitude: 39.8017, Longitude: -89.6500, PhoneNumber: "217-555-0133",
			},
			services: []services.ServiceInput{
				{Name: "Haircut", Price: 35, DurationMinutes: 45},
				{Name: "Colour", Price: 90, DurationMinutes: 120},
			},
		},
		{
			category: "Plumbing",
			input: services.CreateBusinessInput{
				Name: "Rapid Pipes", Description: "24/7 emergency plumbing",
				Address: "7 Elm Rd", City: "Chatham", State: "IL", ZipCode: "62629",
				Latitude: 39.6761, Longitude: -89.7043, PhoneNumber: "217-555-0177",
				Website: "https://rapidpipes.test",
			},
			services: []services.ServiceInput{
				{Name: "Leak inspection", Price: 60, DurationMinutes: 60},
			},
		},
		{
			category: "Fitness",
			input: services.CreateBusinessInput{
				Name: "Iron Works Gym", Description: "Strength training and classes",
				Address: "300 Adams St", City: "Springfield", State: "IL", ZipCode: "62701",
				Latitude: 39.8000, Longitude: -89.6480,
			},
			services: []services.ServiceInput{
				{Name: "Personal training", Price: 50, DurationMinutes: 60},
				{Name: "Day pass", Price: 15, DurationMinutes: 0},
			},
		},
	}

	for _, seed := range seeds {
		in := seed.input
		in.UserID = owner.ID
		in.CategoryID = categoryIDs[seed.category]

		business, err := businessService.Create(ctx, in)
		if err != nil {
			log.Warn().Err(err).Str("business", in.Name).Msg("Failed to create business")
			continue
		}

		for _, svc := range seed.services {
			svc.BusinessID = business.ID
			if _, err := catalogService.Create(ctx, svc); err != nil {
				log.Warn().Err(err).Str("service", svc.Name).Msg("Failed to create service")
			}
		}

		if _, err := reviewService.Add(ctx, services.AddReviewInput{
			BusinessID: business.ID,
			UserID:     customer.ID,
			Rating:     4 + len(seed.services)%2,
			ReviewText: "Friendly and on time.",
		}); err != nil {
			log.Warn().Err(err).Str("business", in.Name).Msg("Failed to add review")
		}
	}

	// 4. Search index, when configured
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping search index")
		} else {
			indexer := services.NewSearchIndexService(businessRepo, search.NewTypesenseAdapter(tsClient), nil, cfg.Search.ReindexWorkers, "")
			if _, err := indexer.Reindex(ctx); err != nil {
				log.Warn().Err(err).Msg("Search reindex failed")
			}
		}
	}

	log.Info().Int("businesses", len(seeds)).Msg("Seeding completed")
}
