package repositories

import (
	"context"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// SearchRepository wraps the database search routines
type SearchRepository interface {
	// SearchBusinesses calls sp_search_businesses and returns every match
	SearchBusinesses(ctx context.Context, criteria SearchCriteria) ([]*entities.BusinessDTO, error)

	// NearbyBusinesses calls sp_get_nearby_businesses
	NearbyBusinesses(ctx context.Context, query NearbyQuery) ([]*entities.NearbyBusinessRow, error)

	// QuickSearch matches term against name or description of active businesses
	QuickSearch(ctx context.Context, term string, limit int) ([]*entities.BusinessDTO, error)
}

// SearchCriteria are the stored function parameters. Empty values are
// passed as NULL.
type SearchCriteria struct {
	SearchTerm string
	City       string
	CategoryID string
}

// NearbyQuery are the geo search parameters
type NearbyQuery struct {
	Latitude   float64
	Longitude  float64
	RadiusInKm float64
	CategoryID string
}
