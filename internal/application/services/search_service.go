package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/pkg/validation"
)

const (
	// DefaultNearbyRadiusKm is used when a nearby query omits the radius
	DefaultNearbyRadiusKm = 10.0
	// DefaultQuickSearchLimit caps quick search results
	DefaultQuickSearchLimit = 5
)

// SearchRequest is the body of a full search
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
	City       string `json:"city"`
	CategoryID string `json:"categoryId" validate:"omitempty,uuid"`
	PageNumber int    `json:"pageNumber"`
	PageSize   int    `json:"pageSize"`
}

// NearbyRequest are the geo search parameters
type NearbyRequest struct {
	Latitude   float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" validate:"gte=-180,lte=180"`
	RadiusInKm float64 `json:"radiusInKm" validate:"gte=0"`
	CategoryID string  `json:"categoryId" validate:"omitempty,uuid"`
}

// NewNearbyRequest builds a query with the default radius
func NewNearbyRequest(latitude, longitude float64) NearbyRequest {
	return NearbyRequest{Latitude: latitude, Longitude: longitude, RadiusInKm: DefaultNearbyRadiusKm}
}

// SearchService answers directory searches. Full and nearby search run in
// the database; quick search prefers the external index when one is set.
type SearchService struct {
	repo       repositories.SearchRepository
	index      providers.BusinessSearchIndex
	quickLimit int
}

// NewSearchService creates a new search service. index may be nil.
func NewSearchService(repo repositories.SearchRepository, index providers.BusinessSearchIndex, quickLimit int) *SearchService {
	if quickLimit <= 0 {
		quickLimit = DefaultQuickSearchLimit
	}
	return &SearchService{repo: repo, index: index, quickLimit: quickLimit}
}

// Search fetches every match and returns the requested page of it
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*entities.PagedResult[*entities.BusinessDTO], error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	all, err := s.repo.SearchBusinesses(ctx, repositories.SearchCriteria{
		SearchTerm: strings.TrimSpace(req.SearchTerm),
		City:       strings.TrimSpace(req.City),
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	page := entities.Paginate(all, req.PageNumber, req.PageSize)
	return &page, nil
}

// GetNearby returns businesses within the radius; distance is not exposed
func (s *SearchService) GetNearby(ctx context.Context, req NearbyRequest) ([]*entities.BusinessDTO, error) {
	if req.RadiusInKm == 0 {
		req.RadiusInKm = DefaultNearbyRadiusKm
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	rows, err := s.repo.NearbyBusinesses(ctx, repositories.NearbyQuery{
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		RadiusInKm: req.RadiusInKm,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]*entities.BusinessDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, row.DTO())
	}
	return dtos, nil
}

// QuickSearch matches term against name or description of active
// businesses. Index failures fall back to the database.
func (s *SearchService) QuickSearch(ctx context.Context, term string, limit int) ([]*entities.BusinessDTO, error) {
	if limit <= 0 {
		limit = s.quickLimit
	}
	term = strings.TrimSpace(term)

	if s.index != nil {
		q := term
		if q == "" {
			q = "*"
		}
		results, err := s.index.QuickSearch(ctx, q, limit)
		if err == nil {
			return results, nil
		}
		log.Warn().Err(err).Str("term", term).Msg("Search index unavailable, falling back to database")
	}

	return s.repo.QuickSearch(ctx, term, limit)
}
