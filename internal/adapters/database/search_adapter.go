package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

const (
	searchBusinessesQuery = `SELECT * FROM sp_search_businesses($1, $2, $3)`
	nearbyBusinessesQuery = `SELECT * FROM sp_get_nearby_businesses($1, $2, $3, $4)`
)

// SearchAdapter implements the SearchRepository interface on top of the
// database search functions
type SearchAdapter struct {
	client *postgres.Client
	dbx    *sqlx.DB
	db     *goqu.Database
}

// NewSearchAdapter creates a new search adapter
func NewSearchAdapter(client *postgres.Client) repositories.SearchRepository {
	return &SearchAdapter{
		client: client,
		dbx:    client.DBX(),
		db:     client.Goqu(),
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SearchBusinesses returns every business matched by sp_search_businesses
func (a *SearchAdapter) SearchBusinesses(ctx context.Context, criteria repositories.SearchCriteria) ([]*entities.BusinessDTO, error) {
	results := []*entities.BusinessDTO{}
	err := a.dbx.SelectContext(ctx, &results, searchBusinessesQuery,
		nullable(criteria.SearchTerm),
		nullable(criteria.City),
		nullable(criteria.CategoryID),
	)
	if isMalformedID(err) {
		return []*entities.BusinessDTO{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search businesses", err)
	}

	// the function only returns active rows
	for _, r := range results {
		r.IsActive = true
	}
	return results, nil
}

// NearbyBusinesses returns the rows of sp_get_nearby_businesses, nearest first
func (a *SearchAdapter) NearbyBusinesses(ctx context.Context, q repositories.NearbyQuery) ([]*entities.NearbyBusinessRow, error) {
	rows := []*entities.NearbyBusinessRow{}
	err := a.dbx.SelectContext(ctx, &rows, nearbyBusinessesQuery,
		q.Latitude,
		q.Longitude,
		q.RadiusInKm,
		nullable(q.CategoryID),
	)
	if isMalformedID(err) {
		return []*entities.NearbyBusinessRow{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search nearby businesses", err)
	}
	return rows, nil
}

// QuickSearch matches term against name or description of active
// businesses, capped at limit, in store order
func (a *SearchAdapter) QuickSearch(ctx context.Context, term string, limit int) ([]*entities.BusinessDTO, error) {
	pattern := containsPattern(term)
	ds := selectBusinesses(a.db).
		Where(
			goqu.I("b.is_active").IsTrue(),
			goqu.Or(
				goqu.I("b.business_name").ILike(pattern),
				goqu.I("b.description").ILike(pattern),
			),
		).
		Limit(uint(limit))

	businesses, err := queryBusinesses(ctx, a.client.DB(), ds)
	if err != nil {
		return nil, err
	}

	dtos := make([]*entities.BusinessDTO, 0, len(businesses))
	for _, b := range businesses {
		dtos = append(dtos, b.DTO())
	}
	return dtos, nil
}
