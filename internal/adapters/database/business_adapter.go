package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

var businessColumns = []interface{}{
	"b.id", "b.user_id", "b.category_id", "b.business_name", "b.description",
	"b.address", "b.city", "b.state", "b.zip_code", "b.latitude", "b.longitude",
	"b.phone_number", "b.email", "b.website", "b.rating", "b.total_reviews",
	"b.is_verified", "b.is_active", "b.created_at", "b.updated_at",
	goqu.I("c.name").As("category_name"),
}

// BusinessAdapter implements the BusinessRepository interface
type BusinessAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBusinessAdapter creates a new business adapter
func NewBusinessAdapter(client *postgres.Client) repositories.BusinessRepository {
	return &BusinessAdapter{client: client, db: client.Goqu()}
}

// selectBusinesses joins every business row with its category name
func selectBusinesses(db *goqu.Database) *goqu.SelectDataset {
	return db.From(goqu.T("businesses").As("b")).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.category_id")))).
		Select(businessColumns...)
}

func scanBusiness(row rowScanner) (*entities.Business, error) {
	b := &entities.Business{}
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.CategoryID,
		&b.Name,
		&b.Description,
		&b.Address,
		&b.City,
		&b.State,
		&b.ZipCode,
		&b.Latitude,
		&b.Longitude,
		&b.PhoneNumber,
		&b.Email,
		&b.Website,
		&b.Rating,
		&b.TotalReviews,
		&b.IsVerified,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.CategoryName,
	)
	return b, err
}

func queryBusinesses(ctx context.Context, db *sql.DB, ds *goqu.SelectDataset) ([]*entities.Business, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if isMalformedID(err) {
		return []*entities.Business{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list businesses", err)
	}
	defer rows.Close()

	businesses := []*entities.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan business", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate businesses", err)
	}
	return businesses, nil
}

// Create creates a new business
func (a *BusinessAdapter) Create(ctx context.Context, business *entities.Business) error {
	query, args, err := a.db.Insert("businesses").Rows(goqu.Record{
		"id":            business.ID,
		"user_id":       business.UserID,
		"category_id":   business.CategoryID,
		"business_name": business.Name,
		"description":   business.Description,
		"address":       business.Address,
		"city":          business.City,
		"state":         business.State,
		"zip_code":      business.ZipCode,
		"latitude":      business.Latitude,
		"longitude":     business.Longitude,
		"phone_number":  business.PhoneNumber,
		"email":         business.Email,
		"website":       business.Website,
		"rating":        business.Rating,
		"total_reviews": business.TotalReviews,
		"is_verified":   business.IsVerified,
		"is_active":     business.IsActive,
		"created_at":    business.CreatedAt,
		"updated_at":    business.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return insertError("business", err)
	}
	return nil
}

// GetByID retrieves a business regardless of its active flag
func (a *BusinessAdapter) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	query, args, err := selectBusinesses(a.db).Where(goqu.I("b.id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	business, err := scanBusiness(a.client.DB().QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("business with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get business", err)
	}
	return business, nil
}

// ListActive retrieves active businesses ordered by name
func (a *BusinessAdapter) ListActive(ctx context.Context, filter repositories.BusinessFilter) ([]*entities.Business, error) {
	ds := selectBusinesses(a.db).Where(goqu.I("b.is_active").IsTrue())

	if filter.CategoryID != "" {
		ds = ds.Where(goqu.I("b.category_id").Eq(filter.CategoryID))
	}
	if filter.UserID != "" {
		ds = ds.Where(goqu.I("b.user_id").Eq(filter.UserID))
	}

	return queryBusinesses(ctx, a.client.DB(), ds.Order(goqu.I("b.business_name").Asc()))
}

// Update writes the listing, address, contact and coordinate fields.
// Owner, category and the review aggregate are left as they are.
func (a *BusinessAdapter) Update(ctx context.Context, business *entities.Business) error {
	query, args, err := a.db.Update("businesses").Set(goqu.Record{
		"business_name": business.Name,
		"description":   business.Description,
		"address":       business.Address,
		"city":          business.City,
		"state":         business.State,
		"zip_code":      business.ZipCode,
		"latitude":      business.Latitude,
		"longitude":     business.Longitude,
		"phone_number":  business.PhoneNumber,
		"email":         business.Email,
		"website":       business.Website,
		"updated_at":    business.UpdatedAt,
	}).Where(goqu.Ex{"id": business.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	notFound := apperrors.NewNotFoundError(fmt.Sprintf("business with id %s not found", business.ID))
	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if isMalformedID(err) {
		return notFound
	}
	if err != nil {
		return apperrors.NewInternalError("failed to update business", err)
	}
	ok, err := affected(result, "business update")
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

// SoftDelete marks the business inactive
func (a *BusinessAdapter) SoftDelete(ctx context.Context, id string) (bool, error) {
	query, args, err := a.db.Update("businesses").Set(goqu.Record{
		"is_active":  false,
		"updated_at": goqu.L("NOW()"),
	}).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if isMalformedID(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete business", err)
	}
	return affected(result, "business delete")
}

// UpdateRatingSummary stores the review aggregate on the business row
func (a *BusinessAdapter) UpdateRatingSummary(ctx context.Context, summary *entities.RatingSummary) error {
	query, args, err := a.db.Update("businesses").Set(goqu.Record{
		"rating":        summary.AverageRating,
		"total_reviews": summary.TotalReviews,
	}).Where(goqu.Ex{"id": summary.BusinessID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating update", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update business rating", err)
	}
	return nil
}
