package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

var reviewColumns = []interface{}{
	"id", "business_id", "user_id", "rating", "review_text", "created_at", "updated_at",
}

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{client: client, db: client.Goqu()}
}

func scanReview(row rowScanner) (*entities.Review, error) {
	r := &entities.Review{}
	err := row.Scan(&r.ID, &r.BusinessID, &r.UserID, &r.Rating, &r.ReviewText, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Insert("reviews").Rows(goqu.Record{
		"id":          review.ID,
		"business_id": review.BusinessID,
		"user_id":     review.UserID,
		"rating":      review.Rating,
		"review_text": review.ReviewText,
		"created_at":  review.CreatedAt,
		"updated_at":  review.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return insertError("review", err)
	}
	return nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query, args, err := a.db.From("reviews").Select(reviewColumns...).
		Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}
	return review, nil
}

// List returns every review, newest first
func (a *ReviewAdapter) List(ctx context.Context) ([]*entities.Review, error) {
	return a.list(ctx, goqu.Ex{})
}

// ListByBusiness returns a business's reviews, newest first
func (a *ReviewAdapter) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Review, error) {
	return a.list(ctx, goqu.Ex{"business_id": businessID})
}

// ListByUser returns a user's reviews, newest first
func (a *ReviewAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	return a.list(ctx, goqu.Ex{"user_id": userID})
}

func (a *ReviewAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Review, error) {
	ds := a.db.From("reviews").Select(reviewColumns...)
	if len(where) > 0 {
		ds = ds.Where(where)
	}
	query, args, err := ds.Order(goqu.I("created_at").Desc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if isMalformedID(err) {
		return []*entities.Review{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reviews", err)
	}
	return reviews, nil
}

// Update overwrites rating, text and timestamp
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Update("reviews").Set(goqu.Record{
		"rating":      review.Rating,
		"review_text": review.ReviewText,
		"updated_at":  review.UpdatedAt,
	}).Where(goqu.Ex{"id": review.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	notFound := apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", review.ID))
	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if isMalformedID(err) {
		return notFound
	}
	if err != nil {
		return apperrors.NewInternalError("failed to update review", err)
	}
	ok, err := affected(result, "review update")
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

// Delete hard-deletes the review
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("reviews").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil && !isMalformedID(err) {
		return apperrors.NewInternalError("failed to delete review", err)
	}
	return nil
}

// Summary returns the raw average and count of a business's reviews
func (a *ReviewAdapter) Summary(ctx context.Context, businessID string) (*entities.RatingSummary, error) {
	query, args, err := a.db.From("reviews").
		Select(
			goqu.COALESCE(goqu.AVG("rating"), 0),
			goqu.COUNT("*"),
		).
		Where(goqu.Ex{"business_id": businessID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build summary query", err)
	}

	summary := &entities.RatingSummary{BusinessID: businessID}
	err = a.client.DB().QueryRowContext(ctx, query, args...).
		Scan(&summary.AverageRating, &summary.TotalReviews)
	if isMalformedID(err) {
		return &entities.RatingSummary{BusinessID: businessID}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to compute rating summary", err)
	}
	return summary, nil
}
