package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/observability"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
	"github.com/smartlocalbusiness/backend/pkg/validation"
)

// AddReviewInput is the payload for a new review
type AddReviewInput struct {
	BusinessID string `json:"businessId" validate:"required"`
	UserID     string `json:"userId" validate:"required"`
	Rating     int    `json:"rating" validate:"gte=1,lte=5"`
	ReviewText string `json:"reviewText"`
}

// UpdateReviewInput carries the mutable review fields. ReviewID is optional
// but must match the target when present.
type UpdateReviewInput struct {
	ReviewID   string `json:"reviewId"`
	Rating     int    `json:"rating" validate:"gte=1,lte=5"`
	ReviewText string `json:"reviewText"`
}

// ReviewService manages reviews and keeps the business rating aggregate
// current after every write
type ReviewService struct {
	reviews    repositories.ReviewRepository
	businesses repositories.BusinessRepository
	events     providers.EventBus
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewReviewService creates a new review service. events may be nil.
func NewReviewService(
	reviews repositories.ReviewRepository,
	businesses repositories.BusinessRepository,
	events providers.EventBus,
	metrics *observability.Metrics,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		businesses: businesses,
		events:     events,
		metrics:    metrics,
		now:        time.Now,
	}
}

// List returns every review, newest first
func (s *ReviewService) List(ctx context.Context) ([]*entities.Review, error) {
	return s.reviews.List(ctx)
}

// GetByID returns a review or a NotFound error
func (s *ReviewService) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// ListByBusiness returns the reviews of a business, newest first
func (s *ReviewService) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Review, error) {
	return s.reviews.ListByBusiness(ctx, businessID)
}

// ListByUser returns the reviews written by a user, newest first
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}

// AverageRating is the mean rating rounded to two decimals, 0 without reviews
func (s *ReviewService) AverageRating(ctx context.Context, businessID string) (float64, error) {
	summary, err := s.summary(ctx, businessID)
	if err != nil {
		return 0, err
	}
	return summary.AverageRating, nil
}

// Add stores a review. Repeat reviews of the same business are allowed.
func (s *ReviewService) Add(ctx context.Context, in AddReviewInput) (*entities.Review, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	review := &entities.Review{
		ID:         uuid.NewString(),
		BusinessID: in.BusinessID,
		UserID:     in.UserID,
		Rating:     in.Rating,
		ReviewText: in.ReviewText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	observability.RecordReviewWrite(ctx, s.metrics, "add")
	s.refreshAggregate(ctx, review.BusinessID)
	return review, nil
}

// Update overwrites rating and text. Business and author never change.
func (s *ReviewService) Update(ctx context.Context, id string, in UpdateReviewInput) (*entities.Review, error) {
	if in.ReviewID != "" && in.ReviewID != id {
		return nil, apperrors.NewValidationError("reviewId does not match the requested review")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	review.Rating = in.Rating
	review.ReviewText = in.ReviewText
	review.UpdatedAt = s.now().UTC()

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	observability.RecordReviewWrite(ctx, s.metrics, "update")
	s.refreshAggregate(ctx, review.BusinessID)
	return review, nil
}

// Delete removes a review permanently. Unknown ids are a no-op.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	review, err := s.reviews.GetByID(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	observability.RecordReviewWrite(ctx, s.metrics, "delete")
	s.refreshAggregate(ctx, review.BusinessID)
	return nil
}

func (s *ReviewService) summary(ctx context.Context, businessID string) (*entities.RatingSummary, error) {
	summary, err := s.reviews.Summary(ctx, businessID)
	if err != nil {
		return nil, err
	}
	summary.BusinessID = businessID
	summary.AverageRating = roundRating(summary.AverageRating)
	return summary, nil
}

// refreshAggregate stores the new rating on the business and announces it.
// The review write has already succeeded, so failures are only logged.
func (s *ReviewService) refreshAggregate(ctx context.Context, businessID string) {
	summary, err := s.summary(ctx, businessID)
	if err != nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("Failed to compute rating summary")
		return
	}
	if err := s.businesses.UpdateRatingSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("Failed to store rating summary")
		return
	}

	if s.events == nil {
		return
	}
	event := entities.NewBusinessEvent(businessID, entities.BusinessEventRatingUpdated, map[string]interface{}{
		"rating":       summary.AverageRating,
		"totalReviews": summary.TotalReviews,
	})
	if err := s.events.Publish(ctx, providers.EventChannelBusinessUpdates, event); err != nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("Failed to publish rating update")
	}
}

func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
