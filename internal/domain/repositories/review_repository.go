package repositories

import (
	"context"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations.
// All list methods return newest first.
type ReviewRepository interface {
	Create(ctx context.Context, review *entities.Review) error
	GetByID(ctx context.Context, id string) (*entities.Review, error)
	List(ctx context.Context) ([]*entities.Review, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*entities.Review, error)
	ListByUser(ctx context.Context, userID string) ([]*entities.Review, error)

	// Update overwrites rating, text and timestamp
	Update(ctx context.Context, review *entities.Review) error

	// Delete removes the review; unknown ids are not an error
	Delete(ctx context.Context, id string) error

	// Summary returns the unrounded average and count for a business
	Summary(ctx context.Context, businessID string) (*entities.RatingSummary, error)
}
