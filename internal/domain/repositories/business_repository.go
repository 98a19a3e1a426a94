package repositories

import (
	"context"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// BusinessRepository defines the interface for business data operations
type BusinessRepository interface {
	// Create creates a new business
	Create(ctx context.Context, business *entities.Business) error

	// GetByID retrieves a business joined with its category, active or not
	GetByID(ctx context.Context, id string) (*entities.Business, error)

	// ListActive retrieves active businesses matching the filter
	ListActive(ctx context.Context, filter BusinessFilter) ([]*entities.Business, error)

	// Update writes the mutable listing fields
	Update(ctx context.Context, business *entities.Business) error

	// SoftDelete marks a business inactive; false when the id is unknown
	SoftDelete(ctx context.Context, id string) (bool, error)

	// UpdateRatingSummary stores the denormalized review aggregate
	UpdateRatingSummary(ctx context.Context, summary *entities.RatingSummary) error
}

// BusinessFilter narrows ListActive. Empty fields do not filter.
type BusinessFilter struct {
	CategoryID string
	UserID     string
}
