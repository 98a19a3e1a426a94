package repositories

import (
	"context"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	GetByID(ctx context.Context, id string) (*entities.Category, error)
	ListActive(ctx context.Context) ([]*entities.Category, error)
}
