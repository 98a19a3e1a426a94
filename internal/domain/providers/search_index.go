package providers

import (
	"context"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// BusinessSearchIndex is an external full-text index of active businesses
type BusinessSearchIndex interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, business *entities.BusinessDTO) error
	Delete(ctx context.Context, id string) error
	QuickSearch(ctx context.Context, term string, limit int) ([]*entities.BusinessDTO, error)
}
