package repositories

import (
	"context"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// ServiceRepository defines the interface for the services a business offers
type ServiceRepository interface {
	Create(ctx context.Context, service *entities.Service) error
	GetByID(ctx context.Context, id string) (*entities.Service, error)
	ListActiveByBusiness(ctx context.Context, businessID string) ([]*entities.Service, error)
	Update(ctx context.Context, service *entities.Service) error
	SoftDelete(ctx context.Context, id string) (bool, error)
}
