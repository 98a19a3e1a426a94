package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/pkg/validation"
)

// ServiceInput is the payload for creating or updating an offered service.
// BusinessID is ignored on update.
type ServiceInput struct {
	BusinessID      string  `json:"businessId"`
	Name            string  `json:"serviceName" validate:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" validate:"gte=0"`
	DurationMinutes int     `json:"durationMinutes" validate:"gte=0"`
}

// ServiceCatalogService manages the services a business offers for booking
type ServiceCatalogService struct {
	repo repositories.ServiceRepository
	now  func() time.Time
}

// NewServiceCatalogService creates a new service catalog service
func NewServiceCatalogService(repo repositories.ServiceRepository) *ServiceCatalogService {
	return &ServiceCatalogService{repo: repo, now: time.Now}
}

// Create adds an active service to a business
func (s *ServiceCatalogService) Create(ctx context.Context, in ServiceInput) (*entities.Service, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Var("businessId", in.BusinessID, "required"); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	service := &entities.Service{
		ID:              uuid.NewString(),
		BusinessID:      in.BusinessID,
		Name:            in.Name,
		Description:     in.Description,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// GetByID returns a service, active or not
func (s *ServiceCatalogService) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByBusiness returns the active services of a business
func (s *ServiceCatalogService) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Service, error) {
	return s.repo.ListActiveByBusiness(ctx, businessID)
}

// Update overwrites name, description, price and duration. Price changes
// never touch existing bookings.
func (s *ServiceCatalogService) Update(ctx context.Context, id string, in ServiceInput) (*entities.Service, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	service.Name = in.Name
	service.Description = in.Description
	service.Price = in.Price
	service.DurationMinutes = in.DurationMinutes
	service.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// Delete deactivates a service; false when the id is unknown
func (s *ServiceCatalogService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.SoftDelete(ctx, id)
}
