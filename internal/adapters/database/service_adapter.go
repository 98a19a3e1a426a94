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

var serviceColumns = []interface{}{
	"id", "business_id", "service_name", "description", "price",
	"duration_minutes", "is_active", "created_at", "updated_at",
}

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{client: client, db: client.Goqu()}
}

func scanService(row rowScanner) (*entities.Service, error) {
	s := &entities.Service{}
	err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.Name,
		&s.Description,
		&s.Price,
		&s.DurationMinutes,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// Create creates a new service
func (a *ServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	query, args, err := a.db.Insert("services").Rows(goqu.Record{
		"id":               service.ID,
		"business_id":      service.BusinessID,
		"service_name":     service.Name,
		"description":      service.Description,
		"price":            service.Price,
		"duration_minutes": service.DurationMinutes,
		"is_active":        service.IsActive,
		"created_at":       service.CreatedAt,
		"updated_at":       service.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return insertError("service", err)
	}
	return nil
}

// GetByID retrieves a service by ID
func (a *ServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	query, args, err := a.db.From("services").Select(serviceColumns...).
		Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	service, err := scanService(a.client.DB().QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}
	return service, nil
}

// ListActiveByBusiness returns the active services of a business by name
func (a *ServiceAdapter) ListActiveByBusiness(ctx context.Context, businessID string) ([]*entities.Service, error) {
	query, args, err := a.db.From("services").Select(serviceColumns...).
		Where(goqu.Ex{"business_id": businessID, "is_active": true}).
		Order(goqu.I("service_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if isMalformedID(err) {
		return []*entities.Service{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	services := []*entities.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate services", err)
	}
	return services, nil
}

// Update writes name, description, price and duration
func (a *ServiceAdapter) Update(ctx context.Context, service *entities.Service) error {
	query, args, err := a.db.Update("services").Set(goqu.Record{
		"service_name":     service.Name,
		"description":      service.Description,
		"price":            service.Price,
		"duration_minutes": service.DurationMinutes,
		"updated_at":       service.UpdatedAt,
	}).Where(goqu.Ex{"id": service.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	notFound := apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", service.ID))
	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if isMalformedID(err) {
		return notFound
	}
	if err != nil {
		return apperrors.NewInternalError("failed to update service", err)
	}
	ok, err := affected(result, "service update")
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

// SoftDelete marks the service inactive
func (a *ServiceAdapter) SoftDelete(ctx context.Context, id string) (bool, error) {
	query, args, err := a.db.Update("services").Set(goqu.Record{
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
		return false, apperrors.NewInternalError("failed to delete service", err)
	}
	return affected(result, "service delete")
}
