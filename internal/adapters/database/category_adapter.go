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

var categoryColumns = []interface{}{"id", "name", "description", "icon", "is_active", "created_at"}

// CategoryAdapter implements the CategoryRepository interface
type CategoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCategoryAdapter creates a new category adapter
func NewCategoryAdapter(client *postgres.Client) repositories.CategoryRepository {
	return &CategoryAdapter{client: client, db: client.Goqu()}
}

// Create creates a new category
func (a *CategoryAdapter) Create(ctx context.Context, category *entities.Category) error {
	query, args, err := a.db.Insert("categories").Rows(goqu.Record{
		"id":          category.ID,
		"name":        category.Name,
		"description": category.Description,
		"icon":        category.Icon,
		"is_active":   category.IsActive,
		"created_at":  category.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create category", err)
	}
	return nil
}

// GetByID retrieves a category by ID
func (a *CategoryAdapter) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	query, args, err := a.db.From("categories").Select(categoryColumns...).
		Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	category, err := scanCategory(a.client.DB().QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("category with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get category", err)
	}
	return category, nil
}

// ListActive returns active categories ordered by name
func (a *CategoryAdapter) ListActive(ctx context.Context) ([]*entities.Category, error) {
	query, args, err := a.db.From("categories").Select(categoryColumns...).
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err)
	}
	defer rows.Close()

	categories := []*entities.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate categories", err)
	}
	return categories, nil
}

func scanCategory(row rowScanner) (*entities.Category, error) {
	c := &entities.Category{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.IsActive, &c.CreatedAt)
	return c, err
}
