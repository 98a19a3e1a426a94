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

// CreateCategoryInput is the payload for a new category
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CategoryService manages business categories
type CategoryService struct {
	repo repositories.CategoryRepository
	now  func() time.Time
}

// NewCategoryService creates a new category service
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, now: time.Now}
}

// Create persists an active category
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*entities.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	category := &entities.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetByID returns a category or a NotFound error
func (s *CategoryService) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns active categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]*entities.Category, error) {
	return s.repo.ListActive(ctx)
}
