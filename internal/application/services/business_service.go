package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/adapters/cache"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/observability"
	"github.com/smartlocalbusiness/backend/pkg/validation"
)

const businessCachePrefix = "business:"

// DefaultBusinessCacheTTL is how long a single-business read stays cached
const DefaultBusinessCacheTTL = 30 * time.Minute

// BusinessCacheKey is the cache key of a single business read
func BusinessCacheKey(id string) string {
	return businessCachePrefix + id
}

// CreateBusinessInput is the payload for listing a new business
type CreateBusinessInput struct {
	UserID      string  `json:"userId" validate:"required"`
	CategoryID  string  `json:"categoryId" validate:"required"`
	Name        string  `json:"businessName" validate:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	ZipCode     string  `json:"zipCode"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Website     string  `json:"website"`
}

// UpdateBusinessInput carries the mutable listing fields. Owner and
// category are fixed at creation.
type UpdateBusinessInput struct {
	Name        string  `json:"businessName" validate:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	ZipCode     string  `json:"zipCode"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Website     string  `json:"website"`
}

// BusinessService handles listings with a cache-aside single-entity read
type BusinessService struct {
	repo    repositories.BusinessRepository
	cache   *cache.TypedCache[entities.BusinessDTO]
	events  providers.EventBus
	metrics *observability.Metrics
	now     func() time.Time
}

// NewBusinessService creates a new business service. cacheProvider and
// events may be nil.
func NewBusinessService(
	repo repositories.BusinessRepository,
	cacheProvider providers.CacheProvider,
	cacheTTL time.Duration,
	events providers.EventBus,
	metrics *observability.Metrics,
) *BusinessService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultBusinessCacheTTL
	}
	s := &BusinessService{
		repo:    repo,
		events:  events,
		metrics: metrics,
		now:     time.Now,
	}
	if cacheProvider != nil {
		s.cache = cache.NewTypedCache[entities.BusinessDTO](cacheProvider, cacheTTL)
	}
	return s
}

// Create persists a new active, unverified listing with no reviews
func (s *BusinessService) Create(ctx context.Context, in CreateBusinessInput) (*entities.BusinessDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	business := &entities.Business{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		ZipCode:     in.ZipCode,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Website:     in.Website,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, business); err != nil {
		return nil, err
	}

	s.publish(ctx, business.ID, entities.BusinessEventCreated, nil)
	return s.GetByID(ctx, business.ID)
}

// GetByID returns a business whether or not it is active. Results are
// cached under business:<id>.
func (s *BusinessService) GetByID(ctx context.Context, id string) (*entities.BusinessDTO, error) {
	key := BusinessCacheKey(id)

	if s.cache != nil {
		dto, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("Business cache read failed")
		case ok:
			observability.RecordCacheHit(ctx, s.metrics, businessCachePrefix)
			return dto, nil
		default:
			observability.RecordCacheMiss(ctx, s.metrics, businessCachePrefix)
		}
	}

	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := business.DTO()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, dto); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Business cache write failed")
		}
	}
	return dto, nil
}

// GetAll returns every active business
func (s *BusinessService) GetAll(ctx context.Context) ([]*entities.BusinessDTO, error) {
	return s.list(ctx, repositories.BusinessFilter{})
}

// GetByCategory returns the active businesses in a category
func (s *BusinessService) GetByCategory(ctx context.Context, categoryID string) ([]*entities.BusinessDTO, error) {
	return s.list(ctx, repositories.BusinessFilter{CategoryID: categoryID})
}

// GetByUser returns the active businesses owned by a user
func (s *BusinessService) GetByUser(ctx context.Context, userID string) ([]*entities.BusinessDTO, error) {
	return s.list(ctx, repositories.BusinessFilter{UserID: userID})
}

func (s *BusinessService) list(ctx context.Context, filter repositories.BusinessFilter) ([]*entities.BusinessDTO, error) {
	businesses, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]*entities.BusinessDTO, 0, len(businesses))
	for _, b := range businesses {
		dtos = append(dtos, b.DTO())
	}
	return dtos, nil
}

// Update overwrites the listing fields and drops the cached copy before
// returning the refreshed business
func (s *BusinessService) Update(ctx context.Context, id string, in UpdateBusinessInput) (*entities.BusinessDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	business.Name = in.Name
	business.Description = in.Description
	business.Address = in.Address
	business.City = in.City
	business.State = in.State
	business.ZipCode = in.ZipCode
	business.Latitude = in.Latitude
	business.Longitude = in.Longitude
	business.PhoneNumber = in.PhoneNumber
	business.Email = in.Email
	business.Website = in.Website
	business.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, id, entities.BusinessEventUpdated, map[string]interface{}{
		"businessName": business.Name,
		"city":         business.City,
	})
	return s.GetByID(ctx, id)
}

// Delete soft-deletes a business. It reports false when the id is unknown.
func (s *BusinessService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, id, entities.BusinessEventDeleted, nil)
	return true, nil
}

func (s *BusinessService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Remove(ctx, BusinessCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("business_id", id).Msg("Business cache invalidation failed")
	}
}

func (s *BusinessService) publish(ctx context.Context, id string, eventType entities.BusinessEventType, changed map[string]interface{}) {
	if s.events == nil {
		return
	}
	event := entities.NewBusinessEvent(id, eventType, changed)
	if err := s.events.Publish(ctx, providers.EventChannelBusinessUpdates, event); err != nil {
		log.Warn().Err(err).Str("business_id", id).Str("event_type", string(eventType)).
			Msg("Failed to publish business event")
	}
}
