package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/pkg/auth"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entities.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entities.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) Issue(subject auth.TokenSubject) (string, time.Time, error) {
	args := m.Called(subject)
	return args.String(0), time.Time{}, args.Error(1)
}

type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) Create(ctx context.Context, c *entities.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entities.Category)
	return c, args.Error(1)
}

func (m *MockCategoryRepository) ListActive(ctx context.Context) ([]*entities.Category, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]*entities.Category)
	return c, args.Error(1)
}

type MockBusinessRepository struct{ mock.Mock }

func (m *MockBusinessRepository) Create(ctx context.Context, b *entities.Business) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, string) *entities.Business); ok {
		return fn(ctx, id), args.Error(1)
	}
	b, _ := args.Get(0).(*entities.Business)
	return b, args.Error(1)
}

func (m *MockBusinessRepository) ListActive(ctx context.Context, filter repositories.BusinessFilter) ([]*entities.Business, error) {
	args := m.Called(ctx, filter)
	b, _ := args.Get(0).([]*entities.Business)
	return b, args.Error(1)
}

func (m *MockBusinessRepository) Update(ctx context.Context, b *entities.Business) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBusinessRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBusinessRepository) UpdateRatingSummary(ctx context.Context, s *entities.RatingSummary) error {
	return m.Called(ctx, s).Error(0)
}

type MockServiceRepository struct{ mock.Mock }

func (m *MockServiceRepository) Create(ctx context.Context, s *entities.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entities.Service)
	return s, args.Error(1)
}

func (m *MockServiceRepository) ListActiveByBusiness(ctx context.Context, businessID string) ([]*entities.Service, error) {
	args := m.Called(ctx, businessID)
	s, _ := args.Get(0).([]*entities.Service)
	return s, args.Error(1)
}

func (m *MockServiceRepository) Update(ctx context.Context, s *entities.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockBookingRepository struct{ mock.Mock }

func (m *MockBookingRepository) CreateWithServicePrice(ctx context.Context, b *entities.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*entities.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).([]*entities.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Booking, error) {
	args := m.Called(ctx, businessID)
	b, _ := args.Get(0).([]*entities.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) ListUpcoming(ctx context.Context, userID string, now time.Time) ([]*entities.Booking, error) {
	args := m.Called(ctx, userID, now)
	b, _ := args.Get(0).([]*entities.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) ListHistory(ctx context.Context, userID string, now time.Time) ([]*entities.Booking, error) {
	args := m.Called(ctx, userID, now)
	b, _ := args.Get(0).([]*entities.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus, at time.Time) (bool, error) {
	args := m.Called(ctx, id, status, at)
	return args.Bool(0), args.Error(1)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Create(ctx context.Context, r *entities.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*entities.Review)
	return r, args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context) ([]*entities.Review, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]*entities.Review)
	return r, args.Error(1)
}

func (m *MockReviewRepository) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Review, error) {
	args := m.Called(ctx, businessID)
	r, _ := args.Get(0).([]*entities.Review)
	return r, args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).([]*entities.Review)
	return r, args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, r *entities.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReviewRepository) Summary(ctx context.Context, businessID string) (*entities.RatingSummary, error) {
	args := m.Called(ctx, businessID)
	s, _ := args.Get(0).(*entities.RatingSummary)
	return s, args.Error(1)
}

type MockSearchRepository struct{ mock.Mock }

func (m *MockSearchRepository) SearchBusinesses(ctx context.Context, c repositories.SearchCriteria) ([]*entities.BusinessDTO, error) {
	args := m.Called(ctx, c)
	b, _ := args.Get(0).([]*entities.BusinessDTO)
	return b, args.Error(1)
}

func (m *MockSearchRepository) NearbyBusinesses(ctx context.Context, q repositories.NearbyQuery) ([]*entities.NearbyBusinessRow, error) {
	args := m.Called(ctx, q)
	b, _ := args.Get(0).([]*entities.NearbyBusinessRow)
	return b, args.Error(1)
}

func (m *MockSearchRepository) QuickSearch(ctx context.Context, term string, limit int) ([]*entities.BusinessDTO, error) {
	args := m.Called(ctx, term, limit)
	b, _ := args.Get(0).([]*entities.BusinessDTO)
	return b, args.Error(1)
}

type MockSearchIndex struct{ mock.Mock }

func (m *MockSearchIndex) EnsureSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSearchIndex) Upsert(ctx context.Context, b *entities.BusinessDTO) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockSearchIndex) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSearchIndex) QuickSearch(ctx context.Context, term string, limit int) ([]*entities.BusinessDTO, error) {
	args := m.Called(ctx, term, limit)
	b, _ := args.Get(0).([]*entities.BusinessDTO)
	return b, args.Error(1)
}

type MockBookingPublisher struct{ mock.Mock }

func (m *MockBookingPublisher) PublishBookingEvent(ctx context.Context, e *entities.BookingEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockBookingPublisher) Close() error { return nil }

// MockEventBus delivers published events to in-process subscribers
type MockEventBus struct {
	mu          sync.Mutex
	published   []*entities.BusinessEvent
	subscribers map[string][]chan *entities.BusinessEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{subscribers: make(map[string][]chan *entities.BusinessEvent)}
}

func (b *MockEventBus) Publish(ctx context.Context, channel string, event *entities.BusinessEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	for _, ch := range b.subscribers[channel] {
		ch <- event
	}
	return nil
}

func (b *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.BusinessEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.BusinessEvent, 10)
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	return ch, nil
}

func (b *MockEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *MockEventBus) Close() error { return nil }

func (b *MockEventBus) Published() []*entities.BusinessEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.BusinessEvent(nil), b.published...)
}

// MockCacheProvider is an in-memory cache that records deletions
type MockCacheProvider struct {
	mu      sync.RWMutex
	data    map[string][]byte
	deleted []string
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheProvider) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deleted...)
}
