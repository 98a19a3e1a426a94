package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/observability"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
	"github.com/smartlocalbusiness/backend/pkg/validation"
)

// CreateBookingInput is the payload for reserving a service
type CreateBookingInput struct {
	UserID      string    `json:"userId" validate:"required"`
	BusinessID  string    `json:"businessId" validate:"required"`
	ServiceID   string    `json:"serviceId" validate:"required"`
	BookingDate time.Time `json:"bookingDate" validate:"required"`
	Notes       string    `json:"notes"`
}

// BookingService manages reservations. Any status may follow any other.
type BookingService struct {
	repo      repositories.BookingRepository
	publisher providers.BookingEventPublisher
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewBookingService creates a new booking service. publisher may be nil.
func NewBookingService(
	repo repositories.BookingRepository,
	publisher providers.BookingEventPublisher,
	metrics *observability.Metrics,
) *BookingService {
	return &BookingService{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Create books a service at its current price with status Pending
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*entities.BookingDTO, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	booking := &entities.Booking{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		BusinessID:  in.BusinessID,
		ServiceID:   in.ServiceID,
		BookingDate: in.BookingDate.UTC(),
		Status:      entities.BookingStatusPending,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateWithServicePrice(ctx, booking); err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", booking.ID).
		Str("service_id", booking.ServiceID).
		Float64("total_amount", booking.TotalAmount).
		Msg("Booking created")
	s.publish(ctx, entities.BookingEventCreated, booking)
	return s.GetByID(ctx, booking.ID)
}

// GetByID returns a booking or a NotFound error
func (s *BookingService) GetByID(ctx context.Context, id string) (*entities.BookingDTO, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return booking.DTO(), nil
}

// GetUserBookings returns a user's bookings, newest created first
func (s *BookingService) GetUserBookings(ctx context.Context, userID string) ([]*entities.BookingDTO, error) {
	return toBookingDTOs(s.repo.ListByUser(ctx, userID))
}

// GetBusinessBookings returns a business's bookings, newest created first
func (s *BookingService) GetBusinessBookings(ctx context.Context, businessID string) ([]*entities.BookingDTO, error) {
	return toBookingDTOs(s.repo.ListByBusiness(ctx, businessID))
}

// GetUpcoming returns future bookings that are not cancelled
func (s *BookingService) GetUpcoming(ctx context.Context, userID string) ([]*entities.BookingDTO, error) {
	return toBookingDTOs(s.repo.ListUpcoming(ctx, userID, s.now().UTC()))
}

// GetHistory returns past bookings whatever their status
func (s *BookingService) GetHistory(ctx context.Context, userID string) ([]*entities.BookingDTO, error) {
	return toBookingDTOs(s.repo.ListHistory(ctx, userID, s.now().UTC()))
}

// UpdateStatus overwrites the status. The value is checked before the
// booking is looked up.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.BookingDTO, error) {
	if !status.IsValid() {
		return nil, apperrors.NewInvalidStatusError(string(status))
	}

	ok, err := s.repo.UpdateStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("booking not found")
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, entities.BookingEventStatusChanged, booking)
	return booking.DTO(), nil
}

// Cancel marks a booking cancelled from any status; false when the id is
// unknown
func (s *BookingService) Cancel(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.UpdateStatus(ctx, id, entities.BookingStatusCancelled, s.now().UTC())
	if err != nil || !ok {
		return ok, err
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("booking_id", id).Msg("Cancelled booking could not be reloaded for its event")
		booking = &entities.Booking{ID: id, Status: entities.BookingStatusCancelled}
	}
	s.publish(ctx, entities.BookingEventCancelled, booking)
	return true, nil
}

func (s *BookingService) publish(ctx context.Context, eventType entities.BookingEventType, booking *entities.Booking) {
	observability.RecordBookingEvent(ctx, s.metrics, string(eventType))
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, entities.NewBookingEvent(eventType, booking)); err != nil {
		log.Warn().Err(err).
			Str("booking_id", booking.ID).
			Str("event_type", string(eventType)).
			Msg("Failed to publish booking event")
	}
}

func toBookingDTOs(bookings []*entities.Booking, err error) ([]*entities.BookingDTO, error) {
	if err != nil {
		return nil, err
	}
	dtos := make([]*entities.BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		dtos = append(dtos, b.DTO())
	}
	return dtos, nil
}
