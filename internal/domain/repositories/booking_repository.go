package repositories

import (
	"context"
	"time"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// CreateWithServicePrice reads the active service price and inserts the
	// booking with that amount in one transaction. A missing service yields
	// a ServiceNotFound error.
	CreateWithServicePrice(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking joined with user, business and service names
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// ListByUser returns a user's bookings, newest created first
	ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error)

	// ListByBusiness returns a business's bookings, newest created first
	ListByBusiness(ctx context.Context, businessID string) ([]*entities.Booking, error)

	// ListUpcoming returns non-cancelled bookings after now, soonest first
	ListUpcoming(ctx context.Context, userID string, now time.Time) ([]*entities.Booking, error)

	// ListHistory returns bookings at or before now, latest first
	ListHistory(ctx context.Context, userID string, now time.Time) ([]*entities.Booking, error)

	// UpdateStatus overwrites status and timestamp; false when the id is unknown
	UpdateStatus(ctx context.Context, id string, status entities.BookingStatus, at time.Time) (bool, error)
}
