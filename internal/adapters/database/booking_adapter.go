package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

var bookingColumns = []interface{}{
	"bk.id", "bk.user_id", "bk.business_id", "bk.service_id", "bk.booking_date",
	"bk.status", "bk.total_amount", "bk.notes", "bk.created_at", "bk.updated_at",
	goqu.L("COALESCE(u.first_name || ' ' || u.last_name, '')").As("user_name"),
	goqu.L("COALESCE(b.business_name, '')").As("business_name"),
	goqu.L("COALESCE(s.service_name, '')").As("service_name"),
}

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{client: client, db: client.Goqu()}
}

func (a *BookingAdapter) selectBookings() *goqu.SelectDataset {
	return a.db.From(goqu.T("bookings").As("bk")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("bk.user_id")))).
		LeftJoin(goqu.T("businesses").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("bk.business_id")))).
		LeftJoin(goqu.T("services").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("bk.service_id")))).
		Select(bookingColumns...)
}

func scanBooking(row rowScanner) (*entities.Booking, error) {
	b := &entities.Booking{}
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.BusinessID,
		&b.ServiceID,
		&b.BookingDate,
		&b.Status,
		&b.TotalAmount,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.UserName,
		&b.BusinessName,
		&b.ServiceName,
	)
	return b, err
}

// CreateWithServicePrice locks the service row for share, copies its price
// into TotalAmount and inserts the booking in the same transaction. An
// inactive service cannot be booked.
func (a *BookingAdapter) CreateWithServicePrice(ctx context.Context, booking *entities.Booking) error {
	priceQuery, priceArgs, err := a.db.From("services").Select("price").
		Where(goqu.Ex{"id": booking.ServiceID, "is_active": true}).
		ForShare(goqu.Wait).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build price query", err)
	}

	return a.client.WithTx(ctx, func(tx *sql.Tx) error {
		var price float64
		err := tx.QueryRowContext(ctx, priceQuery, priceArgs...).Scan(&price)
		if isNoRows(err) {
			return apperrors.NewServiceNotFoundError(booking.ServiceID)
		}
		if err != nil {
			return apperrors.NewInternalError("failed to read service price", err)
		}
		booking.TotalAmount = price

		query, args, err := a.db.Insert("bookings").Rows(goqu.Record{
			"id":           booking.ID,
			"user_id":      booking.UserID,
			"business_id":  booking.BusinessID,
			"service_id":   booking.ServiceID,
			"booking_date": booking.BookingDate,
			"status":       booking.Status,
			"total_amount": booking.TotalAmount,
			"notes":        booking.Notes,
			"created_at":   booking.CreatedAt,
			"updated_at":   booking.UpdatedAt,
		}).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return insertError("booking", err)
		}
		return nil
	})
}

// GetByID retrieves a booking with its user, business and service names
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := a.selectBookings().Where(goqu.I("bk.id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}
	return booking, nil
}

// ListByUser returns a user's bookings, newest created first
func (a *BookingAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	return a.list(ctx, a.selectBookings().
		Where(goqu.I("bk.user_id").Eq(userID)).
		Order(goqu.I("bk.created_at").Desc()))
}

// ListByBusiness returns a business's bookings, newest created first
func (a *BookingAdapter) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Booking, error) {
	return a.list(ctx, a.selectBookings().
		Where(goqu.I("bk.business_id").Eq(businessID)).
		Order(goqu.I("bk.created_at").Desc()))
}

// ListUpcoming returns non-cancelled bookings after now, soonest first
func (a *BookingAdapter) ListUpcoming(ctx context.Context, userID string, now time.Time) ([]*entities.Booking, error) {
	return a.list(ctx, a.selectBookings().
		Where(
			goqu.I("bk.user_id").Eq(userID),
			goqu.I("bk.booking_date").Gt(now),
			goqu.I("bk.status").Neq(entities.BookingStatusCancelled),
		).
		Order(goqu.I("bk.booking_date").Asc()))
}

// ListHistory returns bookings at or before now regardless of status
func (a *BookingAdapter) ListHistory(ctx context.Context, userID string, now time.Time) ([]*entities.Booking, error) {
	return a.list(ctx, a.selectBookings().
		Where(
			goqu.I("bk.user_id").Eq(userID),
			goqu.I("bk.booking_date").Lte(now),
		).
		Order(goqu.I("bk.booking_date").Desc()))
}

func (a *BookingAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Booking, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if isMalformedID(err) {
		return []*entities.Booking{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	bookings := []*entities.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bookings", err)
	}
	return bookings, nil
}

// UpdateStatus overwrites status and timestamp
func (a *BookingAdapter) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus, at time.Time) (bool, error) {
	query, args, err := a.db.Update("bookings").Set(goqu.Record{
		"status":     status,
		"updated_at": at,
	}).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build status update", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if isMalformedID(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to update booking status", err)
	}
	return affected(result, "booking status update")
}
