package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlocalbusiness/backend/internal/adapters/database"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

// badUUID is what lib/pq returns when a uuid column is compared with "abc"
func badUUID() error {
	return &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
}

func TestGetByID_MalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()

	t.Run("user", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnError(badUUID())

		_, err := database.NewUserAdapter(client).GetByID(ctx, "abc")

		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("business", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "businesses"`).WillReturnError(badUUID())

		_, err := database.NewBusinessAdapter(client).GetByID(ctx, "abc")

		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "bookings"`).WillReturnError(badUUID())

		_, err := database.NewBookingAdapter(client).GetByID(ctx, "abc")

		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("review", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "reviews"`).WillReturnError(badUUID())

		_, err := database.NewReviewAdapter(client).GetByID(ctx, "abc")

		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("service", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "services"`).WillReturnError(badUUID())

		_, err := database.NewServiceAdapter(client).GetByID(ctx, "abc")

		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "categories"`).WillReturnError(badUUID())

		_, err := database.NewCategoryAdapter(client).GetByID(ctx, "abc")

		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingAdapter_CreateMalformedServiceID(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBookingAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "price" FROM "services"`).WillReturnError(badUUID())
	mock.ExpectRollback()

	err := adapter.CreateWithServicePrice(context.Background(), &entities.Booking{ID: "bk-1", ServiceID: "x"})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeServiceNotFound, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingAdapter_CreateMalformedUserID(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBookingAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "price" FROM "services"`).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(10.0))
	mock.ExpectExec(`INSERT INTO "bookings"`).WillReturnError(badUUID())
	mock.ExpectRollback()

	err := adapter.CreateWithServicePrice(context.Background(), &entities.Booking{ID: "bk-1", UserID: "abc", ServiceID: "svc-1"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingAdapter_PriceLookupSkipsInactiveServices(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBookingAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "price" FROM "services" WHERE .*"is_active" IS TRUE.*FOR SHARE`).
		WillReturnRows(sqlmock.NewRows([]string{"price"}))
	mock.ExpectRollback()

	err := adapter.CreateWithServicePrice(context.Background(), &entities.Booking{ID: "bk-1", ServiceID: "svc-retired"})

	assert.Equal(t, apperrors.CodeServiceNotFound, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWrites_MalformedIDMatchesNothing(t *testing.T) {
	ctx := context.Background()

	t.Run("booking status", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectExec(`UPDATE "bookings"`).WillReturnError(badUUID())

		ok, err := database.NewBookingAdapter(client).UpdateStatus(ctx, "abc", entities.BookingStatusCancelled, time.Now())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("business delete", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectExec(`UPDATE "businesses"`).WillReturnError(badUUID())

		ok, err := database.NewBusinessAdapter(client).SoftDelete(ctx, "abc")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("business update", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectExec(`UPDATE "businesses"`).WillReturnError(badUUID())

		err := database.NewBusinessAdapter(client).Update(ctx, &entities.Business{ID: "abc"})

		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("service delete", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectExec(`UPDATE "services"`).WillReturnError(badUUID())

		ok, err := database.NewServiceAdapter(client).SoftDelete(ctx, "abc")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("user update", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectExec(`UPDATE "users"`).WillReturnError(badUUID())

		err := database.NewUserAdapter(client).Update(ctx, &entities.User{ID: "abc"})

		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("review update", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectExec(`UPDATE "reviews"`).WillReturnError(badUUID())

		err := database.NewReviewAdapter(client).Update(ctx, &entities.Review{ID: "abc"})

		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("review delete", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectExec(`DELETE FROM "reviews"`).WillReturnError(badUUID())

		assert.NoError(t, database.NewReviewAdapter(client).Delete(ctx, "x"))
	})

	t.Run("business create", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectExec(`INSERT INTO "businesses"`).WillReturnError(badUUID())

		err := database.NewBusinessAdapter(client).Create(ctx, &entities.Business{ID: "b-1", CategoryID: "abc"})

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}

func TestLists_MalformedIDIsEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("bookings by user", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "bookings"`).WillReturnError(badUUID())

		list, err := database.NewBookingAdapter(client).ListByUser(ctx, "abc")

		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("businesses by category", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "businesses"`).WillReturnError(badUUID())

		list, err := database.NewBusinessAdapter(client).ListActive(ctx, repositories.BusinessFilter{CategoryID: "abc"})

		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("reviews by business", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "reviews"`).WillReturnError(badUUID())

		list, err := database.NewReviewAdapter(client).ListByBusiness(ctx, "abc")

		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("services by business", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "services"`).WillReturnError(badUUID())

		list, err := database.NewServiceAdapter(client).ListActiveByBusiness(ctx, "abc")

		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("rating summary", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`FROM "reviews"`).WillReturnError(badUUID())

		summary, err := database.NewReviewAdapter(client).Summary(ctx, "abc")

		require.NoError(t, err)
		assert.Zero(t, summary.AverageRating)
		assert.Zero(t, summary.TotalReviews)
	})

	t.Run("search by category", func(t *testing.T) {
		client, mock := setupMockClient(t)
		mock.ExpectQuery(`sp_search_businesses`).WillReturnError(badUUID())

		list, err := database.NewSearchAdapter(client).SearchBusinesses(ctx, repositories.SearchCriteria{CategoryID: "abc"})

		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
