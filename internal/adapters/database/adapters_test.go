package database_test

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlocalbusiness/backend/internal/adapters/database"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

func setupMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientFromDB(db), mock
}

var userCols = []string{
	"id", "email", "password_hash", "first_name", "last_name",
	"phone_number", "user_type", "is_active", "created_at", "updated_at",
}

var businessCols = []string{
	"id", "user_id", "category_id", "business_name", "description",
	"address", "city", "state", "zip_code", "latitude", "longitude",
	"phone_number", "email", "website", "rating", "total_reviews",
	"is_verified", "is_active", "created_at", "updated_at", "category_name",
}

func businessRow(id, name string, active bool) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, "owner-1", "cat-1", name, "desc",
		"1 Main St", "Austin", "TX", "78701", 30.1, -97.7,
		"555", "a@b.test", "https://x.test", 4.25, int64(8),
		false, active, now, now, "Salon",
	}
}

var bookingCols = []string{
	"id", "user_id", "business_id", "service_id", "booking_date",
	"status", "total_amount", "notes", "created_at", "updated_at",
	"user_name", "business_name", "service_name",
}

func TestUserAdapter_CreateDuplicateEmail(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewUserAdapter(client)

	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "ux_users_email"})

	err := adapter.Create(context.Background(), &entities.User{ID: "u-1", Email: "dup@x.test"})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDuplicateEmail, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAdapter_GetByEmail(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewUserAdapter(client)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE .*"email" = 'ada@x.test'`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "ada@x.test", "$2a$hash", "Ada", "Lovelace", "555", "Customer", true, now, now))

	user, err := adapter.GetByEmail(context.Background(), "ada@x.test")

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, entities.UserTypeCustomer, user.UserType)
	assert.Equal(t, "$2a$hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAdapter_GetByIDNotFound(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewUserAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(sqlmock.NewRows(userCols))

	_, err := adapter.GetByID(context.Background(), "missing")

	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAdapter_UpdateMissingRow(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewUserAdapter(client)

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Update(context.Background(), &entities.User{ID: "missing", UpdatedAt: time.Now()})

	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessAdapter_GetByIDIgnoresActiveFlag(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBusinessAdapter(client)

	mock.ExpectQuery(`FROM "businesses" AS "b" INNER JOIN "categories" AS "c"`).
		WillReturnRows(sqlmock.NewRows(businessCols).AddRow(businessRow("biz-1", "Bloom", false)...))

	business, err := adapter.GetByID(context.Background(), "biz-1")

	require.NoError(t, err)
	assert.False(t, business.IsActive)
	assert.Equal(t, "Salon", business.CategoryName)
	assert.Equal(t, 4.25, business.Rating)
	assert.Equal(t, 8, business.TotalReviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessAdapter_ListActiveByCategory(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBusinessAdapter(client)

	mock.ExpectQuery(`"b"\."is_active" IS TRUE.*"b"\."category_id" = 'cat-1'.*ORDER BY "b"\."business_name" ASC`).
		WillReturnRows(sqlmock.NewRows(businessCols).
			AddRow(businessRow("biz-1", "Alpha", true)...).
			AddRow(businessRow("biz-2", "Beta", true)...))

	list, err := adapter.ListActive(context.Background(), repositories.BusinessFilter{CategoryID: "cat-1"})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessAdapter_SoftDelete(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBusinessAdapter(client)

	mock.ExpectExec(`UPDATE "businesses" SET .*"is_active"=FALSE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "businesses" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := adapter.SoftDelete(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.SoftDelete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessAdapter_UpdateRatingSummary(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBusinessAdapter(client)

	mock.ExpectExec(`UPDATE "businesses" SET .*"rating"=4\.33.*"total_reviews"=3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.UpdateRatingSummary(context.Background(), &entities.RatingSummary{
		BusinessID: "biz-1", AverageRating: 4.33, TotalReviews: 3,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingAdapter_CreateCopiesServicePrice(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBookingAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "price" FROM "services" .*FOR SHARE`).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(49.99))
	mock.ExpectExec(`INSERT INTO "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking := &entities.Booking{
		ID:          "bk-1",
		UserID:      "u-1",
		BusinessID:  "biz-1",
		ServiceID:   "svc-1",
		BookingDate: time.Now().Add(48 * time.Hour),
		Status:      entities.BookingStatusPending,
	}
	err := adapter.CreateWithServicePrice(context.Background(), booking)

	require.NoError(t, err)
	assert.Equal(t, 49.99, booking.TotalAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingAdapter_CreateUnknownServiceRollsBack(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBookingAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "price" FROM "services"`).WillReturnRows(sqlmock.NewRows([]string{"price"}))
	mock.ExpectRollback()

	err := adapter.CreateWithServicePrice(context.Background(), &entities.Booking{ID: "bk-1", ServiceID: "nope"})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeServiceNotFound, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingAdapter_ListUpcomingExcludesCancelled(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBookingAdapter(client)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`"bk"\."booking_date" > .*"bk"\."status" != 'Cancelled'.*ORDER BY "bk"\."booking_date" ASC`).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("bk-1", "u-1", "biz-1", "svc-1", now.Add(time.Hour), "Pending", 20.0, "", now, now,
				"Ada Lovelace", "Bloom", "Cut"))

	list, err := adapter.ListUpcoming(context.Background(), "u-1", now)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entities.BookingStatusPending, list[0].Status)
	assert.Equal(t, "Bloom", list[0].BusinessName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingAdapter_ListHistoryOrdersDescending(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBookingAdapter(client)

	mock.ExpectQuery(`"bk"\."booking_date" <= .*ORDER BY "bk"\."booking_date" DESC`).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	list, err := adapter.ListHistory(context.Background(), "u-1", time.Now())

	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingAdapter_UpdateStatusMissing(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewBookingAdapter(client)

	mock.ExpectExec(`UPDATE "bookings" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := adapter.UpdateStatus(context.Background(), "missing", entities.BookingStatusCancelled, time.Now())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewAdapter_Summary(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewReviewAdapter(client)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(AVG("rating"), 0), COUNT(*) FROM "reviews"`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce", "count"}).AddRow(4.333333, int64(3)))

	summary, err := adapter.Summary(context.Background(), "biz-1")

	require.NoError(t, err)
	assert.Equal(t, "biz-1", summary.BusinessID)
	assert.InDelta(t, 4.333333, summary.AverageRating, 1e-9)
	assert.Equal(t, 3, summary.TotalReviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewAdapter_ListByBusinessNewestFirst(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewReviewAdapter(client)
	now := time.Now()

	mock.ExpectQuery(`FROM "reviews" WHERE .*"business_id" = 'biz-1'.*ORDER BY "created_at" DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "business_id", "user_id", "rating", "review_text", "created_at", "updated_at"}).
			AddRow("r-2", "biz-1", "u-1", int64(5), "great", now, now).
			AddRow("r-1", "biz-1", "u-2", int64(3), "ok", now.Add(-time.Hour), now))

	reviews, err := adapter.ListByBusiness(context.Background(), "biz-1")

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "r-2", reviews[0].ID)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewAdapter_DeleteIsNoopWhenAbsent(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewReviewAdapter(client)

	mock.ExpectExec(`DELETE FROM "reviews"`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, adapter.Delete(context.Background(), "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceAdapter_ListActiveByBusiness(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewServiceAdapter(client)
	now := time.Now()

	mock.ExpectQuery(`FROM "services" WHERE .*"business_id" = 'biz-1'.*"is_active" IS TRUE.*ORDER BY "service_name" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "business_id", "service_name", "description", "price",
			"duration_minutes", "is_active", "created_at", "updated_at",
		}).AddRow("svc-1", "biz-1", "Haircut", "", 30.0, int64(45), true, now, now))

	services, err := adapter.ListActiveByBusiness(context.Background(), "biz-1")

	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Haircut", services[0].Name)
	assert.Equal(t, 45, services[0].DurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryAdapter_GetByIDNotFound(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCategoryAdapter(client)

	mock.ExpectQuery(`FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "icon", "is_active", "created_at"}))

	_, err := adapter.GetByID(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAdapter_SearchPassesNullForEmptyCriteria(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewSearchAdapter(client)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM sp_search_businesses($1, $2, $3)`)).
		WithArgs("spa", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "business_name", "description", "address", "city", "state",
			"latitude", "longitude", "phone_number", "email", "rating",
			"total_reviews", "is_verified", "category_name",
		}).AddRow("biz-1", "Day Spa", "", "", "Austin", "TX", 30.0, -97.0, "", "", 4.0, int64(2), true, "Wellness"))

	results, err := adapter.SearchBusinesses(context.Background(), repositories.SearchCriteria{SearchTerm: "spa"})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Day Spa", results[0].Name)
	assert.Equal(t, "Wellness", results[0].CategoryName)
	assert.True(t, results[0].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAdapter_Nearby(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewSearchAdapter(client)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM sp_get_nearby_businesses($1, $2, $3, $4)`)).
		WithArgs(30.27, -97.74, 10.0, "cat-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "business_name", "description", "address", "city", "state",
			"phone_number", "email", "rating", "total_reviews", "is_verified",
			"category_name", "distance_in_km",
		}).AddRow("biz-1", "Close", "", "", "Austin", "TX", "", "", 3.5, int64(1), false, "Salon", 1.2))

	rows, err := adapter.NearbyBusinesses(context.Background(), repositories.NearbyQuery{
		Latitude: 30.27, Longitude: -97.74, RadiusInKm: 10, CategoryID: "cat-1",
	})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.2, rows[0].DistanceInKm)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAdapter_QuickSearchEscapesWildcards(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewSearchAdapter(client)

	mock.ExpectQuery(`ILIKE '%50\\+%%'.*LIMIT 5`).
		WillReturnRows(sqlmock.NewRows(businessCols).AddRow(businessRow("biz-1", "50% Off Cuts", true)...))

	results, err := adapter.QuickSearch(context.Background(), "50%", 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "50% Off Cuts", results[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
