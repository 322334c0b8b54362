package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitbook/booking-backend/internal/models"
)

func bookingColumns() []string {
	return []string{
		"id", "user_id", "trip_id", "booking_status", "seats_booked",
		"total_price", "currency", "fare_category_id", "booking_option_id",
		"cancelled_at", "created_at", "updated_at",
	}
}

func TestCreateBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		userID := uuid.New().String()
		tripID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(
				sqlmock.AnyArg(), userID, tripID, models.BookingStatusConfirmed, 2,
				59.80, "USD", nil, nil,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		booking := &models.Booking{
			UserID:      userID,
			TripID:      tripID,
			SeatsBooked: 2,
			TotalPrice:  59.80,
			Currency:    "USD",
		}

		err := repo.Create(booking)
		require.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, models.BookingStatusConfirmed, booking.BookingStatus)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))

		booking := &models.Booking{
			UserID:      uuid.New().String(),
			TripID:      uuid.New().String(),
			SeatsBooked: 1,
		}

		err := repo.Create(booking)
		assert.Error(t, err)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}

func TestGetBookingByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		bookingID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumns()).AddRow(
				bookingID, uuid.New().String(), uuid.New().String(), "confirmed", 2,
				59.80, "USD", nil, nil,
				nil, now, now,
			))

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		require.NotNil(t, booking)
		assert.Equal(t, bookingID, booking.ID)
		assert.Nil(t, booking.FareCategoryID)
		assert.Nil(t, booking.CancelledAt)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Cancelled With Fare Category", func(t *testing.T) {
		bookingID := uuid.New().String()
		fareCategoryID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumns()).AddRow(
				bookingID, uuid.New().String(), uuid.New().String(), "cancelled", 2,
				59.80, "USD", fareCategoryID, nil,
				now, now, now,
			))

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		require.NotNil(t, booking)
		assert.Equal(t, models.BookingStatusCancelled, booking.BookingStatus)
		require.NotNil(t, booking.FareCategoryID)
		assert.Equal(t, fareCategoryID, *booking.FareCategoryID)
		assert.NotNil(t, booking.CancelledAt)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Not Found", func(t *testing.T) {
		bookingID := uuid.New().String()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		assert.Nil(t, booking)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}

func TestUpdateBookingStatusFrom(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		bookingID := uuid.New().String()

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusCancelled, models.BookingStatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateStatusFrom(bookingID, models.BookingStatusCancelled, models.BookingStatusConfirmed)
		require.NoError(t, err)
		assert.True(t, ok)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Lost Race", func(t *testing.T) {
		// Booking already left the expected state: zero rows affected
		bookingID := uuid.New().String()

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusCancelled, models.BookingStatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateStatusFrom(bookingID, models.BookingStatusCancelled, models.BookingStatusConfirmed)
		require.NoError(t, err)
		assert.False(t, ok)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}

func TestCountActiveByTripID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		tripID := uuid.New().String()

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountActiveByTripID(tripID)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}

func TestGetConfirmedByTripID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		tripID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(bookingColumns()).
				AddRow(
					uuid.New().String(), uuid.New().String(), tripID, "confirmed", 1,
					29.90, "USD", nil, nil, nil, now, now,
				).
				AddRow(
					uuid.New().String(), uuid.New().String(), tripID, "confirmed", 4,
					119.60, "USD", nil, nil, nil, now, now,
				))

		bookings, err := repo.GetConfirmedByTripID(tripID)
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
		assert.Equal(t, 4, bookings[1].SeatsBooked)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}

func TestDeleteBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		bookingID := uuid.New().String()

		mock.ExpectExec(`DELETE FROM bookings`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(bookingID)
		assert.NoError(t, err)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Not Found", func(t *testing.T) {
		bookingID := uuid.New().String()

		mock.ExpectExec(`DELETE FROM bookings`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(bookingID)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}
