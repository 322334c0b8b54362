package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitbook/booking-backend/internal/models"
)

func newTicketFixture(t *testing.T) (*TicketService, *fakeTripStore, *fakeBookingStore, string) {
	t.Helper()

	trips := newFakeTripStore()
	bookings := newFakeBookingStore()
	userID := uuid.New().String()
	users := newFakeUserStore(userID)

	trip := &models.Trip{
		ID:             uuid.New().String(),
		RouteID:        uuid.New().String(),
		CompanyName:    "Blue Line Express",
		TransportType:  "bus",
		DepartureTime:  time.Now().Add(24 * time.Hour),
		ArrivalTime:    time.Now().Add(27 * time.Hour),
		SeatsTotal:     40,
		SeatsAvailable: 38,
		Status:         models.TripStatusScheduled,
		IsActive:       true,
	}
	trips.add(trip)

	bookings.add(&models.Booking{
		ID:            uuid.New().String(),
		UserID:        userID,
		TripID:        trip.ID,
		BookingStatus: models.BookingStatusConfirmed,
		SeatsBooked:   2,
		TotalPrice:    50.00,
		Currency:      "USD",
	})

	return NewTicketService(bookings, trips, users, testLogger()), trips, bookings, userID
}

func TestGenerateETicket(t *testing.T) {
	t.Run("Confirmed Booking", func(t *testing.T) {
		service, _, bookings, _ := newTicketFixture(t)
		var bookingID string
		for id := range bookings.bookings {
			bookingID = id
		}

		pdf, err := service.GenerateETicket(bookingID)
		require.NoError(t, err)
		require.NotEmpty(t, pdf)
		assert.Equal(t, "%PDF", string(pdf[:4]))
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		service, _, _, _ := newTicketFixture(t)

		_, err := service.GenerateETicket(uuid.New().String())
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})

	t.Run("Cancelled Booking Has No Ticket", func(t *testing.T) {
		service, _, bookings, userID := newTicketFixture(t)

		cancelled := &models.Booking{
			ID:            uuid.New().String(),
			UserID:        userID,
			TripID:        uuid.New().String(),
			BookingStatus: models.BookingStatusCancelled,
			SeatsBooked:   1,
			TotalPrice:    25.00,
			Currency:      "USD",
		}
		bookings.add(cancelled)

		_, err := service.GenerateETicket(cancelled.ID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})
}
