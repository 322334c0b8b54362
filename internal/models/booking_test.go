package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func nowPtr() *time.Time {
	now := time.Now()
	return &now
}

func TestBookingStatusTransitions(t *testing.T) {
	t.Run("Confirmed May Cancel Or Complete", func(t *testing.T) {
		assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelled))
		assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCompleted))
	})

	t.Run("Terminal States Stay Terminal", func(t *testing.T) {
		assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusConfirmed))
		assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusCompleted))
		assert.False(t, BookingStatusCompleted.CanTransitionTo(BookingStatusConfirmed))
		assert.False(t, BookingStatusCompleted.CanTransitionTo(BookingStatusCancelled))
	})

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, BookingStatusConfirmed.Valid())
		assert.True(t, BookingStatusCancelled.Valid())
		assert.True(t, BookingStatusCompleted.Valid())
		assert.False(t, BookingStatus("boarding").Valid())
	})
}

func TestCreateBookingRequestValidate(t *testing.T) {
	category := "standard"
	option := "window"

	t.Run("Valid", func(t *testing.T) {
		req := CreateBookingRequest{TripID: "trip-1", SeatsBooked: 2}
		assert.NoError(t, req.Validate())

		req = CreateBookingRequest{TripID: "trip-1", SeatsBooked: 10, FareCategoryID: &category, BookingOptionID: &option}
		assert.NoError(t, req.Validate())
	})

	t.Run("Missing Trip", func(t *testing.T) {
		req := CreateBookingRequest{SeatsBooked: 2}
		assert.Error(t, req.Validate())
	})

	t.Run("Seat Bounds", func(t *testing.T) {
		req := CreateBookingRequest{TripID: "trip-1", SeatsBooked: 0}
		assert.Error(t, req.Validate())

		// The upper bound is a deployment setting enforced by the
		// booking service, not by the request itself.
		req.SeatsBooked = 50
		assert.NoError(t, req.Validate())
	})

	t.Run("Option Requires Category", func(t *testing.T) {
		req := CreateBookingRequest{TripID: "trip-1", SeatsBooked: 1, BookingOptionID: &option}
		assert.Error(t, req.Validate())
	})
}

func TestTripBookability(t *testing.T) {
	now := nowPtr()

	cases := []struct {
		name     string
		trip     Trip
		bookable bool
	}{
		{"Scheduled Active", Trip{Status: TripStatusScheduled, IsActive: true}, true},
		{"Trashed", Trip{Status: TripStatusScheduled, IsActive: true, DeletedAt: now}, false},
		{"Inactive", Trip{Status: TripStatusScheduled, IsActive: false}, false},
		{"Completed", Trip{Status: TripStatusCompleted, IsActive: true}, false},
		{"Cancelled", Trip{Status: TripStatusCancelled, IsActive: true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.bookable, tc.trip.IsBookable())
		})
	}
}
