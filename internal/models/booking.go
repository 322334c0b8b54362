package models

import (
	"errors"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Valid reports whether the status is one of the known booking states
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in status s may move to next.
// Cancelled and completed are terminal; there is no pending state, bookings
// are born confirmed with their seats already reserved.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s != BookingStatusConfirmed {
		return false
	}
	return next == BookingStatusCancelled || next == BookingStatusCompleted
}

// Booking represents a confirmed seat reservation on a trip
type Booking struct {
	ID              string        `json:"id" db:"id"`
	UserID          string        `json:"user_id" db:"user_id"`
	TripID          string        `json:"trip_id" db:"trip_id"`
	BookingStatus   BookingStatus `json:"booking_status" db:"booking_status"`
	SeatsBooked     int           `json:"seats_booked" db:"seats_booked"`
	TotalPrice      float64       `json:"total_price" db:"total_price"`
	Currency        string        `json:"currency" db:"currency"`
	FareCategoryID  *string       `json:"fare_category_id,omitempty" db:"fare_category_id"`
	BookingOptionID *string       `json:"booking_option_id,omitempty" db:"booking_option_id"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// IsFinal reports whether the booking is in a terminal state
func (b *Booking) IsFinal() bool {
	return b.BookingStatus == BookingStatusCancelled || b.BookingStatus == BookingStatusCompleted
}

// CanBeCancelled checks if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.BookingStatus == BookingStatusConfirmed
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	TripID          string  `json:"trip_id" binding:"required"`
	SeatsBooked     int     `json:"seats_booked" binding:"required,min=1"`
	FareCategoryID  *string `json:"fare_category_id,omitempty"`
	BookingOptionID *string `json:"booking_option_id,omitempty"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if r.TripID == "" {
		return errors.New("trip_id is required")
	}

	if r.SeatsBooked < 1 {
		return errors.New("seats_booked must be at least 1")
	}

	if r.BookingOptionID != nil && r.FareCategoryID == nil {
		return errors.New("booking_option_id requires a fare_category_id")
	}

	return nil
}

// UpdateBookingStatusRequest represents the request to update a booking status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
