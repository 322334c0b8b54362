package queue

import "time"

// Queue names for booking lifecycle events
const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
	QueueTripCancelled    = "trip.cancelled"
)

// BookingConfirmedEvent is published after a booking commits with its seats held
type BookingConfirmedEvent struct {
	BookingID   string    `json:"booking_id"`
	TripID      string    `json:"trip_id"`
	UserID      string    `json:"user_id"`
	SeatsBooked int       `json:"seats_booked"`
	TotalPrice  float64   `json:"total_price"`
	Currency    string    `json:"currency"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// BookingCancelledEvent is published after a booking is cancelled and its
// seats released
type BookingCancelledEvent struct {
	BookingID     string    `json:"booking_id"`
	TripID        string    `json:"trip_id"`
	UserID        string    `json:"user_id"`
	SeatsReleased int       `json:"seats_released"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

// TripCancelledEvent is published when a trip is cancelled by an operator
type TripCancelledEvent struct {
	TripID      string    `json:"trip_id"`
	RouteID     string    `json:"route_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}
