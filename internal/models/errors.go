package models

import "errors"

// Sentinel errors returned by services and mapped to HTTP responses by the
// handlers. Infrastructure failures are wrapped with fmt.Errorf("...: %w", err)
// instead and surface as internal errors.
var (
	// ErrValidation marks malformed input, rejected before any inventory access.
	ErrValidation = errors.New("invalid request")

	ErrTripNotFound    = errors.New("trip not found")
	ErrRouteNotFound   = errors.New("route not found")
	ErrCityNotFound    = errors.New("city not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrFareNotFound    = errors.New("no fare found for trip")

	// ErrInsufficientSeats is an expected outcome under contention, surfaced
	// as "sold out" and never retried automatically.
	ErrInsufficientSeats = errors.New("not enough seats available")

	ErrTripNotBookable   = errors.New("trip is not open for booking")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrHasActiveBookings = errors.New("trip has active bookings")
	ErrTripNotTrashed    = errors.New("trip must be trashed before permanent deletion")

	// ErrIntegrity means a reservation and its booking record got out of step
	// and compensation also failed. Operator attention required.
	ErrIntegrity = errors.New("booking integrity failure")
)
