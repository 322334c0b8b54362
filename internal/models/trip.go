package models

import (
	"errors"
	"time"
)

// TripStatus represents the business status of a trip
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Trip represents a scheduled departure with a finite seat inventory.
// Business status and soft-delete are independent axes: a trip can be
// scheduled yet trashed, and bookability is a function of both.
type Trip struct {
	ID             string     `json:"id" db:"id"`
	RouteID        string     `json:"route_id" db:"route_id"`
	CompanyName    string     `json:"company_name" db:"company_name"`
	TransportType  string     `json:"transport_type" db:"transport_type"`
	DepartureTime  time.Time  `json:"departure_time" db:"departure_time"`
	ArrivalTime    time.Time  `json:"arrival_time" db:"arrival_time"`
	SeatsTotal     int        `json:"seats_total" db:"seats_total"`
	SeatsAvailable int        `json:"seats_available" db:"seats_available"`
	Status         TripStatus `json:"status" db:"status"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// IsTrashed reports whether the trip is soft-deleted
func (t *Trip) IsTrashed() bool {
	return t.DeletedAt != nil
}

// IsBookable reports whether the trip accepts new bookings.
// True iff status is scheduled, the trip is not trashed, and it is active.
func (t *Trip) IsBookable() bool {
	return t.Status == TripStatusScheduled && !t.IsTrashed() && t.IsActive
}

// CanBeCompleted checks if the trip can transition to completed
func (t *Trip) CanBeCompleted() bool {
	return t.Status == TripStatusScheduled
}

// CanBeCancelled checks if the trip can transition to cancelled
func (t *Trip) CanBeCancelled() bool {
	return t.Status == TripStatusScheduled
}

// CreateTripRequest represents the request to create a trip
type CreateTripRequest struct {
	RouteID       string `json:"route_id" binding:"required"`
	CompanyName   string `json:"company_name" binding:"required"`
	TransportType string `json:"transport_type" binding:"required"`
	DepartureTime string `json:"departure_time" binding:"required"`
	ArrivalTime   string `json:"arrival_time" binding:"required"`
	SeatsTotal    int    `json:"seats_total" binding:"required,min=1"`
}

// Validate validates the create trip request
func (r *CreateTripRequest) Validate() error {
	if r.SeatsTotal < 1 {
		return errors.New("seats_total must be at least 1")
	}

	departure, err := time.Parse(time.RFC3339, r.DepartureTime)
	if err != nil {
		return errors.New("departure_time must be in RFC3339 format")
	}

	arrival, err := time.Parse(time.RFC3339, r.ArrivalTime)
	if err != nil {
		return errors.New("arrival_time must be in RFC3339 format")
	}

	if !arrival.After(departure) {
		return errors.New("arrival_time must be after departure_time")
	}

	return nil
}
