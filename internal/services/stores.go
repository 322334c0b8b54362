package services

import (
	"context"
	"time"

	"github.com/transitbook/booking-backend/internal/models"
	"github.com/transitbook/booking-backend/internal/queue"
)

// Store interfaces declare the slices of the repositories the services
// depend on. The database package satisfies them; tests substitute
// in-memory fakes.

// TripStore provides trip rows and the atomic seat-count primitives
type TripStore interface {
	Create(trip *models.Trip) error
	GetByID(tripID string) (*models.Trip, error)
	ListBookable(from, to time.Time) ([]models.Trip, error)
	ListTrashed(before time.Time) ([]models.Trip, error)
	ReserveSeats(tripID string, seatCount int) (bool, error)
	ReleaseSeats(tripID string, seatCount int) (int, error)
	UpdateStatusFrom(tripID string, to, from models.TripStatus) (bool, error)
	Trash(tripID string) error
	Restore(tripID string) error
	PermanentDelete(tripID string) (bool, error)
}

// BookingStore provides booking rows with guarded status transitions
type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(bookingID string) (*models.Booking, error)
	GetByUserID(userID string) ([]models.Booking, error)
	GetConfirmedByTripID(tripID string) ([]models.Booking, error)
	CountActiveByTripID(tripID string) (int, error)
	UpdateStatusFrom(bookingID string, to, from models.BookingStatus) (bool, error)
	Delete(bookingID string) error
}

// FareStore provides read-only fare and fare-reference lookups
type FareStore interface {
	GetFare(tripID, fareCategoryID string, bookingOptionID *string) (*models.TripFare, error)
	GetCheapestFare(tripID string) (*models.TripFare, error)
	ListByTripID(tripID string) ([]models.TripFare, error)
	ListFareCategories() ([]models.FareCategory, error)
	ListBookingOptions() ([]models.BookingOption, error)
}

// RouteStore provides read-only route, city and station reference data
type RouteStore interface {
	RouteExists(routeID string) (bool, error)
	GetRouteByID(routeID string) (*models.RouteDetails, error)
	GetCityByID(cityID string) (*models.City, error)
	GetStationsByCityID(cityID string) ([]models.Station, error)
}

// UserStore checks user references
type UserStore interface {
	ExistsByID(userID string) (bool, error)
	GetByID(userID string) (*models.User, error)
}

// EventPublisher publishes booking lifecycle events. Implementations must
// tolerate broker outages; callers treat failures as non-fatal.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
	PublishBookingCancelled(ctx context.Context, event queue.BookingCancelledEvent) error
	PublishTripCancelled(ctx context.Context, event queue.TripCancelledEvent) error
}
