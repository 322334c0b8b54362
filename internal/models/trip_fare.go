package models

import "time"

// TripFare represents a priced offering for a trip, keyed by fare category
// and optional booking option. Read-only as far as the booking core is
// concerned; fares are maintained by administrative tooling.
type TripFare struct {
	ID              string    `json:"id" db:"id"`
	TripID          string    `json:"trip_id" db:"trip_id"`
	FareCategoryID  string    `json:"fare_category_id" db:"fare_category_id"`
	BookingOptionID *string   `json:"booking_option_id,omitempty" db:"booking_option_id"`
	Price           float64   `json:"price" db:"price"`
	Currency        string    `json:"currency" db:"currency"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// FareCategory is a named passenger class (adult, child, senior, ...)
type FareCategory struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// BookingOption is a named service tier (standard, flexible, ...)
type BookingOption struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
