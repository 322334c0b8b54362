package database

import (
	"database/sql"

	"github.com/transitbook/booking-backend/internal/models"
)

// TripFareRepository handles read-only lookups against the trip_fares table
type TripFareRepository struct {
	db DB
}

// NewTripFareRepository creates a new TripFareRepository
func NewTripFareRepository(db DB) *TripFareRepository {
	return &TripFareRepository{db: db}
}

// GetFare looks up the priced offering for a trip, fare category, and
// optional booking option. Returns nil when no such fare exists.
func (r *TripFareRepository) GetFare(tripID, fareCategoryID string, bookingOptionID *string) (*models.TripFare, error) {
	query := `
		SELECT id, trip_id, fare_category_id, booking_option_id, price, currency, created_at
		FROM trip_fares
		WHERE trip_id = $1
		  AND fare_category_id = $2
		  AND booking_option_id IS NOT DISTINCT FROM $3
	`

	fare, err := r.scanFare(r.db.QueryRow(query, tripID, fareCategoryID, bookingOptionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return fare, err
}

// GetCheapestFare returns the lowest-priced offering for a trip, used when a
// booking names no fare category. Returns nil when the trip has no fares.
func (r *TripFareRepository) GetCheapestFare(tripID string) (*models.TripFare, error) {
	query := `
		SELECT id, trip_id, fare_category_id, booking_option_id, price, currency, created_at
		FROM trip_fares
		WHERE trip_id = $1
		ORDER BY price, fare_category_id
		LIMIT 1
	`

	fare, err := r.scanFare(r.db.QueryRow(query, tripID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return fare, err
}

// ListByTripID returns all priced offerings for a trip
func (r *TripFareRepository) ListByTripID(tripID string) ([]models.TripFare, error) {
	query := `
		SELECT id, trip_id, fare_category_id, booking_option_id, price, currency, created_at
		FROM trip_fares
		WHERE trip_id = $1
		ORDER BY fare_category_id, price
	`

	rows, err := r.db.Query(query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fares := []models.TripFare{}
	for rows.Next() {
		var fare models.TripFare
		var bookingOptionID sql.NullString

		err := rows.Scan(
			&fare.ID, &fare.TripID, &fare.FareCategoryID, &bookingOptionID,
			&fare.Price, &fare.Currency, &fare.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if bookingOptionID.Valid {
			fare.BookingOptionID = &bookingOptionID.String
		}

		fares = append(fares, fare)
	}

	return fares, rows.Err()
}

// ListFareCategories returns every passenger class, for booking forms
func (r *TripFareRepository) ListFareCategories() ([]models.FareCategory, error) {
	rows, err := r.db.Query(`SELECT id, name FROM fare_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.FareCategory{}
	for rows.Next() {
		var category models.FareCategory
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// ListBookingOptions returns every service tier, for booking forms
func (r *TripFareRepository) ListBookingOptions() ([]models.BookingOption, error) {
	rows, err := r.db.Query(`SELECT id, name FROM booking_options ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.BookingOption{}
	for rows.Next() {
		var option models.BookingOption
		if err := rows.Scan(&option.ID, &option.Name); err != nil {
			return nil, err
		}
		options = append(options, option)
	}

	return options, rows.Err()
}

func (r *TripFareRepository) scanFare(row scanner) (*models.TripFare, error) {
	fare := &models.TripFare{}
	var bookingOptionID sql.NullString

	err := row.Scan(
		&fare.ID, &fare.TripID, &fare.FareCategoryID, &bookingOptionID,
		&fare.Price, &fare.Currency, &fare.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bookingOptionID.Valid {
		fare.BookingOptionID = &bookingOptionID.String
	}

	return fare, nil
}
