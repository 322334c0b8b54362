package database

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/transitbook/booking-backend/internal/models"
)

// BookingRepository handles database operations for the bookings table.
// Status changes are guarded by the expected current status in the WHERE
// clause so a transition can commit at most once, no matter how many
// concurrent requests race for it.
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create persists a new booking
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, trip_id, booking_status, seats_booked,
			total_price, currency, fare_category_id, booking_option_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.BookingStatus == "" {
		booking.BookingStatus = models.BookingStatusConfirmed
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.UserID, booking.TripID, booking.BookingStatus, booking.SeatsBooked,
		booking.TotalPrice, booking.Currency, booking.FareCategoryID, booking.BookingOptionID,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	return err
}

// GetByID retrieves a booking by ID. Returns nil when it does not exist.
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `
		SELECT id, user_id, trip_id, booking_status, seats_booked,
			   total_price, currency, fare_category_id, booking_option_id,
			   cancelled_at, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	booking, err := r.scanBooking(r.db.QueryRow(query, bookingID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

// GetByUserID retrieves all bookings for a user, newest first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := `
		SELECT id, user_id, trip_id, booking_status, seats_booked,
			   total_price, currency, fare_category_id, booking_option_id,
			   cancelled_at, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetConfirmedByTripID retrieves the confirmed bookings on a trip
func (r *BookingRepository) GetConfirmedByTripID(tripID string) ([]models.Booking, error) {
	query := `
		SELECT id, user_id, trip_id, booking_status, seats_booked,
			   total_price, currency, fare_category_id, booking_option_id,
			   cancelled_at, created_at, updated_at
		FROM bookings
		WHERE trip_id = $1
		  AND booking_status = 'confirmed'
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountActiveByTripID counts the non-cancelled bookings referencing a trip
func (r *BookingRepository) CountActiveByTripID(tripID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE trip_id = $1
		  AND booking_status != 'cancelled'
	`

	var count int
	err := r.db.QueryRow(query, tripID).Scan(&count)
	return count, err
}

// UpdateStatusFrom transitions a booking's status, guarded by the expected
// current status. Returns false when no row matched, meaning the booking is
// missing or no longer in the expected state.
func (r *BookingRepository) UpdateStatusFrom(bookingID string, to, from models.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET booking_status = $2,
			cancelled_at = CASE WHEN $2 = 'cancelled' THEN NOW() ELSE cancelled_at END,
			updated_at = NOW()
		WHERE id = $1 AND booking_status = $3
	`

	result, err := r.db.Exec(query, bookingID, to, from)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Delete removes a booking row
func (r *BookingRepository) Delete(bookingID string) error {
	result, err := r.db.Exec(`DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// scanBooking scans a single booking
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var fareCategoryID sql.NullString
	var bookingOptionID sql.NullString
	var cancelledAt sql.NullTime

	err := row.Scan(
		&booking.ID, &booking.UserID, &booking.TripID, &booking.BookingStatus, &booking.SeatsBooked,
		&booking.TotalPrice, &booking.Currency, &fareCategoryID, &bookingOptionID,
		&cancelledAt, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fareCategoryID.Valid {
		booking.FareCategoryID = &fareCategoryID.String
	}
	if bookingOptionID.Valid {
		booking.BookingOptionID = &bookingOptionID.String
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}

	return booking, nil
}

// scanBookings scans multiple bookings from rows
func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}

	for rows.Next() {
		var booking models.Booking
		var fareCategoryID sql.NullString
		var bookingOptionID sql.NullString
		var cancelledAt sql.NullTime

		err := rows.Scan(
			&booking.ID, &booking.UserID, &booking.TripID, &booking.BookingStatus, &booking.SeatsBooked,
			&booking.TotalPrice, &booking.Currency, &fareCategoryID, &bookingOptionID,
			&cancelledAt, &booking.CreatedAt, &booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if fareCategoryID.Valid {
			booking.FareCategoryID = &fareCategoryID.String
		}
		if bookingOptionID.Valid {
			booking.BookingOptionID = &bookingOptionID.String
		}
		if cancelledAt.Valid {
			booking.CancelledAt = &cancelledAt.Time
		}

		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
