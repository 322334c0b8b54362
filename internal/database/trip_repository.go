package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/transitbook/booking-backend/internal/models"
)

// TripRepository handles database operations for the trips table.
// Seat counts are only ever changed through ReserveSeats and ReleaseSeats;
// both are single-statement conditional updates so correctness does not
// depend on transaction isolation level.
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create creates a new trip. Available seats always start equal to the
// total; inventory is consumed exclusively through ReserveSeats.
func (r *TripRepository) Create(trip *models.Trip) error {
	query := `
		INSERT INTO trips (
			id, route_id, company_name, transport_type,
			departure_time, arrival_time, seats_total, seats_available,
			status, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	trip.SeatsAvailable = trip.SeatsTotal
	if trip.Status == "" {
		trip.Status = models.TripStatusScheduled
	}

	err := r.db.QueryRow(
		query,
		trip.ID, trip.RouteID, trip.CompanyName, trip.TransportType,
		trip.DepartureTime, trip.ArrivalTime, trip.SeatsTotal,
		trip.Status, trip.IsActive,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)

	return err
}

// GetByID retrieves a trip by ID, trashed or not. Returns nil when the trip
// does not exist.
func (r *TripRepository) GetByID(tripID string) (*models.Trip, error) {
	query := `
		SELECT id, route_id, company_name, transport_type,
			   departure_time, arrival_time, seats_total, seats_available,
			   status, deleted_at, is_active, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	trip, err := r.scanTrip(r.db.QueryRow(query, tripID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return trip, err
}

// ListBookable retrieves trips open for booking within a departure window
func (r *TripRepository) ListBookable(from, to time.Time) ([]models.Trip, error) {
	query := `
		SELECT id, route_id, company_name, transport_type,
			   departure_time, arrival_time, seats_total, seats_available,
			   status, deleted_at, is_active, created_at, updated_at
		FROM trips
		WHERE status = 'scheduled'
		  AND deleted_at IS NULL
		  AND is_active = true
		  AND seats_available > 0
		  AND departure_time BETWEEN $1 AND $2
		ORDER BY departure_time
	`

	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTrips(rows)
}

// ListTrashed retrieves trips that were soft-deleted before the cutoff
func (r *TripRepository) ListTrashed(before time.Time) ([]models.Trip, error) {
	query := `
		SELECT id, route_id, company_name, transport_type,
			   departure_time, arrival_time, seats_total, seats_available,
			   status, deleted_at, is_active, created_at, updated_at
		FROM trips
		WHERE deleted_at IS NOT NULL
		  AND deleted_at < $1
		ORDER BY deleted_at
	`

	rows, err := r.db.Query(query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTrips(rows)
}

// ReserveSeats decrements seats_available by seatCount iff the trip is
// bookable and has enough seats left. The whole check-and-decrement is one
// statement against the store, which is the mechanism that prevents
// overselling under concurrent requests. Returns false when no row matched;
// the caller distinguishes why.
func (r *TripRepository) ReserveSeats(tripID string, seatCount int) (bool, error) {
	query := `
		UPDATE trips
		SET seats_available = seats_available - $2, updated_at = NOW()
		WHERE id = $1
		  AND status = 'scheduled'
		  AND deleted_at IS NULL
		  AND is_active = true
		  AND seats_available >= $2
	`

	result, err := r.db.Exec(query, tripID, seatCount)
	if err != nil {
		return false, fmt.Errorf("failed to reserve seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// ReleaseSeats increments seats_available by seatCount, capped at
// seats_total. The returned overshoot is positive when the uncapped result
// would have exceeded the total, which indicates a caller bug; the ledger
// logs it as an integrity error. Returns sql.ErrNoRows when the trip does
// not exist.
func (r *TripRepository) ReleaseSeats(tripID string, seatCount int) (int, error) {
	query := `
		WITH prev AS (
			SELECT seats_available, seats_total
			FROM trips
			WHERE id = $1
			FOR UPDATE
		)
		UPDATE trips t
		SET seats_available = LEAST(prev.seats_available + $2, prev.seats_total),
			updated_at = NOW()
		FROM prev
		WHERE t.id = $1
		RETURNING prev.seats_available + $2 - prev.seats_total
	`

	var overshoot int
	if err := r.db.QueryRow(query, tripID, seatCount).Scan(&overshoot); err != nil {
		return 0, err
	}

	if overshoot < 0 {
		overshoot = 0
	}
	return overshoot, nil
}

// UpdateStatusFrom transitions the trip's business status, guarded by the
// expected current status. Returns false when no row matched.
func (r *TripRepository) UpdateStatusFrom(tripID string, to, from models.TripStatus) (bool, error) {
	query := `
		UPDATE trips
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	result, err := r.db.Exec(query, tripID, to, from)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Trash soft-deletes a trip. Trashing an already trashed trip is a no-op.
func (r *TripRepository) Trash(tripID string) error {
	query := `
		UPDATE trips
		SET deleted_at = COALESCE(deleted_at, NOW()), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, tripID)
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

// Restore clears the soft-delete flag
func (r *TripRepository) Restore(tripID string) error {
	query := `
		UPDATE trips
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, tripID)
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

// PermanentDelete removes a trashed trip for good. The delete carries its own
// guard: it only fires when the trip is trashed and no non-cancelled booking
// references it. Returns false when no row matched; the caller classifies.
func (r *TripRepository) PermanentDelete(tripID string) (bool, error) {
	query := `
		DELETE FROM trips
		WHERE id = $1
		  AND deleted_at IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.trip_id = trips.id
			  AND b.booking_status != 'cancelled'
		  )
	`

	result, err := r.db.Exec(query, tripID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// scanTrip scans a single trip
func (r *TripRepository) scanTrip(row scanner) (*models.Trip, error) {
	trip := &models.Trip{}
	var deletedAt sql.NullTime

	err := row.Scan(
		&trip.ID, &trip.RouteID, &trip.CompanyName, &trip.TransportType,
		&trip.DepartureTime, &trip.ArrivalTime, &trip.SeatsTotal, &trip.SeatsAvailable,
		&trip.Status, &deletedAt, &trip.IsActive, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		trip.DeletedAt = &deletedAt.Time
	}

	return trip, nil
}

// scanTrips scans multiple trips from rows
func (r *TripRepository) scanTrips(rows *sql.Rows) ([]models.Trip, error) {
	trips := []models.Trip{}

	for rows.Next() {
		var trip models.Trip
		var deletedAt sql.NullTime

		err := rows.Scan(
			&trip.ID, &trip.RouteID, &trip.CompanyName, &trip.TransportType,
			&trip.DepartureTime, &trip.ArrivalTime, &trip.SeatsTotal, &trip.SeatsAvailable,
			&trip.Status, &deletedAt, &trip.IsActive, &trip.CreatedAt, &trip.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if deletedAt.Valid {
			trip.DeletedAt = &deletedAt.Time
		}

		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// scanner interface for QueryRow and Rows
type scanner interface {
	Scan(dest ...interface{}) error
}
