package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/models"
)

// SeatLedgerService is the only component that adjusts a trip's seat count.
// Reservation rides on the store's conditional update; the read that follows
// a failed reservation exists purely to name the reason, never to decide it.
type SeatLedgerService struct {
	trips  TripStore
	logger *logrus.Logger
}

// NewSeatLedgerService creates a new SeatLedgerService
func NewSeatLedgerService(trips TripStore, logger *logrus.Logger) *SeatLedgerService {
	return &SeatLedgerService{trips: trips, logger: logger}
}

// Reserve takes seatCount seats from the trip's available inventory.
// Returns ErrTripNotFound, ErrTripNotBookable, or ErrInsufficientSeats when
// the conditional update matched no row. InsufficientSeats is an expected
// outcome under contention and must not be retried automatically.
func (s *SeatLedgerService) Reserve(tripID string, seatCount int) error {
	if seatCount < 1 {
		return fmt.Errorf("%w: seat count must be at least 1", models.ErrValidation)
	}

	reserved, err := s.trips.ReserveSeats(tripID, seatCount)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if reserved {
		s.logger.WithFields(logrus.Fields{
			"trip_id": tripID,
			"seats":   seatCount,
		}).Info("Seats reserved")
		return nil
	}

	// The update matched nothing. Read the trip to classify the refusal.
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return fmt.Errorf("failed to classify reservation failure: %w", err)
	}
	if trip == nil {
		return models.ErrTripNotFound
	}
	if !trip.IsBookable() {
		return models.ErrTripNotBookable
	}
	return models.ErrInsufficientSeats
}

// Release returns seatCount seats to the trip's available inventory, capped
// at the trip's total. A release that would push the count past the total
// means a caller released seats it never held; the store clamps the count
// and the overshoot is logged here as an integrity error.
func (s *SeatLedgerService) Release(tripID string, seatCount int) error {
	if seatCount < 1 {
		return fmt.Errorf("%w: seat count must be at least 1", models.ErrValidation)
	}

	overshoot, err := s.trips.ReleaseSeats(tripID, seatCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrTripNotFound
		}
		return fmt.Errorf("failed to release seats: %w", err)
	}

	if overshoot > 0 {
		s.logger.WithFields(logrus.Fields{
			"trip_id":   tripID,
			"seats":     seatCount,
			"overshoot": overshoot,
		}).Error("Seat release exceeded trip capacity; count clamped to seats_total")
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": tripID,
		"seats":   seatCount,
	}).Info("Seats released")

	return nil
}
