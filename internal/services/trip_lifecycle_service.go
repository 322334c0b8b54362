package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/models"
	"github.com/transitbook/booking-backend/internal/queue"
)

// TripLifecycleService governs the two independent axes of a trip's
// lifecycle: business status (scheduled/completed/cancelled) and soft-delete
// (active/trashed). It never touches seat counts; cancelling a trip only
// signals that its bookings need releasing, which the booking service does.
type TripLifecycleService struct {
	trips     TripStore
	bookings  BookingStore
	publisher EventPublisher
	logger    *logrus.Logger
}

// NewTripLifecycleService creates a new TripLifecycleService. publisher may
// be nil when event publishing is disabled.
func NewTripLifecycleService(trips TripStore, bookings BookingStore, publisher EventPublisher, logger *logrus.Logger) *TripLifecycleService {
	return &TripLifecycleService{trips: trips, bookings: bookings, publisher: publisher, logger: logger}
}

// IsBookable reports whether the trip currently accepts bookings
func (s *TripLifecycleService) IsBookable(tripID string) (bool, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return false, fmt.Errorf("failed to get trip: %w", err)
	}
	if trip == nil {
		return false, models.ErrTripNotFound
	}
	return trip.IsBookable(), nil
}

// CompleteTrip marks a scheduled trip as completed. Irreversible.
func (s *TripLifecycleService) CompleteTrip(tripID string) (*models.Trip, error) {
	return s.transition(tripID, models.TripStatusCompleted)
}

// CancelTrip marks a scheduled trip as cancelled and returns its still
// confirmed bookings so the caller can release their seats. Irreversible.
func (s *TripLifecycleService) CancelTrip(tripID string) (*models.Trip, []models.Booking, error) {
	trip, err := s.transition(tripID, models.TripStatusCancelled)
	if err != nil {
		return nil, nil, err
	}

	held, err := s.bookings.GetConfirmedByTripID(tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list bookings on cancelled trip: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":          tripID,
		"bookings_to_free": len(held),
	}).Info("Trip cancelled")

	if s.publisher != nil {
		event := queue.TripCancelledEvent{
			TripID:      trip.ID,
			RouteID:     trip.RouteID,
			CancelledAt: trip.UpdatedAt,
		}
		if err := s.publisher.PublishTripCancelled(context.Background(), event); err != nil {
			s.logger.WithFields(logrus.Fields{
				"trip_id": tripID,
				"error":   err.Error(),
			}).Warn("Failed to publish trip cancelled event")
		}
	}

	return trip, held, nil
}

// TrashTrip soft-deletes a trip, hiding it from booking. Trashing an
// already trashed trip is a no-op so client retries are harmless.
func (s *TripLifecycleService) TrashTrip(tripID string) error {
	if err := s.trips.Trash(tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrTripNotFound
		}
		return fmt.Errorf("failed to trash trip: %w", err)
	}

	s.logger.WithField("trip_id", tripID).Info("Trip trashed")
	return nil
}

// RestoreTrip reverses a soft-delete
func (s *TripLifecycleService) RestoreTrip(tripID string) error {
	if err := s.trips.Restore(tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrTripNotFound
		}
		return fmt.Errorf("failed to restore trip: %w", err)
	}

	s.logger.WithField("trip_id", tripID).Info("Trip restored")
	return nil
}

// PermanentDeleteTrip removes a trashed trip with no remaining non-cancelled
// bookings. The guarded delete in the store is authoritative; the reads here
// only classify a refusal.
func (s *TripLifecycleService) PermanentDeleteTrip(tripID string) error {
	deleted, err := s.trips.PermanentDelete(tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if deleted {
		s.logger.WithField("trip_id", tripID).Info("Trip permanently deleted")
		return nil
	}

	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return fmt.Errorf("failed to classify delete failure: %w", err)
	}
	if trip == nil {
		return models.ErrTripNotFound
	}
	if !trip.IsTrashed() {
		return models.ErrTripNotTrashed
	}

	active, err := s.bookings.CountActiveByTripID(tripID)
	if err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if active > 0 {
		return models.ErrHasActiveBookings
	}

	// The guard refused but neither reason holds anymore; a concurrent
	// restore or booking raced us. Let the caller reconcile and retry.
	return models.ErrHasActiveBookings
}

func (s *TripLifecycleService) transition(tripID string, to models.TripStatus) (*models.Trip, error) {
	ok, err := s.trips.UpdateStatusFrom(tripID, to, models.TripStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to update trip status: %w", err)
	}
	if !ok {
		trip, err := s.trips.GetByID(tripID)
		if err != nil {
			return nil, fmt.Errorf("failed to classify transition failure: %w", err)
		}
		if trip == nil {
			return nil, models.ErrTripNotFound
		}
		return nil, fmt.Errorf("%w: trip is %s", models.ErrInvalidTransition, trip.Status)
	}

	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload trip: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": tripID,
		"status":  to,
	}).Info("Trip status updated")

	return trip, nil
}
