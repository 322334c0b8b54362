package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/config"
	"github.com/transitbook/booking-backend/internal/models"
	"github.com/transitbook/booking-backend/internal/queue"
)

// BookingService orchestrates the booking flow: fare resolution, seat
// reservation, persistence, and the compensating release when persistence
// fails. The seat ledger's conditional update is the only oversell guard;
// everything this service reads beforehand is advisory.
type BookingService struct {
	bookings  BookingStore
	users     UserStore
	ledger    *SeatLedgerService
	fares     *FareService
	publisher EventPublisher
	cfg       config.BookingConfig
	logger    *logrus.Logger
}

// NewBookingService creates a new BookingService. publisher may be nil when
// event publishing is disabled.
func NewBookingService(
	bookings BookingStore,
	users UserStore,
	ledger *SeatLedgerService,
	fares *FareService,
	publisher EventPublisher,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		users:     users,
		ledger:    ledger,
		fares:     fares,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// CreateBooking reserves seats and persists a confirmed booking. Seats are
// taken from the ledger first; if the booking row cannot be written the
// reservation is released so no seats leak.
func (s *BookingService) CreateBooking(userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}
	if req.SeatsBooked > s.cfg.MaxSeatsPerBooking {
		return nil, fmt.Errorf("%w: at most %d seats can be booked at once", models.ErrValidation, s.cfg.MaxSeatsPerBooking)
	}

	exists, err := s.users.ExistsByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}
	if !exists {
		return nil, models.ErrUserNotFound
	}

	fare, err := s.fares.Resolve(req.TripID, req.FareCategoryID, req.BookingOptionID)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Reserve(req.TripID, req.SeatsBooked); err != nil {
		return nil, err
	}

	currency := fare.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	booking := &models.Booking{
		UserID:          userID,
		TripID:          req.TripID,
		BookingStatus:   models.BookingStatusConfirmed,
		SeatsBooked:     req.SeatsBooked,
		TotalPrice:      fare.Price * float64(req.SeatsBooked),
		Currency:        currency,
		FareCategoryID:  req.FareCategoryID,
		BookingOptionID: req.BookingOptionID,
	}

	if err := s.bookings.Create(booking); err != nil {
		// Hand the seats back before surfacing the failure. If the
		// compensation itself fails the ledger is now inconsistent and
		// the error must say so.
		if relErr := s.ledger.Release(req.TripID, req.SeatsBooked); relErr != nil {
			s.logger.WithFields(logrus.Fields{
				"trip_id":       req.TripID,
				"seats":         req.SeatsBooked,
				"create_error":  err.Error(),
				"release_error": relErr.Error(),
			}).Error("Seat release after failed booking persist also failed")
			return nil, fmt.Errorf("%w: booking persist and seat release both failed for trip %s", models.ErrIntegrity, req.TripID)
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"trip_id":    booking.TripID,
		"user_id":    booking.UserID,
		"seats":      booking.SeatsBooked,
	}).Info("Booking created")

	s.publishConfirmed(booking)

	return booking, nil
}

// GetBooking returns a booking by ID
func (s *BookingService) GetBooking(bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, models.ErrBookingNotFound
	}
	return booking, nil
}

// ListUserBookings returns all bookings belonging to a user
func (s *BookingService) ListUserBookings(userID string) ([]models.Booking, error) {
	bookings, err := s.bookings.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateBookingStatus moves a booking to the requested status. Cancellation
// goes through CancelBooking so the seat release stays in one place.
func (s *BookingService) UpdateBookingStatus(bookingID string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown booking status %q", models.ErrValidation, status)
	}
	if status == models.BookingStatusCancelled {
		return s.CancelBooking(bookingID)
	}

	booking, err := s.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookingStatus == status {
		return booking, nil
	}
	if !booking.BookingStatus.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, booking.BookingStatus, status)
	}

	ok, err := s.bookings.UpdateStatusFrom(bookingID, status, booking.BookingStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: booking changed concurrently", models.ErrInvalidTransition)
	}

	return s.GetBooking(bookingID)
}

// CancelBooking cancels a confirmed booking and releases its seats back to
// the trip. Cancelling an already cancelled booking is a no-op, and the
// guarded status update ensures the seats are released exactly once no
// matter how many cancels race.
func (s *BookingService) CancelBooking(bookingID string) (*models.Booking, error) {
	booking, err := s.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookingStatus == models.BookingStatusCancelled {
		return booking, nil
	}
	if !booking.CanBeCancelled() {
		return nil, fmt.Errorf("%w: cannot cancel a %s booking", models.ErrInvalidTransition, booking.BookingStatus)
	}

	ok, err := s.bookings.UpdateStatusFrom(bookingID, models.BookingStatusCancelled, models.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if !ok {
		// Lost the race. If the winner was another cancel this is the
		// idempotent path; anything else is a real conflict.
		current, err := s.GetBooking(bookingID)
		if err != nil {
			return nil, err
		}
		if current.BookingStatus == models.BookingStatusCancelled {
			return current, nil
		}
		return nil, fmt.Errorf("%w: cannot cancel a %s booking", models.ErrInvalidTransition, current.BookingStatus)
	}

	// We won the guarded update, so this release happens exactly once.
	if err := s.ledger.Release(booking.TripID, booking.SeatsBooked); err != nil {
		s.logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"trip_id":    booking.TripID,
			"seats":      booking.SeatsBooked,
			"error":      err.Error(),
		}).Error("Seat release after cancellation failed")
		return nil, fmt.Errorf("%w: booking cancelled but seats not released for trip %s", models.ErrIntegrity, booking.TripID)
	}

	cancelled, err := s.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"trip_id":    booking.TripID,
		"seats":      booking.SeatsBooked,
	}).Info("Booking cancelled")

	s.publishCancelled(cancelled, booking.SeatsBooked)

	return cancelled, nil
}

// DeleteBooking removes a booking record. Confirmed bookings get their seats
// released first; completed bookings are history and cannot be deleted.
func (s *BookingService) DeleteBooking(bookingID string) error {
	booking, err := s.GetBooking(bookingID)
	if err != nil {
		return err
	}

	switch booking.BookingStatus {
	case models.BookingStatusCompleted:
		return fmt.Errorf("%w: completed bookings cannot be deleted", models.ErrInvalidTransition)
	case models.BookingStatusConfirmed:
		if _, err := s.CancelBooking(bookingID); err != nil {
			return err
		}
	}

	if err := s.bookings.Delete(bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.logger.WithField("booking_id", bookingID).Info("Booking deleted")
	return nil
}

// CancelBookingsForTrip cancels every confirmed booking on a trip and
// returns each booking's seats to the trip, keeping seats_available
// consistent with the surviving bookings. Used after a trip-level
// cancellation. Individual failures are logged and counted rather than
// aborting the sweep.
func (s *BookingService) CancelBookingsForTrip(tripID string) (int, error) {
	held, err := s.bookings.GetConfirmedByTripID(tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	cancelled := 0
	for i := range held {
		b := &held[i]
		ok, err := s.bookings.UpdateStatusFrom(b.ID, models.BookingStatusCancelled, models.BookingStatusConfirmed)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"booking_id": b.ID,
				"trip_id":    tripID,
				"error":      err.Error(),
			}).Error("Failed to cancel booking during trip sweep")
			continue
		}
		if !ok {
			continue // already cancelled or completed by someone else
		}

		// Winning the guarded update makes this sweep responsible for the
		// booking's seats, same as a single cancellation.
		if err := s.ledger.Release(tripID, b.SeatsBooked); err != nil {
			s.logger.WithFields(logrus.Fields{
				"booking_id": b.ID,
				"trip_id":    tripID,
				"seats":      b.SeatsBooked,
				"error":      err.Error(),
			}).Error("Seat release during trip sweep failed; inventory diverged")
		}

		cancelled++
		s.publishCancelled(b, b.SeatsBooked)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":   tripID,
		"cancelled": cancelled,
		"total":     len(held),
	}).Info("Trip bookings cancelled")

	return cancelled, nil
}

func (s *BookingService) publishConfirmed(b *models.Booking) {
	if s.publisher == nil {
		return
	}
	event := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		TripID:      b.TripID,
		UserID:      b.UserID,
		SeatsBooked: b.SeatsBooked,
		TotalPrice:  b.TotalPrice,
		Currency:    b.Currency,
		ConfirmedAt: b.CreatedAt,
	}
	if err := s.publisher.PublishBookingConfirmed(context.Background(), event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"booking_id": b.ID,
			"error":      err.Error(),
		}).Warn("Failed to publish booking confirmed event")
	}
}

func (s *BookingService) publishCancelled(b *models.Booking, seatsReleased int) {
	if s.publisher == nil {
		return
	}
	event := queue.BookingCancelledEvent{
		BookingID:     b.ID,
		TripID:        b.TripID,
		UserID:        b.UserID,
		SeatsReleased: seatsReleased,
		CancelledAt:   b.UpdatedAt,
	}
	if err := s.publisher.PublishBookingCancelled(context.Background(), event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"booking_id": b.ID,
			"error":      err.Error(),
		}).Warn("Failed to publish booking cancelled event")
	}
}
