package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/models"
	"github.com/transitbook/booking-backend/internal/queue"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeTripStore keeps trips in memory and mirrors the store's conditional
// update semantics, mutex-guarded so concurrency tests exercise the same
// check-and-decrement atomicity the real store provides.
type fakeTripStore struct {
	mu    sync.Mutex
	trips map[string]*models.Trip

	// mirrors the delete guard's booking check when set
	bookings *fakeBookingStore

	reserveErr error
	releaseErr error
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[string]*models.Trip)}
}

func (f *fakeTripStore) add(trip *models.Trip) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	f.trips[trip.ID] = trip
}

func (f *fakeTripStore) Create(trip *models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	trip.SeatsAvailable = trip.SeatsTotal
	now := time.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now
	clone := *trip
	f.trips[trip.ID] = &clone
	return nil
}

func (f *fakeTripStore) GetByID(tripID string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, nil
	}
	clone := *trip
	return &clone, nil
}

func (f *fakeTripStore) ListBookable(from, to time.Time) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Trip
	for _, trip := range f.trips {
		if trip.IsBookable() && trip.SeatsAvailable > 0 &&
			!trip.DepartureTime.Before(from) && !trip.DepartureTime.After(to) {
			out = append(out, *trip)
		}
	}
	return out, nil
}

func (f *fakeTripStore) ListTrashed(before time.Time) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Trip
	for _, trip := range f.trips {
		if trip.DeletedAt != nil && trip.DeletedAt.Before(before) {
			out = append(out, *trip)
		}
	}
	return out, nil
}

func (f *fakeTripStore) ReserveSeats(tripID string, seatCount int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return false, f.reserveErr
	}
	trip, ok := f.trips[tripID]
	if !ok || !trip.IsBookable() || trip.SeatsAvailable < seatCount {
		return false, nil
	}
	trip.SeatsAvailable -= seatCount
	return true, nil
}

func (f *fakeTripStore) ReleaseSeats(tripID string, seatCount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.releaseErr != nil {
		return 0, f.releaseErr
	}
	trip, ok := f.trips[tripID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	overshoot := trip.SeatsAvailable + seatCount - trip.SeatsTotal
	if overshoot > 0 {
		trip.SeatsAvailable = trip.SeatsTotal
		return overshoot, nil
	}
	trip.SeatsAvailable += seatCount
	return 0, nil
}

func (f *fakeTripStore) UpdateStatusFrom(tripID string, to, from models.TripStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok || trip.Status != from {
		return false, nil
	}
	trip.Status = to
	trip.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeTripStore) Trash(tripID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return sql.ErrNoRows
	}
	if trip.DeletedAt == nil {
		now := time.Now()
		trip.DeletedAt = &now
	}
	return nil
}

func (f *fakeTripStore) Restore(tripID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return sql.ErrNoRows
	}
	trip.DeletedAt = nil
	return nil
}

func (f *fakeTripStore) PermanentDelete(tripID string) (bool, error) {
	f.mu.Lock()
	trip, ok := f.trips[tripID]
	if !ok || trip.DeletedAt == nil {
		f.mu.Unlock()
		return false, nil
	}
	f.mu.Unlock()

	if f.bookings != nil {
		active, err := f.bookings.CountActiveByTripID(tripID)
		if err != nil {
			return false, err
		}
		if active > 0 {
			return false, nil
		}
	}

	f.mu.Lock()
	delete(f.trips, tripID)
	f.mu.Unlock()
	return true, nil
}

// fakeBookingStore keeps bookings in memory with guarded status transitions
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	createErr error
	deleted   []string
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingStore) add(booking *models.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	f.bookings[booking.ID] = booking
}

func (f *fakeBookingStore) Create(booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.BookingStatus == "" {
		booking.BookingStatus = models.BookingStatusConfirmed
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	clone := *booking
	f.bookings[booking.ID] = &clone
	return nil
}

func (f *fakeBookingStore) GetByID(bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	clone := *booking
	return &clone, nil
}

func (f *fakeBookingStore) GetByUserID(userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) GetConfirmedByTripID(tripID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, booking := range f.bookings {
		if booking.TripID == tripID && booking.BookingStatus == models.BookingStatusConfirmed {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) CountActiveByTripID(tripID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, booking := range f.bookings {
		if booking.TripID == tripID && booking.BookingStatus != models.BookingStatusCancelled {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingStore) UpdateStatusFrom(bookingID string, to, from models.BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok || booking.BookingStatus != from {
		return false, nil
	}
	booking.BookingStatus = to
	if to == models.BookingStatusCancelled {
		now := time.Now()
		booking.CancelledAt = &now
	}
	booking.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeBookingStore) Delete(bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[bookingID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.bookings, bookingID)
	f.deleted = append(f.deleted, bookingID)
	return nil
}

// fakeFareStore serves fares and fare reference data from flat lists
type fakeFareStore struct {
	fares      []models.TripFare
	categories []models.FareCategory
	options    []models.BookingOption
}

func (f *fakeFareStore) GetFare(tripID, fareCategoryID string, bookingOptionID *string) (*models.TripFare, error) {
	for _, fare := range f.fares {
		if fare.TripID != tripID || fare.FareCategoryID != fareCategoryID {
			continue
		}
		if (fare.BookingOptionID == nil) != (bookingOptionID == nil) {
			continue
		}
		if bookingOptionID != nil && *fare.BookingOptionID != *bookingOptionID {
			continue
		}
		clone := fare
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeFareStore) ListByTripID(tripID string) ([]models.TripFare, error) {
	var out []models.TripFare
	for _, fare := range f.fares {
		if fare.TripID == tripID {
			out = append(out, fare)
		}
	}
	return out, nil
}

func (f *fakeFareStore) ListFareCategories() ([]models.FareCategory, error) {
	return f.categories, nil
}

func (f *fakeFareStore) ListBookingOptions() ([]models.BookingOption, error) {
	return f.options, nil
}

func (f *fakeFareStore) GetCheapestFare(tripID string) (*models.TripFare, error) {
	var cheapest *models.TripFare
	for i := range f.fares {
		fare := &f.fares[i]
		if fare.TripID != tripID {
			continue
		}
		if cheapest == nil || fare.Price < cheapest.Price {
			cheapest = fare
		}
	}
	if cheapest == nil {
		return nil, nil
	}
	clone := *cheapest
	return &clone, nil
}

// fakeUserStore recognizes a fixed set of user IDs
type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(ids ...string) *fakeUserStore {
	users := make(map[string]*models.User)
	for _, id := range ids {
		users[id] = &models.User{ID: id, Status: "active"}
	}
	return &fakeUserStore{users: users}
}

func (f *fakeUserStore) ExistsByID(userID string) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakeUserStore) GetByID(userID string) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

// fakePublisher records published events
type fakePublisher struct {
	mu        sync.Mutex
	confirmed []queue.BookingConfirmedEvent
	cancelled []queue.BookingCancelledEvent
	trips     []queue.TripCancelledEvent
	err       error
}

func (f *fakePublisher) PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, event)
	return nil
}

func (f *fakePublisher) PublishBookingCancelled(ctx context.Context, event queue.BookingCancelledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.cancelled = append(f.cancelled, event)
	return nil
}

func (f *fakePublisher) PublishTripCancelled(ctx context.Context, event queue.TripCancelledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.trips = append(f.trips, event)
	return nil
}

var errStorageDown = fmt.Errorf("storage unavailable")
