package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/models"
)

// FareService resolves the price a booking pays. Prices always come from the
// trip's fare table at booking time; clients never send amounts.
type FareService struct {
	fares  FareStore
	logger *logrus.Logger
}

// NewFareService creates a new FareService
func NewFareService(fares FareStore, logger *logrus.Logger) *FareService {
	return &FareService{fares: fares, logger: logger}
}

// Resolve returns the fare for the given trip and selection. With no fare
// category the cheapest fare on the trip applies. A selection that matches
// nothing is ErrFareNotFound, never a zero price.
func (s *FareService) Resolve(tripID string, fareCategoryID, bookingOptionID *string) (*models.TripFare, error) {
	var fare *models.TripFare
	var err error

	if fareCategoryID == nil {
		fare, err = s.fares.GetCheapestFare(tripID)
	} else {
		fare, err = s.fares.GetFare(tripID, *fareCategoryID, bookingOptionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fare: %w", err)
	}
	if fare == nil {
		return nil, models.ErrFareNotFound
	}

	return fare, nil
}

// ListForTrip returns every priced offering for a trip. An empty list means
// the trip cannot be booked until fares are loaded.
func (s *FareService) ListForTrip(tripID string) ([]models.TripFare, error) {
	fares, err := s.fares.ListByTripID(tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fares: %w", err)
	}
	return fares, nil
}

// ListCategories returns the passenger classes fares can be keyed by
func (s *FareService) ListCategories() ([]models.FareCategory, error) {
	categories, err := s.fares.ListFareCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list fare categories: %w", err)
	}
	return categories, nil
}

// ListOptions returns the service tiers fares can be keyed by
func (s *FareService) ListOptions() ([]models.BookingOption, error) {
	options, err := s.fares.ListBookingOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to list booking options: %w", err)
	}
	return options, nil
}
