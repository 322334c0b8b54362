package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/models"
)

// TripService handles trip creation and read paths
type TripService struct {
	trips  TripStore
	routes RouteStore
	logger *logrus.Logger
}

// NewTripService creates a new TripService
func NewTripService(trips TripStore, routes RouteStore, logger *logrus.Logger) *TripService {
	return &TripService{trips: trips, routes: routes, logger: logger}
}

// CreateTrip creates a scheduled trip with its full capacity available
func (s *TripService) CreateTrip(req *models.CreateTripRequest) (*models.Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}

	exists, err := s.routes.RouteExists(req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify route: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: route %s does not exist", models.ErrValidation, req.RouteID)
	}

	departure, _ := time.Parse(time.RFC3339, req.DepartureTime)
	arrival, _ := time.Parse(time.RFC3339, req.ArrivalTime)

	trip := &models.Trip{
		RouteID:       req.RouteID,
		CompanyName:   req.CompanyName,
		TransportType: req.TransportType,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		SeatsTotal:    req.SeatsTotal,
		Status:        models.TripStatusScheduled,
		IsActive:      true,
	}

	if err := s.trips.Create(trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":  trip.ID,
		"route_id": trip.RouteID,
		"seats":    trip.SeatsTotal,
	}).Info("Trip created")

	return trip, nil
}

// GetTrip returns a trip by ID
func (s *TripService) GetTrip(tripID string) (*models.Trip, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	if trip == nil {
		return nil, models.ErrTripNotFound
	}
	return trip, nil
}

// ListBookableTrips returns bookable trips departing inside the window
func (s *TripService) ListBookableTrips(from, to time.Time) ([]models.Trip, error) {
	trips, err := s.trips.ListBookable(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

// ListTrashedTrips returns soft-deleted trips trashed before the cutoff
func (s *TripService) ListTrashedTrips(before time.Time) ([]models.Trip, error) {
	trips, err := s.trips.ListTrashed(before)
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed trips: %w", err)
	}
	return trips, nil
}
