package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/models"
)

// RouteService serves route, city and station reference data. The booking
// core only reads these; they are maintained by external tooling.
type RouteService struct {
	routes RouteStore
	logger *logrus.Logger
}

// NewRouteService creates a new RouteService
func NewRouteService(routes RouteStore, logger *logrus.Logger) *RouteService {
	return &RouteService{routes: routes, logger: logger}
}

// GetRoute returns a route with its city names
func (s *RouteService) GetRoute(routeID string) (*models.RouteDetails, error) {
	route, err := s.routes.GetRouteByID(routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	if route == nil {
		return nil, models.ErrRouteNotFound
	}
	return route, nil
}

// ListStations returns the boarding points in a city
func (s *RouteService) ListStations(cityID string) ([]models.Station, error) {
	city, err := s.routes.GetCityByID(cityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	if city == nil {
		return nil, models.ErrCityNotFound
	}

	stations, err := s.routes.GetStationsByCityID(cityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	return stations, nil
}
