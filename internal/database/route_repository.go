package database

import (
	"database/sql"

	"github.com/transitbook/booking-backend/internal/models"
)

// RouteRepository reads route, city, and station reference data
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// GetRouteByID retrieves a route with its city names. Returns nil when the
// route does not exist.
func (r *RouteRepository) GetRouteByID(routeID string) (*models.RouteDetails, error) {
	query := `
		SELECT r.id, oc.name AS origin_city, dc.name AS destination_city, r.distance_km
		FROM routes r
		JOIN cities oc ON r.origin_city_id = oc.id
		JOIN cities dc ON r.destination_city_id = dc.id
		WHERE r.id = $1
	`

	route := &models.RouteDetails{}
	err := r.db.QueryRow(query, routeID).Scan(
		&route.ID, &route.OriginCity, &route.DestinationCity, &route.DistanceKm,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return route, nil
}

// RouteExists reports whether a route with the given ID exists
func (r *RouteRepository) RouteExists(routeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM routes WHERE id = $1)`

	var exists bool
	err := r.db.QueryRow(query, routeID).Scan(&exists)
	return exists, err
}

// GetCityByID retrieves a city by ID. Returns nil when it does not exist.
func (r *RouteRepository) GetCityByID(cityID string) (*models.City, error) {
	query := `SELECT id, name, country FROM cities WHERE id = $1`

	city := &models.City{}
	err := r.db.QueryRow(query, cityID).Scan(&city.ID, &city.Name, &city.Country)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return city, nil
}

// GetStationsByCityID retrieves the stations in a city
func (r *RouteRepository) GetStationsByCityID(cityID string) ([]models.Station, error) {
	query := `
		SELECT id, city_id, name
		FROM stations
		WHERE city_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(query, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := []models.Station{}
	for rows.Next() {
		var station models.Station
		if err := rows.Scan(&station.ID, &station.CityID, &station.Name); err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}

	return stations, rows.Err()
}
