package models

// Routes, cities, and stations are reference data. The booking core only
// reads them; they are mutated by external administrative tooling.

// RouteDetails is a route joined with its city names for display
type RouteDetails struct {
	ID              string  `json:"id" db:"id"`
	OriginCity      string  `json:"origin_city" db:"origin_city"`
	DestinationCity string  `json:"destination_city" db:"destination_city"`
	DistanceKm      float64 `json:"distance_km" db:"distance_km"`
}

// City is a reference city record
type City struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Country string `json:"country" db:"country"`
}

// Station is a boarding point within a city
type Station struct {
	ID     string `json:"id" db:"id"`
	CityID string `json:"city_id" db:"city_id"`
	Name   string `json:"name" db:"name"`
}
