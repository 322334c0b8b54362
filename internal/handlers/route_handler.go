package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/transitbook/booking-backend/internal/services"
)

// RouteHandler serves route, city and station reference data
type RouteHandler struct {
	routeService *services.RouteService
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(routeService *services.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// GetRoute returns a route with its city names
// @Summary Get a route
// @Tags Routes
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} models.RouteDetails
// @Failure 404 {object} map[string]interface{} "Route not found"
// @Router /api/v1/routes/{id} [get]
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.routeService.GetRoute(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

// ListCityStations returns the boarding points in a city
// @Summary List stations in a city
// @Tags Routes
// @Produce json
// @Param id path string true "City ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "City not found"
// @Router /api/v1/cities/{id}/stations [get]
func (h *RouteHandler) ListCityStations(c *gin.Context) {
	stations, err := h.routeService.ListStations(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stations": stations,
		"count":    len(stations),
	})
}
