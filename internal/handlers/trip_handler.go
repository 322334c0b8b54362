package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/transitbook/booking-backend/internal/models"
	"github.com/transitbook/booking-backend/internal/services"
)

// TripHandler handles trip catalog and lifecycle operations
type TripHandler struct {
	tripService      *services.TripService
	lifecycleService *services.TripLifecycleService
	bookingService   *services.BookingService
	fareService      *services.FareService
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(
	tripService *services.TripService,
	lifecycleService *services.TripLifecycleService,
	bookingService *services.BookingService,
	fareService *services.FareService,
) *TripHandler {
	return &TripHandler{
		tripService:      tripService,
		lifecycleService: lifecycleService,
		bookingService:   bookingService,
		fareService:      fareService,
	}
}

// CreateTrip creates a new trip (admin only)
// @Summary Create a trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body models.CreateTripRequest true "Trip details"
// @Success 201 {object} models.Trip "Trip created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Security BearerAuth
// @Router /api/v1/admin/trips [post]
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	trip, err := h.tripService.CreateTrip(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// GetTrip returns a trip by ID
// @Summary Get a trip
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} models.Trip
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Router /api/v1/trips/{id} [get]
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// ListTripFares returns the priced offerings for a trip
// @Summary List fares for a trip
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Router /api/v1/trips/{id}/fares [get]
func (h *TripHandler) ListTripFares(c *gin.Context) {
	tripID := c.Param("id")

	if _, err := h.tripService.GetTrip(tripID); err != nil {
		respondError(c, err)
		return
	}

	fares, err := h.fareService.ListForTrip(tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fares": fares,
		"count": len(fares),
	})
}

// ListFareCategories returns the passenger classes available on bookings
// @Summary List fare categories
// @Tags Trips
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/fare-categories [get]
func (h *TripHandler) ListFareCategories(c *gin.Context) {
	categories, err := h.fareService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fare_categories": categories,
		"count":           len(categories),
	})
}

// ListBookingOptions returns the service tiers available on bookings
// @Summary List booking options
// @Tags Trips
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/booking-options [get]
func (h *TripHandler) ListBookingOptions(c *gin.Context) {
	options, err := h.fareService.ListOptions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_options": options,
		"count":           len(options),
	})
}

// ListTrips returns bookable trips inside a departure window
// @Summary List bookable trips
// @Tags Trips
// @Produce json
// @Param from query string false "Window start (RFC3339, default now)"
// @Param to query string false "Window end (RFC3339, default +30 days)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/trips [get]
func (h *TripHandler) ListTrips(c *gin.Context) {
	from := time.Now()
	to := from.AddDate(0, 0, 30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be in RFC3339 format"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be in RFC3339 format"})
			return
		}
		to = parsed
	}

	trips, err := h.tripService.ListBookableTrips(from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// CompleteTrip marks a trip as completed (admin only)
// @Summary Complete a trip
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} models.Trip
// @Failure 409 {object} map[string]interface{} "Trip is not scheduled"
// @Security BearerAuth
// @Router /api/v1/admin/trips/{id}/complete [post]
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	trip, err := h.lifecycleService.CompleteTrip(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// CancelTrip cancels a trip and all of its confirmed bookings (admin only)
// @Summary Cancel a trip
// @Description Cancel a scheduled trip. Confirmed bookings on the trip are
// cancelled as part of the operation; seat counts stay untouched since the
// inventory is dead.
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "Trip is not scheduled"
// @Security BearerAuth
// @Router /api/v1/admin/trips/{id}/cancel [post]
func (h *TripHandler) CancelTrip(c *gin.Context) {
	tripID := c.Param("id")

	trip, _, err := h.lifecycleService.CancelTrip(tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	cancelled, err := h.bookingService.CancelBookingsForTrip(tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip":               trip,
		"bookings_cancelled": cancelled,
	})
}

// TrashTrip soft-deletes a trip (admin only)
// @Summary Trash a trip
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{} "Trip trashed"
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Security BearerAuth
// @Router /api/v1/admin/trips/{id} [delete]
func (h *TripHandler) TrashTrip(c *gin.Context) {
	if err := h.lifecycleService.TrashTrip(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip moved to trash"})
}

// RestoreTrip restores a trashed trip (admin only)
// @Summary Restore a trashed trip
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{} "Trip restored"
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Security BearerAuth
// @Router /api/v1/admin/trips/{id}/restore [post]
func (h *TripHandler) RestoreTrip(c *gin.Context) {
	if err := h.lifecycleService.RestoreTrip(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip restored"})
}

// PermanentDeleteTrip permanently removes a trashed trip (admin only)
// @Summary Permanently delete a trip
// @Description Delete a trashed trip with no remaining active bookings.
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{} "Trip deleted"
// @Failure 409 {object} map[string]interface{} "Trip not trashed or has bookings"
// @Security BearerAuth
// @Router /api/v1/admin/trips/{id}/permanent [delete]
func (h *TripHandler) PermanentDeleteTrip(c *gin.Context) {
	if err := h.lifecycleService.PermanentDeleteTrip(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip permanently deleted"})
}
