package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/transitbook/booking-backend/internal/models"
)

// respondError maps service errors to HTTP responses. Sentinel errors carry
// their own message; anything unrecognized is an internal error and the
// detail stays out of the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
	case errors.Is(err, models.ErrTripNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrRouteNotFound),
		errors.Is(err, models.ErrCityNotFound),
		errors.Is(err, models.ErrFareNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, models.ErrInsufficientSeats):
		c.JSON(http.StatusConflict, gin.H{"error": "sold_out", "message": "Not enough seats available for this trip"})
	case errors.Is(err, models.ErrTripNotBookable),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrHasActiveBookings),
		errors.Is(err, models.ErrTripNotTrashed):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": err.Error()})
	case errors.Is(err, models.ErrIntegrity):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "A consistency problem occurred. Please contact support."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong. Please try again later."})
	}
}
