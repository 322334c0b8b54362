package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/transitbook/booking-backend/internal/middleware"
	"github.com/transitbook/booking-backend/internal/models"
	"github.com/transitbook/booking-backend/internal/services"
)

// BookingHandler handles passenger booking operations
type BookingHandler struct {
	bookingService *services.BookingService
	ticketService  *services.TicketService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService, ticketService *services.TicketService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		ticketService:  ticketService,
	}
}

// CreateBooking creates a new booking
// @Summary Create a new booking
// @Description Reserve seats on a trip and confirm a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.Booking "Booking created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 409 {object} map[string]interface{} "Not enough seats available"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(userCtx.UserID.String(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns a booking by ID
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Security BearerAuth
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.bookingService.GetBooking(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.ownsOrAdmin(userCtx, booking) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": models.ErrBookingNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListMyBookings returns the authenticated user's bookings
// @Summary List own bookings
// @Tags Bookings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/bookings [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookingService.ListUserBookings(userCtx.UserID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// CancelBooking cancels a booking and releases its seats
// @Summary Cancel a booking
// @Description Cancel a confirmed booking. Cancelling twice is a no-op.
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.Booking "Booking cancelled"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Booking cannot be cancelled"
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookingID := c.Param("id")

	existing, err := h.bookingService.GetBooking(bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.ownsOrAdmin(userCtx, existing) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": models.ErrBookingNotFound.Error()})
		return
	}

	booking, err := h.bookingService.CancelBooking(bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateBookingStatus moves a booking to a new status (admin only)
// @Summary Update booking status
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body models.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} models.Booking
// @Failure 409 {object} map[string]interface{} "Invalid transition"
// @Security BearerAuth
// @Router /api/v1/admin/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Param("id"), models.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// DeleteBooking removes a booking record (admin only)
// @Summary Delete a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{} "Booking deleted"
// @Failure 409 {object} map[string]interface{} "Completed bookings cannot be deleted"
// @Security BearerAuth
// @Router /api/v1/admin/bookings/{id} [delete]
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	if err := h.bookingService.DeleteBooking(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

// GetETicket returns the booking's e-ticket as a PDF
// @Summary Download e-ticket
// @Tags Bookings
// @Produce application/pdf
// @Param id path string true "Booking ID"
// @Success 200 {file} binary "PDF ticket"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Booking is not confirmed"
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/ticket [get]
func (h *BookingHandler) GetETicket(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookingID := c.Param("id")

	existing, err := h.bookingService.GetBooking(bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.ownsOrAdmin(userCtx, existing) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": models.ErrBookingNotFound.Error()})
		return
	}

	pdf, err := h.ticketService.GenerateETicket(bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, bookingID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ownsOrAdmin reports whether the caller may see the booking. Other users'
// bookings are presented as not found rather than forbidden.
func (h *BookingHandler) ownsOrAdmin(userCtx middleware.UserContext, booking *models.Booking) bool {
	if booking.UserID == userCtx.UserID.String() {
		return true
	}
	for _, role := range userCtx.Roles {
		if role == "admin" {
			return true
		}
	}
	return false
}
