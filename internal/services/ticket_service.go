package services

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/models"
)

// TicketService renders e-tickets for confirmed bookings.
type TicketService struct {
	bookings BookingStore
	trips    TripStore
	users    UserStore
	logger   *logrus.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(bookings BookingStore, trips TripStore, users UserStore, logger *logrus.Logger) *TicketService {
	return &TicketService{bookings: bookings, trips: trips, users: users, logger: logger}
}

// GenerateETicket builds a PDF ticket for a confirmed booking. Cancelled and
// completed bookings have no ticket to issue.
func (s *TicketService) GenerateETicket(bookingID string) ([]byte, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, models.ErrBookingNotFound
	}
	if booking.BookingStatus != models.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: no ticket for a %s booking", models.ErrInvalidTransition, booking.BookingStatus)
	}

	trip, err := s.trips.GetByID(booking.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	if trip == nil {
		return nil, models.ErrTripNotFound
	}

	// The passenger name is cosmetic; a missing user record must not block
	// ticket issuance for an otherwise valid booking.
	passenger := ""
	if user, err := s.users.GetByID(booking.UserID); err == nil && user != nil {
		passenger = user.Name
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "TransitBook E-Ticket")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(45, 8, label)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 8, value)
		pdf.Ln(8)
	}

	line("Booking ID:", booking.ID)
	if passenger != "" {
		line("Passenger:", passenger)
	}
	line("Operator:", trip.CompanyName)
	line("Transport:", trip.TransportType)
	line("Departure:", trip.DepartureTime.Format("Mon, 02 Jan 2006 15:04"))
	line("Arrival:", trip.ArrivalTime.Format("Mon, 02 Jan 2006 15:04"))
	line("Seats:", fmt.Sprintf("%d", booking.SeatsBooked))
	line("Total:", fmt.Sprintf("%.2f %s", booking.TotalPrice, booking.Currency))
	line("Status:", string(booking.BookingStatus))

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Present this ticket with valid photo identification at boarding.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"bytes":      buf.Len(),
	}).Info("E-ticket generated")

	return buf.Bytes(), nil
}
