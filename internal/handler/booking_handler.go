package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/dto"
	"github.com/shankar0203/QuickQueue/internal/service"
	"github.com/shankar0203/QuickQueue/pkg/telemetry"
)

// BookingService is the slice of the booking service used by HTTP handlers
type BookingService interface {
	CreateBooking(ctx context.Context, in service.CreateBookingInput) (*service.CreateBookingResult, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
}

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookings BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create handles POST /api/bookings
// Reserves inventory atomically and returns the booking with the
// remaining capacity. Free ticket types settle in the same call.
func (h *BookingHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		badRequest(c, err)
		return
	}

	span.SetAttributes(
		attribute.String("event_id", req.EventID),
		attribute.String("ticket_type", req.TicketType),
		attribute.Int("quantity", req.Quantity),
	)

	result, err := h.bookings.CreateBooking(ctx, service.CreateBookingInput{
		EventID:    req.EventID,
		TicketType: req.TicketType,
		Quantity:   req.Quantity,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerPhone: req.BuyerPhone,
		UserID:     c.GetString("user_id"),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	resp := &dto.CreateBookingResponse{
		BookingID:   result.Booking.ID,
		Status:      string(result.Booking.Status),
		Quantity:    result.Booking.Quantity,
		TotalAmount: result.Booking.TotalAmount,
		Remaining:   result.Remaining,
		ExpiresAt:   result.Booking.ExpiresAt,
	}
	if result.Ticket != nil {
		resp.TicketNumber = result.Ticket.TicketNumber
	}

	span.SetAttributes(attribute.String("booking_id", result.Booking.ID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	bookingID := c.Param("id")
	span.SetAttributes(attribute.String("booking_id", bookingID))

	booking, err := h.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, dto.FromBooking(booking))
}
