package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/dto"
	"github.com/shankar0203/QuickQueue/pkg/telemetry"
)

// TicketService is the slice of the ticket service used by HTTP handlers
type TicketService interface {
	GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error)
	CheckIn(ctx context.Context, ticketNumber string) (*domain.Ticket, error)
}

// TicketHandler handles ticket HTTP requests
type TicketHandler struct {
	tickets TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Get handles GET /api/tickets/:ticketNumber
func (h *TicketHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ticketNumber := c.Param("ticketNumber")
	span.SetAttributes(attribute.String("ticket_number", ticketNumber))

	ticket, err := h.tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, dto.FromTicket(ticket))
}

// CheckIn handles POST /api/checkin/:ticketNumber
// A ticket admits exactly once; a second scan is rejected.
func (h *TicketHandler) CheckIn(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.checkin")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ticketNumber := c.Param("ticketNumber")
	span.SetAttributes(attribute.String("ticket_number", ticketNumber))

	ticket, err := h.tickets.CheckIn(ctx, ticketNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, dto.FromTicket(ticket))
}
