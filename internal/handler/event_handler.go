package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/dto"
	"github.com/shankar0203/QuickQueue/internal/repository"
	"github.com/shankar0203/QuickQueue/internal/service"
	"github.com/shankar0203/QuickQueue/pkg/telemetry"
)

// EventService is the slice of the event service used by HTTP handlers
type EventService interface {
	CreateEvent(ctx context.Context, in service.CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context, filter repository.EventFilter) ([]*domain.Event, error)
}

// EventHandler handles event catalog HTTP requests
type EventHandler struct {
	events EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /api/events
// Supports ?category=, ?search= and ?filter= (free, paid, today, week, month)
func (h *EventHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	filter := repository.EventFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		FilterType: c.Query("filter"),
	}

	events, err := h.events.ListEvents(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, dto.ListEventsResponse{
		Events: dto.FromEvents(events),
		Count:  len(events),
	})
}

// Get handles GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("id")
	span.SetAttributes(attribute.String("event_id", eventID))

	event, err := h.events.GetEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, dto.FromEvent(event))
}

// Create handles POST /api/events
// Requires the organizer or admin role; the middleware enforces it.
func (h *EventHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		badRequest(c, err)
		return
	}

	ticketTypes := make([]domain.TicketType, 0, len(req.TicketTypes))
	for _, tt := range req.TicketTypes {
		ticketTypes = append(ticketTypes, domain.TicketType{
			Name:     tt.Name,
			Price:    tt.Price,
			Capacity: tt.Capacity,
		})
	}

	event, err := h.events.CreateEvent(ctx, service.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Venue:       req.Venue,
		City:        req.City,
		ImageURL:    req.ImageURL,
		StartsAt:    req.StartsAt,
		TicketTypes: ticketTypes,
		CreatedBy:   c.GetString("user_id"),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("event_id", event.ID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, dto.FromEvent(event))
}
