package dto

import (
	"time"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// TicketTypeRequest describes one sellable ticket category
type TicketTypeRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"min=0"`
	Capacity int     `json:"capacity" binding:"required,min=1"`
}

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category,omitempty"`
	Venue       string              `json:"venue,omitempty"`
	City        string              `json:"city,omitempty"`
	ImageURL    string              `json:"image_url,omitempty"`
	StartsAt    time.Time           `json:"starts_at" binding:"required"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category,omitempty"`
	Venue       string              `json:"venue,omitempty"`
	City        string              `json:"city,omitempty"`
	ImageURL    string              `json:"image_url,omitempty"`
	StartsAt    time.Time           `json:"starts_at"`
	TicketTypes []domain.TicketType `json:"ticket_types"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ListEventsResponse wraps an event listing
type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
	Count  int              `json:"count"`
}

// FromEvent converts a domain Event to an EventResponse
func FromEvent(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		Venue:       e.Venue,
		City:        e.City,
		ImageURL:    e.ImageURL,
		StartsAt:    e.StartsAt,
		TicketTypes: e.TicketTypes,
		CreatedAt:   e.CreatedAt,
	}
}

// FromEvents converts a slice of domain Events
func FromEvents(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e))
	}
	return out
}
