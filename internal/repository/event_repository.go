package repository

import (
	"context"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// EventFilter narrows event listings
type EventFilter struct {
	Category   string
	Search     string
	FilterType string // today, week, month, free, paid
}

// EventRepository persists the event catalog
type EventRepository interface {
	Insert(ctx context.Context, event *domain.Event) error

	GetByID(ctx context.Context, id string) (*domain.Event, error)

	List(ctx context.Context, filter EventFilter) ([]*domain.Event, error)
}
