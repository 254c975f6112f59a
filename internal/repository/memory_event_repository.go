package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// MemoryEventRepository implements EventRepository in process memory
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
}

var _ EventRepository = (*MemoryEventRepository)(nil)

// NewMemoryEventRepository creates an empty in-memory repository
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{
		events: make(map[string]*domain.Event),
	}
}

func cloneEvent(e *domain.Event) *domain.Event {
	clone := *e
	clone.TicketTypes = append([]domain.TicketType(nil), e.TicketTypes...)
	return &clone
}

// Insert stores a new event
func (r *MemoryEventRepository) Insert(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[event.ID]; exists {
		return domain.ErrConflict
	}

	r.events[event.ID] = cloneEvent(event)
	return nil
}

// GetByID retrieves an event by its ID
func (r *MemoryEventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return cloneEvent(event), nil
}

// List returns published events matching the filter
func (r *MemoryEventRepository) List(_ context.Context, filter EventFilter) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var events []*domain.Event
	for _, event := range r.events {
		if !event.Published {
			continue
		}
		if filter.Category != "" && event.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !matchesSearch(event, filter.Search) {
			continue
		}
		if !matchesWindow(event, filter.FilterType, now) {
			continue
		}
		events = append(events, cloneEvent(event))
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})

	return filterByPrice(events, filter.FilterType), nil
}

func matchesSearch(event *domain.Event, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(event.Name), search) ||
		strings.Contains(strings.ToLower(event.Description), search) ||
		strings.Contains(strings.ToLower(event.City), search)
}

func matchesWindow(event *domain.Event, filterType string, now time.Time) bool {
	switch filterType {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return !event.StartsAt.Before(start) && event.StartsAt.Before(start.AddDate(0, 0, 1))
	case "week":
		return !event.StartsAt.Before(now) && event.StartsAt.Before(now.AddDate(0, 0, 7))
	case "month":
		return !event.StartsAt.Before(now) && event.StartsAt.Before(now.AddDate(0, 1, 0))
	}
	return true
}

// Clear removes all events (for tests)
func (r *MemoryEventRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = make(map[string]*domain.Event)
}
