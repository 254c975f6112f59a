package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/repository"
)

func newEventFixture() (*EventService, *repository.MemoryInventoryLedger) {
	inventory := repository.NewMemoryInventoryLedger()
	return NewEventService(repository.NewMemoryEventRepository(), inventory), inventory
}

func TestCreateEventSeedsInventory(t *testing.T) {
	ctx := context.Background()
	svc, inventory := newEventFixture()

	event, err := svc.CreateEvent(ctx, CreateEventInput{
		Name:     "Indie Night",
		Category: "music",
		StartsAt: time.Now().Add(24 * time.Hour),
		TicketTypes: []domain.TicketType{
			{Name: "general", Price: 250, Capacity: 100},
			{Name: "vip", Price: 1000, Capacity: 20},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)

	remaining, err := inventory.Remaining(ctx, event.ID, "general")
	require.NoError(t, err)
	assert.Equal(t, 100, remaining)

	remaining, err = inventory.Remaining(ctx, event.ID, "vip")
	require.NoError(t, err)
	assert.Equal(t, 20, remaining)
}

func TestCreateEventValidation(t *testing.T) {
	svc, _ := newEventFixture()

	_, err := svc.CreateEvent(context.Background(), CreateEventInput{
		Name:        "",
		StartsAt:    time.Now(),
		TicketTypes: []domain.TicketType{{Name: "general", Price: 10, Capacity: 5}},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.CreateEvent(context.Background(), CreateEventInput{
		Name:        "No Types",
		StartsAt:    time.Now(),
		TicketTypes: nil,
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSeedExistingEventsDoesNotResetCounters(t *testing.T) {
	ctx := context.Background()
	svc, inventory := newEventFixture()

	event, err := svc.CreateEvent(ctx, CreateEventInput{
		Name:        "Indie Night",
		StartsAt:    time.Now().Add(24 * time.Hour),
		TicketTypes: []domain.TicketType{{Name: "general", Price: 250, Capacity: 10}},
	})
	require.NoError(t, err)

	_, err = inventory.Reserve(ctx, event.ID, "general", 4)
	require.NoError(t, err)

	require.NoError(t, svc.SeedExistingEvents(ctx))

	remaining, err := inventory.Remaining(ctx, event.ID, "general")
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)
}

func TestListEventsFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEventFixture()

	_, err := svc.CreateEvent(ctx, CreateEventInput{
		Name:        "Indie Night",
		Category:    "music",
		StartsAt:    time.Now().Add(24 * time.Hour),
		TicketTypes: []domain.TicketType{{Name: "general", Price: 250, Capacity: 10}},
	})
	require.NoError(t, err)

	_, err = svc.CreateEvent(ctx, CreateEventInput{
		Name:        "Open Mic",
		Category:    "comedy",
		StartsAt:    time.Now().Add(24 * time.Hour),
		TicketTypes: []domain.TicketType{{Name: "entry", Price: 0, Capacity: 50}},
	})
	require.NoError(t, err)

	all, err := svc.ListEvents(ctx, repository.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	music, err := svc.ListEvents(ctx, repository.EventFilter{Category: "music"})
	require.NoError(t, err)
	require.Len(t, music, 1)
	assert.Equal(t, "Indie Night", music[0].Name)

	free, err := svc.ListEvents(ctx, repository.EventFilter{FilterType: "free"})
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "Open Mic", free[0].Name)

	search, err := svc.ListEvents(ctx, repository.EventFilter{Search: "indie"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Indie Night", search[0].Name)
}
