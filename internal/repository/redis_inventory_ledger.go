package repository

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"

	"github.com/shankar0203/QuickQueue/internal/domain"
	pkgredis "github.com/shankar0203/QuickQueue/pkg/redis"
)

//go:embed scripts/seed_inventory.lua
var seedInventoryScript string

//go:embed scripts/reserve_units.lua
var reserveUnitsScript string

//go:embed scripts/release_units.lua
var releaseUnitsScript string

//go:embed scripts/confirm_units.lua
var confirmUnitsScript string

// Script names for caching
const (
	scriptSeedInventory = "seed_inventory"
	scriptReserveUnits  = "reserve_units"
	scriptReleaseUnits  = "release_units"
	scriptConfirmUnits  = "confirm_units"
)

// RedisInventoryLedger implements InventoryLedger on Redis. Each ticket
// type is a hash with capacity and remaining fields; reserve and
// release run as Lua scripts so the check and the decrement are one
// atomic step.
type RedisInventoryLedger struct {
	client *pkgredis.Client
}

var _ InventoryLedger = (*RedisInventoryLedger)(nil)

// NewRedisInventoryLedger creates a new RedisInventoryLedger
func NewRedisInventoryLedger(client *pkgredis.Client) *RedisInventoryLedger {
	return &RedisInventoryLedger{client: client}
}

// LoadScripts loads all Lua scripts into Redis
func (l *RedisInventoryLedger) LoadScripts(ctx context.Context) error {
	scripts := map[string]string{
		scriptSeedInventory: seedInventoryScript,
		scriptReserveUnits:  reserveUnitsScript,
		scriptReleaseUnits:  releaseUnitsScript,
		scriptConfirmUnits:  confirmUnitsScript,
	}

	for name, script := range scripts {
		if _, err := l.client.LoadScript(ctx, name, script); err != nil {
			return fmt.Errorf("failed to load script %s: %w", name, err)
		}
	}

	return nil
}

func inventoryKey(eventID, ticketType string) string {
	return fmt.Sprintf("inventory:%s:%s", eventID, ticketType)
}

// Seed registers a ticket type with its capacity. Re-seeding an
// existing type leaves the counter untouched.
func (l *RedisInventoryLedger) Seed(ctx context.Context, eventID, ticketType string, capacity int) error {
	key := inventoryKey(eventID, ticketType)

	result := l.client.EvalWithFallback(ctx, scriptSeedInventory, seedInventoryScript,
		[]string{key}, capacity)
	if result.Err() != nil {
		return fmt.Errorf("failed to seed inventory %s: %w", key, result.Err())
	}

	return nil
}

// Reserve atomically takes quantity units
func (l *RedisInventoryLedger) Reserve(ctx context.Context, eventID, ticketType string, quantity int) (int, error) {
	key := inventoryKey(eventID, ticketType)

	result := l.client.EvalWithFallback(ctx, scriptReserveUnits, reserveUnitsScript,
		[]string{key}, quantity)
	if result.Err() != nil {
		return 0, fmt.Errorf("failed to execute reserve script: %w", result.Err())
	}

	values, err := result.Slice()
	if err != nil {
		return 0, fmt.Errorf("failed to parse reserve result: %w", err)
	}
	if len(values) < 2 {
		return 0, fmt.Errorf("unexpected reserve result length: %d", len(values))
	}

	status, _ := toInt64(values[0])
	remaining, _ := toInt64(values[1])

	switch status {
	case 1:
		return int(remaining), nil
	case 0:
		return int(remaining), domain.ErrSoldOut
	default:
		return 0, domain.ErrTicketTypeNotFound
	}
}

// Release returns quantity units, clamped at capacity
func (l *RedisInventoryLedger) Release(ctx context.Context, eventID, ticketType string, quantity int) (int, error) {
	key := inventoryKey(eventID, ticketType)

	result := l.client.EvalWithFallback(ctx, scriptReleaseUnits, releaseUnitsScript,
		[]string{key}, quantity)
	if result.Err() != nil {
		return 0, fmt.Errorf("failed to execute release script: %w", result.Err())
	}

	values, err := result.Slice()
	if err != nil {
		return 0, fmt.Errorf("failed to parse release result: %w", err)
	}
	if len(values) < 2 {
		return 0, fmt.Errorf("unexpected release result length: %d", len(values))
	}

	status, _ := toInt64(values[0])
	remaining, _ := toInt64(values[1])

	if status != 1 {
		return 0, domain.ErrTicketTypeNotFound
	}

	return int(remaining), nil
}

// Confirm marks reserved units as consumed
func (l *RedisInventoryLedger) Confirm(ctx context.Context, eventID, ticketType string, quantity int) error {
	key := inventoryKey(eventID, ticketType)

	result := l.client.EvalWithFallback(ctx, scriptConfirmUnits, confirmUnitsScript,
		[]string{key}, quantity)
	if result.Err() != nil {
		return fmt.Errorf("failed to execute confirm script: %w", result.Err())
	}

	values, err := result.Slice()
	if err != nil {
		return fmt.Errorf("failed to parse confirm result: %w", err)
	}
	if len(values) < 1 {
		return fmt.Errorf("unexpected confirm result length: %d", len(values))
	}

	if status, _ := toInt64(values[0]); status != 1 {
		return domain.ErrTicketTypeNotFound
	}

	return nil
}

// Remaining reports the current remaining count
func (l *RedisInventoryLedger) Remaining(ctx context.Context, eventID, ticketType string) (int, error) {
	key := inventoryKey(eventID, ticketType)

	fields, err := l.client.HGetAll(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read inventory %s: %w", key, err)
	}

	raw, ok := fields["remaining"]
	if !ok {
		return 0, domain.ErrTicketTypeNotFound
	}

	remaining, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupt remaining count for %s: %w", key, err)
	}

	return remaining, nil
}

// toInt64 converts a Lua script result element to int64
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
