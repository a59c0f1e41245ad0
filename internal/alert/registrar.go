// Package alert manages scheduled alert registrations and fires them when
// due. Registrations live in the store under deterministic identifiers, so
// rescheduling a day replaces its alarms without tracking a list.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"routine-guard/internal/store"
)

const (
	// registrationsKey is the store hash holding all pending registrations.
	registrationsKey = "routine:alarms"

	// Channel carries fired alerts to subscribers.
	Channel = "routine:alerts"
)

// Registration is one pending alert. Index 0 is the primary alarm for the
// weekday; higher indexes are backups.
type Registration struct {
	ID      string    `json:"id"`
	Weekday int       `json:"weekday"`
	Index   int       `json:"index"`
	FireAt  time.Time `json:"fire_at"`
}

// AlarmID builds the deterministic identifier for a weekday's alarm slot.
func AlarmID(weekday, index int) string {
	return fmt.Sprintf("routine:alarm:%d:%d", weekday, index)
}

// Registrar registers and cancels alert registrations.
type Registrar interface {
	Register(ctx context.Context, reg Registration) error
	Cancel(ctx context.Context, id string) error
	List(ctx context.Context) ([]Registration, error)
}

// StoreRegistrar keeps registrations in a store hash, one field per alarm
// identifier. Registering an existing identifier overwrites it; cancelling a
// missing one is a no-op.
type StoreRegistrar struct {
	store store.Store
}

// NewStoreRegistrar creates a registrar backed by the given store.
func NewStoreRegistrar(s store.Store) *StoreRegistrar {
	return &StoreRegistrar{store: s}
}

func (r *StoreRegistrar) Register(ctx context.Context, reg Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reg.ID == "" {
		reg.ID = AlarmID(reg.Weekday, reg.Index)
	}
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registration: %w", err)
	}
	if err := r.store.HSet(registrationsKey, map[string]any{reg.ID: string(data)}); err != nil {
		return fmt.Errorf("failed to register alert %s: %w", reg.ID, err)
	}
	return nil
}

func (r *StoreRegistrar) Cancel(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.HDel(registrationsKey, id); err != nil {
		return fmt.Errorf("failed to cancel alert %s: %w", id, err)
	}
	return nil
}

func (r *StoreRegistrar) List(ctx context.Context) ([]Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fields, err := r.store.HGetAll(registrationsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	regs := make([]Registration, 0, len(fields))
	for _, raw := range fields {
		var reg Registration
		if err := json.Unmarshal([]byte(raw), &reg); err != nil {
			continue
		}
		regs = append(regs, reg)
	}
	return regs, nil
}
