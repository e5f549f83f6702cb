// Package activity models the append-only trail of automatic corrections
// and workflow decisions made by the reconciliation services.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// Entry is one row of the activity trail
type Entry struct {
	ID         uuid.UUID
	EventID    uuid.UUID
	EventType  string
	EntityType string
	EntityID   uuid.UUID
	Summary    string
	// Payload is the JSON encoding of the originating event
	Payload    []byte
	OccurredAt time.Time
}

// FromEvent builds an entry from a domain event. Events implementing
// shared.Describer supply the summary; others fall back to the event type.
func FromEvent(event shared.DomainEvent, payload []byte) Entry {
	summary := event.EventType()
	if d, ok := event.(shared.Describer); ok {
		summary = d.Description()
	}
	return Entry{
		ID:         uuid.New(),
		EventID:    event.EventID(),
		EventType:  event.EventType(),
		EntityType: event.AggregateType(),
		EntityID:   event.AggregateID(),
		Summary:    summary,
		Payload:    payload,
		OccurredAt: event.OccurredAt(),
	}
}

// Repository persists activity entries
type Repository interface {
	// Append stores the entry. Appending an event twice is a no-op.
	Append(ctx context.Context, entry Entry) error
	// FindByEntity returns the newest entries for an entity first
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]Entry, error)
}
