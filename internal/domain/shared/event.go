package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate state change
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// Describer is implemented by events that carry a human-readable summary.
// The activity log stores it verbatim.
type Describer interface {
	Description() string
}

// EventHeader is embedded by every event and implements DomainEvent. The
// JSON names are part of the stored activity payload.
type EventHeader struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
}

// NewEventHeader stamps a new event of eventType raised by the aggregate at
func NewEventHeader(eventType, aggType string, aggID uuid.UUID, at time.Time) EventHeader {
	return EventHeader{ID: uuid.New(), Type: eventType, Timestamp: at, AggID: aggID, AggType: aggType}
}

func (h *EventHeader) EventID() uuid.UUID {
	return h.ID
}

func (h *EventHeader) EventType() string {
	return h.Type
}

func (h *EventHeader) OccurredAt() time.Time {
	return h.Timestamp
}

func (h *EventHeader) AggregateID() uuid.UUID {
	return h.AggID
}

func (h *EventHeader) AggregateType() string {
	return h.AggType
}

// CollectEvents drains the pending events of each aggregate in order. Nil
// aggregates are skipped.
func CollectEvents(aggregates ...AggregateRoot) []DomainEvent {
	var events []DomainEvent
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events = append(events, agg.PendingEvents()...)
		agg.ClearEvents()
	}
	return events
}
