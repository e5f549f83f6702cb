package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntityAt creates an entity with a fresh ID stamped with at
func NewBaseEntityAt(at time.Time) BaseEntity {
	return BaseEntity{ID: uuid.New(), CreatedAt: at, UpdatedAt: at}
}

// AggregateRoot is an aggregate that buffers the events raised by its
// state changes until they are published.
type AggregateRoot interface {
	PendingEvents() []DomainEvent
	ClearEvents()
}

// BaseAggregateRoot is embedded by every aggregate. Version is the
// optimistic lock token: repositories write a change only when the stored
// version is one below the in-memory one.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	events  []DomainEvent
}

// NewBaseAggregateRootAt starts a new aggregate at version 1
func NewBaseAggregateRootAt(at time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntityAt(at), Version: 1}
}

// MarkChanged stamps a state change at the given instant and bumps the version
func (a *BaseAggregateRoot) MarkChanged(at time.Time) {
	a.UpdatedAt = at
	a.Version++
}

// Key returns the aggregate ID and the version it currently holds
func (a *BaseAggregateRoot) Key() (uuid.UUID, int) {
	return a.ID, a.Version
}

// RaiseEvent buffers an event for publication after the change is stored
func (a *BaseAggregateRoot) RaiseEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.events
}

func (a *BaseAggregateRoot) ClearEvents() {
	a.events = nil
}
