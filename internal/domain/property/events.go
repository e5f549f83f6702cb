package property

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

const (
	EventTypePropertyStatusCorrected = "PropertyStatusCorrected"
	EventTypeLeaseCreated            = "LeaseCreated"
	EventTypeLeaseExpired            = "LeaseExpired"
	EventTypeLeaseTerminated         = "LeaseTerminated"

	AggregateTypeProperty = "Property"
	AggregateTypeLease    = "Lease"
)

// PropertyStatusCorrectedEvent is raised when reconciliation flips a property's status
type PropertyStatusCorrectedEvent struct {
	shared.EventHeader
	PropertyID   uuid.UUID      `json:"property_id"`
	PropertyCode string         `json:"property_code"`
	FromStatus   PropertyStatus `json:"from_status"`
	ToStatus     PropertyStatus `json:"to_status"`
	Reason       string         `json:"reason"`
}

// NewPropertyStatusCorrectedEvent creates a new PropertyStatusCorrectedEvent
func NewPropertyStatusCorrectedEvent(p *Property, from PropertyStatus, reason string, at time.Time) *PropertyStatusCorrectedEvent {
	return &PropertyStatusCorrectedEvent{
		EventHeader:  shared.NewEventHeader(EventTypePropertyStatusCorrected, AggregateTypeProperty, p.ID, at),
		PropertyID:   p.ID,
		PropertyCode: p.Code,
		FromStatus:   from,
		ToStatus:     p.Status,
		Reason:       reason,
	}
}

// Description implements shared.Describer
func (e *PropertyStatusCorrectedEvent) Description() string {
	return fmt.Sprintf("Property %s (%s) status corrected from %s to %s: %s",
		e.PropertyCode, e.PropertyID, e.FromStatus, e.ToStatus, e.Reason)
}

// LeaseCreatedEvent is raised when a lease is created
type LeaseCreatedEvent struct {
	shared.EventHeader
	LeaseID    uuid.UUID `json:"lease_id"`
	PropertyID uuid.UUID `json:"property_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// NewLeaseCreatedEvent creates a new LeaseCreatedEvent
func NewLeaseCreatedEvent(l *Lease, at time.Time) *LeaseCreatedEvent {
	return &LeaseCreatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeLeaseCreated, AggregateTypeLease, l.ID, at),
		LeaseID:     l.ID,
		PropertyID:  l.PropertyID,
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
	}
}

// Description implements shared.Describer
func (e *LeaseCreatedEvent) Description() string {
	return fmt.Sprintf("Lease %s created on property %s for %s to %s",
		e.LeaseID, e.PropertyID, e.StartDate.Format(time.DateOnly), e.EndDate.Format(time.DateOnly))
}

// LeaseExpiredEvent is raised when an overdue lease is expired
type LeaseExpiredEvent struct {
	shared.EventHeader
	LeaseID    uuid.UUID `json:"lease_id"`
	PropertyID uuid.UUID `json:"property_id"`
	EndDate    time.Time `json:"end_date"`
}

// NewLeaseExpiredEvent creates a new LeaseExpiredEvent
func NewLeaseExpiredEvent(l *Lease, at time.Time) *LeaseExpiredEvent {
	return &LeaseExpiredEvent{
		EventHeader: shared.NewEventHeader(EventTypeLeaseExpired, AggregateTypeLease, l.ID, at),
		LeaseID:     l.ID,
		PropertyID:  l.PropertyID,
		EndDate:     l.EndDate,
	}
}

// Description implements shared.Describer
func (e *LeaseExpiredEvent) Description() string {
	return fmt.Sprintf("Lease %s on property %s expired (ended %s)",
		e.LeaseID, e.PropertyID, e.EndDate.Format(time.DateOnly))
}

// LeaseTerminatedEvent is raised when a lease is terminated early
type LeaseTerminatedEvent struct {
	shared.EventHeader
	LeaseID    uuid.UUID `json:"lease_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Reason     string    `json:"reason,omitempty"`
}

// NewLeaseTerminatedEvent creates a new LeaseTerminatedEvent
func NewLeaseTerminatedEvent(l *Lease, reason string, at time.Time) *LeaseTerminatedEvent {
	return &LeaseTerminatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeLeaseTerminated, AggregateTypeLease, l.ID, at),
		LeaseID:     l.ID,
		PropertyID:  l.PropertyID,
		Reason:      reason,
	}
}

// Description implements shared.Describer
func (e *LeaseTerminatedEvent) Description() string {
	if e.Reason == "" {
		return fmt.Sprintf("Lease %s on property %s terminated", e.LeaseID, e.PropertyID)
	}
	return fmt.Sprintf("Lease %s on property %s terminated: %s", e.LeaseID, e.PropertyID, e.Reason)
}
