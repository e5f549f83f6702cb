package venue

import (
	"strings"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// Aggregate type names used in lock keys and events
const (
	AggregateTypeEvent   = "Event"
	AggregateTypeBooking = "Booking"
)

// EventStatus represents the status of a venue event
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a bookable occasion with a seat capacity
type Event struct {
	shared.BaseAggregateRoot
	Name        string
	StartsAt    time.Time
	Capacity    int
	BookedCount int
	Status      EventStatus
}

// NewEvent creates a scheduled event
func NewEvent(name string, startsAt time.Time, capacity int, at time.Time) (*Event, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Event name cannot be empty")
	}
	if capacity < 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}
	return &Event{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		Name:              name,
		StartsAt:          startsAt,
		Capacity:          capacity,
		Status:            EventStatusScheduled,
	}, nil
}

// IsOverbooked reports whether more seats are booked than exist
func (e *Event) IsOverbooked() bool {
	return e.BookedCount > e.Capacity
}

// ClampBookedCount caps the booked count at capacity. Returns true when changed.
func (e *Event) ClampBookedCount(at time.Time) bool {
	if !e.IsOverbooked() {
		return false
	}
	e.BookedCount = e.Capacity
	e.MarkChanged(at)
	return true
}
