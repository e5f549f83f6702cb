package venue

import (
	"context"

	"github.com/google/uuid"
)

// EventRepository defines persistence operations for venue events
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindAllEvents(ctx context.Context) ([]Event, error)
	Save(ctx context.Context, event *Event) error
	SaveWithLock(ctx context.Context, event *Event) error
}

// BookingRepository defines persistence operations for bookings
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindAllBookings(ctx context.Context) ([]Booking, error)
	Save(ctx context.Context, booking *Booking) error
	SaveWithLock(ctx context.Context, booking *Booking) error
}
