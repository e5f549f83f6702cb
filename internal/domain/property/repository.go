package property

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// PropertyRepository defines persistence operations for properties
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	// List returns one page of properties matching the filter
	List(ctx context.Context, filter shared.Filter) (shared.Page[Property], error)
	// FindActive returns every property with is_active set
	FindActive(ctx context.Context) ([]Property, error)
	Save(ctx context.Context, property *Property) error
	// SaveWithLock persists with an optimistic version check
	SaveWithLock(ctx context.Context, property *Property) error
}

// LeaseRepository defines persistence operations for leases
type LeaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lease, error)
	FindByStatus(ctx context.Context, status LeaseStatus) ([]Lease, error)

	// ActiveLeaseForProperty returns the active lease whose window contains
	// asOf, or shared.ErrNotFound. This is the single definition of
	// "active lease" used across reconciliation.
	ActiveLeaseForProperty(ctx context.Context, propertyID uuid.UUID, asOf time.Time) (*Lease, error)

	// FindActiveOverlapping returns active leases on the property whose
	// window intersects [start,end], both bounds inclusive.
	FindActiveOverlapping(ctx context.Context, propertyID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]Lease, error)

	// FindOverdue returns active leases whose end date is before asOf
	FindOverdue(ctx context.Context, asOf time.Time) ([]Lease, error)

	Save(ctx context.Context, lease *Lease) error
	SaveWithLock(ctx context.Context, lease *Lease) error
}
