package property

import (
	"strings"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PropertyStatus represents the occupancy status of a property
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusOccupied    PropertyStatus = "occupied"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
	PropertyStatusUnavailable PropertyStatus = "unavailable"
)

// IsValid checks if the status is a known value
func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusOccupied, PropertyStatusMaintenance, PropertyStatusUnavailable:
		return true
	}
	return false
}

// String returns the string representation
func (s PropertyStatus) String() string {
	return string(s)
}

// Property is a rentable unit whose occupancy status is derived from its leases
type Property struct {
	shared.BaseAggregateRoot
	Code     string
	Name     string
	Status   PropertyStatus
	IsActive bool
	// BaseRent is the reference monthly rent used to flag unusual lease amounts
	BaseRent decimal.Decimal
}

// NewProperty creates an active, available property
func NewProperty(code, name string, baseRent decimal.Decimal, at time.Time) (*Property, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Property code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Property code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if baseRent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Base rent cannot be negative")
	}
	return &Property{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		Code:              code,
		Name:              name,
		Status:            PropertyStatusAvailable,
		IsActive:          true,
		BaseRent:          baseRent,
	}, nil
}

// IsAvailable reports whether a new lease may be placed on the property
func (p *Property) IsAvailable() bool {
	return p.IsActive && p.Status == PropertyStatusAvailable
}

// ExpectedStatus derives the status implied by lease state. Only the
// occupied/available pair is derived; maintenance and unavailable are
// administrative states left untouched. ok is false when no change applies.
func (p *Property) ExpectedStatus(hasActiveLease bool) (PropertyStatus, bool) {
	switch {
	case p.Status == PropertyStatusOccupied && !hasActiveLease:
		return PropertyStatusAvailable, true
	case p.Status == PropertyStatusAvailable && hasActiveLease:
		return PropertyStatusOccupied, true
	}
	return p.Status, false
}

// CorrectStatus moves the property to target and records the correction
func (p *Property) CorrectStatus(target PropertyStatus, reason string, at time.Time) error {
	if !target.IsValid() {
		return shared.Errorf("INVALID_STATUS", "Unknown property status %q", target)
	}
	if p.Status == target {
		return nil
	}
	from := p.Status
	p.Status = target
	p.MarkChanged(at)
	p.RaiseEvent(NewPropertyStatusCorrectedEvent(p, from, reason, at))
	return nil
}

// Occupy marks the property occupied by a newly created lease
func (p *Property) Occupy(at time.Time) error {
	if !p.IsAvailable() {
		return shared.Errorf("INVALID_STATE", "Cannot occupy property in %s status", p.Status)
	}
	p.Status = PropertyStatusOccupied
	p.MarkChanged(at)
	return nil
}

// Release returns an occupied property to available. Other statuses are kept.
func (p *Property) Release(at time.Time) bool {
	if p.Status != PropertyStatusOccupied {
		return false
	}
	p.Status = PropertyStatusAvailable
	p.MarkChanged(at)
	return true
}
