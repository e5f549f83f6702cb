package property

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeaseStatus represents the lifecycle status of a lease
type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "draft"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusExpired    LeaseStatus = "expired"
	LeaseStatusTerminated LeaseStatus = "terminated"
	LeaseStatusCancelled  LeaseStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s LeaseStatus) IsValid() bool {
	switch s {
	case LeaseStatusDraft, LeaseStatusActive, LeaseStatusExpired, LeaseStatusTerminated, LeaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s LeaseStatus) String() string {
	return string(s)
}

// Lease binds a lessee to a property over a closed date interval
type Lease struct {
	shared.BaseAggregateRoot
	PropertyID      uuid.UUID
	LesseeName      string
	Status          LeaseStatus
	StartDate       time.Time
	EndDate         time.Time
	MonthlyRent     decimal.Decimal
	SecurityDeposit decimal.Decimal
	Notes           string
	ExpiredAt       *time.Time
	TerminatedAt    *time.Time
}

// NewLease creates an active lease. Business validation (overlap, dates,
// amounts) is the responsibility of the lease reconciler.
func NewLease(
	propertyID uuid.UUID,
	lesseeName string,
	startDate, endDate time.Time,
	monthlyRent, securityDeposit decimal.Decimal,
	notes string,
	at time.Time,
) (*Lease, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "End date must be after start date")
	}
	lease := &Lease{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		PropertyID:        propertyID,
		LesseeName:        strings.TrimSpace(lesseeName),
		Status:            LeaseStatusActive,
		StartDate:         startDate,
		EndDate:           endDate,
		MonthlyRent:       monthlyRent,
		SecurityDeposit:   securityDeposit,
		Notes:             notes,
	}
	lease.RaiseEvent(NewLeaseCreatedEvent(lease, at))
	return lease, nil
}

// IsActiveAt reports whether the lease is active and its window contains t
func (l *Lease) IsActiveAt(t time.Time) bool {
	return l.Status == LeaseStatusActive && !t.Before(l.StartDate) && !t.After(l.EndDate)
}

// IsOverdue reports whether an active lease has passed its end date
func (l *Lease) IsOverdue(now time.Time) bool {
	return l.Status == LeaseStatusActive && l.EndDate.Before(now)
}

// Overlaps reports whether [start,end] intersects the lease window.
// Both bounds are inclusive: a lease ending on the day another starts overlaps it.
func (l *Lease) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(l.StartDate, l.EndDate, start, end)
}

// IntervalsOverlap is the closed-interval overlap test s1 <= e2 && s2 <= e1
func IntervalsOverlap(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// Expire transitions an overdue active lease to expired
func (l *Lease) Expire(at time.Time) error {
	if l.Status != LeaseStatusActive {
		return shared.Errorf("INVALID_STATE", "Cannot expire lease in %s status", l.Status)
	}
	if !l.EndDate.Before(at) {
		return shared.NewDomainError("INVALID_STATE", "Cannot expire lease before its end date")
	}
	l.Status = LeaseStatusExpired
	l.ExpiredAt = &at
	l.MarkChanged(at)
	l.RaiseEvent(NewLeaseExpiredEvent(l, at))
	return nil
}

// Terminate ends an active lease early. A non-empty reason is appended to notes.
func (l *Lease) Terminate(reason string, at time.Time) error {
	if l.Status != LeaseStatusActive {
		return shared.Errorf("INVALID_STATE", "Cannot terminate lease in %s status", l.Status)
	}
	l.Status = LeaseStatusTerminated
	l.TerminatedAt = &at
	if reason = strings.TrimSpace(reason); reason != "" {
		l.Notes = AppendNote(l.Notes, "Termination reason: "+reason)
	}
	l.MarkChanged(at)
	l.RaiseEvent(NewLeaseTerminatedEvent(l, reason, at))
	return nil
}

// AppendNote adds line to an existing free-text notes field
func AppendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
