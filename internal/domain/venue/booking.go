package venue

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a paid reservation against an event
type Booking struct {
	shared.BaseAggregateRoot
	EventID       uuid.UUID
	BookingNumber string
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	BalanceAmount decimal.Decimal
	Status        BookingStatus
}

// NewBooking creates a pending booking with balance = total - paid
func NewBooking(eventID uuid.UUID, bookingNumber string, total, paid decimal.Decimal, at time.Time) (*Booking, error) {
	if eventID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EVENT", "Event ID cannot be empty")
	}
	if bookingNumber == "" {
		return nil, shared.NewDomainError("INVALID_BOOKING_NUMBER", "Booking number cannot be empty")
	}
	if total.IsNegative() || paid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}
	return &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		EventID:           eventID,
		BookingNumber:     bookingNumber,
		TotalAmount:       total,
		PaidAmount:        paid,
		BalanceAmount:     total.Sub(paid),
		Status:            BookingStatusPending,
	}, nil
}

// ExpectedBalance is total minus paid
func (b *Booking) ExpectedBalance() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount)
}

// IsOverpaid reports whether more was paid than owed
func (b *Booking) IsOverpaid() bool {
	return b.PaidAmount.Sub(b.TotalAmount).GreaterThan(shared.BalanceTolerance)
}

// BalanceDrifted reports a stored balance that RecomputeBalance would change
func (b *Booking) BalanceDrifted() bool {
	return !b.IsOverpaid() && shared.AmountsDiffer(b.BalanceAmount, b.ExpectedBalance())
}

// RecomputeBalance overwrites a drifted balance. Overpaid bookings are left
// untouched because no safe correction exists.
func (b *Booking) RecomputeBalance(at time.Time) bool {
	if !b.BalanceDrifted() {
		return false
	}
	b.BalanceAmount = b.ExpectedBalance()
	b.MarkChanged(at)
	return true
}
