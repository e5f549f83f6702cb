package utility

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeUtilityBill names utility bills in lock keys
const AggregateTypeUtilityBill = "UtilityBill"

// BillStatus represents the payment status of a utility bill
type BillStatus string

const (
	BillStatusUnpaid  BillStatus = "unpaid"
	BillStatusPartial BillStatus = "partial"
	BillStatusPaid    BillStatus = "paid"
)

// UtilityBill is a metered charge against a property
type UtilityBill struct {
	shared.BaseAggregateRoot
	PropertyID      uuid.UUID
	UtilityType     string
	PreviousReading decimal.Decimal
	CurrentReading  decimal.Decimal
	Amount          decimal.Decimal
	PaidAmount      decimal.Decimal
	BalanceAmount   decimal.Decimal
	Status          BillStatus
}

// NewUtilityBill creates an unpaid bill
func NewUtilityBill(propertyID uuid.UUID, utilityType string, previous, current, amount decimal.Decimal, at time.Time) (*UtilityBill, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if current.LessThan(previous) {
		return nil, shared.NewDomainError("INVALID_READING", "Current reading cannot be below previous reading")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	return &UtilityBill{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		PropertyID:        propertyID,
		UtilityType:       utilityType,
		PreviousReading:   previous,
		CurrentReading:    current,
		Amount:            amount,
		PaidAmount:        decimal.Zero,
		BalanceAmount:     amount,
		Status:            BillStatusUnpaid,
	}, nil
}

// Consumption is current minus previous reading
func (b *UtilityBill) Consumption() decimal.Decimal {
	return b.CurrentReading.Sub(b.PreviousReading)
}

// HasReadingRegression reports a meter reading that went backwards
func (b *UtilityBill) HasReadingRegression() bool {
	return b.CurrentReading.LessThan(b.PreviousReading)
}

// ExpectedStatus derives the payment status from the paid amount
func (b *UtilityBill) ExpectedStatus() BillStatus {
	switch {
	case !b.PaidAmount.IsPositive():
		return BillStatusUnpaid
	case b.Amount.Sub(b.PaidAmount).GreaterThan(shared.BalanceTolerance):
		return BillStatusPartial
	}
	return BillStatusPaid
}

// ExpectedBalance is amount minus paid, floored at zero
func (b *UtilityBill) ExpectedBalance() decimal.Decimal {
	expected := b.Amount.Sub(b.PaidAmount)
	if expected.IsNegative() {
		return decimal.Zero
	}
	return expected
}

// BalanceDrifted reports whether RecomputeBalance would change the bill
func (b *UtilityBill) BalanceDrifted() bool {
	return shared.AmountsDiffer(b.BalanceAmount, b.ExpectedBalance()) || b.Status != b.ExpectedStatus()
}

// RecomputeBalance sets balance = amount - paid and realigns the status.
// Returns true when anything changed.
func (b *UtilityBill) RecomputeBalance(at time.Time) bool {
	if !b.BalanceDrifted() {
		return false
	}
	b.BalanceAmount = b.ExpectedBalance()
	b.Status = b.ExpectedStatus()
	b.MarkChanged(at)
	return true
}
