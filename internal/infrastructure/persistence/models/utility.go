package models

import (
	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/utility"
	"github.com/shopspring/decimal"
)

// UtilityBillModel is the persistence model for a UtilityBill.
type UtilityBillModel struct {
	AggregateModel
	PropertyID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	UtilityType     string             `gorm:"type:varchar(50);not null"`
	PreviousReading decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	CurrentReading  decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	PaidAmount      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	BalanceAmount   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Status          utility.BillStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (UtilityBillModel) TableName() string {
	return "utility_bills"
}

// ToDomain converts the persistence model to a domain UtilityBill.
func (m *UtilityBillModel) ToDomain() *utility.UtilityBill {
	return &utility.UtilityBill{
		BaseAggregateRoot: m.Root(),
		PropertyID:        m.PropertyID,
		UtilityType:       m.UtilityType,
		PreviousReading:   m.PreviousReading,
		CurrentReading:    m.CurrentReading,
		Amount:            m.Amount,
		PaidAmount:        m.PaidAmount,
		BalanceAmount:     m.BalanceAmount,
		Status:            m.Status,
	}
}

// UtilityBillModelFromDomain creates a persistence model from a domain UtilityBill.
func UtilityBillModelFromDomain(b *utility.UtilityBill) *UtilityBillModel {
	m := &UtilityBillModel{
		PropertyID:      b.PropertyID,
		UtilityType:     b.UtilityType,
		PreviousReading: b.PreviousReading,
		CurrentReading:  b.CurrentReading,
		Amount:          b.Amount,
		PaidAmount:      b.PaidAmount,
		BalanceAmount:   b.BalanceAmount,
		Status:          b.Status,
	}
	m.AggregateModel = AggregateModelFrom(b.BaseAggregateRoot)
	return m
}
