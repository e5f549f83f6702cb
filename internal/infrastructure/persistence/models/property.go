package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/shopspring/decimal"
)

// PropertyModel is the persistence model for the Property aggregate root.
type PropertyModel struct {
	AggregateModel
	Code     string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string                  `gorm:"type:varchar(200);not null"`
	Status   property.PropertyStatus `gorm:"type:varchar(20);not null;index"`
	IsActive bool                    `gorm:"not null;index"`
	BaseRent decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property entity.
func (m *PropertyModel) ToDomain() *property.Property {
	return &property.Property{
		BaseAggregateRoot: m.Root(),
		Code:              m.Code,
		Name:              m.Name,
		Status:            m.Status,
		IsActive:          m.IsActive,
		BaseRent:          m.BaseRent,
	}
}

// PropertyModelFromDomain creates a persistence model from a domain Property entity.
func PropertyModelFromDomain(p *property.Property) *PropertyModel {
	m := &PropertyModel{
		Code:     p.Code,
		Name:     p.Name,
		Status:   p.Status,
		IsActive: p.IsActive,
		BaseRent: p.BaseRent,
	}
	m.AggregateModel = AggregateModelFrom(p.BaseAggregateRoot)
	return m
}

// LeaseModel is the persistence model for the Lease aggregate root.
type LeaseModel struct {
	AggregateModel
	PropertyID      uuid.UUID            `gorm:"type:uuid;not null;index:idx_lease_property_status"`
	LesseeName      string               `gorm:"type:varchar(200);not null"`
	Status          property.LeaseStatus `gorm:"type:varchar(20);not null;index:idx_lease_property_status"`
	StartDate       time.Time            `gorm:"not null"`
	EndDate         time.Time            `gorm:"not null;index"`
	MonthlyRent     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	SecurityDeposit decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Notes           string               `gorm:"type:text"`
	ExpiredAt       *time.Time
	TerminatedAt    *time.Time
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease entity.
func (m *LeaseModel) ToDomain() *property.Lease {
	return &property.Lease{
		BaseAggregateRoot: m.Root(),
		PropertyID:        m.PropertyID,
		LesseeName:        m.LesseeName,
		Status:            m.Status,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		MonthlyRent:       m.MonthlyRent,
		SecurityDeposit:   m.SecurityDeposit,
		Notes:             m.Notes,
		ExpiredAt:         m.ExpiredAt,
		TerminatedAt:      m.TerminatedAt,
	}
}

// LeaseModelFromDomain creates a persistence model from a domain Lease entity.
func LeaseModelFromDomain(l *property.Lease) *LeaseModel {
	m := &LeaseModel{
		PropertyID:      l.PropertyID,
		LesseeName:      l.LesseeName,
		Status:          l.Status,
		StartDate:       UTC(l.StartDate),
		EndDate:         UTC(l.EndDate),
		MonthlyRent:     l.MonthlyRent,
		SecurityDeposit: l.SecurityDeposit,
		Notes:           l.Notes,
		ExpiredAt:       UTCPtr(l.ExpiredAt),
		TerminatedAt:    UTCPtr(l.TerminatedAt),
	}
	m.AggregateModel = AggregateModelFrom(l.BaseAggregateRoot)
	return m
}
