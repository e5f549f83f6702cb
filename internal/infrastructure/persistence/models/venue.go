package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/venue"
	"github.com/shopspring/decimal"
)

// EventModel is the persistence model for a venue Event.
type EventModel struct {
	AggregateModel
	Name        string            `gorm:"type:varchar(200);not null"`
	StartsAt    time.Time         `gorm:"not null"`
	Capacity    int               `gorm:"not null"`
	BookedCount int               `gorm:"not null"`
	Status      venue.EventStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts the persistence model to a domain Event.
func (m *EventModel) ToDomain() *venue.Event {
	return &venue.Event{
		BaseAggregateRoot: m.Root(),
		Name:              m.Name,
		StartsAt:          m.StartsAt,
		Capacity:          m.Capacity,
		BookedCount:       m.BookedCount,
		Status:            m.Status,
	}
}

// EventModelFromDomain creates a persistence model from a domain Event.
func EventModelFromDomain(e *venue.Event) *EventModel {
	m := &EventModel{
		Name:        e.Name,
		StartsAt:    UTC(e.StartsAt),
		Capacity:    e.Capacity,
		BookedCount: e.BookedCount,
		Status:      e.Status,
	}
	m.AggregateModel = AggregateModelFrom(e.BaseAggregateRoot)
	return m
}

// BookingModel is the persistence model for a Booking.
type BookingModel struct {
	AggregateModel
	EventID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	BookingNumber string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	BalanceAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status        venue.BookingStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking.
func (m *BookingModel) ToDomain() *venue.Booking {
	return &venue.Booking{
		BaseAggregateRoot: m.Root(),
		EventID:           m.EventID,
		BookingNumber:     m.BookingNumber,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		BalanceAmount:     m.BalanceAmount,
		Status:            m.Status,
	}
}

// BookingModelFromDomain creates a persistence model from a domain Booking.
func BookingModelFromDomain(b *venue.Booking) *BookingModel {
	m := &BookingModel{
		EventID:       b.EventID,
		BookingNumber: b.BookingNumber,
		TotalAmount:   b.TotalAmount,
		PaidAmount:    b.PaidAmount,
		BalanceAmount: b.BalanceAmount,
		Status:        b.Status,
	}
	m.AggregateModel = AggregateModelFrom(b.BaseAggregateRoot)
	return m
}
