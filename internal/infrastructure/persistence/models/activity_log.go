package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/activity"
)

// ActivityLogModel is one row of the correction and audit trail.
type ActivityLogModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EventType  string    `gorm:"type:varchar(100);not null;index"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_activity_entity"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_activity_entity"`
	Summary    string    `gorm:"type:text;not null"`
	Payload    []byte    `gorm:"type:bytea"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the row to an activity entry.
func (m *ActivityLogModel) ToDomain() activity.Entry {
	return activity.Entry{
		ID:         m.ID,
		EventID:    m.EventID,
		EventType:  m.EventType,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Summary:    m.Summary,
		Payload:    m.Payload,
		OccurredAt: m.OccurredAt,
	}
}

// ActivityLogModelFromDomain creates a row from an activity entry.
func ActivityLogModelFromDomain(e activity.Entry) *ActivityLogModel {
	return &ActivityLogModel{
		ID:         e.ID,
		EventID:    e.EventID,
		EventType:  e.EventType,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Summary:    e.Summary,
		Payload:    e.Payload,
		OccurredAt: UTC(e.OccurredAt),
	}
}

// AllModels lists every model in migration order.
func AllModels() []any {
	return []any{
		&PropertyModel{},
		&LeaseModel{},
		&AccountModel{},
		&TransactionModel{},
		&JournalEntryModel{},
		&JournalEntryItemModel{},
		&EventModel{},
		&BookingModel{},
		&InventoryItemModel{},
		&UtilityBillModel{},
		&ActivityLogModel{},
	}
}
