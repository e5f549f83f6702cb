package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// AggregateModel holds the columns every aggregate table shares. Timestamps
// come from the domain clock, so gorm's auto-timestamps are off.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int       `gorm:"not null;default:1"`
}

// Versioned is implemented by every aggregate model
type Versioned interface {
	Key() (uuid.UUID, int)
}

// AggregateModelFrom copies the aggregate header into its columns
func AggregateModelFrom(a shared.BaseAggregateRoot) AggregateModel {
	return AggregateModel{ID: a.ID, CreatedAt: UTC(a.CreatedAt), UpdatedAt: UTC(a.UpdatedAt), Version: a.Version}
}

// Root rebuilds the aggregate header. Pending events are never stored.
func (m AggregateModel) Root() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Version:    m.Version,
	}
}

// Key returns the primary key and the version about to be written
func (m AggregateModel) Key() (uuid.UUID, int) {
	return m.ID, m.Version
}

// UTC normalizes a timestamp before it is written or bound. SQLite keeps
// times as text and compares them as strings, so every stored instant and
// every bound parameter must carry the same offset.
func UTC(t time.Time) time.Time {
	return t.UTC()
}

// UTCPtr is UTC for optional timestamps
func UTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
