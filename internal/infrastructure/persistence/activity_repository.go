package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/activity"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormActivityLogRepository implements activity.Repository using GORM
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Append stores the entry, ignoring an event that was already recorded
func (r *GormActivityLogRepository) Append(ctx context.Context, entry activity.Entry) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(models.ActivityLogModelFromDomain(entry)).Error
}

// FindByEntity returns the newest entries for an entity first
func (r *GormActivityLogRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]activity.Entry, error) {
	var rows []models.ActivityLogModel
	query := conn(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]activity.Entry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
