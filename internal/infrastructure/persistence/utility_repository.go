package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/utility"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUtilityBillRepository implements utility.UtilityBillRepository using GORM
type GormUtilityBillRepository struct {
	db *gorm.DB
}

// NewGormUtilityBillRepository creates a new GormUtilityBillRepository
func NewGormUtilityBillRepository(db *gorm.DB) *GormUtilityBillRepository {
	return &GormUtilityBillRepository{db: db}
}

// FindByID finds a bill by ID
func (r *GormUtilityBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*utility.UtilityBill, error) {
	var model models.UtilityBillModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAllBills returns every utility bill
func (r *GormUtilityBillRepository) FindAllBills(ctx context.Context) ([]utility.UtilityBill, error) {
	var rows []models.UtilityBillModel
	if err := conn(ctx, r.db).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]utility.UtilityBill, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a bill without a version check
func (r *GormUtilityBillRepository) Save(ctx context.Context, b *utility.UtilityBill) error {
	return conn(ctx, r.db).Save(models.UtilityBillModelFromDomain(b)).Error
}

// SaveWithLock saves the bill with optimistic locking
func (r *GormUtilityBillRepository) SaveWithLock(ctx context.Context, b *utility.UtilityBill) error {
	return saveWithLock(ctx, r.db, models.UtilityBillModelFromDomain(b))
}
