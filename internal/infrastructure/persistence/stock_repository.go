package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/stock"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements stock.InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item by ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAllItems returns every inventory item ordered by SKU
func (r *GormInventoryItemRepository) FindAllItems(ctx context.Context) ([]stock.InventoryItem, error) {
	var rows []models.InventoryItemModel
	if err := conn(ctx, r.db).Order("sku").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]stock.InventoryItem, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an item without a version check
func (r *GormInventoryItemRepository) Save(ctx context.Context, i *stock.InventoryItem) error {
	return conn(ctx, r.db).Save(models.InventoryItemModelFromDomain(i)).Error
}

// SaveWithLock saves the item with optimistic locking
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, i *stock.InventoryItem) error {
	return saveWithLock(ctx, r.db, models.InventoryItemModelFromDomain(i))
}
