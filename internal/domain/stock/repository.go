package stock

import (
	"context"

	"github.com/google/uuid"
)

// InventoryItemRepository defines persistence operations for inventory items
type InventoryItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindAllItems(ctx context.Context) ([]InventoryItem, error)
	Save(ctx context.Context, item *InventoryItem) error
	SaveWithLock(ctx context.Context, item *InventoryItem) error
}
