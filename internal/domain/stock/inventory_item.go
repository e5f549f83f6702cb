package stock

import (
	"strings"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInventoryItem names inventory items in lock keys
const AggregateTypeInventoryItem = "InventoryItem"

// InventoryItem is a stocked article with an on-hand quantity
type InventoryItem struct {
	shared.BaseAggregateRoot
	SKU            string
	Name           string
	QuantityOnHand decimal.Decimal
	ReorderLevel   decimal.Decimal
}

// NewInventoryItem creates an item with the given opening quantity
func NewInventoryItem(sku, name string, quantity, reorderLevel decimal.Decimal, at time.Time) (*InventoryItem, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		SKU:               sku,
		Name:              name,
		QuantityOnHand:    quantity,
		ReorderLevel:      reorderLevel,
	}, nil
}

// HasNegativeStock reports whether on-hand quantity dropped below zero
func (i *InventoryItem) HasNegativeStock() bool {
	return i.QuantityOnHand.IsNegative()
}

// ClampNegativeStock resets negative stock to zero. Returns true when changed.
func (i *InventoryItem) ClampNegativeStock(at time.Time) bool {
	if !i.HasNegativeStock() {
		return false
	}
	i.QuantityOnHand = decimal.Zero
	i.MarkChanged(at)
	return true
}

// BelowReorderLevel reports whether the item should be reordered
func (i *InventoryItem) BelowReorderLevel() bool {
	return i.ReorderLevel.IsPositive() && i.QuantityOnHand.LessThan(i.ReorderLevel)
}
