package models

import (
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for an InventoryItem.
type InventoryItemModel struct {
	AggregateModel
	SKU            string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	QuantityOnHand decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReorderLevel   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem.
func (m *InventoryItemModel) ToDomain() *stock.InventoryItem {
	return &stock.InventoryItem{
		BaseAggregateRoot: m.Root(),
		SKU:               m.SKU,
		Name:              m.Name,
		QuantityOnHand:    m.QuantityOnHand,
		ReorderLevel:      m.ReorderLevel,
	}
}

// InventoryItemModelFromDomain creates a persistence model from a domain InventoryItem.
func InventoryItemModelFromDomain(i *stock.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{
		SKU:            i.SKU,
		Name:           i.Name,
		QuantityOnHand: i.QuantityOnHand,
		ReorderLevel:   i.ReorderLevel,
	}
	m.AggregateModel = AggregateModelFrom(i.BaseAggregateRoot)
	return m
}
