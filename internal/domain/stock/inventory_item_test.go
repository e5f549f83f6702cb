package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryItem_ClampNegativeStock(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	item, err := NewInventoryItem("SKU-1", "Chairs", decimal.NewFromInt(3), decimal.NewFromInt(5), now)
	require.NoError(t, err)
	assert.True(t, item.BelowReorderLevel())
	assert.False(t, item.ClampNegativeStock(now))

	item.QuantityOnHand = decimal.NewFromInt(-4)
	assert.True(t, item.ClampNegativeStock(now))
	assert.True(t, item.QuantityOnHand.IsZero())
	assert.Equal(t, 2, item.Version)
}
