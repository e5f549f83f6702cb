package utility

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtilityBill_RecomputeBalance(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bill, err := NewUtilityBill(uuid.New(), "electricity", decimal.NewFromInt(100), decimal.NewFromInt(180), decimal.NewFromInt(4000), now)
	require.NoError(t, err)
	assert.True(t, bill.Consumption().Equal(decimal.NewFromInt(80)))
	assert.False(t, bill.RecomputeBalance(now))

	bill.PaidAmount = decimal.NewFromInt(1000)
	assert.True(t, bill.RecomputeBalance(now))
	assert.True(t, bill.BalanceAmount.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, BillStatusPartial, bill.Status)

	bill.PaidAmount = decimal.NewFromInt(4000)
	assert.True(t, bill.RecomputeBalance(now))
	assert.Equal(t, BillStatusPaid, bill.Status)
	assert.True(t, bill.BalanceAmount.IsZero())
}

func TestNewUtilityBill_ReadingRegression(t *testing.T) {
	_, err := NewUtilityBill(uuid.New(), "water", decimal.NewFromInt(50), decimal.NewFromInt(40), decimal.NewFromInt(10), time.Now())
	assert.Error(t, err)
}
