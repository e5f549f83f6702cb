package utility

import (
	"context"

	"github.com/google/uuid"
)

// UtilityBillRepository defines persistence operations for utility bills
type UtilityBillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UtilityBill, error)
	FindAllBills(ctx context.Context) ([]UtilityBill, error)
	Save(ctx context.Context, bill *UtilityBill) error
	SaveWithLock(ctx context.Context, bill *UtilityBill) error
}
