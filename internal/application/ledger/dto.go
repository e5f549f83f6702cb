package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// BalanceOutcome is the result of recomputing one account
type BalanceOutcome struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	Previous    decimal.Decimal `json:"previous_balance"`
	Recomputed  decimal.Decimal `json:"recomputed_balance"`
	// Drifted is true when stored and recomputed differ beyond tolerance
	Drifted bool `json:"drifted"`
	// Corrected is true when the stored balance was overwritten
	Corrected bool `json:"corrected"`
}

// Description renders the outcome as a report line
func (o BalanceOutcome) Description() string {
	if o.Corrected {
		return fmt.Sprintf("Account %s (%s) balance corrected from %s to %s",
			o.AccountCode, o.AccountID, o.Previous.StringFixed(2), o.Recomputed.StringFixed(2))
	}
	return fmt.Sprintf("Account %s (%s) balance %s differs from recomputed %s",
		o.AccountCode, o.AccountID, o.Previous.StringFixed(2), o.Recomputed.StringFixed(2))
}

// RecomputeAllResult collects per-account outcomes of a batch recompute
type RecomputeAllResult struct {
	Outcomes []BalanceOutcome `json:"outcomes"`
	Errors   []string         `json:"errors"`
}

// Corrected returns only the outcomes that overwrote a stored balance
func (r *RecomputeAllResult) Corrected() []BalanceOutcome {
	out := make([]BalanceOutcome, 0)
	for _, o := range r.Outcomes {
		if o.Corrected {
			out = append(out, o)
		}
	}
	return out
}

// AccountBalance pairs an account with a read-only recompute of its balance
type AccountBalance struct {
	Account ledger.Account
	Balance BalanceOutcome
}
