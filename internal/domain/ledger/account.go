package ledger

import (
	"strings"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountType classifies a ledger account
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// ParseAccountType accepts the canonical names plus "income" as an alias of revenue
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(s))); t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return t, nil
	case "income":
		return AccountTypeRevenue, nil
	}
	return "", shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Unknown account type: "+s)
}

// IsValid checks if the type is a known value
func (t AccountType) IsValid() bool {
	_, err := ParseAccountType(string(t))
	return err == nil
}

// DebitNormal reports whether the type normally carries a debit balance.
// Balances are stored as debit minus credit.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is a ledger account whose CurrentBalance is derived from
// approved transactions and journal postings
type Account struct {
	shared.BaseAggregateRoot
	Code           string
	Name           string
	AccountType    AccountType
	OpeningBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	IsActive       bool
}

// NewAccount creates an active account whose balance starts at the opening balance
func NewAccount(code, name string, accountType AccountType, openingBalance decimal.Decimal, at time.Time) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	parsed, err := ParseAccountType(string(accountType))
	if err != nil {
		return nil, err
	}
	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		Code:              code,
		Name:              name,
		AccountType:       parsed,
		OpeningBalance:    openingBalance,
		CurrentBalance:    openingBalance,
		IsActive:          true,
	}, nil
}

// ApplyRecomputedBalance overwrites the stored balance when it drifted
// beyond tolerance. Returns true when a correction was made.
func (a *Account) ApplyRecomputedBalance(recomputed decimal.Decimal, at time.Time) bool {
	if !shared.AmountsDiffer(a.CurrentBalance, recomputed) {
		return false
	}
	previous := a.CurrentBalance
	a.CurrentBalance = recomputed
	a.MarkChanged(at)
	a.RaiseEvent(NewAccountBalanceCorrectedEvent(a, previous, at))
	return true
}

// HasAbnormalBalance reports a debit-normal account whose balance went negative
func (a *Account) HasAbnormalBalance() bool {
	return a.AccountType.DebitNormal() && a.CurrentBalance.IsNegative()
}
