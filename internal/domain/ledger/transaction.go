package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction's effect on its account(s)
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// IsValid checks if the type is a known value
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction is a single-account (or two-account transfer) money movement
// gated by the approval workflow
type Transaction struct {
	shared.BaseAggregateRoot
	Approval
	AccountID uuid.UUID
	// ToAccountID is the receiving side of a transfer
	ToAccountID     *uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal
	TransactionDate time.Time
	Description     string
	Reference       string
	Status          ApprovalStatus
	Notes           string
}

// NewTransaction creates a pending transaction
func NewTransaction(
	accountID uuid.UUID,
	toAccountID *uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	transactionDate time.Time,
	description, reference string,
	at time.Time,
) (*Transaction, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Transaction type is not valid")
	}
	if txType == TransactionTypeTransfer {
		if toAccountID == nil || *toAccountID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ACCOUNT", "Transfer requires a destination account")
		}
		if *toAccountID == accountID {
			return nil, shared.NewDomainError("INVALID_ACCOUNT", "Transfer source and destination must differ")
		}
	} else {
		toAccountID = nil
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	return &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		AccountID:         accountID,
		ToAccountID:       toAccountID,
		Type:              txType,
		Amount:            amount,
		TransactionDate:   transactionDate,
		Description:       description,
		Reference:         reference,
		Status:            ApprovalStatusPending,
	}, nil
}

// AccountIDs returns every account the transaction touches
func (t *Transaction) AccountIDs() []uuid.UUID {
	if t.ToAccountID != nil {
		return []uuid.UUID{t.AccountID, *t.ToAccountID}
	}
	return []uuid.UUID{t.AccountID}
}

// SignedAmountFor returns the transaction's effect on accountID:
// income adds, expense subtracts, a transfer debits the source and
// credits the destination. Zero for unrelated accounts.
func (t *Transaction) SignedAmountFor(accountID uuid.UUID) decimal.Decimal {
	switch t.Type {
	case TransactionTypeIncome:
		if t.AccountID == accountID {
			return t.Amount
		}
	case TransactionTypeExpense:
		if t.AccountID == accountID {
			return t.Amount.Neg()
		}
	case TransactionTypeTransfer:
		if t.AccountID == accountID {
			return t.Amount.Neg()
		}
		if t.ToAccountID != nil && *t.ToAccountID == accountID {
			return t.Amount
		}
	}
	return decimal.Zero
}

// IsDuplicateOf reports whether other looks like the same payment:
// same account, amount, calendar day and normalized description
func (t *Transaction) IsDuplicateOf(other *Transaction) bool {
	if t.ID == other.ID {
		return false
	}
	return t.AccountID == other.AccountID &&
		t.Amount.Equal(other.Amount) &&
		sameDay(t.TransactionDate, other.TransactionDate) &&
		NormalizeDescription(t.Description) == NormalizeDescription(other.Description)
}

// Approve moves a pending transaction to approved
func (t *Transaction) Approve(approverID uuid.UUID, at time.Time) error {
	if err := checkTransition("Transaction", t.Status, actionApprove); err != nil {
		return err
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}
	if !t.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be greater than zero")
	}
	t.Status = ApprovalStatusApproved
	t.ApprovedBy = &approverID
	t.ApprovedAt = &at
	t.MarkChanged(at)
	t.RaiseEvent(NewTransactionApprovedEvent(t, at))
	return nil
}

// Reject moves a pending transaction to rejected, appending reason to notes
func (t *Transaction) Reject(rejectorID uuid.UUID, reason string, at time.Time) error {
	if err := checkTransition("Transaction", t.Status, actionReject); err != nil {
		return err
	}
	if rejectorID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Rejector user ID cannot be empty")
	}
	t.Status = ApprovalStatusRejected
	t.RejectedBy = &rejectorID
	t.RejectedAt = &at
	if reason = strings.TrimSpace(reason); reason != "" {
		t.Notes = appendNote(t.Notes, "Rejection reason: "+reason)
	}
	t.MarkChanged(at)
	t.RaiseEvent(NewTransactionRejectedEvent(t, reason, at))
	return nil
}

// Cancel moves a pending transaction to cancelled
func (t *Transaction) Cancel(cancellerID uuid.UUID, reason string, at time.Time) error {
	if err := checkTransition("Transaction", t.Status, actionCancel); err != nil {
		return err
	}
	if cancellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Canceller user ID cannot be empty")
	}
	t.Status = ApprovalStatusCancelled
	t.CancelledBy = &cancellerID
	t.CancelledAt = &at
	if reason = strings.TrimSpace(reason); reason != "" {
		t.Notes = appendNote(t.Notes, "Cancellation reason: "+reason)
	}
	t.MarkChanged(at)
	t.RaiseEvent(NewTransactionCancelledEvent(t, reason, at))
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
