package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeAccountBalanceCorrected = "AccountBalanceCorrected"
	EventTypeTransactionApproved     = "TransactionApproved"
	EventTypeTransactionRejected     = "TransactionRejected"
	EventTypeTransactionCancelled    = "TransactionCancelled"
	EventTypeJournalEntryApproved    = "JournalEntryApproved"

	AggregateTypeAccount      = "Account"
	AggregateTypeTransaction  = "Transaction"
	AggregateTypeJournalEntry = "JournalEntry"
)

// AccountBalanceCorrectedEvent is raised when a recomputed balance overwrites a drifted one
type AccountBalanceCorrectedEvent struct {
	shared.EventHeader
	AccountID       uuid.UUID       `json:"account_id"`
	AccountCode     string          `json:"account_code"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
}

// NewAccountBalanceCorrectedEvent creates a new AccountBalanceCorrectedEvent
func NewAccountBalanceCorrectedEvent(a *Account, previous decimal.Decimal, at time.Time) *AccountBalanceCorrectedEvent {
	return &AccountBalanceCorrectedEvent{
		EventHeader:     shared.NewEventHeader(EventTypeAccountBalanceCorrected, AggregateTypeAccount, a.ID, at),
		AccountID:       a.ID,
		AccountCode:     a.Code,
		PreviousBalance: previous,
		NewBalance:      a.CurrentBalance,
	}
}

// Description implements shared.Describer
func (e *AccountBalanceCorrectedEvent) Description() string {
	return fmt.Sprintf("Account %s (%s) balance corrected from %s to %s",
		e.AccountCode, e.AccountID, e.PreviousBalance.StringFixed(2), e.NewBalance.StringFixed(2))
}

// TransactionApprovedEvent is raised when a transaction is approved
type TransactionApprovedEvent struct {
	shared.EventHeader
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	ApprovedBy    uuid.UUID       `json:"approved_by"`
}

// NewTransactionApprovedEvent creates a new TransactionApprovedEvent
func NewTransactionApprovedEvent(t *Transaction, at time.Time) *TransactionApprovedEvent {
	var approvedBy uuid.UUID
	if t.ApprovedBy != nil {
		approvedBy = *t.ApprovedBy
	}
	return &TransactionApprovedEvent{
		EventHeader:   shared.NewEventHeader(EventTypeTransactionApproved, AggregateTypeTransaction, t.ID, at),
		TransactionID: t.ID,
		AccountID:     t.AccountID,
		Amount:        t.Amount,
		ApprovedBy:    approvedBy,
	}
}

// Description implements shared.Describer
func (e *TransactionApprovedEvent) Description() string {
	return fmt.Sprintf("Transaction %s approved by %s", e.TransactionID, e.ApprovedBy)
}

// TransactionRejectedEvent is raised when a transaction is rejected
type TransactionRejectedEvent struct {
	shared.EventHeader
	TransactionID uuid.UUID `json:"transaction_id"`
	Reason        string    `json:"reason,omitempty"`
}

// NewTransactionRejectedEvent creates a new TransactionRejectedEvent
func NewTransactionRejectedEvent(t *Transaction, reason string, at time.Time) *TransactionRejectedEvent {
	return &TransactionRejectedEvent{
		EventHeader:   shared.NewEventHeader(EventTypeTransactionRejected, AggregateTypeTransaction, t.ID, at),
		TransactionID: t.ID,
		Reason:        reason,
	}
}

// Description implements shared.Describer
func (e *TransactionRejectedEvent) Description() string {
	return fmt.Sprintf("Transaction %s rejected", e.TransactionID)
}

// TransactionCancelledEvent is raised when a transaction is cancelled
type TransactionCancelledEvent struct {
	shared.EventHeader
	TransactionID uuid.UUID `json:"transaction_id"`
	Reason        string    `json:"reason,omitempty"`
}

// NewTransactionCancelledEvent creates a new TransactionCancelledEvent
func NewTransactionCancelledEvent(t *Transaction, reason string, at time.Time) *TransactionCancelledEvent {
	return &TransactionCancelledEvent{
		EventHeader:   shared.NewEventHeader(EventTypeTransactionCancelled, AggregateTypeTransaction, t.ID, at),
		TransactionID: t.ID,
		Reason:        reason,
	}
}

// Description implements shared.Describer
func (e *TransactionCancelledEvent) Description() string {
	return fmt.Sprintf("Transaction %s cancelled", e.TransactionID)
}

// JournalEntryApprovedEvent is raised when a journal entry is approved
type JournalEntryApprovedEvent struct {
	shared.EventHeader
	JournalEntryID uuid.UUID       `json:"journal_entry_id"`
	EntryNumber    string          `json:"entry_number"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	AccountIDs     []uuid.UUID     `json:"account_ids"`
}

// NewJournalEntryApprovedEvent creates a new JournalEntryApprovedEvent
func NewJournalEntryApprovedEvent(j *JournalEntry, at time.Time) *JournalEntryApprovedEvent {
	return &JournalEntryApprovedEvent{
		EventHeader:    shared.NewEventHeader(EventTypeJournalEntryApproved, AggregateTypeJournalEntry, j.ID, at),
		JournalEntryID: j.ID,
		EntryNumber:    j.EntryNumber,
		TotalDebit:     j.TotalDebit(),
		AccountIDs:     j.AccountIDs(),
	}
}

// Description implements shared.Describer
func (e *JournalEntryApprovedEvent) Description() string {
	return fmt.Sprintf("Journal entry %s (%s) approved", e.EntryNumber, e.JournalEntryID)
}
