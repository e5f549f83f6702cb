package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// JournalEntryItem is one debit or credit line of a journal entry
type JournalEntryItem struct {
	ID             uuid.UUID
	JournalEntryID uuid.UUID
	AccountID      uuid.UUID
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Memo           string
}

// Net returns debit minus credit, the line's effect on its account balance
func (i JournalEntryItem) Net() decimal.Decimal {
	return i.Debit.Sub(i.Credit)
}

// JournalEntry is a double-entry record approved through the same
// workflow as transactions
type JournalEntry struct {
	shared.BaseAggregateRoot
	Approval
	EntryNumber string
	EntryDate   time.Time
	Description string
	Status      ApprovalStatus
	Notes       string
	Items       []JournalEntryItem
}

// NewJournalEntry creates a pending journal entry
func NewJournalEntry(entryNumber string, entryDate time.Time, description string, at time.Time) (*JournalEntry, error) {
	entryNumber = strings.TrimSpace(entryNumber)
	if entryNumber == "" {
		return nil, shared.NewDomainError("INVALID_ENTRY_NUMBER", "Entry number cannot be empty")
	}
	if len(entryNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ENTRY_NUMBER", "Entry number cannot exceed 50 characters")
	}
	return &JournalEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		EntryNumber:       entryNumber,
		EntryDate:         entryDate,
		Description:       description,
		Status:            ApprovalStatusPending,
		Items:             make([]JournalEntryItem, 0),
	}, nil
}

// AddItem appends a line. Exactly one of debit and credit must be positive.
func (j *JournalEntry) AddItem(accountID uuid.UUID, debit, credit decimal.Decimal, memo string) error {
	if j.Status != ApprovalStatusPending {
		return shared.Errorf("INVALID_STATE", "Cannot modify journal entry in %s status", j.Status)
	}
	if accountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if debit.IsNegative() || credit.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit and credit cannot be negative")
	}
	if debit.IsPositive() == credit.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "A journal line must carry either a debit or a credit")
	}
	j.Items = append(j.Items, JournalEntryItem{
		ID:             uuid.New(),
		JournalEntryID: j.ID,
		AccountID:      accountID,
		Debit:          debit,
		Credit:         credit,
		Memo:           memo,
	})
	return nil
}

// TotalDebit sums the debit side
func (j *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, item := range j.Items {
		total = total.Add(item.Debit)
	}
	return total
}

// TotalCredit sums the credit side
func (j *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, item := range j.Items {
		total = total.Add(item.Credit)
	}
	return total
}

// IsBalanced reports whether debits and credits agree within tolerance
func (j *JournalEntry) IsBalanced() bool {
	return shared.AmountsBalance(j.TotalDebit(), j.TotalCredit())
}

// AccountIDs returns the distinct accounts referenced by the items, in line order
func (j *JournalEntry) AccountIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(j.Items))
	ids := make([]uuid.UUID, 0, len(j.Items))
	for _, item := range j.Items {
		if _, ok := seen[item.AccountID]; ok {
			continue
		}
		seen[item.AccountID] = struct{}{}
		ids = append(ids, item.AccountID)
	}
	return ids
}

// Approve moves a pending, balanced journal entry to approved
func (j *JournalEntry) Approve(approverID uuid.UUID, at time.Time) error {
	if err := checkTransition("Journal entry", j.Status, actionApprove); err != nil {
		return err
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}
	if len(j.Items) == 0 {
		return shared.NewDomainError("EMPTY_ENTRY", "Journal entry has no items")
	}
	if !j.IsBalanced() {
		return shared.Errorf("UNBALANCED_ENTRY",
			"Journal entry is unbalanced: debit %s, credit %s",
			j.TotalDebit().StringFixed(2), j.TotalCredit().StringFixed(2))
	}
	j.Status = ApprovalStatusApproved
	j.ApprovedBy = &approverID
	j.ApprovedAt = &at
	j.MarkChanged(at)
	j.RaiseEvent(NewJournalEntryApprovedEvent(j, at))
	return nil
}

// Reject moves a pending journal entry to rejected
func (j *JournalEntry) Reject(rejectorID uuid.UUID, reason string, at time.Time) error {
	if err := checkTransition("Journal entry", j.Status, actionReject); err != nil {
		return err
	}
	if rejectorID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Rejector user ID cannot be empty")
	}
	j.Status = ApprovalStatusRejected
	j.RejectedBy = &rejectorID
	j.RejectedAt = &at
	if reason = strings.TrimSpace(reason); reason != "" {
		j.Notes = appendNote(j.Notes, "Rejection reason: "+reason)
	}
	j.MarkChanged(at)
	return nil
}

// Cancel moves a pending journal entry to cancelled
func (j *JournalEntry) Cancel(cancellerID uuid.UUID, reason string, at time.Time) error {
	if err := checkTransition("Journal entry", j.Status, actionCancel); err != nil {
		return err
	}
	if cancellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Canceller user ID cannot be empty")
	}
	j.Status = ApprovalStatusCancelled
	j.CancelledBy = &cancellerID
	j.CancelledAt = &at
	if reason = strings.TrimSpace(reason); reason != "" {
		j.Notes = appendNote(j.Notes, "Cancellation reason: "+reason)
	}
	j.MarkChanged(at)
	return nil
}
