package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	AggregateModel
	// Code is indexed but not unique: duplicate codes are reported by the audit
	Code           string             `gorm:"type:varchar(50);not null;index"`
	Name           string             `gorm:"type:varchar(200);not null"`
	AccountType    ledger.AccountType `gorm:"type:varchar(20);not null"`
	OpeningBalance decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	CurrentBalance decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	IsActive       bool               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		BaseAggregateRoot: m.Root(),
		Code:              m.Code,
		Name:              m.Name,
		AccountType:       m.AccountType,
		OpeningBalance:    m.OpeningBalance,
		CurrentBalance:    m.CurrentBalance,
		IsActive:          m.IsActive,
	}
}

// AccountModelFromDomain creates a persistence model from a domain Account entity.
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{
		Code:           a.Code,
		Name:           a.Name,
		AccountType:    a.AccountType,
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		IsActive:       a.IsActive,
	}
	m.AggregateModel = AggregateModelFrom(a.BaseAggregateRoot)
	return m
}

// ApprovalColumns holds the approval audit columns shared by transactions
// and journal entries.
type ApprovalColumns struct {
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt  *time.Time
	RejectedBy  *uuid.UUID `gorm:"type:uuid"`
	RejectedAt  *time.Time
	CancelledBy *uuid.UUID `gorm:"type:uuid"`
	CancelledAt *time.Time
}

func (c ApprovalColumns) toDomain() ledger.Approval {
	return ledger.Approval{
		ApprovedBy:  c.ApprovedBy,
		ApprovedAt:  c.ApprovedAt,
		RejectedBy:  c.RejectedBy,
		RejectedAt:  c.RejectedAt,
		CancelledBy: c.CancelledBy,
		CancelledAt: c.CancelledAt,
	}
}

func approvalColumnsFromDomain(a ledger.Approval) ApprovalColumns {
	return ApprovalColumns{
		ApprovedBy:  a.ApprovedBy,
		ApprovedAt:  UTCPtr(a.ApprovedAt),
		RejectedBy:  a.RejectedBy,
		RejectedAt:  UTCPtr(a.RejectedAt),
		CancelledBy: a.CancelledBy,
		CancelledAt: UTCPtr(a.CancelledAt),
	}
}

// TransactionModel is the persistence model for the Transaction aggregate root.
type TransactionModel struct {
	AggregateModel
	ApprovalColumns `gorm:"embedded"`
	AccountID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_txn_account_status"`
	ToAccountID     *uuid.UUID             `gorm:"type:uuid;index"`
	Type            ledger.TransactionType `gorm:"column:transaction_type;type:varchar(20);not null"`
	Amount          decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	TransactionDate time.Time              `gorm:"not null;index"`
	Description     string                 `gorm:"type:text"`
	Reference       string                 `gorm:"type:varchar(100)"`
	Status          ledger.ApprovalStatus  `gorm:"type:varchar(20);not null;index:idx_txn_account_status"`
	Notes           string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BaseAggregateRoot: m.Root(),
		Approval:          m.ApprovalColumns.toDomain(),
		AccountID:         m.AccountID,
		ToAccountID:       m.ToAccountID,
		Type:              m.Type,
		Amount:            m.Amount,
		TransactionDate:   m.TransactionDate,
		Description:       m.Description,
		Reference:         m.Reference,
		Status:            m.Status,
		Notes:             m.Notes,
	}
}

// TransactionModelFromDomain creates a persistence model from a domain Transaction entity.
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{
		ApprovalColumns: approvalColumnsFromDomain(t.Approval),
		AccountID:       t.AccountID,
		ToAccountID:     t.ToAccountID,
		Type:            t.Type,
		Amount:          t.Amount,
		TransactionDate: UTC(t.TransactionDate),
		Description:     t.Description,
		Reference:       t.Reference,
		Status:          t.Status,
		Notes:           t.Notes,
	}
	m.AggregateModel = AggregateModelFrom(t.BaseAggregateRoot)
	return m
}

// JournalEntryModel is the persistence model for the JournalEntry aggregate root.
type JournalEntryModel struct {
	AggregateModel
	ApprovalColumns `gorm:"embedded"`
	EntryNumber     string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	EntryDate       time.Time               `gorm:"not null"`
	Description     string                  `gorm:"type:text"`
	Status          ledger.ApprovalStatus   `gorm:"type:varchar(20);not null;index"`
	Notes           string                  `gorm:"type:text"`
	Items           []JournalEntryItemModel `gorm:"foreignKey:JournalEntryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// JournalEntryItemModel is one debit/credit line of a journal entry.
type JournalEntryItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Memo           string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (JournalEntryItemModel) TableName() string {
	return "journal_entry_items"
}

// ToDomain converts the item row to a domain JournalEntryItem.
func (m *JournalEntryItemModel) ToDomain() ledger.JournalEntryItem {
	return ledger.JournalEntryItem{
		ID:             m.ID,
		JournalEntryID: m.JournalEntryID,
		AccountID:      m.AccountID,
		Debit:          m.Debit,
		Credit:         m.Credit,
		Memo:           m.Memo,
	}
}

// ToDomain converts the persistence model to a domain JournalEntry with its items.
func (m *JournalEntryModel) ToDomain() *ledger.JournalEntry {
	items := make([]ledger.JournalEntryItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &ledger.JournalEntry{
		BaseAggregateRoot: m.Root(),
		Approval:          m.ApprovalColumns.toDomain(),
		EntryNumber:       m.EntryNumber,
		EntryDate:         m.EntryDate,
		Description:       m.Description,
		Status:            m.Status,
		Notes:             m.Notes,
		Items:             items,
	}
}

// JournalEntryModelFromDomain creates a persistence model from a domain JournalEntry.
func JournalEntryModelFromDomain(e *ledger.JournalEntry) *JournalEntryModel {
	items := make([]JournalEntryItemModel, len(e.Items))
	for i, it := range e.Items {
		id := it.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		items[i] = JournalEntryItemModel{
			ID:             id,
			JournalEntryID: e.ID,
			AccountID:      it.AccountID,
			Debit:          it.Debit,
			Credit:         it.Credit,
			Memo:           it.Memo,
		}
	}
	m := &JournalEntryModel{
		ApprovalColumns: approvalColumnsFromDomain(e.Approval),
		EntryNumber:     e.EntryNumber,
		EntryDate:       UTC(e.EntryDate),
		Description:     e.Description,
		Status:          e.Status,
		Notes:           e.Notes,
		Items:           items,
	}
	m.AggregateModel = AggregateModelFrom(e.BaseAggregateRoot)
	return m
}
