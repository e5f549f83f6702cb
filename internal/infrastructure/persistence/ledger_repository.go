package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// List returns one page of accounts. Equals may filter on account_type and is_active.
func (r *GormAccountRepository) List(ctx context.Context, filter shared.Filter) (shared.Page[ledger.Account], error) {
	return listPage(ctx, r.db, filter, AccountSortFields, accountsToDomain)
}

// FindAllAccounts returns every account ordered by code
func (r *GormAccountRepository) FindAllAccounts(ctx context.Context) ([]ledger.Account, error) {
	var rows []models.AccountModel
	if err := conn(ctx, r.db).Order("code").Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return accountsToDomain(rows), nil
}

// Save creates or updates an account without a version check
func (r *GormAccountRepository) Save(ctx context.Context, a *ledger.Account) error {
	return conn(ctx, r.db).Save(models.AccountModelFromDomain(a)).Error
}

// SaveWithLock saves the account with optimistic locking
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, a *ledger.Account) error {
	return saveWithLock(ctx, r.db, models.AccountModelFromDomain(a))
}

func accountsToDomain(rows []models.AccountModel) []ledger.Account {
	out := make([]ledger.Account, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindApprovedByAccount returns approved transactions touching the account on either side
func (r *GormTransactionRepository) FindApprovedByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Transaction, error) {
	return r.find(conn(ctx, r.db).
		Where("status = ? AND (account_id = ? OR to_account_id = ?)", ledger.ApprovalStatusApproved, accountID, accountID))
}

// FindByStatus returns transactions in the given status
func (r *GormTransactionRepository) FindByStatus(ctx context.Context, status ledger.ApprovalStatus) ([]ledger.Transaction, error) {
	return r.find(conn(ctx, r.db).Where("status = ?", status))
}

// FindAllTransactions returns every transaction
func (r *GormTransactionRepository) FindAllTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	return r.find(conn(ctx, r.db))
}

// Save creates or updates a transaction without a version check
func (r *GormTransactionRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	return conn(ctx, r.db).Save(models.TransactionModelFromDomain(t)).Error
}

// SaveWithLock saves the transaction with optimistic locking
func (r *GormTransactionRepository) SaveWithLock(ctx context.Context, t *ledger.Transaction) error {
	return saveWithLock(ctx, r.db, models.TransactionModelFromDomain(t))
}

func (r *GormTransactionRepository) find(query *gorm.DB) ([]ledger.Transaction, error) {
	var rows []models.TransactionModel
	if err := query.Order("transaction_date").Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.Transaction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// GormJournalEntryRepository implements ledger.JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByID loads the entry with its items
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := conn(ctx, r.db).Preload("Items").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindApprovedItemsByAccount returns lines of approved entries posted to the account
func (r *GormJournalEntryRepository) FindApprovedItemsByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.JournalEntryItem, error) {
	var rows []models.JournalEntryItemModel
	err := conn(ctx, r.db).
		Joins("JOIN journal_entries ON journal_entries.id = journal_entry_items.journal_entry_id").
		Where("journal_entry_items.account_id = ? AND journal_entries.status = ?", accountID, ledger.ApprovalStatusApproved).
		Order("journal_entries.entry_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ledger.JournalEntryItem, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an entry and its items without a version check
func (r *GormJournalEntryRepository) Save(ctx context.Context, e *ledger.JournalEntry) error {
	return conn(ctx, r.db).Save(models.JournalEntryModelFromDomain(e)).Error
}

// SaveWithLock saves the entry header with optimistic locking. Items are
// written only when the entry is first created.
func (r *GormJournalEntryRepository) SaveWithLock(ctx context.Context, e *ledger.JournalEntry) error {
	return saveWithLock(ctx, r.db, models.JournalEntryModelFromDomain(e), "Items")
}
