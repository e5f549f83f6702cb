package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// AccountRepository defines persistence operations for accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// List returns one page of accounts matching the filter
	List(ctx context.Context, filter shared.Filter) (shared.Page[Account], error)
	// FindAllAccounts returns every account regardless of status, for audits
	FindAllAccounts(ctx context.Context) ([]Account, error)
	Save(ctx context.Context, account *Account) error
	SaveWithLock(ctx context.Context, account *Account) error
}

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// FindApprovedByAccount returns approved transactions where the account
	// is either side
	FindApprovedByAccount(ctx context.Context, accountID uuid.UUID) ([]Transaction, error)
	FindByStatus(ctx context.Context, status ApprovalStatus) ([]Transaction, error)
	FindAllTransactions(ctx context.Context) ([]Transaction, error)
	Save(ctx context.Context, transaction *Transaction) error
	SaveWithLock(ctx context.Context, transaction *Transaction) error
}

// JournalEntryRepository defines persistence operations for journal entries
type JournalEntryRepository interface {
	// FindByID loads the entry with its items
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)
	// FindApprovedItemsByAccount returns lines of approved entries posted to the account
	FindApprovedItemsByAccount(ctx context.Context, accountID uuid.UUID) ([]JournalEntryItem, error)
	Save(ctx context.Context, entry *JournalEntry) error
	SaveWithLock(ctx context.Context, entry *JournalEntry) error
}
