package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of ledger.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context, filter shared.Filter) (shared.Page[ledger.Account], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Page[ledger.Account]), args.Error(1)
}

func (m *MockAccountRepository) FindAllAccounts(ctx context.Context) ([]ledger.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *ledger.Account) error {
	return m.Called(ctx, account).Error(0)
}

// MockTransactionRepository is a mock implementation of ledger.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindApprovedByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByStatus(ctx context.Context, status ledger.ApprovalStatus) ([]ledger.Transaction, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransactionRepository) SaveWithLock(ctx context.Context, t *ledger.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

// MockJournalEntryRepository is a mock implementation of ledger.JournalEntryRepository
type MockJournalEntryRepository struct {
	mock.Mock
}

func (m *MockJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindApprovedItemsByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.JournalEntryItem, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.JournalEntryItem), args.Error(1)
}

func (m *MockJournalEntryRepository) Save(ctx context.Context, entry *ledger.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockJournalEntryRepository) SaveWithLock(ctx context.Context, entry *ledger.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// MockAuthorizer is a mock implementation of shared.Authorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Can(ctx context.Context, actorID string, capability shared.Capability) (bool, error) {
	args := m.Called(ctx, actorID, capability)
	return args.Bool(0), args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// exclusiveLocker fails when a key is acquired twice without release
type exclusiveLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *exclusiveLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	if l.held[key] {
		return nil, shared.ErrLockNotAcquired
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, nil
}

type countingMetrics struct {
	corrections int
	approvals   map[string]int
}

func (m *countingMetrics) RecordBalanceCorrection(context.Context, string) { m.corrections++ }

func (m *countingMetrics) RecordApproval(_ context.Context, kind, action, outcome string) {
	if m.approvals == nil {
		m.approvals = make(map[string]int)
	}
	m.approvals[kind+"."+action+"."+outcome]++
}
