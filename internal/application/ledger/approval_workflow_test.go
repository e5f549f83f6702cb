package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApproveTransaction_ApprovesOnceThenRefuses(t *testing.T) {
	f := newLedgerFixture()
	approver := uuid.New()
	account := newAccount(t, "1000", 1000, 1000)
	tx := newTransaction(t, account.ID, ledger.TransactionTypeIncome, 500, ledger.ApprovalStatusPending)

	f.authorizer.On("Can", mock.Anything, approver.String(), shared.CapabilityApproveTransactions).Return(true, nil)
	f.transactions.On("FindByID", mock.Anything, tx.ID).Return(tx, nil)
	f.accounts.On("FindByID", mock.Anything, account.ID).Return(account, nil)
	f.transactions.On("FindApprovedByAccount", mock.Anything, account.ID).Return([]ledger.Transaction{}, nil).Once()
	f.transactions.On("SaveWithLock", mock.Anything, tx).Return(nil).Once()
	approvedCopy := *tx
	approvedCopy.Status = ledger.ApprovalStatusApproved
	f.transactions.On("FindApprovedByAccount", mock.Anything, account.ID).Return([]ledger.Transaction{approvedCopy}, nil).Once()
	f.journals.On("FindApprovedItemsByAccount", mock.Anything, account.ID).Return([]ledger.JournalEntryItem{}, nil)
	f.accounts.On("SaveWithLock", mock.Anything, account).Return(nil).Once()

	result, err := f.workflow.ApproveTransaction(context.Background(), tx.ID, approver)
	require.NoError(t, err)
	require.True(t, result.Success(), "errors: %v", result.Errors)
	assert.Equal(t, ledger.ApprovalStatusApproved, tx.Status)
	assert.Equal(t, approver, *tx.ApprovedBy)
	assert.True(t, account.CurrentBalance.Equal(decimal.NewFromInt(1500)))

	version := tx.Version
	second, err := f.workflow.ApproveTransaction(context.Background(), tx.ID, approver)
	require.NoError(t, err)
	require.False(t, second.Success())
	assert.Contains(t, second.Errors[0], "already approved")
	assert.Equal(t, version, tx.Version)
	f.transactions.AssertNumberOfCalls(t, "SaveWithLock", 1)
	assert.Equal(t, 1, f.metrics.approvals["transaction.approve.success"])
	assert.Equal(t, 1, f.metrics.approvals["transaction.approve.refused"])
}

func TestApproveTransaction_RequiresCapability(t *testing.T) {
	f := newLedgerFixture()
	actor := uuid.New()
	f.authorizer.On("Can", mock.Anything, actor.String(), shared.CapabilityApproveTransactions).Return(false, nil)

	result, err := f.workflow.ApproveTransaction(context.Background(), uuid.New(), actor)
	require.NoError(t, err)
	require.False(t, result.Success())
	assert.Contains(t, result.Errors[0], "not authorized")
	f.transactions.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestApproveTransaction_RefusesInactiveAccount(t *testing.T) {
	f := newLedgerFixture()
	approver := uuid.New()
	account := newAccount(t, "1000", 0, 0)
	account.IsActive = false
	tx := newTransaction(t, account.ID, ledger.TransactionTypeExpense, 20, ledger.ApprovalStatusPending)

	f.authorizer.On("Can", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.transactions.On("FindByID", mock.Anything, tx.ID).Return(tx, nil)
	f.accounts.On("FindByID", mock.Anything, account.ID).Return(account, nil)

	result, err := f.workflow.ApproveTransaction(context.Background(), tx.ID, approver)
	require.NoError(t, err)
	require.False(t, result.Success())
	assert.Contains(t, result.Errors[0], "inactive")
	assert.Equal(t, ledger.ApprovalStatusPending, tx.Status)
	f.transactions.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestApproveTransaction_WarnsOnDuplicate(t *testing.T) {
	f := newLedgerFixture()
	approver := uuid.New()
	account := newAccount(t, "1000", 0, 0)
	earlier := newTransaction(t, account.ID, ledger.TransactionTypeIncome, 80, ledger.ApprovalStatusApproved)
	tx := newTransaction(t, account.ID, ledger.TransactionTypeIncome, 80, ledger.ApprovalStatusPending)

	f.authorizer.On("Can", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.transactions.On("FindByID", mock.Anything, tx.ID).Return(tx, nil)
	f.accounts.On("FindByID", mock.Anything, account.ID).Return(account, nil)
	f.transactions.On("FindApprovedByAccount", mock.Anything, account.ID).Return([]ledger.Transaction{*earlier}, nil)
	f.transactions.On("SaveWithLock", mock.Anything, tx).Return(nil)
	f.journals.On("FindApprovedItemsByAccount", mock.Anything, account.ID).Return([]ledger.JournalEntryItem{}, nil)
	f.accounts.On("SaveWithLock", mock.Anything, account).Return(nil)

	result, err := f.workflow.ApproveTransaction(context.Background(), tx.ID, approver)
	require.NoError(t, err)
	require.True(t, result.Success())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], earlier.ID.String())
	assert.Equal(t, ledger.ApprovalStatusApproved, tx.Status)
}

func TestRejectAndCancelTransaction(t *testing.T) {
	actor := uuid.New()

	t.Run("reject pending appends reason", func(t *testing.T) {
		f := newLedgerFixture()
		tx := newTransaction(t, uuid.New(), ledger.TransactionTypeExpense, 10, ledger.ApprovalStatusPending)
		f.authorizer.On("Can", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		f.transactions.On("FindByID", mock.Anything, tx.ID).Return(tx, nil)
		f.transactions.On("SaveWithLock", mock.Anything, tx).Return(nil)

		result, err := f.workflow.RejectTransaction(context.Background(), tx.ID, actor, "missing receipt")
		require.NoError(t, err)
		require.True(t, result.Success())
		assert.Equal(t, ledger.ApprovalStatusRejected, tx.Status)
		assert.Contains(t, tx.Notes, "missing receipt")
	})

	tests := []struct {
		name   string
		status ledger.ApprovalStatus
		run    func(f *ledgerFixture, id uuid.UUID) (*shared.Result[*ledger.Transaction], error)
		want   string
	}{
		{"reject approved", ledger.ApprovalStatusApproved, func(f *ledgerFixture, id uuid.UUID) (*shared.Result[*ledger.Transaction], error) {
			return f.workflow.RejectTransaction(context.Background(), id, actor, "")
		}, "Cannot reject an approved transaction"},
		{"reject cancelled", ledger.ApprovalStatusCancelled, func(f *ledgerFixture, id uuid.UUID) (*shared.Result[*ledger.Transaction], error) {
			return f.workflow.RejectTransaction(context.Background(), id, actor, "")
		}, "already cancelled"},
		{"cancel approved", ledger.ApprovalStatusApproved, func(f *ledgerFixture, id uuid.UUID) (*shared.Result[*ledger.Transaction], error) {
			return f.workflow.CancelTransaction(context.Background(), id, actor, "")
		}, "Cannot cancel an approved transaction"},
		{"cancel rejected", ledger.ApprovalStatusRejected, func(f *ledgerFixture, id uuid.UUID) (*shared.Result[*ledger.Transaction], error) {
			return f.workflow.CancelTransaction(context.Background(), id, actor, "")
		}, "already rejected"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newLedgerFixture()
			tx := newTransaction(t, uuid.New(), ledger.TransactionTypeIncome, 10, tc.status)
			f.authorizer.On("Can", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
			f.transactions.On("FindByID", mock.Anything, tx.ID).Return(tx, nil)

			result, err := tc.run(f, tx.ID)
			require.NoError(t, err)
			require.False(t, result.Success())
			assert.Contains(t, result.Errors[0], tc.want)
			assert.Equal(t, tc.status, tx.Status)
			f.transactions.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		})
	}
}

func newEntry(t *testing.T, debitAccount, creditAccount uuid.UUID, debit, credit string) *ledger.JournalEntry {
	t.Helper()
	entry, err := ledger.NewJournalEntry("JE-100", now, "Accrual", now)
	require.NoError(t, err)
	require.NoError(t, entry.AddItem(debitAccount, decimal.RequireFromString(debit), decimal.Zero, ""))
	require.NoError(t, entry.AddItem(creditAccount, decimal.Zero, decimal.RequireFromString(credit), ""))
	return entry
}

func TestApproveJournalEntry(t *testing.T) {
	approver := uuid.New()

	t.Run("unbalanced by one cent is refused", func(t *testing.T) {
		f := newLedgerFixture()
		cash := newAccount(t, "1000", 0, 0)
		revenue := newAccount(t, "4000", 0, 0)
		entry := newEntry(t, cash.ID, revenue.ID, "100.00", "99.99")

		f.authorizer.On("Can", mock.Anything, approver.String(), shared.CapabilityApproveJournalEntries).Return(true, nil)
		f.journals.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
		f.accounts.On("FindByID", mock.Anything, cash.ID).Return(cash, nil)
		f.accounts.On("FindByID", mock.Anything, revenue.ID).Return(revenue, nil)

		result, err := f.workflow.ApproveJournalEntry(context.Background(), entry.ID, approver)
		require.NoError(t, err)
		require.False(t, result.Success())
		assert.Contains(t, result.Errors[0], "unbalanced")
		assert.Equal(t, ledger.ApprovalStatusPending, entry.Status)
		f.journals.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("sub-cent difference is approved and cascades to accounts", func(t *testing.T) {
		f := newLedgerFixture()
		cash := newAccount(t, "1000", 0, 0)
		revenue := newAccount(t, "4000", 0, 0)
		entry := newEntry(t, cash.ID, revenue.ID, "100.00", "100.004")

		f.authorizer.On("Can", mock.Anything, approver.String(), shared.CapabilityApproveJournalEntries).Return(true, nil)
		f.journals.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
		f.accounts.On("FindByID", mock.Anything, cash.ID).Return(cash, nil)
		f.accounts.On("FindByID", mock.Anything, revenue.ID).Return(revenue, nil)
		f.journals.On("SaveWithLock", mock.Anything, entry).Return(nil)
		f.transactions.On("FindApprovedByAccount", mock.Anything, mock.Anything).Return([]ledger.Transaction{}, nil)
		f.journals.On("FindApprovedItemsByAccount", mock.Anything, cash.ID).Return([]ledger.JournalEntryItem{entry.Items[0]}, nil)
		f.journals.On("FindApprovedItemsByAccount", mock.Anything, revenue.ID).Return([]ledger.JournalEntryItem{entry.Items[1]}, nil)
		f.accounts.On("SaveWithLock", mock.Anything, cash).Return(nil)
		f.accounts.On("SaveWithLock", mock.Anything, revenue).Return(nil)

		result, err := f.workflow.ApproveJournalEntry(context.Background(), entry.ID, approver)
		require.NoError(t, err)
		require.True(t, result.Success(), "errors: %v", result.Errors)
		assert.Equal(t, ledger.ApprovalStatusApproved, entry.Status)
		assert.True(t, cash.CurrentBalance.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, revenue.CurrentBalance.Equal(decimal.RequireFromString("-100.004")))
		assert.Equal(t, 2, f.metrics.corrections)
	})
}
