package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ApprovalWorkflow gates the pending -> approved|rejected|cancelled
// transitions of transactions and journal entries. Approval and the
// resulting balance recomputation commit together.
type ApprovalWorkflow struct {
	transactionRepo ledger.TransactionRepository
	journalRepo     ledger.JournalEntryRepository
	accountRepo     ledger.AccountRepository
	reconciler      *TransactionLedgerReconciler
	authorizer      shared.Authorizer
	txManager       shared.TxManager
	locker          shared.EntityLocker
	publisher       shared.EventPublisher
	clock           shared.Clock
	logger          *zap.Logger
	opts            options
}

// NewApprovalWorkflow creates a new ApprovalWorkflow
func NewApprovalWorkflow(
	transactionRepo ledger.TransactionRepository,
	journalRepo ledger.JournalEntryRepository,
	accountRepo ledger.AccountRepository,
	reconciler *TransactionLedgerReconciler,
	authorizer shared.Authorizer,
	txManager shared.TxManager,
	locker shared.EntityLocker,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
	opts ...Option,
) *ApprovalWorkflow {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalWorkflow{
		transactionRepo: transactionRepo,
		journalRepo:     journalRepo,
		accountRepo:     accountRepo,
		reconciler:      reconciler,
		authorizer:      authorizer,
		txManager:       txManager,
		locker:          locker,
		publisher:       publisher,
		clock:           clock,
		logger:          logger.Named("approval_workflow"),
		opts:            buildOptions(opts),
	}
}

const (
	kindTransaction  = "transaction"
	kindJournalEntry = "journal_entry"
)

// ApproveTransaction approves a pending transaction and recomputes the
// balance of every account it touches in the same transaction.
func (w *ApprovalWorkflow) ApproveTransaction(ctx context.Context, id, approverID uuid.UUID) (*shared.Result[*ledger.Transaction], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval_workflow", "approve_transaction")
	defer span.End()
	telemetry.SetAttributes(span, "transaction_id", id.String(), "actor_id", approverID.String())

	if denied, err := w.authorize(ctx, approverID, shared.CapabilityApproveTransactions, "approve transactions"); err != nil || denied != "" {
		return finish(ctx, w, span, kindTransaction, "approve", id, shared.Fail[*ledger.Transaction](denied), err)
	}

	existing, err := w.transactionRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.Fail[*ledger.Transaction]("Transaction not found"), nil
		}
		return nil, fmt.Errorf("load transaction %s: %w", id, err)
	}

	keys := []string{shared.LockKey(ledger.AggregateTypeTransaction, id.String())}
	for _, accountID := range existing.AccountIDs() {
		keys = append(keys, accountLockKey(accountID))
	}

	var (
		approved *ledger.Transaction
		accounts []*ledger.Account
		outcomes []*BalanceOutcome
		warnings []string
	)
	err = withUnit(ctx, w.locker, w.txManager, w.opts.retryAttempts, keys, func(ctx context.Context) error {
		approved, accounts, outcomes, warnings = nil, nil, nil, nil

		t, err := w.transactionRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if t.Status != ledger.ApprovalStatusPending {
			// Report the state error before looking at accounts.
			return t.Approve(approverID, w.clock.Now())
		}
		for _, accountID := range t.AccountIDs() {
			if err := w.requireActiveAccount(ctx, accountID); err != nil {
				return err
			}
		}
		if !t.Amount.IsPositive() {
			return shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be greater than zero")
		}
		warnings, err = w.duplicateWarnings(ctx, t)
		if err != nil {
			return err
		}
		if err := t.Approve(approverID, w.clock.Now()); err != nil {
			return err
		}
		if err := w.transactionRepo.SaveWithLock(ctx, t); err != nil {
			return err
		}
		for _, accountID := range t.AccountIDs() {
			outcome, account, err := w.reconciler.recomputeWithinUnit(ctx, accountID)
			if err != nil {
				return err
			}
			outcomes = append(outcomes, outcome)
			accounts = append(accounts, account)
		}
		approved = t
		return nil
	})

	result := shared.NewResult[*ledger.Transaction]()
	if err != nil {
		return finish(ctx, w, span, kindTransaction, "approve", id, result, err)
	}
	result.Warnings = append(result.Warnings, warnings...)
	result.Value = approved

	aggregates := []shared.AggregateRoot{approved}
	for i, account := range accounts {
		if outcomes[i].Corrected {
			w.opts.metrics.RecordBalanceCorrection(ctx, string(account.AccountType))
		}
		aggregates = append(aggregates, account)
	}
	publishEvents(ctx, w.publisher, w.logger, aggregates...)
	w.logger.Info("transaction approved",
		zap.String("transaction_id", id.String()),
		zap.String("approver_id", approverID.String()),
		zap.Int("warnings", len(warnings)),
	)
	return finish(ctx, w, span, kindTransaction, "approve", id, result, nil)
}

// RejectTransaction rejects a pending transaction, appending reason to its notes
func (w *ApprovalWorkflow) RejectTransaction(ctx context.Context, id, rejectorID uuid.UUID, reason string) (*shared.Result[*ledger.Transaction], error) {
	return w.closeTransaction(ctx, "reject", id, rejectorID, func(t *ledger.Transaction) error {
		return t.Reject(rejectorID, reason, w.clock.Now())
	})
}

// CancelTransaction cancels a pending transaction
func (w *ApprovalWorkflow) CancelTransaction(ctx context.Context, id, cancellerID uuid.UUID, reason string) (*shared.Result[*ledger.Transaction], error) {
	return w.closeTransaction(ctx, "cancel", id, cancellerID, func(t *ledger.Transaction) error {
		return t.Cancel(cancellerID, reason, w.clock.Now())
	})
}

// closeTransaction applies a non-approving transition. Neither reject nor
// cancel affects balances, so no recompute is needed.
func (w *ApprovalWorkflow) closeTransaction(
	ctx context.Context,
	action string,
	id, actorID uuid.UUID,
	transition func(*ledger.Transaction) error,
) (*shared.Result[*ledger.Transaction], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval_workflow", action+"_transaction")
	defer span.End()
	telemetry.SetAttributes(span, "transaction_id", id.String(), "actor_id", actorID.String())

	if denied, err := w.authorize(ctx, actorID, shared.CapabilityApproveTransactions, action+" transactions"); err != nil || denied != "" {
		return finish(ctx, w, span, kindTransaction, action, id, shared.Fail[*ledger.Transaction](denied), err)
	}

	var closed *ledger.Transaction
	err := withUnit(ctx, w.locker, w.txManager, w.opts.retryAttempts,
		[]string{shared.LockKey(ledger.AggregateTypeTransaction, id.String())},
		func(ctx context.Context) error {
			t, err := w.transactionRepo.FindByID(ctx, id)
			if err != nil {
				if shared.IsNotFound(err) {
					return shared.NewDomainError("NOT_FOUND", "Transaction not found")
				}
				return err
			}
			if err := transition(t); err != nil {
				return err
			}
			if err := w.transactionRepo.SaveWithLock(ctx, t); err != nil {
				return err
			}
			closed = t
			return nil
		})

	result := shared.NewResult[*ledger.Transaction]()
	if err == nil {
		result.Value = closed
		publishEvents(ctx, w.publisher, w.logger, closed)
		w.logger.Info("transaction "+action+"ed",
			zap.String("transaction_id", id.String()),
			zap.String("actor_id", actorID.String()),
		)
	}
	return finish(ctx, w, span, kindTransaction, action, id, result, err)
}

// ApproveJournalEntry approves a pending, balanced journal entry and
// recomputes every referenced account in the same transaction.
func (w *ApprovalWorkflow) ApproveJournalEntry(ctx context.Context, id, approverID uuid.UUID) (*shared.Result[*ledger.JournalEntry], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval_workflow", "approve_journal_entry")
	defer span.End()
	telemetry.SetAttributes(span, "journal_entry_id", id.String(), "actor_id", approverID.String())

	if denied, err := w.authorize(ctx, approverID, shared.CapabilityApproveJournalEntries, "approve journal entries"); err != nil || denied != "" {
		return finish(ctx, w, span, kindJournalEntry, "approve", id, shared.Fail[*ledger.JournalEntry](denied), err)
	}

	existing, err := w.journalRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.Fail[*ledger.JournalEntry]("Journal entry not found"), nil
		}
		return nil, fmt.Errorf("load journal entry %s: %w", id, err)
	}

	keys := []string{shared.LockKey(ledger.AggregateTypeJournalEntry, id.String())}
	for _, accountID := range existing.AccountIDs() {
		keys = append(keys, accountLockKey(accountID))
	}

	var (
		approved *ledger.JournalEntry
		accounts []*ledger.Account
		outcomes []*BalanceOutcome
	)
	err = withUnit(ctx, w.locker, w.txManager, w.opts.retryAttempts, keys, func(ctx context.Context) error {
		approved, accounts, outcomes = nil, nil, nil

		entry, err := w.journalRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entry.Status == ledger.ApprovalStatusPending {
			for _, accountID := range entry.AccountIDs() {
				if err := w.requireActiveAccount(ctx, accountID); err != nil {
					return err
				}
			}
		}
		if err := entry.Approve(approverID, w.clock.Now()); err != nil {
			return err
		}
		if err := w.journalRepo.SaveWithLock(ctx, entry); err != nil {
			return err
		}
		for _, accountID := range entry.AccountIDs() {
			outcome, account, err := w.reconciler.recomputeWithinUnit(ctx, accountID)
			if err != nil {
				return err
			}
			outcomes = append(outcomes, outcome)
			accounts = append(accounts, account)
		}
		approved = entry
		return nil
	})

	result := shared.NewResult[*ledger.JournalEntry]()
	if err == nil {
		result.Value = approved
		aggregates := []shared.AggregateRoot{approved}
		for i, account := range accounts {
			if outcomes[i].Corrected {
				w.opts.metrics.RecordBalanceCorrection(ctx, string(account.AccountType))
			}
			aggregates = append(aggregates, account)
		}
		publishEvents(ctx, w.publisher, w.logger, aggregates...)
		w.logger.Info("journal entry approved",
			zap.String("journal_entry_id", id.String()),
			zap.Int("accounts", len(accounts)),
		)
	}
	return finish(ctx, w, span, kindJournalEntry, "approve", id, result, err)
}

// RejectJournalEntry rejects a pending journal entry
func (w *ApprovalWorkflow) RejectJournalEntry(ctx context.Context, id, rejectorID uuid.UUID, reason string) (*shared.Result[*ledger.JournalEntry], error) {
	return w.closeJournalEntry(ctx, "reject", id, rejectorID, func(j *ledger.JournalEntry) error {
		return j.Reject(rejectorID, reason, w.clock.Now())
	})
}

// CancelJournalEntry cancels a pending journal entry
func (w *ApprovalWorkflow) CancelJournalEntry(ctx context.Context, id, cancellerID uuid.UUID, reason string) (*shared.Result[*ledger.JournalEntry], error) {
	return w.closeJournalEntry(ctx, "cancel", id, cancellerID, func(j *ledger.JournalEntry) error {
		return j.Cancel(cancellerID, reason, w.clock.Now())
	})
}

func (w *ApprovalWorkflow) closeJournalEntry(
	ctx context.Context,
	action string,
	id, actorID uuid.UUID,
	transition func(*ledger.JournalEntry) error,
) (*shared.Result[*ledger.JournalEntry], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval_workflow", action+"_journal_entry")
	defer span.End()

	if denied, err := w.authorize(ctx, actorID, shared.CapabilityApproveJournalEntries, action+" journal entries"); err != nil || denied != "" {
		return finish(ctx, w, span, kindJournalEntry, action, id, shared.Fail[*ledger.JournalEntry](denied), err)
	}

	var closed *ledger.JournalEntry
	err := withUnit(ctx, w.locker, w.txManager, w.opts.retryAttempts,
		[]string{shared.LockKey(ledger.AggregateTypeJournalEntry, id.String())},
		func(ctx context.Context) error {
			entry, err := w.journalRepo.FindByID(ctx, id)
			if err != nil {
				if shared.IsNotFound(err) {
					return shared.NewDomainError("NOT_FOUND", "Journal entry not found")
				}
				return err
			}
			if err := transition(entry); err != nil {
				return err
			}
			if err := w.journalRepo.SaveWithLock(ctx, entry); err != nil {
				return err
			}
			closed = entry
			return nil
		})

	result := shared.NewResult[*ledger.JournalEntry]()
	if err == nil {
		result.Value = closed
	}
	return finish(ctx, w, span, kindJournalEntry, action, id, result, err)
}

// authorize returns a denial message when the actor lacks capability, or
// an error when the authorization collaborator itself failed.
func (w *ApprovalWorkflow) authorize(ctx context.Context, actorID uuid.UUID, capability shared.Capability, what string) (string, error) {
	allowed, err := w.authorizer.Can(ctx, actorID.String(), capability)
	if err != nil {
		return "", fmt.Errorf("authorize %s: %w", capability, err)
	}
	if !allowed {
		w.logger.Warn("approval denied",
			zap.String("actor_id", actorID.String()),
			zap.String("capability", string(capability)),
		)
		return fmt.Sprintf("User %s is not authorized to %s", actorID, what), nil
	}
	return "", nil
}

func (w *ApprovalWorkflow) requireActiveAccount(ctx context.Context, accountID uuid.UUID) error {
	account, err := w.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.Errorf("ACCOUNT_NOT_FOUND", "Account %s not found", accountID)
		}
		return err
	}
	if !account.IsActive {
		return shared.Errorf("ACCOUNT_INACTIVE", "Account %s (%s) is inactive", account.Code, account.ID)
	}
	return nil
}

// duplicateWarnings flags approved transactions that look identical to t.
// Duplicates never block approval.
func (w *ApprovalWorkflow) duplicateWarnings(ctx context.Context, t *ledger.Transaction) ([]string, error) {
	approved, err := w.transactionRepo.FindApprovedByAccount(ctx, t.AccountID)
	if err != nil {
		return nil, err
	}
	var warnings []string
	for i := range approved {
		if t.IsDuplicateOf(&approved[i]) {
			warnings = append(warnings, fmt.Sprintf(
				"Possible duplicate: approved transaction %s has the same account, amount, date and description",
				approved[i].ID))
		}
	}
	return warnings, nil
}

// finish maps the unit's error onto the result and records the outcome.
// Domain errors become result errors; everything else is returned.
func finish[T any](
	ctx context.Context,
	w *ApprovalWorkflow,
	span trace.Span,
	kind, action string,
	id uuid.UUID,
	result *shared.Result[T],
	err error,
) (*shared.Result[T], error) {
	if msg, ok := shared.RuleViolation(err); ok {
		result.AddError(msg)
		err = nil
	}

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
		telemetry.RecordError(span, err)
		w.logger.Error("approval workflow failed",
			zap.String("kind", kind),
			zap.String("action", action),
			zap.String("id", id.String()),
			zap.Error(err),
		)
		result = nil
	case !result.Success():
		outcome = "refused"
		telemetry.SetAttributes(span, "refusal", result.Errors[0])
	}
	w.opts.metrics.RecordApproval(ctx, kind, action, outcome)
	return result, err
}
