package ledger

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Option configures the ledger services
type Option func(*options)

type options struct {
	retryAttempts int
	metrics       Metrics
}

// WithRetryAttempts bounds retries after a lost optimistic-lock race
func WithRetryAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.retryAttempts = n
		}
	}
}

// WithMetrics attaches a metrics sink
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{retryAttempts: shared.DefaultRetryAttempts, metrics: nopMetrics{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TransactionLedgerReconciler derives account balances from approved
// transactions and journal postings and detects ledger anomalies.
type TransactionLedgerReconciler struct {
	accountRepo     ledger.AccountRepository
	transactionRepo ledger.TransactionRepository
	journalRepo     ledger.JournalEntryRepository
	txManager       shared.TxManager
	locker          shared.EntityLocker
	publisher       shared.EventPublisher
	clock           shared.Clock
	logger          *zap.Logger
	opts            options
}

// NewTransactionLedgerReconciler creates a new TransactionLedgerReconciler
func NewTransactionLedgerReconciler(
	accountRepo ledger.AccountRepository,
	transactionRepo ledger.TransactionRepository,
	journalRepo ledger.JournalEntryRepository,
	txManager shared.TxManager,
	locker shared.EntityLocker,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
	opts ...Option,
) *TransactionLedgerReconciler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionLedgerReconciler{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		journalRepo:     journalRepo,
		txManager:       txManager,
		locker:          locker,
		publisher:       publisher,
		clock:           clock,
		logger:          logger.Named("ledger_reconciler"),
		opts:            buildOptions(opts),
	}
}

// ComputeBalance derives the balance of account from the store:
// opening balance, plus the signed sum of approved transactions, plus
// debit-minus-credit of approved journal lines.
func (r *TransactionLedgerReconciler) ComputeBalance(ctx context.Context, account *ledger.Account) (decimal.Decimal, error) {
	balance := account.OpeningBalance

	transactions, err := r.transactionRepo.FindApprovedByAccount(ctx, account.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load approved transactions for account %s: %w", account.ID, err)
	}
	for i := range transactions {
		balance = balance.Add(transactions[i].SignedAmountFor(account.ID))
	}

	if r.journalRepo != nil {
		items, err := r.journalRepo.FindApprovedItemsByAccount(ctx, account.ID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("load journal postings for account %s: %w", account.ID, err)
		}
		for _, item := range items {
			balance = balance.Add(item.Net())
		}
	}
	return balance, nil
}

// PreviewBalance computes the balance without writing anything
func (r *TransactionLedgerReconciler) PreviewBalance(ctx context.Context, account *ledger.Account) (*BalanceOutcome, error) {
	recomputed, err := r.ComputeBalance(ctx, account)
	if err != nil {
		return nil, err
	}
	return &BalanceOutcome{
		AccountID:   account.ID,
		AccountCode: account.Code,
		Previous:    account.CurrentBalance,
		Recomputed:  recomputed,
		Drifted:     shared.AmountsDiffer(account.CurrentBalance, recomputed),
	}, nil
}

// ListAccounts returns one page of accounts with their recomputed balances.
// Nothing is written.
func (r *TransactionLedgerReconciler) ListAccounts(ctx context.Context, filter shared.Filter) (*shared.Page[AccountBalance], error) {
	page, err := r.accountRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	items := make([]AccountBalance, len(page.Items))
	for i := range page.Items {
		outcome, err := r.PreviewBalance(ctx, &page.Items[i])
		if err != nil {
			return nil, err
		}
		items[i] = AccountBalance{Account: page.Items[i], Balance: *outcome}
	}
	out := shared.NewPage(items, page.Total, shared.Filter{Page: page.Page, PageSize: page.PageSize})
	return &out, nil
}

// RecomputeBalance recomputes one account and overwrites the stored balance
// when it drifted beyond tolerance. A lost version race re-reads and
// recomputes rather than overwriting.
func (r *TransactionLedgerReconciler) RecomputeBalance(ctx context.Context, accountID uuid.UUID) (*BalanceOutcome, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger_reconciler", "recompute_balance")
	defer span.End()
	telemetry.SetAttributes(span, "account_id", accountID.String())

	var (
		outcome *BalanceOutcome
		account *ledger.Account
	)
	err := withUnit(ctx, r.locker, r.txManager, r.opts.retryAttempts,
		[]string{accountLockKey(accountID)},
		func(ctx context.Context) error {
			var err error
			outcome, account, err = r.recomputeWithinUnit(ctx, accountID)
			return err
		})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if outcome.Corrected {
		r.afterCorrection(ctx, account, outcome)
	}
	return outcome, nil
}

// recomputeWithinUnit does the read/compute/write for one account. The
// caller holds the account lock and an open transaction.
func (r *TransactionLedgerReconciler) recomputeWithinUnit(ctx context.Context, accountID uuid.UUID) (*BalanceOutcome, *ledger.Account, error) {
	account, err := r.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	outcome, err := r.PreviewBalance(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	if account.ApplyRecomputedBalance(outcome.Recomputed, r.clock.Now()) {
		if err := r.accountRepo.SaveWithLock(ctx, account); err != nil {
			return nil, nil, err
		}
		outcome.Corrected = true
	}
	return outcome, account, nil
}

func (r *TransactionLedgerReconciler) afterCorrection(ctx context.Context, account *ledger.Account, outcome *BalanceOutcome) {
	r.logger.Info("account balance corrected",
		zap.String("account_id", outcome.AccountID.String()),
		zap.String("account_code", outcome.AccountCode),
		zap.String("previous", outcome.Previous.StringFixed(2)),
		zap.String("recomputed", outcome.Recomputed.StringFixed(2)),
	)
	r.opts.metrics.RecordBalanceCorrection(ctx, string(account.AccountType))
	publishEvents(ctx, r.publisher, r.logger, account)
}

// RecomputeAll recomputes every account. One account's failure is
// recorded and does not stop the batch.
func (r *TransactionLedgerReconciler) RecomputeAll(ctx context.Context) (*RecomputeAllResult, error) {
	accounts, err := r.accountRepo.FindAllAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	result := &RecomputeAllResult{Outcomes: make([]BalanceOutcome, 0, len(accounts)), Errors: make([]string, 0)}
	for i := range accounts {
		outcome, err := r.RecomputeBalance(ctx, accounts[i].ID)
		if err != nil {
			r.logger.Error("failed to recompute account balance",
				zap.String("account_id", accounts[i].ID.String()),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("Account %s (%s): %v", accounts[i].Code, accounts[i].ID, err))
			continue
		}
		result.Outcomes = append(result.Outcomes, *outcome)
	}
	return result, nil
}

// PreviewAll computes every account's balance without writing
func (r *TransactionLedgerReconciler) PreviewAll(ctx context.Context) (*RecomputeAllResult, error) {
	accounts, err := r.accountRepo.FindAllAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	result := &RecomputeAllResult{Outcomes: make([]BalanceOutcome, 0, len(accounts)), Errors: make([]string, 0)}
	for i := range accounts {
		outcome, err := r.PreviewBalance(ctx, &accounts[i])
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Account %s (%s): %v", accounts[i].Code, accounts[i].ID, err))
			continue
		}
		result.Outcomes = append(result.Outcomes, *outcome)
	}
	return result, nil
}

// DetectAnomalies reports structural problems in the ledger: negative
// balances on asset and expense accounts, duplicate account codes, non-positive or future-dated
// transactions and duplicate approved transactions. Read-only.
func (r *TransactionLedgerReconciler) DetectAnomalies(ctx context.Context, accounts []ledger.Account) ([]string, error) {
	issues := make([]string, 0)
	now := r.clock.Now()

	codes := make(map[string][]uuid.UUID)
	var codeOrder []string
	for i := range accounts {
		a := &accounts[i]
		if a.HasAbnormalBalance() {
			issues = append(issues, fmt.Sprintf("Account %s (%s) has negative balance %s",
				a.Code, a.ID, a.CurrentBalance.StringFixed(2)))
		}
		if _, seen := codes[a.Code]; !seen {
			codeOrder = append(codeOrder, a.Code)
		}
		codes[a.Code] = append(codes[a.Code], a.ID)
	}
	for _, code := range codeOrder {
		if ids := codes[code]; len(ids) > 1 {
			issues = append(issues, fmt.Sprintf("Duplicate account code %s used by %d accounts: %s",
				code, len(ids), joinIDs(ids)))
		}
	}

	transactions, err := r.transactionRepo.FindAllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	type dupKey struct {
		account     uuid.UUID
		amount      string
		day         string
		description string
	}
	groups := make(map[dupKey][]uuid.UUID)
	var groupOrder []dupKey
	for i := range transactions {
		t := &transactions[i]
		if !t.Amount.IsPositive() {
			issues = append(issues, fmt.Sprintf("Transaction %s has non-positive amount %s", t.ID, t.Amount.StringFixed(2)))
		}
		if t.TransactionDate.After(now) {
			issues = append(issues, fmt.Sprintf("Transaction %s is dated in the future (%s)",
				t.ID, t.TransactionDate.Format(time.DateOnly)))
		}
		if t.Status != ledger.ApprovalStatusApproved {
			continue
		}
		key := dupKey{
			account:     t.AccountID,
			amount:      t.Amount.StringFixed(2),
			day:         t.TransactionDate.Format(time.DateOnly),
			description: ledger.NormalizeDescription(t.Description),
		}
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], t.ID)
	}
	for _, key := range groupOrder {
		if ids := groups[key]; len(ids) > 1 {
			issues = append(issues, fmt.Sprintf("Duplicate approved transactions on account %s (amount %s, date %s): %s",
				key.account, key.amount, key.day, joinIDs(ids)))
		}
	}
	return issues, nil
}

func accountLockKey(id uuid.UUID) string {
	return shared.LockKey(ledger.AggregateTypeAccount, id.String())
}

// withUnit acquires keys in sorted order, runs fn in one transaction and
// re-runs everything when a concurrent writer wins a version check.
func withUnit(
	ctx context.Context,
	locker shared.EntityLocker,
	txManager shared.TxManager,
	attempts int,
	keys []string,
	fn func(ctx context.Context) error,
) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	sorted = slices.Compact(sorted)
	return shared.RetryOnConflict(ctx, attempts, func(ctx context.Context) error {
		var releases []func()
		defer func() {
			for i := len(releases) - 1; i >= 0; i-- {
				releases[i]()
			}
		}()
		for _, key := range sorted {
			release, err := locker.Acquire(ctx, key)
			if err != nil {
				return err
			}
			releases = append(releases, release)
		}
		return txManager.WithinTransaction(ctx, fn)
	})
}

func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	events := shared.CollectEvents(aggregates...)
	if len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish ledger events", zap.Int("count", len(events)), zap.Error(err))
	}
}

func joinIDs(ids []uuid.UUID) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += ", "
		}
		s += id.String()
	}
	return s
}
