package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	leaseapp "github.com/rukibhamz/erpsolution-sub000/internal/application/lease"
	ledgerapp "github.com/rukibhamz/erpsolution-sub000/internal/application/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/stock"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/utility"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/venue"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LeaseReconciler is the part of the lease service the auditor drives
type LeaseReconciler interface {
	IsStatusConsistent(ctx context.Context, p *property.Property) (bool, error)
	FixPropertyStatusInconsistencies(ctx context.Context) (*leaseapp.FixResult, error)
	ExpireOverdueLeases(ctx context.Context) (*leaseapp.ExpiryResult, error)
}

// LedgerReconciler is the part of the ledger service the auditor drives
type LedgerReconciler interface {
	RecomputeAll(ctx context.Context) (*ledgerapp.RecomputeAllResult, error)
	PreviewAll(ctx context.Context) (*ledgerapp.RecomputeAllResult, error)
	DetectAnomalies(ctx context.Context, accounts []ledger.Account) ([]string, error)
}

// ReportArchiver stores a serialized report and returns where it went
type ReportArchiver interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

// Repositories groups the stores read directly by the auditor
type Repositories struct {
	Properties property.PropertyRepository
	Leases     property.LeaseRepository
	Accounts   ledger.AccountRepository
	Events     venue.EventRepository
	Bookings   venue.BookingRepository
	Inventory  stock.InventoryItemRepository
	Utilities  utility.UtilityBillRepository
}

// RunOptions tunes one audit run
type RunOptions struct {
	// DryRun reports fixable findings as issues without writing
	DryRun bool
}

// Option configures the auditor
type Option func(*IntegrityAuditor)

// WithArchiver stores every completed report
func WithArchiver(a ReportArchiver) Option {
	return func(i *IntegrityAuditor) { i.archiver = a }
}

// WithMetrics attaches a metrics sink
func WithMetrics(m Metrics) Option {
	return func(i *IntegrityAuditor) {
		if m != nil {
			i.metrics = m
		}
	}
}

// WithRetryAttempts bounds retries of a single record fix
func WithRetryAttempts(n int) Option {
	return func(i *IntegrityAuditor) {
		if n > 0 {
			i.retryAttempts = n
		}
	}
}

const runLockKey = "reconcile:lock:audit:full"

// IntegrityAuditor runs every consistency check across the store and
// applies the safe corrections.
type IntegrityAuditor struct {
	leases        LeaseReconciler
	ledger        LedgerReconciler
	repos         Repositories
	txManager     shared.TxManager
	locker        shared.EntityLocker
	publisher     shared.EventPublisher
	clock         shared.Clock
	logger        *zap.Logger
	archiver      ReportArchiver
	metrics       Metrics
	retryAttempts int
}

// NewIntegrityAuditor creates a new IntegrityAuditor
func NewIntegrityAuditor(
	leases LeaseReconciler,
	ledgerReconciler LedgerReconciler,
	repos Repositories,
	txManager shared.TxManager,
	locker shared.EntityLocker,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
	opts ...Option,
) *IntegrityAuditor {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &IntegrityAuditor{
		leases:        leases,
		ledger:        ledgerReconciler,
		repos:         repos,
		txManager:     txManager,
		locker:        locker,
		publisher:     publisher,
		clock:         clock,
		logger:        logger.Named("integrity_auditor"),
		metrics:       nopMetrics{},
		retryAttempts: shared.DefaultRetryAttempts,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunFullAudit runs every check and applies fixes
func (a *IntegrityAuditor) RunFullAudit(ctx context.Context) (*Report, error) {
	return a.Run(ctx, RunOptions{})
}

// Run executes one audit. Only one audit runs at a time per lock scope.
// Failure to load a domain aborts the run; failure to fix one record is
// reported as an issue.
func (a *IntegrityAuditor) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "integrity_auditor", "run")
	defer span.End()
	telemetry.SetAttributes(span, "dry_run", opts.DryRun)

	started := time.Now()
	release, err := a.locker.Acquire(ctx, runLockKey)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("acquire audit lock: %w", err)
	}
	defer release()

	report := newReport(a.clock.Now(), opts.DryRun)
	a.logger.Info("integrity audit started",
		zap.String("run_id", report.RunID.String()),
		zap.Bool("dry_run", opts.DryRun),
	)

	checks := []struct {
		domain string
		run    func(ctx context.Context, dryRun bool) (shared.CheckResult, error)
	}{
		{DomainLeases, a.checkLeases},
		{DomainProperties, a.checkProperties},
		{DomainAccounts, a.checkAccounts},
		{DomainTransactions, a.checkTransactions},
		{DomainEvents, a.checkEvents},
		{DomainBookings, a.checkBookings},
		{DomainInventory, a.checkInventory},
		{DomainUtilities, a.checkUtilities},
	}
	for _, c := range checks {
		check, err := c.run(ctx, opts.DryRun)
		if err != nil {
			a.metrics.RecordAuditFailure(ctx, time.Since(started))
			telemetry.RecordError(span, err)
			a.logger.Error("integrity audit failed",
				zap.String("run_id", report.RunID.String()),
				zap.String("domain", c.domain),
				zap.Error(err),
			)
			return nil, fmt.Errorf("audit %s: %w", c.domain, err)
		}
		report.record(c.domain, check)
	}
	report.finalize()

	if a.archiver != nil {
		a.archive(ctx, report)
	}

	duration := time.Since(started)
	a.metrics.RecordAuditRun(ctx, report.Details, report.DryRun, duration)
	if err := a.publisher.Publish(ctx, NewAuditCompletedEvent(report, a.clock.Now())); err != nil {
		a.logger.Warn("failed to publish audit event", zap.Error(err))
	}
	telemetry.SetAttributes(span,
		"total_issues", report.Summary.TotalIssues,
		"total_fixed", report.Summary.TotalFixed,
	)
	a.logger.Info("integrity audit completed",
		zap.String("run_id", report.RunID.String()),
		zap.Int("total_issues", report.Summary.TotalIssues),
		zap.Int("total_fixed", report.Summary.TotalFixed),
		zap.Duration("duration", duration),
	)
	return report, nil
}

func (a *IntegrityAuditor) archive(ctx context.Context, report *Report) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		a.logger.Warn("failed to encode audit report", zap.Error(err))
		return
	}
	name := fmt.Sprintf("audit-%s-%s.json", a.clock.Now().UTC().Format("20060102T150405Z"), report.RunID)
	location, err := a.archiver.Archive(ctx, name, data)
	if err != nil {
		a.logger.Warn("failed to archive audit report", zap.String("name", name), zap.Error(err))
		return
	}
	report.ArchiveLocation = location
}

// checkLeases expires overdue leases first so the remaining checks see
// the post-expiry state and a second run reports the same issues.
func (a *IntegrityAuditor) checkLeases(ctx context.Context, dryRun bool) (shared.CheckResult, error) {
	check := shared.NewCheckResult()
	now := a.clock.Now()

	if dryRun {
		overdue, err := a.repos.Leases.FindOverdue(ctx, now)
		if err != nil {
			return check, fmt.Errorf("load overdue leases: %w", err)
		}
		for i := range overdue {
			check.AddIssue(fmt.Sprintf("Lease %s is past its end date %s but still active",
				overdue[i].ID, overdue[i].EndDate.Format(time.DateOnly)))
		}
	} else {
		expiry, err := a.leases.ExpireOverdueLeases(ctx)
		if err != nil {
			return check, err
		}
		for _, id := range expiry.Expired {
			check.AddFixed(fmt.Sprintf("Lease %s was overdue and has been expired", id))
		}
		for _, msg := range expiry.Errors {
			check.AddIssue(msg)
		}
	}

	active, err := a.repos.Leases.FindByStatus(ctx, property.LeaseStatusActive)
	if err != nil {
		return check, fmt.Errorf("load active leases: %w", err)
	}
	byProperty := make(map[uuid.UUID][]*property.Lease)
	var order []uuid.UUID
	for i := range active {
		l := &active[i]
		if !l.EndDate.After(l.StartDate) {
			check.AddIssue(fmt.Sprintf("Lease %s ends on %s, not after its start date %s",
				l.ID, l.EndDate.Format(time.DateOnly), l.StartDate.Format(time.DateOnly)))
		}
		if _, seen := byProperty[l.PropertyID]; !seen {
			order = append(order, l.PropertyID)
		}
		byProperty[l.PropertyID] = append(byProperty[l.PropertyID], l)
	}
	for _, propertyID := range order {
		leases := byProperty[propertyID]
		for i := 0; i < len(leases); i++ {
			for j := i + 1; j < len(leases); j++ {
				if leases[i].Overlaps(leases[j].StartDate, leases[j].EndDate) {
					check.AddIssue(fmt.Sprintf("Active leases %s and %s overlap on property %s",
						leases[i].ID, leases[j].ID, propertyID))
				}
			}
		}
	}
	return check, nil
}

func (a *IntegrityAuditor) checkProperties(ctx context.Context, dryRun bool) (shared.CheckResult, error) {
	check := shared.NewCheckResult()
	if dryRun {
		properties, err := a.repos.Properties.FindActive(ctx)
		if err != nil {
			return check, fmt.Errorf("load active properties: %w", err)
		}
		for i := range properties {
			p := &properties[i]
			ok, err := a.leases.IsStatusConsistent(ctx, p)
			if err != nil {
				return check, err
			}
			if !ok {
				check.AddIssue(fmt.Sprintf("Property %s (%s) status %s is inconsistent with its leases", p.Code, p.ID, p.Status))
			}
		}
		return check, nil
	}

	fix, err := a.leases.FixPropertyStatusInconsistencies(ctx)
	if err != nil {
		return check, err
	}
	for _, msg := range fix.Fixed {
		check.AddFixed(msg)
	}
	for _, msg := range fix.Errors {
		check.AddIssue(msg)
	}
	return check, nil
}

func (a *IntegrityAuditor) checkAccounts(ctx context.Context, dryRun bool) (shared.CheckResult, error) {
	check := shared.NewCheckResult()
	if dryRun {
		preview, err := a.ledger.PreviewAll(ctx)
		if err != nil {
			return check, err
		}
		for _, o := range preview.Outcomes {
			if o.Drifted {
				check.AddIssue(o.Description())
			}
		}
		for _, msg := range preview.Errors {
			check.AddIssue(msg)
		}
		return check, nil
	}

	result, err := a.ledger.RecomputeAll(ctx)
	if err != nil {
		return check, err
	}
	for _, o := range result.Corrected() {
		check.AddFixed(o.Description())
	}
	for _, msg := range result.Errors {
		check.AddIssue(msg)
	}
	return check, nil
}

// checkTransactions runs after checkAccounts so anomaly detection sees
// the recomputed balances.
func (a *IntegrityAuditor) checkTransactions(ctx context.Context, _ bool) (shared.CheckResult, error) {
	check := shared.NewCheckResult()
	accounts, err := a.repos.Accounts.FindAllAccounts(ctx)
	if err != nil {
		return check, fmt.Errorf("load accounts: %w", err)
	}
	anomalies, err := a.ledger.DetectAnomalies(ctx, accounts)
	if err != nil {
		return check, err
	}
	for _, msg := range anomalies {
		check.AddIssue(msg)
	}
	return check, nil
}

func (a *IntegrityAuditor) checkEvents(ctx context.Context, dryRun bool) (shared.CheckResult, error) {
	check := shared.NewCheckResult()
	events, err := a.repos.Events.FindAllEvents(ctx)
	if err != nil {
		return check, fmt.Errorf("load events: %w", err)
	}
	for i := range events {
		e := &events[i]
		if !e.IsOverbooked() {
			continue
		}
		finding := fmt.Sprintf("Event %s (%s) booked count %d exceeds capacity %d", e.Name, e.ID, e.BookedCount, e.Capacity)
		if dryRun {
			check.AddIssue(finding)
			continue
		}
		changed, err := a.fixRecord(ctx, venue.AggregateTypeEvent, e.ID, func(ctx context.Context) (bool, error) {
			fresh, err := a.repos.Events.FindByID(ctx, e.ID)
			if err != nil {
				return false, err
			}
			if !fresh.ClampBookedCount(a.clock.Now()) {
				return false, nil
			}
			return true, a.repos.Events.SaveWithLock(ctx, fresh)
		})
		a.recordFix(&check, finding, "clamped to capacity", changed, err)
	}
	return check, nil
}

func (a *IntegrityAuditor) checkBookings(ctx context.Context, dryRun bool) (shared.CheckResult, error) {
	check := shared.NewCheckResult()
	events, err := a.repos.Events.FindAllEvents(ctx)
	if err != nil {
		return check, fmt.Errorf("load events: %w", err)
	}
	known := make(map[uuid.UUID]struct{}, len(events))
	for i := range events {
		known[events[i].ID] = struct{}{}
	}

	bookings, err := a.repos.Bookings.FindAllBookings(ctx)
	if err != nil {
		return check, fmt.Errorf("load bookings: %w", err)
	}
	for i := range bookings {
		b := &bookings[i]
		if _, ok := known[b.EventID]; !ok {
			check.AddIssue(fmt.Sprintf("Booking %s references missing event %s", b.BookingNumber, b.EventID))
		}
		if b.IsOverpaid() {
			check.AddIssue(fmt.Sprintf("Booking %s is overpaid: paid %s exceeds total %s",
				b.BookingNumber, b.PaidAmount.StringFixed(2), b.TotalAmount.StringFixed(2)))
			continue
		}
		if !b.BalanceDrifted() {
			continue
		}
		finding := fmt.Sprintf("Booking %s balance %s does not equal total %s minus paid %s",
			b.BookingNumber, b.BalanceAmount.StringFixed(2), b.TotalAmount.StringFixed(2), b.PaidAmount.StringFixed(2))
		if dryRun {
			check.AddIssue(finding)
			continue
		}
		changed, err := a.fixRecord(ctx, venue.AggregateTypeBooking, b.ID, func(ctx context.Context) (bool, error) {
			fresh, err := a.repos.Bookings.FindByID(ctx, b.ID)
			if err != nil {
				return false, err
			}
			if !fresh.RecomputeBalance(a.clock.Now()) {
				return false, nil
			}
			return true, a.repos.Bookings.SaveWithLock(ctx, fresh)
		})
		a.recordFix(&check, finding, "recomputed to "+b.ExpectedBalance().StringFixed(2), changed, err)
	}
	return check, nil
}

func (a *IntegrityAuditor) checkInventory(ctx context.Context, dryRun bool) (shared.CheckResult, error) {
	check := shared.NewCheckResult()
	items, err := a.repos.Inventory.FindAllItems(ctx)
	if err != nil {
		return check, fmt.Errorf("load inventory items: %w", err)
	}
	for i := range items {
		item := &items[i]
		if !item.HasNegativeStock() {
			continue
		}
		finding := fmt.Sprintf("Inventory item %s has negative stock %s", item.SKU, item.QuantityOnHand.String())
		if dryRun {
			check.AddIssue(finding)
			continue
		}
		changed, err := a.fixRecord(ctx, stock.AggregateTypeInventoryItem, item.ID, func(ctx context.Context) (bool, error) {
			fresh, err := a.repos.Inventory.FindByID(ctx, item.ID)
			if err != nil {
				return false, err
			}
			if !fresh.ClampNegativeStock(a.clock.Now()) {
				return false, nil
			}
			return true, a.repos.Inventory.SaveWithLock(ctx, fresh)
		})
		a.recordFix(&check, finding, "reset to 0", changed, err)
	}
	return check, nil
}

func (a *IntegrityAuditor) checkUtilities(ctx context.Context, dryRun bool) (shared.CheckResult, error) {
	check := shared.NewCheckResult()
	bills, err := a.repos.Utilities.FindAllBills(ctx)
	if err != nil {
		return check, fmt.Errorf("load utility bills: %w", err)
	}
	for i := range bills {
		b := &bills[i]
		if b.HasReadingRegression() {
			check.AddIssue(fmt.Sprintf("Utility bill %s (%s) current reading %s is below previous reading %s",
				b.ID, b.UtilityType, b.CurrentReading.String(), b.PreviousReading.String()))
		}
		if !b.BalanceDrifted() {
			continue
		}
		finding := fmt.Sprintf("Utility bill %s balance %s (%s) does not match amount %s minus paid %s",
			b.ID, b.BalanceAmount.StringFixed(2), b.Status, b.Amount.StringFixed(2), b.PaidAmount.StringFixed(2))
		if dryRun {
			check.AddIssue(finding)
			continue
		}
		changed, err := a.fixRecord(ctx, utility.AggregateTypeUtilityBill, b.ID, func(ctx context.Context) (bool, error) {
			fresh, err := a.repos.Utilities.FindByID(ctx, b.ID)
			if err != nil {
				return false, err
			}
			if !fresh.RecomputeBalance(a.clock.Now()) {
				return false, nil
			}
			return true, a.repos.Utilities.SaveWithLock(ctx, fresh)
		})
		a.recordFix(&check, finding, "recomputed", changed, err)
	}
	return check, nil
}

// fixRecord applies fn to one record under its lock and a transaction,
// re-running it after a lost version race.
func (a *IntegrityAuditor) fixRecord(ctx context.Context, aggregateType string, id uuid.UUID, fn func(ctx context.Context) (bool, error)) (bool, error) {
	key := shared.LockKey(aggregateType, id.String())
	var changed bool
	err := shared.RetryOnConflict(ctx, a.retryAttempts, func(ctx context.Context) error {
		changed = false
		release, err := a.locker.Acquire(ctx, key)
		if err != nil {
			return err
		}
		defer release()
		return a.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			changed, err = fn(ctx)
			return err
		})
	})
	return changed, err
}

// recordFix files a finding under fixed, or under issues when the fix
// failed. A record already corrected by someone else is not reported.
func (a *IntegrityAuditor) recordFix(check *shared.CheckResult, finding, action string, changed bool, err error) {
	switch {
	case err != nil:
		a.logger.Error("audit fix failed", zap.String("finding", finding), zap.Error(err))
		check.AddIssue(fmt.Sprintf("%s; fix failed: %v", finding, err))
	case changed:
		check.AddFixed(finding + "; " + action)
	}
}
