package telemetry

import (
	"context"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// ReconciliationMetrics records corrections, approval decisions, audit runs
// and scheduled jobs. It satisfies the Metrics interfaces of the ledger and
// audit application packages.
type ReconciliationMetrics struct {
	balanceCorrections *Counter
	approvals          *Counter
	auditRuns          *Counter
	auditFailures      *Counter
	auditIssues        *Counter
	auditFixed         *Counter
	auditOpenIssues    *Gauge
	auditDuration      *Histogram
	jobRuns            *Counter
	jobDuration        *Histogram
}

// NewReconciliationMetrics registers the instruments on meter
func NewReconciliationMetrics(meter metric.Meter) (*ReconciliationMetrics, error) {
	m := &ReconciliationMetrics{}
	var err error

	if m.balanceCorrections, err = NewCounter(meter, "reconcile_balance_corrections_total",
		"Account balances overwritten by recomputation", "{correction}"); err != nil {
		return nil, err
	}
	if m.approvals, err = NewCounter(meter, "reconcile_approval_decisions_total",
		"Approval workflow decisions by kind, action and outcome", "{decision}"); err != nil {
		return nil, err
	}
	if m.auditRuns, err = NewCounter(meter, "reconcile_audit_runs_total",
		"Completed integrity audits", "{run}"); err != nil {
		return nil, err
	}
	if m.auditFailures, err = NewCounter(meter, "reconcile_audit_failures_total",
		"Integrity audits aborted before completion", "{run}"); err != nil {
		return nil, err
	}
	if m.auditIssues, err = NewCounter(meter, "reconcile_audit_issues_total",
		"Issues reported by integrity audits per domain", "{issue}"); err != nil {
		return nil, err
	}
	if m.auditFixed, err = NewCounter(meter, "reconcile_audit_fixes_total",
		"Issues fixed by integrity audits per domain", "{fix}"); err != nil {
		return nil, err
	}
	if m.auditOpenIssues, err = NewGauge(meter, "reconcile_audit_open_issues",
		"Issues left unfixed by the latest audit per domain", "{issue}"); err != nil {
		return nil, err
	}
	if m.auditDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "reconcile_audit_duration_seconds",
		Description: "Integrity audit wall time",
		Unit:        "s",
		Boundaries:  AuditDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.jobRuns, err = NewCounter(meter, "reconcile_job_runs_total",
		"Scheduled reconciliation job executions by outcome", "{run}"); err != nil {
		return nil, err
	}
	if m.jobDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "reconcile_job_duration_seconds",
		Description: "Scheduled reconciliation job wall time",
		Unit:        "s",
		Boundaries:  AuditDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordBalanceCorrection counts one overwritten account balance
func (m *ReconciliationMetrics) RecordBalanceCorrection(ctx context.Context, accountType string) {
	m.balanceCorrections.Inc(ctx, AttrAccountType.String(accountType))
}

// RecordApproval counts one approve, reject or cancel decision
func (m *ReconciliationMetrics) RecordApproval(ctx context.Context, kind, action, outcome string) {
	m.approvals.Inc(ctx, AttrKind.String(kind), AttrAction.String(action), AttrOutcome.String(outcome))
}

// RecordAuditRun records the per-domain totals of a finished audit
func (m *ReconciliationMetrics) RecordAuditRun(ctx context.Context, details map[string]shared.CheckResult, dryRun bool, duration time.Duration) {
	dry := AttrDryRun.Bool(dryRun)
	m.auditRuns.Inc(ctx, dry)
	m.auditDuration.RecordDuration(ctx, duration, dry)
	for domain, check := range details {
		d := AttrDomain.String(domain)
		m.auditIssues.Add(ctx, int64(len(check.Issues)), d, dry)
		m.auditFixed.Add(ctx, int64(len(check.Fixed)), d, dry)
		m.auditOpenIssues.Record(ctx, int64(len(check.Issues)-len(check.Fixed)), d)
	}
}

// RecordAuditFailure counts an aborted audit
func (m *ReconciliationMetrics) RecordAuditFailure(ctx context.Context, duration time.Duration) {
	m.auditFailures.Inc(ctx)
	m.auditDuration.RecordDuration(ctx, duration, AttrOutcome.String("failure"))
}

// RecordJob records one scheduled job execution
func (m *ReconciliationMetrics) RecordJob(ctx context.Context, job string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobRuns.Inc(ctx, AttrJob.String(job), AttrOutcome.String(outcome))
	m.jobDuration.RecordDuration(ctx, duration, AttrJob.String(job))
}
