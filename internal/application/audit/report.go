package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// Report detail keys, in check order
const (
	DomainLeases       = "leases"
	DomainProperties   = "properties"
	DomainAccounts     = "accounts"
	DomainTransactions = "transactions"
	DomainEvents       = "events"
	DomainBookings     = "bookings"
	DomainInventory    = "inventory"
	DomainUtilities    = "utilities"
)

// Domains lists every report domain in the order checks run
var Domains = []string{
	DomainLeases,
	DomainProperties,
	DomainAccounts,
	DomainTransactions,
	DomainEvents,
	DomainBookings,
	DomainInventory,
	DomainUtilities,
}

// Summary holds the report totals
type Summary struct {
	TotalIssues int    `json:"total_issues"`
	TotalFixed  int    `json:"total_fixed"`
	Timestamp   string `json:"timestamp"`
}

// Report is the outcome of one audit run
type Report struct {
	Summary Summary                       `json:"summary"`
	Details map[string]shared.CheckResult `json:"details"`

	// RunID identifies the run in events and archives
	RunID uuid.UUID `json:"-"`
	// DryRun is set when fixable findings were reported but not applied
	DryRun bool `json:"-"`
	// ArchiveLocation is where the report was stored, if anywhere
	ArchiveLocation string `json:"-"`
}

func newReport(at time.Time, dryRun bool) *Report {
	details := make(map[string]shared.CheckResult, len(Domains))
	for _, d := range Domains {
		details[d] = shared.NewCheckResult()
	}
	return &Report{
		Summary: Summary{Timestamp: at.UTC().Format(time.RFC3339)},
		Details: details,
		RunID:   uuid.New(),
		DryRun:  dryRun,
	}
}

func (r *Report) record(domain string, check shared.CheckResult) {
	current := r.Details[domain]
	current.Append(check)
	r.Details[domain] = current
}

func (r *Report) finalize() {
	r.Summary.TotalIssues = 0
	r.Summary.TotalFixed = 0
	for _, check := range r.Details {
		r.Summary.TotalIssues += len(check.Issues)
		r.Summary.TotalFixed += len(check.Fixed)
	}
}

// Event and aggregate names for audit runs
const (
	EventTypeAuditCompleted = "AuditCompleted"
	AggregateTypeAuditRun   = "AuditRun"
)

// AuditCompletedEvent is published after every finished audit
type AuditCompletedEvent struct {
	shared.EventHeader
	TotalIssues     int    `json:"total_issues"`
	TotalFixed      int    `json:"total_fixed"`
	DryRun          bool   `json:"dry_run"`
	ArchiveLocation string `json:"archive_location,omitempty"`
}

// NewAuditCompletedEvent creates the completion event for report
func NewAuditCompletedEvent(report *Report, at time.Time) *AuditCompletedEvent {
	return &AuditCompletedEvent{
		EventHeader:     shared.NewEventHeader(EventTypeAuditCompleted, AggregateTypeAuditRun, report.RunID, at),
		TotalIssues:     report.Summary.TotalIssues,
		TotalFixed:      report.Summary.TotalFixed,
		DryRun:          report.DryRun,
		ArchiveLocation: report.ArchiveLocation,
	}
}

// Description implements shared.Describer
func (e *AuditCompletedEvent) Description() string {
	return fmt.Sprintf("Integrity audit completed: %d issues, %d fixed", e.TotalIssues, e.TotalFixed)
}
