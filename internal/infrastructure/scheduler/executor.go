package scheduler

import (
	"context"
	"fmt"

	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	leaseapp "github.com/rukibhamz/erpsolution-sub000/internal/application/lease"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Auditor runs the integrity audit
type Auditor interface {
	RunFullAudit(ctx context.Context) (*audit.Report, error)
}

// LeaseExpirer closes leases past their end date
type LeaseExpirer interface {
	ExpireOverdueLeases(ctx context.Context) (*leaseapp.ExpiryResult, error)
}

// ReconciliationExecutor runs the sweeps as the configured system actor
type ReconciliationExecutor struct {
	auditor     Auditor
	leases      LeaseExpirer
	systemActor string
	logger      *zap.Logger
}

// NewReconciliationExecutor creates the executor for the built-in jobs
func NewReconciliationExecutor(auditor Auditor, leases LeaseExpirer, systemActor string, log *zap.Logger) *ReconciliationExecutor {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReconciliationExecutor{
		auditor:     auditor,
		leases:      leases,
		systemActor: systemActor,
		logger:      log,
	}
}

// Execute implements JobExecutor
func (e *ReconciliationExecutor) Execute(ctx context.Context, job *Job) error {
	ctx = logger.WithActorID(ctx, e.systemActor)
	log := logger.ForContext(ctx, e.logger).With(
		zap.String("job_id", job.ID.String()),
		zap.String("job", string(job.Name)),
	)

	switch job.Name {
	case JobIntegrityAudit:
		report, err := e.auditor.RunFullAudit(ctx)
		if err != nil {
			return fmt.Errorf("integrity audit: %w", err)
		}
		log.Info("Integrity audit finished",
			zap.String("run_id", report.RunID.String()),
			zap.Int("issues", report.Summary.TotalIssues),
			zap.Int("fixed", report.Summary.TotalFixed),
			zap.String("archive", report.ArchiveLocation),
		)
		return nil

	case JobLeaseExpiry:
		result, err := e.leases.ExpireOverdueLeases(ctx)
		if err != nil {
			return fmt.Errorf("lease expiry: %w", err)
		}
		log.Info("Lease expiry sweep finished",
			zap.Int("expired", len(result.Expired)),
			zap.Int("errors", len(result.Errors)),
		)
		if len(result.Errors) > 0 {
			log.Warn("Some leases could not be expired", zap.Strings("errors", result.Errors))
		}
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.Name)
	}
}

type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("job panicked: %v", p.value)
}
