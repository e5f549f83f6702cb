package audit

import (
	"context"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// Metrics receives per-run audit measurements. details is keyed by report domain.
type Metrics interface {
	RecordAuditRun(ctx context.Context, details map[string]shared.CheckResult, dryRun bool, duration time.Duration)
	RecordAuditFailure(ctx context.Context, duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordAuditRun(context.Context, map[string]shared.CheckResult, bool, time.Duration) {
}
func (nopMetrics) RecordAuditFailure(context.Context, time.Duration) {}
