package ledger

import "context"

// Metrics receives ledger and approval counters
type Metrics interface {
	RecordBalanceCorrection(ctx context.Context, accountType string)
	RecordApproval(ctx context.Context, kind, action, outcome string)
}

type nopMetrics struct{}

func (nopMetrics) RecordBalanceCorrection(context.Context, string)        {}
func (nopMetrics) RecordApproval(context.Context, string, string, string) {}
