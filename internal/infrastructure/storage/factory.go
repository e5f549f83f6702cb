package storage

import (
	"context"
	"fmt"

	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewReportArchiver returns the archiver selected by cfg.Backend, or nil
// when archiving is off.
func NewReportArchiver(ctx context.Context, cfg config.ArchiveConfig, logger *zap.Logger) (audit.ReportArchiver, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "local":
		a, err := NewLocalReportArchiver(cfg.LocalDir, logger)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "s3":
		a, err := NewS3ReportArchiver(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := a.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported archive backend %q", cfg.Backend)
	}
}
