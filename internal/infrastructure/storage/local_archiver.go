package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalReportArchiver writes reports into a directory on the local disk.
type LocalReportArchiver struct {
	dir    string
	logger *zap.Logger
}

// NewLocalReportArchiver creates dir if needed
func NewLocalReportArchiver(dir string, logger *zap.Logger) (*LocalReportArchiver, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalReportArchiver{dir: dir, logger: logger.Named("local_archiver")}, nil
}

// Archive writes data to dir/name through a temporary file, so a reader
// never sees a partial report. It returns the file path.
func (a *LocalReportArchiver) Archive(ctx context.Context, name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(a.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	target := filepath.Join(a.dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move report into place: %w", err)
	}
	a.logger.Info("Audit report archived", zap.String("location", target), zap.Int("bytes", len(data)))
	return target, nil
}
