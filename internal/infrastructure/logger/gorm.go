package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig configures the SQL logger
type GormConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration // zero disables slow query warnings
	MaxSQLLength  int           // zero keeps statements whole
}

// GormLogger routes GORM statements into zap. Each entry carries the
// statement verb as "op" so ledger writes can be filtered from reads.
// Not-found lookups are expected by every repository and never logged.
type GormLogger struct {
	logger *zap.Logger
	cfg    GormConfig
}

// NewGormLogger creates a GORM logger backed by zap
func NewGormLogger(zapLogger *zap.Logger, cfg GormConfig) *GormLogger {
	return &GormLogger{logger: zapLogger.Named("sql"), cfg: cfg}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.cfg.Level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Info {
		l.logger.With(Fields(ctx)...).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Warn {
		l.logger.With(Fields(ctx)...).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Error {
		l.logger.With(Fields(ctx)...).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}
	if err != nil && errors.Is(err, gormlogger.ErrRecordNotFound) {
		return
	}

	elapsed := time.Since(begin)
	slow := l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold
	if err == nil && !slow && l.cfg.Level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	fields := append([]zap.Field{
		zap.String("op", statementVerb(sql)),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", truncateSQL(sql, l.cfg.MaxSQLLength)),
	}, Fields(ctx)...)

	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		// caller went away; the statement itself is fine
		if l.cfg.Level >= gormlogger.Warn {
			l.logger.Warn("SQL statement cancelled", append(fields, zap.Error(err))...)
		}
	case err != nil:
		if l.cfg.Level >= gormlogger.Error {
			l.logger.Error("SQL statement failed", append(fields, zap.Error(err))...)
		}
	case slow:
		if l.cfg.Level >= gormlogger.Warn {
			l.logger.Warn("Slow SQL statement", append(fields, zap.Duration("threshold", l.cfg.SlowThreshold))...)
		}
	default:
		l.logger.Debug("SQL statement", fields...)
	}
}

func statementVerb(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \t\n("); i > 0 {
		sql = sql[:i]
	}
	return strings.ToUpper(sql)
}

func truncateSQL(sql string, limit int) string {
	if limit <= 0 || len(sql) <= limit {
		return sql
	}
	return sql[:limit] + "..."
}

// GormLevel derives the SQL log level from the application log level.
// Only debug logging shows every statement.
func GormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "debug":
		return gormlogger.Info
	case "error", "fatal":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
