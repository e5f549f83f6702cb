package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// DBInstrumentation adds spans, query metrics and slow query reporting to a
// GORM connection.
type DBInstrumentation struct {
	cfg           config.TelemetryConfig
	logger        *zap.Logger
	queryTotal    *Counter
	queryDuration *Histogram
	slowQueries   *Counter
}

// InstrumentDB registers otelgorm (when DB tracing is on), timing callbacks
// and connection pool gauges on db. dbSystem is "postgresql" or "sqlite".
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, meter metric.Meter, dbSystem string, log *zap.Logger) (*DBInstrumentation, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.DBSlowQueryThresh <= 0 {
		cfg.DBSlowQueryThresh = 200 * time.Millisecond
	}
	inst := &DBInstrumentation{cfg: cfg, logger: log.Named("db")}

	var err error
	if inst.queryTotal, err = NewCounter(meter, "db_query_total", "Database statements by operation", "{query}"); err != nil {
		return nil, err
	}
	if inst.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if inst.slowQueries, err = NewCounter(meter, "db_slow_query_total", "Statements slower than the configured threshold", "{query}"); err != nil {
		return nil, err
	}

	if cfg.DBTraceEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(dbSystem)}
		if !cfg.DBLogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, fmt.Errorf("register otelgorm: %w", err)
		}
	}

	if err := inst.registerCallbacks(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := registerPoolGauges(meter, sqlDB); err != nil {
		return nil, err
	}

	inst.logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.DBTraceEnabled),
		zap.Duration("slow_query_threshold", cfg.DBSlowQueryThresh),
	)
	return inst, nil
}

func (i *DBInstrumentation) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	type hook func(name string, fn func(*gorm.DB)) error
	ops := []struct {
		op     string
		before hook
		after  hook
	}{
		{"create",
			func(n string, f func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, f) }},
		{"query",
			func(n string, f func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, f) }},
		{"update",
			func(n string, f func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, f) }},
		{"delete",
			func(n string, f func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, f) }},
		{"row",
			func(n string, f func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Row().After("gorm:row").Register(n, f) }},
		{"raw",
			func(n string, f func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, f) }},
	}

	for _, o := range ops {
		op := o.op
		if err := o.before("reconcile_timing:before_"+op, startTimer); err != nil {
			return fmt.Errorf("register before_%s callback: %w", op, err)
		}
		if err := o.after("reconcile_timing:after_"+op, func(tx *gorm.DB) { i.observe(tx, op) }); err != nil {
			return fmt.Errorf("register after_%s callback: %w", op, err)
		}
	}
	return nil
}

func startTimer(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (i *DBInstrumentation) observe(db *gorm.DB, op string) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	attrs := []attribute.KeyValue{AttrDBOperation.String(op), AttrDBTable.String(db.Statement.Table)}
	i.queryTotal.Inc(ctx, attrs...)
	i.queryDuration.RecordDuration(ctx, elapsed, attrs...)

	failed := db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
			attribute.String("db.sql.table", db.Statement.Table),
		)
		if failed {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}

	if elapsed > i.cfg.DBSlowQueryThresh {
		i.slowQueries.Inc(ctx, attrs...)
		if span.IsRecording() {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
		}
		fields := append([]zap.Field{
			zap.String("operation", op),
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", i.cfg.DBSlowQueryThresh),
		}, logger.Fields(ctx)...)
		if i.cfg.DBLogFullSQL {
			fields = append(fields, zap.String("sql", db.Statement.SQL.String()))
		}
		i.logger.Warn("slow query", fields...)
	}
}

func registerPoolGauges(meter metric.Meter, sqlDB *sql.DB) error {
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"), metric.WithUnit("{connection}"))
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"), metric.WithUnit("{wait}"))
	if err != nil {
		return fmt.Errorf("failed to create pool counter: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(maxConns, int64(s.MaxOpenConnections))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, conns, maxConns, waits)
	if err != nil {
		return fmt.Errorf("failed to register pool callback: %w", err)
	}
	return nil
}
