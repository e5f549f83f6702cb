// Package bootstrap wires configuration into the running reconciliation
// services. The HTTP server and the reconcile CLI share it so both run the
// same stack against the same store.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	activityapp "github.com/rukibhamz/erpsolution-sub000/internal/application/activity"
	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	leaseapp "github.com/rukibhamz/erpsolution-sub000/internal/application/lease"
	ledgerapp "github.com/rukibhamz/erpsolution-sub000/internal/application/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/event"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/lock"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/storage"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const meterName = "reconcile"

// Observability starts telemetry and returns a logger teed into the OTEL
// log pipeline. The returned providers must be shut down by the caller.
func Observability(ctx context.Context, cfg *config.Config) (*zap.Logger, *telemetry.Providers, error) {
	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Fields:     map[string]string{"service": cfg.App.Name, "env": cfg.App.Env},
	}
	base, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.Profiling, base)
	if err != nil {
		return nil, nil, fmt.Errorf("init telemetry: %w", err)
	}
	if !providers.Logs.IsEnabled() {
		return base, providers, nil
	}

	log, err := logger.New(logCfg, providers.Logs.ZapCore(cfg.Telemetry.ServiceName, zapcore.InfoLevel))
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	_ = base.Sync()
	return log, providers, nil
}

// App holds the wired services and the resources behind them
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Database *persistence.Database
	Locker   shared.EntityLocker
	// Redis is the client behind the Redis locker; nil with the memory locker
	Redis   *redis.Client
	Bus     *event.InMemoryEventBus
	Metrics *telemetry.ReconciliationMetrics

	Leases    *leaseapp.LeaseStateReconciler
	Ledger    *ledgerapp.TransactionLedgerReconciler
	Approvals *ledgerapp.ApprovalWorkflow
	Auditor   *audit.IntegrityAuditor
	History   *activityapp.HistoryService

	closers []func() error
}

// New opens the store, the lock backend and the event bus, then builds the
// reconciliation services on top of them. authorizer gates the approval
// workflow.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, providers *telemetry.Providers, authorizer shared.Authorizer) (*App, error) {
	app := &App{Config: cfg, Logger: log}
	if err := app.init(ctx, providers, authorizer); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context, providers *telemetry.Providers, authorizer shared.Authorizer) error {
	cfg, log := a.Config, a.Logger

	gormLog := logger.NewGormLogger(log, logger.GormConfig{
		Level:         logger.GormLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		MaxSQLLength:  2048,
	})
	db, err := persistence.Open(ctx, &cfg.Database, gormLog)
	if err != nil {
		return err
	}
	a.Database = db
	a.closers = append(a.closers, db.Close)
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if db.Embedded() {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}

	meter := providers.Meter.Meter(meterName)
	if _, err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, meter, db.System(), log); err != nil {
		return fmt.Errorf("instrument database: %w", err)
	}
	if a.Metrics, err = telemetry.NewReconciliationMetrics(meter); err != nil {
		return fmt.Errorf("reconciliation metrics: %w", err)
	}

	locker, closeLocker, err := lock.NewFactory(cfg.Lock, cfg.Redis,
		lock.WithLogger(log),
		lock.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create(ctx)
	if err != nil {
		return err
	}
	a.Locker = locker
	a.closers = append(a.closers, closeLocker)
	if rl, ok := locker.(*lock.RedisLocker); ok {
		a.Redis = rl.Client()
	}

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	a.Bus = event.NewInMemoryEventBus(log)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	activityHandler := event.NewActivityLogHandler(activityRepo, serializer, log)
	a.Bus.Subscribe(activityHandler)
	a.History = activityapp.NewHistoryService(activityRepo, serializer, log)
	if err := a.Bus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}
	a.closers = append(a.closers, func() error { return a.Bus.Stop(context.Background()) })

	archiver, err := storage.NewReportArchiver(ctx, cfg.Archive, log)
	if err != nil {
		return fmt.Errorf("report archiver: %w", err)
	}

	a.buildServices(authorizer, archiver)
	return nil
}

func (a *App) buildServices(authorizer shared.Authorizer, archiver audit.ReportArchiver) {
	cfg, log, db := a.Config, a.Logger, a.Database.DB
	retries := cfg.Reconciliation.RetryAttempts

	txManager := persistence.NewGormTxManager(db)
	propertyRepo := persistence.NewGormPropertyRepository(db)
	leaseRepo := persistence.NewGormLeaseRepository(db)
	accountRepo := persistence.NewGormAccountRepository(db)
	transactionRepo := persistence.NewGormTransactionRepository(db)
	journalRepo := persistence.NewGormJournalEntryRepository(db)

	leaseOpts := []leaseapp.Option{leaseapp.WithRetryAttempts(retries)}
	if cfg.Reconciliation.HighRentMultiplier > 0 {
		leaseOpts = append(leaseOpts, leaseapp.WithHighRentMultiplier(decimal.NewFromFloat(cfg.Reconciliation.HighRentMultiplier)))
	}
	a.Leases = leaseapp.NewLeaseStateReconciler(
		propertyRepo, leaseRepo, txManager, a.Locker, a.Bus, shared.SystemClock{}, log, leaseOpts...)

	ledgerOpts := []ledgerapp.Option{
		ledgerapp.WithRetryAttempts(retries),
		ledgerapp.WithMetrics(a.Metrics),
	}
	a.Ledger = ledgerapp.NewTransactionLedgerReconciler(
		accountRepo, transactionRepo, journalRepo, txManager, a.Locker, a.Bus, shared.SystemClock{}, log, ledgerOpts...)
	a.Approvals = ledgerapp.NewApprovalWorkflow(
		transactionRepo, journalRepo, accountRepo, a.Ledger, authorizer,
		txManager, a.Locker, a.Bus, shared.SystemClock{}, log, ledgerOpts...)

	auditOpts := []audit.Option{
		audit.WithRetryAttempts(retries),
		audit.WithMetrics(a.Metrics),
	}
	if archiver != nil {
		auditOpts = append(auditOpts, audit.WithArchiver(archiver))
	}
	a.Auditor = audit.NewIntegrityAuditor(a.Leases, a.Ledger, audit.Repositories{
		Properties: propertyRepo,
		Leases:     leaseRepo,
		Accounts:   accountRepo,
		Events:     persistence.NewGormEventRepository(db),
		Bookings:   persistence.NewGormBookingRepository(db),
		Inventory:  persistence.NewGormInventoryItemRepository(db),
		Utilities:  persistence.NewGormUtilityBillRepository(db),
	}, txManager, a.Locker, a.Bus, shared.SystemClock{}, log, auditOpts...)
}

// Close releases resources in reverse order of acquisition
func (a *App) Close(_ context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
