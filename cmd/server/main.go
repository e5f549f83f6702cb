package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rukibhamz/erpsolution-sub000/internal/bootstrap"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/auth"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/scheduler"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/handler"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/middleware"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/rukibhamz/erpsolution-sub000/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Reconciliation API
//	@version		1.0
//	@description	Lease, ledger and integrity reconciliation for the property ERP.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Logger and telemetry
	log, providers, err := bootstrap.Observability(ctx, cfg)
	if err != nil {
		panic("Failed to initialize observability: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting reconciliation server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Token capabilities first, static grants for trusted callers second
	authorizer := auth.NewClaimsAuthorizer(auth.NewStaticAuthorizer(cfg.Authorization))

	app, err := bootstrap.New(ctx, cfg, log, providers, authorizer)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			log.Warn("Failed to release resources", zap.Error(err))
		}
	}()

	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if app.Redis != nil {
		revocations = auth.NewRedisRevocationList(app.Redis)
	}

	// Background reconciliation
	var (
		sched   *scheduler.Scheduler
		trigger *scheduler.CronTrigger
	)
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewReconciliationExecutor(app.Auditor, app.Leases, cfg.Authorization.SystemActor, log)
		sched = scheduler.NewScheduler(scheduler.OptionsFromConfig(cfg.Scheduler), executor, app.Metrics, log)
		trigger, err = scheduler.NewCronTrigger(cfg.Scheduler, sched, log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
	}

	// Set Gin mode
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to configure request validation", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Revocations = revocations
	jwtConfig.Logger = log

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log, middleware.PanicResponse))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(providers.Meter))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.Profiling(cfg.Profiling.Enabled))

	if cfg.HTTP.RateLimit > 0 {
		var limiter middleware.Limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateLimitWindow)
		if app.Redis != nil {
			limiter = middleware.NewRedisRateLimiter(app.Redis, cfg.HTTP.RateLimit, cfg.HTTP.RateLimitWindow)
		}
		engine.Use(middleware.RateLimit(limiter, log))
	}

	// Liveness and readiness
	checks := map[string]handler.ReadinessCheck{
		"database": app.Database.Ping,
	}
	if app.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, checks)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		strict := middleware.DefaultJWTConfig(jwtService)
		strict.SkipPaths = nil
		strict.SkipPathPrefixes = nil
		strict.Revocations = revocations
		strict.Logger = log
		docsGuard, err := middleware.DocsGuard(cfg.Swagger, middleware.JWTAuthMiddlewareWithConfig(strict))
		if err != nil {
			log.Fatal("Invalid swagger configuration", zap.Error(err))
		}
		engine.GET("/swagger/*any", docsGuard, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	reconciliationHandler := handler.NewReconciliationHandler(app.Leases, app.Ledger, app.Approvals, app.Auditor)
	caps := middleware.CapabilityConfig{Authorizer: authorizer, Logger: log}
	api := router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithLogger(log)).
		Register(router.NewReconciliationRoutes(reconciliationHandler, caps)).
		Register(router.NewActivityRoutes(handler.NewActivityHandler(app.History), caps)).
		Register(router.NewSystemRoutes(systemHandler))
	api.Setup()

	endpoints := make([]string, 0)
	for _, e := range api.Endpoints() {
		endpoints = append(endpoints, e.String())
	}
	systemHandler.SetEndpoints(endpoints)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		_ = trigger.Stop(shutdownCtx)
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler did not drain", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
