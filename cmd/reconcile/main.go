// Command reconcile runs the reconciliation operations against the
// configured store without going through the HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/bootstrap"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/auth"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		format   string
		actor    string
		logLevel string
	)
	flag.StringVar(&format, "format", formatTable, "Output format (table, json)")
	flag.StringVar(&actor, "actor", "", "Acting caller ID (defaults to the configured system actor)")
	flag.StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return 2
	}
	name, cmdArgs := args[0], args[1:]
	if _, ok := findCommand(name); !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		return 2
	}

	out, err := newPrinter(os.Stdout, format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	// stdout is reserved for command output
	cfg.Log.Output = "stderr"
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if actor == "" {
		actor = cfg.Authorization.SystemActor
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, providers, err := bootstrap.Observability(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	authz := auth.NewStaticAuthorizer(cfg.Authorization)
	e := &env{
		tokens: auth.NewJWTService(cfg.JWT),
		authz:  authz,
		actor:  actor,
		out:    out,
	}

	if name != "issue-token" {
		app, err := bootstrap.New(ctx, cfg, log, providers, authz)
		if err != nil {
			log.Error("Failed to initialize application", zap.Error(err))
			return 1
		}
		defer func() {
			if err := app.Close(context.Background()); err != nil {
				log.Warn("Failed to release resources", zap.Error(err))
			}
		}()
		e.leases, e.ledger, e.approvals, e.auditor = app.Leases, app.Ledger, app.Approvals, app.Auditor
	}

	err = execute(ctx, e, name, cmdArgs)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFailed):
		return 1
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		printUsage()
		return 2
	case errors.Is(err, errForbidden):
		fmt.Fprintln(os.Stderr, err)
		return 3
	default:
		log.Error("Command failed", zap.String("command", name), zap.Error(err))
		return 1
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Reconciliation tool

Usage:
  reconcile [flags] <command> [command flags] [arguments]

Commands:
`)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %s\n", c.usage)
	}
	fmt.Fprintf(os.Stderr, `
Flags:
  -format string     Output format: table or json (default "table")
  -actor string      Acting caller ID (defaults to authorization.system_actor)
  -log-level string  Log level override

Exit codes:
  0 success, 1 failure, 2 usage error, 3 not authorized

Examples:
  reconcile audit -dry-run
  reconcile -format json recompute-balances
  reconcile reject-transaction -reason "duplicate" 3f0c...
`)
}
