// Command migrate manages the PostgreSQL schema of the reconciliation store.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"text/tabwriter"

	_ "github.com/lib/pq"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/migration"
	"github.com/rukibhamz/erpsolution-sub000/migrations"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run())
}

func run() int {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return 2
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	err = execute(log, migrationsPath, args[0], args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		printUsage()
		return 2
	default:
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		return 1
	}
}

func execute(log *zap.Logger, migrationsPath, command string, args []string) error {
	var source fs.FS = migrations.FS
	if migrationsPath != "" {
		source = os.DirFS(migrationsPath)
	}

	// Commands that only touch files.
	switch command {
	case "create":
		if len(args) == 0 {
			return fmt.Errorf("%w: migrate create <name> [description]", errUsage)
		}
		if migrationsPath == "" {
			migrationsPath = "migrations"
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	case "list":
		list, err := migration.ListMigrations(source)
		if err != nil {
			return err
		}
		printMigrations(os.Stdout, list, 0)
		return nil
	}

	m, closeDB, err := openMigrator(log, source)
	if err != nil {
		return err
	}
	defer closeDB()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "migrate step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "migrate goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("%w: version must not be negative", errUsage)
		}
		return m.GoTo(uint(v))
	case "force":
		v, err := intArg(args, "migrate force <version>")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "status", "version":
		st, err := m.Status()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "version %d", st.Version)
		if st.Dirty {
			fmt.Fprint(os.Stdout, " (dirty: repair the failed migration, then force)")
		}
		fmt.Fprintf(os.Stdout, ", %d pending\n", len(st.Pending))
		printMigrations(os.Stdout, st.Pending, st.Version)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func openMigrator(log *zap.Logger, source fs.FS) (*migration.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		return nil, nil, errors.New("SQLite stores are migrated by the server on startup; migrate only targets PostgreSQL")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, source, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}, nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

func printMigrations(w io.Writer, list []migration.Migration, applied uint) {
	if len(list) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tROLLBACK\tSTATE")
	for _, mg := range list {
		rollback, state := "yes", "pending"
		if !mg.HasDown {
			rollback = "no"
		}
		if mg.Version <= applied {
			state = "applied"
		}
		fmt.Fprintf(tw, "%06d\t%s\t%s\t%s\n", mg.Version, mg.Name, rollback, state)
	}
	_ = tw.Flush()
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Reconciliation database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate up or down to a version
  status                Show the applied version and pending migrations
  force <version>       Record a version after repairing a failed migration
  create <name> [desc]  Write the next numbered migration file pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: the set compiled into the binary;
                        create writes to ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Exit codes:
  0 success, 1 failure, 2 usage error

Environment Variables:
  ERP_DATABASE_HOST, ERP_DATABASE_PORT, ERP_DATABASE_USER, ERP_DATABASE_PASSWORD,
  ERP_DATABASE_DBNAME, ERP_DATABASE_SSLMODE
`)
}
