// Package integration runs the reconciliation services against real
// PostgreSQL and Redis instances started with testcontainers.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/migration"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence"
	"github.com/rukibhamz/erpsolution-sub000/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestDB is a migrated PostgreSQL store in its own container
type TestDB struct {
	*persistence.Database
	t *testing.T
}

// NewTestDB starts PostgreSQL, connects the way the server does and applies
// the embedded migrations. Everything is torn down when the test ends.
// Set TEST_DB_DEBUG to log every statement.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("reconcile_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate PostgreSQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		DBName:          "reconcile_test",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
	}

	var gormLog gormlogger.Interface
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLog = logger.NewGormLogger(zaptest.NewLogger(t), logger.GormConfig{Level: gormlogger.Info})
	}
	db, err := persistence.Open(ctx, cfg, gormLog)
	require.NoError(t, err, "connect to PostgreSQL")
	t.Cleanup(func() { _ = db.Close() })

	migrate(t, db.DB)
	return &TestDB{Database: db, t: t}
}

func migrate(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err, "create migrator")
	require.NoError(t, m.Up(), "apply migrations")

	st, err := m.Status()
	require.NoError(t, err)
	require.False(t, st.Dirty)
	require.Empty(t, st.Pending, "migrations left unapplied")
}

// Exec runs raw SQL, used to plant inconsistencies the domain would refuse
func (tdb *TestDB) Exec(query string, args ...any) {
	tdb.t.Helper()
	require.NoError(tdb.t, tdb.DB.Exec(query, args...).Error)
}

// NewTestRedis starts a Redis container and returns a connected client.
// The client is closed and the container terminated when the test ends.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "start Redis container")

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err, "get Redis endpoint")

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err(), "ping Redis")

	t.Cleanup(func() {
		_ = client.Close()
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate Redis container: %v", err)
		}
	})
	return client
}
