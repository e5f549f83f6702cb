package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB opens a GORM handle on a sqlmock connection using the postgres dialect.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock
}

func TestDatabase_Ping(t *testing.T) {
	gormDB, mock := newMockDB(t)
	db := &Database{DB: gormDB}

	assert.NoError(t, db.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	gormDB, mock := newMockDB(t)
	db := &Database{DB: gormDB, driver: config.DriverPostgres}
	assert.Equal(t, "postgresql", db.System())
	assert.False(t, db.Embedded())

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenDialector(t *testing.T) {
	d, err := openDialector(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = openDialector(&config.DatabaseConfig{Driver: config.DriverPostgres, Host: "db", Port: 5432, DBName: "erp", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = openDialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_SQLiteAutoMigrate(t *testing.T) {
	db, err := Open(context.Background(), &config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, db.Embedded())
	assert.Equal(t, "sqlite", db.System())

	require.NoError(t, db.AutoMigrate())
	for _, table := range []string{"properties", "leases", "accounts", "transactions", "journal_entries",
		"journal_entry_items", "events", "bookings", "inventory_items", "utility_bills", "activity_logs"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
}
