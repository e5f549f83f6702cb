package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE accounts;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"allowed field is kept", "current_balance", "current_balance"},
		{"empty falls back", "", "created_at"},
		{"unknown falls back", "password", "created_at"},
		{"injection falls back", "code; DROP TABLE accounts", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, AccountSortFields, "created_at"))
		})
	}
}

func TestAccountRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormAccountRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE \(code LIKE \$1 OR name LIKE \$2\) AND account_type = \$3 AND is_active = \$4`).
		WithArgs("%cash%", "%cash%", "asset", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE \(code LIKE \$1 OR name LIKE \$2\) AND account_type = \$3 AND is_active = \$4 ORDER BY code ASC LIMIT \$5 OFFSET \$6`).
		WithArgs("%cash%", "%cash%", "asset", true, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}).AddRow(uuid.New().String(), "1000"))

	page, err := repo.List(context.Background(), shared.Filter{
		Page:     2,
		PageSize: 10,
		OrderBy:  "code",
		OrderDir: "asc",
		Search:   "cash",
		Equals:   map[string]any{"is_active": true, "account_type": "asset", "secret": "ignored"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "1000", page.Items[0].Code)
}

func TestPropertyRepository_List_DefaultsPaging(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPropertyRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "properties"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "properties" ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(shared.DefaultPageSize).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	page, err := repo.List(context.Background(), shared.Filter{OrderBy: "password"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, shared.DefaultPageSize, page.PageSize)
}
