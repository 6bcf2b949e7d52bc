package catalog

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupCatalogMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func packageColumns() []string {
	return []string{
		"id", "name", "description", "price", "duration_value", "duration_unit",
		"session_count", "is_active", "created_at", "updated_at",
	}
}

func TestCreatePackage(t *testing.T) {
	repo, mock, close := setupCatalogMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO package_definitions (name, description, price, duration_value, duration_unit, session_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, description, price, duration_value, duration_unit, session_count, is_active, created_at, updated_at
	`)).
		WithArgs("Gold", "Full access", 900000.0, 1, UnitMonth, 24).
		WillReturnRows(sqlmock.NewRows(packageColumns()).
			AddRow(1, "Gold", "Full access", 900000.0, 1, "month", 24, true, now, now))

	pkg, err := repo.Create(context.Background(), "Gold", "Full access", 900000, 1, UnitMonth, 24)
	require.NoError(t, err)
	require.Equal(t, "Gold", pkg.Name)
	require.Equal(t, UnitMonth, pkg.DurationUnit)
	require.True(t, pkg.IsActive)
}

func TestGetPackageByID(t *testing.T) {
	repo, mock, close := setupCatalogMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, description, price, duration_value, duration_unit, session_count, is_active, created_at, updated_at
		FROM package_definitions
		WHERE id = $1
	`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(packageColumns()).
			AddRow(1, "Silver", "Standard", 500000.0, 1, "month", 12, true, now, now))

	pkg, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 500000.0, pkg.Price)
}

func TestDeactivatePackageNotFound(t *testing.T) {
	repo, mock, close := setupCatalogMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE package_definitions
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), 99)
	require.ErrorIs(t, err, ErrPackageNotFound)
}
