package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPartRepo creates a repository on top of a mocked postgres connection
func newMockPartRepo(t *testing.T) (*GormPartRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, GormConfig(nil))
	require.NoError(t, err)

	return NewGormPartRepository(gormDB), mock, mockDB
}

func deductedPart(t *testing.T) *inventory.Part {
	t.Helper()
	part, err := inventory.NewPart("CELL-MOD-7", "Cell module", 5, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, part.Deduct(2))
	return part
}

func TestGormPartRepository_SaveWithLock(t *testing.T) {
	t.Run("updates when the stored version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepo(t)
		defer mockDB.Close()

		part := deductedPart(t)
		require.Equal(t, 2, part.Version)

		mock.ExpectExec(`UPDATE "parts" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), part)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a conflict when another writer saved first", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepo(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "parts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), deductedPart(t))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps the non-negative check to insufficient stock", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepo(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "parts" SET`).
			WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "chk_parts_quantity_non_negative"})

		err := repo.SaveWithLock(context.Background(), deductedPart(t))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("passes through other database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepo(t)
		defer mockDB.Close()

		boom := errors.New("connection reset")
		mock.ExpectExec(`UPDATE "parts" SET`).WillReturnError(boom)

		err := repo.SaveWithLock(context.Background(), deductedPart(t))

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPartRepository_CreateDuplicateSKU(t *testing.T) {
	repo, mock, mockDB := newMockPartRepo(t)
	defer mockDB.Close()

	part, err := inventory.NewPart("CELL-MOD-7", "Cell module", 1, decimal.NewFromInt(100))
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "parts"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_parts_sku"})

	err = repo.Create(context.Background(), part)

	assert.ErrorIs(t, err, shared.ErrDuplicateSKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}
