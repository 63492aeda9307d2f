//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/evcare/backend/internal/infrastructure/migration"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway postgres and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("evcare_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestPostgres_ConcurrentApprovalsAgainstRowLocks(t *testing.T) {
	w := newWorkshopOn(t, newPostgresDB(t))
	part := w.part(t, "PG-CELL-01", 7, "55.00")
	order := w.orderInProgress(t)

	const requests = 6
	ids := make([]uuid.UUID, requests)
	for i := range ids {
		ids[i] = w.request(t, order.ID, part.ID, 2).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, requests*2)
	// every request is submitted twice
	for i := 0; i < requests*2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.requests.Approve(context.Background(), w.advisor, ids[i%requests], servicingapp.DecidePartRequestRequest{})
		}(i)
	}
	wg.Wait()

	fulfilled := 0
	for _, err := range errs {
		switch {
		case err == nil:
			fulfilled++
		case shared.ErrorCode(err) == shared.CodeAlreadyProcessed,
			shared.ErrorCode(err) == shared.CodeInsufficientStock,
			shared.ErrorCode(err) == shared.CodeConcurrencyConflict:
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 3, fulfilled)
	assert.Equal(t, 1, w.stock(t, part.ID))

	var deducted int64
	require.NoError(t, w.db.Model(&inventory.StockMovement{}).
		Where("part_id = ? AND kind = ?", part.ID, inventory.MovementDeduction).
		Count(&deducted).Error)
	assert.Equal(t, int64(fulfilled), deducted)
}

func TestPostgres_CheckConstraintBacksTheLedger(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormPartRepository(db)
	ctx := context.Background()

	part, err := inventory.NewPart("PG-FUSE-02", "Fuse", 1, decimal.NewFromInt(9))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, part))

	// bypass the aggregate to prove the database refuses negative stock on its own
	part.QuantityInStock = -1
	part.IncrementVersion()
	err = repo.SaveWithLock(ctx, part)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	dup, err := inventory.NewPart("PG-FUSE-02", "Other fuse", 1, decimal.NewFromInt(9))
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrDuplicateSKU)
}
