package inventory

import (
	"context"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PartRepository defines persistence operations for the Part aggregate
type PartRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Part, error)
	FindBySKU(ctx context.Context, sku string) (*Part, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Part, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a new part; a duplicate SKU yields shared.ErrDuplicateSKU
	Create(ctx context.Context, part *Part) error

	// SaveWithLock persists a mutated part using its version as an optimistic lock.
	// The part's Version must already be incremented; the update only applies
	// when the stored version equals Version-1, otherwise ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, part *Part) error
}

// StockMovementRepository persists the stock audit trail
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByPart(ctx context.Context, partID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountByPart(ctx context.Context, partID uuid.UUID) (int64, error)
}
