package persistence

import (
	"context"
	"strings"

	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var partQuery = listQuery{
	equality:    map[string]string{"status": "status"},
	search:      []string{"sku", "name"},
	sortFields:  PartSortFields,
	defaultSort: "sku",
}

// GormPartRepository implements inventory.PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GormPartRepository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

// FindByID finds a part by its ID
func (r *GormPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Part, error) {
	var part inventory.Part
	if err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &part, nil
}

// FindBySKU finds a part by its SKU
func (r *GormPartRepository) FindBySKU(ctx context.Context, sku string) (*inventory.Part, error) {
	var part inventory.Part
	if err := r.db.WithContext(ctx).First(&part, "sku = ?", strings.TrimSpace(sku)).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &part, nil
}

// ExistsBySKU checks whether a SKU is already registered
func (r *GormPartRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.Part{}).
		Where("sku = ?", strings.TrimSpace(sku)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists parts matching the filter
func (r *GormPartRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Part, error) {
	var parts []inventory.Part
	if err := partQuery.page(r.db.WithContext(ctx).Model(&inventory.Part{}), filter).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// Count counts parts matching the filter
func (r *GormPartRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := partQuery.where(r.db.WithContext(ctx).Model(&inventory.Part{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new part
func (r *GormPartRepository) Create(ctx context.Context, part *inventory.Part) error {
	return translateError(r.db.WithContext(ctx).Create(part).Error, shared.ErrDuplicateSKU)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormPartRepository) SaveWithLock(ctx context.Context, part *inventory.Part) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.Part{}).
		Where("id = ? AND version = ?", part.ID, part.Version-1).
		Updates(map[string]interface{}{
			"name":              part.Name,
			"price":             part.Price,
			"quantity_in_stock": part.QuantityInStock,
			"status":            part.Status,
			"version":           part.Version,
			"updated_at":        part.UpdatedAt,
		})

	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ inventory.PartRepository = (*GormPartRepository)(nil)

// GormStockMovementRepository implements inventory.StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement to the audit trail
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByPart lists a part's movements
func (r *GormStockMovementRepository) FindByPart(ctx context.Context, partID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := listQuery{sortFields: MovementSortFields, defaultSort: "created_at"}.
		page(r.db.WithContext(ctx).Model(&inventory.StockMovement{}).Where("part_id = ?", partID), filter)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByPart counts a part's movements
func (r *GormStockMovementRepository) CountByPart(ctx context.Context, partID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("part_id = ?", partID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
