package persistence

import (
	"context"

	"github.com/evcare/backend/internal/domain/catalog"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var offeringQuery = listQuery{
	equality:    map[string]string{"active": "active"},
	search:      []string{"code", "name"},
	sortFields:  OfferingSortFields,
	defaultSort: "code",
}

// GormServiceOfferingRepository implements catalog.ServiceOfferingRepository using GORM
type GormServiceOfferingRepository struct {
	db *gorm.DB
}

// NewGormServiceOfferingRepository creates a new GormServiceOfferingRepository
func NewGormServiceOfferingRepository(db *gorm.DB) *GormServiceOfferingRepository {
	return &GormServiceOfferingRepository{db: db}
}

// FindByID finds an offering by its ID
func (r *GormServiceOfferingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ServiceOffering, error) {
	var offering catalog.ServiceOffering
	if err := r.db.WithContext(ctx).First(&offering, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &offering, nil
}

// ExistsByCode checks whether a service code is taken
func (r *GormServiceOfferingRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ServiceOffering{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists offerings matching the filter
func (r *GormServiceOfferingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ServiceOffering, error) {
	var offerings []catalog.ServiceOffering
	if err := offeringQuery.page(r.db.WithContext(ctx).Model(&catalog.ServiceOffering{}), filter).Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

// Count counts offerings matching the filter
func (r *GormServiceOfferingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := offeringQuery.where(r.db.WithContext(ctx).Model(&catalog.ServiceOffering{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new offering
func (r *GormServiceOfferingRepository) Create(ctx context.Context, offering *catalog.ServiceOffering) error {
	return translateError(r.db.WithContext(ctx).Create(offering).Error, shared.ErrAlreadyExists)
}

// Save updates an offering. Order lines carry their own price snapshot, so no lock is needed.
func (r *GormServiceOfferingRepository) Save(ctx context.Context, offering *catalog.ServiceOffering) error {
	return translateError(r.db.WithContext(ctx).Save(offering).Error, shared.ErrAlreadyExists)
}

var _ catalog.ServiceOfferingRepository = (*GormServiceOfferingRepository)(nil)
