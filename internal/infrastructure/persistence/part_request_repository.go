package persistence

import (
	"context"

	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var partRequestQuery = listQuery{
	equality: map[string]string{
		"status":        "status",
		"order_id":      "order_id",
		"technician_id": "technician_id",
	},
	sortFields:  PartRequestSortFields,
	defaultSort: "created_at",
}

// GormPartRequestRepository implements servicing.PartRequestRepository using GORM
type GormPartRequestRepository struct {
	db *gorm.DB
}

// NewGormPartRequestRepository creates a new GormPartRequestRepository
func NewGormPartRequestRepository(db *gorm.DB) *GormPartRequestRepository {
	return &GormPartRequestRepository{db: db}
}

// FindByID finds a part request by its ID
func (r *GormPartRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*servicing.PartRequest, error) {
	var req servicing.PartRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &req, nil
}

// FindAll lists part requests matching the filter
func (r *GormPartRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]servicing.PartRequest, error) {
	var reqs []servicing.PartRequest
	if err := partRequestQuery.page(r.db.WithContext(ctx).Model(&servicing.PartRequest{}), filter).Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Count counts part requests matching the filter
func (r *GormPartRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := partRequestQuery.where(r.db.WithContext(ctx).Model(&servicing.PartRequest{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new part request
func (r *GormPartRequestRepository) Create(ctx context.Context, req *servicing.PartRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormPartRequestRepository) SaveWithLock(ctx context.Context, req *servicing.PartRequest) error {
	result := r.db.WithContext(ctx).
		Model(&servicing.PartRequest{}).
		Where("id = ? AND version = ?", req.ID, req.Version-1).
		Updates(map[string]interface{}{
			"status":         req.Status,
			"approver_id":    req.ApproverID,
			"approver_notes": req.ApproverNotes,
			"approved_at":    req.ApprovedAt,
			"rejected_at":    req.RejectedAt,
			"cancelled_at":   req.CancelledAt,
			"version":        req.Version,
			"updated_at":     req.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ servicing.PartRequestRepository = (*GormPartRequestRepository)(nil)
