package persistence

import (
	"context"
	"time"

	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var serviceOrderQuery = listQuery{
	equality: map[string]string{
		"status":        "status",
		"customer_id":   "customer_id",
		"technician_id": "technician_id",
		"advisor_id":    "advisor_id",
	},
	sortFields:  ServiceOrderSortFields,
	defaultSort: "created_at",
}

// GormServiceOrderRepository implements servicing.ServiceOrderRepository using GORM
type GormServiceOrderRepository struct {
	db *gorm.DB
}

// NewGormServiceOrderRepository creates a new GormServiceOrderRepository
func NewGormServiceOrderRepository(db *gorm.DB) *GormServiceOrderRepository {
	return &GormServiceOrderRepository{db: db}
}

func (r *GormServiceOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC").Order("id ASC")
	})
}

// FindByID loads the order with its items
func (r *GormServiceOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*servicing.ServiceOrder, error) {
	var order servicing.ServiceOrder
	if err := r.withItems(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &order, nil
}

// FindByAppointment finds the order opened from an appointment
func (r *GormServiceOrderRepository) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*servicing.ServiceOrder, error) {
	var order servicing.ServiceOrder
	if err := r.withItems(ctx).First(&order, "appointment_id = ?", appointmentID).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &order, nil
}

// FindAll lists orders matching the filter, with their items
func (r *GormServiceOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]servicing.ServiceOrder, error) {
	var orders []servicing.ServiceOrder
	if err := serviceOrderQuery.page(r.withItems(ctx).Model(&servicing.ServiceOrder{}), filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormServiceOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := serviceOrderQuery.where(r.db.WithContext(ctx).Model(&servicing.ServiceOrder{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the order together with any items it carries
func (r *GormServiceOrderRepository) Create(ctx context.Context, order *servicing.ServiceOrder) error {
	return translateError(r.db.WithContext(ctx).Create(order).Error, shared.ErrAlreadyExists)
}

// SaveWithLock saves the order header with optimistic locking (checks version)
func (r *GormServiceOrderRepository) SaveWithLock(ctx context.Context, order *servicing.ServiceOrder) error {
	result := r.db.WithContext(ctx).
		Model(&servicing.ServiceOrder{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":        order.Status,
			"technician_id": order.TechnicianID,
			"completed_at":  order.CompletedAt,
			"notes":         order.Notes,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GuardStatus touches the order row only while it still has the given status.
// The write takes the row lock for the rest of the transaction and leaves the
// version alone, so line edits do not race header transitions.
func (r *GormServiceOrderRepository) GuardStatus(ctx context.Context, orderID uuid.UUID, status servicing.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&servicing.ServiceOrder{}).
		Where("id = ? AND status = ?", orderID, status).
		Update("updated_at", time.Now())

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict,
			"Service order changed status while it was being edited")
	}
	return nil
}

// AddItem inserts a new line. A second line for the same part request is refused.
func (r *GormServiceOrderRepository) AddItem(ctx context.Context, item *servicing.OrderItem) error {
	return translateError(r.db.WithContext(ctx).Create(item).Error, shared.ErrAlreadyProcessed)
}

// SaveItem stores a line decision, provided the stored line is still REQUESTED
func (r *GormServiceOrderRepository) SaveItem(ctx context.Context, item *servicing.OrderItem) error {
	result := r.db.WithContext(ctx).
		Model(&servicing.OrderItem{}).
		Where("id = ? AND status = ?", item.ID, servicing.LineStatusRequested).
		Updates(map[string]interface{}{
			"status":     item.Status,
			"updated_at": item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ servicing.ServiceOrderRepository = (*GormServiceOrderRepository)(nil)
