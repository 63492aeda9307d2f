package persistence

import (
	"context"

	"github.com/evcare/backend/internal/domain/finance"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var invoiceQuery = listQuery{
	equality:    map[string]string{"status": "status", "customer_id": "customer_id"},
	sortFields:  InvoiceSortFields,
	defaultSort: "issued_at",
	extra: func(query *gorm.DB, key string, value interface{}) (*gorm.DB, bool) {
		if key == "overdue_at" {
			return query.Where("status = ? AND due_at < ?", finance.InvoiceStatusPending, value), true
		}
		return query, false
	},
}

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var inv finance.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &inv, nil
}

// FindByOrder finds the invoice minted for an order
func (r *GormInvoiceRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*finance.Invoice, error) {
	var inv finance.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "order_id = ?", orderID).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &inv, nil
}

// ExistsForOrder checks whether the order already has an invoice
func (r *GormInvoiceRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&finance.Invoice{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, error) {
	var invoices []finance.Invoice
	if err := invoiceQuery.page(r.db.WithContext(ctx).Model(&finance.Invoice{}), filter).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := invoiceQuery.where(r.db.WithContext(ctx).Model(&finance.Invoice{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the invoice; the unique order_id index rejects a second one
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *finance.Invoice) error {
	return translateError(r.db.WithContext(ctx).Create(inv).Error, shared.ErrInvoiceAlreadyExists)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *finance.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&finance.Invoice{}).
		Where("id = ? AND version = ?", inv.ID, inv.Version-1).
		Updates(map[string]interface{}{
			"status":        inv.Status,
			"paid_at":       inv.PaidAt,
			"cancelled_at":  inv.CancelledAt,
			"cancel_reason": inv.CancelReason,
			"version":       inv.Version,
			"updated_at":    inv.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
