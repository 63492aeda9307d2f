package persistence

import (
	"context"

	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var appointmentQuery = listQuery{
	equality:    map[string]string{"status": "status", "customer_id": "customer_id"},
	sortFields:  AppointmentSortFields,
	defaultSort: "scheduled_at",
	extra: func(query *gorm.DB, key string, value interface{}) (*gorm.DB, bool) {
		switch key {
		case "scheduled_from":
			return query.Where("scheduled_at >= ?", value), true
		case "scheduled_to":
			return query.Where("scheduled_at < ?", value), true
		}
		return query, false
	},
}

// GormAppointmentRepository implements servicing.AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByID finds an appointment by its ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*servicing.Appointment, error) {
	var appt servicing.Appointment
	if err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return &appt, nil
}

// FindAll lists appointments matching the filter
func (r *GormAppointmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]servicing.Appointment, error) {
	var appts []servicing.Appointment
	if err := appointmentQuery.page(r.db.WithContext(ctx).Model(&servicing.Appointment{}), filter).Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// Count counts appointments matching the filter
func (r *GormAppointmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := appointmentQuery.where(r.db.WithContext(ctx).Model(&servicing.Appointment{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new appointment
func (r *GormAppointmentRepository) Create(ctx context.Context, appt *servicing.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormAppointmentRepository) SaveWithLock(ctx context.Context, appt *servicing.Appointment) error {
	result := r.db.WithContext(ctx).
		Model(&servicing.Appointment{}).
		Where("id = ? AND version = ?", appt.ID, appt.Version-1).
		Updates(map[string]interface{}{
			"status":           appt.Status,
			"confirmed_by":     appt.ConfirmedBy,
			"confirmed_at":     appt.ConfirmedAt,
			"cancel_reason":    appt.CancelReason,
			"cancelled_at":     appt.CancelledAt,
			"service_order_id": appt.ServiceOrderID,
			"version":          appt.Version,
			"updated_at":       appt.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ servicing.AppointmentRepository = (*GormAppointmentRepository)(nil)
