package servicing

import (
	"context"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentRepository defines persistence for appointments
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Appointment, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, appt *Appointment) error
	SaveWithLock(ctx context.Context, appt *Appointment) error
}

// ServiceOrderRepository defines persistence for the ServiceOrder aggregate
type ServiceOrderRepository interface {
	// FindByID loads the order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceOrder, error)
	FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*ServiceOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ServiceOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts the order and any items it already carries
	Create(ctx context.Context, order *ServiceOrder) error

	// SaveWithLock persists header fields (status, technician, completion) using
	// the version as a compare-and-set token; items are not touched.
	SaveWithLock(ctx context.Context, order *ServiceOrder) error

	// GuardStatus row-locks the order for the rest of the transaction provided it
	// is still in the given status, without bumping its version. It returns
	// ErrConcurrencyConflict when the status has moved.
	GuardStatus(ctx context.Context, orderID uuid.UUID, status OrderStatus) error

	AddItem(ctx context.Context, item *OrderItem) error

	// SaveItem persists the decision on a line that is still REQUESTED in storage;
	// a line decided concurrently yields ErrConcurrencyConflict.
	SaveItem(ctx context.Context, item *OrderItem) error
}

// PartRequestRepository defines persistence for part requests
type PartRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PartRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PartRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, req *PartRequest) error

	// SaveWithLock persists a transition; a stale version yields ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, req *PartRequest) error
}
