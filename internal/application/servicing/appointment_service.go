package servicing

import (
	"context"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentService handles bookings ahead of a visit
type AppointmentService struct {
	appointmentRepo servicing.AppointmentRepository
	eventPublisher  shared.EventPublisher
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(appointmentRepo servicing.AppointmentRepository) *AppointmentService {
	return &AppointmentService{appointmentRepo: appointmentRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AppointmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Book creates a pending appointment. A customer booking without a customer id books for themselves.
func (s *AppointmentService) Book(ctx context.Context, by identity.Caller, req BookAppointmentRequest) (*AppointmentResponse, error) {
	customerID := req.CustomerID
	if customerID == uuid.Nil && by.Role == identity.RoleCustomer {
		customerID = by.UserID
	}

	appt, err := servicing.BookAppointment(by, customerID, req.VehicleID, req.ScheduledAt, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Create(ctx, appt); err != nil {
		return nil, err
	}

	response := ToAppointmentResponse(appt)
	return &response, nil
}

// Confirm accepts a pending booking
func (s *AppointmentService) Confirm(ctx context.Context, by identity.Caller, id uuid.UUID) (*AppointmentResponse, error) {
	appt, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appt.Confirm(by); err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.SaveWithLock(ctx, appt); err != nil {
		return nil, err
	}
	publishAfterCommit(ctx, s.eventPublisher, appt)

	response := ToAppointmentResponse(appt)
	return &response, nil
}

// Cancel withdraws a booking that has not been converted into an order
func (s *AppointmentService) Cancel(ctx context.Context, by identity.Caller, id uuid.UUID, req CancelAppointmentRequest) (*AppointmentResponse, error) {
	appt, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appt.Cancel(by, req.Reason); err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.SaveWithLock(ctx, appt); err != nil {
		return nil, err
	}
	publishAfterCommit(ctx, s.eventPublisher, appt)

	response := ToAppointmentResponse(appt)
	return &response, nil
}

// Get retrieves an appointment. Customers only see their own.
func (s *AppointmentService) Get(ctx context.Context, by identity.Caller, id uuid.UUID) (*AppointmentResponse, error) {
	appt, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if by.Role == identity.RoleCustomer && appt.CustomerID != by.UserID {
		return nil, shared.NewNotFound("appointment", id)
	}
	response := ToAppointmentResponse(appt)
	return &response, nil
}

// List retrieves appointments, earliest first. Customers are scoped to their own bookings.
func (s *AppointmentService) List(ctx context.Context, by identity.Caller, filter AppointmentListFilter) ([]AppointmentResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "scheduled_at",
		OrderDir: "asc",
	}.Normalize()

	if filter.Status != "" {
		status, err := servicing.ParseAppointmentStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = status
	}
	if by.Role == identity.RoleCustomer {
		domainFilter.Filters["customer_id"] = by.UserID
	} else if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.From != nil {
		domainFilter.Filters["scheduled_from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["scheduled_to"] = *filter.To
	}

	appts, err := s.appointmentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.appointmentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]AppointmentResponse, len(appts))
	for i := range appts {
		out[i] = ToAppointmentResponse(&appts[i])
	}
	return out, total, nil
}
