package servicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentStatus represents the status of a booked visit
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusConverted AppointmentStatus = "CONVERTED"
)

// IsValid checks if the status is a known value
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusConverted:
		return true
	}
	return false
}

// String returns the string representation of AppointmentStatus
func (s AppointmentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return target == AppointmentStatusConfirmed || target == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return target == AppointmentStatusConverted || target == AppointmentStatusCancelled
	case AppointmentStatusCancelled, AppointmentStatusConverted:
		return false // Terminal states
	}
	return false
}

// ParseAppointmentStatus converts a raw value, rejecting unknown statuses
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	st := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown appointment status %q", s))
	}
	return st, nil
}

// Appointment is a booked visit. Once confirmed it can be converted into
// exactly one ServiceOrder; cancellation is only possible before that.
type Appointment struct {
	shared.BaseAggregateRoot
	CustomerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	VehicleID      uuid.UUID         `gorm:"type:uuid;not null"`
	ScheduledAt    time.Time         `gorm:"not null;index"`
	Notes          string            `gorm:"type:text"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;index"`
	ConfirmedBy    *uuid.UUID        `gorm:"type:uuid"`
	ConfirmedAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
	CancelledAt    *time.Time
	ServiceOrderID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Appointment) TableName() string {
	return "appointments"
}

// BookAppointment creates a pending appointment. Customers book for themselves;
// advisors may book on a customer's behalf.
func BookAppointment(by identity.Caller, customerID, vehicleID uuid.UUID, scheduledAt time.Time, notes string) (*Appointment, error) {
	switch {
	case by.IsAdvisor():
	case by.Role == identity.RoleCustomer:
		if customerID != by.UserID {
			return nil, shared.NewDomainError(shared.CodeForbidden, "Customers may only book for themselves")
		}
	default:
		return nil, shared.NewDomainError(shared.CodeForbidden, fmt.Sprintf("role %s may not book appointments", by.Role))
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Customer ID cannot be empty")
	}
	if vehicleID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Vehicle ID cannot be empty")
	}
	if scheduledAt.IsZero() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Scheduled time is required")
	}

	return &Appointment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		VehicleID:         vehicleID,
		ScheduledAt:       scheduledAt,
		Notes:             strings.TrimSpace(notes),
		Status:            AppointmentStatusPending,
	}, nil
}

// Confirm accepts the booking
func (a *Appointment) Confirm(by identity.Caller) error {
	if err := by.RequireAdvisor("confirm appointments"); err != nil {
		return err
	}
	if !a.Status.CanTransitionTo(AppointmentStatusConfirmed) {
		return shared.NewInvalidStateTransition(a.Status.String(), AppointmentStatusConfirmed.String())
	}

	now := time.Now()
	a.Status = AppointmentStatusConfirmed
	a.ConfirmedBy = &by.UserID
	a.ConfirmedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAppointmentConfirmedEvent(a))
	return nil
}

// Cancel withdraws the booking; the owning customer or an advisor may cancel
func (a *Appointment) Cancel(by identity.Caller, reason string) error {
	if !by.IsAdvisor() && !(by.Role == identity.RoleCustomer && by.UserID == a.CustomerID) {
		return shared.NewDomainError(shared.CodeForbidden, "Only the customer or an advisor may cancel this appointment")
	}
	if !a.Status.CanTransitionTo(AppointmentStatusCancelled) {
		return shared.NewInvalidStateTransition(a.Status.String(), AppointmentStatusCancelled.String())
	}

	now := time.Now()
	a.Status = AppointmentStatusCancelled
	a.CancelReason = strings.TrimSpace(reason)
	a.CancelledAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAppointmentCancelledEvent(a, by.UserID))
	return nil
}

func (a *Appointment) markConverted(orderID uuid.UUID) error {
	if !a.Status.CanTransitionTo(AppointmentStatusConverted) {
		return shared.NewInvalidStateTransition(a.Status.String(), AppointmentStatusConverted.String())
	}
	a.Status = AppointmentStatusConverted
	a.ServiceOrderID = &orderID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// IsMissed is a read-side classification: still open after its scheduled time
func (a *Appointment) IsMissed(now time.Time) bool {
	open := a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
	return open && now.After(a.ScheduledAt)
}
