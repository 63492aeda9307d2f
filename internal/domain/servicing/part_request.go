package servicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PartRequestStatus represents the status of a technician's part request
type PartRequestStatus string

const (
	PartRequestStatusPending   PartRequestStatus = "PENDING"
	PartRequestStatusFulfilled PartRequestStatus = "FULFILLED"
	PartRequestStatusRejected  PartRequestStatus = "REJECTED"
	PartRequestStatusCancelled PartRequestStatus = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s PartRequestStatus) IsValid() bool {
	switch s {
	case PartRequestStatusPending, PartRequestStatusFulfilled, PartRequestStatusRejected, PartRequestStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PartRequestStatus
func (s PartRequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true for every state except PENDING
func (s PartRequestStatus) IsTerminal() bool {
	return s != PartRequestStatusPending
}

// CanTransitionTo checks if the status can transition to the target status
func (s PartRequestStatus) CanTransitionTo(target PartRequestStatus) bool {
	if s != PartRequestStatusPending {
		return false
	}
	switch target {
	case PartRequestStatusFulfilled, PartRequestStatusRejected, PartRequestStatusCancelled:
		return true
	}
	return false
}

// ParsePartRequestStatus converts a raw value, rejecting unknown statuses
func ParsePartRequestStatus(s string) (PartRequestStatus, error) {
	st := PartRequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown part request status %q", s))
	}
	return st, nil
}

// Urgency tags how soon a technician needs the part
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyNormal   Urgency = "NORMAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// IsValid checks if the urgency is a known value
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// String returns the string representation of Urgency
func (u Urgency) String() string {
	return string(u)
}

// ParseUrgency converts a raw value; empty means NORMAL
func ParseUrgency(s string) (Urgency, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return UrgencyNormal, nil
	}
	u := Urgency(s)
	if !u.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown urgency %q", s))
	}
	return u, nil
}

// PartRequest is a technician's ask for stock against an order they work on.
// It reaches a terminal state exactly once.
type PartRequest struct {
	shared.BaseAggregateRoot
	OrderID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	PartID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	TechnicianID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Quantity      int               `gorm:"not null"`
	Urgency       Urgency           `gorm:"type:varchar(10);not null"`
	Notes         string            `gorm:"type:text"`
	Status        PartRequestStatus `gorm:"type:varchar(20);not null;index"`
	ApproverID    *uuid.UUID        `gorm:"type:uuid"`
	ApproverNotes string            `gorm:"type:text"`
	ApprovedAt    *time.Time
	RejectedAt    *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (PartRequest) TableName() string {
	return "part_requests"
}

// NewPartRequest files a PENDING request. Only the order's assigned technician may file one.
func NewPartRequest(by identity.Caller, order *ServiceOrder, partID uuid.UUID, qty int, urgency Urgency, notes string) (*PartRequest, error) {
	if !order.IsAssignedTo(by.UserID) || by.Role != identity.RoleTechnician {
		return nil, shared.NewDomainError(shared.CodeNotAssigned,
			fmt.Sprintf("Caller is not the technician assigned to order %s", order.ID))
	}
	if err := order.EnsureAcceptsLines(); err != nil {
		return nil, err
	}
	if partID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Part ID cannot be empty")
	}
	if qty <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Requested quantity must be positive")
	}
	if !urgency.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown urgency %q", urgency))
	}

	r := &PartRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           order.ID,
		PartID:            partID,
		TechnicianID:      by.UserID,
		Quantity:          qty,
		Urgency:           urgency,
		Notes:             strings.TrimSpace(notes),
		Status:            PartRequestStatusPending,
	}
	r.AddDomainEvent(NewPartRequestCreatedEvent(r, order.AdvisorID))
	return r, nil
}

func (r *PartRequest) ensurePending() error {
	if r.Status != PartRequestStatusPending {
		return shared.NewDomainError(shared.CodeAlreadyProcessed,
			fmt.Sprintf("Part request %s is already %s", r.ID, r.Status))
	}
	return nil
}

// Fulfill records the advisor's approval. Stock deduction and the order line
// are applied by the caller in the same unit of work.
func (r *PartRequest) Fulfill(by identity.Caller, notes string) error {
	if err := by.RequireAdvisor("approve part requests"); err != nil {
		return err
	}
	if err := r.ensurePending(); err != nil {
		return err
	}

	now := time.Now()
	r.Status = PartRequestStatusFulfilled
	r.ApproverID = &by.UserID
	r.ApproverNotes = strings.TrimSpace(notes)
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewPartRequestFulfilledEvent(r))
	return nil
}

// Reject declines the request; the ledger is untouched
func (r *PartRequest) Reject(by identity.Caller, notes string) error {
	if err := by.RequireAdvisor("reject part requests"); err != nil {
		return err
	}
	if err := r.ensurePending(); err != nil {
		return err
	}

	now := time.Now()
	r.Status = PartRequestStatusRejected
	r.ApproverID = &by.UserID
	r.ApproverNotes = strings.TrimSpace(notes)
	r.RejectedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewPartRequestRejectedEvent(r))
	return nil
}

// Cancel withdraws the request; only the requesting technician may do so
func (r *PartRequest) Cancel(by identity.Caller) error {
	if by.UserID != r.TechnicianID {
		return shared.NewDomainError(shared.CodeForbidden, "Only the requesting technician may cancel this request")
	}
	if err := r.ensurePending(); err != nil {
		return err
	}

	now := time.Now()
	r.Status = PartRequestStatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewPartRequestCancelledEvent(r))
	return nil
}
