package servicing

import (
	"time"

	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Appointments
// ============================================================================

// BookAppointmentRequest represents a booking
type BookAppointmentRequest struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	VehicleID   uuid.UUID `json:"vehicle_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Notes       string    `json:"notes" binding:"max=2000"`
}

// CancelAppointmentRequest carries the cancellation reason
type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// AppointmentListFilter represents filter options for the appointment list
type AppointmentListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED CONVERTED"`
	CustomerID *uuid.UUID `form:"-"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AppointmentResponse represents an appointment in API responses
type AppointmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	VehicleID      uuid.UUID  `json:"vehicle_id"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	Notes          string     `json:"notes,omitempty"`
	Status         string     `json:"status"`
	Missed         bool       `json:"missed"`
	ConfirmedBy    *uuid.UUID `json:"confirmed_by,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	ServiceOrderID *uuid.UUID `json:"service_order_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Version        int        `json:"version"`
}

// ToAppointmentResponse converts a domain Appointment to a response
func ToAppointmentResponse(a *servicing.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		VehicleID:      a.VehicleID,
		ScheduledAt:    a.ScheduledAt,
		Notes:          a.Notes,
		Status:         a.Status.String(),
		Missed:         a.IsMissed(time.Now()),
		ConfirmedBy:    a.ConfirmedBy,
		ConfirmedAt:    a.ConfirmedAt,
		CancelReason:   a.CancelReason,
		CancelledAt:    a.CancelledAt,
		ServiceOrderID: a.ServiceOrderID,
		CreatedAt:      a.CreatedAt,
		Version:        a.Version,
	}
}

// ============================================================================
// Service orders
// ============================================================================

// OpenWalkInRequest opens an order without an appointment
type OpenWalkInRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	VehicleID  uuid.UUID `json:"vehicle_id" binding:"required"`
	Notes      string    `json:"notes" binding:"max=2000"`
}

// OpenFromAppointmentRequest converts a confirmed appointment
type OpenFromAppointmentRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Notes         string    `json:"notes" binding:"max=2000"`
}

// AssignTechnicianRequest sets the order's technician
type AssignTechnicianRequest struct {
	TechnicianID uuid.UUID `json:"technician_id" binding:"required"`
}

// AdvanceOrderRequest asks for a status transition
type AdvanceOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddServiceLineRequest adds a catalog service to the quotation
type AddServiceLineRequest struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status       string     `form:"status"`
	TechnicianID *uuid.UUID `form:"-"`
	CustomerID   *uuid.UUID `form:"-"`
	AdvisorID    *uuid.UUID `form:"-"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order line
type OrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	Kind            string          `json:"kind"`
	RefID           uuid.UUID       `json:"ref_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Status          string          `json:"status"`
	SourceRequestID *uuid.UUID      `json:"source_request_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToOrderItemResponse converts a domain OrderItem to a response
func ToOrderItemResponse(i *servicing.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:              i.ID,
		Kind:            i.Kind.String(),
		RefID:           i.RefID,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		LineTotal:       i.LineTotal(),
		Status:          i.Status.String(),
		SourceRequestID: i.SourceRequestID,
		CreatedAt:       i.CreatedAt,
	}
}

// ServiceOrderResponse represents an order in API responses
type ServiceOrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Status        string              `json:"status"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	VehicleID     uuid.UUID           `json:"vehicle_id"`
	AdvisorID     uuid.UUID           `json:"advisor_id"`
	TechnicianID  *uuid.UUID          `json:"technician_id,omitempty"`
	AppointmentID *uuid.UUID          `json:"appointment_id,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	Version       int                 `json:"version"`
}

// ToServiceOrderResponse converts a domain ServiceOrder to a response
func ToServiceOrderResponse(o *servicing.ServiceOrder) ServiceOrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = ToOrderItemResponse(&o.Items[i])
	}
	return ServiceOrderResponse{
		ID:            o.ID,
		Status:        o.Status.String(),
		CustomerID:    o.CustomerID,
		VehicleID:     o.VehicleID,
		AdvisorID:     o.AdvisorID,
		TechnicianID:  o.TechnicianID,
		AppointmentID: o.AppointmentID,
		Notes:         o.Notes,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		CompletedAt:   o.CompletedAt,
		Version:       o.Version,
	}
}

// ============================================================================
// Part requests
// ============================================================================

// CreatePartRequestRequest files a part request
type CreatePartRequestRequest struct {
	OrderID  uuid.UUID `json:"order_id" binding:"required"`
	PartID   uuid.UUID `json:"part_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
	Urgency  string    `json:"urgency" binding:"omitempty,oneof=LOW NORMAL HIGH CRITICAL"`
	Notes    string    `json:"notes" binding:"max=2000"`
}

// DecidePartRequestRequest carries the approver's notes
type DecidePartRequestRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// PartRequestListFilter represents filter options for the part request list
type PartRequestListFilter struct {
	OrderID      *uuid.UUID `form:"-"`
	TechnicianID *uuid.UUID `form:"-"`
	Status       string     `form:"status" binding:"omitempty,oneof=PENDING FULFILLED REJECTED CANCELLED"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PartRequestResponse represents a part request in API responses
type PartRequestResponse struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       uuid.UUID  `json:"order_id"`
	PartID        uuid.UUID  `json:"part_id"`
	TechnicianID  uuid.UUID  `json:"technician_id"`
	Quantity      int        `json:"quantity"`
	Urgency       string     `json:"urgency"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status"`
	ApproverID    *uuid.UUID `json:"approver_id,omitempty"`
	ApproverNotes string     `json:"approver_notes,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	RejectedAt    *time.Time `json:"rejected_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Version       int        `json:"version"`
}

// ToPartRequestResponse converts a domain PartRequest to a response
func ToPartRequestResponse(r *servicing.PartRequest) PartRequestResponse {
	return PartRequestResponse{
		ID:            r.ID,
		OrderID:       r.OrderID,
		PartID:        r.PartID,
		TechnicianID:  r.TechnicianID,
		Quantity:      r.Quantity,
		Urgency:       r.Urgency.String(),
		Notes:         r.Notes,
		Status:        r.Status.String(),
		ApproverID:    r.ApproverID,
		ApproverNotes: r.ApproverNotes,
		ApprovedAt:    r.ApprovedAt,
		RejectedAt:    r.RejectedAt,
		CancelledAt:   r.CancelledAt,
		CreatedAt:     r.CreatedAt,
		Version:       r.Version,
	}
}
