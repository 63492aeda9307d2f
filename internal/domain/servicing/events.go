package servicing

import (
	"time"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeServiceOrder = "ServiceOrder"
	AggregateTypeAppointment  = "Appointment"
	AggregateTypePartRequest  = "PartRequest"
)

// Event type constants
const (
	EventTypeServiceOrderOpened        = "ServiceOrderOpened"
	EventTypeTechnicianAssigned        = "TechnicianAssigned"
	EventTypeServiceOrderStatusChanged = "ServiceOrderStatusChanged"
	EventTypeServiceOrderCompleted     = "ServiceOrderCompleted"
	EventTypeOrderLineAdded            = "OrderLineAdded"
	EventTypeAppointmentConfirmed      = "AppointmentConfirmed"
	EventTypeAppointmentCancelled      = "AppointmentCancelled"
	EventTypePartRequestCreated        = "PartRequestCreated"
	EventTypePartRequestFulfilled      = "PartRequestFulfilled"
	EventTypePartRequestRejected       = "PartRequestRejected"
	EventTypePartRequestCancelled      = "PartRequestCancelled"
)

// ServiceOrderOpenedEvent is raised when an advisor opens an order
type ServiceOrderOpenedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID  `json:"order_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	VehicleID     uuid.UUID  `json:"vehicle_id"`
	AdvisorID     uuid.UUID  `json:"advisor_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
}

// NewServiceOrderOpenedEvent creates a new ServiceOrderOpenedEvent
func NewServiceOrderOpenedEvent(o *ServiceOrder) *ServiceOrderOpenedEvent {
	return &ServiceOrderOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderOpened, AggregateTypeServiceOrder, o.ID),
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		VehicleID:       o.VehicleID,
		AdvisorID:       o.AdvisorID,
		AppointmentID:   o.AppointmentID,
	}
}

// TechnicianAssignedEvent is raised when a technician is (re)assigned
type TechnicianAssignedEvent struct {
	shared.BaseDomainEvent
	OrderID              uuid.UUID  `json:"order_id"`
	TechnicianID         uuid.UUID  `json:"technician_id"`
	PreviousTechnicianID *uuid.UUID `json:"previous_technician_id,omitempty"`
	AssignedBy           uuid.UUID  `json:"assigned_by"`
}

// NewTechnicianAssignedEvent creates a new TechnicianAssignedEvent
func NewTechnicianAssignedEvent(o *ServiceOrder, previous *uuid.UUID, assignedBy uuid.UUID) *TechnicianAssignedEvent {
	return &TechnicianAssignedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(EventTypeTechnicianAssigned, AggregateTypeServiceOrder, o.ID),
		OrderID:              o.ID,
		TechnicianID:         *o.TechnicianID,
		PreviousTechnicianID: previous,
		AssignedBy:           assignedBy,
	}
}

// ServiceOrderStatusChangedEvent is raised on every lifecycle transition
type ServiceOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID   `json:"order_id"`
	From         OrderStatus `json:"from"`
	To           OrderStatus `json:"to"`
	CustomerID   uuid.UUID   `json:"customer_id"`
	AdvisorID    uuid.UUID   `json:"advisor_id"`
	TechnicianID *uuid.UUID  `json:"technician_id,omitempty"`
}

// NewServiceOrderStatusChangedEvent creates a new ServiceOrderStatusChangedEvent
func NewServiceOrderStatusChangedEvent(o *ServiceOrder, from, to OrderStatus) *ServiceOrderStatusChangedEvent {
	return &ServiceOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderStatusChanged, AggregateTypeServiceOrder, o.ID),
		OrderID:         o.ID,
		From:            from,
		To:              to,
		CustomerID:      o.CustomerID,
		AdvisorID:       o.AdvisorID,
		TechnicianID:    o.TechnicianID,
	}
}

// ServiceOrderCompletedEvent is raised when the order's invoice is minted
type ServiceOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewServiceOrderCompletedEvent creates a new ServiceOrderCompletedEvent
func NewServiceOrderCompletedEvent(o *ServiceOrder) *ServiceOrderCompletedEvent {
	return &ServiceOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderCompleted, AggregateTypeServiceOrder, o.ID),
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		CompletedAt:     *o.CompletedAt,
	}
}

// OrderLineAddedEvent is raised when a line is appended to an order
type OrderLineAddedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID       `json:"order_id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Kind      ItemKind        `json:"kind"`
	RefID     uuid.UUID       `json:"ref_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Status    LineStatus      `json:"status"`
}

// NewOrderLineAddedEvent creates a new OrderLineAddedEvent
func NewOrderLineAddedEvent(o *ServiceOrder, item *OrderItem) *OrderLineAddedEvent {
	return &OrderLineAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderLineAdded, AggregateTypeServiceOrder, o.ID),
		OrderID:         o.ID,
		ItemID:          item.ID,
		Kind:            item.Kind,
		RefID:           item.RefID,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		Status:          item.Status,
	}
}

// AppointmentConfirmedEvent is raised when an advisor confirms a booking
type AppointmentConfirmedEvent struct {
	shared.BaseDomainEvent
	AppointmentID uuid.UUID `json:"appointment_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

// NewAppointmentConfirmedEvent creates a new AppointmentConfirmedEvent
func NewAppointmentConfirmedEvent(a *Appointment) *AppointmentConfirmedEvent {
	return &AppointmentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAppointmentConfirmed, AggregateTypeAppointment, a.ID),
		AppointmentID:   a.ID,
		CustomerID:      a.CustomerID,
		ScheduledAt:     a.ScheduledAt,
	}
}

// AppointmentCancelledEvent is raised when a booking is withdrawn
type AppointmentCancelledEvent struct {
	shared.BaseDomainEvent
	AppointmentID uuid.UUID `json:"appointment_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CancelledBy   uuid.UUID `json:"cancelled_by"`
	Reason        string    `json:"reason"`
}

// NewAppointmentCancelledEvent creates a new AppointmentCancelledEvent
func NewAppointmentCancelledEvent(a *Appointment, by uuid.UUID) *AppointmentCancelledEvent {
	return &AppointmentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAppointmentCancelled, AggregateTypeAppointment, a.ID),
		AppointmentID:   a.ID,
		CustomerID:      a.CustomerID,
		CancelledBy:     by,
		Reason:          a.CancelReason,
	}
}

// PartRequestCreatedEvent is raised when a technician files a request
type PartRequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestID    uuid.UUID `json:"request_id"`
	OrderID      uuid.UUID `json:"order_id"`
	PartID       uuid.UUID `json:"part_id"`
	TechnicianID uuid.UUID `json:"technician_id"`
	AdvisorID    uuid.UUID `json:"advisor_id"`
	Quantity     int       `json:"quantity"`
	Urgency      Urgency   `json:"urgency"`
}

// NewPartRequestCreatedEvent creates a new PartRequestCreatedEvent
func NewPartRequestCreatedEvent(r *PartRequest, advisorID uuid.UUID) *PartRequestCreatedEvent {
	return &PartRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartRequestCreated, AggregateTypePartRequest, r.ID),
		RequestID:       r.ID,
		OrderID:         r.OrderID,
		PartID:          r.PartID,
		TechnicianID:    r.TechnicianID,
		AdvisorID:       advisorID,
		Quantity:        r.Quantity,
		Urgency:         r.Urgency,
	}
}

// PartRequestDecision carries the fields shared by the terminal request events
type PartRequestDecision struct {
	shared.BaseDomainEvent
	RequestID    uuid.UUID  `json:"request_id"`
	OrderID      uuid.UUID  `json:"order_id"`
	PartID       uuid.UUID  `json:"part_id"`
	TechnicianID uuid.UUID  `json:"technician_id"`
	ApproverID   *uuid.UUID `json:"approver_id,omitempty"`
	Quantity     int        `json:"quantity"`
	Notes        string     `json:"notes,omitempty"`
}

func newPartRequestDecision(eventType string, r *PartRequest) PartRequestDecision {
	return PartRequestDecision{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePartRequest, r.ID),
		RequestID:       r.ID,
		OrderID:         r.OrderID,
		PartID:          r.PartID,
		TechnicianID:    r.TechnicianID,
		ApproverID:      r.ApproverID,
		Quantity:        r.Quantity,
		Notes:           r.ApproverNotes,
	}
}

// PartRequestFulfilledEvent is raised when a request is approved and stock deducted
type PartRequestFulfilledEvent struct {
	PartRequestDecision
}

// NewPartRequestFulfilledEvent creates a new PartRequestFulfilledEvent
func NewPartRequestFulfilledEvent(r *PartRequest) *PartRequestFulfilledEvent {
	return &PartRequestFulfilledEvent{newPartRequestDecision(EventTypePartRequestFulfilled, r)}
}

// PartRequestRejectedEvent is raised when an advisor declines a request
type PartRequestRejectedEvent struct {
	PartRequestDecision
}

// NewPartRequestRejectedEvent creates a new PartRequestRejectedEvent
func NewPartRequestRejectedEvent(r *PartRequest) *PartRequestRejectedEvent {
	return &PartRequestRejectedEvent{newPartRequestDecision(EventTypePartRequestRejected, r)}
}

// PartRequestCancelledEvent is raised when the technician withdraws a request
type PartRequestCancelledEvent struct {
	PartRequestDecision
}

// NewPartRequestCancelledEvent creates a new PartRequestCancelledEvent
func NewPartRequestCancelledEvent(r *PartRequest) *PartRequestCancelledEvent {
	return &PartRequestCancelledEvent{newPartRequestDecision(EventTypePartRequestCancelled, r)}
}
