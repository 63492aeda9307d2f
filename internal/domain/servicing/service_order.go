package servicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of a service order
type OrderStatus string

const (
	OrderStatusReception       OrderStatus = "RECEPTION"
	OrderStatusInspection      OrderStatus = "INSPECTION"
	OrderStatusQuoting         OrderStatus = "QUOTING"
	OrderStatusInProgress      OrderStatus = "IN_PROGRESS"
	OrderStatusWaitingForParts OrderStatus = "WAITING_FOR_PARTS"
	OrderStatusReadyForInvoice OrderStatus = "READY_FOR_INVOICE"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusReception, OrderStatusInspection, OrderStatusQuoting, OrderStatusInProgress,
		OrderStatusWaitingForParts, OrderStatusReadyForInvoice, OrderStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states with no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusReception:
		return target == OrderStatusInspection
	case OrderStatusInspection:
		return target == OrderStatusQuoting || target == OrderStatusInProgress
	case OrderStatusQuoting:
		return target == OrderStatusInProgress
	case OrderStatusInProgress:
		return target == OrderStatusReadyForInvoice || target == OrderStatusWaitingForParts
	case OrderStatusWaitingForParts:
		return target == OrderStatusInProgress
	case OrderStatusReadyForInvoice:
		return target == OrderStatusCompleted
	case OrderStatusCompleted:
		return false // Terminal state
	}
	return false
}

// AcceptsLineItems reports whether new lines may still be added in this state
func (s OrderStatus) AcceptsLineItems() bool {
	switch s {
	case OrderStatusReception, OrderStatusInspection, OrderStatusQuoting,
		OrderStatusInProgress, OrderStatusWaitingForParts:
		return true
	}
	return false
}

// ParseOrderStatus converts a raw value into an OrderStatus, rejecting unknown values
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown order status %q", s))
	}
	return st, nil
}

// ServiceOrder is the aggregate root for one vehicle visit, from intake to invoicing.
// Status changes are version-checked on save; appended lines are not versioned.
type ServiceOrder struct {
	shared.BaseAggregateRoot
	Status        OrderStatus `gorm:"type:varchar(30);not null;index"`
	CustomerID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	VehicleID     uuid.UUID   `gorm:"type:uuid;not null"`
	AdvisorID     uuid.UUID   `gorm:"type:uuid;not null"`
	TechnicianID  *uuid.UUID  `gorm:"type:uuid;index"`
	AppointmentID *uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	Notes         string      `gorm:"type:text"`
	CompletedAt   *time.Time
	Items         []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (ServiceOrder) TableName() string {
	return "service_orders"
}

// OpenWalkIn opens an order for a customer who arrived without an appointment
func OpenWalkIn(by identity.Caller, customerID, vehicleID uuid.UUID, notes string) (*ServiceOrder, error) {
	if err := by.RequireAdvisor("open service orders"); err != nil {
		return nil, err
	}
	return newServiceOrder(by.UserID, customerID, vehicleID, nil, notes)
}

// OpenFromAppointment converts a confirmed appointment into an order.
// The appointment is marked CONVERTED and can no longer be cancelled.
func OpenFromAppointment(by identity.Caller, appt *Appointment, notes string) (*ServiceOrder, error) {
	if err := by.RequireAdvisor("open service orders"); err != nil {
		return nil, err
	}
	if appt.Status != AppointmentStatusConfirmed {
		return nil, shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Cannot open an order from a %s appointment", appt.Status))
	}
	if notes == "" {
		notes = appt.Notes
	}
	apptID := appt.ID
	order, err := newServiceOrder(by.UserID, appt.CustomerID, appt.VehicleID, &apptID, notes)
	if err != nil {
		return nil, err
	}
	if err := appt.markConverted(order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func newServiceOrder(advisorID, customerID, vehicleID uuid.UUID, appointmentID *uuid.UUID, notes string) (*ServiceOrder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Customer ID cannot be empty")
	}
	if vehicleID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Vehicle ID cannot be empty")
	}

	o := &ServiceOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            OrderStatusReception,
		CustomerID:        customerID,
		VehicleID:         vehicleID,
		AdvisorID:         advisorID,
		AppointmentID:     appointmentID,
		Notes:             strings.TrimSpace(notes),
		Items:             make([]OrderItem, 0),
	}
	o.AddDomainEvent(NewServiceOrderOpenedEvent(o))
	return o, nil
}

// IsAssignedTo reports whether userID is the order's technician
func (o *ServiceOrder) IsAssignedTo(userID uuid.UUID) bool {
	return o.TechnicianID != nil && *o.TechnicianID == userID
}

// AssignTechnician sets or replaces the technician working the order
func (o *ServiceOrder) AssignTechnician(by identity.Caller, technicianID uuid.UUID) error {
	if err := by.RequireAdvisor("assign technicians"); err != nil {
		return err
	}
	if technicianID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Technician ID cannot be empty")
	}
	if o.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Cannot reassign technician on a %s order", o.Status))
	}
	if o.IsAssignedTo(technicianID) {
		return nil
	}

	previous := o.TechnicianID
	o.TechnicianID = &technicianID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewTechnicianAssignedEvent(o, previous, by.UserID))
	return nil
}

// Advance moves the order along the workflow on behalf of its technician.
// COMPLETED is reachable only through Complete, which invoicing calls.
func (o *ServiceOrder) Advance(by identity.Caller, target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown order status %q", target))
	}
	if err := by.Require("advance service orders", identity.RoleTechnician); err != nil {
		return err
	}
	if !o.IsAssignedTo(by.UserID) {
		return shared.ErrNotAssigned
	}
	if target == OrderStatusCompleted {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			"Orders are completed by minting their invoice")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateTransition(o.Status.String(), target.String())
	}

	o.setStatus(target)
	return nil
}

// Complete closes the order once its invoice has been minted
func (o *ServiceOrder) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewInvalidStateTransition(o.Status.String(), OrderStatusCompleted.String())
	}
	now := time.Now()
	o.CompletedAt = &now
	o.setStatus(OrderStatusCompleted)
	o.AddDomainEvent(NewServiceOrderCompletedEvent(o))
	return nil
}

func (o *ServiceOrder) setStatus(target OrderStatus) {
	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewServiceOrderStatusChangedEvent(o, from, target))
}

// EnsureAcceptsLines fails unless lines may still be added or decided in the current state
func (o *ServiceOrder) EnsureAcceptsLines() error {
	if !o.Status.AcceptsLineItems() {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Order in %s status no longer accepts line items", o.Status))
	}
	return nil
}

// AddServiceLine adds a quotation draft line priced from the catalog
func (o *ServiceOrder) AddServiceLine(by identity.Caller, serviceID uuid.UUID, qty int, unitPrice decimal.Decimal) (*OrderItem, error) {
	if err := by.RequireAdvisor("assemble quotations"); err != nil {
		return nil, err
	}
	if err := o.EnsureAcceptsLines(); err != nil {
		return nil, err
	}
	item, err := newOrderItem(o.ID, ServiceRef(serviceID), qty, unitPrice, LineStatusRequested)
	if err != nil {
		return nil, err
	}
	return o.appendItem(item), nil
}

// AddPartLine appends an approved part line produced by a fulfilled part request
func (o *ServiceOrder) AddPartLine(partID uuid.UUID, qty int, unitPrice decimal.Decimal, requestID uuid.UUID) (*OrderItem, error) {
	if err := o.EnsureAcceptsLines(); err != nil {
		return nil, err
	}
	item, err := newOrderItem(o.ID, PartRef(partID), qty, unitPrice, LineStatusApproved)
	if err != nil {
		return nil, err
	}
	item.SourceRequestID = &requestID
	return o.appendItem(item), nil
}

func (o *ServiceOrder) appendItem(item *OrderItem) *OrderItem {
	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()
	added := &o.Items[len(o.Items)-1]
	o.AddDomainEvent(NewOrderLineAddedEvent(o, added))
	return added
}

// ApproveLine marks a quotation draft line as accepted by the customer
func (o *ServiceOrder) ApproveLine(by identity.Caller, itemID uuid.UUID) (*OrderItem, error) {
	return o.decideLine(by, itemID, (*OrderItem).approve)
}

// RejectLine marks a quotation draft line as declined
func (o *ServiceOrder) RejectLine(by identity.Caller, itemID uuid.UUID) (*OrderItem, error) {
	return o.decideLine(by, itemID, (*OrderItem).reject)
}

func (o *ServiceOrder) decideLine(by identity.Caller, itemID uuid.UUID, decide func(*OrderItem) error) (*OrderItem, error) {
	if err := by.RequireAdvisor("decide quotation lines"); err != nil {
		return nil, err
	}
	if err := o.EnsureAcceptsLines(); err != nil {
		return nil, err
	}
	item := o.FindItem(itemID)
	if item == nil {
		return nil, shared.NewNotFound("order item", itemID)
	}
	if err := decide(item); err != nil {
		return nil, err
	}
	o.UpdatedAt = time.Now()
	return item, nil
}

// FindItem returns the line with the given id, or nil
func (o *ServiceOrder) FindItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// ApprovedItems returns the billable lines
func (o *ServiceOrder) ApprovedItems() []OrderItem {
	out := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.IsBillable() {
			out = append(out, item)
		}
	}
	return out
}
