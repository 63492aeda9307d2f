package finance

import (
	"time"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type name for Invoice events
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceMinted    = "InvoiceMinted"
	EventTypeInvoicePaid      = "InvoicePaid"
	EventTypeInvoiceCancelled = "InvoiceCancelled"
	EventTypeInvoiceOverdue   = "InvoiceOverdue"
)

// InvoiceMintedEvent is raised when an order's invoice is created
type InvoiceMintedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	OrderID    uuid.UUID       `json:"order_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	DueAt      time.Time       `json:"due_at"`
}

// NewInvoiceMintedEvent creates a new InvoiceMintedEvent
func NewInvoiceMintedEvent(inv *Invoice) *InvoiceMintedEvent {
	return &InvoiceMintedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceMinted, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		OrderID:         inv.OrderID,
		CustomerID:      inv.CustomerID,
		Amount:          inv.Amount,
		DueAt:           inv.DueAt,
	}
}

// InvoicePaidEvent is raised on payment confirmation
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	OrderID    uuid.UUID       `json:"order_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paid_at"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		OrderID:         inv.OrderID,
		CustomerID:      inv.CustomerID,
		Amount:          inv.Amount,
		PaidAt:          *inv.PaidAt,
	}
}

// InvoiceCancelledEvent is raised when a pending invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID `json:"invoice_id"`
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Reason     string    `json:"reason"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		OrderID:         inv.OrderID,
		CustomerID:      inv.CustomerID,
		Reason:          inv.CancelReason,
	}
}

// InvoiceOverdueEvent reminds the customer of a pending invoice past its due date
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	DueAt       time.Time       `json:"due_at"`
	DaysOverdue int             `json:"days_overdue"`
}

// NewInvoiceOverdueEvent creates the reminder for inv as seen at now. The event id
// is derived from the invoice and the UTC calendar day, so repeated sweeps on the
// same day produce the same id and deduplicate downstream.
func NewInvoiceOverdueEvent(inv *Invoice, now time.Time) *InvoiceOverdueEvent {
	base := shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, AggregateTypeInvoice, inv.ID)
	base.ID = uuid.NewSHA1(inv.ID, []byte(now.UTC().Format("2006-01-02")))
	base.Timestamp = now
	return &InvoiceOverdueEvent{
		BaseDomainEvent: base,
		InvoiceID:       inv.ID,
		OrderID:         inv.OrderID,
		CustomerID:      inv.CustomerID,
		Amount:          inv.Amount,
		DueAt:           inv.DueAt,
		DaysOverdue:     inv.DaysOverdue(now),
	}
}
