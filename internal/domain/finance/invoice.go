package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the status is a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// ParseInvoiceStatus converts a raw value, rejecting unknown statuses
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	st := InvoiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown invoice status %q", s))
	}
	return st, nil
}

// Invoice is the single bill minted for a completed service order.
// Amounts are frozen at mint time; afterwards only the status moves.
type Invoice struct {
	shared.BaseAggregateRoot
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(6,4);not null"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status       InvoiceStatus   `gorm:"type:varchar(20);not null;index"`
	IssuedAt     time.Time       `gorm:"not null"`
	DueAt        time.Time       `gorm:"not null;index"`
	PaidAt       *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// MintInvoice prices an order that is ready for invoicing. Only APPROVED lines
// are billed. The caller completes the order in the same unit of work.
func MintInvoice(order *servicing.ServiceOrder, taxRate decimal.Decimal, dueIn time.Duration, now time.Time) (*Invoice, error) {
	if order.Status != servicing.OrderStatusReadyForInvoice {
		return nil, shared.NewInvalidStateTransition(order.Status.String(), servicing.OrderStatusCompleted.String())
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Tax rate cannot be negative")
	}

	totals := PriceLines(order.ApprovedItems(), taxRate)
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           order.ID,
		CustomerID:        order.CustomerID,
		Subtotal:          totals.Subtotal,
		TaxRate:           taxRate,
		TaxAmount:         totals.Tax,
		Amount:            totals.Total,
		Status:            InvoiceStatusPending,
		IssuedAt:          now,
		DueAt:             now.Add(dueIn),
	}
	inv.AddDomainEvent(NewInvoiceMintedEvent(inv))
	return inv, nil
}

// ConfirmPayment marks the invoice paid. The advisor or the billed customer may confirm.
func (inv *Invoice) ConfirmPayment(by identity.Caller) error {
	if !by.IsAdvisor() && !(by.Role == identity.RoleCustomer && by.UserID == inv.CustomerID) {
		return shared.NewDomainError(shared.CodeForbidden, "Only the billed customer or an advisor may confirm payment")
	}
	if inv.Status != InvoiceStatusPending {
		return shared.NewInvalidStateTransition(inv.Status.String(), InvoiceStatusPaid.String())
	}

	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	return nil
}

// Cancel voids a pending invoice. The order stays COMPLETED.
func (inv *Invoice) Cancel(by identity.Caller, reason string) error {
	if err := by.RequireAdvisor("cancel invoices"); err != nil {
		return err
	}
	if inv.Status != InvoiceStatusPending {
		return shared.NewInvalidStateTransition(inv.Status.String(), InvoiceStatusCancelled.String())
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelReason = strings.TrimSpace(reason)
	inv.CancelledAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))
	return nil
}

// IsOverdue is a read-side classification; it never gates a write
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.Status == InvoiceStatusPending && now.After(inv.DueAt)
}

// DaysOverdue returns whole days past due, 0 when not overdue
func (inv *Invoice) DaysOverdue(now time.Time) int {
	if !inv.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(inv.DueAt).Hours() / 24)
}
