package finance

import (
	"time"

	"github.com/evcare/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationLineResponse is one projected order line
type QuotationLineResponse struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Kind      string          `json:"kind"`
	RefID     uuid.UUID       `json:"ref_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Status    string          `json:"status"`
}

// QuotationResponse is the priced projection of an order
type QuotationResponse struct {
	OrderID     uuid.UUID               `json:"order_id"`
	OrderStatus string                  `json:"order_status"`
	Lines       []QuotationLineResponse `json:"lines"`
	TaxRate     decimal.Decimal         `json:"tax_rate"`
	Subtotal    decimal.Decimal         `json:"subtotal"`
	Tax         decimal.Decimal         `json:"tax"`
	Total       decimal.Decimal         `json:"total"`
}

// ToQuotationResponse converts a domain Quotation to a response
func ToQuotationResponse(q finance.Quotation) QuotationResponse {
	lines := make([]QuotationLineResponse, len(q.Lines))
	for i, l := range q.Lines {
		lines[i] = QuotationLineResponse{
			ItemID:    l.ItemID,
			Kind:      l.Kind.String(),
			RefID:     l.RefID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
			Status:    l.Status.String(),
		}
	}
	return QuotationResponse{
		OrderID:     q.OrderID,
		OrderStatus: q.OrderStatus.String(),
		Lines:       lines,
		TaxRate:     q.TaxRate,
		Subtotal:    q.Subtotal,
		Tax:         q.Tax,
		Total:       q.Total,
	}
}

// CancelInvoiceRequest carries the cancellation reason
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Status      string     `form:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	CustomerID  *uuid.UUID `form:"-"`
	OverdueOnly bool       `form:"overdue_only"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	IssuedAt     time.Time       `json:"issued_at"`
	DueAt        time.Time       `json:"due_at"`
	Overdue      bool            `json:"overdue"`
	DaysOverdue  int             `json:"days_overdue,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	Version      int             `json:"version"`
}

// ToInvoiceResponse converts a domain Invoice to a response, classifying overdue at now
func ToInvoiceResponse(inv *finance.Invoice, now time.Time) InvoiceResponse {
	return InvoiceResponse{
		ID:           inv.ID,
		OrderID:      inv.OrderID,
		CustomerID:   inv.CustomerID,
		Subtotal:     inv.Subtotal,
		TaxRate:      inv.TaxRate,
		TaxAmount:    inv.TaxAmount,
		Amount:       inv.Amount,
		Status:       inv.Status.String(),
		IssuedAt:     inv.IssuedAt,
		DueAt:        inv.DueAt,
		Overdue:      inv.IsOverdue(now),
		DaysOverdue:  inv.DaysOverdue(now),
		PaidAt:       inv.PaidAt,
		CancelledAt:  inv.CancelledAt,
		CancelReason: inv.CancelReason,
		Version:      inv.Version,
	}
}

// InvoiceDocument is everything printed on an invoice: the invoice itself and
// the order lines it billed
type InvoiceDocument struct {
	Invoice   InvoiceResponse         `json:"invoice"`
	VehicleID uuid.UUID               `json:"vehicle_id"`
	AdvisorID uuid.UUID               `json:"advisor_id"`
	Lines     []QuotationLineResponse `json:"lines"`
}
