package finance

import (
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied when no rate is configured
var DefaultTaxRate = decimal.NewFromFloat(0.10)

// Totals is a priced set of lines
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// PriceLines sums unitPrice × quantity over items and applies the tax rate.
// Money is rounded to cents after summing.
func PriceLines(items []servicing.OrderItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].LineTotal())
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// QuotationLine is one projected order line
type QuotationLine struct {
	ItemID    uuid.UUID
	Kind      servicing.ItemKind
	RefID     uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Status    servicing.LineStatus
}

// Quotation is a read-only price projection of an order
type Quotation struct {
	OrderID     uuid.UUID
	OrderStatus servicing.OrderStatus
	Lines       []QuotationLine
	TaxRate     decimal.Decimal
	Totals
}

// BuildQuotation lists every line of the order with its status. Rejected lines
// are shown but excluded from the totals; requested and approved lines are priced.
// nameOf resolves display names and is never consulted for prices.
func BuildQuotation(order *servicing.ServiceOrder, taxRate decimal.Decimal, nameOf func(servicing.ItemRef) string) Quotation {
	lines := make([]QuotationLine, 0, len(order.Items))
	priced := make([]servicing.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		name := ""
		if nameOf != nil {
			name = nameOf(item.Ref())
		}
		lines = append(lines, QuotationLine{
			ItemID:    item.ID,
			Kind:      item.Kind,
			RefID:     item.RefID,
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
			Status:    item.Status,
		})
		if item.Status != servicing.LineStatusRejected {
			priced = append(priced, item)
		}
	}
	return Quotation{
		OrderID:     order.ID,
		OrderStatus: order.Status,
		Lines:       lines,
		TaxRate:     taxRate,
		Totals:      PriceLines(priced, taxRate),
	}
}
