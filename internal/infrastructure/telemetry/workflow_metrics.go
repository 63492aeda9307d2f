package telemetry

import (
	"context"

	"github.com/evcare/backend/internal/domain/finance"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// WorkflowMetrics counts workshop workflow events. It subscribes to the event
// bus like any other handler, so it only sees committed work.
type WorkflowMetrics struct {
	partRequests    metric.Int64Counter
	unitsDeducted   metric.Int64Counter
	stockouts       metric.Int64Counter
	transitions     metric.Int64Counter
	invoicesMinted  metric.Int64Counter
	invoiceAmount   metric.Float64Histogram
	invoicesSettled metric.Int64Counter
	overdueNotices  metric.Int64Counter
}

// NewWorkflowMetrics creates the instruments on meter
func NewWorkflowMetrics(meter metric.Meter) (*WorkflowMetrics, error) {
	var m WorkflowMetrics
	var err error

	if m.partRequests, err = meter.Int64Counter("evcare.part_requests",
		metric.WithDescription("Part requests by outcome")); err != nil {
		return nil, err
	}
	if m.unitsDeducted, err = meter.Int64Counter("evcare.stock.units_deducted",
		metric.WithDescription("Units removed from stock by fulfilled part requests")); err != nil {
		return nil, err
	}
	if m.stockouts, err = meter.Int64Counter("evcare.stock.stockouts",
		metric.WithDescription("Times a part reached zero stock")); err != nil {
		return nil, err
	}
	if m.transitions, err = meter.Int64Counter("evcare.service_orders.transitions",
		metric.WithDescription("Service order status transitions by target status")); err != nil {
		return nil, err
	}
	if m.invoicesMinted, err = meter.Int64Counter("evcare.invoices.minted"); err != nil {
		return nil, err
	}
	if m.invoiceAmount, err = meter.Float64Histogram("evcare.invoices.amount",
		metric.WithDescription("Invoice totals including tax")); err != nil {
		return nil, err
	}
	if m.invoicesSettled, err = meter.Int64Counter("evcare.invoices.settled",
		metric.WithDescription("Invoices leaving PENDING, by outcome")); err != nil {
		return nil, err
	}
	if m.overdueNotices, err = meter.Int64Counter("evcare.invoices.overdue_notices",
		metric.WithDescription("Overdue reminders raised for pending invoices")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *WorkflowMetrics) EventTypes() []string {
	return []string{
		servicing.EventTypePartRequestCreated,
		servicing.EventTypePartRequestFulfilled,
		servicing.EventTypePartRequestRejected,
		servicing.EventTypePartRequestCancelled,
		servicing.EventTypeServiceOrderStatusChanged,
		inventory.EventTypePartOutOfStock,
		finance.EventTypeInvoiceMinted,
		finance.EventTypeInvoicePaid,
		finance.EventTypeInvoiceCancelled,
		finance.EventTypeInvoiceOverdue,
	}
}

func (m *WorkflowMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *servicing.PartRequestCreatedEvent:
		m.partRequests.Add(ctx, 1, outcome("created"), metric.WithAttributes(attribute.String("urgency", string(e.Urgency))))
	case *servicing.PartRequestFulfilledEvent:
		m.partRequests.Add(ctx, 1, outcome("fulfilled"))
		m.unitsDeducted.Add(ctx, int64(e.Quantity))
	case *servicing.PartRequestRejectedEvent:
		m.partRequests.Add(ctx, 1, outcome("rejected"))
	case *servicing.PartRequestCancelledEvent:
		m.partRequests.Add(ctx, 1, outcome("cancelled"))
	case *servicing.ServiceOrderStatusChangedEvent:
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("to", string(e.To))))
	case *inventory.PartOutOfStockEvent:
		m.stockouts.Add(ctx, 1)
	case *finance.InvoiceMintedEvent:
		m.invoicesMinted.Add(ctx, 1)
		m.invoiceAmount.Record(ctx, e.Amount.InexactFloat64())
	case *finance.InvoicePaidEvent:
		m.invoicesSettled.Add(ctx, 1, outcome("paid"))
	case *finance.InvoiceCancelledEvent:
		m.invoicesSettled.Add(ctx, 1, outcome("cancelled"))
	case *finance.InvoiceOverdueEvent:
		m.overdueNotices.Add(ctx, 1)
	}
	return nil
}

func outcome(v string) metric.AddOption {
	return metric.WithAttributes(attribute.String("outcome", v))
}

var _ shared.EventHandler = (*WorkflowMetrics)(nil)
