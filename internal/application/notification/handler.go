package notification

import (
	"context"
	"fmt"

	"github.com/evcare/backend/internal/domain/finance"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats amounts with digit grouping, e.g. 1,234.50
var printer = message.NewPrinter(language.English)

func money(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Notifier delivers a short message to a user. Delivery is fire-and-forget:
// the returned error is logged by the caller and never retried.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, message string, relatedOrderID *uuid.UUID) error
}

// Message is one notification derived from a domain event
type Message struct {
	Recipient      uuid.UUID
	Text           string
	RelatedOrderID *uuid.UUID
}

// Handler turns workflow events into notifications for the people who have to act next
type Handler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewHandler creates a notification handler
func NewHandler(notifier Notifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *Handler) EventTypes() []string {
	return []string{
		servicing.EventTypePartRequestCreated,
		servicing.EventTypePartRequestFulfilled,
		servicing.EventTypePartRequestRejected,
		servicing.EventTypeTechnicianAssigned,
		servicing.EventTypeServiceOrderStatusChanged,
		finance.EventTypeInvoiceMinted,
		finance.EventTypeInvoiceOverdue,
	}
}

// Handle notifies the recipient of the event, if it has one
func (h *Handler) Handle(ctx context.Context, event shared.DomainEvent) error {
	msg, ok := MessageFor(event)
	if !ok {
		return nil
	}
	if err := h.notifier.Notify(ctx, msg.Recipient, msg.Text, msg.RelatedOrderID); err != nil {
		h.logger.Warn("notification delivery failed",
			zap.String("event_type", event.EventType()),
			zap.String("recipient", msg.Recipient.String()),
			zap.Error(err),
		)
	}
	return nil
}

// MessageFor maps an event to its notification. Events that nobody needs to
// hear about report false.
func MessageFor(event shared.DomainEvent) (Message, bool) {
	switch e := event.(type) {
	case *servicing.PartRequestCreatedEvent:
		return Message{
			Recipient:      e.AdvisorID,
			Text:           fmt.Sprintf("New %s part request for %d unit(s) awaits approval", e.Urgency, e.Quantity),
			RelatedOrderID: &e.OrderID,
		}, true
	case *servicing.PartRequestFulfilledEvent:
		return Message{
			Recipient:      e.TechnicianID,
			Text:           fmt.Sprintf("Your part request for %d unit(s) was approved", e.Quantity),
			RelatedOrderID: &e.OrderID,
		}, true
	case *servicing.PartRequestRejectedEvent:
		text := "Your part request was rejected"
		if e.Notes != "" {
			text += ": " + e.Notes
		}
		return Message{Recipient: e.TechnicianID, Text: text, RelatedOrderID: &e.OrderID}, true
	case *servicing.TechnicianAssignedEvent:
		return Message{
			Recipient:      e.TechnicianID,
			Text:           "You were assigned a service order",
			RelatedOrderID: &e.OrderID,
		}, true
	case *servicing.ServiceOrderStatusChangedEvent:
		if e.To != servicing.OrderStatusReadyForInvoice {
			return Message{}, false
		}
		return Message{
			Recipient:      e.AdvisorID,
			Text:           "Service order is ready for invoicing",
			RelatedOrderID: &e.OrderID,
		}, true
	case *finance.InvoiceMintedEvent:
		return Message{
			Recipient:      e.CustomerID,
			Text:           fmt.Sprintf("Your invoice of %s is due on %s", money(e.Amount), e.DueAt.Format("2006-01-02")),
			RelatedOrderID: &e.OrderID,
		}, true
	case *finance.InvoiceOverdueEvent:
		return Message{
			Recipient: e.CustomerID,
			Text: fmt.Sprintf("Your invoice of %s was due on %s and is %d day(s) overdue",
				money(e.Amount), e.DueAt.Format("2006-01-02"), e.DaysOverdue),
			RelatedOrderID: &e.OrderID,
		}, true
	}
	return Message{}, false
}

var _ shared.EventHandler = (*Handler)(nil)

// LogNotifier writes notifications to the log; delivery channels live outside this service
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification
func (n *LogNotifier) Notify(_ context.Context, userID uuid.UUID, message string, relatedOrderID *uuid.UUID) error {
	fields := []zap.Field{
		zap.String("user_id", userID.String()),
		zap.String("message", message),
	}
	if relatedOrderID != nil {
		fields = append(fields, zap.String("order_id", relatedOrderID.String()))
	}
	n.logger.Info("notification", fields...)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
