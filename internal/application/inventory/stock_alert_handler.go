package inventory

import (
	"context"
	"fmt"

	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlert describes a part that ran dry
type StockAlert struct {
	PartID string `json:"part_id"`
	SKU    string `json:"sku"`
	Name   string `json:"name"`
}

// StockAlertNotifier sends out-of-stock alerts to whoever restocks the store room
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// PartOutOfStockHandler reacts to PartOutOfStock events
type PartOutOfStockHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewPartOutOfStockHandler creates a new handler for out-of-stock events
func NewPartOutOfStockHandler(logger *zap.Logger) *PartOutOfStockHandler {
	return &PartOutOfStockHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *PartOutOfStockHandler) WithNotifier(notifier StockAlertNotifier) *PartOutOfStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *PartOutOfStockHandler) EventTypes() []string {
	return []string{inventory.EventTypePartOutOfStock}
}

// Handle processes a PartOutOfStockEvent
func (h *PartOutOfStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.PartOutOfStockEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypePartOutOfStock, event.EventType())
	}

	h.logger.Warn("part out of stock",
		zap.String("part_id", e.PartID.String()),
		zap.String("sku", e.SKU),
	)

	if h.notifier == nil {
		return nil
	}
	alert := StockAlert{PartID: e.PartID.String(), SKU: e.SKU, Name: e.Name}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// notification failure shouldn't fail the event handling
		h.logger.Error("failed to send stock alert",
			zap.String("part_id", alert.PartID),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*PartOutOfStockHandler)(nil)

// LoggingStockAlertNotifier writes alerts to the log
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("part_id", alert.PartID),
		zap.String("sku", alert.SKU),
		zap.String("name", alert.Name),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
