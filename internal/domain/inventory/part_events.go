package inventory

import (
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypePart is the aggregate type name for Part events
const AggregateTypePart = "Part"

// Event type constants
const (
	EventTypePartCreated       = "PartCreated"
	EventTypeStockDeducted     = "StockDeducted"
	EventTypeStockAdjusted     = "StockAdjusted"
	EventTypePartStatusChanged = "PartStatusChanged"
	EventTypePartOutOfStock    = "PartOutOfStock"
)

// PartCreatedEvent is raised when a part is registered in the ledger
type PartCreatedEvent struct {
	shared.BaseDomainEvent
	PartID   uuid.UUID       `json:"part_id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// NewPartCreatedEvent creates a new PartCreatedEvent
func NewPartCreatedEvent(p *Part) *PartCreatedEvent {
	return &PartCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartCreated, AggregateTypePart, p.ID),
		PartID:          p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Quantity:        p.QuantityInStock,
		Price:           p.Price,
	}
}

// StockDeductedEvent is raised when stock leaves the ledger
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	PartID        uuid.UUID `json:"part_id"`
	SKU           string    `json:"sku"`
	Quantity      int       `json:"quantity"`
	BalanceBefore int       `json:"balance_before"`
	BalanceAfter  int       `json:"balance_after"`
}

// NewStockDeductedEvent creates a new StockDeductedEvent
func NewStockDeductedEvent(p *Part, qty, before int) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, AggregateTypePart, p.ID),
		PartID:          p.ID,
		SKU:             p.SKU,
		Quantity:        qty,
		BalanceBefore:   before,
		BalanceAfter:    p.QuantityInStock,
	}
}

// StockAdjustedEvent is raised on a manual stock correction
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	PartID        uuid.UUID `json:"part_id"`
	SKU           string    `json:"sku"`
	Delta         int       `json:"delta"`
	BalanceBefore int       `json:"balance_before"`
	BalanceAfter  int       `json:"balance_after"`
	Reason        string    `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(p *Part, delta, before int, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypePart, p.ID),
		PartID:          p.ID,
		SKU:             p.SKU,
		Delta:           delta,
		BalanceBefore:   before,
		BalanceAfter:    p.QuantityInStock,
		Reason:          reason,
	}
}

// PartStatusChangedEvent is raised when the lifecycle status moves
type PartStatusChangedEvent struct {
	shared.BaseDomainEvent
	PartID uuid.UUID  `json:"part_id"`
	SKU    string     `json:"sku"`
	From   PartStatus `json:"from"`
	To     PartStatus `json:"to"`
}

// NewPartStatusChangedEvent creates a new PartStatusChangedEvent
func NewPartStatusChangedEvent(p *Part, from, to PartStatus) *PartStatusChangedEvent {
	return &PartStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartStatusChanged, AggregateTypePart, p.ID),
		PartID:          p.ID,
		SKU:             p.SKU,
		From:            from,
		To:              to,
	}
}

// PartOutOfStockEvent is raised when the last unit of a part is consumed
type PartOutOfStockEvent struct {
	shared.BaseDomainEvent
	PartID uuid.UUID `json:"part_id"`
	SKU    string    `json:"sku"`
	Name   string    `json:"name"`
}

// NewPartOutOfStockEvent creates a new PartOutOfStockEvent
func NewPartOutOfStockEvent(p *Part) *PartOutOfStockEvent {
	return &PartOutOfStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartOutOfStock, AggregateTypePart, p.ID),
		PartID:          p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
	}
}
