package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartStatus represents the lifecycle status of a spare part
type PartStatus string

const (
	PartStatusActive       PartStatus = "ACTIVE"
	PartStatusOutOfStock   PartStatus = "OUT_OF_STOCK"
	PartStatusDiscontinued PartStatus = "DISCONTINUED"
)

// IsValid checks if the status is a known value
func (s PartStatus) IsValid() bool {
	switch s {
	case PartStatusActive, PartStatusOutOfStock, PartStatusDiscontinued:
		return true
	}
	return false
}

// String returns the string representation of PartStatus
func (s PartStatus) String() string {
	return string(s)
}

// ParsePartStatus converts a raw value into a PartStatus, rejecting unknown values
func ParsePartStatus(s string) (PartStatus, error) {
	st := PartStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown part status %q", s))
	}
	return st, nil
}

// Part is the aggregate root for a spare part and its stock counter.
// All quantity mutations go through Deduct and Adjust so that
// QuantityInStock never drops below zero and Status stays consistent with it.
type Part struct {
	shared.BaseAggregateRoot
	SKU             string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Price           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	QuantityInStock int             `gorm:"not null;check:chk_parts_quantity_non_negative,quantity_in_stock >= 0"`
	Status          PartStatus      `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (Part) TableName() string {
	return "parts"
}

// NewPart registers a new part. Status is ACTIVE, or OUT_OF_STOCK when initialQty is zero.
func NewPart(sku, name string, initialQty int, price decimal.Decimal) (*Part, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "SKU cannot exceed 64 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Part name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Part name cannot exceed 200 characters")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Price must be greater than zero")
	}
	if initialQty < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Initial quantity cannot be negative")
	}

	p := &Part{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Price:             price.Round(2),
		QuantityInStock:   initialQty,
		Status:            PartStatusActive,
	}
	p.recomputeStatus()

	p.AddDomainEvent(NewPartCreatedEvent(p))
	return p, nil
}

// Availability is the answer to a stock check
type Availability struct {
	Available bool
	Shortfall int
}

// CheckAvailability reports whether requiredQty can be served from current stock.
// Discontinued parts are never available.
func (p *Part) CheckAvailability(requiredQty int) Availability {
	if p.Status == PartStatusDiscontinued {
		return Availability{Available: false, Shortfall: requiredQty}
	}
	if requiredQty <= p.QuantityInStock {
		return Availability{Available: true}
	}
	return Availability{Available: false, Shortfall: requiredQty - p.QuantityInStock}
}

// Deduct removes qty units from stock
func (p *Part) Deduct(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Deduct quantity must be positive")
	}
	if qty > p.QuantityInStock {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("Insufficient stock for part %s: requested %d, available %d", p.SKU, qty, p.QuantityInStock))
	}

	before := p.QuantityInStock
	p.QuantityInStock -= qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockDeductedEvent(p, qty, before))
	p.applyStatus(p.derivedStatus())
	return nil
}

// Adjust applies a signed manual correction to stock. The reason is recorded for audit.
func (p *Part) Adjust(delta int, reason string) error {
	reason = strings.TrimSpace(reason)
	if delta == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Adjustment delta cannot be zero")
	}
	if reason == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Adjustment reason is required")
	}
	if p.QuantityInStock+delta < 0 {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("Adjustment of %d would leave part %s with negative stock (%d on hand)", delta, p.SKU, p.QuantityInStock))
	}

	before := p.QuantityInStock
	p.QuantityInStock += delta
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockAdjustedEvent(p, delta, before, reason))
	p.applyStatus(p.derivedStatus())
	return nil
}

// ChangeStatus overrides the lifecycle status without touching quantity.
// Moving away from DISCONTINUED restores ACTIVE or OUT_OF_STOCK from the quantity.
// On a live part, ACTIVE or OUT_OF_STOCK must agree with the quantity on hand.
func (p *Part) ChangeStatus(status PartStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown part status %q", status))
	}

	target := status
	if status != PartStatusDiscontinued {
		target = p.stockStatus()
		if p.Status != PartStatusDiscontinued && target != status {
			return shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("cannot mark part %s with %d in stock", status, p.QuantityInStock))
		}
	}
	if target == p.Status {
		return nil
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.applyStatus(target)
	return nil
}

// Reprice changes the list price. Existing order lines keep their snapshot.
func (p *Part) Reprice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Price must be greater than zero")
	}
	p.Price = price.Round(2)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsDiscontinued reports whether the part was retired
func (p *Part) IsDiscontinued() bool {
	return p.Status == PartStatusDiscontinued
}

func (p *Part) stockStatus() PartStatus {
	if p.QuantityInStock == 0 {
		return PartStatusOutOfStock
	}
	return PartStatusActive
}

func (p *Part) derivedStatus() PartStatus {
	if p.Status == PartStatusDiscontinued {
		return PartStatusDiscontinued
	}
	return p.stockStatus()
}

func (p *Part) recomputeStatus() {
	p.Status = p.derivedStatus()
}

func (p *Part) applyStatus(target PartStatus) {
	if target == p.Status {
		return
	}
	from := p.Status
	p.Status = target
	p.AddDomainEvent(NewPartStatusChangedEvent(p, from, target))
	if target == PartStatusOutOfStock {
		p.AddDomainEvent(NewPartOutOfStockEvent(p))
	}
}
