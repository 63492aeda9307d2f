package inventory

import (
	"time"

	"github.com/google/uuid"
)

// MovementKind classifies a stock movement
type MovementKind string

const (
	MovementInitial    MovementKind = "INITIAL"
	MovementDeduction  MovementKind = "DEDUCTION"
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

// MovementSource identifies what caused a movement
type MovementSource string

const (
	SourceCreation    MovementSource = "CREATION"
	SourcePartRequest MovementSource = "PART_REQUEST"
	SourceManual      MovementSource = "MANUAL"
)

// StockMovement is an immutable audit row for one quantity change of a Part.
// It is written in the same transaction as the change it records.
type StockMovement struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	PartID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind          MovementKind   `gorm:"type:varchar(20);not null"`
	Delta         int            `gorm:"not null"`
	BalanceBefore int            `gorm:"not null"`
	BalanceAfter  int            `gorm:"not null"`
	SourceType    MovementSource `gorm:"type:varchar(20);not null"`
	SourceID      *uuid.UUID     `gorm:"type:uuid;index"`
	Reason        string         `gorm:"type:varchar(500)"`
	OperatorID    *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt     time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewInitialMovement records the opening balance of a new part
func NewInitialMovement(p *Part, operatorID *uuid.UUID) *StockMovement {
	return newMovement(p.ID, MovementInitial, p.QuantityInStock, 0, p.QuantityInStock, SourceCreation, &p.ID, "initial stock", operatorID)
}

// NewDeductionMovement records a deduction made while fulfilling a part request
func NewDeductionMovement(p *Part, qty int, requestID uuid.UUID, operatorID *uuid.UUID) *StockMovement {
	return newMovement(p.ID, MovementDeduction, -qty, p.QuantityInStock+qty, p.QuantityInStock, SourcePartRequest, &requestID, "part request fulfilled", operatorID)
}

// NewAdjustmentMovement records a manual correction
func NewAdjustmentMovement(p *Part, delta int, reason string, operatorID *uuid.UUID) *StockMovement {
	return newMovement(p.ID, MovementAdjustment, delta, p.QuantityInStock-delta, p.QuantityInStock, SourceManual, nil, reason, operatorID)
}

func newMovement(partID uuid.UUID, kind MovementKind, delta, before, after int, source MovementSource, sourceID *uuid.UUID, reason string, operatorID *uuid.UUID) *StockMovement {
	return &StockMovement{
		ID:            uuid.New(),
		PartID:        partID,
		Kind:          kind,
		Delta:         delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		SourceType:    source,
		SourceID:      sourceID,
		Reason:        reason,
		OperatorID:    operatorID,
		CreatedAt:     time.Now(),
	}
}
