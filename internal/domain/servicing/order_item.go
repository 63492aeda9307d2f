package servicing

import (
	"fmt"
	"time"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemKind tags what an order line refers to
type ItemKind string

const (
	ItemKindService ItemKind = "SERVICE"
	ItemKindPart    ItemKind = "PART"
)

// IsValid checks if the kind is a known value
func (k ItemKind) IsValid() bool {
	return k == ItemKindService || k == ItemKindPart
}

// String returns the string representation of ItemKind
func (k ItemKind) String() string {
	return string(k)
}

// ItemRef is the tagged reference from an order line into the service catalog
// or the parts ledger. Lines keep the reference even if the target later changes.
type ItemRef struct {
	Kind ItemKind
	ID   uuid.UUID
}

// ServiceRef references a catalog service offering
func ServiceRef(id uuid.UUID) ItemRef {
	return ItemRef{Kind: ItemKindService, ID: id}
}

// PartRef references a ledger part
func PartRef(id uuid.UUID) ItemRef {
	return ItemRef{Kind: ItemKindPart, ID: id}
}

// IsService reports whether the reference points at the service catalog
func (r ItemRef) IsService() bool { return r.Kind == ItemKindService }

// IsPart reports whether the reference points at the parts ledger
func (r ItemRef) IsPart() bool { return r.Kind == ItemKindPart }

func (r ItemRef) String() string {
	return fmt.Sprintf("%s(%s)", r.Kind, r.ID)
}

// LineStatus is the approval state of an order line
type LineStatus string

const (
	LineStatusRequested LineStatus = "REQUESTED"
	LineStatusApproved  LineStatus = "APPROVED"
	LineStatusRejected  LineStatus = "REJECTED"
)

// IsValid checks if the status is a known value
func (s LineStatus) IsValid() bool {
	switch s {
	case LineStatusRequested, LineStatusApproved, LineStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of LineStatus
func (s LineStatus) String() string {
	return string(s)
}

// OrderItem is one billable line on a service order.
// UnitPrice is a snapshot taken when the line was added.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind            ItemKind        `gorm:"type:varchar(10);not null"`
	RefID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status          LineStatus      `gorm:"type:varchar(20);not null"`
	SourceRequestID *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Ref returns the tagged catalog/ledger reference of the line
func (i *OrderItem) Ref() ItemRef {
	return ItemRef{Kind: i.Kind, ID: i.RefID}
}

// LineTotal is unit price times quantity
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsBillable reports whether the line counts toward an invoice
func (i *OrderItem) IsBillable() bool {
	return i.Status == LineStatusApproved
}

func (i *OrderItem) approve() error {
	if i.Status != LineStatusRequested {
		return shared.NewInvalidStateTransition(string(i.Status), string(LineStatusApproved))
	}
	i.Status = LineStatusApproved
	i.UpdatedAt = time.Now()
	return nil
}

func (i *OrderItem) reject() error {
	if i.Status != LineStatusRequested {
		return shared.NewInvalidStateTransition(string(i.Status), string(LineStatusRejected))
	}
	i.Status = LineStatusRejected
	i.UpdatedAt = time.Now()
	return nil
}

func newOrderItem(orderID uuid.UUID, ref ItemRef, qty int, unitPrice decimal.Decimal, status LineStatus) (*OrderItem, error) {
	if !ref.Kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown item kind %q", ref.Kind))
	}
	if ref.ID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Item reference cannot be empty")
	}
	if qty <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit price cannot be negative")
	}
	now := time.Now()
	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		Kind:      ref.Kind,
		RefID:     ref.ID,
		Quantity:  qty,
		UnitPrice: unitPrice.Round(2),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
