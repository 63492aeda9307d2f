package inventory

import (
	"time"

	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartResponse represents a part in API responses
type PartResponse struct {
	ID              uuid.UUID       `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	QuantityInStock int             `json:"quantity_in_stock"`
	Status          string          `json:"status"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToPartResponse converts a domain Part to a response
func ToPartResponse(p *inventory.Part) PartResponse {
	return PartResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Price:           p.Price,
		QuantityInStock: p.QuantityInStock,
		Status:          p.Status.String(),
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToPartResponses converts a slice of parts
func ToPartResponses(parts []inventory.Part) []PartResponse {
	out := make([]PartResponse, len(parts))
	for i := range parts {
		out[i] = ToPartResponse(&parts[i])
	}
	return out
}

// PartListFilter represents filter options for the part list
type PartListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE OUT_OF_STOCK DISCONTINUED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreatePartRequest represents a request to register a part
type CreatePartRequest struct {
	SKU             string          `json:"sku" binding:"required,max=64"`
	Name            string          `json:"name" binding:"required,max=200"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	InitialQuantity int             `json:"initial_quantity" binding:"min=0"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,max=500"`
}

// ChangeStatusRequest represents a direct status override
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE OUT_OF_STOCK DISCONTINUED"`
}

// DeductStockRequest represents a deduction on behalf of a part request
type DeductStockRequest struct {
	PartID     uuid.UUID
	Quantity   int
	RequestID  uuid.UUID
	OperatorID *uuid.UUID
}

// AvailabilityResponse is the answer to a stock check
type AvailabilityResponse struct {
	PartID          uuid.UUID `json:"part_id"`
	RequiredQty     int       `json:"required_quantity"`
	QuantityInStock int       `json:"quantity_in_stock"`
	Available       bool      `json:"available"`
	Shortfall       int       `json:"shortfall"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID            uuid.UUID  `json:"id"`
	PartID        uuid.UUID  `json:"part_id"`
	Kind          string     `json:"kind"`
	Delta         int        `json:"delta"`
	BalanceBefore int        `json:"balance_before"`
	BalanceAfter  int        `json:"balance_after"`
	SourceType    string     `json:"source_type"`
	SourceID      *uuid.UUID `json:"source_id,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	OperatorID    *uuid.UUID `json:"operator_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToMovementResponse converts a domain StockMovement to a response
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		PartID:        m.PartID,
		Kind:          string(m.Kind),
		Delta:         m.Delta,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		SourceType:    string(m.SourceType),
		SourceID:      m.SourceID,
		Reason:        m.Reason,
		OperatorID:    m.OperatorID,
		CreatedAt:     m.CreatedAt,
	}
}

// MovementListFilter pages through a part's movements
type MovementListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
