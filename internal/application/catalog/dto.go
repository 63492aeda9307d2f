package catalog

import (
	"time"

	"github.com/evcare/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOfferingRequest represents a request to add a catalog service
type CreateOfferingRequest struct {
	Code        string          `json:"code" binding:"required,min=2,max=50"`
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// RepriceOfferingRequest changes the list price of an offering
type RepriceOfferingRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// OfferingListFilter represents filter options for the catalog
type OfferingListFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OfferingResponse represents a service offering in API responses
type OfferingResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToOfferingResponse converts a domain ServiceOffering to a response
func ToOfferingResponse(o *catalog.ServiceOffering) OfferingResponse {
	return OfferingResponse{
		ID:          o.ID,
		Code:        o.Code,
		Name:        o.Name,
		Description: o.Description,
		Price:       o.Price,
		Active:      o.Active,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
