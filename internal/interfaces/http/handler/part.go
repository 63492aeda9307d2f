package handler

import (
	"context"

	inventoryapp "github.com/evcare/backend/internal/application/inventory"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PartUseCases is the part catalogue and stock ledger as seen by HTTP
type PartUseCases interface {
	CreatePart(ctx context.Context, by identity.Caller, req inventoryapp.CreatePartRequest) (*inventoryapp.PartResponse, error)
	GetPart(ctx context.Context, partID uuid.UUID) (*inventoryapp.PartResponse, error)
	ListParts(ctx context.Context, filter inventoryapp.PartListFilter) ([]inventoryapp.PartResponse, int64, error)
	CheckAvailability(ctx context.Context, partID uuid.UUID, requiredQty int) (*inventoryapp.AvailabilityResponse, error)
	AdjustManually(ctx context.Context, by identity.Caller, partID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventoryapp.PartResponse, error)
	ChangeStatus(ctx context.Context, by identity.Caller, partID uuid.UUID, req inventoryapp.ChangeStatusRequest) (*inventoryapp.PartResponse, error)
	ListMovements(ctx context.Context, partID uuid.UUID, filter inventoryapp.MovementListFilter) ([]inventoryapp.MovementResponse, int64, error)
}

// PartHandler serves /parts
type PartHandler struct {
	BaseHandler
	parts PartUseCases
}

// NewPartHandler creates a PartHandler
func NewPartHandler(parts PartUseCases) *PartHandler {
	return &PartHandler{parts: parts}
}

// RegisterRoutes mounts the part routes
func (h *PartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/parts")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/availability", h.Availability)
	g.POST("/:id/adjustments", h.Adjust)
	g.PUT("/:id/status", h.ChangeStatus)
	g.GET("/:id/movements", h.Movements)
}

// Create registers a new part
func (h *PartHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req inventoryapp.CreatePartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	part, err := h.parts.CreatePart(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, part)
}

// List pages through parts
func (h *PartHandler) List(c *gin.Context) {
	var filter inventoryapp.PartListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	parts, total, err := h.parts.ListParts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, parts, total, filter.Page, filter.PageSize)
}

// Get returns one part
func (h *PartHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	part, err := h.parts.GetPart(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

type availabilityQuery struct {
	Qty int `form:"qty" binding:"required,min=1"`
}

// Availability answers whether ?qty=N units can be served now
func (h *PartHandler) Availability(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q availabilityQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.parts.CheckAvailability(c.Request.Context(), id, q.Qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Adjust applies a manual stock correction
func (h *PartHandler) Adjust(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	part, err := h.parts.AdjustManually(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

// ChangeStatus overrides the part's lifecycle status
func (h *PartHandler) ChangeStatus(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	part, err := h.parts.ChangeStatus(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

// Movements pages through the part's stock movements
func (h *PartHandler) Movements(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	movements, total, err := h.parts.ListMovements(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}
