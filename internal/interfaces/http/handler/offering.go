package handler

import (
	"context"

	catalogapp "github.com/evcare/backend/internal/application/catalog"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OfferingUseCases manages the service catalog
type OfferingUseCases interface {
	Create(ctx context.Context, by identity.Caller, req catalogapp.CreateOfferingRequest) (*catalogapp.OfferingResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*catalogapp.OfferingResponse, error)
	List(ctx context.Context, filter catalogapp.OfferingListFilter) ([]catalogapp.OfferingResponse, int64, error)
	Reprice(ctx context.Context, by identity.Caller, id uuid.UUID, req catalogapp.RepriceOfferingRequest) (*catalogapp.OfferingResponse, error)
	Deactivate(ctx context.Context, by identity.Caller, id uuid.UUID) (*catalogapp.OfferingResponse, error)
}

// OfferingHandler serves /services
type OfferingHandler struct {
	BaseHandler
	offerings OfferingUseCases
}

// NewOfferingHandler creates an OfferingHandler
func NewOfferingHandler(offerings OfferingUseCases) *OfferingHandler {
	return &OfferingHandler{offerings: offerings}
}

// RegisterRoutes mounts the catalog routes
func (h *OfferingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/services")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id/price", h.Reprice)
	g.POST("/:id/deactivate", h.Deactivate)
}

func (h *OfferingHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req catalogapp.CreateOfferingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	offering, err := h.offerings.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, offering)
}

func (h *OfferingHandler) List(c *gin.Context) {
	var filter catalogapp.OfferingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	offerings, total, err := h.offerings.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, offerings, total, filter.Page, filter.PageSize)
}

func (h *OfferingHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	offering, err := h.offerings.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offering)
}

func (h *OfferingHandler) Reprice(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.RepriceOfferingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	offering, err := h.offerings.Reprice(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offering)
}

func (h *OfferingHandler) Deactivate(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	offering, err := h.offerings.Deactivate(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offering)
}
