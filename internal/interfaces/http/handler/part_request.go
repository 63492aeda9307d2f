package handler

import (
	"context"

	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PartRequestUseCases runs the parts request workflow
type PartRequestUseCases interface {
	Create(ctx context.Context, by identity.Caller, req servicingapp.CreatePartRequestRequest) (*servicingapp.PartRequestResponse, error)
	Approve(ctx context.Context, by identity.Caller, requestID uuid.UUID, req servicingapp.DecidePartRequestRequest) (*servicingapp.PartRequestResponse, error)
	Reject(ctx context.Context, by identity.Caller, requestID uuid.UUID, req servicingapp.DecidePartRequestRequest) (*servicingapp.PartRequestResponse, error)
	Cancel(ctx context.Context, by identity.Caller, requestID uuid.UUID) (*servicingapp.PartRequestResponse, error)
	Get(ctx context.Context, requestID uuid.UUID) (*servicingapp.PartRequestResponse, error)
	List(ctx context.Context, filter servicingapp.PartRequestListFilter) ([]servicingapp.PartRequestResponse, int64, error)
}

// PartRequestHandler serves /part-requests
type PartRequestHandler struct {
	BaseHandler
	requests PartRequestUseCases
}

// NewPartRequestHandler creates a PartRequestHandler
func NewPartRequestHandler(requests PartRequestUseCases) *PartRequestHandler {
	return &PartRequestHandler{requests: requests}
}

// RegisterRoutes mounts the part-request routes
func (h *PartRequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/part-requests")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	g.POST("/:id/cancel", h.Cancel)
}

func (h *PartRequestHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req servicingapp.CreatePartRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pr, err := h.requests.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pr)
}

func (h *PartRequestHandler) List(c *gin.Context) {
	var filter servicingapp.PartRequestListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !h.queryUUIDs(c,
		uuidQuery{"order_id", &filter.OrderID},
		uuidQuery{"technician_id", &filter.TechnicianID},
	) {
		return
	}
	requests, total, err := h.requests.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, requests, total, filter.Page, filter.PageSize)
}

func (h *PartRequestHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pr, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pr)
}

// Approve deducts stock and appends the part line to the order
func (h *PartRequestHandler) Approve(c *gin.Context) {
	h.decide(c, h.requests.Approve)
}

func (h *PartRequestHandler) Reject(c *gin.Context) {
	h.decide(c, h.requests.Reject)
}

type requestDecision func(ctx context.Context, by identity.Caller, requestID uuid.UUID, req servicingapp.DecidePartRequestRequest) (*servicingapp.PartRequestResponse, error)

func (h *PartRequestHandler) decide(c *gin.Context, decide requestDecision) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req servicingapp.DecidePartRequestRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	pr, err := decide(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pr)
}

func (h *PartRequestHandler) Cancel(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pr, err := h.requests.Cancel(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pr)
}
