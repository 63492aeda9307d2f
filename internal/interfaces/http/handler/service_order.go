package handler

import (
	"context"

	financeapp "github.com/evcare/backend/internal/application/finance"
	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderUseCases drives the service-order lifecycle
type OrderUseCases interface {
	OpenWalkIn(ctx context.Context, by identity.Caller, req servicingapp.OpenWalkInRequest) (*servicingapp.ServiceOrderResponse, error)
	OpenFromAppointment(ctx context.Context, by identity.Caller, req servicingapp.OpenFromAppointmentRequest) (*servicingapp.ServiceOrderResponse, error)
	AssignTechnician(ctx context.Context, by identity.Caller, orderID uuid.UUID, req servicingapp.AssignTechnicianRequest) (*servicingapp.ServiceOrderResponse, error)
	Advance(ctx context.Context, by identity.Caller, orderID uuid.UUID, req servicingapp.AdvanceOrderRequest) (*servicingapp.ServiceOrderResponse, error)
	AddServiceLine(ctx context.Context, by identity.Caller, orderID uuid.UUID, req servicingapp.AddServiceLineRequest) (*servicingapp.OrderItemResponse, error)
	ApproveLine(ctx context.Context, by identity.Caller, orderID, itemID uuid.UUID) (*servicingapp.OrderItemResponse, error)
	RejectLine(ctx context.Context, by identity.Caller, orderID, itemID uuid.UUID) (*servicingapp.OrderItemResponse, error)
	Get(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*servicingapp.ServiceOrderResponse, error)
	List(ctx context.Context, by identity.Caller, filter servicingapp.OrderListFilter) ([]servicingapp.ServiceOrderResponse, int64, error)
}

// BillingUseCases prices orders and issues their invoices
type BillingUseCases interface {
	BuildQuotation(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*financeapp.QuotationResponse, error)
	MintInvoice(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*financeapp.InvoiceResponse, error)
	GetByOrder(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*financeapp.InvoiceResponse, error)
}

// ServiceOrderHandler serves /service-orders
type ServiceOrderHandler struct {
	BaseHandler
	orders  OrderUseCases
	billing BillingUseCases
}

// NewServiceOrderHandler creates a ServiceOrderHandler
func NewServiceOrderHandler(orders OrderUseCases, billing BillingUseCases) *ServiceOrderHandler {
	return &ServiceOrderHandler{orders: orders, billing: billing}
}

// RegisterRoutes mounts the service-order routes
func (h *ServiceOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/service-orders")
	g.POST("", h.OpenWalkIn)
	g.POST("/from-appointment", h.OpenFromAppointment)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id/technician", h.AssignTechnician)
	g.POST("/:id/transitions", h.Transition)
	g.POST("/:id/items", h.AddServiceLine)
	g.POST("/:id/items/:itemId/approve", h.ApproveLine)
	g.POST("/:id/items/:itemId/reject", h.RejectLine)
	g.GET("/:id/quotation", h.Quotation)
	g.POST("/:id/invoice", h.MintInvoice)
	g.GET("/:id/invoice", h.Invoice)
}

func (h *ServiceOrderHandler) OpenWalkIn(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req servicingapp.OpenWalkInRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.OpenWalkIn(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

func (h *ServiceOrderHandler) OpenFromAppointment(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req servicingapp.OpenFromAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.OpenFromAppointment(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

func (h *ServiceOrderHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var filter servicingapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !h.queryUUIDs(c,
		uuidQuery{"technician_id", &filter.TechnicianID},
		uuidQuery{"customer_id", &filter.CustomerID},
		uuidQuery{"advisor_id", &filter.AdvisorID},
	) {
		return
	}
	orders, total, err := h.orders.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

func (h *ServiceOrderHandler) Get(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *ServiceOrderHandler) AssignTechnician(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req servicingapp.AssignTechnicianRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.AssignTechnician(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Transition moves the order to the requested status
func (h *ServiceOrderHandler) Transition(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req servicingapp.AdvanceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Advance(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *ServiceOrderHandler) AddServiceLine(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req servicingapp.AddServiceLineRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.orders.AddServiceLine(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

func (h *ServiceOrderHandler) ApproveLine(c *gin.Context) {
	h.decideLine(c, h.orders.ApproveLine)
}

func (h *ServiceOrderHandler) RejectLine(c *gin.Context) {
	h.decideLine(c, h.orders.RejectLine)
}

type lineDecision func(ctx context.Context, by identity.Caller, orderID, itemID uuid.UUID) (*servicingapp.OrderItemResponse, error)

func (h *ServiceOrderHandler) decideLine(c *gin.Context, decide lineDecision) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}
	item, err := decide(c.Request.Context(), caller, orderID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Quotation returns the priced projection of the order's lines
func (h *ServiceOrderHandler) Quotation(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	quote, err := h.billing.BuildQuotation(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// MintInvoice completes the order and issues its invoice
func (h *ServiceOrderHandler) MintInvoice(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.billing.MintInvoice(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Invoice returns the invoice issued for the order
func (h *ServiceOrderHandler) Invoice(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.billing.GetByOrder(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
