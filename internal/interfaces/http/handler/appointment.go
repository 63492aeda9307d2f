package handler

import (
	"context"

	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentUseCases books and manages appointments
type AppointmentUseCases interface {
	Book(ctx context.Context, by identity.Caller, req servicingapp.BookAppointmentRequest) (*servicingapp.AppointmentResponse, error)
	Confirm(ctx context.Context, by identity.Caller, id uuid.UUID) (*servicingapp.AppointmentResponse, error)
	Cancel(ctx context.Context, by identity.Caller, id uuid.UUID, req servicingapp.CancelAppointmentRequest) (*servicingapp.AppointmentResponse, error)
	Get(ctx context.Context, by identity.Caller, id uuid.UUID) (*servicingapp.AppointmentResponse, error)
	List(ctx context.Context, by identity.Caller, filter servicingapp.AppointmentListFilter) ([]servicingapp.AppointmentResponse, int64, error)
}

// AppointmentHandler serves /appointments
type AppointmentHandler struct {
	BaseHandler
	appointments AppointmentUseCases
}

// NewAppointmentHandler creates an AppointmentHandler
func NewAppointmentHandler(appointments AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// RegisterRoutes mounts the appointment routes
func (h *AppointmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/appointments")
	g.POST("", h.Book)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/confirm", h.Confirm)
	g.POST("/:id/cancel", h.Cancel)
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req servicingapp.BookAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	appt, err := h.appointments.Book(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appt)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var filter servicingapp.AppointmentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !h.queryUUIDs(c, uuidQuery{"customer_id", &filter.CustomerID}) {
		return
	}
	appts, total, err := h.appointments.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, appts, total, filter.Page, filter.PageSize)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	appt, err := h.appointments.Get(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	appt, err := h.appointments.Confirm(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}

// Cancel withdraws a booking; the reason body is optional
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req servicingapp.CancelAppointmentRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	appt, err := h.appointments.Cancel(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}
