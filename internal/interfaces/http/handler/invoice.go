package handler

import (
	"context"
	"net/http"

	financeapp "github.com/evcare/backend/internal/application/finance"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceUseCases reads and settles invoices
type InvoiceUseCases interface {
	ConfirmPayment(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*financeapp.InvoiceResponse, error)
	CancelInvoice(ctx context.Context, by identity.Caller, invoiceID uuid.UUID, req financeapp.CancelInvoiceRequest) (*financeapp.InvoiceResponse, error)
	Get(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*financeapp.InvoiceResponse, error)
	List(ctx context.Context, by identity.Caller, filter financeapp.InvoiceListFilter) ([]financeapp.InvoiceResponse, int64, error)
	Document(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*financeapp.InvoiceDocument, error)
}

// DocumentPrinter lays out a printable invoice
type DocumentPrinter interface {
	HTML(doc *financeapp.InvoiceDocument) ([]byte, error)
	PDF(ctx context.Context, doc *financeapp.InvoiceDocument) ([]byte, error)
	PDFEnabled() bool
}

// InvoiceHandler serves /invoices
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceUseCases
	printer  DocumentPrinter
}

// NewInvoiceHandler creates an InvoiceHandler. A nil printer leaves the
// document route unmounted.
func NewInvoiceHandler(invoices InvoiceUseCases, printer DocumentPrinter) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, printer: printer}
}

// RegisterRoutes mounts the invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/invoices")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/pay", h.Pay)
	g.POST("/:id/cancel", h.Cancel)
	if h.printer != nil {
		g.GET("/:id/document", h.Document)
	}
}

func (h *InvoiceHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var filter financeapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !h.queryUUIDs(c, uuidQuery{"customer_id", &filter.CustomerID}) {
		return
	}
	invoices, total, err := h.invoices.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.Get(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Pay records payment of a pending invoice
func (h *InvoiceHandler) Pay(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.ConfirmPayment(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

func (h *InvoiceHandler) Cancel(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.CancelInvoiceRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.CancelInvoice(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Document renders the invoice as HTML, or as PDF with ?format=pdf
func (h *InvoiceHandler) Document(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "html")
	if format != "html" && format != "pdf" {
		h.Error(c, dto.ErrCodeInvalidInput, "format must be html or pdf")
		return
	}
	if format == "pdf" && !h.printer.PDFEnabled() {
		h.Error(c, dto.ErrCodeNotImplemented, "PDF rendering is not enabled")
		return
	}

	doc, err := h.invoices.Document(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if format == "pdf" {
		pdf, err := h.printer.PDF(c.Request.Context(), doc)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `inline; filename="invoice-`+id.String()+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
		return
	}

	page, err := h.printer.HTML(doc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
