package printing

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"strings"
	"time"

	financeapp "github.com/evcare/backend/internal/application/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ErrPDFUnavailable is returned by PDF when no renderer is configured
var ErrPDFUnavailable = errors.New("pdf rendering is not configured")

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

var funcMap = template.FuncMap{
	"formatMoney":   formatMoney,
	"formatPercent": formatPercent,
	"formatDate":    formatDate,
	"shortID":       shortID,
	"statusText":    statusText,
}

// invoiceView is the template input
type invoiceView struct {
	*financeapp.InvoiceDocument
	Issuer string
}

// InvoicePrinter lays out invoice documents
type InvoicePrinter struct {
	tmpl     *template.Template
	renderer PDFRenderer
	issuer   string
	paper    PaperSize
	logger   *zap.Logger
}

// InvoicePrinterOption configures an InvoicePrinter
type InvoicePrinterOption func(*InvoicePrinter)

// WithRenderer enables PDF output
func WithRenderer(r PDFRenderer) InvoicePrinterOption {
	return func(p *InvoicePrinter) {
		p.renderer = r
	}
}

// WithPaperSize sets the PDF page format
func WithPaperSize(size PaperSize) InvoicePrinterOption {
	return func(p *InvoicePrinter) {
		if size.IsValid() {
			p.paper = size
		}
	}
}

// WithIssuer sets the business name printed in the header
func WithIssuer(name string) InvoicePrinterOption {
	return func(p *InvoicePrinter) {
		if name != "" {
			p.issuer = name
		}
	}
}

// NewInvoicePrinter parses the embedded invoice template
func NewInvoicePrinter(logger *zap.Logger, opts ...InvoicePrinterOption) (*InvoicePrinter, error) {
	tmpl, err := template.New("invoice.html.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/invoice.html.tmpl")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse invoice template", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &InvoicePrinter{
		tmpl:   tmpl,
		issuer: "EV Service Center",
		paper:  PaperSizeA4,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PDFEnabled reports whether PDF returns documents
func (p *InvoicePrinter) PDFEnabled() bool {
	return p.renderer != nil
}

// HTML renders the invoice as a standalone HTML page
func (p *InvoicePrinter) HTML(doc *financeapp.InvoiceDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, invoiceView{InvoiceDocument: doc, Issuer: p.issuer}); err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to execute invoice template", err)
	}
	return buf.Bytes(), nil
}

// PDF renders the invoice to PDF
func (p *InvoicePrinter) PDF(ctx context.Context, doc *financeapp.InvoiceDocument) ([]byte, error) {
	if p.renderer == nil {
		return nil, ErrPDFUnavailable
	}
	page, err := p.HTML(doc)
	if err != nil {
		return nil, err
	}
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       string(page),
		Title:      "Invoice " + shortID(doc.Invoice.ID),
		PaperSize:  p.paper,
		Margins:    DefaultMargins(),
		FooterHTML: `<div style="font-size:8pt;width:100%;text-align:center"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		p.logger.Warn("invoice pdf rendering failed",
			zap.String("invoice_id", doc.Invoice.ID.String()),
			zap.Error(err))
		return nil, err
	}
	return result.PDFData, nil
}

// Close releases the renderer
func (p *InvoicePrinter) Close() error {
	if p.renderer == nil {
		return nil
	}
	return p.renderer.Close()
}

func formatMoney(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func formatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

// statusText turns an enum value such as READY_FOR_INVOICE into "Ready For Invoice"
func statusText(s string) string {
	return titler.String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
}
