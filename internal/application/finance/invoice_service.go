package finance

import (
	"context"
	"errors"
	"time"

	"github.com/evcare/backend/internal/domain/finance"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultInvoiceDueIn is the payment term applied when none is configured
const DefaultInvoiceDueIn = 7 * 24 * time.Hour

// NameResolver gives order lines a display name for quotations
type NameResolver interface {
	ResolveName(ctx context.Context, ref servicing.ItemRef) string
}

// InvoiceService builds quotations and manages the single invoice of an order
type InvoiceService struct {
	orderRepo      servicing.ServiceOrderRepository
	invoiceRepo    finance.InvoiceRepository
	txScope        TransactionScope
	names          NameResolver
	eventPublisher shared.EventPublisher
	logger         *zap.Logger

	taxRate decimal.Decimal
	dueIn   time.Duration
	now     func() time.Time
}

// InvoiceServiceOption is a functional option for configuring InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// WithTaxRate overrides the default tax rate
func WithTaxRate(rate decimal.Decimal) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.taxRate = rate
	}
}

// WithDueIn overrides the default payment term
func WithDueIn(d time.Duration) InvoiceServiceOption {
	return func(s *InvoiceService) {
		if d > 0 {
			s.dueIn = d
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.now = now
	}
}

// WithNameResolver sets the display-name lookup used by quotations
func WithNameResolver(names NameResolver) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.names = names
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	orderRepo servicing.ServiceOrderRepository,
	invoiceRepo finance.InvoiceRepository,
	txScope TransactionScope,
	logger *zap.Logger,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &InvoiceService{
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		txScope:     txScope,
		logger:      logger,
		taxRate:     finance.DefaultTaxRate,
		dueIn:       DefaultInvoiceDueIn,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InvoiceService) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) > 0 && s.eventPublisher != nil {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
		agg.ClearDomainEvents()
	}
}

// BuildQuotation projects the order's lines and running totals. It never writes.
func (s *InvoiceService) BuildQuotation(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*QuotationResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if by.Role == identity.RoleCustomer && order.CustomerID != by.UserID {
		return nil, shared.NewNotFound("service order", orderID)
	}

	var nameOf func(servicing.ItemRef) string
	if s.names != nil {
		nameOf = func(ref servicing.ItemRef) string {
			return s.names.ResolveName(ctx, ref)
		}
	}
	response := ToQuotationResponse(finance.BuildQuotation(order, s.taxRate, nameOf))
	return &response, nil
}

// MintInvoice creates the order's single invoice and completes the order in one
// transaction. A repeat call reports INVOICE_ALREADY_EXISTS.
func (s *InvoiceService) MintInvoice(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*InvoiceResponse, error) {
	if err := by.RequireAdvisor("mint invoices"); err != nil {
		return nil, err
	}

	var order *servicing.ServiceOrder
	var inv *finance.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.InvoiceRepo().ExistsForOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrInvoiceAlreadyExists
		}

		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		inv, err = finance.MintInvoice(order, s.taxRate, s.dueIn, s.now())
		if err != nil {
			return err
		}
		if err := order.Complete(); err != nil {
			return err
		}
		// compare-and-set on the order version; a concurrent mint loses here
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		return repos.InvoiceRepo().Create(ctx, inv)
	})
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		if exists, lookupErr := s.invoiceRepo.ExistsForOrder(ctx, orderID); lookupErr == nil && exists {
			return nil, shared.ErrInvoiceAlreadyExists
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice minted",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("amount", inv.Amount.StringFixed(2)),
	)
	s.publish(ctx, inv, order)

	response := ToInvoiceResponse(inv, s.now())
	return &response, nil
}

// ConfirmPayment marks a pending invoice paid
func (s *InvoiceService) ConfirmPayment(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, func(inv *finance.Invoice) error {
		return inv.ConfirmPayment(by)
	})
}

// CancelInvoice voids a pending invoice. The order stays COMPLETED.
func (s *InvoiceService) CancelInvoice(ctx context.Context, by identity.Caller, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, func(inv *finance.Invoice) error {
		return inv.Cancel(by, req.Reason)
	})
}

func (s *InvoiceService) transition(ctx context.Context, invoiceID uuid.UUID, apply func(*finance.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := apply(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice status changed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("status", inv.Status.String()),
	)
	s.publish(ctx, inv)

	response := ToInvoiceResponse(inv, s.now())
	return &response, nil
}

// Get retrieves an invoice. Customers only see their own.
func (s *InvoiceService) Get(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if by.Role == identity.RoleCustomer && inv.CustomerID != by.UserID {
		return nil, shared.NewNotFound("invoice", invoiceID)
	}
	response := ToInvoiceResponse(inv, s.now())
	return &response, nil
}

// GetByOrder retrieves the invoice attached to an order
func (s *InvoiceService) GetByOrder(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if by.Role == identity.RoleCustomer && inv.CustomerID != by.UserID {
		return nil, shared.NewNotFound("invoice for order", orderID)
	}
	response := ToInvoiceResponse(inv, s.now())
	return &response, nil
}

// Document collects the printable view of an invoice. Only approved lines are
// printed, the same lines the invoice amount was minted from.
func (s *InvoiceService) Document(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*InvoiceDocument, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if by.Role == identity.RoleCustomer && inv.CustomerID != by.UserID {
		return nil, shared.NewNotFound("invoice", invoiceID)
	}
	order, err := s.orderRepo.FindByID(ctx, inv.OrderID)
	if err != nil {
		return nil, err
	}

	var nameOf func(servicing.ItemRef) string
	if s.names != nil {
		nameOf = func(ref servicing.ItemRef) string {
			return s.names.ResolveName(ctx, ref)
		}
	}
	quotation := ToQuotationResponse(finance.BuildQuotation(order, inv.TaxRate, nameOf))
	lines := make([]QuotationLineResponse, 0, len(quotation.Lines))
	for _, l := range quotation.Lines {
		if l.Status == servicing.LineStatusApproved.String() {
			lines = append(lines, l)
		}
	}

	return &InvoiceDocument{
		Invoice:   ToInvoiceResponse(inv, s.now()),
		VehicleID: order.VehicleID,
		AdvisorID: order.AdvisorID,
		Lines:     lines,
	}, nil
}

// List retrieves invoices, optionally only those overdue right now
func (s *InvoiceService) List(ctx context.Context, by identity.Caller, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "issued_at",
		OrderDir: "desc",
	}.Normalize()

	if filter.Status != "" {
		status, err := finance.ParseInvoiceStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = status
	}
	if by.Role == identity.RoleCustomer {
		domainFilter.Filters["customer_id"] = by.UserID
	} else if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	now := s.now()
	if filter.OverdueOnly {
		domainFilter.Filters["overdue_at"] = now
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i], now)
	}
	return out, total, nil
}

// overdueBatch is the page size used when sweeping overdue invoices
const overdueBatch = 100

// RemindOverdue publishes an InvoiceOverdue reminder for every pending invoice
// past its due date at now and returns how many were found. Reminders for the
// same invoice on the same day share an event id.
func (s *InvoiceService) RemindOverdue(ctx context.Context, now time.Time) (int, error) {
	filter := shared.Filter{
		Page:     1,
		PageSize: overdueBatch,
		OrderBy:  "issued_at",
		OrderDir: "asc",
		Filters:  map[string]interface{}{"overdue_at": now},
	}.Normalize()

	reminded := 0
	for {
		invoices, err := s.invoiceRepo.FindAll(ctx, filter)
		if err != nil {
			return reminded, err
		}
		for i := range invoices {
			if s.eventPublisher != nil {
				_ = s.eventPublisher.Publish(ctx, finance.NewInvoiceOverdueEvent(&invoices[i], now))
			}
			reminded++
		}
		if len(invoices) < filter.PageSize {
			break
		}
		filter.Page++
	}

	if reminded > 0 {
		s.logger.Info("overdue invoice reminders sent", zap.Int("count", reminded))
	}
	return reminded, nil
}
