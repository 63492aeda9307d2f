package servicing

import (
	"context"
	"errors"

	"github.com/evcare/backend/internal/domain/catalog"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService drives service orders through the workshop
type OrderService struct {
	orderRepo      servicing.ServiceOrderRepository
	offeringRepo   catalog.ServiceOfferingRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo servicing.ServiceOrderRepository,
	offeringRepo catalog.ServiceOfferingRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:    orderRepo,
		offeringRepo: offeringRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// OpenWalkIn opens an order for a customer without an appointment
func (s *OrderService) OpenWalkIn(ctx context.Context, by identity.Caller, req OpenWalkInRequest) (*ServiceOrderResponse, error) {
	order, err := servicing.OpenWalkIn(by, req.CustomerID, req.VehicleID, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("service order opened",
		zap.String("order_id", order.ID.String()),
		zap.String("advisor_id", by.UserID.String()),
	)
	publishAfterCommit(ctx, s.eventPublisher, order)

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// OpenFromAppointment converts a confirmed appointment into an order. The
// appointment is marked CONVERTED in the same transaction.
func (s *OrderService) OpenFromAppointment(ctx context.Context, by identity.Caller, req OpenFromAppointmentRequest) (*ServiceOrderResponse, error) {
	if err := by.RequireAdvisor("open service orders"); err != nil {
		return nil, err
	}

	var order *servicing.ServiceOrder
	var appt *servicing.Appointment
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		appt, err = repos.AppointmentRepo().FindByID(ctx, req.AppointmentID)
		if err != nil {
			return err
		}

		existing, err := repos.OrderRepo().FindByAppointment(ctx, appt.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError(shared.CodeAlreadyExists, "An order was already opened for this appointment")
		}

		order, err = servicing.OpenFromAppointment(by, appt, req.Notes)
		if err != nil {
			return err
		}
		if err := repos.AppointmentRepo().SaveWithLock(ctx, appt); err != nil {
			return err
		}
		return repos.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("service order opened from appointment",
		zap.String("order_id", order.ID.String()),
		zap.String("appointment_id", appt.ID.String()),
	)
	publishAfterCommit(ctx, s.eventPublisher, appt, order)

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// AssignTechnician sets or replaces the order's technician
func (s *OrderService) AssignTechnician(ctx context.Context, by identity.Caller, orderID uuid.UUID, req AssignTechnicianRequest) (*ServiceOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	before := order.Version
	if err := order.AssignTechnician(by, req.TechnicianID); err != nil {
		return nil, err
	}
	if order.Version != before {
		if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
			return nil, err
		}
		publishAfterCommit(ctx, s.eventPublisher, order)
	}

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// Advance moves the order to target on behalf of the assigned technician.
// A concurrent writer that saved first makes this call fail with CONCURRENCY_CONFLICT.
func (s *OrderService) Advance(ctx context.Context, by identity.Caller, orderID uuid.UUID, req AdvanceOrderRequest) (*ServiceOrderResponse, error) {
	target, err := servicing.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.Advance(by, target); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("service order advanced",
		zap.String("order_id", order.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
	)
	publishAfterCommit(ctx, s.eventPublisher, order)

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// AddServiceLine appends a catalog service to the order's quotation at the current list price
func (s *OrderService) AddServiceLine(ctx context.Context, by identity.Caller, orderID uuid.UUID, req AddServiceLineRequest) (*OrderItemResponse, error) {
	if err := by.RequireAdvisor("assemble quotations"); err != nil {
		return nil, err
	}
	offering, err := s.offeringRepo.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !offering.Active {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Service "+offering.Code+" is no longer offered")
	}

	var order *servicing.ServiceOrder
	var item *servicing.OrderItem
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		item, err = order.AddServiceLine(by, offering.ID, req.Quantity, offering.Price)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().GuardStatus(ctx, order.ID, order.Status); err != nil {
			return err
		}
		return repos.OrderRepo().AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	publishAfterCommit(ctx, s.eventPublisher, order)

	response := ToOrderItemResponse(item)
	return &response, nil
}

// ApproveLine records the customer's acceptance of a quotation line
func (s *OrderService) ApproveLine(ctx context.Context, by identity.Caller, orderID, itemID uuid.UUID) (*OrderItemResponse, error) {
	return s.decideLine(ctx, orderID, func(order *servicing.ServiceOrder) (*servicing.OrderItem, error) {
		return order.ApproveLine(by, itemID)
	})
}

// RejectLine records the customer's refusal of a quotation line
func (s *OrderService) RejectLine(ctx context.Context, by identity.Caller, orderID, itemID uuid.UUID) (*OrderItemResponse, error) {
	return s.decideLine(ctx, orderID, func(order *servicing.ServiceOrder) (*servicing.OrderItem, error) {
		return order.RejectLine(by, itemID)
	})
}

func (s *OrderService) decideLine(ctx context.Context, orderID uuid.UUID, decide func(*servicing.ServiceOrder) (*servicing.OrderItem, error)) (*OrderItemResponse, error) {
	var item *servicing.OrderItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		item, err = decide(order)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().GuardStatus(ctx, order.ID, order.Status); err != nil {
			return err
		}
		return repos.OrderRepo().SaveItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	response := ToOrderItemResponse(item)
	return &response, nil
}

// Get retrieves an order with its lines. Customers only see their own orders.
func (s *OrderService) Get(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*ServiceOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if by.Role == identity.RoleCustomer && order.CustomerID != by.UserID {
		return nil, shared.NewNotFound("service order", orderID)
	}
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, by identity.Caller, filter OrderListFilter) ([]ServiceOrderResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: filter.OrderDir,
	}.Normalize()

	if filter.Status != "" {
		status, err := servicing.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = status
	}
	if filter.TechnicianID != nil {
		domainFilter.Filters["technician_id"] = *filter.TechnicianID
	}
	if filter.AdvisorID != nil {
		domainFilter.Filters["advisor_id"] = *filter.AdvisorID
	}
	if by.Role == identity.RoleCustomer {
		domainFilter.Filters["customer_id"] = by.UserID
	} else if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ServiceOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToServiceOrderResponse(&orders[i])
	}
	return out, total, nil
}
