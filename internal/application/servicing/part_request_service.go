package servicing

import (
	"context"
	"errors"
	"fmt"

	inventoryapp "github.com/evcare/backend/internal/application/inventory"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartRequestService runs the technician → advisor parts workflow
type PartRequestService struct {
	requestRepo    servicing.PartRequestRepository
	orderRepo      servicing.ServiceOrderRepository
	partRepo       inventory.PartRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPartRequestService creates a new PartRequestService
func NewPartRequestService(
	requestRepo servicing.PartRequestRepository,
	orderRepo servicing.ServiceOrderRepository,
	partRepo inventory.PartRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *PartRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartRequestService{
		requestRepo: requestRepo,
		orderRepo:   orderRepo,
		partRepo:    partRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PartRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create files a PENDING request for stock against an order the caller works on.
// Stock is not touched until the request is approved.
func (s *PartRequestService) Create(ctx context.Context, by identity.Caller, req CreatePartRequestRequest) (*PartRequestResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	part, err := s.partRepo.FindByID(ctx, req.PartID)
	if err != nil {
		return nil, err
	}
	urgency, err := servicing.ParseUrgency(req.Urgency)
	if err != nil {
		return nil, err
	}

	pr, err := servicing.NewPartRequest(by, order, part.ID, req.Quantity, urgency, req.Notes)
	if err != nil {
		return nil, err
	}
	if part.IsDiscontinued() {
		return nil, shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Part %s is discontinued", part.SKU))
	}

	if err := s.requestRepo.Create(ctx, pr); err != nil {
		return nil, err
	}

	s.logger.Info("part request filed",
		zap.String("request_id", pr.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("part_id", part.ID.String()),
		zap.Int("quantity", pr.Quantity),
		zap.String("urgency", pr.Urgency.String()),
	)
	publishAfterCommit(ctx, s.eventPublisher, pr)

	response := ToPartRequestResponse(pr)
	return &response, nil
}

// Approve fulfils a pending request. The stock deduction, the new APPROVED part
// line on the order and the request transition commit together or not at all.
func (s *PartRequestService) Approve(ctx context.Context, by identity.Caller, requestID uuid.UUID, req DecidePartRequestRequest) (*PartRequestResponse, error) {
	if err := by.RequireAdvisor("approve part requests"); err != nil {
		return nil, err
	}

	var pr *servicing.PartRequest
	var order *servicing.ServiceOrder
	var part *inventory.Part
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		pr, err = repos.RequestRepo().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := pr.Fulfill(by, req.Notes); err != nil {
			return err
		}
		// claim the request first so a concurrent approver waits on its row
		if err := claim(ctx, repos.RequestRepo(), pr); err != nil {
			return err
		}

		order, err = repos.OrderRepo().FindByID(ctx, pr.OrderID)
		if err != nil {
			return err
		}
		if err := order.EnsureAcceptsLines(); err != nil {
			return err
		}
		if err := repos.OrderRepo().GuardStatus(ctx, order.ID, order.Status); err != nil {
			return err
		}

		part, err = inventoryapp.DeductWithin(ctx, repos, pr.PartID, pr.Quantity, pr.ID, &by.UserID)
		if err != nil {
			return err
		}

		item, err := order.AddPartLine(part.ID, pr.Quantity, part.Price, pr.ID)
		if err != nil {
			return err
		}
		return repos.OrderRepo().AddItem(ctx, item)
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			s.logger.Info("part request approval blocked by stock",
				zap.String("request_id", requestID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("part request fulfilled",
		zap.String("request_id", pr.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("part_id", part.ID.String()),
		zap.Int("quantity", pr.Quantity),
		zap.Int("stock_after", part.QuantityInStock),
	)
	publishAfterCommit(ctx, s.eventPublisher, pr, part, order)

	response := ToPartRequestResponse(pr)
	return &response, nil
}

// Reject declines a pending request; the ledger is not touched
func (s *PartRequestService) Reject(ctx context.Context, by identity.Caller, requestID uuid.UUID, req DecidePartRequestRequest) (*PartRequestResponse, error) {
	if err := by.RequireAdvisor("reject part requests"); err != nil {
		return nil, err
	}
	return s.transition(ctx, requestID, func(pr *servicing.PartRequest) error {
		return pr.Reject(by, req.Notes)
	})
}

// Cancel withdraws a pending request on behalf of the technician who filed it
func (s *PartRequestService) Cancel(ctx context.Context, by identity.Caller, requestID uuid.UUID) (*PartRequestResponse, error) {
	return s.transition(ctx, requestID, func(pr *servicing.PartRequest) error {
		return pr.Cancel(by)
	})
}

func (s *PartRequestService) transition(ctx context.Context, requestID uuid.UUID, apply func(*servicing.PartRequest) error) (*PartRequestResponse, error) {
	pr, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := apply(pr); err != nil {
		return nil, err
	}
	if err := claim(ctx, s.requestRepo, pr); err != nil {
		return nil, err
	}

	s.logger.Info("part request closed",
		zap.String("request_id", pr.ID.String()),
		zap.String("status", pr.Status.String()),
	)
	publishAfterCommit(ctx, s.eventPublisher, pr)

	response := ToPartRequestResponse(pr)
	return &response, nil
}

// claim persists a terminal transition. Every transition leaves PENDING, so losing
// the version race means someone else already processed the request.
func claim(ctx context.Context, repo servicing.PartRequestRepository, pr *servicing.PartRequest) error {
	err := repo.SaveWithLock(ctx, pr)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		return shared.NewDomainError(shared.CodeAlreadyProcessed,
			fmt.Sprintf("Part request %s was processed concurrently", pr.ID))
	}
	return err
}

// Get retrieves a part request by ID
func (s *PartRequestService) Get(ctx context.Context, requestID uuid.UUID) (*PartRequestResponse, error) {
	pr, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	response := ToPartRequestResponse(pr)
	return &response, nil
}

// List retrieves part requests, newest first
func (s *PartRequestService) List(ctx context.Context, filter PartRequestListFilter) ([]PartRequestResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}.Normalize()

	if filter.Status != "" {
		status, err := servicing.ParsePartRequestStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = status
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}
	if filter.TechnicianID != nil {
		domainFilter.Filters["technician_id"] = *filter.TechnicianID
	}

	requests, err := s.requestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]PartRequestResponse, len(requests))
	for i := range requests {
		out[i] = ToPartRequestResponse(&requests[i])
	}
	return out, total, nil
}
