package inventory

import (
	"context"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartService handles spare-part ledger operations
type PartService struct {
	partRepo       inventory.PartRepository
	movementRepo   inventory.StockMovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPartService creates a new PartService
func NewPartService(
	partRepo inventory.PartRepository,
	movementRepo inventory.StockMovementRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *PartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartService{
		partRepo:     partRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes the part's pending events. Called only after commit.
func (s *PartService) publishDomainEvents(ctx context.Context, part *inventory.Part) {
	if s.eventPublisher == nil {
		part.ClearDomainEvents()
		return
	}
	events := part.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	part.ClearDomainEvents()
}

// CreatePart registers a new part with its opening balance
func (s *PartService) CreatePart(ctx context.Context, by identity.Caller, req CreatePartRequest) (*PartResponse, error) {
	if err := by.RequireAdvisor("register parts"); err != nil {
		return nil, err
	}

	part, err := inventory.NewPart(req.SKU, req.Name, req.InitialQuantity, req.Price)
	if err != nil {
		return nil, err
	}

	exists, err := s.partRepo.ExistsBySKU(ctx, part.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateSKU
	}

	operator := by.UserID
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// unique index on sku backs the check above against concurrent creates
		if err := repos.PartRepo().Create(ctx, part); err != nil {
			return err
		}
		return repos.MovementRepo().Create(ctx, inventory.NewInitialMovement(part, &operator))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("part registered",
		zap.String("part_id", part.ID.String()),
		zap.String("sku", part.SKU),
		zap.Int("quantity", part.QuantityInStock),
	)
	s.publishDomainEvents(ctx, part)

	response := ToPartResponse(part)
	return &response, nil
}

// GetPart retrieves a part by ID
func (s *PartService) GetPart(ctx context.Context, partID uuid.UUID) (*PartResponse, error) {
	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	response := ToPartResponse(part)
	return &response, nil
}

// ListParts retrieves parts with filtering and pagination
func (s *PartService) ListParts(ctx context.Context, filter PartListFilter) ([]PartResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}.Normalize()
	if filter.Status != "" {
		status, err := inventory.ParsePartStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = status
	}

	parts, err := s.partRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.partRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPartResponses(parts), total, nil
}

// CheckAvailability reports whether requiredQty units can be served from committed stock
func (s *PartService) CheckAvailability(ctx context.Context, partID uuid.UUID, requiredQty int) (*AvailabilityResponse, error) {
	if requiredQty <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Required quantity must be positive")
	}
	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	availability := part.CheckAvailability(requiredQty)
	return &AvailabilityResponse{
		PartID:          part.ID,
		RequiredQty:     requiredQty,
		QuantityInStock: part.QuantityInStock,
		Available:       availability.Available,
		Shortfall:       availability.Shortfall,
	}, nil
}

// Deduct removes stock in its own transaction. Inside a larger unit of work use DeductWithin.
func (s *PartService) Deduct(ctx context.Context, req DeductStockRequest) (*PartResponse, error) {
	var part *inventory.Part
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		part, err = DeductWithin(ctx, repos, req.PartID, req.Quantity, req.RequestID, req.OperatorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, part)
	response := ToPartResponse(part)
	return &response, nil
}

// AdjustManually applies a signed stock correction with a mandatory reason
func (s *PartService) AdjustManually(ctx context.Context, by identity.Caller, partID uuid.UUID, req AdjustStockRequest) (*PartResponse, error) {
	if err := by.RequireAdvisor("adjust stock"); err != nil {
		return nil, err
	}

	operator := by.UserID
	var part *inventory.Part
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		part, err = AdjustWithin(ctx, repos, partID, req.Delta, req.Reason, &operator)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("part_id", part.ID.String()),
		zap.Int("delta", req.Delta),
		zap.Int("quantity", part.QuantityInStock),
		zap.String("operator_id", operator.String()),
	)
	s.publishDomainEvents(ctx, part)

	response := ToPartResponse(part)
	return &response, nil
}

// ChangeStatus overrides a part's status without touching its quantity
func (s *PartService) ChangeStatus(ctx context.Context, by identity.Caller, partID uuid.UUID, req ChangeStatusRequest) (*PartResponse, error) {
	if err := by.RequireAdvisor("change part status"); err != nil {
		return nil, err
	}
	status, err := inventory.ParsePartStatus(req.Status)
	if err != nil {
		return nil, err
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	before := part.Version
	if err := part.ChangeStatus(status); err != nil {
		return nil, err
	}
	if part.Version != before {
		if err := s.partRepo.SaveWithLock(ctx, part); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, part)
	}

	response := ToPartResponse(part)
	return &response, nil
}

// ListMovements pages through the audit trail of a part, newest first
func (s *PartService) ListMovements(ctx context.Context, partID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	if _, err := s.partRepo.FindByID(ctx, partID); err != nil {
		return nil, 0, err
	}
	domainFilter := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()

	movements, err := s.movementRepo.FindByPart(ctx, partID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountByPart(ctx, partID)
	if err != nil {
		return nil, 0, err
	}

	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out, total, nil
}

// ResolveName returns the display name of a part, or "" when it cannot be found
func (s *PartService) ResolveName(ctx context.Context, partID uuid.UUID) string {
	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		return ""
	}
	return part.Name
}
