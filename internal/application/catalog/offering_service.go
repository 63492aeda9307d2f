package catalog

import (
	"context"
	"strings"

	"github.com/evcare/backend/internal/domain/catalog"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OfferingService manages the service catalog
type OfferingService struct {
	offeringRepo catalog.ServiceOfferingRepository
}

// NewOfferingService creates a new OfferingService
func NewOfferingService(offeringRepo catalog.ServiceOfferingRepository) *OfferingService {
	return &OfferingService{offeringRepo: offeringRepo}
}

// Create adds a new offering to the catalog
func (s *OfferingService) Create(ctx context.Context, by identity.Caller, req CreateOfferingRequest) (*OfferingResponse, error) {
	if err := by.RequireAdvisor("manage the service catalog"); err != nil {
		return nil, err
	}
	offering, err := catalog.NewServiceOffering(req.Code, req.Name, req.Description, req.Price)
	if err != nil {
		return nil, err
	}

	exists, err := s.offeringRepo.ExistsByCode(ctx, offering.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Service with this code already exists")
	}

	if err := s.offeringRepo.Create(ctx, offering); err != nil {
		return nil, err
	}
	response := ToOfferingResponse(offering)
	return &response, nil
}

// Get retrieves an offering by ID
func (s *OfferingService) Get(ctx context.Context, id uuid.UUID) (*OfferingResponse, error) {
	offering, err := s.offeringRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOfferingResponse(offering)
	return &response, nil
}

// List retrieves offerings with pagination
func (s *OfferingService) List(ctx context.Context, filter OfferingListFilter) ([]OfferingResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "code",
		OrderDir: "asc",
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()
	if filter.ActiveOnly {
		domainFilter.Filters["active"] = true
	}

	offerings, err := s.offeringRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.offeringRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]OfferingResponse, len(offerings))
	for i := range offerings {
		out[i] = ToOfferingResponse(&offerings[i])
	}
	return out, total, nil
}

// Reprice changes the list price used by future order lines
func (s *OfferingService) Reprice(ctx context.Context, by identity.Caller, id uuid.UUID, req RepriceOfferingRequest) (*OfferingResponse, error) {
	if err := by.RequireAdvisor("manage the service catalog"); err != nil {
		return nil, err
	}
	offering, err := s.offeringRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := offering.Reprice(req.Price); err != nil {
		return nil, err
	}
	if err := s.offeringRepo.Save(ctx, offering); err != nil {
		return nil, err
	}
	response := ToOfferingResponse(offering)
	return &response, nil
}

// Deactivate hides an offering from new quotations
func (s *OfferingService) Deactivate(ctx context.Context, by identity.Caller, id uuid.UUID) (*OfferingResponse, error) {
	if err := by.RequireAdvisor("manage the service catalog"); err != nil {
		return nil, err
	}
	offering, err := s.offeringRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	offering.Deactivate()
	if err := s.offeringRepo.Save(ctx, offering); err != nil {
		return nil, err
	}
	response := ToOfferingResponse(offering)
	return &response, nil
}
