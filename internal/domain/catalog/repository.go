package catalog

import (
	"context"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ServiceOfferingRepository defines persistence for catalog entries
type ServiceOfferingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceOffering, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ServiceOffering, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, offering *ServiceOffering) error
	Save(ctx context.Context, offering *ServiceOffering) error
}
