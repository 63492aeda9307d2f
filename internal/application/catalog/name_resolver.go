package catalog

import (
	"context"

	"github.com/evcare/backend/internal/domain/catalog"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/servicing"
)

// NameResolver turns order line references into display names.
// It is used for projections only; prices always come from the line snapshot.
type NameResolver struct {
	offeringRepo catalog.ServiceOfferingRepository
	partRepo     inventory.PartRepository
}

// NewNameResolver creates a resolver over the service catalog and the parts ledger
func NewNameResolver(offeringRepo catalog.ServiceOfferingRepository, partRepo inventory.PartRepository) *NameResolver {
	return &NameResolver{offeringRepo: offeringRepo, partRepo: partRepo}
}

// ResolveName returns the display name for ref, or "" when the target is gone
func (r *NameResolver) ResolveName(ctx context.Context, ref servicing.ItemRef) string {
	switch {
	case ref.IsService():
		if o, err := r.offeringRepo.FindByID(ctx, ref.ID); err == nil {
			return o.Name
		}
	case ref.IsPart():
		if p, err := r.partRepo.FindByID(ctx, ref.ID); err == nil {
			return p.Name + " (" + p.SKU + ")"
		}
	}
	return ""
}

// Resolver binds ctx and returns a plain lookup function
func (r *NameResolver) Resolver(ctx context.Context) func(servicing.ItemRef) string {
	return func(ref servicing.ItemRef) string {
		return r.ResolveName(ctx, ref)
	}
}
