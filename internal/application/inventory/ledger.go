package inventory

import (
	"context"
	"errors"

	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// saveAttempts bounds how often a ledger write re-reads the part after losing
// the version race. Under READ COMMITTED the blocked UPDATE returns once the
// winner commits, and the re-read inside the same transaction sees its result.
const saveAttempts = 3

// mutatePart loads the part, applies fn and saves it with the version check,
// retrying with a fresh copy when a concurrent writer saved first.
func mutatePart(ctx context.Context, repo inventory.PartRepository, partID uuid.UUID, fn func(*inventory.Part) error) (*inventory.Part, error) {
	var err error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		var part *inventory.Part
		part, err = repo.FindByID(ctx, partID)
		if err != nil {
			return nil, err
		}
		if err := fn(part); err != nil {
			return nil, err
		}
		err = repo.SaveWithLock(ctx, part)
		if err == nil {
			return part, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
	}
	return nil, err
}

// DeductWithin removes qty units of a part inside an already open transaction and
// records the matching movement. The part request workflow calls it from its own
// unit of work so that the deduction commits or rolls back with the approval.
func DeductWithin(ctx context.Context, repos TransactionalRepositories, partID uuid.UUID, qty int, requestID uuid.UUID, operatorID *uuid.UUID) (*inventory.Part, error) {
	part, err := mutatePart(ctx, repos.PartRepo(), partID, func(p *inventory.Part) error {
		return p.Deduct(qty)
	})
	if err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Create(ctx, inventory.NewDeductionMovement(part, qty, requestID, operatorID)); err != nil {
		return nil, err
	}
	return part, nil
}

// AdjustWithin applies a manual correction inside an open transaction
func AdjustWithin(ctx context.Context, repos TransactionalRepositories, partID uuid.UUID, delta int, reason string, operatorID *uuid.UUID) (*inventory.Part, error) {
	part, err := mutatePart(ctx, repos.PartRepo(), partID, func(p *inventory.Part) error {
		return p.Adjust(delta, reason)
	})
	if err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Create(ctx, inventory.NewAdjustmentMovement(part, delta, reason, operatorID)); err != nil {
		return nil, err
	}
	return part, nil
}
