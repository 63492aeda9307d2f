package servicing

import (
	"context"

	"github.com/evcare/backend/internal/domain/shared"
)

// eventSource is any aggregate carrying pending domain events
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishAfterCommit drains the pending events of each aggregate, in order.
// Callers invoke it only once their transaction has committed.
func publishAfterCommit(ctx context.Context, publisher shared.EventPublisher, sources ...eventSource) {
	for _, src := range sources {
		events := src.GetDomainEvents()
		if len(events) > 0 && publisher != nil {
			// errors are logged by the event bus, not propagated
			_ = publisher.Publish(ctx, events...)
		}
		src.ClearDomainEvents()
	}
}
