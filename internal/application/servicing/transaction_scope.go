package servicing

import (
	"context"

	inventoryapp "github.com/evcare/backend/internal/application/inventory"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/servicing"
)

// TransactionScope provides transactional access to the workshop repositories.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories spans the ledger and the servicing aggregates so a
// part request approval can deduct stock, append the order line and close the
// request in one unit of work.
type TransactionalRepositories interface {
	inventoryapp.TransactionalRepositories
	AppointmentRepo() servicing.AppointmentRepository
	OrderRepo() servicing.ServiceOrderRepository
	RequestRepo() servicing.PartRequestRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// This is useful for testing.
type NoOpTransactionScope struct {
	partRepo        inventory.PartRepository
	movementRepo    inventory.StockMovementRepository
	appointmentRepo servicing.AppointmentRepository
	orderRepo       servicing.ServiceOrderRepository
	requestRepo     servicing.PartRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	partRepo inventory.PartRepository,
	movementRepo inventory.StockMovementRepository,
	appointmentRepo servicing.AppointmentRepository,
	orderRepo servicing.ServiceOrderRepository,
	requestRepo servicing.PartRequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		partRepo:        partRepo,
		movementRepo:    movementRepo,
		appointmentRepo: appointmentRepo,
		orderRepo:       orderRepo,
		requestRepo:     requestRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) PartRepo() inventory.PartRepository { return s.partRepo }
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository { return s.movementRepo }
func (s *NoOpTransactionScope) AppointmentRepo() servicing.AppointmentRepository { return s.appointmentRepo }
func (s *NoOpTransactionScope) OrderRepo() servicing.ServiceOrderRepository { return s.orderRepo }
func (s *NoOpTransactionScope) RequestRepo() servicing.PartRequestRepository { return s.requestRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
