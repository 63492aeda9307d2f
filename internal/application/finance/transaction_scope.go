package finance

import (
	"context"

	"github.com/evcare/backend/internal/domain/finance"
	"github.com/evcare/backend/internal/domain/servicing"
)

// TransactionScope provides transactional access to the billing repositories.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories lets minting complete the order and insert its
// invoice in the same transaction.
type TransactionalRepositories interface {
	OrderRepo() servicing.ServiceOrderRepository
	InvoiceRepo() finance.InvoiceRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
type NoOpTransactionScope struct {
	orderRepo   servicing.ServiceOrderRepository
	invoiceRepo finance.InvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo servicing.ServiceOrderRepository, invoiceRepo finance.InvoiceRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, invoiceRepo: invoiceRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the service order repository.
func (s *NoOpTransactionScope) OrderRepo() servicing.ServiceOrderRepository {
	return s.orderRepo
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() finance.InvoiceRepository {
	return s.invoiceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
