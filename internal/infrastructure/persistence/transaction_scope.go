package persistence

import (
	"context"

	financeapp "github.com/evcare/backend/internal/application/finance"
	inventoryapp "github.com/evcare/backend/internal/application/inventory"
	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/finance"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/servicing"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application TransactionScopes using GORM transactions.
// Every repository handed to fn shares the same *gorm.DB transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Inventory adapts the scope to the ledger service.
func (s *GormTransactionScope) Inventory() inventoryapp.TransactionScope {
	return inventoryScope{s}
}

// Servicing adapts the scope to the workshop services.
func (s *GormTransactionScope) Servicing() servicingapp.TransactionScope {
	return servicingScope{s}
}

// Finance adapts the scope to the billing desk.
func (s *GormTransactionScope) Finance() financeapp.TransactionScope {
	return financeScope{s}
}

type inventoryScope struct{ *GormTransactionScope }

func (s inventoryScope) Execute(ctx context.Context, fn func(repos inventoryapp.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type servicingScope struct{ *GormTransactionScope }

func (s servicingScope) Execute(ctx context.Context, fn func(repos servicingapp.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type financeScope struct{ *GormTransactionScope }

func (s financeScope) Execute(ctx context.Context, fn func(repos financeapp.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// PartRepo returns the part repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PartRepo() inventory.PartRepository {
	return NewGormPartRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// AppointmentRepo returns the appointment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AppointmentRepo() servicing.AppointmentRepository {
	return NewGormAppointmentRepository(r.tx)
}

// OrderRepo returns the service order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OrderRepo() servicing.ServiceOrderRepository {
	return NewGormServiceOrderRepository(r.tx)
}

// RequestRepo returns the part request repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RequestRepo() servicing.PartRequestRepository {
	return NewGormPartRequestRepository(r.tx)
}

// InvoiceRepo returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InvoiceRepo() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

var (
	_ inventoryapp.TransactionScope          = inventoryScope{}
	_ servicingapp.TransactionScope          = servicingScope{}
	_ financeapp.TransactionScope            = financeScope{}
	_ servicingapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ financeapp.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
)
