package servicing

import (
	"context"
	"sync"

	"github.com/evcare/backend/internal/domain/catalog"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.EventType()
	}
	return out
}

type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Part, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Part), args.Error(1)
}

func (m *MockPartRepository) FindBySKU(ctx context.Context, sku string) (*inventory.Part, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Part), args.Error(1)
}

func (m *MockPartRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Part, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Part), args.Error(1)
}

func (m *MockPartRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartRepository) Create(ctx context.Context, part *inventory.Part) error {
	return m.Called(ctx, part).Error(0)
}

func (m *MockPartRepository) SaveWithLock(ctx context.Context, part *inventory.Part) error {
	return m.Called(ctx, part).Error(0)
}

type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockStockMovementRepository) FindByPart(ctx context.Context, partID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, partID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) CountByPart(ctx context.Context, partID uuid.UUID) (int64, error) {
	args := m.Called(ctx, partID)
	return args.Get(0).(int64), args.Error(1)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*servicing.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicing.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]servicing.Appointment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]servicing.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appt *servicing.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}

func (m *MockAppointmentRepository) SaveWithLock(ctx context.Context, appt *servicing.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}

type MockServiceOrderRepository struct {
	mock.Mock
}

func (m *MockServiceOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*servicing.ServiceOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicing.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*servicing.ServiceOrder, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicing.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]servicing.ServiceOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]servicing.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockServiceOrderRepository) Create(ctx context.Context, order *servicing.ServiceOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockServiceOrderRepository) SaveWithLock(ctx context.Context, order *servicing.ServiceOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockServiceOrderRepository) GuardStatus(ctx context.Context, orderID uuid.UUID, status servicing.OrderStatus) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *MockServiceOrderRepository) AddItem(ctx context.Context, item *servicing.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockServiceOrderRepository) SaveItem(ctx context.Context, item *servicing.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}

type MockPartRequestRepository struct {
	mock.Mock
}

func (m *MockPartRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*servicing.PartRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicing.PartRequest), args.Error(1)
}

func (m *MockPartRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]servicing.PartRequest, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]servicing.PartRequest), args.Error(1)
}

func (m *MockPartRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartRequestRepository) Create(ctx context.Context, req *servicing.PartRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPartRequestRepository) SaveWithLock(ctx context.Context, req *servicing.PartRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockOfferingRepository struct {
	mock.Mock
}

func (m *MockOfferingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ServiceOffering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceOffering), args.Error(1)
}

func (m *MockOfferingRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockOfferingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ServiceOffering, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.ServiceOffering), args.Error(1)
}

func (m *MockOfferingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOfferingRepository) Create(ctx context.Context, offering *catalog.ServiceOffering) error {
	return m.Called(ctx, offering).Error(0)
}

func (m *MockOfferingRepository) Save(ctx context.Context, offering *catalog.ServiceOffering) error {
	return m.Called(ctx, offering).Error(0)
}

// workshop bundles every mock the servicing services need
type workshop struct {
	parts        *MockPartRepository
	movements    *MockStockMovementRepository
	appointments *MockAppointmentRepository
	orders       *MockServiceOrderRepository
	requests     *MockPartRequestRepository
	offerings    *MockOfferingRepository
	publisher    *MockEventPublisher
	scope        *NoOpTransactionScope
}

func newWorkshop() *workshop {
	w := &workshop{
		parts:        new(MockPartRepository),
		movements:    new(MockStockMovementRepository),
		appointments: new(MockAppointmentRepository),
		orders:       new(MockServiceOrderRepository),
		requests:     new(MockPartRequestRepository),
		offerings:    new(MockOfferingRepository),
		publisher:    &MockEventPublisher{},
	}
	w.scope = NewNoOpTransactionScope(w.parts, w.movements, w.appointments, w.orders, w.requests)
	return w
}

func (w *workshop) orderService() *OrderService {
	svc := NewOrderService(w.orders, w.offerings, w.scope, nil)
	svc.SetEventPublisher(w.publisher)
	return svc
}

func (w *workshop) requestService() *PartRequestService {
	svc := NewPartRequestService(w.requests, w.orders, w.parts, w.scope, nil)
	svc.SetEventPublisher(w.publisher)
	return svc
}

func (w *workshop) appointmentService() *AppointmentService {
	svc := NewAppointmentService(w.appointments)
	svc.SetEventPublisher(w.publisher)
	return svc
}
