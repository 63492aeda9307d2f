package handler

import (
	"context"

	catalogapp "github.com/evcare/backend/internal/application/catalog"
	financeapp "github.com/evcare/backend/internal/application/finance"
	inventoryapp "github.com/evcare/backend/internal/application/inventory"
	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// respOrNil returns args[i] as *T, tolerating a nil interface
func respOrNil[T any](args mock.Arguments, i int) *T {
	v, _ := args.Get(i).(*T)
	return v
}

func listOrNil[T any](args mock.Arguments) ([]T, int64, error) {
	v, _ := args.Get(0).([]T)
	return v, args.Get(1).(int64), args.Error(2)
}

type MockParts struct{ mock.Mock }

func (m *MockParts) CreatePart(ctx context.Context, by identity.Caller, req inventoryapp.CreatePartRequest) (*inventoryapp.PartResponse, error) {
	args := m.Called(ctx, by, req)
	return respOrNil[inventoryapp.PartResponse](args, 0), args.Error(1)
}

func (m *MockParts) GetPart(ctx context.Context, partID uuid.UUID) (*inventoryapp.PartResponse, error) {
	args := m.Called(ctx, partID)
	return respOrNil[inventoryapp.PartResponse](args, 0), args.Error(1)
}

func (m *MockParts) ListParts(ctx context.Context, filter inventoryapp.PartListFilter) ([]inventoryapp.PartResponse, int64, error) {
	return listOrNil[inventoryapp.PartResponse](m.Called(ctx, filter))
}

func (m *MockParts) CheckAvailability(ctx context.Context, partID uuid.UUID, requiredQty int) (*inventoryapp.AvailabilityResponse, error) {
	args := m.Called(ctx, partID, requiredQty)
	return respOrNil[inventoryapp.AvailabilityResponse](args, 0), args.Error(1)
}

func (m *MockParts) AdjustManually(ctx context.Context, by identity.Caller, partID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventoryapp.PartResponse, error) {
	args := m.Called(ctx, by, partID, req)
	return respOrNil[inventoryapp.PartResponse](args, 0), args.Error(1)
}

func (m *MockParts) ChangeStatus(ctx context.Context, by identity.Caller, partID uuid.UUID, req inventoryapp.ChangeStatusRequest) (*inventoryapp.PartResponse, error) {
	args := m.Called(ctx, by, partID, req)
	return respOrNil[inventoryapp.PartResponse](args, 0), args.Error(1)
}

func (m *MockParts) ListMovements(ctx context.Context, partID uuid.UUID, filter inventoryapp.MovementListFilter) ([]inventoryapp.MovementResponse, int64, error) {
	return listOrNil[inventoryapp.MovementResponse](m.Called(ctx, partID, filter))
}

type MockOfferings struct{ mock.Mock }

func (m *MockOfferings) Create(ctx context.Context, by identity.Caller, req catalogapp.CreateOfferingRequest) (*catalogapp.OfferingResponse, error) {
	args := m.Called(ctx, by, req)
	return respOrNil[catalogapp.OfferingResponse](args, 0), args.Error(1)
}

func (m *MockOfferings) Get(ctx context.Context, id uuid.UUID) (*catalogapp.OfferingResponse, error) {
	args := m.Called(ctx, id)
	return respOrNil[catalogapp.OfferingResponse](args, 0), args.Error(1)
}

func (m *MockOfferings) List(ctx context.Context, filter catalogapp.OfferingListFilter) ([]catalogapp.OfferingResponse, int64, error) {
	return listOrNil[catalogapp.OfferingResponse](m.Called(ctx, filter))
}

func (m *MockOfferings) Reprice(ctx context.Context, by identity.Caller, id uuid.UUID, req catalogapp.RepriceOfferingRequest) (*catalogapp.OfferingResponse, error) {
	args := m.Called(ctx, by, id, req)
	return respOrNil[catalogapp.OfferingResponse](args, 0), args.Error(1)
}

func (m *MockOfferings) Deactivate(ctx context.Context, by identity.Caller, id uuid.UUID) (*catalogapp.OfferingResponse, error) {
	args := m.Called(ctx, by, id)
	return respOrNil[catalogapp.OfferingResponse](args, 0), args.Error(1)
}

type MockAppointments struct{ mock.Mock }

func (m *MockAppointments) Book(ctx context.Context, by identity.Caller, req servicingapp.BookAppointmentRequest) (*servicingapp.AppointmentResponse, error) {
	args := m.Called(ctx, by, req)
	return respOrNil[servicingapp.AppointmentResponse](args, 0), args.Error(1)
}

func (m *MockAppointments) Confirm(ctx context.Context, by identity.Caller, id uuid.UUID) (*servicingapp.AppointmentResponse, error) {
	args := m.Called(ctx, by, id)
	return respOrNil[servicingapp.AppointmentResponse](args, 0), args.Error(1)
}

func (m *MockAppointments) Cancel(ctx context.Context, by identity.Caller, id uuid.UUID, req servicingapp.CancelAppointmentRequest) (*servicingapp.AppointmentResponse, error) {
	args := m.Called(ctx, by, id, req)
	return respOrNil[servicingapp.AppointmentResponse](args, 0), args.Error(1)
}

func (m *MockAppointments) Get(ctx context.Context, by identity.Caller, id uuid.UUID) (*servicingapp.AppointmentResponse, error) {
	args := m.Called(ctx, by, id)
	return respOrNil[servicingapp.AppointmentResponse](args, 0), args.Error(1)
}

func (m *MockAppointments) List(ctx context.Context, by identity.Caller, filter servicingapp.AppointmentListFilter) ([]servicingapp.AppointmentResponse, int64, error) {
	return listOrNil[servicingapp.AppointmentResponse](m.Called(ctx, by, filter))
}

type MockOrders struct{ mock.Mock }

func (m *MockOrders) OpenWalkIn(ctx context.Context, by identity.Caller, req servicingapp.OpenWalkInRequest) (*servicingapp.ServiceOrderResponse, error) {
	args := m.Called(ctx, by, req)
	return respOrNil[servicingapp.ServiceOrderResponse](args, 0), args.Error(1)
}

func (m *MockOrders) OpenFromAppointment(ctx context.Context, by identity.Caller, req servicingapp.OpenFromAppointmentRequest) (*servicingapp.ServiceOrderResponse, error) {
	args := m.Called(ctx, by, req)
	return respOrNil[servicingapp.ServiceOrderResponse](args, 0), args.Error(1)
}

func (m *MockOrders) AssignTechnician(ctx context.Context, by identity.Caller, orderID uuid.UUID, req servicingapp.AssignTechnicianRequest) (*servicingapp.ServiceOrderResponse, error) {
	args := m.Called(ctx, by, orderID, req)
	return respOrNil[servicingapp.ServiceOrderResponse](args, 0), args.Error(1)
}

func (m *MockOrders) Advance(ctx context.Context, by identity.Caller, orderID uuid.UUID, req servicingapp.AdvanceOrderRequest) (*servicingapp.ServiceOrderResponse, error) {
	args := m.Called(ctx, by, orderID, req)
	return respOrNil[servicingapp.ServiceOrderResponse](args, 0), args.Error(1)
}

func (m *MockOrders) AddServiceLine(ctx context.Context, by identity.Caller, orderID uuid.UUID, req servicingapp.AddServiceLineRequest) (*servicingapp.OrderItemResponse, error) {
	args := m.Called(ctx, by, orderID, req)
	return respOrNil[servicingapp.OrderItemResponse](args, 0), args.Error(1)
}

func (m *MockOrders) ApproveLine(ctx context.Context, by identity.Caller, orderID, itemID uuid.UUID) (*servicingapp.OrderItemResponse, error) {
	args := m.Called(ctx, by, orderID, itemID)
	return respOrNil[servicingapp.OrderItemResponse](args, 0), args.Error(1)
}

func (m *MockOrders) RejectLine(ctx context.Context, by identity.Caller, orderID, itemID uuid.UUID) (*servicingapp.OrderItemResponse, error) {
	args := m.Called(ctx, by, orderID, itemID)
	return respOrNil[servicingapp.OrderItemResponse](args, 0), args.Error(1)
}

func (m *MockOrders) Get(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*servicingapp.ServiceOrderResponse, error) {
	args := m.Called(ctx, by, orderID)
	return respOrNil[servicingapp.ServiceOrderResponse](args, 0), args.Error(1)
}

func (m *MockOrders) List(ctx context.Context, by identity.Caller, filter servicingapp.OrderListFilter) ([]servicingapp.ServiceOrderResponse, int64, error) {
	return listOrNil[servicingapp.ServiceOrderResponse](m.Called(ctx, by, filter))
}

type MockBilling struct{ mock.Mock }

func (m *MockBilling) BuildQuotation(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*financeapp.QuotationResponse, error) {
	args := m.Called(ctx, by, orderID)
	return respOrNil[financeapp.QuotationResponse](args, 0), args.Error(1)
}

func (m *MockBilling) MintInvoice(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, by, orderID)
	return respOrNil[financeapp.InvoiceResponse](args, 0), args.Error(1)
}

func (m *MockBilling) GetByOrder(ctx context.Context, by identity.Caller, orderID uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, by, orderID)
	return respOrNil[financeapp.InvoiceResponse](args, 0), args.Error(1)
}

type MockPartRequests struct{ mock.Mock }

func (m *MockPartRequests) Create(ctx context.Context, by identity.Caller, req servicingapp.CreatePartRequestRequest) (*servicingapp.PartRequestResponse, error) {
	args := m.Called(ctx, by, req)
	return respOrNil[servicingapp.PartRequestResponse](args, 0), args.Error(1)
}

func (m *MockPartRequests) Approve(ctx context.Context, by identity.Caller, requestID uuid.UUID, req servicingapp.DecidePartRequestRequest) (*servicingapp.PartRequestResponse, error) {
	args := m.Called(ctx, by, requestID, req)
	return respOrNil[servicingapp.PartRequestResponse](args, 0), args.Error(1)
}

func (m *MockPartRequests) Reject(ctx context.Context, by identity.Caller, requestID uuid.UUID, req servicingapp.DecidePartRequestRequest) (*servicingapp.PartRequestResponse, error) {
	args := m.Called(ctx, by, requestID, req)
	return respOrNil[servicingapp.PartRequestResponse](args, 0), args.Error(1)
}

func (m *MockPartRequests) Cancel(ctx context.Context, by identity.Caller, requestID uuid.UUID) (*servicingapp.PartRequestResponse, error) {
	args := m.Called(ctx, by, requestID)
	return respOrNil[servicingapp.PartRequestResponse](args, 0), args.Error(1)
}

func (m *MockPartRequests) Get(ctx context.Context, requestID uuid.UUID) (*servicingapp.PartRequestResponse, error) {
	args := m.Called(ctx, requestID)
	return respOrNil[servicingapp.PartRequestResponse](args, 0), args.Error(1)
}

func (m *MockPartRequests) List(ctx context.Context, filter servicingapp.PartRequestListFilter) ([]servicingapp.PartRequestResponse, int64, error) {
	return listOrNil[servicingapp.PartRequestResponse](m.Called(ctx, filter))
}

type MockInvoices struct{ mock.Mock }

func (m *MockInvoices) ConfirmPayment(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, by, invoiceID)
	return respOrNil[financeapp.InvoiceResponse](args, 0), args.Error(1)
}

func (m *MockInvoices) CancelInvoice(ctx context.Context, by identity.Caller, invoiceID uuid.UUID, req financeapp.CancelInvoiceRequest) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, by, invoiceID, req)
	return respOrNil[financeapp.InvoiceResponse](args, 0), args.Error(1)
}

func (m *MockInvoices) Get(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, by, invoiceID)
	return respOrNil[financeapp.InvoiceResponse](args, 0), args.Error(1)
}

func (m *MockInvoices) Document(ctx context.Context, by identity.Caller, invoiceID uuid.UUID) (*financeapp.InvoiceDocument, error) {
	args := m.Called(ctx, by, invoiceID)
	return respOrNil[financeapp.InvoiceDocument](args, 0), args.Error(1)
}

func (m *MockInvoices) List(ctx context.Context, by identity.Caller, filter financeapp.InvoiceListFilter) ([]financeapp.InvoiceResponse, int64, error) {
	return listOrNil[financeapp.InvoiceResponse](m.Called(ctx, by, filter))
}
