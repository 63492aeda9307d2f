package handler

import (
	"net/http"
	"testing"

	financeapp "github.com/evcare/backend/internal/application/finance"
	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServiceOrderHandler_OpenWalkIn(t *testing.T) {
	orders := new(MockOrders)
	r := newEngine(NewServiceOrderHandler(orders, new(MockBilling)))
	req := servicingapp.OpenWalkInRequest{CustomerID: uuid.New(), VehicleID: uuid.New(), Notes: "squeaky brakes"}

	orders.On("OpenWalkIn", mock.Anything, advisor, req).
		Return(&servicingapp.ServiceOrderResponse{ID: uuid.New(), Status: "RECEIVED"}, nil)

	w := call{method: http.MethodPost, path: "/api/v1/service-orders", role: "advisor", body: req}.do(t, r)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got servicingapp.ServiceOrderResponse
	decodeData(t, w, &got)
	assert.Equal(t, "RECEIVED", got.Status)
}

func TestServiceOrderHandler_OpenFromAppointment(t *testing.T) {
	orders := new(MockOrders)
	r := newEngine(NewServiceOrderHandler(orders, new(MockBilling)))
	apptID := uuid.New()

	orders.On("OpenFromAppointment", mock.Anything, advisor, servicingapp.OpenFromAppointmentRequest{AppointmentID: apptID}).
		Return(nil, shared.NewInvalidStateTransition("PENDING", "CONVERTED"))

	w := call{method: http.MethodPost, path: "/api/v1/service-orders/from-appointment", role: "advisor",
		body: map[string]string{"appointment_id": apptID.String()}}.do(t, r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_STATE_TRANSITION", decode(t, w).Error.Code)
}

func TestServiceOrderHandler_Transition(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"advances", nil, http.StatusOK},
		{"illegal jump", shared.NewInvalidStateTransition("RECEIVED", "READY_FOR_INVOICE"), http.StatusUnprocessableEntity},
		{"not the assigned technician", shared.ErrNotAssigned, http.StatusForbidden},
		{"unknown order", shared.ErrNotFound, http.StatusNotFound},
		{"lost the race", shared.ErrConcurrencyConflict, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrders)
			r := newEngine(NewServiceOrderHandler(orders, new(MockBilling)))

			var resp *servicingapp.ServiceOrderResponse
			if tt.err == nil {
				resp = &servicingapp.ServiceOrderResponse{ID: orderID, Status: "DIAGNOSING"}
			}
			orders.On("Advance", mock.Anything, technician, orderID, servicingapp.AdvanceOrderRequest{Status: "DIAGNOSING"}).
				Return(resp, tt.err)

			w := call{method: http.MethodPost, path: "/api/v1/service-orders/" + orderID.String() + "/transitions",
				role: "technician", body: `{"status":"DIAGNOSING"}`}.do(t, r)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			orders.AssertExpectations(t)
		})
	}
}

func TestServiceOrderHandler_Lines(t *testing.T) {
	orders := new(MockOrders)
	r := newEngine(NewServiceOrderHandler(orders, new(MockBilling)))
	orderID, itemID, serviceID := uuid.New(), uuid.New(), uuid.New()

	orders.On("AddServiceLine", mock.Anything, advisor, orderID, servicingapp.AddServiceLineRequest{ServiceID: serviceID, Quantity: 1}).
		Return(&servicingapp.OrderItemResponse{ID: itemID, Kind: "SERVICE", Status: "PROPOSED"}, nil)
	orders.On("ApproveLine", mock.Anything, advisor, orderID, itemID).
		Return(&servicingapp.OrderItemResponse{ID: itemID, Status: "APPROVED"}, nil)
	orders.On("RejectLine", mock.Anything, advisor, orderID, itemID).
		Return(nil, shared.NewInvalidStateTransition("APPROVED", "REJECTED"))

	base := "/api/v1/service-orders/" + orderID.String() + "/items"

	w := call{method: http.MethodPost, path: base, role: "advisor",
		body: servicingapp.AddServiceLineRequest{ServiceID: serviceID, Quantity: 1}}.do(t, r)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = call{method: http.MethodPost, path: base, role: "advisor",
		body: map[string]any{"service_id": serviceID, "quantity": 0}}.do(t, r)
	assert.Equal(t, http.StatusBadRequest, w.Code, "quantity must be positive")

	w = call{method: http.MethodPost, path: base + "/" + itemID.String() + "/approve", role: "advisor"}.do(t, r)
	require.Equal(t, http.StatusOK, w.Code)
	var item servicingapp.OrderItemResponse
	decodeData(t, w, &item)
	assert.Equal(t, "APPROVED", item.Status)

	w = call{method: http.MethodPost, path: base + "/" + itemID.String() + "/reject", role: "advisor"}.do(t, r)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = call{method: http.MethodPost, path: base + "/bogus/approve", role: "advisor"}.do(t, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "itemId", decode(t, w).Error.Details[0].Field)
}

func TestServiceOrderHandler_QuotationAndInvoice(t *testing.T) {
	orders := new(MockOrders)
	billing := new(MockBilling)
	r := newEngine(NewServiceOrderHandler(orders, billing))
	orderID := uuid.New()
	path := "/api/v1/service-orders/" + orderID.String()

	billing.On("BuildQuotation", mock.Anything, advisor, orderID).Return(&financeapp.QuotationResponse{
		OrderID:  orderID,
		Subtotal: decimal.RequireFromString("150.00"),
		Tax:      decimal.RequireFromString("15.00"),
		Total:    decimal.RequireFromString("165.00"),
	}, nil)
	billing.On("MintInvoice", mock.Anything, advisor, orderID).Return(&financeapp.InvoiceResponse{
		ID: uuid.New(), OrderID: orderID, Amount: decimal.RequireFromString("165.00"), Status: "PENDING",
	}, nil).Once()
	billing.On("MintInvoice", mock.Anything, advisor, orderID).Return(nil, shared.ErrInvoiceAlreadyExists).Once()

	w := call{method: http.MethodGet, path: path + "/quotation", role: "advisor"}.do(t, r)
	require.Equal(t, http.StatusOK, w.Code)
	var quote financeapp.QuotationResponse
	decodeData(t, w, &quote)
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("165")))

	w = call{method: http.MethodPost, path: path + "/invoice", role: "advisor"}.do(t, r)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = call{method: http.MethodPost, path: path + "/invoice", role: "advisor"}.do(t, r)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVOICE_ALREADY_EXISTS", decode(t, w).Error.Code)
	billing.AssertExpectations(t)
}

func TestServiceOrderHandler_ListPassesCaller(t *testing.T) {
	orders := new(MockOrders)
	r := newEngine(NewServiceOrderHandler(orders, new(MockBilling)))

	orders.On("List", mock.Anything, technician, servicingapp.OrderListFilter{Status: "IN_PROGRESS"}).
		Return([]servicingapp.ServiceOrderResponse{}, int64(0), nil)

	w := call{method: http.MethodGet, path: "/api/v1/service-orders?status=IN_PROGRESS", role: "technician"}.do(t, r)

	require.Equal(t, http.StatusOK, w.Code)
	orders.AssertExpectations(t)
}
