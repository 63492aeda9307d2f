package handler

import (
	"errors"
	"net/http"
	"testing"

	inventoryapp "github.com/evcare/backend/internal/application/inventory"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPartHandler_Create(t *testing.T) {
	t.Run("creates and answers 201", func(t *testing.T) {
		parts := new(MockParts)
		r := newEngine(NewPartHandler(parts))

		want := inventoryapp.CreatePartRequest{SKU: "BAT-12V", Name: "12V battery", Price: decimal.RequireFromString("89.90"), InitialQuantity: 4}
		created := &inventoryapp.PartResponse{ID: uuid.New(), SKU: "BAT-12V", QuantityInStock: 4, Status: "ACTIVE"}
		parts.On("CreatePart", mock.Anything, advisor, mock.MatchedBy(func(req inventoryapp.CreatePartRequest) bool {
			return req.SKU == want.SKU && req.Price.Equal(want.Price) && req.InitialQuantity == 4
		})).Return(created, nil)

		w := call{method: http.MethodPost, path: "/api/v1/parts", role: "advisor",
			body: `{"sku":"BAT-12V","name":"12V battery","price":"89.90","initial_quantity":4}`}.do(t, r)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var got inventoryapp.PartResponse
		decodeData(t, w, &got)
		assert.Equal(t, created.ID, got.ID)
		parts.AssertExpectations(t)
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		parts := new(MockParts)
		r := newEngine(NewPartHandler(parts))

		w := call{method: http.MethodPost, path: "/api/v1/parts", role: "advisor",
			body: `{"name":"no sku","initial_quantity":-1}`}.do(t, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
		assert.Equal(t, "test-req", resp.Error.RequestID)
		fields := []string{}
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"sku", "price", "initial_quantity"}, fields)
		parts.AssertNotCalled(t, "CreatePart")
	})

	t.Run("duplicate sku is 409", func(t *testing.T) {
		parts := new(MockParts)
		r := newEngine(NewPartHandler(parts))
		parts.On("CreatePart", mock.Anything, advisor, mock.Anything).Return(nil, shared.ErrDuplicateSKU)

		w := call{method: http.MethodPost, path: "/api/v1/parts", role: "advisor",
			body: `{"sku":"BAT-12V","name":"12V battery","price":"89.90"}`}.do(t, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_SKU", decode(t, w).Error.Code)
	})

	t.Run("missing caller is 401", func(t *testing.T) {
		parts := new(MockParts)
		r := newEngine(NewPartHandler(parts))

		w := call{method: http.MethodPost, path: "/api/v1/parts",
			body: `{"sku":"BAT-12V","name":"12V battery","price":"89.90"}`}.do(t, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPartHandler_List(t *testing.T) {
	parts := new(MockParts)
	r := newEngine(NewPartHandler(parts))

	parts.On("ListParts", mock.Anything, inventoryapp.PartListFilter{Status: "ACTIVE", Page: 2, PageSize: 10}).
		Return([]inventoryapp.PartResponse{{SKU: "A"}, {SKU: "B"}}, int64(12), nil)

	w := call{method: http.MethodGet, path: "/api/v1/parts?status=ACTIVE&page=2&page_size=10", role: "technician"}.do(t, r)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(12), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	w = call{method: http.MethodGet, path: "/api/v1/parts?status=BROKEN", role: "technician"}.do(t, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartHandler_Availability(t *testing.T) {
	parts := new(MockParts)
	r := newEngine(NewPartHandler(parts))
	partID := uuid.New()

	parts.On("CheckAvailability", mock.Anything, partID, 5).
		Return(&inventoryapp.AvailabilityResponse{PartID: partID, RequiredQty: 5, QuantityInStock: 3, Shortfall: 2}, nil)

	w := call{method: http.MethodGet, path: "/api/v1/parts/" + partID.String() + "/availability?qty=5", role: "technician"}.do(t, r)
	require.Equal(t, http.StatusOK, w.Code)
	var got inventoryapp.AvailabilityResponse
	decodeData(t, w, &got)
	assert.False(t, got.Available)
	assert.Equal(t, 2, got.Shortfall)

	w = call{method: http.MethodGet, path: "/api/v1/parts/" + partID.String() + "/availability", role: "technician"}.do(t, r)
	assert.Equal(t, http.StatusBadRequest, w.Code, "qty is required")

	w = call{method: http.MethodGet, path: "/api/v1/parts/not-a-uuid/availability?qty=1", role: "technician"}.do(t, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decode(t, w).Error.Details[0].Field)
}

func TestPartHandler_Adjust(t *testing.T) {
	parts := new(MockParts)
	r := newEngine(NewPartHandler(parts))
	partID := uuid.New()

	parts.On("AdjustManually", mock.Anything, advisor, partID, inventoryapp.AdjustStockRequest{Delta: -10, Reason: "damaged"}).
		Return(nil, shared.NewDomainError(shared.CodeInsufficientStock, "Adjustment would leave negative stock"))

	w := call{method: http.MethodPost, path: "/api/v1/parts/" + partID.String() + "/adjustments", role: "advisor",
		body: inventoryapp.AdjustStockRequest{Delta: -10, Reason: "damaged"}}.do(t, r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	assert.Equal(t, "Adjustment would leave negative stock", resp.Error.Message)
}

func TestPartHandler_ChangeStatusForbidden(t *testing.T) {
	parts := new(MockParts)
	r := newEngine(NewPartHandler(parts))
	partID := uuid.New()

	parts.On("ChangeStatus", mock.Anything, technician, partID, inventoryapp.ChangeStatusRequest{Status: "DISCONTINUED"}).
		Return(nil, shared.ErrForbidden)

	w := call{method: http.MethodPut, path: "/api/v1/parts/" + partID.String() + "/status", role: "technician",
		body: `{"status":"DISCONTINUED"}`}.do(t, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPartHandler_UnexpectedErrorIsNotEchoed(t *testing.T) {
	parts := new(MockParts)
	r := newEngine(NewPartHandler(parts))
	partID := uuid.New()

	parts.On("GetPart", mock.Anything, partID).Return(nil, errors.New("pq: password authentication failed"))

	w := call{method: http.MethodGet, path: "/api/v1/parts/" + partID.String(), role: "advisor"}.do(t, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestPartHandler_Movements(t *testing.T) {
	parts := new(MockParts)
	r := newEngine(NewPartHandler(parts))
	partID := uuid.New()

	parts.On("ListMovements", mock.Anything, partID, inventoryapp.MovementListFilter{}).
		Return([]inventoryapp.MovementResponse{{Kind: "DEDUCTION", Delta: -2}}, int64(1), nil)

	w := call{method: http.MethodGet, path: "/api/v1/parts/" + partID.String() + "/movements", role: "advisor"}.do(t, r)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
}
