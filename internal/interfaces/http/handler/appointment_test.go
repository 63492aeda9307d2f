package handler

import (
	"net/http"
	"testing"
	"time"

	catalogapp "github.com/evcare/backend/internal/application/catalog"
	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAppointmentHandler(t *testing.T) {
	appts := new(MockAppointments)
	r := newEngine(NewAppointmentHandler(appts))
	apptID, vehicleID := uuid.New(), uuid.New()
	at := time.Date(2026, 11, 3, 9, 30, 0, 0, time.UTC)

	appts.On("Book", mock.Anything, advisor, mock.MatchedBy(func(req servicingapp.BookAppointmentRequest) bool {
		return req.VehicleID == vehicleID && req.ScheduledAt.Equal(at)
	})).Return(&servicingapp.AppointmentResponse{ID: apptID, Status: "PENDING"}, nil)
	appts.On("Confirm", mock.Anything, advisor, apptID).Return(&servicingapp.AppointmentResponse{ID: apptID, Status: "CONFIRMED"}, nil)
	appts.On("Cancel", mock.Anything, advisor, apptID, servicingapp.CancelAppointmentRequest{Reason: "customer called"}).
		Return(nil, shared.NewInvalidStateTransition("CONVERTED", "CANCELLED"))

	w := call{method: http.MethodPost, path: "/api/v1/appointments", role: "advisor",
		body: map[string]any{"vehicle_id": vehicleID, "scheduled_at": at}}.do(t, r)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call{method: http.MethodPost, path: "/api/v1/appointments", role: "advisor",
		body: map[string]any{"scheduled_at": at}}.do(t, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call{method: http.MethodPost, path: "/api/v1/appointments/" + apptID.String() + "/confirm", role: "advisor"}.do(t, r)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call{method: http.MethodPost, path: "/api/v1/appointments/" + apptID.String() + "/cancel", role: "advisor",
		body: `{"reason":"customer called"}`}.do(t, r)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	appts.AssertExpectations(t)
}

func TestOfferingHandler(t *testing.T) {
	offerings := new(MockOfferings)
	r := newEngine(NewOfferingHandler(offerings))
	offeringID := uuid.New()

	offerings.On("Create", mock.Anything, technician, mock.Anything).Return(nil, shared.ErrForbidden)
	offerings.On("Reprice", mock.Anything, advisor, offeringID, mock.MatchedBy(func(req catalogapp.RepriceOfferingRequest) bool {
		return req.Price.Equal(decimal.NewFromInt(120))
	})).Return(&catalogapp.OfferingResponse{ID: offeringID, Price: decimal.NewFromInt(120)}, nil)
	offerings.On("List", mock.Anything, catalogapp.OfferingListFilter{ActiveOnly: true}).
		Return([]catalogapp.OfferingResponse{}, int64(0), nil)

	w := call{method: http.MethodPost, path: "/api/v1/services", role: "technician",
		body: `{"code":"BRK-INSP","name":"Brake inspection","price":"45.00"}`}.do(t, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call{method: http.MethodPut, path: "/api/v1/services/" + offeringID.String() + "/price", role: "advisor",
		body: `{"price":120}`}.do(t, r)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call{method: http.MethodPut, path: "/api/v1/services/" + offeringID.String() + "/price", role: "advisor",
		body: `{"price":0}`}.do(t, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call{method: http.MethodGet, path: "/api/v1/services?active_only=true", role: "customer"}.do(t, r)
	assert.Equal(t, http.StatusOK, w.Code)

	offerings.AssertExpectations(t)
}
