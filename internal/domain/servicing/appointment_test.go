package servicing

import (
	"errors"
	"testing"
	"time"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tomorrow() time.Time {
	return time.Now().Add(24 * time.Hour)
}

func newConfirmedAppointment(t *testing.T, customer, adv identity.Caller) *Appointment {
	t.Helper()
	appt, err := BookAppointment(customer, customer.UserID, uuid.New(), tomorrow(), "charging port sticky")
	require.NoError(t, err)
	require.NoError(t, appt.Confirm(adv))
	return appt
}

func TestBookAppointment(t *testing.T) {
	customer := identity.Caller{UserID: uuid.New(), Role: identity.RoleCustomer}

	t.Run("customer books for self", func(t *testing.T) {
		appt, err := BookAppointment(customer, customer.UserID, uuid.New(), tomorrow(), "")
		require.NoError(t, err)
		assert.Equal(t, AppointmentStatusPending, appt.Status)
	})

	t.Run("customer cannot book for someone else", func(t *testing.T) {
		_, err := BookAppointment(customer, uuid.New(), uuid.New(), tomorrow(), "")
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})

	t.Run("advisor books on behalf", func(t *testing.T) {
		_, err := BookAppointment(advisor(), uuid.New(), uuid.New(), tomorrow(), "")
		assert.NoError(t, err)
	})

	t.Run("technician cannot book", func(t *testing.T) {
		_, err := BookAppointment(technician(), uuid.New(), uuid.New(), tomorrow(), "")
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})

	t.Run("scheduled time required", func(t *testing.T) {
		_, err := BookAppointment(customer, customer.UserID, uuid.New(), time.Time{}, "")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestAppointment_Lifecycle(t *testing.T) {
	customer := identity.Caller{UserID: uuid.New(), Role: identity.RoleCustomer}
	adv := advisor()

	t.Run("confirm then cancel", func(t *testing.T) {
		appt := newConfirmedAppointment(t, customer, adv)
		assert.Equal(t, adv.UserID, *appt.ConfirmedBy)

		require.NoError(t, appt.Cancel(customer, "trip cancelled"))
		assert.Equal(t, AppointmentStatusCancelled, appt.Status)
		assert.Equal(t, "trip cancelled", appt.CancelReason)

		assert.True(t, errors.Is(appt.Confirm(adv), shared.ErrInvalidStateTransition))
	})

	t.Run("only advisor confirms", func(t *testing.T) {
		appt, err := BookAppointment(customer, customer.UserID, uuid.New(), tomorrow(), "")
		require.NoError(t, err)
		assert.True(t, errors.Is(appt.Confirm(customer), shared.ErrForbidden))
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		appt := newConfirmedAppointment(t, customer, adv)
		other := identity.Caller{UserID: uuid.New(), Role: identity.RoleCustomer}
		assert.True(t, errors.Is(appt.Cancel(other, ""), shared.ErrForbidden))
	})

	t.Run("converted appointment cannot be cancelled", func(t *testing.T) {
		appt := newConfirmedAppointment(t, customer, adv)
		_, err := OpenFromAppointment(adv, appt, "")
		require.NoError(t, err)

		err = appt.Cancel(adv, "changed mind")
		assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition))
		assert.Equal(t, AppointmentStatusConverted, appt.Status)
	})
}

func TestAppointment_IsMissed(t *testing.T) {
	customer := identity.Caller{UserID: uuid.New(), Role: identity.RoleCustomer}
	appt, err := BookAppointment(customer, customer.UserID, uuid.New(), time.Now().Add(-time.Hour), "")
	require.NoError(t, err)

	assert.True(t, appt.IsMissed(time.Now()))
	assert.False(t, appt.IsMissed(time.Now().Add(-2*time.Hour)))

	require.NoError(t, appt.Cancel(customer, ""))
	assert.False(t, appt.IsMissed(time.Now()))
}
