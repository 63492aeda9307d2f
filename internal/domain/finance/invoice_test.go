package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintedInvoice(t *testing.T) (*Invoice, *orderFixture) {
	t.Helper()
	f := newOrderFixture(t)
	f.line(t, 1, 100, servicing.LineStatusApproved)
	f.ready(t)
	inv, err := MintInvoice(f.order, DefaultTaxRate, 7*24*time.Hour, time.Now())
	require.NoError(t, err)
	return inv, f
}

func TestMintInvoice_RequiresReadyOrder(t *testing.T) {
	f := newOrderFixture(t)

	inv, err := MintInvoice(f.order, DefaultTaxRate, time.Hour, time.Now())

	require.Error(t, err)
	assert.Nil(t, inv)
	assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition))
	assert.Equal(t, servicing.OrderStatusInspection, f.order.Status)
}

func TestInvoice_ConfirmPayment(t *testing.T) {
	t.Run("customer pays own invoice", func(t *testing.T) {
		inv, f := mintedInvoice(t)
		customer := identity.Caller{UserID: f.order.CustomerID, Role: identity.RoleCustomer}

		require.NoError(t, inv.ConfirmPayment(customer))

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("paying twice fails", func(t *testing.T) {
		inv, f := mintedInvoice(t)
		require.NoError(t, inv.ConfirmPayment(f.advisor))

		err := inv.ConfirmPayment(f.advisor)
		assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition))
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		inv, _ := mintedInvoice(t)
		other := identity.Caller{UserID: uuid.New(), Role: identity.RoleCustomer}

		assert.True(t, errors.Is(inv.ConfirmPayment(other), shared.ErrForbidden))
		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})
}

func TestInvoice_Cancel(t *testing.T) {
	t.Run("paid invoice cannot be cancelled", func(t *testing.T) {
		inv, f := mintedInvoice(t)
		require.NoError(t, inv.ConfirmPayment(f.advisor))

		err := inv.Cancel(f.advisor, "duplicate")

		assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("pending invoice cancels", func(t *testing.T) {
		inv, f := mintedInvoice(t)

		require.NoError(t, inv.Cancel(f.advisor, " goodwill "))

		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.Equal(t, "goodwill", inv.CancelReason)
		assert.True(t, errors.Is(inv.Cancel(f.advisor, ""), shared.ErrInvalidStateTransition))
		assert.True(t, errors.Is(inv.ConfirmPayment(f.advisor), shared.ErrInvalidStateTransition))
	})

	t.Run("technician forbidden", func(t *testing.T) {
		inv, f := mintedInvoice(t)
		assert.True(t, errors.Is(inv.Cancel(f.tech, ""), shared.ErrForbidden))
	})
}

func TestInvoice_Overdue(t *testing.T) {
	inv, f := mintedInvoice(t)

	assert.False(t, inv.IsOverdue(time.Now()))
	later := inv.DueAt.Add(49 * time.Hour)
	assert.True(t, inv.IsOverdue(later))
	assert.Equal(t, 2, inv.DaysOverdue(later))

	require.NoError(t, inv.ConfirmPayment(f.advisor))
	assert.False(t, inv.IsOverdue(later))
	assert.Equal(t, 0, inv.DaysOverdue(later))
}

func TestNewInvoiceOverdueEvent_OneIDPerDay(t *testing.T) {
	inv, _ := mintedInvoice(t)
	morning := inv.DueAt.Add(72 * time.Hour).UTC().Truncate(24 * time.Hour).Add(8 * time.Hour)

	first := NewInvoiceOverdueEvent(inv, morning)
	again := NewInvoiceOverdueEvent(inv, morning.Add(6*time.Hour))
	nextDay := NewInvoiceOverdueEvent(inv, morning.Add(24*time.Hour))

	assert.Equal(t, EventTypeInvoiceOverdue, first.EventType())
	assert.Equal(t, first.EventID(), again.EventID())
	assert.NotEqual(t, first.EventID(), nextDay.EventID())
	assert.Equal(t, inv.CustomerID, first.CustomerID)
	assert.Positive(t, first.DaysOverdue)
}

func TestParseInvoiceStatus(t *testing.T) {
	s, err := ParseInvoiceStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, s)

	_, err = ParseInvoiceStatus("REFUNDED")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}
