package catalog

import (
	"errors"
	"testing"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceOffering(t *testing.T) {
	t.Run("normalizes code", func(t *testing.T) {
		s, err := NewServiceOffering(" batt-diag ", "Battery diagnostics", "", decimal.NewFromFloat(89.999))

		require.NoError(t, err)
		assert.Equal(t, "BATT-DIAG", s.Code)
		assert.True(t, s.Active)
		assert.True(t, decimal.NewFromFloat(90).Equal(s.Price))
	})

	tests := []struct {
		name  string
		code  string
		sname string
		price decimal.Decimal
	}{
		{"bad code", "x", "Diag", decimal.NewFromInt(1)},
		{"code with spaces", "BATT DIAG", "Diag", decimal.NewFromInt(1)},
		{"empty name", "DIAG", "", decimal.NewFromInt(1)},
		{"zero price", "DIAG", "Diag", decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServiceOffering(tt.code, tt.sname, "", tt.price)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		})
	}
}

func TestServiceOffering_RepriceAndDeactivate(t *testing.T) {
	s, err := NewServiceOffering("TIRE-ROT", "Tire rotation", "", decimal.NewFromInt(40))
	require.NoError(t, err)

	require.NoError(t, s.Reprice(decimal.NewFromInt(45)))
	assert.True(t, decimal.NewFromInt(45).Equal(s.Price))
	assert.Equal(t, 2, s.Version)

	assert.Error(t, s.Reprice(decimal.NewFromInt(-1)))

	s.Deactivate()
	s.Deactivate()
	assert.False(t, s.Active)
	assert.Equal(t, 3, s.Version)
}
