package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/evcare/backend/internal/domain/catalog"
	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/domain/inventory"
	"github.com/evcare/backend/internal/domain/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	panic("not used")
}

func (m *MockPartRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	panic("not used")
}

func (m *MockPartRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Part, error) {
	panic("not used")
}

func (m *MockPartRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	panic("not used")
}

func (m *MockPartRepository) Create(ctx context.Context, part *inventory.Part) error {
	panic("not used")
}

func (m *MockPartRepository) SaveWithLock(ctx context.Context, part *inventory.Part) error {
	panic("not used")
}

func advisor() identity.Caller {
	return identity.Caller{UserID: uuid.New(), Role: identity.RoleAdvisor}
}

func TestOfferingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockOfferingRepository)
		repo.On("ExistsByCode", ctx, "HV-DIAG").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*catalog.ServiceOffering")).Return(nil)
		svc := NewOfferingService(repo)

		resp, err := svc.Create(ctx, advisor(), CreateOfferingRequest{
			Code: "hv-diag", Name: "High-voltage diagnostics", Price: decimal.NewFromInt(90),
		})

		require.NoError(t, err)
		assert.Equal(t, "HV-DIAG", resp.Code)
		assert.True(t, resp.Active)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockOfferingRepository)
		repo.On("ExistsByCode", ctx, "HV-DIAG").Return(true, nil)
		svc := NewOfferingService(repo)

		_, err := svc.Create(ctx, advisor(), CreateOfferingRequest{Code: "HV-DIAG", Name: "x", Price: decimal.NewFromInt(1)})

		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("customer forbidden", func(t *testing.T) {
		svc := NewOfferingService(new(MockOfferingRepository))
		customer := identity.Caller{UserID: uuid.New(), Role: identity.RoleCustomer}

		_, err := svc.Create(ctx, customer, CreateOfferingRequest{Code: "HV-DIAG", Name: "x", Price: decimal.NewFromInt(1)})

		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})
}

func TestOfferingService_Deactivate(t *testing.T) {
	ctx := context.Background()
	offering, err := catalog.NewServiceOffering("TIRE-ROT", "Tire rotation", "", decimal.NewFromInt(30))
	require.NoError(t, err)
	repo := new(MockOfferingRepository)
	repo.On("FindByID", ctx, offering.ID).Return(offering, nil)
	repo.On("Save", ctx, offering).Return(nil)

	resp, err := NewOfferingService(repo).Deactivate(ctx, advisor(), offering.ID)

	require.NoError(t, err)
	assert.False(t, resp.Active)
	repo.AssertExpectations(t)
}

func TestNameResolver(t *testing.T) {
	ctx := context.Background()
	offering, err := catalog.NewServiceOffering("TIRE-ROT", "Tire rotation", "", decimal.NewFromInt(30))
	require.NoError(t, err)
	part, err := inventory.NewPart("CAB-T2", "Type 2 cable", 1, decimal.NewFromInt(200))
	require.NoError(t, err)
	missing := uuid.New()

	offerings := new(MockOfferingRepository)
	offerings.On("FindByID", ctx, offering.ID).Return(offering, nil)
	offerings.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	parts := new(MockPartRepository)
	parts.On("FindByID", ctx, part.ID).Return(part, nil)

	nameOf := NewNameResolver(offerings, parts).Resolver(ctx)

	assert.Equal(t, "Tire rotation", nameOf(servicing.ServiceRef(offering.ID)))
	assert.Equal(t, "Type 2 cable (CAB-T2)", nameOf(servicing.PartRef(part.ID)))
	assert.Equal(t, "", nameOf(servicing.ServiceRef(missing)))
}
