package materials

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
)

type mockRepository struct {
	materials map[uuid.UUID]*Material
}

func newMockRepository() *mockRepository {
	return &mockRepository{materials: make(map[uuid.UUID]*Material)}
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Material, error) {
	mat, ok := m.materials[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *mat
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context) ([]Material, error) {
	var out []Material
	for _, mat := range m.materials {
		out = append(out, *mat)
	}
	return out, nil
}

func (m *mockRepository) ListLowStock(ctx context.Context) ([]Material, error) {
	var out []Material
	for _, mat := range m.materials {
		if mat.CurrentStock.LessThanOrEqual(mat.LowStockAlert) {
			out = append(out, *mat)
		}
	}
	return out, nil
}

func (m *mockRepository) ListByCategory(ctx context.Context, category string) ([]Material, error) {
	var out []Material
	for _, mat := range m.materials {
		if mat.Category != nil && status.EqualFold(*mat.Category, category) {
			out = append(out, *mat)
		}
	}
	return out, nil
}

func (m *mockRepository) Insert(ctx context.Context, mat *Material) error {
	copied := *mat
	m.materials[mat.ID] = &copied
	return nil
}

func (m *mockRepository) Update(ctx context.Context, mat *Material) error {
	if _, ok := m.materials[mat.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *mat
	m.materials[mat.ID] = &copied
	return nil
}

func (m *mockRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*StockLevel, error) {
	mat, ok := m.materials[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	mat.CurrentStock = mat.CurrentStock.Add(delta)
	return &StockLevel{ID: mat.ID, Name: mat.Name, CurrentStock: mat.CurrentStock}, nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.materials[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.materials, id)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateDerivesCostPerUnit(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	material, err := svc.Create(context.Background(), CreateMaterialRequest{
		Name:                   "soy wax",
		Unit:                   "kg",
		TotalQuantityPurchased: dec("12.5"),
		TotalCostPaid:          dec("250"),
	})
	require.NoError(t, err)

	assert.True(t, material.CostPerUnit.Equal(dec("20")))
	assert.True(t, material.CurrentStock.Equal(dec("12.5")), "stock starts at the purchased quantity")
}

func TestCreateCostPerUnitRoundsToFourPlaces(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	material, err := svc.Create(context.Background(), CreateMaterialRequest{
		Name:                   "wick",
		Unit:                   "m",
		TotalQuantityPurchased: dec("3"),
		TotalCostPaid:          dec("10"),
	})
	require.NoError(t, err)
	assert.True(t, material.CostPerUnit.Equal(dec("3.3333")))
}

func TestCreateZeroQuantityLeavesCostZero(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	material, err := svc.Create(context.Background(), CreateMaterialRequest{
		Name:          "fragrance oil",
		Unit:          "ml",
		TotalCostPaid: dec("80"),
	})
	require.NoError(t, err)
	assert.True(t, material.CostPerUnit.IsZero())
}

func TestUpdateRecomputesCostPerUnit(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	material, err := svc.Create(context.Background(), CreateMaterialRequest{
		Name:                   "soy wax",
		Unit:                   "kg",
		TotalQuantityPurchased: dec("10"),
		TotalCostPaid:          dec("200"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), material.ID, UpdateMaterialRequest{
		Name:                   "soy wax",
		Unit:                   "kg",
		TotalQuantityPurchased: dec("20"),
		CurrentStock:           dec("15"),
		TotalCostPaid:          dec("360"),
	})
	require.NoError(t, err)
	assert.True(t, updated.CostPerUnit.Equal(dec("18")))
	assert.True(t, updated.CurrentStock.Equal(dec("15")))
}

func TestUpdateStockAllowsNegativeBalance(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	material, err := svc.Create(context.Background(), CreateMaterialRequest{
		Name:                   "soy wax",
		Unit:                   "kg",
		TotalQuantityPurchased: dec("2"),
		TotalCostPaid:          dec("40"),
	})
	require.NoError(t, err)

	// Consumption is tracked loosely; the balance may go below zero.
	level, err := svc.UpdateStock(context.Background(), material.ID, dec("-3.5"))
	require.NoError(t, err)
	assert.True(t, level.CurrentStock.Equal(dec("-1.5")))
}

func TestUpdateUnknownMaterial(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateMaterialRequest{Name: "x", Unit: "kg"})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
