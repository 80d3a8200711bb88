package categoryprices

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
)

type mockProduct struct {
	category string
	price    decimal.Decimal
}

type mockRepository struct {
	prices   map[uuid.UUID]*CategoryPrice
	products map[uuid.UUID]*mockProduct
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		prices:   make(map[uuid.UUID]*CategoryPrice),
		products: make(map[uuid.UUID]*mockProduct),
	}
}

func (m *mockRepository) seedProduct(category string, price int64) uuid.UUID {
	id := uuid.New()
	m.products[id] = &mockProduct{category: category, price: decimal.NewFromInt(price)}
	return id
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*CategoryPrice, error) {
	cp, ok := m.prices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *cp
	return &copied, nil
}

func (m *mockRepository) GetByName(ctx context.Context, name string) (*CategoryPrice, error) {
	for _, cp := range m.prices {
		if status.EqualFold(cp.CategoryName, name) {
			copied := *cp
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) List(ctx context.Context) ([]CategoryPrice, error) {
	var out []CategoryPrice
	for _, cp := range m.prices {
		out = append(out, *cp)
	}
	return out, nil
}

func (m *mockRepository) NameTaken(ctx context.Context, name string, excluding uuid.UUID) (bool, error) {
	for id, cp := range m.prices {
		if id != excluding && status.EqualFold(cp.CategoryName, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) Insert(ctx context.Context, cp *CategoryPrice) error {
	copied := *cp
	m.prices[cp.ID] = &copied
	return nil
}

func (m *mockRepository) Update(ctx context.Context, cp *CategoryPrice) error {
	if _, ok := m.prices[cp.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *cp
	m.prices[cp.ID] = &copied
	return nil
}

func (m *mockRepository) ApplyToProducts(ctx context.Context, cp *CategoryPrice) (int, error) {
	count := 0
	for _, p := range m.products {
		if strings.EqualFold(p.category, cp.CategoryName) {
			p.price = cp.Price
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.prices[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.prices, id)
	return nil
}

func TestCreateCategoryPrice(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	cp, err := svc.Create(context.Background(), CreateCategoryPriceRequest{
		CategoryName: "Velas",
		Price:        decimal.NewFromInt(35),
	})
	require.NoError(t, err)
	assert.Equal(t, "Velas", cp.CategoryName)
	assert.Len(t, repo.prices, 1)
}

func TestCreateDuplicateNameRejected(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateCategoryPriceRequest{CategoryName: "Velas", Price: decimal.NewFromInt(35)})
	require.NoError(t, err)

	// Duplicate detection is case-insensitive.
	_, err = svc.Create(context.Background(), CreateCategoryPriceRequest{CategoryName: "VELAS", Price: decimal.NewFromInt(40)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConflict))
	assert.Len(t, repo.prices, 1)
}

func TestUpdateKeepingOwnNameAllowed(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	cp, err := svc.Create(context.Background(), CreateCategoryPriceRequest{CategoryName: "Velas", Price: decimal.NewFromInt(35)})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), cp.ID, UpdateCategoryPriceRequest{
		CategoryName: "velas",
		Price:        decimal.NewFromInt(42),
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(42)))
}

func TestUpdateToTakenNameRejected(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateCategoryPriceRequest{CategoryName: "Velas", Price: decimal.NewFromInt(35)})
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), CreateCategoryPriceRequest{CategoryName: "Difusores", Price: decimal.NewFromInt(50)})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), other.ID, UpdateCategoryPriceRequest{
		CategoryName: "velas",
		Price:        decimal.NewFromInt(50),
	})
	assert.True(t, errors.Is(err, shared.ErrConflict))
}

func TestApplyToProductsCountsMatches(t *testing.T) {
	repo := newMockRepository()
	repo.seedProduct("Velas", 20)
	repo.seedProduct("velas", 22)
	untouched := repo.seedProduct("Difusores", 55)
	svc := NewService(repo)

	cp, err := svc.Create(context.Background(), CreateCategoryPriceRequest{CategoryName: "Velas", Price: decimal.NewFromInt(35)})
	require.NoError(t, err)

	result, err := svc.ApplyToProducts(context.Background(), cp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.UpdatedCount)

	for id, p := range repo.products {
		if id == untouched {
			assert.True(t, p.price.Equal(decimal.NewFromInt(55)))
			continue
		}
		assert.True(t, p.price.Equal(decimal.NewFromInt(35)))
	}
}

func TestApplyToProductsUnknownID(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.ApplyToProducts(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateCategoryPriceRequest{CategoryName: "Velas", Price: decimal.NewFromInt(35)})
	require.NoError(t, err)

	cp, err := svc.GetByName(context.Background(), "VELAS")
	require.NoError(t, err)
	assert.Equal(t, "Velas", cp.CategoryName)
}
