package stock

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

type memStore struct {
	products map[uuid.UUID]*ProductStock
}

func newMemStore() *memStore {
	return &memStore{products: make(map[uuid.UUID]*ProductStock)}
}

func (s *memStore) add(name string, qty int) uuid.UUID {
	id := uuid.New()
	s.products[id] = &ProductStock{ID: id, Name: name, Quantity: qty}
	return id
}

func (s *memStore) ProductStock(ctx context.Context, id uuid.UUID) (ProductStock, error) {
	p, ok := s.products[id]
	if !ok {
		return ProductStock{}, fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
	}
	return *p, nil
}

func (s *memStore) AddProductQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
	}
	p.Quantity += delta
	return nil
}

func TestLedgerDeduct(t *testing.T) {
	store := newMemStore()
	id := store.add("candle", 10)

	ledger := NewLedger(store)
	require.NoError(t, ledger.Deduct(context.Background(), id, 4))
	assert.Equal(t, 6, store.products[id].Quantity)
}

func TestLedgerDeductInsufficient(t *testing.T) {
	store := newMemStore()
	id := store.add("candle", 3)

	ledger := NewLedger(store)
	err := ledger.Deduct(context.Background(), id, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	var stockErr *shared.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, id, stockErr.ProductID)
	assert.Equal(t, "candle", stockErr.ProductName)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	assert.Equal(t, 3, store.products[id].Quantity, "failed deduct must not move stock")
}

func TestLedgerDeductExactBalance(t *testing.T) {
	store := newMemStore()
	id := store.add("candle", 5)

	ledger := NewLedger(store)
	require.NoError(t, ledger.Deduct(context.Background(), id, 5))
	assert.Equal(t, 0, store.products[id].Quantity)
}

func TestLedgerRestore(t *testing.T) {
	store := newMemStore()
	id := store.add("candle", 2)

	ledger := NewLedger(store)
	require.NoError(t, ledger.Restore(context.Background(), id, 3))
	assert.Equal(t, 5, store.products[id].Quantity)
}

func TestLedgerApplyCreditsBeforeDebits(t *testing.T) {
	store := newMemStore()
	a := store.add("candle", 0)
	b := store.add("diffuser", 3)

	// Credit 3 to a, deduct 3 from b. Both must land.
	ledger := NewLedger(store)
	err := ledger.Apply(context.Background(), map[uuid.UUID]int{a: 3, b: -3})
	require.NoError(t, err)
	assert.Equal(t, 3, store.products[a].Quantity)
	assert.Equal(t, 0, store.products[b].Quantity)
}

func TestLedgerApplyDebitFailure(t *testing.T) {
	store := newMemStore()
	id := store.add("candle", 1)

	ledger := NewLedger(store)
	err := ledger.Apply(context.Background(), map[uuid.UUID]int{id: -2})
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
}

func TestDiff(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	old := map[uuid.UUID]int{a: 5, b: 2}
	updated := map[uuid.UUID]int{a: 8, c: 4}

	deltas := Diff(old, updated)
	assert.Equal(t, -3, deltas[a], "grown line deducts the difference")
	assert.Equal(t, 2, deltas[b], "removed product is fully credited")
	assert.Equal(t, -4, deltas[c], "new product is fully debited")
}

func TestDiffUnchangedOmitted(t *testing.T) {
	a := uuid.New()
	deltas := Diff(map[uuid.UUID]int{a: 5}, map[uuid.UUID]int{a: 5})
	assert.Empty(t, deltas)
}

func TestDiffShrink(t *testing.T) {
	a := uuid.New()
	deltas := Diff(map[uuid.UUID]int{a: 5}, map[uuid.UUID]int{a: 2})
	assert.Equal(t, map[uuid.UUID]int{a: 3}, deltas)
}
