package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-erp/estoque-erp/internal/sales"
	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
	"github.com/estoque-erp/estoque-erp/internal/stock"
)

type mockRepository struct {
	orders   map[uuid.UUID]*Order
	sales    map[uuid.UUID]*sales.Sale
	products map[uuid.UUID]*stock.ProductStock
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		orders:   make(map[uuid.UUID]*Order),
		sales:    make(map[uuid.UUID]*sales.Sale),
		products: make(map[uuid.UUID]*stock.ProductStock),
	}
}

func (m *mockRepository) seedProduct(name string, qty int) uuid.UUID {
	id := uuid.New()
	m.products[id] = &stock.ProductStock{ID: id, Name: name, Quantity: qty}
	return id
}

func (m *mockRepository) seedOrder(order *Order) {
	copied := *order
	copied.Items = append([]Item(nil), order.Items...)
	m.orders[order.ID] = &copied
}

func cloneOrders(src map[uuid.UUID]*Order) map[uuid.UUID]*Order {
	out := make(map[uuid.UUID]*Order, len(src))
	for id, o := range src {
		copied := *o
		copied.Items = append([]Item(nil), o.Items...)
		out[id] = &copied
	}
	return out
}

func cloneSales(src map[uuid.UUID]*sales.Sale) map[uuid.UUID]*sales.Sale {
	out := make(map[uuid.UUID]*sales.Sale, len(src))
	for id, s := range src {
		copied := *s
		copied.Items = append([]sales.Item(nil), s.Items...)
		out[id] = &copied
	}
	return out
}

func cloneProducts(src map[uuid.UUID]*stock.ProductStock) map[uuid.UUID]*stock.ProductStock {
	out := make(map[uuid.UUID]*stock.ProductStock, len(src))
	for id, p := range src {
		copied := *p
		out[id] = &copied
	}
	return out
}

// WithTx runs fn against a snapshot and commits only on success, mirroring
// the transactional repository.
func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &mockTx{
		orders:   cloneOrders(m.orders),
		sales:    cloneSales(m.sales),
		products: cloneProducts(m.products),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.orders = tx.orders
	m.sales = tx.sales
	m.products = tx.products
	return nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *o
	copied.Items = append([]Item(nil), o.Items...)
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockRepository) ListPending(ctx context.Context) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.Status != status.OrderDelivered && o.Status != status.OrderCancelled {
			out = append(out, *o)
		}
	}
	return out, nil
}

type mockTx struct {
	orders   map[uuid.UUID]*Order
	sales    map[uuid.UUID]*sales.Sale
	products map[uuid.UUID]*stock.ProductStock
}

func (t *mockTx) ProductStock(ctx context.Context, id uuid.UUID) (stock.ProductStock, error) {
	p, ok := t.products[id]
	if !ok {
		return stock.ProductStock{}, shared.ErrNotFound
	}
	return *p, nil
}

func (t *mockTx) AddProductQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	p, ok := t.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Quantity += delta
	return nil
}

func (t *mockTx) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, ok := t.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *o
	copied.Items = append([]Item(nil), o.Items...)
	return &copied, nil
}

func (t *mockTx) Insert(ctx context.Context, order *Order) error {
	copied := *order
	copied.Items = append([]Item(nil), order.Items...)
	t.orders[order.ID] = &copied
	return nil
}

func (t *mockTx) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []Item) error {
	o, ok := t.orders[orderID]
	if !ok {
		return shared.ErrNotFound
	}
	o.Items = append([]Item(nil), items...)
	return nil
}

func (t *mockTx) UpdateHeader(ctx context.Context, order *Order) error {
	existing, ok := t.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	items := existing.Items
	copied := *order
	copied.Items = items
	t.orders[order.ID] = &copied
	return nil
}

func (t *mockTx) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(t.orders, id)
	return nil
}

func (t *mockTx) InsertSale(ctx context.Context, sale *sales.Sale) error {
	copied := *sale
	copied.Items = append([]sales.Item(nil), sale.Items...)
	t.sales[sale.ID] = &copied
	return nil
}

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seedOrderWithItems(repo *mockRepository, st status.OrderStatus, items ...Item) *Order {
	order := &Order{
		ID:                   uuid.New(),
		CustomerID:           uuid.New(),
		CustomerName:         "Bruna",
		TotalAmount:          money(150),
		OrderDate:            time.Now().UTC(),
		ExpectedDeliveryDate: time.Now().UTC().Add(72 * time.Hour),
		Status:               st,
		Items:                items,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	repo.seedOrder(order)
	return order
}

func orderItem(productID uuid.UUID, name string, qty int, price int64) Item {
	return Item{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: name,
		Quantity:    qty,
		UnitPrice:   money(price),
		TotalPrice:  money(price * int64(qty)),
	}
}

func TestCreateOrderDoesNotTouchStock(t *testing.T) {
	repo := newMockRepository()
	candle := repo.seedProduct("candle", 2)
	svc := NewService(repo)

	// Ordering more than is on hand is fine; stock is only checked at delivery.
	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:           uuid.New(),
		CustomerName:         "Bruna",
		Items:                []ItemRequest{{ProductID: candle, ProductName: "candle", Quantity: 10, UnitPrice: money(25)}},
		ExpectedDeliveryDate: time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, status.OrderPending, order.Status)
	assert.Equal(t, 2, repo.products[candle].Quantity)
	assert.Empty(t, repo.sales)
}

func TestDeliverDerivesPaidSale(t *testing.T) {
	repo := newMockRepository()
	candle := repo.seedProduct("candle", 10)
	diffuser := repo.seedProduct("diffuser", 5)
	order := seedOrderWithItems(repo, status.OrderReadyForDelivery,
		orderItem(candle, "candle", 4, 25),
		orderItem(diffuser, "diffuser", 2, 40),
	)
	svc := NewService(repo)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)

	assert.Equal(t, status.OrderDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredDate)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, status.PaymentPix, *updated.PaymentMethod, "payment defaults to pix when unspecified")

	assert.Equal(t, 6, repo.products[candle].Quantity)
	assert.Equal(t, 3, repo.products[diffuser].Quantity)

	require.Len(t, repo.sales, 1)
	for _, sale := range repo.sales {
		assert.True(t, sale.FromOrder)
		assert.Equal(t, status.SalePaid, sale.Status)
		assert.Equal(t, order.CustomerID, sale.CustomerID)
		assert.True(t, sale.TotalAmount.Equal(order.TotalAmount))
		require.Len(t, sale.Items, 2)
		require.NotNil(t, sale.Notes)
		assert.Contains(t, *sale.Notes, order.ID.String())
	}
}

func TestDeliverRecordsGivenPaymentMethod(t *testing.T) {
	repo := newMockRepository()
	candle := repo.seedProduct("candle", 10)
	order := seedOrderWithItems(repo, status.OrderReadyForDelivery, orderItem(candle, "candle", 1, 25))
	svc := NewService(repo)

	method := "credit"
	updated, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{
		Status:        "delivered",
		PaymentMethod: &method,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, status.PaymentCredit, *updated.PaymentMethod)
}

func TestDeliverInsufficientStockRollsBack(t *testing.T) {
	repo := newMockRepository()
	candle := repo.seedProduct("candle", 10)
	diffuser := repo.seedProduct("diffuser", 1)
	order := seedOrderWithItems(repo, status.OrderReadyForDelivery,
		orderItem(candle, "candle", 4, 25),
		orderItem(diffuser, "diffuser", 2, 40),
	)
	svc := NewService(repo)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "delivered"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	// Nothing moved: no sale, no stock change, order still undelivered.
	assert.Empty(t, repo.sales)
	assert.Equal(t, 10, repo.products[candle].Quantity)
	assert.Equal(t, 1, repo.products[diffuser].Quantity)
	stored := repo.orders[order.ID]
	assert.Equal(t, status.OrderReadyForDelivery, stored.Status)
	assert.Nil(t, stored.DeliveredDate)
}

func TestUpdateStatusRejectsTerminalTransitions(t *testing.T) {
	repo := newMockRepository()
	order := seedOrderWithItems(repo, status.OrderDelivered)
	svc := NewService(repo)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "pending"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConflict))

	_, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "cancelled"})
	assert.True(t, errors.Is(err, shared.ErrConflict))
}

func TestUpdateOrderDeliveredStatusDerivesSale(t *testing.T) {
	repo := newMockRepository()
	candle := repo.seedProduct("candle", 10)
	order := seedOrderWithItems(repo, status.OrderInProduction, orderItem(candle, "candle", 3, 25))
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), order.ID, UpdateOrderRequest{
		CustomerID:           order.CustomerID,
		CustomerName:         order.CustomerName,
		Items:                []ItemRequest{{ProductID: candle, ProductName: "candle", Quantity: 3, UnitPrice: money(25)}},
		TotalAmount:          money(75),
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		Status:               "delivered",
	})
	require.NoError(t, err)

	assert.Equal(t, status.OrderDelivered, updated.Status)
	assert.Equal(t, 7, repo.products[candle].Quantity)
	assert.Len(t, repo.sales, 1)
}

func TestUpdateOrderPlainEditNeverMovesStock(t *testing.T) {
	repo := newMockRepository()
	candle := repo.seedProduct("candle", 10)
	order := seedOrderWithItems(repo, status.OrderPending, orderItem(candle, "candle", 3, 25))
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), order.ID, UpdateOrderRequest{
		CustomerID:           order.CustomerID,
		CustomerName:         order.CustomerName,
		Items:                []ItemRequest{{ProductID: candle, ProductName: "candle", Quantity: 8, UnitPrice: money(25)}},
		TotalAmount:          money(200),
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		Status:               "in_production",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, repo.products[candle].Quantity)
	assert.Empty(t, repo.sales)
	assert.Len(t, repo.orders[order.ID].Items, 1)
	assert.Equal(t, 8, repo.orders[order.ID].Items[0].Quantity)
}

func TestDeleteOrderKeepsStockAndSales(t *testing.T) {
	repo := newMockRepository()
	candle := repo.seedProduct("candle", 10)
	order := seedOrderWithItems(repo, status.OrderPending, orderItem(candle, "candle", 3, 25))
	svc := NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), order.ID))
	assert.Empty(t, repo.orders)
	assert.Equal(t, 10, repo.products[candle].Quantity)
}

func TestUpdateStatusUnknownToken(t *testing.T) {
	repo := newMockRepository()
	order := seedOrderWithItems(repo, status.OrderPending)
	svc := NewService(repo)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "shipped"})
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}
