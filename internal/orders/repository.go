package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estoque-erp/estoque-erp/internal/platform/db"
	"github.com/estoque-erp/estoque-erp/internal/sales"
	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
	"github.com/estoque-erp/estoque-erp/internal/stock"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)
	ListPending(ctx context.Context) ([]Order, error)
}

// TxRepository serves the order service inside one transaction. It carries
// the stock ledger's product store and a sale insert so the delivered
// transition commits order, sale and stock together.
type TxRepository interface {
	stock.ProductStore
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	Insert(ctx context.Context, order *Order) error
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []Item) error
	UpdateHeader(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	InsertSale(ctx context.Context, sale *sales.Sale) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{PgStore: stock.NewPgStore(tx), q: tx})
	})
}

const orderColumns = `id, customer_id, customer_name, subtotal, discount_percentage,
	discount_amount, total_amount, order_date, expected_delivery_date, delivered_date,
	status, payment_method, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var st string
	var method *string
	err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.Subtotal,
		&o.DiscountPercentage, &o.DiscountAmount, &o.TotalAmount, &o.OrderDate,
		&o.ExpectedDeliveryDate, &o.DeliveredDate, &st, &method, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = status.OrderStatus(st)
	if method != nil {
		m := status.PaymentMethod(*method)
		o.PaymentMethod = &m
	}
	return &o, nil
}

func queryOrders(ctx context.Context, q db.Querier, query string, args ...any) ([]Order, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders: query: %w", err)
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("orders: scan: %w", err)
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachItems(ctx, q, result); err != nil {
		return nil, err
	}
	return result, nil
}

func attachItems(ctx context.Context, q db.Querier, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]*Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = &orders[i]
	}

	const query = `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price, created_at
		FROM order_items WHERE order_id = ANY($1) ORDER BY created_at`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("orders: load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return fmt.Errorf("orders: scan item: %w", err)
		}
		if o, ok := index[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func getOrder(ctx context.Context, q db.Querier, id uuid.UUID) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	o, err := scanOrder(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("orders: get: %w", err)
	}
	list := []Order{*o}
	if err := attachItems(ctx, q, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return getOrder(ctx, r.pool, id)
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY order_date DESC`, orderColumns)
	return queryOrders(ctx, r.pool, query)
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE customer_id = $1 ORDER BY order_date DESC`, orderColumns)
	return queryOrders(ctx, r.pool, query, customerID)
}

func (r *repository) ListPending(ctx context.Context) ([]Order, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM orders WHERE status NOT IN ('delivered', 'cancelled') ORDER BY expected_delivery_date`,
		orderColumns)
	return queryOrders(ctx, r.pool, query)
}

type txRepository struct {
	*stock.PgStore
	q db.Querier
}

func (r *txRepository) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return getOrder(ctx, r.q, id)
}

func (r *txRepository) Insert(ctx context.Context, order *Order) error {
	const query = `
		INSERT INTO orders (id, customer_id, customer_name, subtotal, discount_percentage,
			discount_amount, total_amount, order_date, expected_delivery_date, delivered_date,
			status, payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.q.Exec(ctx, query, order.ID, order.CustomerID, order.CustomerName,
		order.Subtotal, order.DiscountPercentage, order.DiscountAmount, order.TotalAmount,
		order.OrderDate, order.ExpectedDeliveryDate, order.DeliveredDate,
		string(order.Status), methodString(order.PaymentMethod), order.Notes,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return insertItems(ctx, r.q, order.Items)
}

func insertItems(ctx context.Context, q db.Querier, items []Item) error {
	const query = `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity,
			unit_price, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, it := range items {
		_, err := q.Exec(ctx, query, it.ID, it.OrderID, it.ProductID, it.ProductName,
			it.Quantity, it.UnitPrice, it.TotalPrice, it.CreatedAt)
		if err != nil {
			return fmt.Errorf("orders: insert item: %w", err)
		}
	}
	return nil
}

func (r *txRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []Item) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("orders: delete items: %w", err)
	}
	return insertItems(ctx, r.q, items)
}

func (r *txRepository) UpdateHeader(ctx context.Context, order *Order) error {
	const query = `
		UPDATE orders SET customer_id = $2, customer_name = $3, subtotal = $4,
			discount_percentage = $5, discount_amount = $6, total_amount = $7,
			order_date = $8, expected_delivery_date = $9, delivered_date = $10,
			status = $11, payment_method = $12, notes = $13, updated_at = now()
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, order.ID, order.CustomerID, order.CustomerName,
		order.Subtotal, order.DiscountPercentage, order.DiscountAmount, order.TotalAmount,
		order.OrderDate, order.ExpectedDeliveryDate, order.DeliveredDate,
		string(order.Status), methodString(order.PaymentMethod), order.Notes)
	if err != nil {
		return fmt.Errorf("orders: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s", shared.ErrNotFound, order.ID)
	}
	return nil
}

func (r *txRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s", shared.ErrNotFound, id)
	}
	return nil
}

func (r *txRepository) InsertSale(ctx context.Context, sale *sales.Sale) error {
	return sales.InsertSale(ctx, r.q, sale)
}

func methodString(m *status.PaymentMethod) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}
