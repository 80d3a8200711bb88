package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estoque-erp/estoque-erp/internal/platform/db"
	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
	"github.com/estoque-erp/estoque-erp/internal/stock"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id uuid.UUID) (*Sale, error)
	List(ctx context.Context) ([]Sale, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Sale, error)
	ListToday(ctx context.Context) ([]Sale, error)
	ListPending(ctx context.Context) ([]Sale, error)
}

// TxRepository is the transaction-bound view the service mutates through.
// It doubles as the stock ledger's product store so stock deltas commit or
// roll back together with the sale rows.
type TxRepository interface {
	stock.ProductStore
	Get(ctx context.Context, id uuid.UUID) (*Sale, error)
	Insert(ctx context.Context, sale *Sale) error
	ReplaceItems(ctx context.Context, saleID uuid.UUID, items []Item) error
	UpdateHeader(ctx context.Context, sale *Sale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, st status.SaleStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
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

const saleColumns = `id, customer_id, customer_name, subtotal, discount_percentage,
	discount_amount, total_amount, sale_date, status, payment_method, notes,
	from_order, created_at, updated_at`

func scanSale(row pgx.Row) (*Sale, error) {
	var s Sale
	var st string
	var method *string
	err := row.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.Subtotal,
		&s.DiscountPercentage, &s.DiscountAmount, &s.TotalAmount, &s.SaleDate,
		&st, &method, &s.Notes, &s.FromOrder, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = status.SaleStatus(st)
	if method != nil {
		m := status.PaymentMethod(*method)
		s.PaymentMethod = &m
	}
	return &s, nil
}

func querySales(ctx context.Context, q db.Querier, query string, args ...any) ([]Sale, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sales: query: %w", err)
	}
	defer rows.Close()

	var result []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("sales: scan: %w", err)
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachItems(ctx, q, result); err != nil {
		return nil, err
	}
	return result, nil
}

func attachItems(ctx context.Context, q db.Querier, sales []Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(sales))
	index := make(map[uuid.UUID]*Sale, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
		index[sales[i].ID] = &sales[i]
	}

	const query = `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price, total_price, created_at
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY created_at`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("sales: load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return fmt.Errorf("sales: scan item: %w", err)
		}
		if s, ok := index[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

func getSale(ctx context.Context, q db.Querier, id uuid.UUID) (*Sale, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1`, saleColumns)
	s, err := scanSale(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: sale %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("sales: get: %w", err)
	}
	list := []Sale{*s}
	if err := attachItems(ctx, q, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return getSale(ctx, r.pool, id)
}

func (r *repository) List(ctx context.Context) ([]Sale, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales ORDER BY sale_date DESC`, saleColumns)
	return querySales(ctx, r.pool, query)
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Sale, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE customer_id = $1 ORDER BY sale_date DESC`, saleColumns)
	return querySales(ctx, r.pool, query, customerID)
}

func (r *repository) ListToday(ctx context.Context) ([]Sale, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM sales WHERE sale_date::date = (now() AT TIME ZONE 'utc')::date ORDER BY sale_date DESC`,
		saleColumns)
	return querySales(ctx, r.pool, query)
}

func (r *repository) ListPending(ctx context.Context) ([]Sale, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM sales WHERE status IN ('pending', 'awaiting_payment') ORDER BY sale_date`,
		saleColumns)
	return querySales(ctx, r.pool, query)
}

type txRepository struct {
	*stock.PgStore
	q db.Querier
}

func (r *txRepository) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return getSale(ctx, r.q, id)
}

func (r *txRepository) Insert(ctx context.Context, sale *Sale) error {
	return InsertSale(ctx, r.q, sale)
}

// InsertSale writes a sale and its items through the given querier. Exported
// so the order delivery transition can derive a sale inside its own
// transaction.
func InsertSale(ctx context.Context, q db.Querier, sale *Sale) error {
	const query = `
		INSERT INTO sales (id, customer_id, customer_name, subtotal, discount_percentage,
			discount_amount, total_amount, sale_date, status, payment_method, notes,
			from_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var method *string
	if sale.PaymentMethod != nil {
		m := string(*sale.PaymentMethod)
		method = &m
	}
	_, err := q.Exec(ctx, query, sale.ID, sale.CustomerID, sale.CustomerName,
		sale.Subtotal, sale.DiscountPercentage, sale.DiscountAmount, sale.TotalAmount,
		sale.SaleDate, string(sale.Status), method, sale.Notes, sale.FromOrder,
		sale.CreatedAt, sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sales: insert: %w", err)
	}
	return insertItems(ctx, q, sale.Items)
}

func insertItems(ctx context.Context, q db.Querier, items []Item) error {
	const query = `
		INSERT INTO sale_items (id, sale_id, product_id, product_name, quantity,
			unit_price, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, it := range items {
		_, err := q.Exec(ctx, query, it.ID, it.SaleID, it.ProductID, it.ProductName,
			it.Quantity, it.UnitPrice, it.TotalPrice, it.CreatedAt)
		if err != nil {
			return fmt.Errorf("sales: insert item: %w", err)
		}
	}
	return nil
}

func (r *txRepository) ReplaceItems(ctx context.Context, saleID uuid.UUID, items []Item) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("sales: delete items: %w", err)
	}
	return insertItems(ctx, r.q, items)
}

func (r *txRepository) UpdateHeader(ctx context.Context, sale *Sale) error {
	const query = `
		UPDATE sales SET customer_id = $2, customer_name = $3, subtotal = $4,
			discount_percentage = $5, discount_amount = $6, total_amount = $7,
			sale_date = $8, status = $9, payment_method = $10, notes = $11,
			updated_at = now()
		WHERE id = $1`

	var method *string
	if sale.PaymentMethod != nil {
		m := string(*sale.PaymentMethod)
		method = &m
	}
	tag, err := r.q.Exec(ctx, query, sale.ID, sale.CustomerID, sale.CustomerName,
		sale.Subtotal, sale.DiscountPercentage, sale.DiscountAmount, sale.TotalAmount,
		sale.SaleDate, string(sale.Status), method, sale.Notes)
	if err != nil {
		return fmt.Errorf("sales: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sale %s", shared.ErrNotFound, sale.ID)
	}
	return nil
}

func (r *txRepository) UpdateStatus(ctx context.Context, id uuid.UUID, st status.SaleStatus) error {
	const query = `UPDATE sales SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, string(st))
	if err != nil {
		return fmt.Errorf("sales: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sale %s", shared.ErrNotFound, id)
	}
	return nil
}

func (r *txRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("sales: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sale %s", shared.ErrNotFound, id)
	}
	return nil
}
