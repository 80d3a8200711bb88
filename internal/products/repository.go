package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estoque-erp/estoque-erp/internal/platform/db"
	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/stock"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*StockLevel, error)
}

type TxRepository interface {
	Insert(ctx context.Context, p *Product) error
	UpdateHeader(ctx context.Context, p *Product) error
	ReplaceRecipe(ctx context.Context, productID uuid.UUID, lines []ProductionMaterial) error
	InsertPriceEntry(ctx context.Context, entry PriceEntry) error
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
		return fn(ctx, &txRepository{q: tx})
	})
}

const productColumns = `id, name, description, price, quantity, category, fragrance,
	weight, production_cost, profit_margin, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.Category, &p.Fragrance, &p.Weight, &p.ProductionCost, &p.ProfitMargin,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func queryProducts(ctx context.Context, q db.Querier, query string, args ...any) ([]Product, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("products: query: %w", err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("products: scan: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachRelations(ctx, q, result); err != nil {
		return nil, err
	}
	return result, nil
}

func attachRelations(ctx context.Context, q db.Querier, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(products))
	index := make(map[uuid.UUID]*Product, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = &products[i]
	}

	const recipeQuery = `
		SELECT id, product_id, material_id, material_name, quantity, unit,
			cost_per_unit, total_cost, created_at, updated_at
		FROM production_materials WHERE product_id = ANY($1) ORDER BY created_at`
	rows, err := q.Query(ctx, recipeQuery, ids)
	if err != nil {
		return fmt.Errorf("products: load recipe: %w", err)
	}
	for rows.Next() {
		var pm ProductionMaterial
		if err := rows.Scan(&pm.ID, &pm.ProductID, &pm.MaterialID, &pm.MaterialName,
			&pm.Quantity, &pm.Unit, &pm.CostPerUnit, &pm.TotalCost,
			&pm.CreatedAt, &pm.UpdatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("products: scan recipe: %w", err)
		}
		if p, ok := index[pm.ProductID]; ok {
			p.Recipe = append(p.Recipe, pm)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	const historyQuery = `
		SELECT id, product_id, price, date, reason
		FROM price_history WHERE product_id = ANY($1) ORDER BY date`
	rows, err = q.Query(ctx, historyQuery, ids)
	if err != nil {
		return fmt.Errorf("products: load price history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e PriceEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Price, &e.Date, &e.Reason); err != nil {
			return fmt.Errorf("products: scan price history: %w", err)
		}
		if p, ok := index[e.ProductID]; ok {
			p.PriceHistory = append(p.PriceHistory, e)
		}
	}
	return rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("products: get: %w", err)
	}
	list := []Product{*p}
	if err := attachRelations(ctx, r.pool, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY name`, productColumns)
	return queryProducts(ctx, r.pool, query)
}

func (r *repository) ListLowStock(ctx context.Context, threshold int) ([]Product, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE quantity <= $1 ORDER BY quantity`, productColumns)
	return queryProducts(ctx, r.pool, query, threshold)
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE lower(category) = lower($1) ORDER BY name`, productColumns)
	return queryProducts(ctx, r.pool, query, category)
}

// AdjustStock applies a signed delta outside any aggregate transaction.
// Manual corrections are unchecked; the returned level may legitimately
// reflect an operator writing stock down to zero.
func (r *repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*StockLevel, error) {
	var level StockLevel
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		store := stock.NewPgStore(tx)
		if err := store.AddProductQuantity(ctx, id, delta); err != nil {
			return err
		}
		p, err := store.ProductStock(ctx, id)
		if err != nil {
			return err
		}
		level = StockLevel{ID: p.ID, Name: p.Name, Quantity: p.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &level, nil
}

type txRepository struct {
	q db.Querier
}

func (r *txRepository) Insert(ctx context.Context, p *Product) error {
	const query = `
		INSERT INTO products (id, name, description, price, quantity, category,
			fragrance, weight, production_cost, profit_margin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Quantity,
		p.Category, p.Fragrance, p.Weight, p.ProductionCost, p.ProfitMargin,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	return nil
}

func (r *txRepository) UpdateHeader(ctx context.Context, p *Product) error {
	const query = `
		UPDATE products SET name = $2, description = $3, price = $4, quantity = $5,
			category = $6, fragrance = $7, weight = $8, production_cost = $9,
			profit_margin = $10, updated_at = now()
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Quantity,
		p.Category, p.Fragrance, p.Weight, p.ProductionCost, p.ProfitMargin)
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, p.ID)
	}
	return nil
}

func (r *txRepository) ReplaceRecipe(ctx context.Context, productID uuid.UUID, lines []ProductionMaterial) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM production_materials WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("products: clear recipe: %w", err)
	}

	const query = `
		INSERT INTO production_materials (id, product_id, material_id, material_name,
			quantity, unit, cost_per_unit, total_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, pm := range lines {
		_, err := r.q.Exec(ctx, query, pm.ID, pm.ProductID, pm.MaterialID, pm.MaterialName,
			pm.Quantity, pm.Unit, pm.CostPerUnit, pm.TotalCost, pm.CreatedAt, pm.UpdatedAt)
		if err != nil {
			return fmt.Errorf("products: insert recipe line: %w", err)
		}
	}
	return nil
}

func (r *txRepository) InsertPriceEntry(ctx context.Context, entry PriceEntry) error {
	const query = `
		INSERT INTO price_history (id, product_id, price, date, reason)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.q.Exec(ctx, query, entry.ID, entry.ProductID, entry.Price, entry.Date, entry.Reason)
	if err != nil {
		return fmt.Errorf("products: insert price entry: %w", err)
	}
	return nil
}

// Delete removes a product. Recipe lines and price history cascade via FK;
// sale and order item references restrict, surfacing as ErrConflict through
// the SQLSTATE mapping.
func (r *txRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
	}
	return nil
}
