package materials

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/estoque-erp/estoque-erp/internal/platform/db"
	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/stock"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Material, error)
	List(ctx context.Context) ([]Material, error)
	ListLowStock(ctx context.Context) ([]Material, error)
	ListByCategory(ctx context.Context, category string) ([]Material, error)
	Insert(ctx context.Context, m *Material) error
	Update(ctx context.Context, m *Material) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*StockLevel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const materialColumns = `id, name, unit, total_quantity_purchased, current_stock,
	low_stock_alert, total_cost_paid, cost_per_unit, category, supplier, notes,
	created_at, updated_at`

func scanMaterial(row pgx.Row) (*Material, error) {
	var m Material
	err := row.Scan(&m.ID, &m.Name, &m.Unit, &m.TotalQuantityPurchased,
		&m.CurrentStock, &m.LowStockAlert, &m.TotalCostPaid, &m.CostPerUnit,
		&m.Category, &m.Supplier, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) queryMaterials(ctx context.Context, query string, args ...any) ([]Material, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("materials: query: %w", err)
	}
	defer rows.Close()

	var result []Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("materials: scan: %w", err)
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM materials WHERE id = $1`, materialColumns)
	m, err := scanMaterial(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: material %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("materials: get: %w", err)
	}
	return m, nil
}

func (r *repository) List(ctx context.Context) ([]Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM materials ORDER BY name`, materialColumns)
	return r.queryMaterials(ctx, query)
}

func (r *repository) ListLowStock(ctx context.Context) ([]Material, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM materials WHERE current_stock <= low_stock_alert ORDER BY current_stock`,
		materialColumns)
	return r.queryMaterials(ctx, query)
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]Material, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM materials WHERE lower(category) = lower($1) ORDER BY name`,
		materialColumns)
	return r.queryMaterials(ctx, query, category)
}

func (r *repository) Insert(ctx context.Context, m *Material) error {
	const query = `
		INSERT INTO materials (id, name, unit, total_quantity_purchased, current_stock,
			low_stock_alert, total_cost_paid, cost_per_unit, category, supplier, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query, m.ID, m.Name, m.Unit, m.TotalQuantityPurchased,
		m.CurrentStock, m.LowStockAlert, m.TotalCostPaid, m.CostPerUnit,
		m.Category, m.Supplier, m.Notes, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("materials: insert: %w", db.MapError(err))
	}
	return nil
}

func (r *repository) Update(ctx context.Context, m *Material) error {
	const query = `
		UPDATE materials SET name = $2, unit = $3, total_quantity_purchased = $4,
			current_stock = $5, low_stock_alert = $6, total_cost_paid = $7,
			cost_per_unit = $8, category = $9, supplier = $10, notes = $11,
			updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, m.ID, m.Name, m.Unit, m.TotalQuantityPurchased,
		m.CurrentStock, m.LowStockAlert, m.TotalCostPaid, m.CostPerUnit,
		m.Category, m.Supplier, m.Notes)
	if err != nil {
		return fmt.Errorf("materials: update: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: material %s", shared.ErrNotFound, m.ID)
	}
	return nil
}

func (r *repository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*StockLevel, error) {
	var level StockLevel
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		newStock, err := stock.NewPgStore(tx).AddMaterialStock(ctx, id, delta)
		if err != nil {
			return err
		}
		var name string
		if err := tx.QueryRow(ctx, `SELECT name FROM materials WHERE id = $1`, id).Scan(&name); err != nil {
			return fmt.Errorf("materials: load name: %w", err)
		}
		level = StockLevel{ID: id, Name: name, CurrentStock: newStock}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// Delete removes a material. Recipe references restrict via FK; the
// violation surfaces as ErrConflict through the SQLSTATE mapping.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("materials: delete: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: material %s", shared.ErrNotFound, id)
	}
	return nil
}
