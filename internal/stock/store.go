package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/estoque-erp/estoque-erp/internal/platform/db"
	"github.com/estoque-erp/estoque-erp/internal/shared"
)

// PgStore runs ledger SQL against products and materials. It carries no
// transaction of its own: bind it to a pgx.Tx to make adjustments atomic
// with the surrounding aggregate mutation.
type PgStore struct {
	q db.Querier
}

func NewPgStore(q db.Querier) *PgStore {
	return &PgStore{q: q}
}

func (s *PgStore) ProductStock(ctx context.Context, id uuid.UUID) (ProductStock, error) {
	const query = `SELECT id, name, quantity FROM products WHERE id = $1`

	var p ProductStock
	err := s.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductStock{}, fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
		}
		return ProductStock{}, fmt.Errorf("stock: load product: %w", err)
	}
	return p, nil
}

func (s *PgStore) AddProductQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	const query = `UPDATE products SET quantity = quantity + $2, updated_at = now() WHERE id = $1`

	tag, err := s.q.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("stock: adjust product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
	}
	return nil
}

// AddMaterialStock applies a signed delta to a material's current stock and
// returns the new level. Raw-material stock has no zero floor: consumption
// is tracked loosely and may go negative.
func (s *PgStore) AddMaterialStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	const query = `
		UPDATE materials SET current_stock = current_stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING current_stock`

	var level decimal.Decimal
	err := s.q.QueryRow(ctx, query, id, delta).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: material %s", shared.ErrNotFound, id)
		}
		return decimal.Zero, fmt.Errorf("stock: adjust material: %w", err)
	}
	return level, nil
}
