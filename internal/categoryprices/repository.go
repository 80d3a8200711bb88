package categoryprices

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estoque-erp/estoque-erp/internal/platform/db"
	"github.com/estoque-erp/estoque-erp/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*CategoryPrice, error)
	GetByName(ctx context.Context, name string) (*CategoryPrice, error)
	List(ctx context.Context) ([]CategoryPrice, error)
	NameTaken(ctx context.Context, name string, excluding uuid.UUID) (bool, error)
	Insert(ctx context.Context, cp *CategoryPrice) error
	Update(ctx context.Context, cp *CategoryPrice) error
	ApplyToProducts(ctx context.Context, cp *CategoryPrice) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryPriceColumns = `id, category_name, price, created_at, updated_at`

func scanCategoryPrice(row pgx.Row) (*CategoryPrice, error) {
	var cp CategoryPrice
	err := row.Scan(&cp.ID, &cp.CategoryName, &cp.Price, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*CategoryPrice, error) {
	query := fmt.Sprintf(`SELECT %s FROM category_prices WHERE id = $1`, categoryPriceColumns)
	cp, err := scanCategoryPrice(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: category price %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("categoryprices: get: %w", err)
	}
	return cp, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*CategoryPrice, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM category_prices WHERE lower(category_name) = lower($1)`,
		categoryPriceColumns)
	cp, err := scanCategoryPrice(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %q", shared.ErrNotFound, name)
		}
		return nil, fmt.Errorf("categoryprices: get by name: %w", err)
	}
	return cp, nil
}

func (r *repository) List(ctx context.Context) ([]CategoryPrice, error) {
	query := fmt.Sprintf(`SELECT %s FROM category_prices ORDER BY category_name`, categoryPriceColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("categoryprices: query: %w", err)
	}
	defer rows.Close()

	var result []CategoryPrice
	for rows.Next() {
		cp, err := scanCategoryPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("categoryprices: scan: %w", err)
		}
		result = append(result, *cp)
	}
	return result, rows.Err()
}

func (r *repository) NameTaken(ctx context.Context, name string, excluding uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM category_prices
			WHERE lower(category_name) = lower($1) AND id <> $2
		)`, name, excluding).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("categoryprices: check name: %w", err)
	}
	return exists, nil
}

func (r *repository) Insert(ctx context.Context, cp *CategoryPrice) error {
	const query = `
		INSERT INTO category_prices (id, category_name, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, cp.ID, cp.CategoryName, cp.Price, cp.CreatedAt, cp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("categoryprices: insert: %w", db.MapError(err))
	}
	return nil
}

func (r *repository) Update(ctx context.Context, cp *CategoryPrice) error {
	const query = `
		UPDATE category_prices SET category_name = $2, price = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, cp.ID, cp.CategoryName, cp.Price)
	if err != nil {
		return fmt.Errorf("categoryprices: update: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category price %s", shared.ErrNotFound, cp.ID)
	}
	return nil
}

// ApplyToProducts pushes the category price to every product in the
// category, case-insensitively, in one statement. Point-in-time apply:
// products joining the category later are untouched.
func (r *repository) ApplyToProducts(ctx context.Context, cp *CategoryPrice) (int, error) {
	const query = `
		UPDATE products SET price = $2, updated_at = now()
		WHERE category IS NOT NULL AND lower(category) = lower($1)`

	tag, err := r.pool.Exec(ctx, query, cp.CategoryName, cp.Price)
	if err != nil {
		return 0, fmt.Errorf("categoryprices: apply to products: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM category_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("categoryprices: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category price %s", shared.ErrNotFound, id)
	}
	return nil
}
