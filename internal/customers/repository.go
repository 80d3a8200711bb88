package customers

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
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	ListBirthdayMonth(ctx context.Context, month int) ([]Customer, error)
	ListWithJarCredits(ctx context.Context) ([]Customer, error)
	Insert(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	AdjustJarCredits(ctx context.Context, id uuid.UUID, delta int) (*CreditBalance, error)
	HasSales(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const customerColumns = `id, name, email, phone, address, city, state, birth_date,
	jar_credits, created_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City,
		&c.State, &c.BirthDate, &c.JarCredits, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) queryCustomers(ctx context.Context, query string, args ...any) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("customers: query: %w", err)
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("customers: scan: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, customerColumns)
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("customers: get: %w", err)
	}
	return c, nil
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers ORDER BY name`, customerColumns)
	return r.queryCustomers(ctx, query)
}

func (r *repository) ListBirthdayMonth(ctx context.Context, month int) ([]Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE birth_date IS NOT NULL AND EXTRACT(MONTH FROM birth_date) = $1
		ORDER BY EXTRACT(DAY FROM birth_date)`, customerColumns)
	return r.queryCustomers(ctx, query, month)
}

func (r *repository) ListWithJarCredits(ctx context.Context) ([]Customer, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM customers WHERE jar_credits > 0 ORDER BY jar_credits DESC`,
		customerColumns)
	return r.queryCustomers(ctx, query)
}

func (r *repository) Insert(ctx context.Context, c *Customer) error {
	const query = `
		INSERT INTO customers (id, name, email, phone, address, city, state,
			birth_date, jar_credits, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Address,
		c.City, c.State, c.BirthDate, c.JarCredits, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("customers: insert: %w", db.MapError(err))
	}
	return nil
}

func (r *repository) Update(ctx context.Context, c *Customer) error {
	const query = `
		UPDATE customers SET name = $2, email = $3, phone = $4, address = $5,
			city = $6, state = $7, birth_date = $8
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Address,
		c.City, c.State, c.BirthDate)
	if err != nil {
		return fmt.Errorf("customers: update: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %s", shared.ErrNotFound, c.ID)
	}
	return nil
}

// AdjustJarCredits applies a signed delta and clamps the balance at zero in
// the same statement.
func (r *repository) AdjustJarCredits(ctx context.Context, id uuid.UUID, delta int) (*CreditBalance, error) {
	const query = `
		UPDATE customers SET jar_credits = GREATEST(jar_credits + $2, 0)
		WHERE id = $1
		RETURNING id, name, jar_credits`

	var b CreditBalance
	err := r.pool.QueryRow(ctx, query, id, delta).Scan(&b.ID, &b.Name, &b.JarCredits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("customers: adjust credits: %w", err)
	}
	return &b, nil
}

func (r *repository) HasSales(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales WHERE customer_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("customers: check sales: %w", err)
	}
	return exists, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("customers: delete: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
	}
	return nil
}
