package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

type Repository interface {
	Get(ctx context.Context) (*Setting, error)
	Update(ctx context.Context, s *Setting) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const settingColumns = `id, low_stock_threshold, company_name, company_phone,
	company_email, company_address, birthday_discount, jar_discount,
	created_at, updated_at`

func (r *repository) Get(ctx context.Context) (*Setting, error) {
	query := fmt.Sprintf(`SELECT %s FROM settings LIMIT 1`, settingColumns)

	var s Setting
	err := r.pool.QueryRow(ctx, query).Scan(&s.ID, &s.LowStockThreshold,
		&s.CompanyName, &s.CompanyPhone, &s.CompanyEmail, &s.CompanyAddress,
		&s.BirthdayDiscount, &s.JarDiscount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: settings row missing", shared.ErrNotFound)
		}
		return nil, fmt.Errorf("settings: get: %w", err)
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Setting) error {
	const query = `
		UPDATE settings SET low_stock_threshold = $2, company_name = $3,
			company_phone = $4, company_email = $5, company_address = $6,
			birthday_discount = $7, jar_discount = $8, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, s.ID, s.LowStockThreshold, s.CompanyName,
		s.CompanyPhone, s.CompanyEmail, s.CompanyAddress, s.BirthdayDiscount, s.JarDiscount)
	if err != nil {
		return fmt.Errorf("settings: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: settings row missing", shared.ErrNotFound)
	}
	return nil
}
