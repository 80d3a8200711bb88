package installments

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
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id uuid.UUID) (*InstallmentPayment, error)
	List(ctx context.Context) ([]InstallmentPayment, error)
	ListByCategory(ctx context.Context, category status.InstallmentCategory) ([]InstallmentPayment, error)
	ListPending(ctx context.Context) ([]InstallmentPayment, error)
}

type TxRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*InstallmentPayment, error)
	Insert(ctx context.Context, ip *InstallmentPayment) error
	UpdateHeader(ctx context.Context, ip *InstallmentPayment) error
	UpdatePaymentStatus(ctx context.Context, ps *PaymentStatus) error
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

const installmentColumns = `id, description, total_amount, installments,
	current_installment, installment_amount, start_date, category, notes,
	created_at, updated_at`

func scanInstallment(row pgx.Row) (*InstallmentPayment, error) {
	var ip InstallmentPayment
	var category string
	err := row.Scan(&ip.ID, &ip.Description, &ip.TotalAmount, &ip.Installments,
		&ip.CurrentInstallment, &ip.InstallmentAmount, &ip.StartDate, &category,
		&ip.Notes, &ip.CreatedAt, &ip.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ip.Category = status.InstallmentCategory(category)
	return &ip, nil
}

func queryInstallments(ctx context.Context, q db.Querier, query string, args ...any) ([]InstallmentPayment, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("installments: query: %w", err)
	}
	defer rows.Close()

	var result []InstallmentPayment
	for rows.Next() {
		ip, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("installments: scan: %w", err)
		}
		result = append(result, *ip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachStatuses(ctx, q, result); err != nil {
		return nil, err
	}
	return result, nil
}

func attachStatuses(ctx context.Context, q db.Querier, payments []InstallmentPayment) error {
	if len(payments) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(payments))
	index := make(map[uuid.UUID]*InstallmentPayment, len(payments))
	for i := range payments {
		ids[i] = payments[i].ID
		index[payments[i].ID] = &payments[i]
	}

	const query = `
		SELECT id, installment_payment_id, installment_number, is_paid, paid_date,
			created_at, updated_at
		FROM installment_payment_status
		WHERE installment_payment_id = ANY($1)
		ORDER BY installment_number`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("installments: load statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ps PaymentStatus
		if err := rows.Scan(&ps.ID, &ps.InstallmentPaymentID, &ps.InstallmentNumber,
			&ps.IsPaid, &ps.PaidDate, &ps.CreatedAt, &ps.UpdatedAt); err != nil {
			return fmt.Errorf("installments: scan status: %w", err)
		}
		if ip, ok := index[ps.InstallmentPaymentID]; ok {
			ip.PaymentStatus = append(ip.PaymentStatus, ps)
		}
	}
	return rows.Err()
}

func getInstallment(ctx context.Context, q db.Querier, id uuid.UUID) (*InstallmentPayment, error) {
	query := fmt.Sprintf(`SELECT %s FROM installment_payments WHERE id = $1`, installmentColumns)
	ip, err := scanInstallment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: installment %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("installments: get: %w", err)
	}
	list := []InstallmentPayment{*ip}
	if err := attachStatuses(ctx, q, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*InstallmentPayment, error) {
	return getInstallment(ctx, r.pool, id)
}

func (r *repository) List(ctx context.Context) ([]InstallmentPayment, error) {
	query := fmt.Sprintf(`SELECT %s FROM installment_payments ORDER BY start_date DESC`, installmentColumns)
	return queryInstallments(ctx, r.pool, query)
}

func (r *repository) ListByCategory(ctx context.Context, category status.InstallmentCategory) ([]InstallmentPayment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM installment_payments WHERE category = $1 ORDER BY start_date DESC`,
		installmentColumns)
	return queryInstallments(ctx, r.pool, query, string(category))
}

// ListPending returns agreements with at least one unpaid installment.
func (r *repository) ListPending(ctx context.Context) ([]InstallmentPayment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM installment_payments ip
		WHERE EXISTS (
			SELECT 1 FROM installment_payment_status ps
			WHERE ps.installment_payment_id = ip.id AND NOT ps.is_paid
		)
		ORDER BY start_date DESC`, installmentColumns)
	return queryInstallments(ctx, r.pool, query)
}

type txRepository struct {
	q db.Querier
}

func (r *txRepository) Get(ctx context.Context, id uuid.UUID) (*InstallmentPayment, error) {
	return getInstallment(ctx, r.q, id)
}

func (r *txRepository) Insert(ctx context.Context, ip *InstallmentPayment) error {
	const query = `
		INSERT INTO installment_payments (id, description, total_amount, installments,
			current_installment, installment_amount, start_date, category, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.q.Exec(ctx, query, ip.ID, ip.Description, ip.TotalAmount, ip.Installments,
		ip.CurrentInstallment, ip.InstallmentAmount, ip.StartDate, string(ip.Category),
		ip.Notes, ip.CreatedAt, ip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("installments: insert: %w", err)
	}

	const statusQuery = `
		INSERT INTO installment_payment_status (id, installment_payment_id,
			installment_number, is_paid, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, ps := range ip.PaymentStatus {
		_, err := r.q.Exec(ctx, statusQuery, ps.ID, ps.InstallmentPaymentID,
			ps.InstallmentNumber, ps.IsPaid, ps.PaidDate, ps.CreatedAt, ps.UpdatedAt)
		if err != nil {
			return fmt.Errorf("installments: insert status: %w", err)
		}
	}
	return nil
}

func (r *txRepository) UpdateHeader(ctx context.Context, ip *InstallmentPayment) error {
	const query = `
		UPDATE installment_payments SET description = $2, total_amount = $3,
			current_installment = $4, installment_amount = $5, start_date = $6,
			category = $7, notes = $8, updated_at = now()
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, ip.ID, ip.Description, ip.TotalAmount,
		ip.CurrentInstallment, ip.InstallmentAmount, ip.StartDate,
		string(ip.Category), ip.Notes)
	if err != nil {
		return fmt.Errorf("installments: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: installment %s", shared.ErrNotFound, ip.ID)
	}
	return nil
}

func (r *txRepository) UpdatePaymentStatus(ctx context.Context, ps *PaymentStatus) error {
	const query = `
		UPDATE installment_payment_status SET is_paid = $2, paid_date = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, ps.ID, ps.IsPaid, ps.PaidDate)
	if err != nil {
		return fmt.Errorf("installments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: installment status %s", shared.ErrNotFound, ps.ID)
	}
	return nil
}

// Delete removes the agreement; per-number statuses cascade via FK.
func (r *txRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM installment_payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("installments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: installment %s", shared.ErrNotFound, id)
	}
	return nil
}
