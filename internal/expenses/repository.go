package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estoque-erp/estoque-erp/internal/platform/db"
	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Expense, error)
	List(ctx context.Context) ([]Expense, error)
	ListByCategory(ctx context.Context, category status.ExpenseCategory) ([]Expense, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Expense, error)
	ListRecurring(ctx context.Context) ([]Expense, error)
	Insert(ctx context.Context, e *Expense) error
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const expenseColumns = `id, description, category, amount, date, is_recurring, notes, created_at`

func scanExpense(row pgx.Row) (*Expense, error) {
	var e Expense
	var category string
	err := row.Scan(&e.ID, &e.Description, &category, &e.Amount, &e.Date,
		&e.IsRecurring, &e.Notes, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Category = status.ExpenseCategory(category)
	return &e, nil
}

func (r *repository) queryExpenses(ctx context.Context, query string, args ...any) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expenses: query: %w", err)
	}
	defer rows.Close()

	var result []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("expenses: scan: %w", err)
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE id = $1`, expenseColumns)
	e, err := scanExpense(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: expense %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("expenses: get: %w", err)
	}
	return e, nil
}

func (r *repository) List(ctx context.Context) ([]Expense, error) {
	query := fmt.Sprintf(`SELECT %s FROM expenses ORDER BY date DESC`, expenseColumns)
	return r.queryExpenses(ctx, query)
}

func (r *repository) ListByCategory(ctx context.Context, category status.ExpenseCategory) ([]Expense, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM expenses WHERE category = $1 ORDER BY date DESC`, expenseColumns)
	return r.queryExpenses(ctx, query, string(category))
}

func (r *repository) ListByDateRange(ctx context.Context, start, end time.Time) ([]Expense, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM expenses WHERE date >= $1 AND date <= $2 ORDER BY date DESC`,
		expenseColumns)
	return r.queryExpenses(ctx, query, start, end)
}

func (r *repository) ListRecurring(ctx context.Context) ([]Expense, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM expenses WHERE is_recurring ORDER BY description`, expenseColumns)
	return r.queryExpenses(ctx, query)
}

func (r *repository) Insert(ctx context.Context, e *Expense) error {
	const query = `
		INSERT INTO expenses (id, description, category, amount, date, is_recurring,
			notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query, e.ID, e.Description, string(e.Category),
		e.Amount, e.Date, e.IsRecurring, e.Notes, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("expenses: insert: %w", db.MapError(err))
	}
	return nil
}

func (r *repository) Update(ctx context.Context, e *Expense) error {
	const query = `
		UPDATE expenses SET description = $2, category = $3, amount = $4, date = $5,
			is_recurring = $6, notes = $7
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, e.ID, e.Description, string(e.Category),
		e.Amount, e.Date, e.IsRecurring, e.Notes)
	if err != nil {
		return fmt.Errorf("expenses: update: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", shared.ErrNotFound, e.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("expenses: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", shared.ErrNotFound, id)
	}
	return nil
}
