package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

// Querier is the subset of pgx operations shared by pools and transactions.
// Repositories accept it so the same SQL runs inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithTx executes fn within a transaction using the RepeatableRead isolation
// level. Any error rolls the whole transaction back.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return MapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", MapError(err))
	}

	return nil
}

// MapError translates PostgreSQL SQLSTATE codes into the domain taxonomy.
// Unique violations become conflicts, foreign key restrictions become
// conflicts (restrict-delete), serialization failures become concurrency
// errors. Everything else passes through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: referenced by %s", shared.ErrConflict, pgErr.ConstraintName)
		case "40001", "40P01":
			return shared.ErrConcurrency
		}
	}
	return err
}
