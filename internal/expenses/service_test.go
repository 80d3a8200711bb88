package expenses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
)

type mockRepository struct {
	expenses map[uuid.UUID]*Expense
}

func newMockRepository() *mockRepository {
	return &mockRepository{expenses: make(map[uuid.UUID]*Expense)}
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context) ([]Expense, error) {
	var out []Expense
	for _, e := range m.expenses {
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockRepository) ListByCategory(ctx context.Context, category status.ExpenseCategory) ([]Expense, error) {
	var out []Expense
	for _, e := range m.expenses {
		if e.Category == category {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]Expense, error) {
	var out []Expense
	for _, e := range m.expenses {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockRepository) ListRecurring(ctx context.Context) ([]Expense, error) {
	var out []Expense
	for _, e := range m.expenses {
		if e.IsRecurring {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockRepository) Insert(ctx context.Context, e *Expense) error {
	copied := *e
	m.expenses[e.ID] = &copied
	return nil
}

func (m *mockRepository) Update(ctx context.Context, e *Expense) error {
	if _, ok := m.expenses[e.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *e
	m.expenses[e.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.expenses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

func TestCreateExpenseNormalizesCategory(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	expense, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description: "electricity bill",
		Category:    "FixedCost",
		Amount:      decimal.NewFromInt(180),
		Date:        time.Now().UTC(),
		IsRecurring: true,
	})
	require.NoError(t, err)
	assert.Equal(t, status.ExpenseFixedCost, expense.Category)
	assert.Len(t, repo.expenses, 1)
}

func TestCreateExpenseRejectsUnknownCategory(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description: "misc",
		Category:    "luxuries",
		Amount:      decimal.NewFromInt(10),
		Date:        time.Now().UTC(),
	})
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
	assert.Empty(t, repo.expenses)
}

func TestListByCategoryParsesToken(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description: "wax restock", Category: "production",
		Amount: decimal.NewFromInt(200), Date: time.Now().UTC(),
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateExpenseRequest{
		Description: "rent", Category: "fixed_cost",
		Amount: decimal.NewFromInt(900), Date: time.Now().UTC(),
	})
	require.NoError(t, err)

	listed, err := svc.ListByCategory(context.Background(), "Production")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "wax restock", listed[0].Description)

	_, err = svc.ListByCategory(context.Background(), "groceries")
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestUpdateExpense(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	expense, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description: "rent", Category: "fixed_cost",
		Amount: decimal.NewFromInt(900), Date: time.Now().UTC(), IsRecurring: true,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), expense.ID, UpdateExpenseRequest{
		Description: "rent (new lease)", Category: "fixed_cost",
		Amount: decimal.NewFromInt(1050), Date: expense.Date, IsRecurring: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "rent (new lease)", updated.Description)
	assert.True(t, repo.expenses[expense.ID].Amount.Equal(decimal.NewFromInt(1050)))
}
