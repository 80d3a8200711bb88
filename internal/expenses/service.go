package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/estoque-erp/estoque-erp/internal/status"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Expense, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByCategory(ctx context.Context, token string) ([]Expense, error) {
	category, err := status.ParseExpenseCategory(token)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCategory(ctx, category)
}

func (s *Service) ListByDateRange(ctx context.Context, start, end time.Time) ([]Expense, error) {
	return s.repo.ListByDateRange(ctx, start, end)
}

func (s *Service) ListRecurring(ctx context.Context) ([]Expense, error) {
	return s.repo.ListRecurring(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateExpenseRequest) (*Expense, error) {
	category, err := status.ParseExpenseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	expense := &Expense{
		ID:          uuid.New(),
		Description: req.Description,
		Category:    category,
		Amount:      req.Amount,
		Date:        req.Date,
		IsRecurring: req.IsRecurring,
		Notes:       req.Notes,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*Expense, error) {
	category, err := status.ParseExpenseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Description = req.Description
	existing.Category = category
	existing.Amount = req.Amount
	existing.Date = req.Date
	existing.IsRecurring = req.IsRecurring
	existing.Notes = req.Notes

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
