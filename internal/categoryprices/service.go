package categoryprices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CategoryPrice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (*CategoryPrice, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *Service) List(ctx context.Context) ([]CategoryPrice, error) {
	return s.repo.List(ctx)
}

// Create rejects names already taken case-insensitively. The pre-check is
// backed by a lower(category_name) unique index, so a racing duplicate
// still lands as ErrConflict from the insert itself.
func (s *Service) Create(ctx context.Context, req CreateCategoryPriceRequest) (*CategoryPrice, error) {
	taken, err := s.repo.NameTaken(ctx, req.CategoryName, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: category %q already exists", shared.ErrConflict, req.CategoryName)
	}

	now := s.now().UTC()
	cp := &CategoryPrice{
		ID:           uuid.New(),
		CategoryName: req.CategoryName,
		Price:        req.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryPriceRequest) (*CategoryPrice, error) {
	taken, err := s.repo.NameTaken(ctx, req.CategoryName, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: category %q already exists", shared.ErrConflict, req.CategoryName)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.CategoryName = req.CategoryName
	existing.Price = req.Price
	existing.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ApplyToProducts sets the category's price on every matching product and
// returns the number of products updated.
func (s *Service) ApplyToProducts(ctx context.Context, id uuid.UUID) (*ApplyResult, error) {
	cp, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.ApplyToProducts(ctx, cp)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{UpdatedCount: count}, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
