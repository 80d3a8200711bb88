package customers

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

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

// ListBirthdayMonth returns customers whose birthday falls in the current
// month, ordered by day.
func (s *Service) ListBirthdayMonth(ctx context.Context) ([]Customer, error) {
	return s.repo.ListBirthdayMonth(ctx, int(s.now().UTC().Month()))
}

func (s *Service) ListWithJarCredits(ctx context.Context) ([]Customer, error) {
	return s.repo.ListWithJarCredits(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	customer := &Customer{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		BirthDate: req.BirthDate,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.City = req.City
	existing.State = req.State
	existing.BirthDate = req.BirthDate

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) AdjustJarCredits(ctx context.Context, id uuid.UUID, delta int) (*CreditBalance, error) {
	return s.repo.AdjustJarCredits(ctx, id, delta)
}

// Delete removes a customer with no sale history. Customers referenced by
// sales are kept for the financial record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	hasSales, err := s.repo.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if hasSales {
		return fmt.Errorf("%w: customer has sales", shared.ErrConflict)
	}
	return s.repo.Delete(ctx, id)
}
