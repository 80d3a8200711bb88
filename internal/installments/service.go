package installments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*InstallmentPayment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]InstallmentPayment, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByCategory(ctx context.Context, token string) ([]InstallmentPayment, error) {
	category, err := status.ParseInstallmentCategory(token)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCategory(ctx, category)
}

// ListPending returns agreements that still carry at least one unpaid
// installment.
func (s *Service) ListPending(ctx context.Context) ([]InstallmentPayment, error) {
	return s.repo.ListPending(ctx)
}

// Create persists the agreement and generates one status row per
// installment number, 1..N, in the same transaction.
func (s *Service) Create(ctx context.Context, req CreateInstallmentRequest) (*InstallmentPayment, error) {
	category, err := status.ParseInstallmentCategory(req.Category)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ip := &InstallmentPayment{
		ID:                 uuid.New(),
		Description:        req.Description,
		TotalAmount:        req.TotalAmount,
		Installments:       req.Installments,
		CurrentInstallment: 1,
		InstallmentAmount:  req.InstallmentAmount,
		StartDate:          req.StartDate,
		Category:           category,
		Notes:              req.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for n := 1; n <= req.Installments; n++ {
		ip.PaymentStatus = append(ip.PaymentStatus, PaymentStatus{
			ID:                   uuid.New(),
			InstallmentPaymentID: ip.ID,
			InstallmentNumber:    n,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.Insert(ctx, ip)
	})
	if err != nil {
		return nil, err
	}
	return ip, nil
}

// Update rewrites header fields. The installment count and the generated
// statuses stay as created.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateInstallmentRequest) (*InstallmentPayment, error) {
	category, err := status.ParseInstallmentCategory(req.Category)
	if err != nil {
		return nil, err
	}

	var updated *InstallmentPayment
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}

		existing.Description = req.Description
		existing.TotalAmount = req.TotalAmount
		if req.CurrentInstallment > 0 {
			existing.CurrentInstallment = req.CurrentInstallment
		}
		existing.InstallmentAmount = req.InstallmentAmount
		existing.StartDate = req.StartDate
		existing.Category = category
		existing.Notes = req.Notes
		existing.UpdatedAt = s.now().UTC()

		if err := tx.UpdateHeader(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TogglePayment flips the paid flag of one installment number. Paying
// stamps the paid date; unpaying clears it. Unknown numbers are NotFound.
func (s *Service) TogglePayment(ctx context.Context, id uuid.UUID, number int) (*ToggleResult, error) {
	var result *ToggleResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ip, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}

		var target *PaymentStatus
		for i := range ip.PaymentStatus {
			if ip.PaymentStatus[i].InstallmentNumber == number {
				target = &ip.PaymentStatus[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("%w: installment number %d", shared.ErrNotFound, number)
		}

		target.IsPaid = !target.IsPaid
		if target.IsPaid {
			now := s.now().UTC()
			target.PaidDate = &now
		} else {
			target.PaidDate = nil
		}
		target.UpdatedAt = s.now().UTC()

		if err := tx.UpdatePaymentStatus(ctx, target); err != nil {
			return err
		}
		result = &ToggleResult{
			InstallmentNumber: number,
			IsPaid:            target.IsPaid,
			PaidDate:          target.PaidDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.Delete(ctx, id)
	})
}
