package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
	"github.com/estoque-erp/estoque-erp/internal/stock"
)

// Service coordinates sale aggregates with their stock side effects. Every
// multi-row mutation runs inside a single transaction: callers never observe
// a half-applied stock adjustment or a partial item set.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Sale, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Sale, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) ListToday(ctx context.Context) ([]Sale, error) {
	return s.repo.ListToday(ctx)
}

// ListPending returns sales still awaiting completion (pending or
// awaiting_payment), oldest first.
func (s *Service) ListPending(ctx context.Context) ([]Sale, error) {
	return s.repo.ListPending(ctx)
}

func (s *Service) buildItems(saleID uuid.UUID, reqs []ItemRequest, at time.Time) []Item {
	items := make([]Item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, Item{
			ID:          uuid.New(),
			SaleID:      saleID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			TotalPrice:  r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))).Round(2),
			CreatedAt:   at,
		})
	}
	return items
}

// Create persists a new sale and decrements product stock for every line,
// all-or-nothing. The first line that fails the availability check aborts
// the whole operation with no stock mutation.
func (s *Service) Create(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	saleStatus := status.SalePending
	if req.Status != "" {
		parsed, err := status.ParseSaleStatus(req.Status)
		if err != nil {
			return nil, err
		}
		saleStatus = parsed
	}
	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	saleDate := req.SaleDate
	if saleDate.IsZero() {
		saleDate = now
	}
	sale := &Sale{
		ID:                 uuid.New(),
		CustomerID:         req.CustomerID,
		CustomerName:       req.CustomerName,
		Subtotal:           req.Subtotal,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		TotalAmount:        req.TotalAmount,
		SaleDate:           saleDate,
		Status:             saleStatus,
		PaymentMethod:      method,
		Notes:              req.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	sale.Items = s.buildItems(sale.ID, req.Items, now)

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ledger := stock.NewLedger(tx)
		for _, item := range sale.Items {
			if err := ledger.Deduct(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return tx.Insert(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Update replaces a sale's header and item set. Stock moves only by the
// per-product difference between the old and new item sets: growing a line
// from 5 to 8 deducts 3, shrinking from 5 to 2 restores 3, removed products
// are fully credited back. Paid sales are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*Sale, error) {
	newStatus, err := status.ParseSaleStatus(req.Status)
	if err != nil {
		return nil, err
	}
	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var updated *Sale
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if existing.Status == status.SalePaid {
			return fmt.Errorf("%w: paid sales cannot be edited", shared.ErrConflict)
		}
		if !status.CanTransitionSale(existing.Status, newStatus) {
			return fmt.Errorf("%w: invalid transition %s -> %s", shared.ErrConflict, existing.Status, newStatus)
		}

		now := s.now().UTC()
		items := s.buildItems(id, req.Items, now)

		deltas := stock.Diff(QuantityByProduct(existing.Items), QuantityByProduct(items))
		if err := stock.NewLedger(tx).Apply(ctx, deltas); err != nil {
			return err
		}
		if err := tx.ReplaceItems(ctx, id, items); err != nil {
			return err
		}

		existing.CustomerID = req.CustomerID
		existing.CustomerName = req.CustomerName
		existing.Subtotal = req.Subtotal
		existing.DiscountPercentage = req.DiscountPercentage
		existing.DiscountAmount = req.DiscountAmount
		existing.TotalAmount = req.TotalAmount
		existing.SaleDate = req.SaleDate
		existing.Status = newStatus
		existing.PaymentMethod = method
		existing.Notes = req.Notes
		existing.UpdatedAt = now
		existing.Items = items

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

// UpdateStatus moves a sale along pending -> awaiting_payment -> paid, or to
// cancelled from a non-terminal state. Leaving paid is forbidden.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, token string) (*Sale, error) {
	next, err := status.ParseSaleStatus(token)
	if err != nil {
		return nil, err
	}

	var updated *Sale
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		sale, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !status.CanTransitionSale(sale.Status, next) {
			return fmt.Errorf("%w: invalid transition %s -> %s", shared.ErrConflict, sale.Status, next)
		}
		if err := tx.UpdateStatus(ctx, id, next); err != nil {
			return err
		}
		sale.Status = next
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a non-paid sale and credits every item's quantity back to
// its product, atomically with the removal.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		sale, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if sale.Status == status.SalePaid {
			return fmt.Errorf("%w: paid sales cannot be deleted", shared.ErrConflict)
		}
		ledger := stock.NewLedger(tx)
		for productID, qty := range QuantityByProduct(sale.Items) {
			if err := ledger.Restore(ctx, productID, qty); err != nil {
				return err
			}
		}
		return tx.Delete(ctx, id)
	})
}

func parsePaymentMethod(token *string) (*status.PaymentMethod, error) {
	if token == nil || *token == "" {
		return nil, nil
	}
	method, err := status.ParsePaymentMethod(*token)
	if err != nil {
		return nil, err
	}
	return &method, nil
}
