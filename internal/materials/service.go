package materials

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Material, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Material, error) {
	return s.repo.List(ctx)
}

// ListLowStock returns materials at or below their own alert level, unlike
// products which share one global threshold.
func (s *Service) ListLowStock(ctx context.Context) ([]Material, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]Material, error) {
	return s.repo.ListByCategory(ctx, category)
}

// costPerUnit derives the unit cost from purchase totals at 4 decimal
// places. Zero purchased quantity leaves the cost at zero.
func costPerUnit(totalCost, totalQuantity decimal.Decimal) decimal.Decimal {
	if totalQuantity.IsPositive() {
		return totalCost.DivRound(totalQuantity, 4)
	}
	return decimal.Zero
}

func (s *Service) Create(ctx context.Context, req CreateMaterialRequest) (*Material, error) {
	now := s.now().UTC()
	material := &Material{
		ID:                     uuid.New(),
		Name:                   req.Name,
		Unit:                   req.Unit,
		TotalQuantityPurchased: req.TotalQuantityPurchased,
		CurrentStock:           req.TotalQuantityPurchased,
		LowStockAlert:          req.LowStockAlert,
		TotalCostPaid:          req.TotalCostPaid,
		CostPerUnit:            costPerUnit(req.TotalCostPaid, req.TotalQuantityPurchased),
		Category:               req.Category,
		Supplier:               req.Supplier,
		Notes:                  req.Notes,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.repo.Insert(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateMaterialRequest) (*Material, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Unit = req.Unit
	existing.TotalQuantityPurchased = req.TotalQuantityPurchased
	existing.CurrentStock = req.CurrentStock
	existing.LowStockAlert = req.LowStockAlert
	existing.TotalCostPaid = req.TotalCostPaid
	existing.CostPerUnit = costPerUnit(req.TotalCostPaid, req.TotalQuantityPurchased)
	existing.Category = req.Category
	existing.Supplier = req.Supplier
	existing.Notes = req.Notes
	existing.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) UpdateStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*StockLevel, error) {
	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
