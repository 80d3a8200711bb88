package products

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ThresholdSource yields the low-stock threshold. Wired to the settings
// service so the cutoff is operator-configurable.
type ThresholdSource interface {
	LowStockThreshold(ctx context.Context) (int, error)
}

type Service struct {
	repo       Repository
	thresholds ThresholdSource
	now        func() time.Time
}

func NewService(repo Repository, thresholds ThresholdSource) *Service {
	return &Service{repo: repo, thresholds: thresholds, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListLowStock(ctx context.Context) ([]Product, error) {
	threshold, err := s.thresholds.LowStockThreshold(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListLowStock(ctx, threshold)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *Service) buildRecipe(productID uuid.UUID, reqs []RecipeLineRequest, at time.Time) []ProductionMaterial {
	lines := make([]ProductionMaterial, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, ProductionMaterial{
			ID:           uuid.New(),
			ProductID:    productID,
			MaterialID:   r.MaterialID,
			MaterialName: r.MaterialName,
			Quantity:     r.Quantity,
			Unit:         r.Unit,
			CostPerUnit:  r.CostPerUnit,
			TotalCost:    r.CostPerUnit.Mul(r.Quantity).Round(2),
			CreatedAt:    at,
			UpdatedAt:    at,
		})
	}
	return lines
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	now := s.now().UTC()
	product := &Product{
		ID:             uuid.New(),
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Quantity:       req.Quantity,
		Category:       req.Category,
		Fragrance:      req.Fragrance,
		Weight:         req.Weight,
		ProductionCost: req.ProductionCost,
		ProfitMargin:   req.ProfitMargin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	product.Recipe = s.buildRecipe(product.ID, req.Recipe, now)

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.Insert(ctx, product); err != nil {
			return err
		}
		return tx.ReplaceRecipe(ctx, product.ID, product.Recipe)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Update rewrites the product header and replaces the recipe wholesale. A
// price change appends a price history row dated at the update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	priceChanged := !existing.Price.Equal(req.Price)

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Quantity = req.Quantity
	existing.Category = req.Category
	existing.Fragrance = req.Fragrance
	existing.Weight = req.Weight
	existing.ProductionCost = req.ProductionCost
	existing.ProfitMargin = req.ProfitMargin
	existing.UpdatedAt = now
	existing.Recipe = s.buildRecipe(id, req.Recipe, now)

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateHeader(ctx, existing); err != nil {
			return err
		}
		if err := tx.ReplaceRecipe(ctx, id, existing.Recipe); err != nil {
			return err
		}
		if priceChanged {
			entry := PriceEntry{
				ID:        uuid.New(),
				ProductID: id,
				Price:     req.Price,
				Date:      now,
				Reason:    req.PriceReason,
			}
			existing.PriceHistory = append(existing.PriceHistory, entry)
			return tx.InsertPriceEntry(ctx, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) UpdateStock(ctx context.Context, id uuid.UUID, delta int) (*StockLevel, error) {
	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.Delete(ctx, id)
	})
}
