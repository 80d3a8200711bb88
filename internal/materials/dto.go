package materials

import "github.com/shopspring/decimal"

type CreateMaterialRequest struct {
	Name                   string          `json:"name" validate:"required,max=255"`
	Unit                   string          `json:"unit" validate:"required,max=50"`
	TotalQuantityPurchased decimal.Decimal `json:"total_quantity_purchased"`
	LowStockAlert          decimal.Decimal `json:"low_stock_alert"`
	TotalCostPaid          decimal.Decimal `json:"total_cost_paid"`
	Category               *string         `json:"category" validate:"omitempty,max=100"`
	Supplier               *string         `json:"supplier" validate:"omitempty,max=255"`
	Notes                  *string         `json:"notes"`
}

type UpdateMaterialRequest struct {
	Name                   string          `json:"name" validate:"required,max=255"`
	Unit                   string          `json:"unit" validate:"required,max=50"`
	TotalQuantityPurchased decimal.Decimal `json:"total_quantity_purchased"`
	CurrentStock           decimal.Decimal `json:"current_stock"`
	LowStockAlert          decimal.Decimal `json:"low_stock_alert"`
	TotalCostPaid          decimal.Decimal `json:"total_cost_paid"`
	Category               *string         `json:"category" validate:"omitempty,max=100"`
	Supplier               *string         `json:"supplier" validate:"omitempty,max=255"`
	Notes                  *string         `json:"notes"`
}

// UpdateStockRequest carries a signed quantity delta. Negative results are
// allowed: material consumption is tracked loosely.
type UpdateStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}
