package materials

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material is a raw purchasing record. CostPerUnit is derived from the
// purchase totals, never set directly. CurrentStock has no zero floor.
type Material struct {
	ID                     uuid.UUID       `json:"id"`
	Name                   string          `json:"name"`
	Unit                   string          `json:"unit"`
	TotalQuantityPurchased decimal.Decimal `json:"total_quantity_purchased"`
	CurrentStock           decimal.Decimal `json:"current_stock"`
	LowStockAlert          decimal.Decimal `json:"low_stock_alert"`
	TotalCostPaid          decimal.Decimal `json:"total_cost_paid"`
	CostPerUnit            decimal.Decimal `json:"cost_per_unit"`
	Category               *string         `json:"category,omitempty"`
	Supplier               *string         `json:"supplier,omitempty"`
	Notes                  *string         `json:"notes,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

type StockLevel struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}
