package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    *string          `json:"description,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	Quantity       int              `json:"quantity"`
	Category       *string          `json:"category,omitempty"`
	Fragrance      *string          `json:"fragrance,omitempty"`
	Weight         *string          `json:"weight,omitempty"`
	ProductionCost *decimal.Decimal `json:"production_cost,omitempty"`
	ProfitMargin   *decimal.Decimal `json:"profit_margin,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Recipe       []ProductionMaterial `json:"production_materials"`
	PriceHistory []PriceEntry         `json:"price_history"`
}

// ProductionMaterial is one bill-of-materials line. Name, unit and cost are
// snapshots taken when the recipe was saved, not live material lookups.
type ProductionMaterial struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type PriceEntry struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Date      time.Time       `json:"date"`
	Reason    *string         `json:"reason,omitempty"`
}

// StockLevel is the shape returned by the update-stock endpoint.
type StockLevel struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
}
