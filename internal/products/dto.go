package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecipeLineRequest struct {
	MaterialID   uuid.UUID       `json:"material_id" validate:"required"`
	MaterialName string          `json:"material_name" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"required"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
}

type CreateProductRequest struct {
	Name           string              `json:"name" validate:"required,max=255"`
	Description    *string             `json:"description"`
	Price          decimal.Decimal     `json:"price"`
	Quantity       int                 `json:"quantity" validate:"gte=0"`
	Category       *string             `json:"category" validate:"omitempty,max=100"`
	Fragrance      *string             `json:"fragrance" validate:"omitempty,max=100"`
	Weight         *string             `json:"weight" validate:"omitempty,max=50"`
	ProductionCost *decimal.Decimal    `json:"production_cost"`
	ProfitMargin   *decimal.Decimal    `json:"profit_margin"`
	Recipe         []RecipeLineRequest `json:"production_materials" validate:"dive"`
}

type UpdateProductRequest struct {
	Name           string              `json:"name" validate:"required,max=255"`
	Description    *string             `json:"description"`
	Price          decimal.Decimal     `json:"price"`
	Quantity       int                 `json:"quantity" validate:"gte=0"`
	Category       *string             `json:"category" validate:"omitempty,max=100"`
	Fragrance      *string             `json:"fragrance" validate:"omitempty,max=100"`
	Weight         *string             `json:"weight" validate:"omitempty,max=50"`
	ProductionCost *decimal.Decimal    `json:"production_cost"`
	ProfitMargin   *decimal.Decimal    `json:"profit_margin"`
	PriceReason    *string             `json:"price_reason"`
	Recipe         []RecipeLineRequest `json:"production_materials" validate:"dive"`
}

// UpdateStockRequest carries a signed delta. Manual corrections have no
// zero floor; only sale paths check availability.
type UpdateStockRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}
