package categoryprices

import "github.com/shopspring/decimal"

type CreateCategoryPriceRequest struct {
	CategoryName string          `json:"category_name" validate:"required,max=100"`
	Price        decimal.Decimal `json:"price"`
}

type UpdateCategoryPriceRequest struct {
	CategoryName string          `json:"category_name" validate:"required,max=100"`
	Price        decimal.Decimal `json:"price"`
}
