package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CreateSaleRequest struct {
	CustomerID         uuid.UUID       `json:"customer_id" validate:"required"`
	CustomerName       string          `json:"customer_name" validate:"required"`
	Items              []ItemRequest   `json:"items" validate:"required,min=1,dive"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	SaleDate           time.Time       `json:"sale_date"`
	Status             string          `json:"status"`
	PaymentMethod      *string         `json:"payment_method"`
	Notes              *string         `json:"notes"`
}

// UpdateSaleRequest carries the full replacement state for a sale edit,
// including the new item set.
type UpdateSaleRequest struct {
	CustomerID         uuid.UUID       `json:"customer_id" validate:"required"`
	CustomerName       string          `json:"customer_name" validate:"required"`
	Items              []ItemRequest   `json:"items" validate:"required,min=1,dive"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	SaleDate           time.Time       `json:"sale_date"`
	Status             string          `json:"status"`
	PaymentMethod      *string         `json:"payment_method"`
	Notes              *string         `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
