package orders

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

type CreateOrderRequest struct {
	CustomerID           uuid.UUID       `json:"customer_id" validate:"required"`
	CustomerName         string          `json:"customer_name" validate:"required"`
	Items                []ItemRequest   `json:"items" validate:"required,min=1,dive"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	OrderDate            time.Time       `json:"order_date"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date"`
	Status               string          `json:"status"`
	PaymentMethod        *string         `json:"payment_method"`
	Notes                *string         `json:"notes"`
}

type UpdateOrderRequest struct {
	CustomerID           uuid.UUID       `json:"customer_id" validate:"required"`
	CustomerName         string          `json:"customer_name" validate:"required"`
	Items                []ItemRequest   `json:"items" validate:"required,min=1,dive"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	OrderDate            time.Time       `json:"order_date"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date"`
	Status               string          `json:"status"`
	PaymentMethod        *string         `json:"payment_method"`
	Notes                *string         `json:"notes"`
}

// UpdateStatusRequest optionally carries a payment method so the delivered
// transition can record how the customer paid.
type UpdateStatusRequest struct {
	Status        string  `json:"status" validate:"required"`
	PaymentMethod *string `json:"payment_method"`
}
