package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estoque-erp/estoque-erp/internal/status"
)

// Sale is the aggregate root for a point-of-sale transaction. Items are
// owned rows and live and die with the sale.
type Sale struct {
	ID                 uuid.UUID             `json:"id"`
	CustomerID         uuid.UUID             `json:"customer_id"`
	CustomerName       string                `json:"customer_name"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	DiscountPercentage decimal.Decimal       `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal       `json:"discount_amount"`
	TotalAmount        decimal.Decimal       `json:"total_amount"`
	SaleDate           time.Time             `json:"sale_date"`
	Status             status.SaleStatus     `json:"status"`
	PaymentMethod      *status.PaymentMethod `json:"payment_method,omitempty"`
	Notes              *string               `json:"notes,omitempty"`
	FromOrder          bool                  `json:"from_order"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	Items              []Item                `json:"items"`
}

// Item is a single product line within a sale and the unit of stock
// decrement.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	SaleID      uuid.UUID       `json:"sale_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// QuantityByProduct folds the item list into a product -> quantity map,
// summing duplicate lines for the same product.
func QuantityByProduct(items []Item) map[uuid.UUID]int {
	m := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		m[it.ProductID] += it.Quantity
	}
	return m
}
