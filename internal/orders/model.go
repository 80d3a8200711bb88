package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estoque-erp/estoque-erp/internal/status"
)

// Order is a production order placed ahead of delivery. Stock is untouched
// until the order reaches delivered; until then items are a plan, not a
// reservation.
type Order struct {
	ID                   uuid.UUID             `json:"id"`
	CustomerID           uuid.UUID             `json:"customer_id"`
	CustomerName         string                `json:"customer_name"`
	Subtotal             decimal.Decimal       `json:"subtotal"`
	DiscountPercentage   decimal.Decimal       `json:"discount_percentage"`
	DiscountAmount       decimal.Decimal       `json:"discount_amount"`
	TotalAmount          decimal.Decimal       `json:"total_amount"`
	OrderDate            time.Time             `json:"order_date"`
	ExpectedDeliveryDate time.Time             `json:"expected_delivery_date"`
	DeliveredDate        *time.Time            `json:"delivered_date,omitempty"`
	Status               status.OrderStatus    `json:"status"`
	PaymentMethod        *status.PaymentMethod `json:"payment_method,omitempty"`
	Notes                *string               `json:"notes,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	Items                []Item                `json:"items"`
}

type Item struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}
