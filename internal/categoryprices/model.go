package categoryprices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryPrice maps a category name (unique, case-insensitive) to a price
// that can be pushed to every product in that category on demand.
type CategoryPrice struct {
	ID           uuid.UUID       `json:"id"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ApplyResult reports how many products a bulk price apply touched.
type ApplyResult struct {
	UpdatedCount int `json:"updated_count"`
}
