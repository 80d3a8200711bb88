package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estoque-erp/estoque-erp/internal/status"
)

type Expense struct {
	ID          uuid.UUID              `json:"id"`
	Description string                 `json:"description"`
	Category    status.ExpenseCategory `json:"category"`
	Amount      decimal.Decimal        `json:"amount"`
	Date        time.Time              `json:"date"`
	IsRecurring bool                   `json:"is_recurring"`
	Notes       *string                `json:"notes,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
