package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateExpenseRequest struct {
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date" validate:"required"`
	IsRecurring bool            `json:"is_recurring"`
	Notes       *string         `json:"notes"`
}

type UpdateExpenseRequest struct {
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date" validate:"required"`
	IsRecurring bool            `json:"is_recurring"`
	Notes       *string         `json:"notes"`
}
