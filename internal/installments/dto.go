package installments

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateInstallmentRequest struct {
	Description       string          `json:"description" validate:"required"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Installments      int             `json:"installments" validate:"required,gt=0"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	StartDate         time.Time       `json:"start_date" validate:"required"`
	Category          string          `json:"category" validate:"required"`
	Notes             *string         `json:"notes"`
}

// UpdateInstallmentRequest changes header fields only. The installment
// count is frozen at creation; the generated statuses are never rebuilt.
type UpdateInstallmentRequest struct {
	Description        string          `json:"description" validate:"required"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	CurrentInstallment int             `json:"current_installment" validate:"gte=0"`
	InstallmentAmount  decimal.Decimal `json:"installment_amount"`
	StartDate          time.Time       `json:"start_date" validate:"required"`
	Category           string          `json:"category" validate:"required"`
	Notes              *string         `json:"notes"`
}

// ToggleResult reports the state an installment number landed in.
type ToggleResult struct {
	InstallmentNumber int        `json:"installment_number"`
	IsPaid            bool       `json:"is_paid"`
	PaidDate          *time.Time `json:"paid_date,omitempty"`
}
