package installments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estoque-erp/estoque-erp/internal/status"
)

// InstallmentPayment is a payment agreement split into numbered
// installments. The per-number statuses are generated once at creation and
// never regenerated, even if the header changes.
type InstallmentPayment struct {
	ID                 uuid.UUID                  `json:"id"`
	Description        string                     `json:"description"`
	TotalAmount        decimal.Decimal            `json:"total_amount"`
	Installments       int                        `json:"installments"`
	CurrentInstallment int                        `json:"current_installment"`
	InstallmentAmount  decimal.Decimal            `json:"installment_amount"`
	StartDate          time.Time                  `json:"start_date"`
	Category           status.InstallmentCategory `json:"category"`
	Notes              *string                    `json:"notes,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
	PaymentStatus      []PaymentStatus            `json:"payment_status"`
}

type PaymentStatus struct {
	ID                   uuid.UUID  `json:"id"`
	InstallmentPaymentID uuid.UUID  `json:"installment_payment_id"`
	InstallmentNumber    int        `json:"installment_number"`
	IsPaid               bool       `json:"is_paid"`
	PaidDate             *time.Time `json:"paid_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
