package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Setting is the singleton row of operational knobs, seeded by migration.
type Setting struct {
	ID                uuid.UUID       `json:"id"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	CompanyName       string          `json:"company_name"`
	CompanyPhone      *string         `json:"company_phone,omitempty"`
	CompanyEmail      *string         `json:"company_email,omitempty"`
	CompanyAddress    *string         `json:"company_address,omitempty"`
	BirthdayDiscount  decimal.Decimal `json:"birthday_discount"`
	JarDiscount       decimal.Decimal `json:"jar_discount"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
