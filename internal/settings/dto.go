package settings

import "github.com/shopspring/decimal"

type UpdateSettingRequest struct {
	LowStockThreshold int             `json:"low_stock_threshold" validate:"gte=0"`
	CompanyName       string          `json:"company_name" validate:"required,max=255"`
	CompanyPhone      *string         `json:"company_phone" validate:"omitempty,max=20"`
	CompanyEmail      *string         `json:"company_email" validate:"omitempty,email,max=255"`
	CompanyAddress    *string         `json:"company_address"`
	BirthdayDiscount  decimal.Decimal `json:"birthday_discount"`
	JarDiscount       decimal.Decimal `json:"jar_discount"`
}
